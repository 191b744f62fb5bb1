package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompanyDetails is the single company profile, stored as row id=1.
type CompanyDetails struct {
	CompanyName        string
	LegalName          string
	GSTIN              string
	PAN                string
	AddressLine1       string
	AddressLine2       string
	City               string
	State              string
	Pincode            string
	Country            string
	Phone              string
	Email              string
	Website            string
	FinancialYearStart string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CompanyService manages the singleton company profile.
type CompanyService interface {
	CompanyExists(ctx context.Context) (bool, error)
	GetCompanyDetails(ctx context.Context) (*CompanyDetails, error)
	// SaveCompanyDetails inserts the profile on first call and updates it
	// afterwards. There is never more than one row.
	SaveCompanyDetails(ctx context.Context, details CompanyDetails) error
}

type companyService struct {
	pool *pgxpool.Pool
}

// NewCompanyService constructs a CompanyService backed by PostgreSQL.
func NewCompanyService(pool *pgxpool.Pool) CompanyService {
	return &companyService{pool: pool}
}

func (s *companyService) CompanyExists(ctx context.Context) (bool, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM company_details WHERE id = 1)",
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check company details: %w", err)
	}
	return exists, nil
}

func (s *companyService) GetCompanyDetails(ctx context.Context) (*CompanyDetails, error) {
	var cd CompanyDetails
	err := s.pool.QueryRow(ctx, `
		SELECT company_name, COALESCE(legal_name, ''), COALESCE(gstin, ''), COALESCE(pan, ''),
		       COALESCE(address_line1, ''), COALESCE(address_line2, ''),
		       COALESCE(city, ''), COALESCE(state, ''), COALESCE(pincode, ''), country,
		       COALESCE(phone, ''), COALESCE(email, ''), COALESCE(website, ''),
		       COALESCE(financial_year_start, ''), created_at, updated_at
		FROM company_details
		WHERE id = 1`,
	).Scan(
		&cd.CompanyName, &cd.LegalName, &cd.GSTIN, &cd.PAN,
		&cd.AddressLine1, &cd.AddressLine2,
		&cd.City, &cd.State, &cd.Pincode, &cd.Country,
		&cd.Phone, &cd.Email, &cd.Website,
		&cd.FinancialYearStart, &cd.CreatedAt, &cd.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "company_details", ID: 1}
		}
		return nil, fmt.Errorf("get company details: %w", err)
	}
	return &cd, nil
}

func (s *companyService) SaveCompanyDetails(ctx context.Context, details CompanyDetails) error {
	if details.CompanyName == "" {
		return &ValidationError{Field: "company_name", Reason: "must not be empty"}
	}
	country := details.Country
	if country == "" {
		country = "India"
	}

	if _, err := s.pool.Exec(ctx, `
		INSERT INTO company_details (id, company_name, legal_name, gstin, pan,
		                             address_line1, address_line2, city, state, pincode, country,
		                             phone, email, website, financial_year_start)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			legal_name = EXCLUDED.legal_name,
			gstin = EXCLUDED.gstin,
			pan = EXCLUDED.pan,
			address_line1 = EXCLUDED.address_line1,
			address_line2 = EXCLUDED.address_line2,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			pincode = EXCLUDED.pincode,
			country = EXCLUDED.country,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			website = EXCLUDED.website,
			financial_year_start = EXCLUDED.financial_year_start,
			updated_at = NOW()`,
		details.CompanyName, details.LegalName, details.GSTIN, details.PAN,
		details.AddressLine1, details.AddressLine2, details.City, details.State,
		details.Pincode, country, details.Phone, details.Email, details.Website,
		details.FinancialYearStart,
	); err != nil {
		return fmt.Errorf("save company details: %w", err)
	}
	return nil
}
