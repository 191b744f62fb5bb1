package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type customerService struct {
	pool *pgxpool.Pool
}

// NewCustomerService constructs a CustomerService backed by PostgreSQL.
func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

func (s *customerService) CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error) {
	if input.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if input.CreditLimit.IsNegative() {
		return nil, &ValidationError{Field: "credit_limit", Reason: "must not be negative"}
	}

	var id int
	if err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (name, contact_person, phone, email, address, gstin, credit_limit, payment_terms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING customer_id`,
		input.Name, input.ContactPerson, input.Phone, input.Email,
		input.Address, input.GSTIN, input.CreditLimit.Round(2), input.PaymentTerms,
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return s.GetCustomer(ctx, id)
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int, input CustomerInput) (*Customer, error) {
	if input.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if input.CreditLimit.IsNegative() {
		return nil, &ValidationError{Field: "credit_limit", Reason: "must not be negative"}
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE customers
		SET name = $1, contact_person = $2, phone = $3, email = $4,
		    address = $5, gstin = $6, credit_limit = $7, payment_terms = $8
		WHERE customer_id = $9`,
		input.Name, input.ContactPerson, input.Phone, input.Email,
		input.Address, input.GSTIN, input.CreditLimit.Round(2), input.PaymentTerms, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("update customer %d: %w", customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Entity: "customer", ID: customerID}
	}
	return s.GetCustomer(ctx, customerID)
}

// DeleteCustomer removes a customer that no sales order or invoice references.
func (s *customerService) DeleteCustomer(ctx context.Context, customerID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM customers WHERE customer_id = $1)", customerID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check customer %d: %w", customerID, err)
	}
	if !exists {
		return &NotFoundError{Entity: "customer", ID: customerID}
	}

	var orders, invoices int
	if err := tx.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM sales_orders WHERE customer_id = $1),
		       (SELECT COUNT(*) FROM invoices     WHERE customer_id = $1)`,
		customerID,
	).Scan(&orders, &invoices); err != nil {
		return fmt.Errorf("count references to customer %d: %w", customerID, err)
	}
	if orders+invoices > 0 {
		refs := map[string]int{}
		if orders > 0 {
			refs["sales_orders"] = orders
		}
		if invoices > 0 {
			refs["invoices"] = invoices
		}
		return &ReferentialIntegrityError{Entity: "customer", ID: customerID, References: refs}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM customers WHERE customer_id = $1", customerID); err != nil {
		return fmt.Errorf("delete customer %d: %w", customerID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit customer delete: %w", err)
	}
	return nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int) (*Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		SELECT customer_id, name, contact_person, phone, email, address, gstin, credit_limit, payment_terms, created_at
		FROM customers
		WHERE customer_id = $1`,
		customerID,
	).Scan(
		&c.ID, &c.Name, &c.ContactPerson, &c.Phone, &c.Email,
		&c.Address, &c.GSTIN, &c.CreditLimit, &c.PaymentTerms, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "customer", ID: customerID}
		}
		return nil, fmt.Errorf("get customer %d: %w", customerID, err)
	}
	return &c, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT customer_id, name, contact_person, phone, email, address, gstin, credit_limit, payment_terms, created_at
		FROM customers
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(
			&c.ID, &c.Name, &c.ContactPerson, &c.Phone, &c.Email,
			&c.Address, &c.GSTIN, &c.CreditLimit, &c.PaymentTerms, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
