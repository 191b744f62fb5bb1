package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type supplierService struct {
	pool *pgxpool.Pool
}

// NewSupplierService constructs a SupplierService backed by PostgreSQL.
func NewSupplierService(pool *pgxpool.Pool) SupplierService {
	return &supplierService{pool: pool}
}

func (s *supplierService) CreateSupplier(ctx context.Context, input SupplierInput) (*Supplier, error) {
	if input.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	var id int
	if err := s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, contact_person, phone, email, address, gstin, payment_terms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING supplier_id`,
		input.Name, input.ContactPerson, input.Phone, input.Email,
		input.Address, input.GSTIN, input.PaymentTerms,
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert supplier: %w", err)
	}
	return s.GetSupplier(ctx, id)
}

func (s *supplierService) UpdateSupplier(ctx context.Context, supplierID int, input SupplierInput) (*Supplier, error) {
	if input.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE suppliers
		SET name = $1, contact_person = $2, phone = $3, email = $4,
		    address = $5, gstin = $6, payment_terms = $7
		WHERE supplier_id = $8`,
		input.Name, input.ContactPerson, input.Phone, input.Email,
		input.Address, input.GSTIN, input.PaymentTerms, supplierID,
	)
	if err != nil {
		return nil, fmt.Errorf("update supplier %d: %w", supplierID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Entity: "supplier", ID: supplierID}
	}
	return s.GetSupplier(ctx, supplierID)
}

// DeleteSupplier removes a supplier that no purchase order or receipt references.
func (s *supplierService) DeleteSupplier(ctx context.Context, supplierID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM suppliers WHERE supplier_id = $1)", supplierID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check supplier %d: %w", supplierID, err)
	}
	if !exists {
		return &NotFoundError{Entity: "supplier", ID: supplierID}
	}

	var orders, receipts int
	if err := tx.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM purchase_orders WHERE supplier_id = $1),
		       (SELECT COUNT(*) FROM goods_receipts  WHERE supplier_id = $1)`,
		supplierID,
	).Scan(&orders, &receipts); err != nil {
		return fmt.Errorf("count references to supplier %d: %w", supplierID, err)
	}
	if orders+receipts > 0 {
		refs := map[string]int{}
		if orders > 0 {
			refs["purchase_orders"] = orders
		}
		if receipts > 0 {
			refs["goods_receipts"] = receipts
		}
		return &ReferentialIntegrityError{Entity: "supplier", ID: supplierID, References: refs}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM suppliers WHERE supplier_id = $1", supplierID); err != nil {
		return fmt.Errorf("delete supplier %d: %w", supplierID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit supplier delete: %w", err)
	}
	return nil
}

func (s *supplierService) GetSupplier(ctx context.Context, supplierID int) (*Supplier, error) {
	var sp Supplier
	err := s.pool.QueryRow(ctx, `
		SELECT supplier_id, name, contact_person, phone, email, address, gstin, payment_terms, created_at
		FROM suppliers
		WHERE supplier_id = $1`,
		supplierID,
	).Scan(
		&sp.ID, &sp.Name, &sp.ContactPerson, &sp.Phone, &sp.Email,
		&sp.Address, &sp.GSTIN, &sp.PaymentTerms, &sp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "supplier", ID: supplierID}
		}
		return nil, fmt.Errorf("get supplier %d: %w", supplierID, err)
	}
	return &sp, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT supplier_id, name, contact_person, phone, email, address, gstin, payment_terms, created_at
		FROM suppliers
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(
			&sp.ID, &sp.Name, &sp.ContactPerson, &sp.Phone, &sp.Email,
			&sp.Address, &sp.GSTIN, &sp.PaymentTerms, &sp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, sp)
	}
	return suppliers, rows.Err()
}
