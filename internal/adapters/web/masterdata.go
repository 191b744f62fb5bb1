package web

import (
	"net/http"

	"tradeledger/internal/app"

	"github.com/shopspring/decimal"
)

// ── Company profile ───────────────────────────────────────────────────────────

// getCompany handles GET /api/company.
func (h *Handler) getCompany(w http.ResponseWriter, r *http.Request) {
	details, err := h.svc.GetCompanyDetails(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// saveCompany handles PUT /api/company.
// Body: { company_name, legal_name?, gstin?, pan?, address_line1?, ... }
func (h *Handler) saveCompany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompanyName        string `json:"company_name"`
		LegalName          string `json:"legal_name"`
		GSTIN              string `json:"gstin"`
		PAN                string `json:"pan"`
		AddressLine1       string `json:"address_line1"`
		AddressLine2       string `json:"address_line2"`
		City               string `json:"city"`
		State              string `json:"state"`
		Pincode            string `json:"pincode"`
		Country            string `json:"country"`
		Phone              string `json:"phone"`
		Email              string `json:"email"`
		Website            string `json:"website"`
		FinancialYearStart string `json:"financial_year_start"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	err := h.svc.SaveCompanyDetails(r.Context(), app.SaveCompanyRequest{
		CompanyName:        body.CompanyName,
		LegalName:          body.LegalName,
		GSTIN:              body.GSTIN,
		PAN:                body.PAN,
		AddressLine1:       body.AddressLine1,
		AddressLine2:       body.AddressLine2,
		City:               body.City,
		State:              body.State,
		Pincode:            body.Pincode,
		Country:            body.Country,
		Phone:              body.Phone,
		Email:              body.Email,
		Website:            body.Website,
		FinancialYearStart: body.FinancialYearStart,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	details, err := h.svc.GetCompanyDetails(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// ── Items ─────────────────────────────────────────────────────────────────────

type itemBody struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	UnitOfMeasure      string `json:"unit_of_measure"`
	PurchaseRate       string `json:"purchase_rate"`
	PurchaseGSTPercent string `json:"purchase_gst_percent"`
	SellingRate        string `json:"selling_rate"`
	SellingGSTPercent  string `json:"selling_gst_percent"`
	HSNCode            string `json:"hsn_code"`
	OpeningStock       int64  `json:"opening_stock"`
	ReorderLevel       int64  `json:"reorder_level"`
	Location           string `json:"location"`
}

// decimalField parses a decimal string field; empty means zero.
func decimalField(w http.ResponseWriter, r *http.Request, name, value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return decimal.Decimal{}, false
	}
	return d, true
}

func (h *Handler) itemRequest(w http.ResponseWriter, r *http.Request) (*app.ItemRequest, bool) {
	var body itemBody
	if !decodeJSON(w, r, &body) {
		return nil, false
	}

	purchaseRate, ok := decimalField(w, r, "purchase_rate", body.PurchaseRate)
	if !ok {
		return nil, false
	}
	purchaseGST, ok := decimalField(w, r, "purchase_gst_percent", body.PurchaseGSTPercent)
	if !ok {
		return nil, false
	}
	sellingRate, ok := decimalField(w, r, "selling_rate", body.SellingRate)
	if !ok {
		return nil, false
	}
	sellingGST, ok := decimalField(w, r, "selling_gst_percent", body.SellingGSTPercent)
	if !ok {
		return nil, false
	}

	return &app.ItemRequest{
		Name:               body.Name,
		Description:        body.Description,
		Category:           body.Category,
		UnitOfMeasure:      body.UnitOfMeasure,
		PurchaseRate:       purchaseRate,
		PurchaseGSTPercent: purchaseGST,
		SellingRate:        sellingRate,
		SellingGSTPercent:  sellingGST,
		HSNCode:            body.HSNCode,
		OpeningStock:       body.OpeningStock,
		ReorderLevel:       body.ReorderLevel,
		Location:           body.Location,
	}, true
}

// listItems handles GET /api/items.
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListItems(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Items)
}

// createItem handles POST /api/items.
func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	req, ok := h.itemRequest(w, r)
	if !ok {
		return
	}
	result, err := h.svc.CreateItem(r.Context(), *req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Item)
}

// getItem handles GET /api/items/{id}.
func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Item)
}

// updateItem handles PUT /api/items/{id}.
func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	req, ok := h.itemRequest(w, r)
	if !ok {
		return
	}
	result, err := h.svc.UpdateItem(r.Context(), id, *req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Item)
}

// deleteItem handles DELETE /api/items/{id}.
func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

type supplierBody struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	GSTIN         string `json:"gstin"`
	PaymentTerms  string `json:"payment_terms"`
}

func (b supplierBody) toRequest() app.SupplierRequest {
	return app.SupplierRequest{
		Name:          b.Name,
		ContactPerson: b.ContactPerson,
		Phone:         b.Phone,
		Email:         b.Email,
		Address:       b.Address,
		GSTIN:         b.GSTIN,
		PaymentTerms:  b.PaymentTerms,
	}
}

// listSuppliers handles GET /api/suppliers.
func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSuppliers(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Suppliers)
}

// createSupplier handles POST /api/suppliers.
func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var body supplierBody
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.CreateSupplier(r.Context(), body.toRequest())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Supplier)
}

// getSupplier handles GET /api/suppliers/{id}.
func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetSupplier(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Supplier)
}

// updateSupplier handles PUT /api/suppliers/{id}.
func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	var body supplierBody
	if !decodeJSON(w, r, &body) {
		return
	}
	result, err := h.svc.UpdateSupplier(r.Context(), id, body.toRequest())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Supplier)
}

// deleteSupplier handles DELETE /api/suppliers/{id}.
func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSupplier(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Customers ─────────────────────────────────────────────────────────────────

type customerBody struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	GSTIN         string `json:"gstin"`
	CreditLimit   string `json:"credit_limit"`
	PaymentTerms  string `json:"payment_terms"`
}

// listCustomers handles GET /api/customers.
func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Customers)
}

func (h *Handler) customerRequest(w http.ResponseWriter, r *http.Request) (*app.CustomerRequest, bool) {
	var body customerBody
	if !decodeJSON(w, r, &body) {
		return nil, false
	}
	creditLimit, ok := decimalField(w, r, "credit_limit", body.CreditLimit)
	if !ok {
		return nil, false
	}
	return &app.CustomerRequest{
		Name:          body.Name,
		ContactPerson: body.ContactPerson,
		Phone:         body.Phone,
		Email:         body.Email,
		Address:       body.Address,
		GSTIN:         body.GSTIN,
		CreditLimit:   creditLimit,
		PaymentTerms:  body.PaymentTerms,
	}, true
}

// createCustomer handles POST /api/customers.
func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	req, ok := h.customerRequest(w, r)
	if !ok {
		return
	}
	result, err := h.svc.CreateCustomer(r.Context(), *req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Customer)
}

// getCustomer handles GET /api/customers/{id}.
func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Customer)
}

// updateCustomer handles PUT /api/customers/{id}.
func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	req, ok := h.customerRequest(w, r)
	if !ok {
		return
	}
	result, err := h.svc.UpdateCustomer(r.Context(), id, *req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Customer)
}

// deleteCustomer handles DELETE /api/customers/{id}.
func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlInt(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
