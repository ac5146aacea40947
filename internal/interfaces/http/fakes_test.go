package http_test

import (
	"context"
	"time"

	"github.com/jhoicas/hotel-procurement-api/internal/application/procurement"
	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/matching"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/repository"
)

// memStore repositorios en memoria para levantar el router completo sin base de datos.
type memStore struct {
	companies map[string]*entity.Company
	modules   map[string]bool // company_id/module
	users     []*entity.User
	suppliers []*entity.Supplier
	pos       map[string]*entity.PurchaseOrder
	grns      []*entity.GoodsReceivedNote
	invoices  map[string]*entity.Invoice
	results   []*entity.InvoiceMatchingResult
	disputes  []*entity.Dispute
}

func newMemStore() *memStore {
	return &memStore{
		companies: map[string]*entity.Company{},
		modules:   map[string]bool{},
		pos:       map[string]*entity.PurchaseOrder{},
		invoices:  map[string]*entity.Invoice{},
	}
}

// ── companies / users ──

type companyRepo struct{ s *memStore }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.companies[c.ID] = c
	return nil
}
func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return r.s.companies[id], nil
}
func (r companyRepo) GetByNIT(_ context.Context, nit string) (*entity.Company, error) {
	for _, c := range r.s.companies {
		if c.NIT == nit {
			return c, nil
		}
	}
	return nil, nil
}
func (r companyRepo) Update(context.Context, *entity.Company) error { return nil }
func (r companyRepo) List(context.Context, int, int) ([]*entity.Company, error) {
	out := make([]*entity.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		out = append(out, c)
	}
	return out, nil
}
func (r companyRepo) HasActiveModule(_ context.Context, companyID, module string) (bool, error) {
	return r.s.modules[companyID+"/"+module], nil
}
func (r companyRepo) ActivateModule(_ context.Context, m *entity.CompanyModule) error {
	r.s.modules[m.CompanyID+"/"+m.ModuleName] = m.IsActive
	return nil
}

type userRepo struct{ s *memStore }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.users = append(r.s.users, u)
	return nil
}
func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r userRepo) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}
func (r userRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.s.users {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

// ── documentos ──

type supplierRepo struct{ s *memStore }

func (r supplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	r.s.suppliers = append(r.s.suppliers, sup)
	return nil
}
func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	for _, sup := range r.s.suppliers {
		if sup.ID == id {
			return sup, nil
		}
	}
	return nil, nil
}
func (r supplierRepo) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Supplier, error) {
	for _, sup := range r.s.suppliers {
		if sup.CompanyID == companyID && sup.TaxID == taxID {
			return sup, nil
		}
	}
	return nil, nil
}
func (r supplierRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, sup := range r.s.suppliers {
		if sup.CompanyID == companyID {
			out = append(out, sup)
		}
	}
	return out, nil
}

type poRepo struct{ s *memStore }

func (r poRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	r.s.pos[po.ID] = po
	return nil
}
func (r poRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	po, ok := r.s.pos[id]
	if !ok {
		return nil, nil
	}
	cp := *po
	return &cp, nil
}
func (r poRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, po := range r.s.pos {
		if po.CompanyID == companyID {
			out = append(out, po)
		}
	}
	return out, nil
}
func (r poRepo) UpdateStatus(_ context.Context, id, status string, at time.Time) error {
	po, ok := r.s.pos[id]
	if !ok {
		return domain.ErrNotFound
	}
	po.Status, po.UpdatedAt = status, at
	return nil
}

type grnRepo struct{ s *memStore }

func (r grnRepo) Create(_ context.Context, g *entity.GoodsReceivedNote) error {
	r.s.grns = append(r.s.grns, g)
	return nil
}
func (r grnRepo) GetByID(_ context.Context, id string) (*entity.GoodsReceivedNote, error) {
	for _, g := range r.s.grns {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}
func (r grnRepo) ListByPurchaseOrder(_ context.Context, poID string) ([]*entity.GoodsReceivedNote, error) {
	var out []*entity.GoodsReceivedNote
	for _, g := range r.s.grns {
		if g.PurchaseOrderID == poID {
			out = append(out, g)
		}
	}
	return out, nil
}

type invoiceRepo struct{ s *memStore }

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.invoices[inv.ID] = inv
	return nil
}
func (r invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}
func (r invoiceRepo) GetBySupplierAndNumber(_ context.Context, companyID, supplierID, number string) (*entity.Invoice, error) {
	for _, inv := range r.s.invoices {
		if inv.CompanyID == companyID && inv.SupplierID == supplierID && inv.Number == number {
			return inv, nil
		}
	}
	return nil, nil
}
func (r invoiceRepo) ListByCompany(_ context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.CompanyID == companyID && (f.Status == "" || inv.Status == f.Status) {
			out = append(out, inv)
		}
	}
	return out, nil
}
func (r invoiceRepo) UpdateStatus(_ context.Context, id, status string, at time.Time) error {
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status, inv.UpdatedAt = status, at
	return nil
}

type resultRepo struct{ s *memStore }

func (r resultRepo) Create(_ context.Context, res *entity.InvoiceMatchingResult) error {
	r.s.results = append(r.s.results, matching.Clone(res))
	return nil
}
func (r resultRepo) GetByID(_ context.Context, id string) (*entity.InvoiceMatchingResult, error) {
	for _, res := range r.s.results {
		if res.ID == id {
			return matching.Clone(res), nil
		}
	}
	return nil, nil
}
func (r resultRepo) GetLatestByInvoice(ctx context.Context, invoiceID string) (*entity.InvoiceMatchingResult, error) {
	list, _ := r.ListByInvoice(ctx, invoiceID)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
func (r resultRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.InvoiceMatchingResult, error) {
	var out []*entity.InvoiceMatchingResult
	for i := len(r.s.results) - 1; i >= 0; i-- {
		if r.s.results[i].InvoiceID == invoiceID {
			out = append(out, matching.Clone(r.s.results[i]))
		}
	}
	return out, nil
}
func (r resultRepo) UpdateDecision(_ context.Context, res *entity.InvoiceMatchingResult) error {
	for i, existing := range r.s.results {
		if existing.ID == res.ID {
			if existing.MatchStatus.IsDecided() {
				return domain.ErrInvalidState
			}
			r.s.results[i] = matching.Clone(res)
			return nil
		}
	}
	return domain.ErrNotFound
}

type disputeRepo struct{ s *memStore }

func (r disputeRepo) Create(_ context.Context, d *entity.Dispute) error {
	r.s.disputes = append(r.s.disputes, d)
	return nil
}
func (r disputeRepo) GetByID(_ context.Context, id string) (*entity.Dispute, error) {
	for _, d := range r.s.disputes {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}
func (r disputeRepo) GetOpenByMatchingResult(_ context.Context, resultID string) (*entity.Dispute, error) {
	for _, d := range r.s.disputes {
		if d.MatchingResultID == resultID && d.Status == entity.DisputeStatusOpen {
			return d, nil
		}
	}
	return nil, nil
}
func (r disputeRepo) ListByCompany(_ context.Context, companyID, status string, _, _ int) ([]*entity.Dispute, error) {
	var out []*entity.Dispute
	for _, d := range r.s.disputes {
		if d.CompanyID == companyID && (status == "" || d.Status == status) {
			out = append(out, d)
		}
	}
	return out, nil
}

// ── tx, locker, generador ──

// txRunner sin rollback: los tests HTTP no ejercitan fallos a mitad de transacción.
type txRunner struct{ s *memStore }

func (t txRunner) RunReceiving(_ context.Context, fn func(repository.PurchaseOrderRepository, repository.GoodsReceivedNoteRepository) error) error {
	return fn(poRepo{t.s}, grnRepo{t.s})
}

func (t txRunner) RunMatching(_ context.Context, fn func(repository.MatchingResultRepository, repository.InvoiceRepository, repository.DisputeRepository) error) error {
	return fn(resultRepo{t.s}, invoiceRepo{t.s}, disputeRepo{t.s})
}

type fakeGenerator struct{}

func (fakeGenerator) GenerateMatchingReport(_ context.Context, r *procurement.MatchingReport) ([]byte, error) {
	return []byte("%PDF-1.3 " + r.Invoice.Number), nil
}
