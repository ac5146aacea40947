package procurement_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/hotel-procurement-api/internal/application/procurement"
	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/entity"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/matching"
	"github.com/jhoicas/hotel-procurement-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type store struct {
	// mu protege results: las decisiones concurrentes leen el resultado antes del lock.
	mu        *sync.RWMutex
	companies map[string]*entity.Company
	suppliers map[string]*entity.Supplier
	pos       map[string]*entity.PurchaseOrder
	grns      []*entity.GoodsReceivedNote
	invoices  map[string]*entity.Invoice
	results   []*entity.InvoiceMatchingResult
	disputes  []*entity.Dispute
}

func newStore() *store {
	return &store{
		mu:        &sync.RWMutex{},
		companies: map[string]*entity.Company{},
		suppliers: map[string]*entity.Supplier{},
		pos:       map[string]*entity.PurchaseOrder{},
		invoices:  map[string]*entity.Invoice{},
	}
}

type supplierRepo struct{ s *store }

func (r supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.s.suppliers[s.ID] = s
	return nil
}
func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	return r.s.suppliers[id], nil
}
func (r supplierRepo) GetByCompanyAndTaxID(_ context.Context, companyID, taxID string) (*entity.Supplier, error) {
	for _, s := range r.s.suppliers {
		if s.CompanyID == companyID && s.TaxID == taxID {
			return s, nil
		}
	}
	return nil, nil
}
func (r supplierRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, s := range r.s.suppliers {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

type poRepo struct{ s *store }

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
func (r poRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	po, ok := r.s.pos[id]
	if !ok {
		return domain.ErrNotFound
	}
	po.Status = status
	po.UpdatedAt = updatedAt
	return nil
}

type grnRepo struct{ s *store }

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

type invoiceRepo struct{ s *store }

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
func (r invoiceRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = updatedAt
	return nil
}

type resultRepo struct{ s *store }

func (r resultRepo) Create(_ context.Context, res *entity.InvoiceMatchingResult) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.results = append(r.s.results, matching.Clone(res))
	return nil
}
func (r resultRepo) GetByID(_ context.Context, id string) (*entity.InvoiceMatchingResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
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
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.InvoiceMatchingResult
	for i := len(r.s.results) - 1; i >= 0; i-- {
		if r.s.results[i].InvoiceID == invoiceID {
			out = append(out, matching.Clone(r.s.results[i]))
		}
	}
	return out, nil
}
func (r resultRepo) UpdateDecision(_ context.Context, res *entity.InvoiceMatchingResult) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
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

type disputeRepo struct{ s *store }

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
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type companyRepo struct{ s *store }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.companies[c.ID] = c
	return nil
}
func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return r.s.companies[id], nil
}
func (r companyRepo) GetByNIT(context.Context, string) (*entity.Company, error) { return nil, nil }
func (r companyRepo) Update(context.Context, *entity.Company) error            { return nil }
func (r companyRepo) List(context.Context, int, int) ([]*entity.Company, error) {
	return nil, nil
}
func (r companyRepo) HasActiveModule(context.Context, string, string) (bool, error) {
	return true, nil
}
func (r companyRepo) ActivateModule(context.Context, *entity.CompanyModule) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner, locker y generador
// ──────────────────────────────────────────────────────────────────────────────

// txRunner emula la atomicidad: si fn falla, restaura la copia previa del store.
type txRunner struct {
	s     *store
	calls int
}

func (t *txRunner) snapshot() store {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	cp := store{
		companies: t.s.companies,
		suppliers: t.s.suppliers,
		pos:       map[string]*entity.PurchaseOrder{},
		invoices:  map[string]*entity.Invoice{},
		grns:      append([]*entity.GoodsReceivedNote(nil), t.s.grns...),
		results:   append([]*entity.InvoiceMatchingResult(nil), t.s.results...),
		disputes:  append([]*entity.Dispute(nil), t.s.disputes...),
	}
	for k, v := range t.s.pos {
		c := *v
		cp.pos[k] = &c
	}
	for k, v := range t.s.invoices {
		c := *v
		cp.invoices[k] = &c
	}
	return cp
}

func (t *txRunner) restore(cp store) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.pos, t.s.invoices = cp.pos, cp.invoices
	t.s.grns, t.s.results, t.s.disputes = cp.grns, cp.results, cp.disputes
}

func (t *txRunner) RunReceiving(_ context.Context, fn func(repository.PurchaseOrderRepository, repository.GoodsReceivedNoteRepository) error) error {
	t.calls++
	cp := t.snapshot()
	if err := fn(poRepo{t.s}, grnRepo{t.s}); err != nil {
		t.restore(cp)
		return err
	}
	return nil
}

func (t *txRunner) RunMatching(_ context.Context, fn func(repository.MatchingResultRepository, repository.InvoiceRepository, repository.DisputeRepository) error) error {
	t.calls++
	cp := t.snapshot()
	if err := fn(resultRepo{t.s}, invoiceRepo{t.s}, disputeRepo{t.s}); err != nil {
		t.restore(cp)
		return err
	}
	return nil
}

type fakeLocker struct {
	held     map[string]bool
	acquired []string
}

func (l *fakeLocker) Acquire(_ context.Context, key string) (func(context.Context), error) {
	if l.held[key] {
		return nil, domain.ErrConflict
	}
	l.acquired = append(l.acquired, key)
	return func(context.Context) {}, nil
}

type fakeGenerator struct {
	got *procurement.MatchingReport
}

func (g *fakeGenerator) GenerateMatchingReport(_ context.Context, r *procurement.MatchingReport) ([]byte, error) {
	g.got = r
	return []byte("%PDF-1.3 fake"), nil
}
