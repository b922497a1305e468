package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"oficina/internal/dto"
	"oficina/internal/model"
	"oficina/internal/repository"
	"oficina/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Map-backed stubs implementing the repository interfaces. DB() returns nil
// so the services run their transaction bodies directly against the stubs.

// ─── customers ───────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	mu   sync.Mutex
	data map[uuid.UUID]*model.Customer
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{data: make(map[uuid.UUID]*model.Customer)}
}

func (s *stubCustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data {
		if existing.Document == c.Document {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = uuid.New()
	s.data[c.ID] = c
	return nil
}

func (s *stubCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubCustomerRepo) FindByDocument(ctx context.Context, document string) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.data {
		if c.Document == document {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomerRepo) List(ctx context.Context, page, limit int) ([]model.Customer, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Customer, 0, len(s.data))
	for _, c := range s.data {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (s *stubCustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[c.ID] = c
	return nil
}

func (s *stubCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// ─── vehicles ────────────────────────────────────────────────────────────────

type stubVehicleRepo struct {
	mu   sync.Mutex
	data map[uuid.UUID]*model.Vehicle
}

var _ repository.VehicleRepository = (*stubVehicleRepo)(nil)

func newStubVehicleRepo() *stubVehicleRepo {
	return &stubVehicleRepo{data: make(map[uuid.UUID]*model.Vehicle)}
}

func (s *stubVehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = uuid.New()
	s.data[v.ID] = v
	return nil
}

func (s *stubVehicleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *stubVehicleRepo) FindByLicensePlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.data {
		if v.LicensePlate == plate {
			cp := *v
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVehicleRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Vehicle
	for _, v := range s.data {
		if v.CustomerID == customerID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *stubVehicleRepo) List(ctx context.Context, page, limit int) ([]model.Vehicle, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Vehicle, 0, len(s.data))
	for _, v := range s.data {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (s *stubVehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[v.ID] = v
	return nil
}

func (s *stubVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// ─── catalog services ────────────────────────────────────────────────────────

type stubCatalogRepo struct {
	mu   sync.Mutex
	data map[uuid.UUID]*model.CatalogService
}

var _ repository.CatalogServiceRepository = (*stubCatalogRepo)(nil)

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{data: make(map[uuid.UUID]*model.CatalogService)}
}

func (s *stubCatalogRepo) Create(ctx context.Context, svc *model.CatalogService) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc.ID = uuid.New()
	s.data[svc.ID] = svc
	return nil
}

func (s *stubCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CatalogService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.data[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *svc
	return &cp, nil
}

func (s *stubCatalogRepo) List(ctx context.Context, category string, includeInactive bool) ([]model.CatalogService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CatalogService
	for _, svc := range s.data {
		if category != "" && svc.Category != category {
			continue
		}
		if !includeInactive && !svc.Active {
			continue
		}
		out = append(out, *svc)
	}
	return out, nil
}

func (s *stubCatalogRepo) Update(ctx context.Context, svc *model.CatalogService) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[svc.ID] = svc
	return nil
}

func (s *stubCatalogRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc, ok := s.data[id]; ok {
		svc.Active = active
	}
	return nil
}

// ─── parts ───────────────────────────────────────────────────────────────────

type stubPartRepo struct {
	mu        sync.Mutex
	data      map[uuid.UUID]*model.Part
	movements []model.StockMovement
}

var _ repository.PartRepository = (*stubPartRepo)(nil)

func newStubPartRepo() *stubPartRepo {
	return &stubPartRepo{data: make(map[uuid.UUID]*model.Part)}
}

func (s *stubPartRepo) DB() *gorm.DB { return nil }

func (s *stubPartRepo) Create(ctx context.Context, p *model.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New()
	s.data[p.ID] = p
	return nil
}

func (s *stubPartRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubPartRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Part, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubPartRepo) FindByPartNumber(ctx context.Context, partNumber string) (*model.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.data {
		if p.PartNumber == partNumber {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPartRepo) List(ctx context.Context, supplier string, includeInactive bool, page, limit int) ([]model.Part, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Part
	for _, p := range s.data {
		if supplier != "" && p.Supplier != supplier {
			continue
		}
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *stubPartRepo) FindLowStock(ctx context.Context) ([]model.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Part
	for _, p := range s.data {
		if p.Active && p.Stock <= p.MinStock {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubPartRepo) Update(ctx context.Context, p *model.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[p.ID] = p
	return nil
}

func (s *stubPartRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.data[id]; ok {
		p.Active = active
	}
	return nil
}

// AdjustStockTx mirrors the conditional UPDATE: the floor check and the write
// happen under one lock, so concurrent drains serialize here too.
func (s *stubPartRepo) AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.Stock+delta < 0 {
		return repository.ErrStockFloor
	}
	p.Stock += delta
	return nil
}

func (s *stubPartRepo) CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	s.movements = append(s.movements, *m)
	return nil
}

func (s *stubPartRepo) ListMovements(ctx context.Context, partID uuid.UUID, page, limit int) ([]model.StockMovement, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StockMovement
	for _, m := range s.movements {
		if partID != uuid.Nil && m.PartID != partID {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

// ─── orders ──────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	mu        sync.Mutex
	data      map[uuid.UUID]*model.ServiceOrder
	seq       map[int]int
	customers *stubCustomerRepo
	vehicles  *stubVehicleRepo
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

func newStubOrderRepo(customers *stubCustomerRepo, vehicles *stubVehicleRepo) *stubOrderRepo {
	return &stubOrderRepo{
		data:      make(map[uuid.UUID]*model.ServiceOrder),
		seq:       make(map[int]int),
		customers: customers,
		vehicles:  vehicles,
	}
}

func (s *stubOrderRepo) DB() *gorm.DB { return nil }

func (s *stubOrderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.ServiceOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	for i := range o.ServiceItems {
		o.ServiceItems[i].ID = uuid.New()
		o.ServiceItems[i].OrderID = o.ID
	}
	for i := range o.PartItems {
		o.PartItems[i].ID = uuid.New()
		o.PartItems[i].OrderID = o.ID
	}
	stored := *o
	s.data[o.ID] = &stored
	return nil
}

func (s *stubOrderRepo) copyOrder(o *model.ServiceOrder) *model.ServiceOrder {
	cp := *o
	cp.ServiceItems = append([]model.OrderServiceItem(nil), o.ServiceItems...)
	cp.PartItems = append([]model.OrderPartItem(nil), o.PartItems...)
	cp.History = append([]model.StatusHistory(nil), o.History...)
	return &cp
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.data[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s.copyOrder(o), nil
}

func (s *stubOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*model.ServiceOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.data {
		if o.OrderNumber == orderNumber {
			return s.copyOrder(o), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) FindByCustomerDocument(ctx context.Context, document string) ([]model.ServiceOrder, error) {
	customer, err := s.customers.FindByDocument(context.Background(), document)
	if err != nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ServiceOrder
	for _, o := range s.data {
		if o.CustomerID == customer.ID {
			out = append(out, *s.copyOrder(o))
		}
	}
	return out, nil
}

func (s *stubOrderRepo) FindByLicensePlate(ctx context.Context, plate string) ([]model.ServiceOrder, error) {
	vehicle, err := s.vehicles.FindByLicensePlate(context.Background(), plate)
	if err != nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ServiceOrder
	for _, o := range s.data {
		if o.VehicleID == vehicle.ID {
			out = append(out, *s.copyOrder(o))
		}
	}
	return out, nil
}

func (s *stubOrderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.ServiceOrder, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ServiceOrder
	for _, o := range s.data {
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		if filter.CustomerID != "" && o.CustomerID.String() != filter.CustomerID {
			continue
		}
		out = append(out, *s.copyOrder(o))
	}
	return out, int64(len(out)), nil
}

func (s *stubOrderRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ServiceOrder, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubOrderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to model.OrderStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.data[id]
	if !ok || o.Status != from {
		return 0, nil
	}
	o.Status = to
	return 1, nil
}

func (s *stubOrderRepo) AppendHistoryTx(tx *gorm.DB, h *model.StatusHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.ID = uuid.New()
	h.CreatedAt = time.Now()
	if o, ok := s.data[h.OrderID]; ok {
		o.History = append(o.History, *h)
	}
	return nil
}

func (s *stubOrderRepo) NextOrderNumber(ctx context.Context, tx *gorm.DB, year int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[year]++
	return fmt.Sprintf("OS-%d-%04d", year, s.seq[year]), nil
}

// ─── budgets ─────────────────────────────────────────────────────────────────

type stubBudgetRepo struct {
	mu   sync.Mutex
	data map[uuid.UUID]*model.Budget
}

var _ repository.BudgetRepository = (*stubBudgetRepo)(nil)

func newStubBudgetRepo() *stubBudgetRepo {
	return &stubBudgetRepo{data: make(map[uuid.UUID]*model.Budget)}
}

func (s *stubBudgetRepo) DB() *gorm.DB { return nil }

func (s *stubBudgetRepo) Create(ctx context.Context, b *model.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	for i := range b.Items {
		b.Items[i].ID = uuid.New()
		b.Items[i].BudgetID = b.ID
	}
	stored := *b
	s.data[b.ID] = &stored
	return nil
}

func (s *stubBudgetRepo) copyBudget(b *model.Budget) *model.Budget {
	cp := *b
	cp.Items = append([]model.BudgetItem(nil), b.Items...)
	return &cp
}

func (s *stubBudgetRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s.copyBudget(b), nil
}

func (s *stubBudgetRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Budget
	for _, b := range s.data {
		if b.ServiceOrderID == orderID {
			out = append(out, *s.copyBudget(b))
		}
	}
	return out, nil
}

func (s *stubBudgetRepo) CountSentByOrderTx(tx *gorm.DB, orderID, exceptID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	now := time.Now()
	for _, b := range s.data {
		if b.ServiceOrderID != orderID || b.ID == exceptID || b.Status != model.BudgetEnviado {
			continue
		}
		if b.ValidUntil != nil && !b.ValidUntil.After(now) {
			continue
		}
		count++
	}
	return count, nil
}

func (s *stubBudgetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *stubBudgetRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Budget, error) {
	return s.FindByID(context.Background(), id)
}

func (s *stubBudgetRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to model.BudgetStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data[id]
	if !ok || b.Status != from {
		return 0, nil
	}
	b.Status = to
	return 1, nil
}

func (s *stubBudgetRepo) MarkSentTx(tx *gorm.DB, id uuid.UUID, validUntil time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data[id]
	if !ok || b.Status != model.BudgetRascunho {
		return 0, nil
	}
	b.Status = model.BudgetEnviado
	vu := validUntil
	b.ValidUntil = &vu
	return 1, nil
}

// ─── fixture ─────────────────────────────────────────────────────────────────

type fixture struct {
	customers *stubCustomerRepo
	vehicles  *stubVehicleRepo
	catalog   *stubCatalogRepo
	parts     *stubPartRepo
	orders    *stubOrderRepo
	budgets   *stubBudgetRepo

	orderSvc  service.OrderService
	budgetSvc service.BudgetService
}

func newFixture() *fixture {
	f := &fixture{
		customers: newStubCustomerRepo(),
		vehicles:  newStubVehicleRepo(),
		catalog:   newStubCatalogRepo(),
		parts:     newStubPartRepo(),
		budgets:   newStubBudgetRepo(),
	}
	f.orders = newStubOrderRepo(f.customers, f.vehicles)
	resolver := service.NewItemResolver(f.catalog, f.parts)
	f.orderSvc = service.NewOrderService(f.orders, f.customers, f.vehicles, f.parts, resolver, nil)
	f.budgetSvc = service.NewBudgetService(f.budgets, f.orders, f.customers, f.orderSvc, nil, "http://localhost:8080")
	return f
}

func (f *fixture) seedCustomer(document string) *model.Customer {
	c := &model.Customer{
		Document: document,
		Type:     model.CustomerPessoaFisica,
		Name:     "João da Silva",
		Email:    "joao@example.com",
	}
	_ = f.customers.Create(context.Background(), c)
	return c
}

func (f *fixture) seedVehicle(customerID uuid.UUID, plate string) *model.Vehicle {
	v := &model.Vehicle{
		LicensePlate: plate,
		Brand:        "Fiat",
		Model:        "Uno",
		Year:         2014,
		CustomerID:   customerID,
	}
	_ = f.vehicles.Create(context.Background(), v)
	return v
}

func (f *fixture) seedCatalogService(name, price string, active bool) *model.CatalogService {
	svc := &model.CatalogService{
		Name:             name,
		Price:            decimal.RequireFromString(price),
		EstimatedMinutes: 60,
		Active:           active,
	}
	_ = f.catalog.Create(context.Background(), svc)
	return svc
}

func (f *fixture) seedPart(name, price string, stock int, active bool) *model.Part {
	p := &model.Part{
		Name:       name,
		PartNumber: "PN-" + name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		MinStock:   2,
		Active:     active,
	}
	_ = f.parts.Create(context.Background(), p)
	return p
}

func (f *fixture) seedOrder(customerID, vehicleID uuid.UUID, status model.OrderStatus) *model.ServiceOrder {
	o := &model.ServiceOrder{
		CustomerID:  customerID,
		VehicleID:   vehicleID,
		Description: "Revisão geral",
		Status:      status,
	}
	year := time.Now().Year()
	o.OrderNumber, _ = f.orders.NextOrderNumber(context.Background(), nil, year)
	_ = f.orders.Create(context.Background(), nil, o)
	return o
}

func (f *fixture) seedBudget(orderID, customerID uuid.UUID, status model.BudgetStatus, validUntil *time.Time, items ...model.BudgetItem) *model.Budget {
	b := &model.Budget{
		ServiceOrderID: orderID,
		CustomerID:     customerID,
		Status:         status,
		ValidDays:      7,
		ValidUntil:     validUntil,
		Items:          items,
	}
	_ = f.budgets.Create(context.Background(), b)
	return b
}
