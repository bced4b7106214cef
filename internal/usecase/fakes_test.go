package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storehub-backend/internal/domain"
)

var errDB = errors.New("connection refused")

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// --- stores ---

type fakeStores struct {
	mu        sync.Mutex
	byID      map[string]*domain.Store
	wholesale map[string]*domain.Store
	retail    map[string]*domain.Store
	err       error
	calls     int
}

func newFakeStores(stores ...*domain.Store) *fakeStores {
	f := &fakeStores{
		byID:      map[string]*domain.Store{},
		wholesale: map[string]*domain.Store{},
		retail:    map[string]*domain.Store{},
	}
	for _, s := range stores {
		f.add(s)
	}
	return f
}

func (f *fakeStores) add(s *domain.Store) {
	f.byID[s.ID] = s
	if s.WholesaleCustomDomain != nil && s.IsActive() && s.WholesaleEnabled {
		f.wholesale[*s.WholesaleCustomDomain] = s
	}
	if s.CustomDomain != nil && s.IsActive() && s.RetailEnabled {
		f.retail[*s.CustomDomain] = s
	}
}

func (f *fakeStores) get(m map[string]*domain.Store, key string) (*domain.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s, ok := m[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStores) GetByID(_ context.Context, id string) (*domain.Store, error) {
	return f.get(f.byID, id)
}

func (f *fakeStores) GetBySubdomain(_ context.Context, subdomain string) (*domain.Store, error) {
	f.mu.Lock()
	var found *domain.Store
	for _, s := range f.byID {
		if s.Subdomain == subdomain {
			found = s
		}
	}
	f.mu.Unlock()
	if found == nil {
		return f.get(map[string]*domain.Store{}, subdomain)
	}
	return f.get(f.byID, found.ID)
}

func (f *fakeStores) FindByWholesaleDomain(_ context.Context, host string) (*domain.Store, error) {
	return f.get(f.wholesale, host)
}

func (f *fakeStores) FindByRetailDomain(_ context.Context, host string) (*domain.Store, error) {
	return f.get(f.retail, host)
}

func (f *fakeStores) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// --- products ---

type fakeProducts struct {
	mu        sync.Mutex
	products  map[string]*domain.Product
	catalogs  map[string][]string
	listErr   error
	purgeErr  error
	listCalls int
	purged    []string
}

func newFakeProducts(products ...domain.Product) *fakeProducts {
	f := &fakeProducts{products: map[string]*domain.Product{}, catalogs: map[string][]string{}}
	for i := range products {
		p := products[i]
		f.products[p.ID] = &p
	}
	return f
}

func (f *fakeProducts) ListActiveByStore(_ context.Context, storeID string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []domain.Product{}
	for _, p := range f.products {
		if p.StoreID == storeID && p.IsActive && !p.Lifecycle.IsTrashed() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) ListVisibleInCatalog(_ context.Context, catalogID string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []domain.Product{}
	for _, id := range f.catalogs[catalogID] {
		if p, ok := f.products[id]; ok && p.IsActive && !p.Lifecycle.IsTrashed() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) GetByID(_ context.Context, storeID, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) ListTrashed(_ context.Context, storeID string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Product{}
	for _, p := range f.products {
		if p.StoreID == storeID && p.Lifecycle.IsTrashed() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) SetLifecycle(_ context.Context, storeID, id string, lc domain.Lifecycle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.StoreID != storeID {
		return domain.ErrNotFound
	}
	p.Lifecycle = lc
	return nil
}

func (f *fakeProducts) Purge(_ context.Context, storeID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.purgeErr != nil {
		return f.purgeErr
	}
	p, ok := f.products[id]
	if !ok || p.StoreID != storeID {
		return domain.ErrNotFound
	}
	delete(f.products, id)
	f.purged = append(f.purged, id)
	return nil
}

// --- categories and catalogs ---

type fakeCategories struct {
	mu       sync.Mutex
	items    []domain.Category
	settings map[string][]domain.CatalogCategorySetting
	listErr  error
	nextID   int
}

func newFakeCategories(items ...domain.Category) *fakeCategories {
	return &fakeCategories{items: items, settings: map[string][]domain.CatalogCategorySetting{}}
}

func (f *fakeCategories) ListByStore(_ context.Context, storeID string) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []domain.Category{}
	for _, c := range f.items {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) find(storeID string, match func(domain.Category) bool) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.StoreID == storeID && match(c) {
			cp := c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCategories) GetByID(_ context.Context, storeID, id string) (*domain.Category, error) {
	return f.find(storeID, func(c domain.Category) bool { return c.ID == id })
}

func (f *fakeCategories) GetBySlug(_ context.Context, storeID, slug string) (*domain.Category, error) {
	return f.find(storeID, func(c domain.Category) bool { return c.Slug == slug })
}

func (f *fakeCategories) Create(_ context.Context, c *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = fmt.Sprintf("new-%d", f.nextID)
	f.items = append(f.items, *c)
	return nil
}

func (f *fakeCategories) Update(_ context.Context, c *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == c.ID {
			f.items[i] = *c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCategories) Delete(_ context.Context, storeID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].StoreID == storeID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCategories) ListCatalogSettings(_ context.Context, catalogID string) ([]domain.CatalogCategorySetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.CatalogCategorySetting(nil), f.settings[catalogID]...), nil
}

func (f *fakeCategories) UpsertCatalogSetting(_ context.Context, s *domain.CatalogCategorySetting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.settings[s.CatalogID]
	for i := range list {
		if list[i].CategoryID == s.CategoryID {
			list[i] = *s
			return nil
		}
	}
	f.settings[s.CatalogID] = append(list, *s)
	return nil
}

type fakeCatalogs struct {
	items map[string]domain.Catalog
}

func (f *fakeCatalogs) GetByID(_ context.Context, storeID, id string) (*domain.Catalog, error) {
	c, ok := f.items[id]
	if !ok || c.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// --- orders ---

type fakeOrders struct {
	mu       sync.Mutex
	orders   map[string]*domain.Order
	items    map[string][]domain.OrderItem
	itemsErr error

	// cancelItems, when set, aborts the request while the items are written.
	cancelItems context.CancelFunc
	deleted     []string
	nextID      int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[string]*domain.Order{}, items: map[string][]domain.OrderItem{}}
}

func (f *fakeOrders) CreateOrder(_ context.Context, o *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	o.ID = fmt.Sprintf("order-%d", f.nextID)
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrders) CreateOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelItems != nil {
		f.cancelItems()
		return ctx.Err()
	}
	if f.itemsErr != nil {
		return f.itemsErr
	}
	f.items[orderID] = items
	return nil
}

func (f *fakeOrders) DeleteOrder(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.orders, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, storeID, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListByStore(_ context.Context, storeID string, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Order{}
	for _, o := range f.orders {
		if o.StoreID == storeID && (filter.Status == "" || o.Status == filter.Status) {
			out = append(out, *o)
		}
	}
	total := int64(len(out))
	if filter.Offset >= len(out) {
		return []domain.Order{}, total, nil
	}
	out = out[filter.Offset:]
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, storeID, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.StoreID != storeID {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

// --- collaborators ---

type fakeNotifier struct {
	notified chan *domain.Order
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{notified: make(chan *domain.Order, 4)}
}

func (f *fakeNotifier) NotifyOrderPlaced(_ context.Context, _ *domain.Store, order *domain.Order) {
	f.notified <- order
}

type fakeRecorder struct {
	mu          sync.Mutex
	resolutions []string
	orders      []string
}

func (f *fakeRecorder) ResolutionOutcome(outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolutions = append(f.resolutions, outcome)
}

func (f *fakeRecorder) OrderPlaced(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, channel)
}

type fakeInvalidator struct {
	mu     sync.Mutex
	stores []string
	domain int
	all    int
}

func (f *fakeInvalidator) InvalidateAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.all++
}

func (f *fakeInvalidator) flushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.all
}

func (f *fakeInvalidator) InvalidateStore(storeID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stores = append(f.stores, storeID)
}

func (f *fakeInvalidator) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.domain++
}

func (f *fakeInvalidator) snapshot() ([]string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stores...), f.domain
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	loadErr error
	saveErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string][]byte{}}
}

func (f *fakeKV) Load(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	d, ok := f.data[key]
	return d, ok, nil
}

func (f *fakeKV) Save(key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data[key] = data
	return nil
}

func (f *fakeKV) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

type fakeAssistant struct {
	suggestion *domain.ProductSuggestion
	err        error
	calls      int
}

func (f *fakeAssistant) SuggestProductMeta(_ context.Context, _ *domain.Product) (*domain.ProductSuggestion, error) {
	f.calls++
	return f.suggestion, f.err
}
