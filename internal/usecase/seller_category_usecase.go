package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/livelist"
	"storehub-backend/pkg/logger"
	"storehub-backend/pkg/utils"
)

const categoriesTable = "categories"

// categoryRecord is a categories row as published by the change trigger.
type categoryRecord struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *string   `json:"parent_id"`
	SortOrder *int      `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func decodeCategoryRecord(raw []byte) (domain.Category, error) {
	var rec categoryRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Category{}, fmt.Errorf("decode category row: %w", err)
	}
	return domain.Category{
		ID:        rec.ID,
		StoreID:   rec.StoreID,
		Name:      rec.Name,
		Slug:      rec.Slug,
		ParentID:  rec.ParentID,
		SortOrder: rec.SortOrder,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func categoryID(c domain.Category) string { return c.ID }

const (
	defaultLiveRefresh = 5 * time.Minute
	defaultLiveIdleTTL = 30 * time.Minute
)

// liveCategories is the category list of one store. Change events patch it in place;
// a resync, a malformed event or age marks it stale and the next read refetches it.
type liveCategories struct {
	list        *livelist.List[domain.Category]
	unsubscribe func()

	mu        sync.Mutex
	stale     bool
	gen       uint64
	fetchedAt time.Time
	usedAt    time.Time
}

func newLiveCategories(categories []domain.Category, unsubscribe func(), now time.Time) *liveCategories {
	return &liveCategories{
		list:        livelist.New(categories, categoryID, decodeCategoryRecord),
		unsubscribe: unsubscribe,
		fetchedAt:   now,
		usedAt:      now,
	}
}

func (l *liveCategories) markStale() {
	l.mu.Lock()
	l.stale = true
	l.gen++
	l.mu.Unlock()
}

func (l *liveCategories) changed() {
	l.mu.Lock()
	l.gen++
	l.mu.Unlock()
}

// use records a read and reports whether the list must be refetched first.
func (l *liveCategories) use(now time.Time, maxAge time.Duration) (refresh bool, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.usedAt = now
	return l.stale || now.Sub(l.fetchedAt) >= maxAge, l.gen
}

// refreshed swaps in a fetched snapshot. The list stays stale if anything arrived after gen
// was read.
func (l *liveCategories) refreshed(categories []domain.Category, gen uint64, now time.Time) {
	l.list.Replace(categories)
	l.mu.Lock()
	l.fetchedAt = now
	l.stale = l.gen != gen
	l.mu.Unlock()
}

func (l *liveCategories) idleSince(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return now.Sub(l.usedAt)
}

type SellerCategoryUsecase struct {
	guard       storeGuard
	categories  domain.CategoryRepository
	catalogs    domain.CatalogRepository
	subscriber  domain.ChangeSubscriber
	invalidator StoreInvalidator

	refreshEvery time.Duration
	idleTTL      time.Duration
	now          func() time.Time

	mu   sync.Mutex
	live map[string]*liveCategories
}

// NewSellerCategoryUsecase builds the usecase. Live lists older than refreshEvery are refetched
// on read and lists unread for idleTTL are dropped by EvictIdle; zero selects the defaults.
func NewSellerCategoryUsecase(stores domain.StoreRepository, categories domain.CategoryRepository, catalogs domain.CatalogRepository, subscriber domain.ChangeSubscriber, invalidator StoreInvalidator, refreshEvery, idleTTL time.Duration) *SellerCategoryUsecase {
	if refreshEvery <= 0 {
		refreshEvery = defaultLiveRefresh
	}
	if idleTTL <= 0 {
		idleTTL = defaultLiveIdleTTL
	}
	return &SellerCategoryUsecase{
		guard:        storeGuard{stores: stores},
		categories:   categories,
		catalogs:     catalogs,
		subscriber:   subscriber,
		invalidator:  invalidator,
		refreshEvery: refreshEvery,
		idleTTL:      idleTTL,
		now:          time.Now,
		live:         make(map[string]*liveCategories),
	}
}

type CategoryInput struct {
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	ParentID  *string `json:"parentId"`
	SortOrder *int    `json:"sortOrder"`
}

// ListCategories returns the store's categories from a live list that realtime events keep current.
func (u *SellerCategoryUsecase) ListCategories(ctx context.Context, userID, storeID string) ([]domain.Category, error) {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return nil, err
	}
	live, err := u.liveList(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if refresh, gen := live.use(u.now(), u.refreshEvery); refresh {
		categories, err := u.categories.ListByStore(ctx, storeID)
		if err != nil {
			return nil, fmt.Errorf("refresh categories: %w", err)
		}
		live.refreshed(categories, gen, u.now())
		logger.WithContext(ctx).Debug().Str("store_id", storeID).Int("count", len(categories)).Msg("Category list refetched")
	}
	return live.list.Snapshot(), nil
}

func (u *SellerCategoryUsecase) liveList(ctx context.Context, storeID string) (*liveCategories, error) {
	u.mu.Lock()
	live, ok := u.live[storeID]
	u.mu.Unlock()
	if ok {
		return live, nil
	}

	// Subscribe before fetching; events racing the fetch are replayed idempotently.
	events, unsubscribe := u.subscriber.Subscribe(categoriesTable, storeID)
	categories, err := u.categories.ListByStore(ctx, storeID)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("list categories: %w", err)
	}
	fresh := newLiveCategories(categories, unsubscribe, u.now())

	u.mu.Lock()
	if existing, ok := u.live[storeID]; ok {
		u.mu.Unlock()
		unsubscribe()
		return existing, nil
	}
	u.live[storeID] = fresh
	u.mu.Unlock()

	go u.follow(storeID, fresh, events)
	return fresh, nil
}

func (u *SellerCategoryUsecase) follow(storeID string, live *liveCategories, events <-chan domain.ChangeEvent) {
	for evt := range events {
		if evt.IsResync() {
			live.markStale()
			continue
		}
		live.changed()
		if _, err := live.list.Apply(evt); err != nil {
			logger.Get().Warn().Err(err).Str("store_id", storeID).Msg("Malformed category change, list will be refetched")
			live.markStale()
		}
	}
}

// Release drops the live list of a store and its subscription.
func (u *SellerCategoryUsecase) Release(storeID string) {
	u.mu.Lock()
	live, ok := u.live[storeID]
	delete(u.live, storeID)
	u.mu.Unlock()
	if ok {
		live.unsubscribe()
	}
}

// EvictIdle releases live lists that were not read for the idle TTL and returns how many.
func (u *SellerCategoryUsecase) EvictIdle() int {
	now := u.now()
	var idle []*liveCategories

	u.mu.Lock()
	for storeID, live := range u.live {
		if live.idleSince(now) >= u.idleTTL {
			idle = append(idle, live)
			delete(u.live, storeID)
		}
	}
	u.mu.Unlock()

	for _, live := range idle {
		live.unsubscribe()
	}
	return len(idle)
}

// RunJanitor evicts idle live lists every interval until ctx is done.
func (u *SellerCategoryUsecase) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := u.EvictIdle(); n > 0 {
				logger.Get().Debug().Int("evicted", n).Msg("Released idle category lists")
			}
		}
	}
}

// Close releases every live list.
func (u *SellerCategoryUsecase) Close() {
	u.mu.Lock()
	lives := u.live
	u.live = make(map[string]*liveCategories)
	u.mu.Unlock()
	for _, live := range lives {
		live.unsubscribe()
	}
}

func (u *SellerCategoryUsecase) CreateCategory(ctx context.Context, userID, storeID string, in CategoryInput) (*domain.Category, error) {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return nil, err
	}

	c := &domain.Category{StoreID: storeID}
	if err := u.applyInput(ctx, c, in); err != nil {
		return nil, err
	}
	if c.ParentID != nil {
		if _, err := u.categories.GetByID(ctx, storeID, *c.ParentID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NewValidationError("parentId", "parent category does not exist")
			}
			return nil, err
		}
	}

	if err := u.categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	u.afterWrite(storeID, func(l *livelist.List[domain.Category]) { l.Insert(*c) })
	return c, nil
}

// UpdateCategory rewrites a category. A parent that would make the category its own
// ancestor is rejected.
func (u *SellerCategoryUsecase) UpdateCategory(ctx context.Context, userID, storeID, id string, in CategoryInput) (*domain.Category, error) {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return nil, err
	}

	c, err := u.categories.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := u.applyInput(ctx, c, in); err != nil {
		return nil, err
	}

	all, err := u.categories.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	parents := make(map[string]*string, len(all))
	for _, cat := range all {
		parents[cat.ID] = cat.ParentID
	}
	if c.ParentID != nil {
		if _, ok := parents[*c.ParentID]; !ok {
			return nil, domain.NewValidationError("parentId", "parent category does not exist")
		}
	}
	if createsCycle(parents, c.ID, c.ParentID) {
		return nil, domain.ErrCategoryCycle
	}

	if err := u.categories.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	u.afterWrite(storeID, func(l *livelist.List[domain.Category]) { l.Upsert(*c) })
	return c, nil
}

func (u *SellerCategoryUsecase) DeleteCategory(ctx context.Context, userID, storeID, id string) error {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return err
	}
	if err := u.categories.Delete(ctx, storeID, id); err != nil {
		return err
	}
	u.afterWrite(storeID, func(l *livelist.List[domain.Category]) { l.Remove(id) })
	return nil
}

type CatalogCategoryInput struct {
	ParentID   *string `json:"catalogParentId"`
	CustomName *string `json:"customName"`
	SortOrder  *int    `json:"sortOrder"`
}

// SetCatalogOverride stores a catalog scoped parent, name and order for a category.
func (u *SellerCategoryUsecase) SetCatalogOverride(ctx context.Context, userID, storeID, catalogID, categoryID string, in CatalogCategoryInput) (*domain.CatalogCategorySetting, error) {
	if _, err := u.guard.authorize(ctx, userID, storeID); err != nil {
		return nil, err
	}
	if _, err := u.catalogs.GetByID(ctx, storeID, catalogID); err != nil {
		return nil, err
	}

	all, err := u.categories.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	settings, err := u.categories.ListCatalogSettings(ctx, catalogID)
	if err != nil {
		return nil, fmt.Errorf("list catalog settings: %w", err)
	}

	parents := make(map[string]*string, len(all))
	for _, cat := range all {
		parents[cat.ID] = cat.ParentID
	}
	if _, ok := parents[categoryID]; !ok {
		return nil, domain.ErrNotFound
	}
	for _, s := range settings {
		if s.ParentID != nil {
			if _, ok := parents[s.CategoryID]; ok {
				parents[s.CategoryID] = s.ParentID
			}
		}
	}

	parent := normalizeOptional(in.ParentID)
	if parent != nil {
		if _, ok := parents[*parent]; !ok {
			return nil, domain.NewValidationError("catalogParentId", "parent category does not exist")
		}
	}
	if createsCycle(parents, categoryID, parent) {
		return nil, domain.ErrCategoryCycle
	}

	setting := &domain.CatalogCategorySetting{
		CatalogID:  catalogID,
		CategoryID: categoryID,
		ParentID:   parent,
		CustomName: normalizeOptional(in.CustomName),
		SortOrder:  in.SortOrder,
	}
	if err := u.categories.UpsertCatalogSetting(ctx, setting); err != nil {
		return nil, fmt.Errorf("save catalog setting: %w", err)
	}
	if u.invalidator != nil {
		u.invalidator.InvalidateStore(storeID)
	}
	return setting, nil
}

func (u *SellerCategoryUsecase) applyInput(ctx context.Context, c *domain.Category, in CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.NewValidationError("name", "name is required")
	}
	slug := utils.GenerateSlug(in.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(name)
	}
	if slug == "" {
		return domain.NewValidationError("slug", "slug must contain letters or digits")
	}

	existing, err := u.categories.GetBySlug(ctx, c.StoreID, slug)
	switch {
	case err == nil && existing.ID != c.ID:
		return domain.NewValidationError("slug", "slug %q is already used by another category", slug)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("check slug: %w", err)
	}

	c.Name = name
	c.Slug = slug
	c.ParentID = normalizeOptional(in.ParentID)
	c.SortOrder = in.SortOrder
	if c.ParentID != nil && c.ID != "" && *c.ParentID == c.ID {
		return domain.ErrCategoryCycle
	}
	return nil
}

func (u *SellerCategoryUsecase) afterWrite(storeID string, apply func(l *livelist.List[domain.Category])) {
	u.mu.Lock()
	live, ok := u.live[storeID]
	u.mu.Unlock()
	if ok {
		apply(live.list)
	}
	if u.invalidator != nil {
		u.invalidator.InvalidateStore(storeID)
	}
}

// createsCycle reports whether giving id the parent newParent makes id its own ancestor.
func createsCycle(parents map[string]*string, id string, newParent *string) bool {
	seen := map[string]struct{}{}
	for cur := newParent; cur != nil && *cur != ""; cur = parents[*cur] {
		if *cur == id {
			return true
		}
		if _, ok := seen[*cur]; ok {
			// existing cycle that does not pass through id
			return false
		}
		seen[*cur] = struct{}{}
	}
	return false
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
