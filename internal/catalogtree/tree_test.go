package catalogtree

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storehub-backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func chain() []Item {
	return []Item{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: ptr("a")},
		{ID: "c", Name: "C", ParentID: ptr("b")},
	}
}

func ids(f Forest) []string {
	out := make([]string, 0, len(f))
	for _, n := range f {
		out = append(out, n.ID)
	}
	return out
}

func product(id string, categories ...string) domain.Product {
	return domain.Product{ID: id, Price: decimal.NewFromInt(10), CategoryIDs: categories}
}

func TestBuildChain(t *testing.T) {
	forest := Build(chain())

	require.Len(t, forest, 1)
	a := forest[0]
	assert.Equal(t, "a", a.ID)
	require.Len(t, a.Children, 1)
	assert.Equal(t, "b", a.Children[0].ID)
	require.Len(t, a.Children[0].Children, 1)
	assert.Equal(t, "c", a.Children[0].Children[0].ID)
}

func TestCountDescendants(t *testing.T) {
	forest := Build(chain())

	assert.Equal(t, []string{"a", "b", "c"}, CountDescendants("a", forest).Sorted())
	assert.Equal(t, []string{"b", "c"}, CountDescendants("b", forest).Sorted())
	assert.Equal(t, []string{"c"}, CountDescendants("c", forest).Sorted())
}

func TestCountDescendantsUnknownID(t *testing.T) {
	forest := Build(chain())

	set := CountDescendants("zzz", forest)
	assert.Equal(t, []string{"zzz"}, set.Sorted())
}

func TestSiblingOrder(t *testing.T) {
	items := []Item{
		{ID: "1", Name: "Zeta"},
		{ID: "2", Name: "beta"},
		{ID: "3", Name: "Alpha"},
		{ID: "4", Name: "Omega", SortOrder: ptr(2)},
		{ID: "5", Name: "Gamma", SortOrder: ptr(1)},
		{ID: "6", Name: "Delta", SortOrder: ptr(1)},
	}

	forest := Build(items)
	// ordered first by sort order, then name; unordered ones go last
	assert.Equal(t, []string{"6", "5", "4", "3", "2", "1"}, ids(forest))
}

func TestOrphanIsDropped(t *testing.T) {
	items := append(chain(), Item{ID: "x", Name: "Orphan", ParentID: ptr("missing")})

	forest := Build(items)
	assert.Equal(t, []string{"a"}, ids(forest))
	assert.Nil(t, forest.Find("x"))
}

func TestCycleIsDroppedAndTerminates(t *testing.T) {
	items := []Item{
		{ID: "root", Name: "Root"},
		{ID: "a", Name: "A", ParentID: ptr("b")},
		{ID: "b", Name: "B", ParentID: ptr("a")},
		{ID: "under", Name: "Below cycle", ParentID: ptr("a")},
		{ID: "self", Name: "Self", ParentID: ptr("self")},
	}

	forest := Build(items)
	assert.Equal(t, []string{"root"}, ids(forest))
	assert.Empty(t, forest[0].Children)
	for _, id := range []string{"a", "b", "under", "self"} {
		assert.Nil(t, forest.Find(id), id)
	}
}

func TestDuplicateIDsKeepFirst(t *testing.T) {
	items := []Item{
		{ID: "a", Name: "First"},
		{ID: "a", Name: "Second"},
	}

	forest := Build(items)
	require.Len(t, forest, 1)
	assert.Equal(t, "First", forest[0].Name)
}

func TestFilterToPopulatedKeepsChainToPopulatedLeaf(t *testing.T) {
	items := append(chain(),
		Item{ID: "d", Name: "D"},
		Item{ID: "e", Name: "E", ParentID: ptr("d")},
	)
	forest := Build(items)
	ApplyCounts(forest, []domain.Product{product("p1", "c")})

	filtered := FilterToPopulated(forest)
	assert.Equal(t, []string{"a"}, ids(filtered))
	assert.Equal(t, []string{"a", "b", "c"}, CountDescendants("a", filtered).Sorted())
	assert.Nil(t, filtered.Find("d"))

	// original forest untouched
	assert.NotNil(t, forest.Find("e"))
}

func TestFilterToPopulatedEmpty(t *testing.T) {
	forest := Build(chain())
	ApplyCounts(forest, nil)

	assert.Empty(t, FilterToPopulated(forest))
}

func TestApplyCountsUnionSemantics(t *testing.T) {
	forest := Build(chain())
	legacy := product("p1", "c")
	legacy.CategoryID = ptr("c") // same category twice: counted once
	other := product("p2", "b")
	other.CategoryID = ptr("c")
	onlyLegacy := domain.Product{ID: "p3", CategoryID: ptr("a")}

	ApplyCounts(forest, []domain.Product{legacy, other, onlyLegacy})

	a := forest.Find("a")
	b := forest.Find("b")
	c := forest.Find("c")
	assert.Equal(t, 1, a.ProductCount)
	assert.Equal(t, 1, b.ProductCount)
	assert.Equal(t, 2, c.ProductCount)

	assert.Equal(t, 2, c.TotalCount)
	assert.Equal(t, 2, b.TotalCount) // p2 sits in b and c, counted once
	assert.Equal(t, 3, a.TotalCount)
}

func TestMergeOverridesWin(t *testing.T) {
	categories := []domain.Category{
		{ID: "a", Name: "Tools", SortOrder: ptr(5)},
		{ID: "b", Name: "Hammers", ParentID: ptr("a")},
		{ID: "c", Name: "Nails"},
	}
	settings := []domain.CatalogCategorySetting{
		{CatalogID: "cat1", CategoryID: "b", ParentID: ptr("c"), CustomName: ptr("Big hammers"), SortOrder: ptr(1)},
		{CatalogID: "cat1", CategoryID: "a", CustomName: ptr("")},
	}

	items := Merge(categories, settings)
	forest := Build(items)

	assert.Equal(t, []string{"a", "c"}, ids(forest))
	assert.Equal(t, "Tools", forest.Find("a").Name)
	b := forest.Find("c").Children
	require.Len(t, b, 1)
	assert.Equal(t, "Big hammers", b[0].Name)
	assert.Equal(t, 1, *b[0].SortOrder)
}
