package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestParseChannel(t *testing.T) {
	ch, err := ParseChannel(" Wholesale ")
	require.NoError(t, err)
	assert.Equal(t, ChannelWholesale, ch)

	_, err = ParseChannel("b2b")
	assert.ErrorIs(t, err, ErrInvalidChannel)
}

func TestStoreCatalogFor(t *testing.T) {
	s := &Store{WholesaleCatalogID: ptr("w1")}

	id, scoped := s.CatalogFor(ChannelWholesale)
	assert.True(t, scoped)
	assert.Equal(t, "w1", *id)

	id, scoped = s.CatalogFor(ChannelShowcase)
	assert.True(t, scoped)
	assert.Nil(t, id)

	id, scoped = s.CatalogFor(ChannelRetail)
	assert.False(t, scoped)
	assert.Nil(t, id)
}

func TestStoreBrandingFallsBack(t *testing.T) {
	s := &Store{
		Name:          "Main",
		LogoURL:       "main.png",
		WholesaleName: ptr("Bulk"),
		RetailName:    ptr(""),
	}

	assert.Equal(t, ChannelBranding{Name: "Bulk", LogoURL: "main.png"}, s.Branding(ChannelWholesale))
	assert.Equal(t, ChannelBranding{Name: "Main", LogoURL: "main.png"}, s.Branding(ChannelRetail))
}

func TestStoreChannelEnabled(t *testing.T) {
	s := &Store{RetailEnabled: true}
	assert.True(t, s.ChannelEnabled(ChannelRetail))
	assert.False(t, s.ChannelEnabled(ChannelWholesale))
	assert.False(t, s.ChannelEnabled(Channel("unknown")))
}

func TestEffectiveCategoryIDsUnion(t *testing.T) {
	p := &Product{CategoryID: ptr("c1"), CategoryIDs: []string{"c2", "c1", ""}}
	assert.Equal(t, []string{"c2", "c1"}, p.EffectiveCategoryIDs())

	assert.True(t, p.InAnyCategory(map[string]struct{}{"c1": {}}))
	assert.False(t, p.InAnyCategory(map[string]struct{}{"c9": {}}))
}

func TestLifecycle(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.False(t, Active().IsTrashed())
	assert.Nil(t, Active().DeletedAt())

	l := Trashed(at)
	assert.True(t, l.IsTrashed())
	assert.Equal(t, at, *l.DeletedAt())

	assert.True(t, LifecycleFromDeletedAt(&at).IsTrashed())
	assert.False(t, LifecycleFromDeletedAt(nil).IsTrashed())
}

func TestOrderChannel(t *testing.T) {
	for ch, prefix := range map[OrderChannel]string{
		OrderChannelGuest:     "G",
		OrderChannelRetail:    "R",
		OrderChannelWholesale: "W",
	} {
		parsed, err := ParseOrderChannel(string(ch))
		require.NoError(t, err)
		assert.Equal(t, ch, parsed)
		assert.Equal(t, prefix, parsed.Prefix())
	}

	_, err := ParseOrderChannel("showcase")
	assert.ErrorIs(t, err, ErrInvalidChannel)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(20, 40, 45)
	assert.Equal(t, Pagination{Page: 3, Limit: 20, TotalItems: 45, TotalPages: 3}, p)

	assert.Equal(t, Pagination{TotalItems: 7}, NewPagination(0, 0, 7))
}

func TestJSONBScan(t *testing.T) {
	var j JSONB
	require.NoError(t, j.Scan([]byte(`{"primary":"#fff"}`)))
	assert.Equal(t, "#fff", j.String("primary"))
	assert.Equal(t, "", j.String("missing"))

	require.NoError(t, j.Scan(nil))
	assert.Nil(t, j)
	assert.Error(t, j.Scan(42))
}
