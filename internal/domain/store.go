package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Channel is an independently enable-able storefront surface of a store.
type Channel string

const (
	ChannelRetail    Channel = "retail"
	ChannelWholesale Channel = "wholesale"
	ChannelShowcase  Channel = "showcase"
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelRetail:
		return ChannelRetail, nil
	case ChannelWholesale:
		return ChannelWholesale, nil
	case ChannelShowcase:
		return ChannelShowcase, nil
	}
	return "", ErrInvalidChannel
}

type StoreStatus string

const (
	StoreStatusPending   StoreStatus = "pending"
	StoreStatusActive    StoreStatus = "active"
	StoreStatusSuspended StoreStatus = "suspended"
)

type Store struct {
	ID                    string      `json:"id"`
	OwnerID               string      `json:"ownerId"`
	Subdomain             string      `json:"subdomain"`
	Name                  string      `json:"name"`
	Description           string      `json:"description"`
	LogoURL               string      `json:"logoUrl"`
	Theme                 JSONB       `json:"theme"`
	CustomDomain          *string     `json:"customDomain"`
	WholesaleCustomDomain *string     `json:"wholesaleCustomDomain"`
	Status                StoreStatus `json:"status"`

	RetailEnabled    bool `json:"retailEnabled"`
	WholesaleEnabled bool `json:"wholesaleEnabled"`
	ShowcaseEnabled  bool `json:"showcaseEnabled"`

	// Per-channel display overrides
	RetailName       *string `json:"retailName"`
	RetailLogoURL    *string `json:"retailLogoUrl"`
	WholesaleName    *string `json:"wholesaleName"`
	WholesaleLogoURL *string `json:"wholesaleLogoUrl"`
	ShowcaseName     *string `json:"showcaseName"`
	ShowcaseLogoURL  *string `json:"showcaseLogoUrl"`

	WholesaleCatalogID      *string          `json:"wholesaleCatalogId"`
	ShowcaseCatalogID       *string          `json:"showcaseCatalogId"`
	WholesaleMinOrderAmount *decimal.Decimal `json:"wholesaleMinOrderAmount"`

	TelegramChatID *string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Store) IsActive() bool {
	return s.Status == StoreStatusActive
}

func (s *Store) ChannelEnabled(ch Channel) bool {
	switch ch {
	case ChannelRetail:
		return s.RetailEnabled
	case ChannelWholesale:
		return s.WholesaleEnabled
	case ChannelShowcase:
		return s.ShowcaseEnabled
	}
	return false
}

// CatalogFor returns the catalog a channel is bound to. scoped is false for channels
// that expose the whole active assortment (retail).
func (s *Store) CatalogFor(ch Channel) (catalogID *string, scoped bool) {
	switch ch {
	case ChannelWholesale:
		return s.WholesaleCatalogID, true
	case ChannelShowcase:
		return s.ShowcaseCatalogID, true
	}
	return nil, false
}

// ChannelBranding is the display name and logo a channel renders with.
type ChannelBranding struct {
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
}

func (s *Store) Branding(ch Channel) ChannelBranding {
	b := ChannelBranding{Name: s.Name, LogoURL: s.LogoURL}
	var name, logo *string
	switch ch {
	case ChannelRetail:
		name, logo = s.RetailName, s.RetailLogoURL
	case ChannelWholesale:
		name, logo = s.WholesaleName, s.WholesaleLogoURL
	case ChannelShowcase:
		name, logo = s.ShowcaseName, s.ShowcaseLogoURL
	}
	if name != nil && *name != "" {
		b.Name = *name
	}
	if logo != nil && *logo != "" {
		b.LogoURL = *logo
	}
	return b
}

type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*Store, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Store, error)
	// FindByWholesaleDomain matches only active stores with the wholesale channel enabled.
	FindByWholesaleDomain(ctx context.Context, host string) (*Store, error)
	// FindByRetailDomain matches only active stores with the retail channel enabled.
	FindByRetailDomain(ctx context.Context, host string) (*Store, error)
}
