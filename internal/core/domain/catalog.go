package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownItem = errors.New("unknown catalog item")

// CatalogItem is one sellable jersey variant. Immutable after definition.
type CatalogItem struct {
	ID        string          `json:"id"`
	Design    string          `json:"design"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Category  string          `json:"category"`
	Type      string          `json:"type"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type Catalog []CatalogItem

func (c Catalog) Find(id string) (CatalogItem, bool) {
	for _, item := range c {
		if item.ID == id {
			return item, true
		}
	}
	return CatalogItem{}, false
}

// DefaultCatalog returns the fixed jersey catalog sold at events.
func DefaultCatalog() Catalog {
	base := decimal.NewFromInt(65)
	var items Catalog
	for _, v := range []struct {
		color, design, category string
	}{
		{"black", "Black Palestine Jersey", "Black Hockey"},
		{"white", "White Falastin Jersey", "White Hockey"},
	} {
		for _, size := range []string{"S", "M", "L", "XL"} {
			items = append(items, CatalogItem{
				ID:        v.color + "-" + strings.ToLower(size),
				Design:    v.design,
				Color:     v.color,
				Size:      size,
				Category:  v.category,
				Type:      "hockey",
				UnitPrice: base,
			})
		}
	}
	return items
}
