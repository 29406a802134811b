package domain

import "github.com/google/uuid"

// NewItemParams describes a product (or one of its variations) being added
// to the guest cart. PricePaise is the unit price already converted to the
// minor currency unit; callers own that conversion so the unit change stays
// visible at the boundary.
type NewItemParams struct {
	ProductID     int
	ParentID      int
	Name          string
	PricePaise    string
	ProductType   string
	SKU           string
	FeaturedImage string
	StockQuantity *int
	Variation     map[string]string
}

// NewItem builds a guest cart line with a fresh item key and quantity 1.
// A nil StockQuantity means no ceiling (max_purchase -1).
func NewItem(p NewItemParams) CartItem {
	maxPurchase := -1
	if p.StockQuantity != nil {
		maxPurchase = *p.StockQuantity
	}

	parentID := p.ParentID
	if parentID == 0 {
		parentID = p.ProductID
	}

	return CartItem{
		ItemKey:       uuid.NewString(),
		ProductID:     p.ProductID,
		Name:          p.Name,
		Price:         p.PricePaise,
		FeaturedImage: p.FeaturedImage,
		Quantity: Quantity{
			Value:       1,
			MinPurchase: 1,
			MaxPurchase: maxPurchase,
		},
		Meta: ItemMeta{
			ProductType: p.ProductType,
			SKU:         p.SKU,
			Variation:   p.Variation,
			ParentID:    parentID,
		},
	}
}
