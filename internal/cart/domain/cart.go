package domain

import "github.com/google/uuid"

// Quantity carries the purchasable bounds alongside the current value.
// MaxPurchase of -1 means the product has no stock ceiling.
type Quantity struct {
	Value       int `json:"value"`
	MinPurchase int `json:"min_purchase"`
	MaxPurchase int `json:"max_purchase"`
}

type ItemMeta struct {
	ProductType string            `json:"product_type"`
	SKU         string            `json:"sku"`
	Variation   map[string]string `json:"variation,omitempty"`
	ParentID    int               `json:"parent_id"`
}

// CartItem is a single purchasable line. Price is a minor-unit (paise)
// decimal string; ItemKey is client-assigned and stable across updates.
type CartItem struct {
	ItemKey       string   `json:"item_key"`
	ProductID     int      `json:"product_id"`
	Name          string   `json:"name"`
	Price         string   `json:"price"`
	Quantity      Quantity `json:"quantity"`
	FeaturedImage string   `json:"featured_image,omitempty"`
	Meta          ItemMeta `json:"meta"`
}

type Currency struct {
	CurrencyCode              string `json:"currency_code"`
	CurrencySymbol            string `json:"currency_symbol"`
	CurrencySymbolPos         string `json:"currency_symbol_pos"`
	CurrencyMinorUnit         int    `json:"currency_minor_unit"`
	CurrencyDecimalSeparator  string `json:"currency_decimal_separator"`
	CurrencyThousandSeparator string `json:"currency_thousand_separator"`
	CurrencyPrefix            string `json:"currency_prefix"`
	CurrencySuffix            string `json:"currency_suffix"`
}

type Totals struct {
	Subtotal      string `json:"subtotal"`
	SubtotalTax   string `json:"subtotal_tax"`
	FeeTotal      string `json:"fee_total"`
	FeeTax        string `json:"fee_tax"`
	DiscountTotal string `json:"discount_total"`
	DiscountTax   string `json:"discount_tax"`
	ShippingTotal string `json:"shipping_total"`
	ShippingTax   string `json:"shipping_tax"`
	Total         string `json:"total"`
	TotalTax      string `json:"total_tax"`
}

type Shipping struct {
	TotalPackages         int  `json:"total_packages"`
	ShowPackageDetails    bool `json:"show_package_details"`
	HasCalculatedShipping bool `json:"has_calculated_shipping"`
}

// Cart mirrors the server cart wire shape. The guest cart reuses the same
// shape with only Items and ItemCount kept up to date; the remaining fields
// hold their canonical empty values so both carts read uniformly.
type Cart struct {
	CartHash      string     `json:"cart_hash"`
	CartKey       string     `json:"cart_key"`
	Currency      Currency   `json:"currency"`
	Items         []CartItem `json:"items"`
	ItemCount     int        `json:"item_count"`
	Coupons       []string   `json:"coupons"`
	NeedsPayment  bool       `json:"needs_payment"`
	NeedsShipping bool       `json:"needs_shipping"`
	Shipping      Shipping   `json:"shipping"`
	Totals        Totals     `json:"totals"`
}

// EmptyCart is the canonical empty cart shape. ClearCart resets to this,
// cosmetic fields included, rather than just emptying Items.
func EmptyCart() Cart {
	return Cart{
		CartKey: uuid.NewString(),
		Currency: Currency{
			CurrencyCode:              "INR",
			CurrencySymbol:            "₹",
			CurrencySymbolPos:         "currency_prefix",
			CurrencyMinorUnit:         2,
			CurrencyDecimalSeparator:  ".",
			CurrencyThousandSeparator: ",",
			CurrencyPrefix:            "₹",
		},
		Items:   []CartItem{},
		Coupons: []string{},
	}
}

// ItemsCount sums quantity values. Denormalized counts are always recomputed
// from this, never incremented in place.
func ItemsCount(items []CartItem) int {
	count := 0
	for _, it := range items {
		count += it.Quantity.Value
	}
	return count
}

// Clone returns a deep copy, so snapshots are immune to later mutation of
// the original.
func (c Cart) Clone() Cart {
	out := c
	out.Items = make([]CartItem, len(c.Items))
	for i, it := range c.Items {
		out.Items[i] = it.Clone()
	}
	if c.Coupons != nil {
		out.Coupons = append([]string(nil), c.Coupons...)
	}
	return out
}

func (it CartItem) Clone() CartItem {
	out := it
	if it.Meta.Variation != nil {
		out.Meta.Variation = make(map[string]string, len(it.Meta.Variation))
		for k, v := range it.Meta.Variation {
			out.Meta.Variation[k] = v
		}
	}
	return out
}
