package domain

type DiscountType string

const (
	DiscountPercent      DiscountType = "percent"
	DiscountFixedCart    DiscountType = "fixed_cart"
	DiscountFixedProduct DiscountType = "fixed_product"
)

// Coupon as served by the commerce API. Amount is a decimal string whose
// meaning depends on DiscountType: a percentage for percent coupons, a
// major-unit amount for the fixed types.
type Coupon struct {
	ID             int          `json:"id"`
	Code           string       `json:"code"`
	Amount         string       `json:"amount"`
	DiscountType   DiscountType `json:"discount_type"`
	Description    string       `json:"description"`
	DateExpires    string       `json:"date_expires"`
	DateExpiresGMT string       `json:"date_expires_gmt"`
	FreeShipping   bool         `json:"free_shipping"`
}

// DiscountMethod selects the active discount mechanism at checkout. The
// two are mutually exclusive; switching resets the other side.
type DiscountMethod string

const (
	MethodPoints  DiscountMethod = "points"
	MethodCoupons DiscountMethod = "coupons"
)

type PointsBalance struct {
	UserID        string `json:"user_id"`
	PointsBalance int    `json:"points_balance"`
	PointsValue   string `json:"points_value"`
}

// RedemptionRate reads as "Points per MonetaryValue rupees".
type RedemptionRate struct {
	Points        int    `json:"points"`
	MonetaryValue int    `json:"monetary_value"`
	Ratio         string `json:"ratio"`
}

type PointsSettings struct {
	RedemptionRate             RedemptionRate `json:"redemption_rate"`
	MinimumPointsPerRedemption int            `json:"minimum_points_per_redemption"`
	// MaximumPointsDiscount caps the points discount as a percentage of the
	// order total.
	MaximumPointsDiscount string `json:"maximum_points_discount"`
}
