package model

import "github.com/shopspring/decimal"

// DiscountType distinguishes how a coupon's value is applied
type DiscountType string

const (
	DiscountFixed   DiscountType = "fixed"
	DiscountPercent DiscountType = "percent"
)

// ItemKey identifies a cart line: same product with different
// variations (or no variation at all) are distinct lines.
// A zero VariationID means "no variation".
type ItemKey struct {
	ID          string
	VariationID int
}

// CartImage is the product image reference carried on a cart line
type CartImage struct {
	SourceURL string `json:"sourceurl"`
	AltText   string `json:"alttext,omitempty"`
}

// WineAttributes are the descriptive attributes shown on wine cart lines
type WineAttributes struct {
	Vintage        string   `json:"vintage,omitempty"`
	Volume         string   `json:"volume,omitempty"`
	AlcoholContent string   `json:"alcoholcontent,omitempty"`
	GrapeVariety   []string `json:"grapevariety,omitempty"`
}

// CartItem is one line in the cart. Price fields are the raw formatted
// strings served by the commerce backend, snapshotted at add time.
type CartItem struct {
	ID           string            `json:"id"`
	ProductID    int64             `json:"productid"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	Price        string            `json:"price"`
	RegularPrice string            `json:"regularprice,omitempty"`
	SalePrice    string            `json:"saleprice,omitempty"`
	Quantity     int               `json:"quantity"`
	Image        *CartImage        `json:"image,omitempty"`
	Attributes   *WineAttributes   `json:"attributes,omitempty"`
	VariationID  int               `json:"variationid,omitempty"`
	Variation    map[string]string `json:"variation,omitempty"`
}

// Key returns the line identity of the item
func (i CartItem) Key() ItemKey {
	return ItemKey{ID: i.ID, VariationID: i.VariationID}
}

// AppliedCoupon is a discount code accepted into the cart.
// For percent coupons Discount holds the percentage value; the
// monetary amount is derived from the subtotal on every recompute.
type AppliedCoupon struct {
	Code         string          `json:"code"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType DiscountType    `json:"discounttype"`
}

// CartTotals is derived from items + coupons and never mutated directly
type CartTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ServerTotals are the backend-computed amounts adopted on a cart sync
type ServerTotals struct {
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
}

// CartSnapshot is the serializable subset of cart state written to
// storage after every mutation. Transient flags (drawer open, loading)
// are deliberately excluded.
type CartSnapshot struct {
	Items          []CartItem      `json:"items"`
	AppliedCoupons []AppliedCoupon `json:"appliedcoupons"`
	LastUpdated    int64           `json:"lastupdated"`
}

// CartResponse is returned when calling GET /store/cart
type CartResponse struct {
	Items          []CartItem      `json:"items"`
	AppliedCoupons []AppliedCoupon `json:"appliedcoupons"`
	Totals         CartTotals      `json:"totals"`
	IsOpen         bool            `json:"isopen"`
	IsLoading      bool            `json:"isloading"`
	LastUpdated    int64           `json:"lastupdated"`
}
