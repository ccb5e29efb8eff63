package model

// ProductVariation is a purchasable configuration of a product with
// its own price and stock
type ProductVariation struct {
	VariationID  int               `json:"variationid"`
	Price        string            `json:"price"`
	RegularPrice string            `json:"regularprice,omitempty"`
	SalePrice    string            `json:"saleprice,omitempty"`
	StockStatus  string            `json:"stockstatus,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

// Product is a catalog entry as served by the commerce backend
type Product struct {
	ID           string             `json:"id"`
	ProductID    int64              `json:"productid"`
	Name         string             `json:"name"`
	Slug         string             `json:"slug"`
	Description  string             `json:"description,omitempty"`
	Price        string             `json:"price"`
	RegularPrice string             `json:"regularprice,omitempty"`
	SalePrice    string             `json:"saleprice,omitempty"`
	StockStatus  string             `json:"stockstatus,omitempty"`
	Image        *CartImage         `json:"image,omitempty"`
	Attributes   *WineAttributes    `json:"attributes,omitempty"`
	Categories   []string           `json:"categories,omitempty"`
	Variations   []ProductVariation `json:"variations,omitempty"`
}

// ProductPage is one page of a cursor-paginated catalog listing
type ProductPage struct {
	Products    []Product `json:"products"`
	EndCursor   string    `json:"endcursor,omitempty"`
	HasNextPage bool      `json:"hasnextpage"`
}

// Category is a product category with its catalog count
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}
