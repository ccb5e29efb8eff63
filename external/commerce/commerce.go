package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"BeykushStoreAPI/internal/model"

	"go.uber.org/zap"
)

// ErrInvalidCoupon is returned when the backend does not recognize a
// coupon code
var ErrInvalidCoupon = errors.New("invalid coupon code")

// ErrProductNotFound is returned when a slug resolves to nothing
var ErrProductNotFound = errors.New("product not found")

// Client talks to the commerce backend's GraphQL endpoint. All catalog
// reads, coupon validation, cart sync and checkout submission go
// through here; pricing, inventory, tax and order processing stay on
// the backend.
type Client struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

func NewClient(log *zap.Logger) (*Client, error) {
	endpoint := os.Getenv("GRAPHQL_ENDPOINT")
	if endpoint == "" {
		return nil, errors.New("GRAPHQL_ENDPOINT not set")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}, nil
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

// do posts the query and decodes the data envelope into out. GraphQL
// errors in the body surface as Go errors even on HTTP 200.
func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("commerce backend returned %s", resp.Status)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []gqlError      `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql: %s", envelope.Errors[0].Message)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

type productNode struct {
	ID           string `json:"id"`
	DatabaseID   int64  `json:"databaseId"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	RegularPrice string `json:"regularPrice"`
	SalePrice    string `json:"salePrice"`
	StockStatus  string `json:"stockStatus"`
	Image        *struct {
		SourceURL string `json:"sourceUrl"`
		AltText   string `json:"altText"`
	} `json:"image"`
	ProductCategories struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"productCategories"`
	Variations struct {
		Nodes []struct {
			DatabaseID   int64  `json:"databaseId"`
			Price        string `json:"price"`
			RegularPrice string `json:"regularPrice"`
			SalePrice    string `json:"salePrice"`
			StockStatus  string `json:"stockStatus"`
			Attributes   struct {
				Nodes []struct {
					Name  string `json:"name"`
					Value string `json:"value"`
				} `json:"nodes"`
			} `json:"attributes"`
		} `json:"nodes"`
	} `json:"variations"`
}

func (n productNode) toModel() model.Product {
	p := model.Product{
		ID:           n.ID,
		ProductID:    n.DatabaseID,
		Name:         n.Name,
		Slug:         n.Slug,
		Description:  n.Description,
		Price:        n.Price,
		RegularPrice: n.RegularPrice,
		SalePrice:    n.SalePrice,
		StockStatus:  n.StockStatus,
	}
	if n.Image != nil {
		p.Image = &model.CartImage{SourceURL: n.Image.SourceURL, AltText: n.Image.AltText}
	}
	for _, c := range n.ProductCategories.Nodes {
		p.Categories = append(p.Categories, c.Name)
	}
	for _, v := range n.Variations.Nodes {
		pv := model.ProductVariation{
			VariationID:  int(v.DatabaseID),
			Price:        v.Price,
			RegularPrice: v.RegularPrice,
			SalePrice:    v.SalePrice,
			StockStatus:  v.StockStatus,
		}
		for _, a := range v.Attributes.Nodes {
			if pv.Attributes == nil {
				pv.Attributes = make(map[string]string)
			}
			pv.Attributes[a.Name] = a.Value
		}
		p.Variations = append(p.Variations, pv)
	}
	return p
}

// Products returns one catalog page. category may be empty; after is
// the cursor from the previous page's EndCursor.
func (c *Client) Products(ctx context.Context, first int, after, category string) (model.ProductPage, error) {
	if first < 1 {
		first = 12
	}
	vars := map[string]any{"first": first}
	if after != "" {
		vars["after"] = after
	}
	if category != "" {
		vars["category"] = category
	}

	var data struct {
		Products struct {
			PageInfo struct {
				EndCursor   string `json:"endCursor"`
				HasNextPage bool   `json:"hasNextPage"`
			} `json:"pageInfo"`
			Nodes []productNode `json:"nodes"`
		} `json:"products"`
	}
	if err := c.do(ctx, productsQuery, vars, &data); err != nil {
		return model.ProductPage{}, err
	}

	page := model.ProductPage{
		EndCursor:   data.Products.PageInfo.EndCursor,
		HasNextPage: data.Products.PageInfo.HasNextPage,
	}
	for _, n := range data.Products.Nodes {
		page.Products = append(page.Products, n.toModel())
	}
	return page, nil
}

// ProductBySlug returns a single product or ErrProductNotFound
func (c *Client) ProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var data struct {
		Product *productNode `json:"product"`
	}
	if err := c.do(ctx, productBySlugQuery, map[string]any{"slug": slug}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, ErrProductNotFound
	}
	p := data.Product.toModel()
	return &p, nil
}

// Categories lists the catalog's product categories
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var data struct {
		ProductCategories struct {
			Nodes []struct {
				ID    string `json:"id"`
				Name  string `json:"name"`
				Slug  string `json:"slug"`
				Count int    `json:"count"`
			} `json:"nodes"`
		} `json:"productCategories"`
	}
	if err := c.do(ctx, categoriesQuery, nil, &data); err != nil {
		return nil, err
	}
	cats := make([]model.Category, 0, len(data.ProductCategories.Nodes))
	for _, n := range data.ProductCategories.Nodes {
		cats = append(cats, model.Category{ID: n.ID, Name: n.Name, Slug: n.Slug, Count: n.Count})
	}
	return cats, nil
}

// ValidateCoupon resolves a code to its discount. Implements
// cart.CouponValidator.
func (c *Client) ValidateCoupon(ctx context.Context, code string) (model.AppliedCoupon, error) {
	var data struct {
		Coupon *struct {
			Code         string `json:"code"`
			Amount       string `json:"amount"`
			DiscountType string `json:"discountType"`
		} `json:"coupon"`
	}
	if err := c.do(ctx, couponQuery, map[string]any{"code": code}, &data); err != nil {
		return model.AppliedCoupon{}, err
	}
	if data.Coupon == nil {
		return model.AppliedCoupon{}, ErrInvalidCoupon
	}

	amount, err := model.ParsePrice(data.Coupon.Amount)
	if err != nil {
		return model.AppliedCoupon{}, fmt.Errorf("coupon %s: %w", code, err)
	}

	kind := model.DiscountFixed
	if data.Coupon.DiscountType == "PERCENT" {
		kind = model.DiscountPercent
	}
	return model.AppliedCoupon{Code: data.Coupon.Code, Discount: amount, DiscountType: kind}, nil
}

// SyncCart pushes the local cart to the backend and returns the
// server-computed tax and shipping. Implements cart.Syncer.
func (c *Client) SyncCart(ctx context.Context, snap model.CartSnapshot) (model.ServerTotals, error) {
	items := make([]map[string]any, 0, len(snap.Items))
	for _, it := range snap.Items {
		entry := map[string]any{
			"productId": it.ProductID,
			"quantity":  it.Quantity,
		}
		if it.VariationID != 0 {
			entry["variationId"] = it.VariationID
		}
		items = append(items, entry)
	}
	coupons := make([]string, 0, len(snap.AppliedCoupons))
	for _, cp := range snap.AppliedCoupons {
		coupons = append(coupons, cp.Code)
	}

	var data struct {
		SyncCart struct {
			Cart struct {
				TotalTax      string `json:"totalTax"`
				ShippingTotal string `json:"shippingTotal"`
			} `json:"cart"`
		} `json:"syncCart"`
	}
	vars := map[string]any{"items": items, "coupons": coupons}
	if err := c.do(ctx, syncCartMutation, vars, &data); err != nil {
		return model.ServerTotals{}, err
	}

	var totals model.ServerTotals
	if raw := data.SyncCart.Cart.TotalTax; raw != "" {
		tax, err := model.ParsePrice(raw)
		if err != nil {
			return model.ServerTotals{}, fmt.Errorf("server tax: %w", err)
		}
		totals.Tax = tax
	}
	if raw := data.SyncCart.Cart.ShippingTotal; raw != "" {
		shipping, err := model.ParsePrice(raw)
		if err != nil {
			return model.ServerTotals{}, fmt.Errorf("server shipping: %w", err)
		}
		totals.Shipping = shipping
	}
	return totals, nil
}

// Checkout submits the cart and billing details as an order
func (c *Client) Checkout(ctx context.Context, req model.CheckoutRequest, snap model.CartSnapshot) (model.CheckoutResult, error) {
	items := make([]map[string]any, 0, len(snap.Items))
	for _, it := range snap.Items {
		entry := map[string]any{
			"productId": it.ProductID,
			"quantity":  it.Quantity,
		}
		if it.VariationID != 0 {
			entry["variationId"] = it.VariationID
		}
		items = append(items, entry)
	}
	coupons := make([]string, 0, len(snap.AppliedCoupons))
	for _, cp := range snap.AppliedCoupons {
		coupons = append(coupons, cp.Code)
	}

	vars := map[string]any{
		"items":   items,
		"coupons": coupons,
		"billing": map[string]any{
			"email":     req.Email,
			"firstName": req.FirstName,
			"lastName":  req.LastName,
			"phone":     req.Phone,
			"address1":  req.Address1,
			"address2":  req.Address2,
			"city":      req.City,
			"postcode":  req.Postcode,
			"country":   req.Country,
		},
		"paymentMethod": req.PaymentMethod,
		"customerNote":  req.CustomerNote,
	}

	var data struct {
		Checkout struct {
			Order struct {
				DatabaseID int64 `json:"databaseId"`
			} `json:"order"`
			Redirect string `json:"redirect"`
		} `json:"checkout"`
	}
	if err := c.do(ctx, checkoutMutation, vars, &data); err != nil {
		return model.CheckoutResult{}, err
	}
	if data.Checkout.Order.DatabaseID == 0 {
		return model.CheckoutResult{}, errors.New("backend did not return an order")
	}
	return model.CheckoutResult{
		OrderID:     data.Checkout.Order.DatabaseID,
		RedirectURL: data.Checkout.Redirect,
	}, nil
}
