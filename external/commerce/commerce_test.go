package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"BeykushStoreAPI/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("GRAPHQL_ENDPOINT", srv.URL)
	client, err := NewClient(nil)
	require.NoError(t, err)
	return client
}

func respond(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	t.Setenv("GRAPHQL_ENDPOINT", "")
	_, err := NewClient(nil)
	require.Error(t, err)
}

func TestValidateCoupon(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "WELCOME10", req.Variables["code"])
		respond(t, w, `{"data":{"coupon":{"code":"welcome10","amount":"10.00","discountType":"FIXED_CART"}}}`)
	})

	coupon, err := client.ValidateCoupon(context.Background(), "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, "welcome10", coupon.Code)
	assert.Equal(t, model.DiscountFixed, coupon.DiscountType)
	assert.True(t, coupon.Discount.Equal(decimal.NewFromInt(10)))
}

func TestValidateCoupon_PercentKind(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"data":{"coupon":{"code":"ten","amount":"10","discountType":"PERCENT"}}}`)
	})

	coupon, err := client.ValidateCoupon(context.Background(), "ten")
	require.NoError(t, err)
	assert.Equal(t, model.DiscountPercent, coupon.DiscountType)
}

func TestValidateCoupon_UnknownCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"data":{"coupon":null}}`)
	})

	_, err := client.ValidateCoupon(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrInvalidCoupon)
}

func TestDo_GraphQLErrorsSurface(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"data":null,"errors":[{"message":"internal server error"}]}`)
	})

	_, err := client.Categories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal server error")
}

func TestDo_HTTPErrorSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Categories(context.Background())
	require.Error(t, err)
}

func TestProducts_PaginationAndMapping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 2, req.Variables["first"])
		assert.Equal(t, "cursor-1", req.Variables["after"])
		respond(t, w, `{"data":{"products":{
			"pageInfo":{"endCursor":"cursor-2","hasNextPage":true},
			"nodes":[{
				"id":"cHJvZHVjdDo3NDI=","databaseId":742,"name":"Artania Red","slug":"artania-red",
				"price":"650.00","regularPrice":"650.00","stockStatus":"IN_STOCK",
				"image":{"sourceUrl":"https://cdn.example/artania.jpg","altText":"Artania"},
				"productCategories":{"nodes":[{"name":"Red"}]},
				"variations":{"nodes":[{"databaseId":12,"price":"650.00","stockStatus":"IN_STOCK",
					"attributes":{"nodes":[{"name":"volume","value":"0.75"}]}}]}
			}]}}}`)
	})

	page, err := client.Products(context.Background(), 2, "cursor-1", "")
	require.NoError(t, err)
	assert.Equal(t, "cursor-2", page.EndCursor)
	assert.True(t, page.HasNextPage)
	require.Len(t, page.Products, 1)

	p := page.Products[0]
	assert.Equal(t, int64(742), p.ProductID)
	assert.Equal(t, []string{"Red"}, p.Categories)
	require.NotNil(t, p.Image)
	assert.Equal(t, "https://cdn.example/artania.jpg", p.Image.SourceURL)
	require.Len(t, p.Variations, 1)
	assert.Equal(t, 12, p.Variations[0].VariationID)
	assert.Equal(t, "0.75", p.Variations[0].Attributes["volume"])
}

func TestProductBySlug_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"data":{"product":null}}`)
	})

	_, err := client.ProductBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSyncCart_ParsesServerTotals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		items, ok := req.Variables["items"].([]any)
		require.True(t, ok)
		assert.Len(t, items, 1)
		respond(t, w, `{"data":{"syncCart":{"cart":{"totalTax":"₴25,00","shippingTotal":"60.00"}}}}`)
	})

	snap := model.CartSnapshot{
		Items: []model.CartItem{{ID: "A", ProductID: 742, Price: "650", Quantity: 1}},
	}
	totals, err := client.SyncCart(context.Background(), snap)
	require.NoError(t, err)
	assert.True(t, totals.Tax.Equal(decimal.NewFromInt(25)))
	assert.True(t, totals.Shipping.Equal(decimal.NewFromInt(60)))
}

func TestCheckout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"data":{"checkout":{"order":{"databaseId":9001},"redirect":"https://pay.example/9001"}}}`)
	})

	req := model.CheckoutRequest{
		Email: "o@example.com", FirstName: "Olena", LastName: "K",
		Address1: "1 Port St", City: "Mykolaiv", Postcode: "54000", Country: "UA",
		PaymentMethod: "cod",
	}
	snap := model.CartSnapshot{Items: []model.CartItem{{ID: "A", ProductID: 1, Price: "100", Quantity: 1}}}

	result, err := client.Checkout(context.Background(), req, snap)
	require.NoError(t, err)
	assert.Equal(t, int64(9001), result.OrderID)
	assert.Equal(t, "https://pay.example/9001", result.RedirectURL)
}

func TestCheckout_NoOrderReturned(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, `{"data":{"checkout":{"order":{"databaseId":0},"redirect":""}}}`)
	})

	_, err := client.Checkout(context.Background(), model.CheckoutRequest{}, model.CartSnapshot{})
	require.Error(t, err)
}
