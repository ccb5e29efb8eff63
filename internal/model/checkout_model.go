package model

// CheckoutRequest is the billing/shipping detail submitted with the cart
type CheckoutRequest struct {
	Email         string `json:"email"`
	FirstName     string `json:"firstname"`
	LastName      string `json:"lastname"`
	Phone         string `json:"phone,omitempty"`
	Address1      string `json:"address1"`
	Address2      string `json:"address2,omitempty"`
	City          string `json:"city"`
	Postcode      string `json:"postcode"`
	Country       string `json:"country"`
	PaymentMethod string `json:"paymentmethod"`
	CustomerNote  string `json:"customernote,omitempty"`
}

// CheckoutResult is returned after the backend accepts an order
type CheckoutResult struct {
	OrderID     int64  `json:"orderid"`
	RedirectURL string `json:"redirecturl,omitempty"`
}
