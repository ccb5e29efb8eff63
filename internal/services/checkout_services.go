package services

import (
	"context"
	"errors"

	"BeykushStoreAPI/internal/model"
)

// CheckoutClient submits an order to the commerce backend
type CheckoutClient interface {
	Checkout(ctx context.Context, req model.CheckoutRequest, snap model.CartSnapshot) (model.CheckoutResult, error)
}

// CheckoutService submits the session's cart as an order and clears
// the cart once the backend accepts it
type CheckoutService struct {
	Commerce CheckoutClient
	Carts    *CartService
}

func NewCheckoutService(commerce CheckoutClient, carts *CartService) *CheckoutService {
	return &CheckoutService{Commerce: commerce, Carts: carts}
}

func (s *CheckoutService) Submit(ctx context.Context, sessionID string, req model.CheckoutRequest) (model.CheckoutResult, error) {
	if req.Email == "" {
		return model.CheckoutResult{}, errors.New("email is required")
	}
	if req.FirstName == "" || req.LastName == "" {
		return model.CheckoutResult{}, errors.New("billing name is required")
	}
	if req.Address1 == "" || req.City == "" || req.Postcode == "" || req.Country == "" {
		return model.CheckoutResult{}, errors.New("billing address is incomplete")
	}
	if req.PaymentMethod == "" {
		return model.CheckoutResult{}, errors.New("payment method is required")
	}

	engine := s.Carts.Engine(ctx, sessionID)
	snap := engine.Snapshot()
	if len(snap.Items) == 0 {
		return model.CheckoutResult{}, errors.New("cart is empty")
	}

	result, err := s.Commerce.Checkout(ctx, req, snap)
	if err != nil {
		return model.CheckoutResult{}, err
	}

	// the backend owns the order now
	engine.ClearCart(ctx)
	return result, nil
}
