package services

import (
	"context"
	"sync"

	"BeykushStoreAPI/internal/cart"
	"BeykushStoreAPI/internal/model"
	"BeykushStoreAPI/internal/repository"

	"go.uber.org/zap"
)

// CartService owns one cart engine per shopper session. Engines are
// built lazily on first touch and rehydrated from the snapshot store;
// a failed or corrupt load degrades to an empty cart.
type CartService struct {
	Store     repository.Store
	Validator cart.CouponValidator
	Syncer    cart.Syncer
	Log       *zap.Logger

	mu      sync.Mutex
	engines map[string]*cart.Engine
}

func NewCartService(store repository.Store, validator cart.CouponValidator, syncer cart.Syncer, log *zap.Logger) *CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{
		Store:     store,
		Validator: validator,
		Syncer:    syncer,
		Log:       log,
		engines:   make(map[string]*cart.Engine),
	}
}

// Engine returns the session's cart engine, building it on first use
func (s *CartService) Engine(ctx context.Context, sessionID string) *cart.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.engines[sessionID]; ok {
		return e
	}

	var snap *model.CartSnapshot
	if s.Store != nil {
		loaded, err := s.Store.Load(ctx, sessionID)
		if err != nil {
			s.Log.Warn("cart snapshot load failed, starting empty",
				zap.String("session", sessionID), zap.Error(err))
		} else {
			snap = loaded
		}
	}

	e := cart.New(sessionID, cart.Options{
		Persister: s.Store,
		Validator: s.Validator,
		Syncer:    s.Syncer,
		Snapshot:  snap,
		Logger:    s.Log,
	})
	s.engines[sessionID] = e
	return e
}

// Get returns the session's cart state
func (s *CartService) Get(ctx context.Context, sessionID string) model.CartResponse {
	st := s.Engine(ctx, sessionID).State()
	return model.CartResponse{
		Items:          st.Items,
		AppliedCoupons: st.AppliedCoupons,
		Totals:         st.Totals,
		IsOpen:         st.IsOpen,
		IsLoading:      st.IsLoading,
		LastUpdated:    st.LastUpdated,
	}
}

func (s *CartService) Add(ctx context.Context, sessionID string, item model.CartItem, quantity int) error {
	return s.Engine(ctx, sessionID).AddItem(ctx, item, quantity)
}

func (s *CartService) Update(ctx context.Context, sessionID, id string, quantity, variationID int) {
	s.Engine(ctx, sessionID).UpdateQuantity(ctx, id, quantity, variationID)
}

func (s *CartService) Remove(ctx context.Context, sessionID, id string, variationID int) {
	s.Engine(ctx, sessionID).RemoveItem(ctx, id, variationID)
}

func (s *CartService) Clear(ctx context.Context, sessionID string) {
	s.Engine(ctx, sessionID).ClearCart(ctx)
}

func (s *CartService) ApplyCoupon(ctx context.Context, sessionID, code string) error {
	return s.Engine(ctx, sessionID).ApplyCoupon(ctx, code)
}

func (s *CartService) RemoveCoupon(ctx context.Context, sessionID, code string) {
	s.Engine(ctx, sessionID).RemoveCoupon(ctx, code)
}

func (s *CartService) Sync(ctx context.Context, sessionID string) error {
	return s.Engine(ctx, sessionID).SyncWithServer(ctx)
}
