package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"BeykushStoreAPI/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrMissingIdentity = errors.New("item has no product identity")
	ErrMissingCode     = errors.New("coupon code is empty")
	ErrNoValidator     = errors.New("coupon validation is not configured")
	ErrNoSyncer        = errors.New("server sync is not configured")
)

// CouponValidator resolves a coupon code against the commerce backend
type CouponValidator interface {
	ValidateCoupon(ctx context.Context, code string) (model.AppliedCoupon, error)
}

// Syncer pushes the cart to the commerce backend and returns the
// server-computed tax and shipping amounts
type Syncer interface {
	SyncCart(ctx context.Context, snap model.CartSnapshot) (model.ServerTotals, error)
}

// Persister stores the serializable snapshot after each successful
// mutation. Implemented by repository.CartRepository (Postgres) and
// repository.MemoryStore.
type Persister interface {
	Save(ctx context.Context, sessionID string, snap model.CartSnapshot) error
}

// State is a read-only copy of the cart handed to subscribers and callers
type State struct {
	Items          []model.CartItem
	AppliedCoupons []model.AppliedCoupon
	Totals         model.CartTotals
	IsOpen         bool
	IsLoading      bool
	LastUpdated    int64
}

// Options configures a cart engine. Zero-value fields get safe
// defaults; a nil Persister disables persistence.
type Options struct {
	Persister Persister
	Validator CouponValidator
	Syncer    Syncer
	Snapshot  *model.CartSnapshot // previously persisted state, nil for a fresh cart
	Logger    *zap.Logger
	Clock     func() time.Time
}

// Engine is the per-session cart: the authoritative record of what the
// shopper intends to purchase and the arithmetic derived from it.
// Item mutations are synchronous and purely local; ApplyCoupon and
// SyncWithServer call out to the backend and may interleave with item
// mutations, so totals are always recomputed from the state as it is
// after the call returns, never from a pre-call snapshot.
type Engine struct {
	sessionID string
	persister Persister
	validator CouponValidator
	syncer    Syncer
	log       *zap.Logger
	now       func() time.Time

	mu          sync.Mutex
	items       []model.CartItem
	coupons     []model.AppliedCoupon
	totals      model.CartTotals
	isOpen      bool
	loading     int // outstanding remote calls
	lastUpdated int64

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// New builds an engine for a session, rehydrating from the snapshot
// when one is given. Totals are recomputed from the snapshot rather
// than trusted from storage.
func New(sessionID string, opts Options) *Engine {
	e := &Engine{
		sessionID: sessionID,
		persister: opts.Persister,
		validator: opts.Validator,
		syncer:    opts.Syncer,
		log:       opts.Logger,
		now:       opts.Clock,
		subs:      make(map[int]func(State)),
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if snap := opts.Snapshot; snap != nil {
		e.items = append(e.items, snap.Items...)
		e.coupons = append(e.coupons, snap.AppliedCoupons...)
		e.lastUpdated = snap.LastUpdated
		e.recomputeLocked()
	}
	return e
}

// AddItem inserts the item with the given quantity, or increments the
// quantity of the line with the same (id, variation) key. The existing
// line's price snapshot is retained on a merge. Adding also opens the
// cart drawer.
func (e *Engine) AddItem(ctx context.Context, item model.CartItem, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if item.ID == "" {
		return ErrMissingIdentity
	}
	if _, err := model.EffectivePrice(item); err != nil {
		return err
	}

	e.mu.Lock()
	if idx := e.findLocked(item.Key()); idx >= 0 {
		e.items[idx].Quantity += quantity
	} else {
		item.Quantity = quantity
		e.items = append(e.items, item)
	}
	e.isOpen = true
	e.touchLocked()
	e.recomputeLocked()
	st := e.stateLocked()
	e.mu.Unlock()

	e.commit(ctx, st)
	return nil
}

// RemoveItem deletes the matching line; absent lines are a no-op
func (e *Engine) RemoveItem(ctx context.Context, id string, variationID int) {
	e.mu.Lock()
	idx := e.findLocked(model.ItemKey{ID: id, VariationID: variationID})
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	e.items = append(e.items[:idx], e.items[idx+1:]...)
	e.touchLocked()
	e.recomputeLocked()
	st := e.stateLocked()
	e.mu.Unlock()

	e.commit(ctx, st)
}

// UpdateQuantity sets the line's quantity exactly. A quantity of zero
// or below removes the line; an absent line is a no-op.
func (e *Engine) UpdateQuantity(ctx context.Context, id string, quantity int, variationID int) {
	e.mu.Lock()
	idx := e.findLocked(model.ItemKey{ID: id, VariationID: variationID})
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	if quantity <= 0 {
		e.items = append(e.items[:idx], e.items[idx+1:]...)
	} else {
		e.items[idx].Quantity = quantity
	}
	e.touchLocked()
	e.recomputeLocked()
	st := e.stateLocked()
	e.mu.Unlock()

	e.commit(ctx, st)
}

// ClearCart empties items and coupons and zeroes every total,
// including the last server-supplied tax and shipping
func (e *Engine) ClearCart(ctx context.Context) {
	e.mu.Lock()
	e.items = nil
	e.coupons = nil
	e.totals = model.CartTotals{}
	e.touchLocked()
	st := e.stateLocked()
	e.mu.Unlock()

	e.commit(ctx, st)
}

// ApplyCoupon validates the code against the backend and, on success,
// inserts it into the applied set. Re-applying an applied code
// replaces its entry (the backend's fresh value wins); the discount is
// never double counted. On failure nothing but the loading flag is
// touched and the error is returned. Item mutations that ran while the
// validation was outstanding are honored: totals come from the state
// after the call returns.
func (e *Engine) ApplyCoupon(ctx context.Context, code string) error {
	if code == "" {
		return ErrMissingCode
	}
	if e.validator == nil {
		return ErrNoValidator
	}

	e.beginRemote()
	coupon, err := e.validator.ValidateCoupon(ctx, code)
	if err != nil {
		e.endRemote()
		return err
	}

	e.mu.Lock()
	e.loading--
	replaced := false
	for i := range e.coupons {
		if e.coupons[i].Code == coupon.Code {
			e.coupons[i] = coupon
			replaced = true
			break
		}
	}
	if !replaced {
		e.coupons = append(e.coupons, coupon)
	}
	e.touchLocked()
	e.recomputeLocked()
	st := e.stateLocked()
	e.mu.Unlock()

	e.commit(ctx, st)
	return nil
}

// RemoveCoupon removes the coupon by code if present
func (e *Engine) RemoveCoupon(ctx context.Context, code string) {
	e.mu.Lock()
	idx := -1
	for i := range e.coupons {
		if e.coupons[i].Code == code {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	e.coupons = append(e.coupons[:idx], e.coupons[idx+1:]...)
	e.touchLocked()
	e.recomputeLocked()
	st := e.stateLocked()
	e.mu.Unlock()

	e.commit(ctx, st)
}

// SyncWithServer pushes the snapshot to the backend and adopts the
// server-computed tax and shipping. Failure leaves state untouched.
func (e *Engine) SyncWithServer(ctx context.Context) error {
	if e.syncer == nil {
		return ErrNoSyncer
	}

	e.mu.Lock()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.beginRemote()
	server, err := e.syncer.SyncCart(ctx, snap)
	if err != nil {
		e.endRemote()
		return err
	}

	e.mu.Lock()
	e.loading--
	e.totals.Tax = server.Tax
	e.totals.Shipping = server.Shipping
	e.touchLocked()
	e.recomputeLocked()
	st := e.stateLocked()
	e.mu.Unlock()

	e.commit(ctx, st)
	return nil
}

// RecalculateTotals recomputes totals from current items and coupons.
// Already-consistent state is a fixed point, so calling it after any
// mutation changes nothing.
func (e *Engine) RecalculateTotals(ctx context.Context) {
	e.mu.Lock()
	e.touchLocked()
	e.recomputeLocked()
	st := e.stateLocked()
	e.mu.Unlock()

	e.commit(ctx, st)
}

// OpenCart, CloseCart and ToggleCart flip the drawer flag. The flag is
// presentation state: subscribers are notified but nothing is persisted.
func (e *Engine) OpenCart() {
	e.setOpen(func(bool) bool { return true })
}

func (e *Engine) CloseCart() {
	e.setOpen(func(bool) bool { return false })
}

func (e *Engine) ToggleCart() {
	e.setOpen(func(open bool) bool { return !open })
}

func (e *Engine) setOpen(f func(bool) bool) {
	e.mu.Lock()
	e.isOpen = f(e.isOpen)
	st := e.stateLocked()
	e.mu.Unlock()
	e.notify(st)
}

// State returns a copy of the current cart state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Snapshot returns the serializable subset of state
func (e *Engine) Snapshot() model.CartSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Count returns the total quantity across all lines
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, it := range e.items {
		n += it.Quantity
	}
	return n
}

// Subscribe registers a callback fired after every state change and
// returns the matching unsubscribe func
func (e *Engine) Subscribe(fn func(State)) func() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.subMu.Lock()
		delete(e.subs, id)
		e.subMu.Unlock()
	}
}

func (e *Engine) findLocked(key model.ItemKey) int {
	for i := range e.items {
		if e.items[i].Key() == key {
			return i
		}
	}
	return -1
}

func (e *Engine) touchLocked() {
	e.lastUpdated = e.now().UnixMilli()
}

// recomputeLocked derives totals from items and coupons. Percent
// coupons are applied to the current subtotal; the summed discount is
// capped so the total never goes negative.
func (e *Engine) recomputeLocked() {
	subtotal := decimal.Zero
	for _, it := range e.items {
		price, err := model.EffectivePrice(it)
		if err != nil {
			e.log.Warn("line item has no parseable price, excluded from subtotal",
				zap.String("session", e.sessionID), zap.String("item", it.ID))
			continue
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	discount := decimal.Zero
	for _, c := range e.coupons {
		if c.DiscountType == model.DiscountPercent {
			discount = discount.Add(subtotal.Mul(c.Discount).Div(decimal.NewFromInt(100)))
		} else {
			discount = discount.Add(c.Discount)
		}
	}

	gross := subtotal.Add(e.totals.Tax).Add(e.totals.Shipping)
	if discount.GreaterThan(gross) {
		discount = gross
	}

	e.totals.Subtotal = subtotal
	e.totals.Discount = discount
	e.totals.Total = gross.Sub(discount)
}

func (e *Engine) stateLocked() State {
	return State{
		Items:          append([]model.CartItem(nil), e.items...),
		AppliedCoupons: append([]model.AppliedCoupon(nil), e.coupons...),
		Totals:         e.totals,
		IsOpen:         e.isOpen,
		IsLoading:      e.loading > 0,
		LastUpdated:    e.lastUpdated,
	}
}

func (e *Engine) snapshotLocked() model.CartSnapshot {
	return model.CartSnapshot{
		Items:          append([]model.CartItem(nil), e.items...),
		AppliedCoupons: append([]model.AppliedCoupon(nil), e.coupons...),
		LastUpdated:    e.lastUpdated,
	}
}

func (e *Engine) beginRemote() {
	e.mu.Lock()
	e.loading++
	st := e.stateLocked()
	e.mu.Unlock()
	e.notify(st)
}

// endRemote is the failure path: only the loading flag changes
func (e *Engine) endRemote() {
	e.mu.Lock()
	e.loading--
	st := e.stateLocked()
	e.mu.Unlock()
	e.notify(st)
}

// commit runs the post-mutation side effects outside the lock:
// snapshot persistence, then subscriber notification. A failed save is
// logged but does not fail the mutation; the in-memory cart stays
// authoritative.
func (e *Engine) commit(ctx context.Context, st State) {
	if e.persister != nil {
		snap := model.CartSnapshot{
			Items:          st.Items,
			AppliedCoupons: st.AppliedCoupons,
			LastUpdated:    st.LastUpdated,
		}
		if err := e.persister.Save(ctx, e.sessionID, snap); err != nil {
			e.log.Warn("cart snapshot save failed",
				zap.String("session", e.sessionID), zap.Error(err))
		}
	}
	e.notify(st)
}

func (e *Engine) notify(st State) {
	e.subMu.Lock()
	fns := make([]func(State), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}
