package storekit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ReneKroon/ttlcache"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/witworkapp/storekit-go/appstore"
	"github.com/witworkapp/storekit-go/model"
	"github.com/witworkapp/storekit-go/product"
	"github.com/witworkapp/storekit-go/receipt"
	"github.com/witworkapp/storekit-go/subscription"
)

const (
	// Accounts for server/client clock drift when capturing the reference
	// start date on first run.
	clockSkewBuffer = 30 * time.Second

	defaultSessionTTL = time.Hour

	productsFlightKey = "products"
)

// SessionPurchase is the result of one validation cycle: the session that
// produced it and the subscription resolved as current, if any.
type SessionPurchase struct {
	SessionID string
	Current   *subscription.Record
}

// Service orchestrates the receipt validation pipeline and answers the
// application's entitlement queries from the last resolved state.
type Service struct {
	log       *zap.Logger
	validator appstore.Validator
	receipts  receipt.Source
	catalog   product.Catalog
	purchaser Purchaser
	store     subscription.Store

	now        func() time.Time
	startDate  time.Time
	sessionTTL time.Duration

	mu       sync.RWMutex
	current  *SessionPurchase
	products []product.Product

	sessions *ttlcache.Cache
	flight   singleflight.Group
}

type ServiceOption func(*Service)

// WithClock overrides the time source. Tests use this to move "now".
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithSessionTTL overrides how long completed sessions stay queryable.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.sessionTTL = ttl
	}
}

// NewService wires the pipeline. It establishes the persisted reference start
// date and warms the in-memory entitlement from the store; a missing or
// unreadable persisted record means no prior entitlement, never an error.
func NewService(
	ctx context.Context,
	log *zap.Logger,
	validator appstore.Validator,
	receipts receipt.Source,
	catalog product.Catalog,
	purchaser Purchaser,
	store subscription.Store,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		log:        log,
		validator:  validator,
		receipts:   receipts,
		catalog:    catalog,
		purchaser:  purchaser,
		store:      store,
		now:        time.Now,
		sessionTTL: defaultSessionTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.sessions = ttlcache.NewCache()
	s.sessions.SetTTL(s.sessionTTL)

	startDate, err := store.InitStartDate(ctx, s.now().Add(-clockSkewBuffer))
	if err != nil {
		log.Warn("Failed to establish start date", zap.Error(err))
		startDate = s.now().Add(-clockSkewBuffer)
	}
	s.startDate = startDate

	persisted, err := store.GetCurrent(ctx)
	if err == nil {
		s.current = &SessionPurchase{
			SessionID: uuid.NewString(),
			Current:   persisted,
		}
	} else if err != subscription.ErrNotFound {
		log.Warn("Failed to read persisted subscription", zap.Error(err))
	}

	return s
}

// StartDate is the reference timestamp captured on first run, stable across
// restarts and later clock changes.
func (s *Service) StartDate() time.Time {
	return s.startDate
}

// IsEntitled reports whether the user currently has paid access, from the
// last resolved state only. No I/O.
func (s *Service) IsEntitled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || s.current.Current == nil {
		return false
	}
	return s.current.Current.IsActiveAt(s.now())
}

// CurrentSubscription returns the last resolved subscription, which may no
// longer be active. Same source as IsEntitled, richer return.
func (s *Service) CurrentSubscription() (subscription.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || s.current.Current == nil {
		return subscription.Record{}, false
	}
	return *s.current.Current, true
}

// Session returns a completed session by ID while it remains cached.
func (s *Service) Session(id string) (*Session, bool) {
	cached, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	return cached.(*Session), true
}

// Restore re-runs the full validation pipeline from the existing receipt.
func (s *Service) Restore(ctx context.Context) (*SessionPurchase, error) {
	return s.FetchAndValidate(ctx)
}

/// FetchAndValidate runs the pipeline: load receipt, validate, parse, resolve,
// persist, update in-memory state. Concurrent calls for the same receipt
// coalesce into one network round trip.
func (s *Service) FetchAndValidate(ctx context.Context) (*SessionPurchase, error) {
	receiptData, err := s.receipts.Load(ctx)
	if err != nil {
		return nil, err
	}

	fingerprint := model.ReceiptFingerprintString(receiptData)

	// The flight is shared by every coalesced caller, so it must not die
	// with whichever caller happened to start it.
	result, err, _ := s.flight.Do(fingerprint, func() (any, error) {
		return s.validateAndResolve(context.WithoutCancel(ctx), receiptData, fingerprint)
	})
	if err != nil {
		return nil, err
	}

	return result.(*SessionPurchase), nil
}

func (s *Service) validateAndResolve(ctx context.Context, receiptData []byte, fingerprint string) (*SessionPurchase, error) {
	log := s.log.With(zap.String("receipt_fingerprint", fingerprint))

	resp, err := s.validator.Verify(ctx, receiptData)
	if err != nil {
		log.Warn("Failed to verify receipt", zap.Error(err))
		return nil, err
	}

	session := NewSession(receiptData, resp)
	s.sessions.Set(session.ID, session)

	log = log.With(zap.String("session_id", session.ID))
	log.Debug("Verified receipt", zap.Int("records", len(session.Records)))

	result := &SessionPurchase{SessionID: session.ID}
	if current, ok := session.Current(s.now()); ok {
		result.Current = &current

		// The resolved record is active by construction, so it is safe to
		// persist. Write failures keep the in-memory state authoritative
		// until the next refresh.
		if err := s.store.SaveCurrent(ctx, &current); err != nil {
			log.Warn("Failed to persist current subscription", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.current = result
	s.mu.Unlock()

	return result, nil
}

// Purchase initiates a platform purchase and, on success, refreshes the
// entitlement through the full pipeline. User cancellation is a silent
// no-op. Platform failures surface as *PurchaseError with a user-facing
// message.
func (s *Service) Purchase(ctx context.Context, productID string) (*PurchaseResult, error) {
	if s.purchaser == nil {
		return nil, errors.New("purchaser not configured")
	}

	details, err := s.purchaser.Purchase(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrPurchaseCancelled) {
			s.log.Debug("Purchase cancelled by user", zap.String("product_id", productID))
			return &PurchaseResult{Cancelled: true}, nil
		}

		s.log.Warn("Purchase failed", zap.String("product_id", productID), zap.Error(err))
		return nil, newPurchaseError(err)
	}

	if _, err := s.FetchAndValidate(ctx); err != nil {
		return nil, err
	}

	return &PurchaseResult{Details: details}, nil
}

// RetrieveProducts returns catalog entries for the identifiers, querying the
// catalog once per process lifetime and caching the first successful result.
func (s *Service) RetrieveProducts(ctx context.Context, productIDs []string) ([]product.Product, error) {
	s.mu.RLock()
	cached := s.products
	s.mu.RUnlock()

	if len(cached) > 0 {
		return cached, nil
	}

	result, err, _ := s.flight.Do(productsFlightKey, func() (any, error) {
		s.mu.RLock()
		cached := s.products
		s.mu.RUnlock()
		if len(cached) > 0 {
			return cached, nil
		}

		retrieved, err := s.catalog.RetrieveProducts(context.WithoutCancel(ctx), productIDs)
		if err != nil {
			s.log.Warn("Failed to retrieve products", zap.Error(err))
			return nil, err
		}
		if len(retrieved) == 0 {
			return nil, product.ErrNoProducts
		}

		s.mu.Lock()
		s.products = retrieved
		s.mu.Unlock()

		return retrieved, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]product.Product), nil
}
