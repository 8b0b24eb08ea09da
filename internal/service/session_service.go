package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalogue-service/internal/catalog"
	"catalogue-service/internal/models"
	"catalogue-service/internal/navigation"
	"catalogue-service/internal/redisclient"
	"catalogue-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionBusy is returned when another request holds the session lock
	ErrSessionBusy = errors.New("session busy")
	// ErrUnknownScreen is returned for a screen name outside the flow
	ErrUnknownScreen = errors.New("unknown screen")
)

// SessionStore persists navigation state per session
type SessionStore interface {
	SaveSession(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error
	LoadSession(ctx context.Context, sessionID string) ([]byte, error)
	DeleteSession(ctx context.Context, sessionID string) error
	SetUserInfo(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error
	AcquireLock(ctx context.Context, lockKey, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey, token string) error
}

// EventPublisher publishes session events
type EventPublisher interface {
	PublishLeadRegistered(ctx context.Context, event *models.LeadRegisteredEvent) error
}

// Session is one browsing session and its navigation state
type Session struct {
	ID    string            `json:"session_id"`
	Stage navigation.Stage  `json:"stage"`
	State *navigation.State `json:"state"`
}

// BackResult is the outcome of the back button
type BackResult struct {
	Session *Session         `json:"session"`
	Route   navigation.Route `json:"route,omitempty"`
	Popped  bool             `json:"popped"`
}

// View is the screen a session should see for a requested route
type View struct {
	Requested  navigation.Route     `json:"requested"`
	Route      navigation.Route     `json:"route"`
	Redirected bool                 `json:"redirected"`
	Next       navigation.Route     `json:"next,omitempty"`
	Back       navigation.Route     `json:"back"`
	Stage      navigation.Stage     `json:"stage"`
	UserInfo   *navigation.UserInfo `json:"user_info,omitempty"`
	Brands     []BrandView          `json:"brands,omitempty"`
	Brand      *BrandView           `json:"brand,omitempty"`
	Products   *ProductListing      `json:"products,omitempty"`
	Product    *ProductDetail       `json:"product,omitempty"`
}

// SessionService applies navigation transitions to stored sessions.
// Every transition runs under a per-session lock.
type SessionService struct {
	store          SessionStore
	eventPublisher EventPublisher
	catalog        *CatalogService
	ttl            time.Duration
	lockTTL        time.Duration
	logger         *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	store SessionStore,
	eventPublisher EventPublisher,
	catalogService *CatalogService,
	ttl, lockTTL time.Duration,
) *SessionService {
	return &SessionService{
		store:          store,
		eventPublisher: eventPublisher,
		catalog:        catalogService,
		ttl:            ttl,
		lockTTL:        lockTTL,
		logger:         util.GetLogger(),
	}
}

// Create starts a session in the empty initial state
func (s *SessionService) Create(ctx context.Context) (*Session, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.Create")
	defer span.End()

	id := uuid.New().String()
	state := navigation.New()
	if err := s.save(ctx, id, state); err != nil {
		return nil, err
	}

	util.SessionsCreatedTotal.Inc()
	s.logger.Info("Session created", zap.String("session_id", id))
	return newSession(id, state), nil
}

// Get returns the current state of a session
func (s *SessionService) Get(ctx context.Context, sessionID string) (*Session, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.Get")
	defer span.End()

	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return newSession(sessionID, state), nil
}

// Register stores the visitor contact and moves on to the brand screen.
// The registration slot and the lead event are best effort.
func (s *SessionService) Register(ctx context.Context, sessionID string, info navigation.UserInfo) (*Session, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.Register")
	defer span.End()

	sess, err := s.mutate(ctx, sessionID, "register", func(state *navigation.State) {
		state.Register(info)
		state.PushRoute(navigation.RouteBrand)
	})
	if err != nil {
		return nil, err
	}

	util.LeadsRegisteredTotal.Inc()
	s.persistUserInfo(ctx, sessionID, info)
	s.publishLead(ctx, sessionID, info)

	return sess, nil
}

// SelectBrand selects a brand and moves on to the system screen
func (s *SessionService) SelectBrand(ctx context.Context, sessionID, brandID string) (*Session, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.SelectBrand")
	defer span.End()

	return s.mutate(ctx, sessionID, "select_brand", func(state *navigation.State) {
		state.SelectBrand(brandID)
		state.PushRoute(navigation.RouteSystem)
	})
}

// SelectSystem selects a system and moves on to the product list
func (s *SessionService) SelectSystem(ctx context.Context, sessionID, systemID string) (*Session, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.SelectSystem")
	defer span.End()

	return s.mutate(ctx, sessionID, "select_system", func(state *navigation.State) {
		state.SelectSystem(systemID)
		state.PushRoute(navigation.RouteProducts)
	})
}

// SelectProduct selects a product and moves on to its detail screen.
// Picking a related product from the detail screen stays on that screen
// without growing the history.
func (s *SessionService) SelectProduct(ctx context.Context, sessionID, productID string) (*Session, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.SelectProduct")
	defer span.End()

	return s.mutate(ctx, sessionID, "select_product", func(state *navigation.State) {
		state.SelectProduct(productID)
		if state.Current() != navigation.RouteProduct {
			state.PushRoute(navigation.RouteProduct)
		}
	})
}

// GoToBrands clears brand and system. The history is left alone so back
// still walks the screens actually visited.
func (s *SessionService) GoToBrands(ctx context.Context, sessionID string) (*Session, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.GoToBrands")
	defer span.End()

	return s.mutate(ctx, sessionID, "brands_menu", func(state *navigation.State) {
		state.GoToBrands()
	})
}

// Back pops the history. Popped is false when there was nothing to pop.
func (s *SessionService) Back(ctx context.Context, sessionID string) (*BackResult, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.Back")
	defer span.End()

	result := &BackResult{}
	sess, err := s.mutate(ctx, sessionID, "back", func(state *navigation.State) {
		result.Route, result.Popped = state.PopRoute()
	})
	if err != nil {
		return nil, err
	}
	result.Session = sess
	return result, nil
}

// Reset returns a session to the empty initial state
func (s *SessionService) Reset(ctx context.Context, sessionID string) (*Session, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.Reset")
	defer span.End()

	return s.mutate(ctx, sessionID, "reset", func(state *navigation.State) {
		state.Reset()
	})
}

// End deletes a session and its registration slot
func (s *SessionService) End(ctx context.Context, sessionID string) error {
	ctx, span := util.StartSpan(ctx, "SessionService.End")
	defer span.End()

	err := s.withLock(ctx, sessionID, func() error {
		if _, err := s.load(ctx, sessionID); err != nil {
			return err
		}
		if err := s.store.DeleteSession(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	util.SessionLogger(sessionID).Info("Session ended")
	return nil
}

// View resolves the screen shown for a requested route. A route whose
// prerequisite selection is missing is redirected first.
func (s *SessionService) View(ctx context.Context, sessionID, screen string, filter catalog.Filter) (*View, error) {
	ctx, span := util.StartSpan(ctx, "SessionService.View")
	defer span.End()

	requested, ok := navigation.ParseRoute(screen)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScreen, screen)
	}

	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	route := navigation.Guard(requested, state)
	view := &View{
		Requested:  requested,
		Route:      route,
		Redirected: route != requested,
		Stage:      state.Stage(),
		UserInfo:   state.UserInfo,
	}

	view.Back = navigation.BackTarget(route)
	if next, ok := navigation.Next(route); ok {
		view.Next = next
	}

	switch route {
	case navigation.RouteBrand:
		view.Brands = s.catalog.Brands(ctx)
	case navigation.RouteSystem:
		if b, ok := s.catalog.Brand(ctx, state.BrandID); ok {
			view.Brand = &b
		}
	case navigation.RouteProducts:
		if listing, ok := s.catalog.Products(ctx, state.BrandID, state.SystemID, filter); ok {
			view.Products = listing
		}
	case navigation.RouteProduct:
		if detail, ok := s.catalog.Product(ctx, state.ProductID); ok {
			view.Product = detail
		}
	}

	return view, nil
}

// withLock runs fn while holding the session lock
func (s *SessionService) withLock(ctx context.Context, sessionID string, fn func() error) error {
	lockKey := fmt.Sprintf("session:%s", sessionID)
	token := uuid.New().String()

	acquired, err := s.store.AcquireLock(ctx, lockKey, token, s.lockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !acquired {
		util.SessionLockConflictsTotal.Inc()
		return ErrSessionBusy
	}
	defer func() {
		if err := s.store.ReleaseLock(ctx, lockKey, token); err != nil {
			util.SessionLogger(sessionID).Warn("Failed to release session lock", zap.Error(err))
		}
	}()

	return fn()
}

// mutate applies one transition under the session lock
func (s *SessionService) mutate(ctx context.Context, sessionID, transition string, apply func(*navigation.State)) (*Session, error) {
	var state *navigation.State
	err := s.withLock(ctx, sessionID, func() error {
		var err error
		state, err = s.load(ctx, sessionID)
		if err != nil {
			return err
		}

		apply(state)
		return s.save(ctx, sessionID, state)
	})
	if err != nil {
		return nil, err
	}

	util.SessionTransitionsTotal.WithLabelValues(transition).Inc()
	util.SessionLogger(sessionID).Debug("Session transition",
		zap.String("transition", transition),
		zap.String("stage", string(state.Stage())))

	return newSession(sessionID, state), nil
}

func (s *SessionService) load(ctx context.Context, sessionID string) (*navigation.State, error) {
	data, err := s.store.LoadSession(ctx, sessionID)
	if errors.Is(err, redisclient.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	state := navigation.New()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if state.History == nil {
		state.History = []navigation.Route{}
	}
	return state, nil
}

func (s *SessionService) save(ctx context.Context, sessionID string, state *navigation.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.store.SaveSession(ctx, sessionID, data, s.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionService) persistUserInfo(ctx context.Context, sessionID string, info navigation.UserInfo) {
	data, err := json.Marshal(info)
	if err == nil {
		err = s.store.SetUserInfo(ctx, sessionID, data, s.ttl)
	}
	if err != nil {
		util.UserInfoPersistFailuresTotal.Inc()
		util.SessionLogger(sessionID).Warn("Failed to persist user info", zap.Error(err))
	}
}

func (s *SessionService) publishLead(ctx context.Context, sessionID string, info navigation.UserInfo) {
	event := &models.LeadRegisteredEvent{
		BaseEvent: newBaseEvent(models.EventTypeLeadRegistered),
		SessionID: sessionID,
		FullName:  info.FullName,
		Company:   info.Company,
		Email:     info.Email,
	}
	if err := s.eventPublisher.PublishLeadRegistered(ctx, event); err != nil {
		util.LeadEventPublishFailuresTotal.Inc()
		util.SessionLogger(sessionID).Error("Failed to publish lead event",
			zap.String("event_id", event.EventID),
			zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

func newSession(id string, state *navigation.State) *Session {
	return &Session{ID: id, Stage: state.Stage(), State: state}
}
