// Package session hosts visual query containers: one constraint store per
// browser search session, the widgets editing it and the apply trigger.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/intavia/visualquery/internal/domain"
	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/layout"
	"github.com/intavia/visualquery/internal/domain/query"
	"github.com/intavia/visualquery/internal/domain/search/result"
	"github.com/intavia/visualquery/internal/domain/widget"
	"github.com/intavia/visualquery/internal/metrics"
)

// Default session limits.
const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultMaxSessions = 10000
)

// Config holds session limits.
type Config struct {
	IdleTTL      time.Duration
	MaxSessions  int
	DefaultLimit int
}

// Service manages sessions in memory.
type Service struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session

	data   DataSource
	nav    Navigator
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// New creates a session service.
func New(data DataSource, nav Navigator, cfg Config, logger *zap.Logger) *Service {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	return &Service{
		sessions: make(map[uuid.UUID]*session),
		data:     data,
		nav:      nav,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Create starts a session, optionally seeded with constraints.
func (s *Service) Create(cs []constraint.Constraint) (Snapshot, error) {
	now := s.now()
	sess := &session{
		id:      uuid.New(),
		state:   query.FromConstraints(cs),
		guard:   widget.NewGuard(),
		created: now,
		touched: now,
	}

	s.mu.Lock()
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: %d sessions", domain.ErrSessionLimit, s.cfg.MaxSessions)
	}
	s.sessions[sess.id] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	s.logger.Debug("Session created", zap.String("session", sess.id.String()))
	return sess.snapshot(), nil
}

// Get returns the session's current store.
func (s *Service) Get(id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// Close discards a session.
func (s *Service) Close(id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	_, ok := s.sessions[uid]
	delete(s.sessions, uid)
	n := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	metrics.SessionsActive.Set(float64(n))
	return nil
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Dispatch applies one store transition. Actions naming constraints outside the
// catalogue and values of the wrong kind are rejected instead of ignored.
func (s *Service) Dispatch(id string, a query.Action) (Snapshot, error) {
	if err := validate(a); err != nil {
		return Snapshot{}, err
	}
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := requireActive(sess.state, a); err != nil {
		return Snapshot{}, err
	}
	sess.state = query.Reduce(sess.state, a)
	sess.touched = s.now()
	if r, ok := a.(query.Remove); ok {
		sess.guard.Forget(r.ID)
	}

	metrics.MutationsTotal.WithLabelValues(a.Name()).Inc()
	return sess.snapshot(), nil
}

// Gesture feeds one user gesture to the widget of an active constraint and
// stores the resulting value.
func (s *Service) Gesture(ctx context.Context, id string, cid constraint.ID, g widget.Gesture) (Snapshot, error) {
	if _, ok := g.(widget.Close); ok {
		return s.closeWidget(id, cid)
	}

	w, err := widget.For(cid)
	if err != nil {
		return Snapshot{}, err
	}
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	cs := sess.state.Constraints()
	_, active := sess.state.Get(cid)
	sess.mu.Unlock()
	if !active {
		return Snapshot{}, notActive(cid)
	}

	// Aggregates are fetched without holding the session lock.
	d := widget.Ready()
	if def, _ := constraint.Lookup(cid); widget.GesturesNeedData(def.Kind) {
		d = s.data.Data(ctx, sess.guard, cs, cid)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	c, ok := sess.state.Get(cid)
	if !ok {
		return Snapshot{}, notActive(cid)
	}
	v, err := w.Apply(c.Value(), d, g)
	if err != nil {
		return Snapshot{}, err
	}
	sess.state = query.SetConstraintValue(sess.state, cid, v)
	sess.touched = s.now()

	metrics.MutationsTotal.WithLabelValues(query.SetValue{}.Name()).Inc()
	return sess.snapshot(), nil
}

func (s *Service) closeWidget(id string, cid constraint.ID) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	c, ok := sess.state.Get(cid)
	if !ok {
		return Snapshot{}, notActive(cid)
	}
	if c.IsOpen() {
		sess.state = query.ToggleConstraintWidget(sess.state, cid)
		sess.touched = s.now()
		metrics.MutationsTotal.WithLabelValues(query.Toggle{}.Name()).Inc()
	}
	return sess.snapshot(), nil
}

// Widget renders the widget of an active constraint against fresh aggregates.
func (s *Service) Widget(ctx context.Context, id string, cid constraint.ID, size widget.Size) (widget.View, error) {
	if !validSize(size.Width, size.Height) {
		return widget.View{}, fmt.Errorf("%w: size %gx%g", domain.ErrInvalidValue, size.Width, size.Height)
	}
	w, err := widget.For(cid)
	if err != nil {
		return widget.View{}, err
	}
	sess, err := s.lookup(id)
	if err != nil {
		return widget.View{}, err
	}

	sess.mu.Lock()
	cs := sess.state.Constraints()
	c, ok := sess.state.Get(cid)
	sess.mu.Unlock()
	if !ok {
		return widget.View{}, notActive(cid)
	}

	d := s.data.Data(ctx, sess.guard, cs, cid)
	return w.Render(c.Value(), d, size), nil
}

// SlotView is one ring segment of the container.
type SlotView struct {
	ID    constraint.ID   `json:"id"`
	Label string          `json:"label"`
	Color string          `json:"color"`
	Open  bool            `json:"open"`
	Start float64         `json:"start_angle"`
	End   float64         `json:"end_angle"`
	Path  string          `json:"path"`
	Text  layout.Label    `json:"label_path"`
	Value json.RawMessage `json:"value"`
}

// View is the render description of the whole container.
type View struct {
	Session uuid.UUID    `json:"session"`
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Frame   layout.Frame `json:"frame"`
	Center  layout.Rect  `json:"center"`
	Slots   []SlotView   `json:"slots"`
	Open    *widget.View `json:"open,omitempty"`
}

// View lays out the session's active constraints on the ring and renders the
// open widget, if any, in the center region.
func (s *Service) View(ctx context.Context, id string, width, height float64) (View, error) {
	if !validSize(width, height) {
		return View{}, fmt.Errorf("%w: size %gx%g", domain.ErrInvalidValue, width, height)
	}
	sess, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	snap := sess.snapshot()
	sess.mu.Unlock()

	frame := layout.Fit(width, height)
	center := layout.Center(frame)
	view := View{
		Session: snap.ID,
		Width:   width,
		Height:  height,
		Frame:   frame,
		Center:  center,
		Slots:   make([]SlotView, 0, snap.State.Len()),
	}

	cs := snap.State.Constraints()
	for i, slot := range frame.Slots(snap.State.IDs()) {
		c := cs[i]
		def, _ := c.Definition()
		raw, err := constraint.EncodeValue(c.Value())
		if err != nil {
			return View{}, fmt.Errorf("encode %s: %w", c.ID(), err)
		}
		view.Slots = append(view.Slots, SlotView{
			ID:    c.ID(),
			Label: def.Label,
			Color: layout.Color(c.ID()),
			Open:  c.IsOpen(),
			Start: slot.StartAngle,
			End:   slot.EndAngle,
			Path:  layout.ArcPath(slot),
			Text:  layout.LabelPath(slot),
			Value: raw,
		})
	}

	if open, ok := snap.State.Open(); ok {
		w, err := widget.For(open.ID())
		if err != nil {
			return View{}, err
		}
		d := s.data.Data(ctx, sess.guard, cs, open.ID())
		wv := w.Render(open.Value(), d, widget.Size{Width: center.Width, Height: center.Height})
		view.Open = &wv
	}
	return view, nil
}

// Apply compiles the settled store and triggers navigation exactly once.
func (s *Service) Apply(ctx context.Context, id string, limit int) (result.Navigation, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return result.Navigation{}, err
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	sess.mu.Lock()
	p := query.CompileState(sess.state, limit)
	sess.touched = s.now()
	sess.mu.Unlock()

	metrics.AppliesTotal.Inc()
	nav, err := s.nav.Navigate(ctx, p)
	if err != nil {
		return nav, fmt.Errorf("navigate: %w", err)
	}
	s.logger.Info("Query applied",
		zap.String("session", sess.id.String()),
		zap.String("url", nav.URL),
	)
	return nav, nil
}

// Sweep evicts sessions idle for longer than the configured TTL and returns
// how many were removed.
func (s *Service) Sweep() int {
	cutoff := s.now().Add(-s.cfg.IdleTTL)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.touched.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SessionsActive.Set(float64(n))
	if removed > 0 {
		s.logger.Info("Idle sessions evicted", zap.Int("removed", removed), zap.Int("active", n))
	}
	return removed
}

// Run sweeps on every interval tick until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Service) lookup(id string) (*session, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	sess, ok := s.sessions[uid]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return sess, nil
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return uid, nil
}

func validate(a query.Action) error {
	var id constraint.ID
	switch a := a.(type) {
	case query.Add:
		id = a.ID
	case query.Remove:
		id = a.ID
	case query.Toggle:
		id = a.ID
	case query.SetValue:
		def, ok := constraint.Lookup(a.ID)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownConstraint, a.ID)
		}
		if a.Value == nil || a.Value.Kind() != def.Kind {
			return fmt.Errorf("%w: %s expects a %s value", domain.ErrInvalidValue, a.ID, def.Kind)
		}
		return nil
	case query.Clear:
		return nil
	default:
		return fmt.Errorf("%w: action %T", domain.ErrInvalidValue, a)
	}
	if _, ok := constraint.Lookup(id); !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownConstraint, id)
	}
	return nil
}

// requireActive rejects edits of constraints that are not in the store. Remove
// stays idempotent.
func requireActive(st query.State, a query.Action) error {
	switch a := a.(type) {
	case query.SetValue:
		if !st.Has(a.ID) {
			return notActive(a.ID)
		}
	case query.Toggle:
		if !st.Has(a.ID) {
			return notActive(a.ID)
		}
	}
	return nil
}

func notActive(id constraint.ID) error {
	return fmt.Errorf("%w: %s is not active", domain.ErrUnknownConstraint, id)
}

// validSize reports whether both dimensions are positive finite numbers.
func validSize(width, height float64) bool {
	for _, v := range [2]float64{width, height} {
		if !(v > 0) || math.IsInf(v, 1) {
			return false
		}
	}
	return true
}
