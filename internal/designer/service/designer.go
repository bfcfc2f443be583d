package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	designererrors "stallmap/internal/designer/errors"
	"stallmap/internal/designer/panel"
	"stallmap/internal/designer/reconcile"
	"stallmap/internal/designer/render"
	"stallmap/internal/designer/state"
	"stallmap/internal/designer/validator"
	"stallmap/pkg/client"
	"stallmap/pkg/config"
	apperrors "stallmap/pkg/errors"
	"stallmap/pkg/sanitizer"
	"stallmap/pkg/validation"
)

// Snapshot is what a client sees of a session after every call.
type Snapshot struct {
	SessionID       string      `json:"sessionId"`
	State           state.State `json:"state"`
	Panel           *panel.Form `json:"panel,omitempty"`
	Gesture         string      `json:"gesture"`
	OtherHallStalls int         `json:"otherHallStalls"`
	Stale           bool        `json:"stale"`
	Saving          bool        `json:"saving"`
	OpenedAt        time.Time   `json:"openedAt"`
	LastSavedAt     *time.Time  `json:"lastSavedAt,omitempty"`
}

// SaveReport describes a completed save.
type SaveReport struct {
	SessionID   string          `json:"sessionId"`
	EventID     int64           `json:"eventId"`
	HallName    string          `json:"hallName"`
	Stalls      int             `json:"stalls"`
	Zones       int             `json:"zones"`
	Influences  int             `json:"influences"`
	AssignedIDs map[int64]int64 `json:"assignedIds"`
	Refreshed   bool            `json:"refreshed"`
	Applied     bool            `json:"applied"`
	SavedAt     time.Time       `json:"savedAt"`
}

type DesignerService interface {
	Open(ctx context.Context, req *validator.OpenSessionRequest) (*Snapshot, error)
	Get(ctx context.Context, id string) (*Snapshot, error)
	Close(ctx context.Context, id string) error
	Dispatch(ctx context.Context, id string, raw []byte) (*Snapshot, error)
	SetField(ctx context.Context, id string, field string, req *validator.SetFieldRequest) (*Snapshot, error)
	CommitPanel(ctx context.Context, id string) (*Snapshot, error)
	ClosePanel(ctx context.Context, id string) (*Snapshot, error)
	DeleteSelected(ctx context.Context, id string) (*Snapshot, error)
	Render(ctx context.Context, id string, view render.ViewMode, format render.Format) ([]byte, error)
	Summary(ctx context.Context, id string) (*state.Summary, error)
	Save(ctx context.Context, id string) (*SaveReport, error)
	MarkStale(eventID int64, exceptSession string) int
	ActiveSessions() int
	Stop()
}

type designerService struct {
	store     reconcile.LayoutStore
	saver     *reconcile.Saver
	reducer   *state.Reducer
	ids       state.IDSource
	validator *validator.DesignerValidator
	sessions  *sessionStore
	cfg       *config.Config
}

func NewDesignerService(
	store reconcile.LayoutStore,
	validator *validator.DesignerValidator,
	cfg *config.Config,
) DesignerService {
	ids := state.NewClockIDs()
	s := &designerService{
		store:     store,
		saver:     reconcile.NewSaver(store, cfg.Log),
		reducer:   state.NewReducer(cfg.DesignerDefaults, ids),
		ids:       ids,
		validator: validator,
		cfg:       cfg,
	}
	s.sessions = newSessionStore(cfg.SessionTTL, func(sess *session) {
		cfg.Log.Info("Session expired", "session_id", sess.id)
	})
	go s.sessions.cleanup()
	return s
}

func (s *designerService) Open(ctx context.Context, req *validator.OpenSessionRequest) (*Snapshot, error) {
	req.HallName = sanitizer.NormalizeHallName(req.HallName)

	if err := s.validator.ValidateOpen(req); err != nil {
		s.cfg.Log.Warn("Open session validation failed",
			"event_id", req.EventID,
			"hall", req.HallName,
			"error", err,
		)
		return nil, validationError("Open session validation failed", err)
	}

	m, err := s.store.GetEventMap(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event", strconv.FormatInt(req.EventID, 10))
		}
		s.cfg.Log.Error("Failed to load event map",
			"event_id", req.EventID,
			"error", err,
		)
		return nil, apperrors.BadGateway("Failed to load the event layout", err)
	}

	st, others := reconcile.Hydrate(m, req.HallName, s.ids)
	sess := s.sessions.create(st, others)

	s.cfg.Log.Info("Session opened",
		"session_id", sess.id,
		"event_id", req.EventID,
		"hall", req.HallName,
		"stalls", len(st.Stalls),
		"zones", len(st.Zones),
		"influences", len(st.Influences),
		"other_hall_stalls", len(others),
	)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return snapshotOf(sess), nil
}

func (s *designerService) Get(ctx context.Context, id string) (*Snapshot, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return snapshotOf(sess), nil
}

// Close ends a session without saving. A save in flight still completes but
// its result is not applied.
func (s *designerService) Close(ctx context.Context, id string) error {
	if _, ok := s.sessions.remove(id); !ok {
		return apperrors.NotFoundWithID("Session", id)
	}
	s.cfg.Log.Info("Session closed", "session_id", id)
	return nil
}

func (s *designerService) Dispatch(ctx context.Context, id string, raw []byte) (*Snapshot, error) {
	action, err := state.DecodeAction(raw)
	if err != nil {
		if errors.Is(err, state.ErrUnknownAction) {
			return nil, apperrors.InvalidInput(err.Error())
		}
		return nil, apperrors.InvalidInput("Invalid action body")
	}
	if err := s.validator.ValidateAction(action); err != nil {
		return nil, validationError("Action validation failed", err)
	}

	return s.mutate(id, func(sess *session) error {
		sess.state = s.reducer.Reduce(sess.state, action)
		sess.panel, sess.state = panel.Sync(sess.panel, sess.state)
		return nil
	})
}

func (s *designerService) SetField(ctx context.Context, id string, field string, req *validator.SetFieldRequest) (*Snapshot, error) {
	if err := s.validator.ValidateField(req); err != nil {
		return nil, validationError("Field value validation failed", err)
	}

	return s.mutate(id, func(sess *session) error {
		if !sess.panel.Open() {
			return apperrors.InvalidInput(designererrors.ErrNothingSelected.Error())
		}
		f := panel.Field(field)
		if !sess.panel.Supports(f) {
			return apperrors.InvalidInput(fmt.Sprintf("%s: %q on %s", designererrors.ErrUnsupportedField, field, sess.panel.Target.Kind)).
				WithDetails(map[string]any{"fields": panel.Fields(sess.panel.Target.Kind)})
		}
		sess.panel = sess.panel.Set(f, req.Value)
		return nil
	})
}

func (s *designerService) CommitPanel(ctx context.Context, id string) (*Snapshot, error) {
	return s.mutate(id, func(sess *session) error {
		sess.panel, sess.state = panel.Commit(sess.panel, sess.state)
		return nil
	})
}

func (s *designerService) ClosePanel(ctx context.Context, id string) (*Snapshot, error) {
	return s.mutate(id, func(sess *session) error {
		sess.panel, sess.state = panel.Close(sess.panel, sess.state)
		return nil
	})
}

func (s *designerService) DeleteSelected(ctx context.Context, id string) (*Snapshot, error) {
	return s.mutate(id, func(sess *session) error {
		if !sess.panel.Open() {
			return apperrors.InvalidInput(designererrors.ErrNothingSelected.Error())
		}
		target := *sess.panel.Target
		sess.panel, sess.state = panel.Delete(sess.panel, sess.state)
		s.cfg.Log.Debug("Entity deleted", "session_id", sess.id, "ref", target.String())
		return nil
	})
}

func (s *designerService) Render(ctx context.Context, id string, view render.ViewMode, format render.Format) ([]byte, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	snapshot := sess.state
	sess.mu.Unlock()

	scene := render.Render(snapshot, render.Options{
		View:         view,
		HandleRadius: s.reducer.Defaults().HandleRadius,
	})
	out, err := render.Encode(scene, format)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode scene", err)
	}
	return out, nil
}

func (s *designerService) Summary(ctx context.Context, id string) (*state.Summary, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sum := state.Summarize(sess.state)
	return &sum, nil
}

// Save commits pending panel drafts and reconciles the hall with the layout
// store. The session lock is released during the network calls, so edits
// made meanwhile are kept; the save itself uses the snapshot taken here.
func (s *designerService) Save(ctx context.Context, id string) (*SaveReport, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.saving {
		sess.mu.Unlock()
		return nil, apperrors.Conflict(designererrors.ErrSaveInProgress.Error())
	}
	sess.panel, sess.state = panel.Commit(sess.panel, sess.state)
	snapshot := sess.state
	sess.saving = true
	sess.mu.Unlock()

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.SaveTimeout)
	defer cancel()
	result, saveErr := s.saver.Save(client.WithSessionID(saveCtx, id), snapshot)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.saving = false

	if saveErr != nil {
		s.cfg.Log.Error("Save failed",
			"session_id", id,
			"event_id", snapshot.Hall.EventID,
			"hall", snapshot.Hall.Name,
			"error", saveErr,
		)
		return nil, translateSaveError(saveErr)
	}

	report := &SaveReport{
		SessionID:   id,
		EventID:     snapshot.Hall.EventID,
		HallName:    snapshot.Hall.Name,
		Stalls:      len(snapshot.Stalls),
		Zones:       len(snapshot.Zones),
		Influences:  len(snapshot.Influences),
		AssignedIDs: result.IDs,
		Refreshed:   result.Refreshed,
		SavedAt:     time.Now().UTC(),
	}

	if sess.closed {
		s.cfg.Log.Warn("Session closed during save, result not applied",
			"session_id", id,
			"event_id", snapshot.Hall.EventID,
		)
		return report, nil
	}

	sess.state = s.reducer.Reduce(sess.state, state.AssignStallIDs{IDs: result.IDs})
	sess.panel = panel.Remap(sess.panel, result.IDs)
	sess.others = result.Others
	sess.stale = false
	sess.lastSavedAt = report.SavedAt
	report.Applied = true
	return report, nil
}

// MarkStale flags every session on eventID, other than exceptSession, whose
// layout was changed by someone else. It returns the number flagged.
func (s *designerService) MarkStale(eventID int64, exceptSession string) int {
	marked := 0
	for _, sess := range s.sessions.forEvent(eventID) {
		if sess.id == exceptSession {
			continue
		}
		sess.mu.Lock()
		if !sess.stale {
			sess.stale = true
			marked++
		}
		sess.mu.Unlock()
	}
	if marked > 0 {
		s.cfg.Log.Info("Sessions marked stale", "event_id", eventID, "sessions", marked)
	}
	return marked
}

func (s *designerService) ActiveSessions() int {
	return s.sessions.len()
}

func (s *designerService) Stop() {
	s.sessions.stop()
}

func (s *designerService) session(id string) (*session, error) {
	sess, ok := s.sessions.get(id)
	if !ok {
		return nil, apperrors.NotFoundWithID("Session", id)
	}
	return sess, nil
}

func (s *designerService) mutate(id string, fn func(sess *session) error) (*Snapshot, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess); err != nil {
		return nil, err
	}
	return snapshotOf(sess), nil
}

// snapshotOf must be called with sess.mu held.
func snapshotOf(sess *session) *Snapshot {
	snap := &Snapshot{
		SessionID:       sess.id,
		State:           sess.state,
		Gesture:         sess.state.Gesture.Name(),
		OtherHallStalls: len(sess.others),
		Stale:           sess.stale,
		Saving:          sess.saving,
		OpenedAt:        sess.openedAt,
	}
	if form, ok := panel.View(sess.panel, sess.state); ok {
		snap.Panel = &form
	}
	if !sess.lastSavedAt.IsZero() {
		saved := sess.lastSavedAt
		snap.LastSavedAt = &saved
	}
	return snap
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func translateSaveError(err error) error {
	var se *reconcile.SaveError
	if !errors.As(err, &se) {
		return apperrors.Internal("Save failed", err)
	}
	details := map[string]any{"stage": string(se.Stage), "error": se.Err.Error()}
	if se.Stage == reconcile.StageFetch && errors.Is(se.Err, client.ErrNotFound) {
		return apperrors.NotFound("Event").WithDetails(details)
	}
	if errors.Is(se.Err, context.DeadlineExceeded) {
		return apperrors.Timeout("Save timed out").WithDetails(details)
	}
	return apperrors.BadGateway(fmt.Sprintf("Save failed at %s stage", se.Stage), se).WithDetails(details)
}

var _ reconcile.LayoutStore = (*client.LayoutClient)(nil)
