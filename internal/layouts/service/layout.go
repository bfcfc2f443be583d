package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	layoutserrors "stallmap/internal/layouts/errors"
	"stallmap/internal/layouts/events"
	"stallmap/internal/layouts/repository"
	"stallmap/internal/layouts/validator"
	"stallmap/pkg/config"
	apperrors "stallmap/pkg/errors"
	"stallmap/pkg/model"
	"stallmap/pkg/sanitizer"
	"stallmap/pkg/validation"
)

type LayoutService interface {
	CreateEvent(ctx context.Context, e *model.Event) error
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	UpdateEvent(ctx context.Context, id int64, update *model.EventUpdate, sessionID string) (*model.Event, error)
	GetEventMap(ctx context.Context, id int64) (*model.EventMap, error)
	// SaveStalls replaces every stall of the event with stalls and returns
	// the stored stalls in request order.
	SaveStalls(ctx context.Context, eventID int64, stalls []model.StallSaveRequest, sessionID string) ([]model.MapStall, error)
}

type layoutService struct {
	repo      repository.LayoutRepository
	validator *validator.LayoutsValidator
	publisher events.LayoutPublisher
	cfg       *config.Config
	now       func() time.Time
}

func NewLayoutService(
	repo repository.LayoutRepository,
	validator *validator.LayoutsValidator,
	publisher events.LayoutPublisher,
	cfg *config.Config,
) LayoutService {
	return &layoutService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *layoutService) CreateEvent(ctx context.Context, e *model.Event) error {
	e.Name = sanitizer.NormalizeName(e.Name)
	e.Venue = sanitizer.NormalizeName(e.Venue)
	e.Halls = sanitizer.NormalizeHalls(e.Halls)
	if strings.TrimSpace(e.LayoutConfig) == "" {
		e.LayoutConfig = emptyLayoutConfig()
	}

	if err := s.validator.ValidateEvent(e); err != nil {
		s.cfg.Log.Warn("Event validation failed",
			"name", e.Name,
			"error", err,
		)
		return validationError("Event validation failed", err)
	}
	if !e.StartsAt.IsZero() && !e.EndsAt.IsZero() && e.EndsAt.Before(e.StartsAt) {
		return apperrors.Validation("Event validation failed", map[string]any{
			"fields": map[string]string{"Event.EndsAt": "endsAt must not be before startsAt"},
		})
	}

	if err := s.repo.CreateEvent(ctx, e); err != nil {
		s.cfg.Log.Error("Failed to create event",
			"name", e.Name,
			"error", err,
		)
		return apperrors.Internal("Failed to create event", err)
	}

	s.cfg.Log.Info("Event created successfully",
		"id", e.ID,
		"name", e.Name,
		"halls", len(e.Halls),
	)
	return nil
}

func (s *layoutService) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("Event ID must be a positive integer")
	}

	e, err := s.repo.FindEvent(ctx, id)
	if err != nil {
		return nil, s.eventError("Failed to retrieve event", id, err)
	}
	return e, nil
}

func (s *layoutService) UpdateEvent(ctx context.Context, id int64, update *model.EventUpdate, sessionID string) (*model.Event, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("Event ID must be a positive integer")
	}

	s.sanitizeUpdate(update)
	if err := s.validator.ValidateEventUpdate(update); err != nil {
		s.cfg.Log.Warn("Event update validation failed",
			"id", id,
			"error", err,
		)
		return nil, validationError("Event update validation failed", err)
	}

	set := updateFields(update)
	e, err := s.repo.UpdateEvent(ctx, id, set)
	if err != nil {
		return nil, s.eventError("Failed to update event", id, err)
	}

	s.cfg.Log.Info("Event updated successfully",
		"id", id,
		"fields", len(set),
		"session_id", sessionID,
	)

	if update.LayoutConfig != nil {
		s.publish(ctx, model.LayoutUpdated{
			EventID:   id,
			SessionID: sessionID,
			Kind:      model.LayoutUpdateConfig,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return e, nil
}

func (s *layoutService) GetEventMap(ctx context.Context, id int64) (*model.EventMap, error) {
	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	stalls, err := s.repo.FindStalls(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to load stalls",
			"event_id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load stalls", err)
	}

	m := &model.EventMap{
		EventID:   e.ID,
		EventName: e.Name,
		Stalls:    make([]model.MapStall, 0, len(stalls)),
		Zones:     e.LayoutConfig,
	}
	if strings.TrimSpace(m.Zones) == "" {
		m.Zones = emptyLayoutConfig()
	}
	for _, st := range stalls {
		m.Stalls = append(m.Stalls, st.ToMapStall())
	}
	return m, nil
}

func (s *layoutService) SaveStalls(ctx context.Context, eventID int64, stalls []model.StallSaveRequest, sessionID string) ([]model.MapStall, error) {
	if eventID <= 0 {
		return nil, apperrors.InvalidInput("Event ID must be a positive integer")
	}

	for i := range stalls {
		sanitizeStall(&stalls[i])
	}
	if err := s.validator.ValidateStalls(stalls); err != nil {
		s.cfg.Log.Warn("Stall payload validation failed",
			"event_id", eventID,
			"stalls", len(stalls),
			"error", err,
		)
		return nil, validationError("Stall payload validation failed", err)
	}
	if id, ok := duplicateID(stalls); ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("%s: %d", layoutserrors.ErrDuplicateStallID, id))
	}

	var saved []model.Stall
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.FindEvent(sessCtx, eventID); err != nil {
			return s.eventError("Failed to load event", eventID, err)
		}

		existing, err := s.repo.FindStalls(sessCtx, eventID)
		if err != nil {
			return apperrors.Internal("Failed to load stalls", err)
		}
		current := make(map[int64]model.Stall, len(existing))
		for _, st := range existing {
			current[st.ID] = st
		}

		var unknown []int64
		for _, req := range stalls {
			if req.ID == nil {
				continue
			}
			if _, ok := current[*req.ID]; !ok {
				unknown = append(unknown, *req.ID)
			}
		}
		foreign, err := s.repo.FindForeignStallIDs(sessCtx, eventID, unknown)
		if err != nil {
			return apperrors.Internal("Failed to check stall ownership", err)
		}
		if len(foreign) > 0 {
			return apperrors.Conflict(layoutserrors.ErrStallOwnedElsewhere.Error()).
				WithDetails(map[string]any{"stallIds": foreign})
		}

		fresh := 0
		for _, req := range stalls {
			if req.ID == nil || !hasStall(current, *req.ID) {
				fresh++
			}
		}
		var next int64
		if fresh > 0 {
			if next, err = s.repo.NextIDs(sessCtx, repository.StallsCounter, fresh); err != nil {
				return apperrors.Internal("Failed to allocate stall ids", err)
			}
		}

		now := s.now()
		saved = make([]model.Stall, len(stalls))
		for i, req := range stalls {
			var prev *model.Stall
			if req.ID != nil {
				if st, ok := current[*req.ID]; ok {
					prev = &st
				}
			}
			saved[i] = buildStall(eventID, i, req, prev, now)
			if prev == nil {
				saved[i].ID = next
				next++
			}
		}
		return s.repo.ReplaceStalls(sessCtx, eventID, saved)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to save stalls",
			"event_id", eventID,
			"stalls", len(stalls),
			"error", err,
		)
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Internal("Failed to save stalls", err)
	}

	s.cfg.Log.Info("Stalls saved successfully",
		"event_id", eventID,
		"stalls", len(saved),
		"session_id", sessionID,
	)

	s.publish(ctx, model.LayoutUpdated{
		EventID:   eventID,
		SessionID: sessionID,
		Stalls:    len(saved),
		Kind:      model.LayoutUpdateStalls,
		UpdatedAt: s.now(),
	})

	out := make([]model.MapStall, len(saved))
	for i, st := range saved {
		out[i] = st.ToMapStall()
	}
	return out, nil
}

// publish notifies listeners of a layout change. The write already
// committed, so a failed notification is only logged.
func (s *layoutService) publish(ctx context.Context, evt model.LayoutUpdated) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.LayoutUpdated(context.WithoutCancel(ctx), evt); err != nil {
		s.cfg.Log.Warn("Failed to publish layout update",
			"event_id", evt.EventID,
			"kind", evt.Kind,
			"error", err,
		)
	}
}

func (s *layoutService) eventError(message string, id int64, err error) error {
	if errors.Is(err, layoutserrors.ErrEventNotFound) {
		return apperrors.NotFoundWithID("Event", fmt.Sprint(id))
	}
	if apperrors.IsAppError(err) {
		return err
	}
	s.cfg.Log.Error(message,
		"id", id,
		"error", err,
	)
	return apperrors.Internal(message, err)
}

func (s *layoutService) sanitizeUpdate(u *model.EventUpdate) {
	if u.Name != nil {
		name := sanitizer.NormalizeName(*u.Name)
		u.Name = &name
	}
	if u.Venue != nil {
		venue := sanitizer.NormalizeName(*u.Venue)
		u.Venue = &venue
	}
	if u.Halls != nil {
		u.Halls = sanitizer.NormalizeHalls(u.Halls)
	}
	if u.LayoutConfig != nil && strings.TrimSpace(*u.LayoutConfig) == "" {
		cfg := emptyLayoutConfig()
		u.LayoutConfig = &cfg
	}
}

func updateFields(u *model.EventUpdate) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Venue != nil {
		set["venue"] = *u.Venue
	}
	if u.Halls != nil {
		set["halls"] = u.Halls
	}
	if u.StartsAt != nil {
		set["starts_at"] = *u.StartsAt
	}
	if u.EndsAt != nil {
		set["ends_at"] = *u.EndsAt
	}
	if u.LayoutConfig != nil {
		set["layout_config"] = *u.LayoutConfig
	}
	return set
}

func sanitizeStall(req *model.StallSaveRequest) {
	req.Name = sanitizer.NormalizeName(req.Name)
	req.HallName = sanitizer.NormalizeHallName(req.HallName)
	req.Size = model.StallSize(sanitizer.NormalizeToken(string(req.Size)))
	req.Category = model.StallCategory(sanitizer.NormalizeToken(string(req.Category)))
}

// buildStall maps one payload item to its stored form. Reserved is owned by
// bookings and survives the replace; IsAvailable only moves the operator
// block, and a missing value keeps the previous one.
func buildStall(eventID int64, position int, req model.StallSaveRequest, prev *model.Stall, now time.Time) model.Stall {
	st := model.Stall{
		EventID:    eventID,
		Name:       req.Name,
		HallName:   req.HallName,
		Geometry:   req.Geometry,
		PriceCents: req.FinalPriceCents,
		Size:       req.Size,
		Category:   req.Category,
		SqFt:       req.SqFt,
		Position:   position,
		UpdatedAt:  now,
	}
	if prev != nil {
		st.ID = prev.ID
		st.Reserved = prev.Reserved
		st.Blocked = prev.Blocked
	}
	if req.IsAvailable != nil {
		st.Blocked = !*req.IsAvailable
	}
	return st
}

func hasStall(current map[int64]model.Stall, id int64) bool {
	_, ok := current[id]
	return ok
}

func duplicateID(stalls []model.StallSaveRequest) (int64, bool) {
	seen := make(map[int64]struct{}, len(stalls))
	for _, req := range stalls {
		if req.ID == nil {
			continue
		}
		if _, ok := seen[*req.ID]; ok {
			return *req.ID, true
		}
		seen[*req.ID] = struct{}{}
	}
	return 0, false
}

func emptyLayoutConfig() string {
	raw, _ := json.Marshal(model.EmptyLayoutConfig())
	return string(raw)
}

func validationError(message string, err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}
