package reconcile

import (
	"context"
	"errors"
	"fmt"

	"stallmap/internal/designer/state"
	"stallmap/pkg/logger"
	"stallmap/pkg/model"
)

// LayoutStore is the external layout document owner.
type LayoutStore interface {
	GetEventMap(ctx context.Context, eventID int64) (model.EventMap, error)
	GetEvent(ctx context.Context, eventID int64) (model.Event, error)
	// SaveStalls fully replaces the event's stalls and returns them in
	// request order with durable ids.
	SaveStalls(ctx context.Context, eventID int64, stalls []model.StallSaveRequest) ([]model.MapStall, error)
	UpdateEvent(ctx context.Context, eventID int64, update model.EventUpdate) (model.Event, error)
}

type SaveStage string

const (
	StageFetch  SaveStage = "fetch"
	StageSubmit SaveStage = "submit"
)

// SaveError reports where a save stopped. A fetch failure means nothing was
// submitted; a submit failure joins the error of each submission that failed.
type SaveError struct {
	Stage SaveStage
	Err   error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save failed at %s: %v", e.Stage, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Result is what a successful save hands back to the session.
type Result struct {
	// IDs maps temporary stall ids to the durable ids the store assigned.
	IDs map[int64]int64
	// Others is the refreshed snapshot of every other hall's stalls.
	Others    []model.MapStall
	Stalls    int
	Refreshed bool
}

type Saver struct {
	store LayoutStore
	log   *logger.Logger
}

func NewSaver(store LayoutStore, log *logger.Logger) *Saver {
	return &Saver{store: store, log: log}
}

// Save merges the hall in s into the current event document and submits the
// stall list and the layout configuration, each as a full replace. s is a
// snapshot; Save never changes it. On error the caller keeps its registry
// as is so the save can be retried.
func (sv *Saver) Save(ctx context.Context, s state.State) (Result, error) {
	eventID := s.Hall.EventID

	current, err := sv.store.GetEventMap(ctx, eventID)
	if err != nil {
		return Result{}, &SaveError{Stage: StageFetch, Err: err}
	}
	event, err := sv.store.GetEvent(ctx, eventID)
	if err != nil {
		return Result{}, &SaveError{Stage: StageFetch, Err: err}
	}

	payload := BuildStallPayload(current.Stalls, s)
	layoutConfig, err := BuildLayoutConfig(event.LayoutConfig, s)
	if err != nil {
		return Result{}, &SaveError{Stage: StageSubmit, Err: err}
	}

	saved, stallErr := sv.store.SaveStalls(ctx, eventID, payload)
	_, configErr := sv.store.UpdateEvent(ctx, eventID, model.UpdateFromEvent(event, layoutConfig))
	if stallErr != nil || configErr != nil {
		var errs []error
		if stallErr != nil {
			errs = append(errs, fmt.Errorf("replace stalls: %w", stallErr))
		}
		if configErr != nil {
			errs = append(errs, fmt.Errorf("replace layout config: %w", configErr))
		}
		return Result{}, &SaveError{Stage: StageSubmit, Err: errors.Join(errs...)}
	}

	result := Result{
		IDs:    durableIDs(s.Stalls, saved, len(payload)-len(s.Stalls)),
		Stalls: len(payload),
	}

	refreshed, err := sv.store.GetEventMap(ctx, eventID)
	if err != nil {
		sv.log.Warn("Layout saved but refresh failed",
			"event_id", eventID,
			"hall", s.Hall.Name,
			"error", err,
		)
		_, result.Others = Partition(current.Stalls, s.Hall.Name)
		return result, nil
	}
	_, result.Others = Partition(refreshed.Stalls, s.Hall.Name)
	result.Refreshed = true

	sv.log.Info("Layout saved",
		"event_id", eventID,
		"hall", s.Hall.Name,
		"stalls", result.Stalls,
		"new_ids", len(result.IDs),
		"zones", len(s.Zones),
		"influences", len(s.Influences),
	)
	return result, nil
}

// durableIDs matches registry stalls with temporary ids to the saved stalls
// by payload position. offset is the number of other-hall stalls ahead of
// the registry's in the payload.
func durableIDs(stalls []state.Stall, saved []model.MapStall, offset int) map[int64]int64 {
	ids := make(map[int64]int64)
	for i, st := range stalls {
		if !state.IsTempID(st.ID) {
			continue
		}
		idx := offset + i
		if idx >= len(saved) || saved[idx].ID <= 0 {
			continue
		}
		ids[st.ID] = saved[idx].ID
	}
	return ids
}
