package reconcile

import (
	"encoding/json"
	"fmt"

	"stallmap/internal/designer/state"
	"stallmap/pkg/geometry"
	"stallmap/pkg/model"
)

// BuildStallPayload merges the edited hall back into the event's stall list.
// Stalls of other halls are resubmitted exactly as fetched; the fetched
// stalls of the edited hall are replaced by the registry's. Temporary ids are
// omitted so the store assigns durable ones.
func BuildStallPayload(fetched []model.MapStall, s state.State) []model.StallSaveRequest {
	_, others := Partition(fetched, s.Hall.Name)

	payload := make([]model.StallSaveRequest, 0, len(others)+len(s.Stalls))
	for _, ms := range others {
		payload = append(payload, passThrough(ms))
	}
	for _, st := range s.Stalls {
		payload = append(payload, fromRegistry(st, s.Hall.Name))
	}
	return payload
}

func passThrough(ms model.MapStall) model.StallSaveRequest {
	id := ms.ID
	return model.StallSaveRequest{
		ID:              &id,
		Name:            ms.Name,
		HallName:        ms.HallName,
		Geometry:        geometry.StringifyRaw(ms.Geometry),
		FinalPriceCents: ms.PriceCents,
		Size:            ms.Size,
		Category:        ms.Type,
		SqFt:            ms.SqFt,
	}
}

func fromRegistry(st state.Stall, hall string) model.StallSaveRequest {
	available := st.IsAvailable
	req := model.StallSaveRequest{
		Name:            st.Name,
		HallName:        hall,
		Geometry:        geometry.Stringify(st.Geometry),
		FinalPriceCents: st.PriceCents,
		Size:            st.Size,
		Category:        st.Category,
		SqFt:            st.SqFt,
		IsAvailable:     &available,
	}
	if !state.IsTempID(st.ID) {
		id := st.ID
		req.ID = &id
	}
	return req
}

// BuildLayoutConfig serializes zones and influences into the event-scoped
// configuration blob. Influences go to pixel space on the nominal canvas;
// zone geometry stays in percent. Entrances are carried over from the
// previous configuration.
func BuildLayoutConfig(previous string, s state.State) (string, error) {
	canvas := geometry.NominalCanvas
	prev := ParseLayoutConfig(previous)

	cfg := model.LayoutConfig{
		Width:      canvas.Width,
		Height:     canvas.Height,
		Entrances:  prev.Entrances,
		Zones:      make([]model.LayoutZone, 0, len(s.Zones)),
		Influences: make([]model.LayoutInfluence, 0, len(s.Influences)),
	}
	if cfg.Entrances == nil {
		cfg.Entrances = []json.RawMessage{}
	}
	for _, z := range s.Zones {
		cfg.Zones = append(cfg.Zones, model.LayoutZone{
			Type:     z.Type,
			Geometry: z.Geometry,
			Metadata: model.ZoneMetadata{Label: z.Label},
		})
	}
	for _, inf := range s.Influences {
		px := canvas.ToPixels(inf.Circle())
		cfg.Influences = append(cfg.Influences, model.LayoutInfluence{
			ID:        inf.ID,
			Type:      inf.Type,
			Intensity: float64(inf.Intensity),
			Falloff:   inf.Falloff,
			X:         px.X,
			Y:         px.Y,
			Radius:    px.Radius,
		})
	}

	b, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal layout config: %w", err)
	}
	return string(b), nil
}
