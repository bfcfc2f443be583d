package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stallmap/internal/designer/render"
	"stallmap/internal/designer/service"
	"stallmap/internal/designer/state"
	"stallmap/internal/designer/validator"
	apperrors "stallmap/pkg/errors"
	"stallmap/pkg/logger"
)

// Mock service for testing
type mockDesignerService struct {
	openFunc     func(ctx context.Context, req *validator.OpenSessionRequest) (*service.Snapshot, error)
	dispatchFunc func(ctx context.Context, id string, raw []byte) (*service.Snapshot, error)
	setFieldFunc func(ctx context.Context, id, field string, req *validator.SetFieldRequest) (*service.Snapshot, error)
	renderFunc   func(ctx context.Context, id string, view render.ViewMode, format render.Format) ([]byte, error)
	saveFunc     func(ctx context.Context, id string) (*service.SaveReport, error)
}

func (m *mockDesignerService) Open(ctx context.Context, req *validator.OpenSessionRequest) (*service.Snapshot, error) {
	return m.openFunc(ctx, req)
}

func (m *mockDesignerService) Get(ctx context.Context, id string) (*service.Snapshot, error) {
	return nil, apperrors.NotFoundWithID("Session", id)
}

func (m *mockDesignerService) Close(ctx context.Context, id string) error {
	return nil
}

func (m *mockDesignerService) Dispatch(ctx context.Context, id string, raw []byte) (*service.Snapshot, error) {
	return m.dispatchFunc(ctx, id, raw)
}

func (m *mockDesignerService) SetField(ctx context.Context, id string, field string, req *validator.SetFieldRequest) (*service.Snapshot, error) {
	return m.setFieldFunc(ctx, id, field, req)
}

func (m *mockDesignerService) CommitPanel(ctx context.Context, id string) (*service.Snapshot, error) {
	return &service.Snapshot{SessionID: id}, nil
}

func (m *mockDesignerService) ClosePanel(ctx context.Context, id string) (*service.Snapshot, error) {
	return &service.Snapshot{SessionID: id}, nil
}

func (m *mockDesignerService) DeleteSelected(ctx context.Context, id string) (*service.Snapshot, error) {
	return &service.Snapshot{SessionID: id}, nil
}

func (m *mockDesignerService) Render(ctx context.Context, id string, view render.ViewMode, format render.Format) ([]byte, error) {
	return m.renderFunc(ctx, id, view, format)
}

func (m *mockDesignerService) Summary(ctx context.Context, id string) (*state.Summary, error) {
	return &state.Summary{Total: 3}, nil
}

func (m *mockDesignerService) Save(ctx context.Context, id string) (*service.SaveReport, error) {
	return m.saveFunc(ctx, id)
}

func (m *mockDesignerService) MarkStale(eventID int64, exceptSession string) int { return 0 }
func (m *mockDesignerService) ActiveSessions() int                               { return 0 }
func (m *mockDesignerService) Stop()                                             {}

func newRouter(svc service.DesignerService) *httprouter.Router {
	router := httprouter.New()
	NewSessionHandler(svc, logger.New(logger.Config{Output: io.Discard, Service: "test"})).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestOpen(t *testing.T) {
	var received validator.OpenSessionRequest
	router := newRouter(&mockDesignerService{
		openFunc: func(_ context.Context, req *validator.OpenSessionRequest) (*service.Snapshot, error) {
			received = *req
			return &service.Snapshot{SessionID: "s-1"}, nil
		},
	})

	rec := serve(router, http.MethodPost, "/api/v1/sessions", `{"eventId":7,"hallName":"Hall A"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, validator.OpenSessionRequest{EventID: 7, HallName: "Hall A"}, received)

	var body struct {
		Data service.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "s-1", body.Data.SessionID)

	rec = serve(router, http.MethodPost, "/api/v1/sessions", `{"eventId":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDispatch_PassesRawBody(t *testing.T) {
	var gotID, gotBody string
	router := newRouter(&mockDesignerService{
		dispatchFunc: func(_ context.Context, id string, raw []byte) (*service.Snapshot, error) {
			gotID, gotBody = id, string(raw)
			return &service.Snapshot{SessionID: id}, nil
		},
	})

	rec := serve(router, http.MethodPost, "/api/v1/sessions/abc/actions", `{"type":"clear_selection"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", gotID)
	assert.JSONEq(t, `{"type":"clear_selection"}`, gotBody)
}

func TestSetField(t *testing.T) {
	router := newRouter(&mockDesignerService{
		setFieldFunc: func(_ context.Context, id, field string, req *validator.SetFieldRequest) (*service.Snapshot, error) {
			if field != "price" {
				return nil, apperrors.InvalidInput("field is not editable for the selected entity")
			}
			assert.Equal(t, "1,500", req.Value)
			return &service.Snapshot{SessionID: id}, nil
		},
	})

	rec := serve(router, http.MethodPut, "/api/v1/sessions/abc/panel/fields/price", `{"value":"1,500"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodPut, "/api/v1/sessions/abc/panel/fields/radius", `{"value":"2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestRender(t *testing.T) {
	var gotView render.ViewMode
	var gotFormat render.Format
	router := newRouter(&mockDesignerService{
		renderFunc: func(_ context.Context, _ string, view render.ViewMode, format render.Format) ([]byte, error) {
			gotView, gotFormat = view, format
			return []byte("<svg/>"), nil
		},
	})

	tests := []struct {
		name        string
		query       string
		wantCode    int
		wantView    render.ViewMode
		wantFormat  render.Format
		contentType string
	}{
		{name: "defaults", query: "", wantCode: http.StatusOK, wantView: render.ViewEdit, wantFormat: render.FormatJSON, contentType: "application/json"},
		{name: "svg preview", query: "?view=Preview&format=svg", wantCode: http.StatusOK, wantView: render.ViewPreview, wantFormat: render.FormatSVG, contentType: "image/svg+xml"},
		{name: "unknown view", query: "?view=vendor", wantCode: http.StatusBadRequest},
		{name: "unknown format", query: "?format=png", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotView, gotFormat = "", ""
			rec := serve(router, http.MethodGet, "/api/v1/sessions/abc/render"+tt.query, "")
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantView, gotView)
			assert.Equal(t, tt.wantFormat, gotFormat)
			assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
		})
	}
}

func TestSave_ErrorMapping(t *testing.T) {
	router := newRouter(&mockDesignerService{
		saveFunc: func(_ context.Context, id string) (*service.SaveReport, error) {
			if id == "busy" {
				return nil, apperrors.Conflict("save already in progress")
			}
			return nil, apperrors.BadGateway("Save failed at submit stage", nil).
				WithDetails(map[string]any{"stage": "submit"})
		},
	})

	rec := serve(router, http.MethodPost, "/api/v1/sessions/busy/save", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(router, http.MethodPost, "/api/v1/sessions/abc/save", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stage":"submit"`)
}

func TestSessionNotFound(t *testing.T) {
	rec := serve(newRouter(&mockDesignerService{}), http.MethodGet, "/api/v1/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(newRouter(&mockDesignerService{}), http.MethodDelete, "/api/v1/sessions/abc", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(newRouter(&mockDesignerService{}), http.MethodGet, "/api/v1/sessions/abc/summary", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":3`)
}
