package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"stallmap/internal/designer/render"
	"stallmap/internal/designer/service"
	"stallmap/internal/designer/validator"
	apperrors "stallmap/pkg/errors"
	httputil "stallmap/pkg/http"
	"stallmap/pkg/logger"
)

type SessionHandler struct {
	service service.DesignerService
	log     *logger.Logger
}

func NewSessionHandler(service service.DesignerService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req validator.OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badBody(w, "Open")
		return
	}

	snap, err := h.service.Open(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Open", err)
		return
	}

	if err := httputil.WriteCreated(w, snap); err != nil {
		h.log.Error("failed to write created response", "handler", "Open", "operation", "WriteCreated", "error", err)
	}
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snap, err := h.service.Get(r.Context(), ps.ByName("id"))
	h.writeSnapshot(w, "Get", snap, err)
}

func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Close(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Close", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *SessionHandler) Dispatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.badBody(w, "Dispatch")
		return
	}

	snap, err := h.service.Dispatch(r.Context(), ps.ByName("id"), body)
	h.writeSnapshot(w, "Dispatch", snap, err)
}

func (h *SessionHandler) SetField(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req validator.SetFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badBody(w, "SetField")
		return
	}

	snap, err := h.service.SetField(r.Context(), ps.ByName("id"), ps.ByName("field"), &req)
	h.writeSnapshot(w, "SetField", snap, err)
}

func (h *SessionHandler) CommitPanel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snap, err := h.service.CommitPanel(r.Context(), ps.ByName("id"))
	h.writeSnapshot(w, "CommitPanel", snap, err)
}

func (h *SessionHandler) ClosePanel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snap, err := h.service.ClosePanel(r.Context(), ps.ByName("id"))
	h.writeSnapshot(w, "ClosePanel", snap, err)
}

func (h *SessionHandler) DeleteSelected(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snap, err := h.service.DeleteSelected(r.Context(), ps.ByName("id"))
	h.writeSnapshot(w, "DeleteSelected", snap, err)
}

func (h *SessionHandler) Render(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := httputil.ExtractQueryOption(r, "view", string(render.ViewEdit), string(render.ViewEdit), string(render.ViewPreview))
	if err != nil {
		h.writeError(w, "Render", err)
		return
	}
	format, err := httputil.ExtractQueryOption(r, "format", string(render.FormatJSON),
		string(render.FormatJSON), string(render.FormatSVG), string(render.FormatMsgpack))
	if err != nil {
		h.writeError(w, "Render", err)
		return
	}

	f := render.Format(format)
	body, err := h.service.Render(r.Context(), ps.ByName("id"), render.ViewMode(view), f)
	if err != nil {
		h.writeError(w, "Render", err)
		return
	}

	if err := httputil.WriteBytes(w, http.StatusOK, f.ContentType(), body); err != nil {
		h.log.Error("failed to write scene", "handler", "Render", "operation", "WriteBytes", "error", err)
	}
}

func (h *SessionHandler) Summary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sum, err := h.service.Summary(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Summary", err)
		return
	}

	if err := httputil.WriteSuccess(w, sum); err != nil {
		h.log.Error("failed to write success response", "handler", "Summary", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	report, err := h.service.Save(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Save", err)
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "Save", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) writeSnapshot(w http.ResponseWriter, handler string, snap *service.Snapshot, err error) {
	if err != nil {
		h.writeError(w, handler, err)
		return
	}
	if err := httputil.WriteSuccess(w, snap); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SessionHandler) badBody(w http.ResponseWriter, handler string) {
	h.writeError(w, handler, apperrors.InvalidInput("Invalid request body"))
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/sessions", h.Open)
	router.GET("/api/v1/sessions/:id", h.Get)
	router.DELETE("/api/v1/sessions/:id", h.Close)
	router.POST("/api/v1/sessions/:id/actions", h.Dispatch)
	router.PUT("/api/v1/sessions/:id/panel/fields/:field", h.SetField)
	router.POST("/api/v1/sessions/:id/panel/commit", h.CommitPanel)
	router.POST("/api/v1/sessions/:id/panel/close", h.ClosePanel)
	router.POST("/api/v1/sessions/:id/panel/delete", h.DeleteSelected)
	router.GET("/api/v1/sessions/:id/render", h.Render)
	router.GET("/api/v1/sessions/:id/summary", h.Summary)
	router.POST("/api/v1/sessions/:id/save", h.Save)
}
