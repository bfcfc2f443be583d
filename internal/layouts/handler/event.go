package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"stallmap/internal/layouts/service"
	"stallmap/pkg/client"
	apperrors "stallmap/pkg/errors"
	httputil "stallmap/pkg/http"
	"stallmap/pkg/logger"
	"stallmap/pkg/model"
)

type EventHandler struct {
	service service.LayoutService
	log     *logger.Logger
}

func NewEventHandler(service service.LayoutService, log *logger.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log,
	}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var e model.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		h.badBody(w, "Create")
		return
	}

	if err := h.service.CreateEvent(r.Context(), &e); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, e); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ExtractInt64Param(ps, "id")
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	e, err := h.service.GetEvent(r.Context(), id)
	h.write(w, "Get", e, err)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ExtractInt64Param(ps, "id")
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var u model.EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		h.badBody(w, "Update")
		return
	}

	e, err := h.service.UpdateEvent(r.Context(), id, &u, r.Header.Get(client.HeaderSessionID))
	h.write(w, "Update", e, err)
}

func (h *EventHandler) GetMap(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ExtractInt64Param(ps, "id")
	if err != nil {
		h.writeError(w, "GetMap", err)
		return
	}

	m, err := h.service.GetEventMap(r.Context(), id)
	h.write(w, "GetMap", m, err)
}

func (h *EventHandler) SaveStalls(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ExtractInt64Param(ps, "id")
	if err != nil {
		h.writeError(w, "SaveStalls", err)
		return
	}

	var stalls []model.StallSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&stalls); err != nil {
		h.badBody(w, "SaveStalls")
		return
	}

	saved, err := h.service.SaveStalls(r.Context(), id, stalls, r.Header.Get(client.HeaderSessionID))
	h.write(w, "SaveStalls", saved, err)
}

func (h *EventHandler) write(w http.ResponseWriter, handler string, data any, err error) {
	if err != nil {
		h.writeError(w, handler, err)
		return
	}
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *EventHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *EventHandler) badBody(w http.ResponseWriter, handler string) {
	h.writeError(w, handler, apperrors.InvalidInput("Invalid request body"))
}

func (h *EventHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/events", h.Create)
	router.GET("/api/v1/events/:id", h.Get)
	router.PATCH("/api/v1/events/:id", h.Update)
	router.GET("/api/v1/events/:id/map", h.GetMap)
	router.POST("/api/v1/events/:id/stalls", h.SaveStalls)
}
