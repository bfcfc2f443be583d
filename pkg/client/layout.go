package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"stallmap/pkg/model"
)

// HeaderSessionID tags layout writes with the designer session that made
// them, so the session can recognize its own change notifications.
const HeaderSessionID = "X-Session-ID"

var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx answer from the layout store.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type sessionKey struct{}

// WithSessionID attaches the designer session id to outgoing layout writes.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionIDFrom returns the session id set by WithSessionID, if any.
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

func sessionHeaders(ctx context.Context) map[string]string {
	id := SessionIDFrom(ctx)
	if id == "" {
		return nil
	}
	return map[string]string{HeaderSessionID: id}
}

// LayoutClient talks to the layout store service.
type LayoutClient struct {
	httpClient *HttpClient
}

func NewLayoutClient(baseURL string, timeout time.Duration) *LayoutClient {
	return &LayoutClient{httpClient: NewHttpClient(baseURL, timeout)}
}

func (c *LayoutClient) GetEventMap(ctx context.Context, eventID int64) (model.EventMap, error) {
	var m model.EventMap
	resp, err := c.httpClient.GET(ctx, eventPath(eventID)+"/map", nil)
	if err = decode(resp, err, http.MethodGet, eventPath(eventID)+"/map", &m); err != nil {
		return model.EventMap{}, err
	}
	if m.Stalls == nil {
		m.Stalls = []model.MapStall{}
	}
	return m, nil
}

func (c *LayoutClient) GetEvent(ctx context.Context, eventID int64) (model.Event, error) {
	var e model.Event
	resp, err := c.httpClient.GET(ctx, eventPath(eventID), nil)
	if err = decode(resp, err, http.MethodGet, eventPath(eventID), &e); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

func (c *LayoutClient) SaveStalls(ctx context.Context, eventID int64, stalls []model.StallSaveRequest) ([]model.MapStall, error) {
	var saved []model.MapStall
	path := eventPath(eventID) + "/stalls"
	resp, err := c.httpClient.POST(ctx, path, stalls, sessionHeaders(ctx))
	if err = decode(resp, err, http.MethodPost, path, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (c *LayoutClient) UpdateEvent(ctx context.Context, eventID int64, update model.EventUpdate) (model.Event, error) {
	var e model.Event
	resp, err := c.httpClient.PATCH(ctx, eventPath(eventID), update, sessionHeaders(ctx))
	if err = decode(resp, err, http.MethodPatch, eventPath(eventID), &e); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// Ping checks the layout store's liveness endpoint.
func (c *LayoutClient) Ping(ctx context.Context) error {
	resp, err := c.httpClient.GET(ctx, "/health", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &StatusError{Method: http.MethodGet, Path: "/health", StatusCode: resp.StatusCode, Message: GetErrorMessage(resp)}
	}
	return nil
}

func eventPath(eventID int64) string {
	return fmt.Sprintf("/api/v1/events/%d", eventID)
}

func decode(resp *Response, err error, method, path string, target any) error {
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if !resp.OK() {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: GetErrorMessage(resp)}
	}
	if err := resp.DecodeData(target); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
