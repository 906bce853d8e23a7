package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/eugenenazirov/production-optimizer/internal/optimizer"
	"github.com/eugenenazirov/production-optimizer/internal/params"
	"github.com/eugenenazirov/production-optimizer/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	defaultMaxUploadBytes = 1 << 20
	csvFormField          = "csv_file"
)

// Handler wires the optimizer service and layout storage into HTTP handlers.
type Handler struct {
	optimizer *optimizer.Service
	storage   storage.Storage

	clock          func() time.Time
	maxUploadBytes int64

	mu              sync.RWMutex
	layoutUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMaxUploadBytes caps request bodies accepted by the optimize endpoints.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(svc *optimizer.Service, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		optimizer:      svc,
		storage:        store,
		maxUploadBytes: defaultMaxUploadBytes,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.layoutUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	_ = r
	layout, err := h.storage.GetLayout()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.layoutResponse(layout, ""))
}

func (h *Handler) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	var req params.Layout
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.storage.SetLayout(req); err != nil {
		if errors.Is(err, params.ErrInvalidLayout) {
			writeError(w, http.StatusBadRequest, "Invalid layout", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markLayoutUpdated()

	layout, err := h.storage.GetLayout()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.layoutResponse(layout, "Layout updated successfully"))
}

func (h *Handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadBytes)).Decode(&req); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "Payload too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	in := params.Input{Records: make([]params.Record, len(req.Records))}
	for i, raw := range req.Records {
		rec := make(params.Record, len(raw))
		for name, value := range raw {
			rec[params.CanonicalField(name)] = rawValue(value)
		}
		in.Records[i] = rec
	}

	h.optimize(r.Context(), w, in)
}

func (h *Handler) handleOptimizeCSV(w http.ResponseWriter, r *http.Request) {
	body, err := h.readUpload(w, r)
	if err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "Payload too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	in, err := params.ReadCSV(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid parameters", err.Error())
		return
	}

	h.optimize(r.Context(), w, in)
}

func (h *Handler) optimize(ctx context.Context, w http.ResponseWriter, in params.Input) {
	layout, err := h.storage.GetLayout()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	start := time.Now()
	res, err := h.optimizer.Optimize(ctx, layout, in)
	if err != nil {
		var missing *params.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			writeError(w, http.StatusBadRequest, "Invalid parameters", err.Error(),
				"GET /api/layout lists every required field for the active layout")
		case errors.Is(err, params.ErrValidation), errors.Is(err, params.ErrInvalidLayout):
			writeError(w, http.StatusBadRequest, "Invalid parameters", err.Error())
		default:
			writeInternalError(w, err)
		}
		return
	}

	w.Header().Set("X-Calculation-Time-Ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
	writeJSON(w, http.StatusOK, res)
}

// readUpload returns the CSV payload from a multipart form field or the raw body.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var mediaType string
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, fmt.Errorf("invalid Content-Type %q: %w", contentType, err)
		}
		mediaType = parsed
	}
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile(csvFormField)
	if err != nil {
		return nil, errors.New("multipart form must include a " + csvFormField + " file")
	}
	defer file.Close()

	return io.ReadAll(file)
}

func (h *Handler) layoutResponse(layout params.Layout, message string) layoutResponse {
	return layoutResponse{
		Products:       layout.Products,
		Machines:       layout.Machines,
		RequiredFields: layout.RequiredFields(),
		UpdatedAt:      h.currentLayoutUpdatedAt(),
		Message:        message,
	}
}

func (h *Handler) currentLayoutUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.layoutUpdatedAt
}

func (h *Handler) markLayoutUpdated() {
	h.mu.Lock()
	h.layoutUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// rawValue turns a JSON scalar into the raw text the validator parses.
// Strings are unquoted, null becomes empty and anything else keeps its literal form.
func rawValue(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	trimmed := bytes.TrimSpace(value)
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	return string(trimmed)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

type optimizeRequest struct {
	Records []map[string]json.RawMessage `json:"records"`
}

type layoutResponse struct {
	Products       []string  `json:"products"`
	Machines       []string  `json:"machines"`
	RequiredFields []string  `json:"requiredFields"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Message        string    `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// writeJSON encodes the payload before committing the status; encoding
// failures are reported as 500.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		body, _ = json.Marshal(errorResponse{Error: "Internal error", Details: err.Error()})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
