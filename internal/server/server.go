// Package server exposes the activity store over HTTP: POST/GET /activity
// and GET /daily-summary.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/penwyp/go-efficia-monitor/internal/core/constants"
	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/data/client"
	"github.com/penwyp/go-efficia-monitor/internal/store"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

const (
	maxRequestBytes = 1 << 20
	shutdownTimeout = 5 * time.Second
	loggedMessage   = "Activity logged successfully"
)

// Repository is the storage the server needs.
type Repository interface {
	InsertActivity(ctx context.Context, a store.NewActivity) (int64, error)
	ListActivities(ctx context.Context) ([]model.ActivityEvent, error)
	DailySummary(ctx context.Context, since time.Time) ([]model.SummaryRecord, error)
}

// Server serves the activity API.
type Server struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

type activityRequest struct {
	AppName     string        `json:"app_name"`
	WindowTitle string        `json:"window_title"`
	Duration    wholeSeconds  `json:"duration"`
	Timestamp   string        `json:"timestamp"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// New creates a server. Naive timestamps and the daily boundary use loc.
func New(repo Repository, loc *time.Location) *Server {
	if loc == nil {
		loc = time.Local
	}
	return &Server{repo: repo, loc: loc, now: time.Now}
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+constants.ActivityPath, s.handleLogActivity)
	mux.HandleFunc("GET "+constants.ActivityPath, s.handleListActivities)
	mux.HandleFunc("GET "+constants.DailySummaryPath, s.handleDailySummary)
	return withRequestLog(withCORS(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		util.LogInfof("Activity API listening on http://%s", ln.Addr())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	util.LogInfo("Shutting down activity API")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleLogActivity(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body")
		return
	}

	var req activityRequest
	if err := sonic.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "body must be a JSON object")
		return
	}

	activity, err := s.validate(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.repo.InsertActivity(r.Context(), activity)
	if err != nil {
		if errors.Is(err, store.ErrInvalidActivity) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		util.Log().WithContext(r.Context()).Error("insert activity failed", util.F("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not store activity")
		return
	}

	util.Log().WithContext(r.Context()).Debug("activity stored",
		util.F("id", id),
		util.F("app_name", activity.AppName),
		util.F("duration", activity.Duration))
	writeJSON(w, http.StatusOK, messageResponse{Message: loggedMessage})
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	events, err := s.repo.ListActivities(r.Context())
	if err != nil {
		util.Log().WithContext(r.Context()).Error("list activities failed", util.F("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not list activities")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	since := util.StartOfDay(s.now().In(s.loc))
	records, err := s.repo.DailySummary(r.Context(), since)
	if err != nil {
		util.Log().WithContext(r.Context()).Error("daily summary failed", util.F("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not summarize activities")
		return
	}

	items := make([]model.DailySummaryItem, 0, len(records))
	for _, rec := range records {
		items = append(items, model.DailySummaryItem{AppName: rec.AppName, TotalTime: model.NewSeconds(rec.TotalDuration)})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) validate(req activityRequest) (store.NewActivity, error) {
	if strings.TrimSpace(req.AppName) == "" {
		return store.NewActivity{}, errors.New("app_name is required")
	}
	if !req.Duration.Valid {
		return store.NewActivity{}, errors.New("duration must be a whole number of seconds")
	}
	if req.Duration.Value < 0 {
		return store.NewActivity{}, errors.New("duration must not be negative")
	}
	ts, err := util.ParseTimestamp(req.Timestamp, s.loc)
	if err != nil {
		return store.NewActivity{}, fmt.Errorf("timestamp: %v", err)
	}
	return store.NewActivity{
		AppName:     req.AppName,
		WindowTitle: req.WindowTitle,
		Duration:    req.Duration.Value,
		Timestamp:   ts,
	}, nil
}

// wholeSeconds accepts a duration the way the tracker sends it: a JSON
// integer, an integral float such as 5.0, or a string holding an integer.
// Fractional or non-numeric values leave Valid false.
type wholeSeconds struct {
	Value int64
	Valid bool
}

func (w *wholeSeconds) UnmarshalJSON(data []byte) error {
	*w = wholeSeconds{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var n int64
	if err := sonic.Unmarshal(data, &n); err == nil {
		*w = wholeSeconds{Value: n, Valid: true}
		return nil
	}

	var f float64
	if err := sonic.Unmarshal(data, &f); err == nil {
		if f == math.Trunc(f) && f > math.MinInt64 && f < math.MaxInt64 {
			*w = wholeSeconds{Value: int64(f), Valid: true}
		}
		return nil
	}

	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64); err == nil {
			*w = wholeSeconds{Value: n, Valid: true}
		}
	}
	return nil
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+client.RequestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(client.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(client.RequestIDHeader, id)
		ctx := util.WithRequestID(r.Context(), id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		util.Log().WithContext(ctx).Info("request",
			util.F("method", r.Method),
			util.F("path", r.URL.Path),
			util.F("status", rec.status),
			util.F("elapsed", time.Since(start).String()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
