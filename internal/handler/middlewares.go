package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	requestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 64
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *ResponseWriter) status() int {
	if rw.StatusCode == 0 {
		return http.StatusOK
	}
	return rw.StatusCode
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(RequestIDCtx).(string)
	return id
}

func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := context.WithValue(r.Context(), RequestIDCtx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("request handled", "request_id", requestIDFrom(r), "status", rw.status(), "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // slog would flatten the trace into one line
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)

		// the pattern is only complete once routing has finished
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		h.metrics.ObserveRequest(route, r.Method, rw.status(), time.Since(start))
	})
}

func (h *Handler) logNotifyFailure(r *http.Request, mailType string, err error) {
	slog.Warn("failed to queue notification mail", "request_id", requestIDFrom(r), "type", mailType, "error", err)
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) assetCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			h.errorResponse(w, r, http.StatusBadRequest, "Invalid asset ID.", nil)
			return
		}

		asset, err := h.inventory.GetAsset(r.Context(), id)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), AssetCtx, asset)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) employeeCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			h.errorResponse(w, r, http.StatusBadRequest, "Invalid employee ID.", nil)
			return
		}

		employee, err := h.inventory.GetEmployee(r.Context(), id)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), EmployeeCtx, employee)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) assignmentCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			h.errorResponse(w, r, http.StatusBadRequest, "Invalid assignment ID.", nil)
			return
		}

		assignment, err := h.inventory.GetAssignment(r.Context(), id)
		if err != nil {
			h.serviceError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), AssignmentCtx, assignment)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
