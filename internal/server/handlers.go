package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/device"
	"github.com/agbru/fibdrv/internal/logging"
)

// handleHealth reports liveness and the device parameters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
		Algorithm: s.device.Algorithm(),
		MaxIndex:  s.device.MaxLength(),
	})
}

// handleAlgorithms lists the registered generators.
func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, AlgorithmsResponse{
		Algorithms: s.factory.List(),
		Active:     s.device.Algorithm(),
	})
}

// handleFib computes F(k) through a device session and renders it in the
// requested format.
func (s *Server) handleFib(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	k, format, err := s.parseFibParams(r)
	if err != nil {
		s.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h, err := s.device.Open()
	if err != nil {
		if errors.Is(err, device.ErrBusy) {
			s.metrics.IncrementDeviceBusy()
			w.Header().Set("Retry-After", "1")
			s.writeErrorResponse(w, r, http.StatusServiceUnavailable, err.Error())
			return
		}
		s.writeErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	defer h.Close()

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	if _, err := h.Seek(k, io.SeekStart); err != nil {
		s.writeErrorResponse(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	res, err := h.Result(ctx)
	if err != nil {
		s.writeComputeError(w, r, k, err)
		return
	}

	if format == FormatBytes {
		body := bignum.EncodeMinimal(res.Limbs)
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("X-Elapsed-Ns", strconv.FormatInt(res.Elapsed.Nanoseconds(), 10))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			s.logger.Error("write response", err, logging.String("request_id", RequestID(r.Context())))
		}
		return
	}

	s.writeJSONResponse(w, http.StatusOK, buildFibResponse(k, s.device.Algorithm(), format, res, time.Since(start)))
}

// parseFibParams validates the path index and the format query parameter.
func (s *Server) parseFibParams(r *http.Request) (int64, string, error) {
	raw := r.PathValue("k")
	k, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid index %q: must be an integer", raw)
	}
	if k < 0 {
		return 0, "", fmt.Errorf("invalid index %d: must be non-negative", k)
	}
	if limit := s.device.MaxLength(); k > limit {
		return 0, "", fmt.Errorf("invalid index %d: exceeds maximum allowed (%d)", k, limit)
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "":
		format = FormatDecimal
	case FormatDecimal, FormatHex, FormatLimbs, FormatBytes:
	default:
		return 0, "", fmt.Errorf("unknown format %q", format)
	}
	return k, format, nil
}

func buildFibResponse(k int64, algo, format string, res device.Result, duration time.Duration) FibResponse {
	value := bignum.FromLimbs(res.Limbs)
	resp := FibResponse{
		K:         k,
		Algorithm: algo,
		Format:    format,
		Bits:      value.BitLen(),
		ElapsedNs: res.Elapsed.Nanoseconds(),
		Duration:  duration.String(),
	}
	switch format {
	case FormatHex:
		resp.Result = "0x" + value.Text(16)
	case FormatLimbs:
		resp.Limbs = res.Limbs
	default:
		resp.Result = value.String()
	}
	return resp
}

// writeComputeError maps a device computation failure to a status code.
func (s *Server) writeComputeError(w http.ResponseWriter, r *http.Request, k int64, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// Client went away; the status is only logged.
		status = 499
	}
	s.logger.Error("computation failed", err,
		logging.String("request_id", RequestID(r.Context())),
		logging.Int64("k", k),
	)
	s.writeErrorResponse(w, r, status, err.Error())
}

// writeJSONResponse writes data as JSON with the given status.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode JSON response", err)
	}
}

// writeErrorResponse writes a standardized error body.
func (s *Server) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	text := http.StatusText(statusCode)
	if text == "" {
		text = "Client Closed Request"
	}
	s.writeJSONResponse(w, statusCode, ErrorResponse{
		Error:     text,
		Message:   message,
		RequestID: RequestID(r.Context()),
	})
}
