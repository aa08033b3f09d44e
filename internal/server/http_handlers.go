package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"atscheck/internal/errors"
	"atscheck/internal/semantic"
)

// healthHandler reports liveness plus the state of the optional semantic
// provider. A tripped breaker degrades the status but the rule-based
// endpoints keep serving, so the response stays 200.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, r, "Method not allowed", "", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "atscheck",
		"version": s.Version,
	}

	semanticStatus := s.semanticHealth()
	response["semantic"] = semanticStatus
	if breaker, ok := semanticStatus["breaker"].(map[string]any); ok {
		if state, _ := breaker["state"].(string); state == "open" {
			response["status"] = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// semanticHealth describes the configured semantic matcher.
func (s *Server) semanticHealth() map[string]any {
	status := map[string]any{"enabled": false}
	if s.Runner == nil {
		return status
	}

	svc, ok := s.Runner.Matcher.(*semantic.Service)
	if !ok || svc == nil {
		return status
	}
	status["enabled"] = s.Runner.SemanticConfig.Consent
	status["provider"] = svc.Provider().Name()
	status["model"] = s.Runner.SemanticConfig.Model

	if b, ok := svc.Provider().(interface{ BreakerStats() map[string]any }); ok {
		status["breaker"] = b.BreakerStats()
	}
	return status
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorResponse(w, r, "Method not allowed", "", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "atscheck",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses a JSON request body into v. Problems with the body
// are reported as InvalidInputErrors.
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errors.NewInvalidInputError("Content-Type", "content-type must be application/json")
	}

	defer func() { _ = r.Body.Close() }()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.NewInvalidInputError("body",
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit))
		}
		return errors.NewInvalidInputError("body", fmt.Sprintf("failed to read request body: %v", err))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewInvalidInputError("body", fmt.Sprintf("failed to parse JSON: %v", err))
	}
	return nil
}

// statusFor maps an error onto an HTTP status.
func statusFor(err error) int {
	appErr, ok := errors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrorTypeIO:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err as an ErrorResponse. Internal failures do not
// leak their cause to the client.
func writeAppError(w http.ResponseWriter, r *http.Request, title string, err error, status int) {
	resp := ErrorResponse{Error: title, RequestID: requestIDFrom(r.Context())}
	if appErr, ok := errors.As(err); ok {
		resp.Field = appErr.Field()
		if status < http.StatusInternalServerError {
			resp.Message = appErr.Message
		}
	}
	writeJSON(w, status, resp)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, r *http.Request, title, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:     title,
		Message:   message,
		RequestID: requestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
