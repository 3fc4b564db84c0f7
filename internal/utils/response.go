package utils

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rohits-web03/worklog/internal/logging"
)

// Message is the body of every plain confirmation or error response.
type Message struct {
	Message string `json:"message"`
}

// RateLimitBody is the nested error body sent with 429 responses.
type RateLimitBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// JSONResponse sends payload as JSON with the given status.
func JSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError maps err onto its status code and body. Internal failures are
// logged with their cause and answered with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError(err)
	}
	status := appErr.Kind.Status()

	logger := logging.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(appErr.Err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	} else {
		logger.Debug().Int("status", status).Str("reason", appErr.Message).Msg("request rejected")
	}

	if appErr.Kind == KindRateLimit {
		var body RateLimitBody
		body.Error.Code = status
		body.Error.Message = appErr.Message
		JSONResponse(w, status, body)
		return
	}
	JSONResponse(w, status, Message{Message: appErr.Message})
}

// DecodeJSON reads the request body into dst. An empty body leaves dst untouched.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || err == io.EOF {
		return nil
	}
	return ValidationError("Invalid input")
}
