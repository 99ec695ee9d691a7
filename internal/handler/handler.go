// Package handler exposes the terminal's JSON API: catalog browsing, cart
// mutation, checkout and the alert feed consumed by the till UI.
package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/opencounter/pos/internal/domain"
)

// Validator adapts validator/v10 to echo's binding hook.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the echo request validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domain.WrapError(err, domain.EINVALID, "request.validate", "request failed validation")
	}
	return nil
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusForCode maps domain error codes onto HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates any error into the JSON error shape. Internal
// details never reach the client (see domain.ErrorMessage).
func respondError(c echo.Context, err error) error {
	code := domain.ErrorCode(err)
	return c.JSON(statusForCode(code), errorResponse{
		Error:   code,
		Message: domain.ErrorMessage(err),
	})
}

// ErrorHandler is the echo-level fallback for errors no handler translated.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if httpErr, ok := err.(*echo.HTTPError); ok {
		message, _ := httpErr.Message.(string)
		if message == "" {
			message = http.StatusText(httpErr.Code)
		}
		_ = c.JSON(httpErr.Code, errorResponse{Error: "http_error", Message: message})
		return
	}

	_ = respondError(c, err)
}
