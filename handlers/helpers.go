package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// parse a numeric path param; 0 when malformed
func uintParam(c echo.Context, name string) uint {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

func errJSON(c echo.Context, status int, code string) error {
	return c.JSON(status, map[string]any{"error": code, "message": messageFor(code)})
}

func validationJSON(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, map[string]any{
		"error":   "VALIDATION_ERROR",
		"message": "Validation failed",
		"fields":  fields,
	})
}

// human-readable fallback texts for the error codes the UI surfaces
func messageFor(code string) string {
	switch code {
	case "INVALID_PAYLOAD":
		return "Request body could not be parsed"
	case "NOT_FOUND":
		return "Resource not found"
	case "INVALID_CREDENTIALS":
		return "Invalid email or password"
	case "EMAIL_EXISTS":
		return "An account with this email already exists"
	case "CLASS_FULL":
		return "Class is at capacity"
	case "DB_QUERY_FAILED", "DB_COUNT_FAILED":
		return "Database error"
	default:
		return code
	}
}
