package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the JSON error envelope: {"error": "..."}
type ErrorBody struct {
	Error string `json:"error"`
}

// ErrorResponse sends an error response with the given status code
func ErrorResponse(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, ErrorBody{Error: message})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusUnauthorized, message)
}

// NotFoundResponse sends a 404 Not Found response
func NotFoundResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusNotFound, message)
}

// BadGatewayResponse sends a 502 Bad Gateway response for upstream failures
func BadGatewayResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadGateway, message)
}

// InternalServerErrorResponse sends a 500 with a generic message. The
// underlying error is logged by the caller, never sent to the client.
func InternalServerErrorResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusInternalServerError, message)
}
