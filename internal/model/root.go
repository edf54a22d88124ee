package model

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ResponseBody defines the basic structure for all response bodies.
type ResponseBody struct {
	// The result of the request, absent when an error occurred
	Result interface{} `json:"result,omitempty"`

	// A brief description of the error if one occurred
	Error string `json:"error,omitempty"`

	// A status message for the request
	Status string `json:"status"`
}

// SuccessResponse builds a response body for a successful request.
func SuccessResponse(result interface{}, code int) *ResponseBody {
	return &ResponseBody{
		Result: result,
		Status: http.StatusText(code),
	}
}

// ErrorResponse builds a response body for a failed request.
func ErrorResponse(msg string, code int) *ResponseBody {
	return &ResponseBody{
		Error:  msg,
		Status: http.StatusText(code),
	}
}

// Success sends a success response to the caller.
func Success(ctx echo.Context, result interface{}, code int) error {
	return ctx.JSON(code, SuccessResponse(result, code))
}

// SuccessMessage sends a success response with a plain message to the caller.
func SuccessMessage(ctx echo.Context, msg string, code int) error {
	return ctx.JSON(code, &ResponseBody{Result: msg, Status: http.StatusText(code)})
}

// Error sends an error response to the caller.
func Error(ctx echo.Context, msg string, code int) error {
	return ctx.JSON(code, ErrorResponse(msg, code))
}

// HTTPError sends an error response for an error returned by an echo handler.
func HTTPError(ctx echo.Context, err *echo.HTTPError) error {
	msg, ok := err.Message.(string)
	if !ok {
		msg = http.StatusText(err.Code)
	}
	return Error(ctx, msg, err.Code)
}
