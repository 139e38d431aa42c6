package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-orders/internal/logger"
	"github.com/iliyamo/restaurant-orders/internal/service"
)

var kindStatus = map[service.Kind]int{
	service.KindValidation:   http.StatusBadRequest,
	service.KindUnauthorized: http.StatusUnauthorized,
	service.KindForbidden:    http.StatusForbidden,
	service.KindNotFound:     http.StatusNotFound,
	service.KindInvalidState: http.StatusConflict,
	service.KindInternal:     http.StatusInternalServerError,
}

var statusCode = map[int]string{
	http.StatusBadRequest:            "validation_error",
	http.StatusUnauthorized:          "unauthorized",
	http.StatusForbidden:             "forbidden",
	http.StatusNotFound:              "not_found",
	http.StatusMethodNotAllowed:      "method_not_allowed",
	http.StatusConflict:              "invalid_state",
	http.StatusRequestEntityTooLarge: "payload_too_large",
	http.StatusTooManyRequests:       "too_many_requests",
}

// ErrorHandler renders every error as {"error": code, "message": text}.
// Internal failures are logged with the request id and answered with a
// generic message.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	log = log.WithComponent("http")
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := classify(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				"error", err,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"method", c.Request().Method,
				"path", c.Path())
			msg = "internal server error"
		}
		code, ok := statusCode[status]
		if !ok {
			code = "internal_error"
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, echo.Map{"error": code, "message": msg})
		}
		if werr != nil {
			log.Error("write error response", "error", werr)
		}
	}
}

func classify(err error) (int, string) {
	var se *service.Error
	if errors.As(err, &se) {
		return kindStatus[se.Kind], se.Message
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, msg
	}
	return http.StatusInternalServerError, ""
}
