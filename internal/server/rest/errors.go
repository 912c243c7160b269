package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/validation"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// statusFor maps an error to its HTTP status and response body.
func statusFor(err error) (int, errorResponse) {
	var verr *validation.Error
	var herr *echo.HTTPError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorResponse{Message: verr.Error(), Errors: verr.Fields}
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorConstraint):
		return http.StatusBadRequest, errorResponse{Message: err.Error()}
	case errors.Is(err, common.ErrMissingCredential),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, errorResponse{Message: err.Error()}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorResponse{Message: err.Error()}
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, errorResponse{Message: err.Error()}
	case errors.As(err, &herr):
		return herr.Code, errorResponse{Message: fmt.Sprint(herr.Message)}
	default:
		return http.StatusInternalServerError, errorResponse{Message: common.ErrorInternal.Error()}
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, body := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed",
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, body)
	}
	if werr != nil {
		s.logger.Error(c.Request().Context(), "error writing response", "error", werr)
	}
}
