package rest

import (
	"strconv"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/validation"
	"github.com/labstack/echo/v4"
)

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.New("invalid id",
			validation.FieldError{Field: "id", Message: "must be a positive integer"})
	}
	return id, nil
}

// identity reads the caller placed in the context by Gate.
func identity(c echo.Context) (auth.Identity, error) {
	who, ok := IdentityFrom(c.Request().Context())
	if !ok {
		return auth.Identity{}, common.ErrMissingCredential
	}
	return who, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
