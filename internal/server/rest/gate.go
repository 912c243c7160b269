package rest

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/labstack/echo/v4"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Gate admits only requests carrying a valid bearer token and stores the
// caller's auth.Identity in the request context.
func Gate(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(common.AuthorizationHeaderName))
			if !ok {
				return common.ErrMissingCredential
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				return err
			}

			req := c.Request()
			ctx := context.WithValue(req.Context(), identityKey, auth.Identity{UserID: userID})
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Gate.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
