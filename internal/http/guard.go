package http

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/vbncursed/vkr/coffee-shop/internal/auth"
)

// Authorizer — проверка запроса на permission (auth.Gate)
type Authorizer interface {
	Authorize(ctx context.Context, header, permission string) (*auth.Claims, error)
}

// GuardedHandler получает проверенные claims явным аргументом
type GuardedHandler func(c echo.Context, claims *auth.Claims) error

// Guard пропускает к h только запросы с токеном, несущим permission
func Guard(a Authorizer, permission string, h GuardedHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		claims, err := a.Authorize(req.Context(), req.Header.Get(echo.HeaderAuthorization), permission)
		if err != nil {
			return err
		}
		c.SetRequest(req.WithContext(auth.WithClaims(req.Context(), claims)))
		return h(c, claims)
	}
}
