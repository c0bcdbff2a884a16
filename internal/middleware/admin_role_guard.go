package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"app/internal/domain/model"
)

// AuthJWTがcontextへ入れたroleを見て、ADMIN以外のアクセスを拒否する。
// 必ずAuthJWTより後段に積むこと。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxUserRoleKey).(string)
			if role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if role != string(model.RoleAdmin) {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
			return next(c)
		}
	}
}
