package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/user"
)

// roleMiddleware lets through users holding any of `roles`. It runs after sessionMiddleware.
func roleMiddleware(svc user.Service, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if usr.HasRole(role) {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

// metricsMiddleware counts requests by route. Errors are handled here so that the final status is known.
func metricsMiddleware(metrics core.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if err := next(ctx); err != nil {
				ctx.Error(err)
			}
			path := ctx.Path()
			if path == "" {
				path = "unmatched"
			}
			metrics.ObserveRequest(ctx.Request().Method, path, ctx.Response().Status)
			return nil
		}
	}
}
