package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

const ctxUserKey = "user"

var errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")

// authMiddleware requires an open session and puts its user in the context.
func authMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, ok := svc.CurrentUser()
			if !ok {
				return errUnauthorized
			}
			ctx.Set(ctxUserKey, usr)
			return next(ctx)
		}
	}
}

func getContextUser(ctx echo.Context) (user.User, error) {
	usr, ok := ctx.Get(ctxUserKey).(user.User)
	if !ok {
		return user.User{}, errUsrNotFoundInCtx
	}
	return usr, nil
}

// roleMiddleware only lets the context user through if they have one of roles.
// It must run after authMiddleware.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			for _, r := range roles {
				if usr.Role == r {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

// selfOrRolesMiddleware lets the context user through if the `param` path parameter is their id,
// or if they have one of roles.
func selfOrRolesMiddleware(param string, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if ctx.Param(param) == usr.ID {
				return next(ctx)
			}
			for _, r := range roles {
				if usr.Role == r {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}
