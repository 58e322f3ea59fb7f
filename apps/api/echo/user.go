package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var errNoPermsToSetRole = "not enough rights to change the role"

type userApi struct {
	svc *user.Service
}

func registerUserAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *user.Service) {
	api := userApi{svc: svc}

	ug := g.Group("/users", auth)
	ug.GET("", api.query, roleMiddleware(user.RoleAdmin))
	ug.PATCH("/:id", api.update, selfOrRolesMiddleware("id", user.RoleAdmin))
}

// Handlers

func (api *userApi) query(ctx echo.Context) error {
	users := api.svc.Query(bindQueryFilter(ctx))
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) update(ctx echo.Context) error {
	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// only admins can change roles
	if data.Role != "" && !ctxUsr.IsAdmin() {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: errNoPermsToSetRole})
	}
	if data.Role != "" && !user.IsRole(core.CleanString(data.Role, true /* lower */)) {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "invalid role"})
	}

	usr, err := api.svc.UpdateProfile(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}
