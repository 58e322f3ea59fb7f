package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	msgLoggedOut      = "Logged out successfully"
	msgSignedUp       = "Signup successful! Please check your email to verify your account."
	msgResetRequested = "If the email address supplied is associated with an account on this system, " +
		"an email will arrive in your inbox shortly with instructions to reset your password."
	msgPasswordReset = "Password has been reset with the new password."
	msgEmailVerified = "Email verified successfully! You can now log in."
)

type authApi struct {
	svc      *user.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *user.Service, validate *validator.Validate) {
	api := authApi{svc: svc, validate: validate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.POST("/signup", api.signup)
	ag.POST("/password-reset", api.requestPasswordReset)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)
	ag.POST("/verify-email", api.verifyEmail)
	ag.GET("/session", api.session)
	ag.POST("/password-strength", api.passwordStrength)

	g.GET("/roles", api.queryRoles)
	g.GET("/navigation", api.navigation, auth)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	usr, err := api.svc.Login(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *authApi) logout(ctx echo.Context) error {
	if err := api.svc.Logout(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: msgLoggedOut})
}

func (api *authApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	usr, err := api.svc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "signing up")
	}
	return ctx.JSON(http.StatusCreated, SignupResponse{Success: msgSignedUp, User: usr})
}

func (api *authApi) requestPasswordReset(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email); err != nil {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: msgResetRequested})
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}

	if err := api.svc.ResetPassword(ctx.Request().Context(), data.Token, data.Password); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: msgPasswordReset})
}

func (api *authApi) verifyEmail(ctx echo.Context) error {
	var data TokenRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TokenRequest")
	}

	if err := api.svc.VerifyEmail(ctx.Request().Context(), data.Token); err != nil {
		return errors.Wrap(err, "verifying email")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: msgEmailVerified})
}

func (api *authApi) session(ctx echo.Context) error {
	var res SessionResponse
	if usr, ok := api.svc.CurrentUser(); ok {
		res.IsAuthenticated = true
		res.User = &usr
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *authApi) passwordStrength(ctx echo.Context) error {
	var data PasswordStrengthRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordStrengthRequest")
	}

	attrs := []string{data.Name, data.Email}
	if usr, ok := api.svc.CurrentUser(); ok {
		attrs = append(attrs, usr.Name, usr.Email)
	}
	return ctx.JSON(http.StatusOK, user.PasswordStrength(data.Password, attrs...))
}

func (api *authApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

func (api *authApi) navigation(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, user.NavLinks(usr.Role))
}

type (
	SuccessResponse struct {
		Success string `json:"success"`
	}

	SignupResponse struct {
		Success string    `json:"success"`
		User    user.User `json:"user"`
	}

	SessionResponse struct {
		IsAuthenticated bool       `json:"is_authenticated"`
		User            *user.User `json:"user"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	TokenRequest struct {
		Token string `json:"token"`
	}

	PasswordStrengthRequest struct {
		Password string `json:"password"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}
)

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}
