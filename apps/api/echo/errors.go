package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/dashboard"
	"github.com/trezcool/darasa/core/user"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "please log in to continue")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")

	errPersistMsg = "your changes could not be saved, please try again"
)

// sentinelCodes maps the store errors to their status code.
var sentinelCodes = []struct {
	err  error
	code int
}{
	{user.ErrInvalidCredentials, http.StatusBadRequest},
	{user.ErrEmailNotVerified, http.StatusForbidden},
	{user.ErrInvalidOrExpiredToken, http.StatusBadRequest},
	{user.ErrInvalidToken, http.StatusBadRequest},
	{user.ErrNotFound, http.StatusNotFound},
	{dashboard.ErrAssignmentExists, http.StatusBadRequest},
	{dashboard.ErrDuplicateSubmission, http.StatusBadRequest},
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, usrSvc *user.Service) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			for _, sc := range sentinelCodes {
				if errors.Is(err, sc.err) {
					code = sc.code
					message = sc.err.Error()
					break
				}
			}
			if code != 0 {
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg
			if core.IsPersistError(err) {
				message = errPersistMsg
			}

			args := []interface{}{errors.Wrap(err, msg)}
			if usrSvc != nil {
				if usr, ok := usrSvc.CurrentUser(); ok {
					args = append(args, usr)
				}
			}
			logger.Error(msg, args...)
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
