package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/lms/core"
	"github.com/trezcool/lms/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// newAppHTTPErrorHandler renders handler errors as JSON.
// Client errors keep their status; anything else is logged and answered with a 500.
// signalShutdown is called whenever a core shutdown error reaches the handler.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message, ok := clientError(err, translator)
		if !ok {
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			reportServerError(ctx, logger, err)

			if core.IsShutdown(err) {
				signalShutdown()
			}
			if ctx.Echo().Debug {
				message = err.Error()
			}
		}
		if m, isStr := message.(string); isStr {
			message = echo.Map{"error": m}
		}

		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead { // echo issue #608
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, message)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}

// clientError reports the status and body for errors caused by the request itself.
func clientError(err error, translator ut.Translator) (int, interface{}, bool) {
	switch cause := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if cause == middleware.ErrJWTMissing {
			return http.StatusUnauthorized, cause.Message, true
		}
		if inner, ok := cause.Internal.(*echo.HTTPError); ok {
			cause = inner
		}
		return cause.Code, cause.Message, true
	case validator.ValidationErrors:
		return http.StatusBadRequest, translatedFields(cause, translator), true
	case *core.ValidationError:
		if cause.Fields == nil {
			return http.StatusBadRequest, cause.Error(), true
		}
		fields := make(map[string]string, len(cause.Fields))
		for _, fErr := range cause.Fields {
			fields[fErr.Field] = fErr.Error
		}
		return http.StatusBadRequest, fields, true
	}
	return 0, nil, false
}

func translatedFields(vErrs validator.ValidationErrors, translator ut.Translator) map[string]string {
	fields := make(map[string]string, len(vErrs))
	for _, vErr := range vErrs {
		fields[vErr.Field()] = vErr.Translate(translator)
	}
	return fields
}

// reportServerError logs err with the request line and, when authenticated, the caller.
func reportServerError(ctx echo.Context, logger core.Logger, err error) {
	msg := http.StatusText(http.StatusInternalServerError)
	req := ctx.Request()

	var usr user.User
	if claims, cErr := getContextClaims(ctx); cErr == nil {
		usr.UID = claims.Subject
		usr.Role = claims.Role
	}
	logger.Error(msg, errors.Wrap(err, msg), map[string]interface{}{"method": req.Method, "path": req.URL.Path}, usr)
}
