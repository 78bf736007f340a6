package webui

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/session"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that renders
// our error pages instead of echo's JSON shape. signalShutdown is called to
// gracefully stop the server whenever a core shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, sessions *session.Store, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code := http.StatusInternalServerError
		message := http.StatusText(code)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = fmt.Sprintf("%v", origErr.Message)
		case *core.ValidationError:
			code = http.StatusBadRequest
			if msg := origErr.Error(); msg != "" {
				message = msg
			}
		default: // any other error is a server error
			args := []interface{}{errors.Wrap(err, message)}
			if usr := sessions.User(); usr != nil {
				args = append(args, *usr)
			}
			logger.Error(message, args...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Response().Committed {
			return
		}
		if code == http.StatusNotFound {
			renderErr := ctx.Render(code, "notfound", page{Title: "Página no encontrada"})
			if renderErr != nil {
				ctx.Logger().Error(renderErr)
			}
			return
		}
		if renderErr := ctx.Render(code, "error", page{Title: "Error", Error: message}); renderErr != nil {
			ctx.Logger().Error(renderErr)
		}
	}
}
