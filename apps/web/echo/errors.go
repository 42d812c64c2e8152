package echoweb

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/user"
)

var notFoundMessage = "The page you're looking for doesn't exist or has been moved."

// ErrorState is the data of the error screen.
type ErrorState struct {
	Code    int
	Title   string
	Message string
	Fields  map[string]string
}

func (e ErrorState) IsNotFound() bool { return e.Code == http.StatusNotFound }

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that renders our errors as the error screen.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(
	logger core.Logger,
	translator ut.Translator,
	signalShutdown func(),
	render func(echo.Context, ErrorState) error,
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var state ErrorState

		if errors.Cause(err) == core.ErrNotFound {
			state.Code = http.StatusNotFound
		} else if fields, ok := core.FieldErrors(err, translator); ok {
			state.Code = http.StatusBadRequest
			state.Fields = fields
		} else if httpErr, ok := errors.Cause(err).(*echo.HTTPError); ok {
			if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
				httpErr = herr
			}
			state.Code = httpErr.Code
			state.Message = fmt.Sprint(httpErr.Message)
		} else { // any other error is a server error
			state.Code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)

			var usr user.User
			if sh := getContextShell(ctx); sh.Authenticated {
				usr.ID = sh.UserID
				usr.Name = sh.Name
				usr.Role = sh.Role
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		state.Title = http.StatusText(state.Code)
		switch {
		case state.IsNotFound():
			state.Title = "Page Not Found"
			state.Message = notFoundMessage
		case ctx.Echo().Debug:
			state.Message = err.Error()
		case state.Code == http.StatusInternalServerError:
			state.Message = "Something went wrong on our side. Please try again later."
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(state.Code)
			} else {
				err = render(ctx, state)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
				if !ctx.Response().Committed {
					_ = ctx.String(state.Code, state.Title)
				}
			}
		}
	}
}

// renderError never shows an overlay: a failed overlay must not break the error screen too.
func (s *Server) renderError(ctx echo.Context, state ErrorState) error {
	sh := getContextShell(ctx)
	sh.ShowGradeEditModal, sh.ShowGradeHistoryModal = false, false
	ctx.Set(contextShellKey, sh)
	return s.render(ctx, state.Code, Page{Screen: ScreenErrorState, Title: state.Title, Data: state})
}
