package echoweb

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/edutracker/core"
)

var binder = new(echo.DefaultBinder)

// paramID reads a numeric path parameter. Anything else designates no record.
func paramID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// queryInt reads an optional numeric query parameter.
func queryInt(ctx echo.Context, name string, fallback int) int {
	if n, err := strconv.Atoi(ctx.QueryParam(name)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func bindQuery(ctx echo.Context, dest interface{}) error {
	if err := binder.BindQueryParams(ctx, dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters").SetInternal(err)
	}
	return nil
}

func bindForm(ctx echo.Context, dest interface{}) error {
	if err := binder.BindBody(ctx, dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form").SetInternal(err)
	}
	return nil
}

// safeNext returns next when it is a local path, fallback otherwise.
func safeNext(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, `\`) {
		return next
	}
	return fallback
}

func (s *Server) fieldErrors(err error) (map[string]string, bool) {
	return core.FieldErrors(err, s.deps.Translator)
}

func redirect(ctx echo.Context, to string) error {
	return ctx.Redirect(http.StatusSeeOther, to)
}

// newFormError reports err against the whole form rather than one field.
func newFormError(err error) error {
	return core.NewValidationError(err)
}
