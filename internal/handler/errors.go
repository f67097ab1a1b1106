package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/logging"
)

// HTTPErrorHandler replaces echo's default handler. 404 and 500 render
// the error pages; JSON clients and other status codes get a short body.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
		if he.Internal != nil {
			err = he.Internal
		}
	}

	log := logging.Ctx(c.Request().Context())
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", code).Msg("request rejected")
	}

	var out error
	switch {
	case c.Request().Method == http.MethodHead:
		out = c.NoContent(code)
	case wantsJSON(c):
		out = c.JSON(code, echo.Map{"success": false, "message": msg})
	case code == http.StatusNotFound:
		out = c.Render(code, "errors/404.html", nil)
	case code >= http.StatusInternalServerError:
		out = c.Render(http.StatusInternalServerError, "errors/500.html", nil)
	default:
		out = c.String(code, msg)
	}
	if out != nil {
		log.Error().Err(out).Msg("error page could not be written")
		if !c.Response().Committed {
			_ = c.String(code, http.StatusText(code))
		}
	}
}

func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
