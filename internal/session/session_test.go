package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(e *echo.Echo, h echo.HandlerFunc, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestFlash_SurvivesRedirect(t *testing.T) {
	e := echo.New()
	m := NewManager("secret", false)

	rec := serve(e, func(c echo.Context) error {
		m.AddFlash(c, CategorySuccess, "Venue The Musical Hop was successfully listed!")
		return c.Redirect(http.StatusFound, "/")
	})
	require.Equal(t, http.StatusFound, rec.Code)
	ck := cookieNamed(rec, defaultCookieName)
	require.NotNil(t, ck)
	require.NotEmpty(t, ck.Value)

	var got []Flash
	rec = serve(e, func(c echo.Context) error {
		got = m.Flashes(c)
		return c.String(http.StatusOK, "home")
	}, ck)

	require.Len(t, got, 1)
	assert.Equal(t, CategorySuccess, got[0].Category)
	assert.Equal(t, "Venue The Musical Hop was successfully listed!", got[0].Message)

	cleared := cookieNamed(rec, defaultCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestFlash_SameRequest(t *testing.T) {
	e := echo.New()
	m := NewManager("secret", false)

	var got []Flash
	rec := serve(e, func(c echo.Context) error {
		m.AddFlash(c, CategoryError, "boom")
		got = m.Flashes(c)
		return c.String(http.StatusOK, "form")
	})
	require.Len(t, got, 1)
	assert.Equal(t, "boom", got[0].Message)
	assert.Nil(t, cookieNamed(rec, defaultCookieName))
}

func TestFlash_SameRequestClearsIncomingCookie(t *testing.T) {
	e := echo.New()
	m := NewManager("secret", false)

	rec := serve(e, func(c echo.Context) error {
		m.AddFlash(c, CategorySuccess, "first")
		return c.Redirect(http.StatusFound, "/")
	})
	pending := cookieNamed(rec, defaultCookieName)
	require.NotNil(t, pending)

	var got []Flash
	rec = serve(e, func(c echo.Context) error {
		m.AddFlash(c, CategoryError, "second")
		got = m.Flashes(c)
		return c.String(http.StatusOK, "form")
	}, pending)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Message)
	assert.Equal(t, "second", got[1].Message)
	cleared := cookieNamed(rec, defaultCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestFlash_TamperedCookieIgnored(t *testing.T) {
	e := echo.New()
	signer := NewManager("other-secret", false)
	m := NewManager("secret", false)

	rec := serve(e, func(c echo.Context) error {
		signer.AddFlash(c, CategorySuccess, "forged")
		return c.NoContent(http.StatusNoContent)
	})
	forged := cookieNamed(rec, defaultCookieName)
	require.NotNil(t, forged)

	var got []Flash
	rec = serve(e, func(c echo.Context) error {
		got = m.Flashes(c)
		return c.NoContent(http.StatusNoContent)
	}, forged)
	assert.Empty(t, got)
	cleared := cookieNamed(rec, defaultCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestNoFlashNoCookie(t *testing.T) {
	e := echo.New()
	m := NewManager("secret", false)
	rec := serve(e, func(c echo.Context) error {
		assert.Empty(t, m.Flashes(c))
		return c.NoContent(http.StatusNoContent)
	})
	assert.Nil(t, cookieNamed(rec, defaultCookieName))
}
