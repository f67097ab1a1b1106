// Package session keeps one-shot flash messages between a POST and the page
// it redirects to. Messages travel in a cookie holding an HS256-signed JWT,
// so the server stays stateless and a tampered cookie is simply ignored.
package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Flash categories used by the templates for styling.
const (
	CategorySuccess = "success"
	CategoryError   = "danger"
)

const (
	defaultCookieName = "fyyur_session"
	stateKey          = "session.state"
)

// Flash is one notification shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type claims struct {
	Flashes []Flash `json:"flashes"`
	jwt.RegisteredClaims
}

// Manager reads and writes the flash cookie.
type Manager struct {
	secret []byte
	name   string
	ttl    time.Duration
	secure bool
}

// NewManager returns a Manager signing cookies with secret. Cookies are
// marked Secure when secure is true.
func NewManager(secret string, secure bool) *Manager {
	if secret == "" {
		panic("session: empty secret")
	}
	return &Manager{secret: []byte(secret), name: defaultCookieName, ttl: time.Hour, secure: secure}
}

type state struct {
	flashes  []Flash
	dirty    bool
	received bool // the request carried a session cookie
}

// state returns the request's flash state, loading it from the cookie on
// first use. The cookie is rewritten just before the response headers go
// out, and only if something changed.
func (m *Manager) state(c echo.Context) *state {
	if st, ok := c.Get(stateKey).(*state); ok {
		return st
	}
	st := &state{}
	if ck, err := c.Cookie(m.name); err == nil && ck.Value != "" {
		st.received = true
		if fl, err := m.decode(ck.Value); err == nil {
			st.flashes = fl
		} else {
			st.dirty = true
		}
	}
	c.Set(stateKey, st)
	c.Response().Before(func() { m.write(c, st) })
	return st
}

func (m *Manager) write(c echo.Context, st *state) {
	if !st.dirty {
		return
	}
	ck := &http.Cookie{
		Name:     m.name,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if len(st.flashes) == 0 {
		if !st.received {
			return
		}
		ck.MaxAge = -1
		c.SetCookie(ck)
		return
	}
	v, err := m.encode(st.flashes)
	if err != nil {
		return
	}
	ck.Value = v
	ck.MaxAge = int(m.ttl / time.Second)
	c.SetCookie(ck)
}

func (m *Manager) encode(flashes []Flash) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Flashes: flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	return t.SignedString(m.secret)
}

func (m *Manager) decode(raw string) ([]Flash, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return cl.Flashes, nil
}

// AddFlash queues a message for the next page the client renders.
func (m *Manager) AddFlash(c echo.Context, category, message string) {
	st := m.state(c)
	st.flashes = append(st.flashes, Flash{Category: category, Message: message})
	st.dirty = true
}

// Flashes pops every pending message, including ones added during the
// current request.
func (m *Manager) Flashes(c echo.Context) []Flash {
	st := m.state(c)
	out := st.flashes
	if len(out) > 0 {
		st.flashes = nil
		st.dirty = true
	}
	return out
}
