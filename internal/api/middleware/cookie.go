package middleware

import (
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"
)

// CookieJar carries the session token in a signed cookie.
type CookieJar struct {
	name  string
	codec *securecookie.SecureCookie
}

// NewCookieJar signs cookies with hashKey. A random key is generated when
// hashKey is empty.
func NewCookieJar(name string, hashKey []byte) *CookieJar {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	codec := securecookie.New(hashKey, nil)
	// Sessions do not expire, so neither does the cookie signature.
	codec.MaxAge(0)
	return &CookieJar{name: name, codec: codec}
}

// Name returns the cookie name.
func (j *CookieJar) Name() string { return j.name }

// Write stores token in the response cookie.
func (j *CookieJar) Write(c echo.Context, token string) error {
	encoded, err := j.codec.Encode(j.name, token)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     j.name,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
	})
	return nil
}

// Token returns the session token carried by the request, or "" when the
// cookie is missing or its signature does not verify.
func (j *CookieJar) Token(r *http.Request) string {
	cookie, err := r.Cookie(j.name)
	if err != nil {
		return ""
	}
	var token string
	if err := j.codec.Decode(j.name, cookie.Value, &token); err != nil {
		return ""
	}
	return token
}

// Clear expires the cookie on the client.
func (j *CookieJar) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     j.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
