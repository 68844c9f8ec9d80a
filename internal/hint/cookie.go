package hint

import (
	"net/http"
	"net/url"
	"time"
)

const cookiePrefix = "mysite_"

// Cookies stores a selection in short-lived cookies. Reads come from the
// request, writes and clears go to the response.
type Cookies struct {
	r *http.Request
	w http.ResponseWriter

	cleared bool
}

func FromRequest(w http.ResponseWriter, r *http.Request) *Cookies {
	return &Cookies{r: r, w: w}
}

func (c *Cookies) Get(key string) (string, bool) {
	if c.cleared {
		return "", false
	}
	ck, err := c.r.Cookie(cookiePrefix + key)
	if err != nil {
		return "", false
	}
	v, err := url.QueryUnescape(ck.Value)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (c *Cookies) Clear() {
	if c.cleared {
		return
	}
	c.cleared = true
	for _, k := range Keys {
		if _, err := c.r.Cookie(cookiePrefix + k); err != nil {
			continue
		}
		http.SetCookie(c.w, &http.Cookie{
			Name:     cookiePrefix + k,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// Write records sel for ttl.
func Write(w http.ResponseWriter, sel Selection, ttl time.Duration) {
	for k, v := range sel.Values() {
		if v == "" {
			continue
		}
		http.SetCookie(w, &http.Cookie{
			Name:     cookiePrefix + k,
			Value:    url.QueryEscape(v),
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
