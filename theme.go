package folio

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/dvh-sh/folio/views"
)

// Flavors are the Catppuccin palettes a visitor can pick.
var Flavors = []string{"latte", "frappe", "macchiato", "mocha"}

func validFlavor(f string) bool {
	for _, v := range Flavors {
		if v == f {
			return true
		}
	}
	return false
}

// Flavor returns the visitor's palette from the session, or the default.
func Flavor(c echo.Context) string {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return views.DefaultFlavor
	}
	f, ok := sess.Values["flavor"].(string)
	if !ok || !validFlavor(f) {
		return views.DefaultFlavor
	}
	return f
}

func setFlavor(c echo.Context, flavor string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["flavor"] = flavor
	return sess.Save(c.Request(), c.Response())
}

func (a *App) handleTheme(c echo.Context) error {
	flavor := strings.ToLower(strings.TrimSpace(c.FormValue("flavor")))
	if !validFlavor(flavor) {
		return c.String(http.StatusBadRequest, "Unknown flavor")
	}
	if err := setFlavor(c, flavor); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, safeRedirect(c.FormValue("redirect")))
}

// safeRedirect keeps redirects on this site.
func safeRedirect(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return u.RequestURI()
}
