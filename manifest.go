package folio

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type manifestIcon struct {
	Src     string `json:"src"`
	Sizes   string `json:"sizes"`
	Type    string `json:"type,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

type manifestShortcut struct {
	Name        string         `json:"name"`
	ShortName   string         `json:"short_name"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	Icons       []manifestIcon `json:"icons"`
}

type webManifest struct {
	Name            string             `json:"name"`
	ShortName       string             `json:"short_name"`
	Description     string             `json:"description"`
	StartURL        string             `json:"start_url"`
	Display         string             `json:"display"`
	BackgroundColor string             `json:"background_color"`
	ThemeColor      string             `json:"theme_color"`
	Orientation     string             `json:"orientation"`
	Icons           []manifestIcon     `json:"icons"`
	Categories      []string           `json:"categories"`
	Lang            string             `json:"lang"`
	Dir             string             `json:"dir"`
	Shortcuts       []manifestShortcut `json:"shortcuts"`
}

func (a *App) manifest() webManifest {
	short := a.Config.Author
	if short == "" {
		short = a.Config.Name
	}
	description := a.Config.Description
	if description == "" {
		description = "Full-stack developer portfolio showcasing code and creative work"
	}
	return webManifest{
		Name:            a.Config.Name,
		ShortName:       short,
		Description:     description,
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: "#1e1e2e",
		ThemeColor:      "#f5c2e7",
		Orientation:     "portrait",
		Icons: []manifestIcon{
			{Src: "/icons/icon.png", Sizes: "1840x1840", Type: "image/png", Purpose: "any"},
			{Src: "/icons/icon-192.png", Sizes: "192x192", Type: "image/png", Purpose: "maskable"},
			{Src: "/icons/icon-512.png", Sizes: "512x512", Type: "image/png", Purpose: "maskable"},
		},
		Categories: []string{"portfolio", "development", "blog"},
		Lang:       "en-US",
		Dir:        "ltr",
		Shortcuts: []manifestShortcut{{
			Name:        "Blog",
			ShortName:   "Blog",
			Description: "Read blog posts",
			URL:         "/blog/",
			Icons:       []manifestIcon{{Src: "/icons/blog.png", Sizes: "96x96"}},
		}},
	}
}

func (a *App) handleManifest(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/manifest+json; charset=utf-8")
	return c.JSON(http.StatusOK, a.manifest())
}
