package handlers

import (
	"embed"
	"html/template"
	"net/url"

	"github.com/Keoroanthony/go-storefront/internal/models"
	"github.com/Keoroanthony/go-storefront/internal/reviews"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded pages. Pages are looked up by file name,
// e.g. "cart.html".
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"productURL": ProductURL,
		"stars":      reviews.Stars,
	}).ParseFS(templateFS, "templates/*.html"))
}

// ProductURL is the canonical path of p. Category and section must be loaded.
func ProductURL(p models.Product) string {
	if p.Category == nil || p.Category.Section == nil {
		return "/products"
	}
	return "/products/" + url.PathEscape(p.Category.Section.Slug) +
		"/" + url.PathEscape(p.Category.Slug) +
		"/" + url.PathEscape(p.Slug)
}
