package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/pageza/cookbook/internal/service"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PageTemplates parses the embedded HTML templates. The server installs
// them on the gin engine at startup; tests do the same.
func PageTemplates() *template.Template {
	return template.Must(template.New("").
		Funcs(template.FuncMap{"amount": formatAmount}).
		ParseFS(templateFS, "templates/*.tmpl"))
}

// formatAmount renders an optional ingredient amount without trailing
// zeros: 2 -> "2", 0.25 -> "0.25", nil -> "".
func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return humanize.Ftoa(*v)
}

// PagesHandler serves the public HTML pages.
type PagesHandler struct {
	recipes  service.IRecipeService
	useCache bool
}

func NewPagesHandler(recipes service.IRecipeService, useCache bool) *PagesHandler {
	return &PagesHandler{recipes: recipes, useCache: useCache}
}

// RecipesPage renders the whole catalog as a single page: every recipe
// with its ingredient lines and instructions.
func (h *PagesHandler) RecipesPage(c *gin.Context) {
	recipes, err := h.recipes.ListRecipes(c.Request.Context(), h.useCache)
	if err != nil {
		c.String(http.StatusInternalServerError, "could not load recipes")
		return
	}
	c.HTML(http.StatusOK, "recipes.html.tmpl", gin.H{"recipes": recipes})
}
