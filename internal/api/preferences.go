package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recetario/internal/localstore"
	"github.com/pageza/recetario/internal/model"
	"github.com/pageza/recetario/internal/service"
)

// ThemeToggle flips the theme between light and dark.
const ThemeToggle = "toggle"

func (h *Handler) GetPreferences(c *gin.Context) {
	ctx := c.Request.Context()
	prefs := h.session.Preferences()
	theme, err := prefs.Theme(ctx)
	if err != nil {
		c.Error(&service.StoreError{Op: "read theme", Err: err})
		return
	}
	font, err := prefs.FontSize(ctx)
	if err != nil {
		c.Error(&service.StoreError{Op: "read font size", Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme, "fontSize": font})
}

// UpdatePreferences sets the theme ("light", "dark" or "toggle") and the
// font size. Empty fields are left unchanged.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(&service.ValidationError{Field: "body", Message: err.Error()})
		return
	}
	ctx := c.Request.Context()
	prefs := h.session.Preferences()

	var font model.FontSize
	if req.FontSize != "" {
		f, ok := model.ParseFontSize(req.FontSize)
		if !ok {
			c.Error(&service.ValidationError{Field: "fontSize", Message: "unknown font size"})
			return
		}
		font = f
	}

	var err error
	switch theme := localstore.Theme(req.Theme); theme {
	case "":
	case ThemeToggle:
		_, err = prefs.ToggleTheme(ctx)
	case localstore.ThemeLight, localstore.ThemeDark:
		err = prefs.SetTheme(ctx, theme)
	default:
		c.Error(&service.ValidationError{Field: "theme", Message: "unknown theme"})
		return
	}
	if err != nil {
		c.Error(&service.StoreError{Op: "save theme", Err: err})
		return
	}
	if font != "" {
		if err := prefs.SetFontSize(ctx, font); err != nil {
			c.Error(&service.StoreError{Op: "save font size", Err: err})
			return
		}
	}
	h.GetPreferences(c)
}
