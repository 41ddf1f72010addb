package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Theme selection is an explicit per-request value carried in a cookie.
// Handlers read it from the request; no server-side session state exists.

const themeCookie = "theme"
const defaultTheme = "futurist"

// Theme is the rendering palette handed to the frontend.
type Theme struct {
	Name         string   `json:"name"`
	Bg           string   `json:"bg"`
	Text         string   `json:"text"`
	Accent       string   `json:"accent"`
	ChartPalette []string `json:"chart_palette"`
}

var themes = map[string]Theme{
	"dark": {
		Name:         "dark",
		Bg:           "bg-gray-900",
		Text:         "text-gray-100",
		Accent:       "text-blue-400",
		ChartPalette: []string{"#3b82f6", "#22d3ee", "#a855f7", "#f97316", "#14b8a6", "#facc15"},
	},
	"light": {
		Name:         "light",
		Bg:           "bg-gray-50",
		Text:         "text-gray-900",
		Accent:       "text-blue-600",
		ChartPalette: []string{"#2563eb", "#0891b2", "#7c3aed", "#ea580c", "#0d9488", "#ca8a04"},
	},
	"futurist": {
		Name:         "futurist",
		Bg:           "bg-slate-950",
		Text:         "text-slate-100",
		Accent:       "text-cyan-400",
		ChartPalette: []string{"#06b6d4", "#8b5cf6", "#f43f5e", "#10b981", "#f59e0b", "#3b82f6"},
	},
}

func themeByName(name string) Theme {
	if theme, ok := themes[name]; ok {
		return theme
	}
	return themes[defaultTheme]
}

func getThemeHandler(c *gin.Context) {
	name, err := c.Cookie(themeCookie)
	if err != nil {
		name = defaultTheme
	}
	c.JSON(http.StatusOK, themeByName(name))
}

func setThemeHandler(c *gin.Context) {
	var req struct {
		Theme string `json:"theme"`
	}
	_ = c.ShouldBindJSON(&req)
	name := strings.TrimSpace(req.Theme)
	if name == "" {
		name = defaultTheme
	}
	theme := themeByName(name)
	c.SetCookie(themeCookie, theme.Name, 3600*24*365, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Tema atualizado com sucesso.", "theme": theme})
}
