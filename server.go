package main

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Zachkp/scrollfolio/internal/config"
	"github.com/Zachkp/scrollfolio/internal/content"
	"github.com/Zachkp/scrollfolio/internal/live"
	"github.com/Zachkp/scrollfolio/internal/metrics"
	"github.com/Zachkp/scrollfolio/internal/scroll"
)

// navItem is one entry of the fixed header navigation.
type navItem struct {
	ID     string
	Title  string
	Active bool
}

// navItems marks exactly one section active. Unknown ids fall back to the
// first section, matching the tracker's initial state.
func navItems(sections []scroll.Section, active string) []navItem {
	known := false
	for _, s := range sections {
		if s.ID == active {
			known = true
			break
		}
	}
	if !known && len(sections) > 0 {
		active = sections[0].ID
	}
	items := make([]navItem, len(sections))
	for i, s := range sections {
		items[i] = navItem{ID: s.ID, Title: s.Title, Active: s.ID == active}
	}
	return items
}

type pageData struct {
	Doc    *content.Document
	Nav    []navItem
	About  []template.HTML
	Bodies map[string]template.HTML
	MailTo string
}

func newRouter(cfg config.Config, doc *content.Document, log zerolog.Logger) (*gin.Engine, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	md := content.NewMarkdown()
	about, err := md.RenderAll(doc.About)
	if err != nil {
		return nil, err
	}
	bodies := make(map[string]template.HTML, len(doc.Bodies))
	for id, src := range doc.Bodies {
		if bodies[id], err = md.Render(src); err != nil {
			return nil, err
		}
	}

	m := metrics.NewRegistry()
	liveHandler, err := live.NewHandler(doc.Sections, cfg.ScrollThrottle, m, log)
	if err != nil {
		return nil, err
	}
	admin, err := newAdminAuth(cfg, log)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log), pageViewMiddleware(m))
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", staticFiles())

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", pageData{
			Doc:    doc,
			Nav:    navItems(doc.Sections, ""),
			About:  about,
			Bodies: bodies,
			MailTo: doc.MailTo(),
		})
	})

	// HTMX navigation fragment, swapped in when the active section changes
	r.GET("/nav", func(c *gin.Context) {
		c.HTML(http.StatusOK, "nav", navItems(doc.Sections, c.Query("active")))
	})

	r.GET("/api/sections", func(c *gin.Context) {
		c.JSON(http.StatusOK, doc.Sections)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws/scroll", liveHandler.Serve)

	setupAdminRoutes(r, admin, m)
	return r, nil
}
