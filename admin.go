// admin.go - privacy-conscious admin access and page-view counting
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Zachkp/scrollfolio/internal/config"
	"github.com/Zachkp/scrollfolio/internal/metrics"
)

const adminCookie = "admin_token"

type adminAuth struct {
	token    string
	salt     string
	username string
	password string
	log      zerolog.Logger
}

// newAdminAuth creates a per-process session token and IP hashing salt.
func newAdminAuth(cfg config.Config, log zerolog.Logger) (*adminAuth, error) {
	token, err := generateAdminToken()
	if err != nil {
		return nil, err
	}
	salt, err := generateAdminToken()
	if err != nil {
		return nil, err
	}
	a := &adminAuth{
		token:    token,
		salt:     salt,
		username: cfg.AdminUsername,
		password: cfg.AdminPassword,
		log:      log.With().Str("component", "admin").Logger(),
	}

	// Default credentials for development only
	if a.username == "" {
		a.username = "admin"
		if gin.Mode() == gin.DebugMode {
			a.log.Warn().Msg("using default admin username, set ADMIN_USERNAME")
		}
	}
	if a.password == "" {
		a.password = "admin123"
		if gin.Mode() == gin.DebugMode {
			a.log.Warn().Msg("using default admin password, set ADMIN_PASSWORD")
		}
	}
	return a, nil
}

func generateAdminToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// hashIP keeps client addresses out of the logs while staying stable per IP.
func (a *adminAuth) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

// middleware rejects requests without the admin session cookie.
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// pageViewMiddleware counts page views. Static assets, admin pages, the
// scroll socket, JSON endpoints and HTMX fragment requests are skipped, and
// visitors sending DNT are never counted.
func pageViewMiddleware(m *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			c.GetHeader("HX-Request") == "true" ||
			path == "/nav" ||
			strings.HasPrefix(path, "/api/") ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/ws/") ||
			strings.HasPrefix(path, "/favicon") ||
			path == "/healthz" {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		c.Next()
		if route := c.FullPath(); route != "" && c.Writer.Status() < 400 {
			m.PageViews.WithLabelValues(route).Inc()
		}
	}
}

func setupAdminRoutes(r *gin.Engine, a *adminAuth, m *metrics.Registry) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if !a.checkCredentials(username, password) {
			a.log.Warn().Str("client", a.hashIP(c.ClientIP())).Msg("failed admin login attempt")
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		// Secure cookie (24 hours)
		c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", c.Request.TLS != nil, true)
		a.log.Info().Str("client", a.hashIP(c.ClientIP())).Msg("admin login successful")
		c.Redirect(http.StatusFound, "/admin/metrics")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", c.Request.TLS != nil, true)
		a.log.Info().Str("client", a.hashIP(c.ClientIP())).Msg("admin logout")
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(a.middleware())

	adminGroup.GET("/metrics", gin.WrapH(m.Handler()))
}
