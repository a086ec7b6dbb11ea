package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/scrollfolio/internal/config"
	"github.com/Zachkp/scrollfolio/internal/content"
	"github.com/Zachkp/scrollfolio/internal/scroll"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	doc, err := content.Default()
	require.NoError(t, err)

	cfg := config.Config{Port: "0", AdminUsername: "root", AdminPassword: "hunter2"}
	r, err := newRouter(cfg, doc, zerolog.Nop())
	require.NoError(t, err)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersSections(t *testing.T) {
	r := setupRouter(t)
	rec := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, id := range []string{"about", "experience", "skills", "projects", "contact"} {
		assert.Contains(t, body, `id="`+id+`"`)
		assert.Contains(t, body, `data-nav="`+id+`"`)
	}
	assert.Contains(t, body, "<strong>Muay Thai</strong>")
	assert.Contains(t, body, `href="mailto:zachkordaspotter@gmail.com"`)
	assert.Contains(t, body, `rel="noopener noreferrer"`)
	assert.Contains(t, body, "/static/scroll.js")
	assert.Equal(t, 1, strings.Count(body, `aria-current="true"`))
}

func TestNavFragment(t *testing.T) {
	r := setupRouter(t)

	rec := do(r, httptest.NewRequest(http.MethodGet, "/nav?active=skills", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, `aria-current="true"`))
	assert.Regexp(t, `data-nav="skills"\s+class="[^"]*"\s+aria-current="true"`, body)

	// unknown ids fall back to the first section
	rec = do(r, httptest.NewRequest(http.MethodGet, "/nav?active=blog", nil))
	assert.Regexp(t, `data-nav="about"\s+class="[^"]*"\s+aria-current="true"`, rec.Body.String())
}

func TestNavItems(t *testing.T) {
	sections := []scroll.Section{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}
	assert.Equal(t, []navItem{{ID: "a", Title: "A"}, {ID: "b", Title: "B", Active: true}}, navItems(sections, "b"))
	assert.Equal(t, []navItem{{ID: "a", Title: "A", Active: true}, {ID: "b", Title: "B"}}, navItems(sections, ""))
	assert.Empty(t, navItems(nil, "a"))
}

func TestSectionsAPI(t *testing.T) {
	r := setupRouter(t)
	rec := do(r, httptest.NewRequest(http.MethodGet, "/api/sections", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var sections []scroll.Section
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sections))
	require.Len(t, sections, 5)
	assert.Equal(t, scroll.Section{ID: "about", Title: "About"}, sections[0])
}

func TestHealthAndStatic(t *testing.T) {
	r := setupRouter(t)
	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)

	rec := do(r, httptest.NewRequest(http.MethodGet, "/static/scroll.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/ws/scroll")
}

func TestAdminMetricsRequireLogin(t *testing.T) {
	r := setupRouter(t)

	rec := do(r, httptest.NewRequest(http.MethodGet, "/admin/metrics", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	bad := url.Values{"username": {"root"}, "password": {"nope"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(bad.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")

	good := url.Values{"username": {"root"}, "password": {"hunter2"}}
	req = httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(good.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = do(r, req)
	require.Equal(t, http.StatusFound, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// a page view first, so the counter shows up
	do(r, httptest.NewRequest(http.MethodGet, "/", nil))

	req = httptest.NewRequest(http.MethodGet, "/admin/metrics", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = do(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `scrollfolio_page_views_total{path="/"} 1`)
}

func TestPageViewsHonorDNT(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("DNT", "1")
	do(r, req)
	do(r, httptest.NewRequest(http.MethodGet, "/static/scroll.js", nil))

	a := url.Values{"username": {"root"}, "password": {"hunter2"}}
	login := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(a.Encode()))
	login.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	cookies := do(r, login).Result().Cookies()

	req = httptest.NewRequest(http.MethodGet, "/admin/metrics", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	body := do(r, req).Body.String()
	assert.NotContains(t, body, `scrollfolio_page_views_total{path="/"}`)
	assert.NotContains(t, body, `path="/static/*filepath"`)
}

func TestValidateCommand(t *testing.T) {
	cmd := newRootCmd(config.Config{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "content ok: 5 sections")

	cmd = newRootCmd(config.Config{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"validate", "/does/not/exist.yaml"})
	assert.Error(t, cmd.Execute())
}

func TestSectionsVisibleWithoutLiveSession(t *testing.T) {
	r := setupRouter(t)
	body := do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	assert.Contains(t, body, ".scroll-live .section { opacity: 0;")
	assert.NotRegexp(t, `(?m)^\s*\.section\s*\{[^}]*opacity:\s*0`, body)

	script := do(r, httptest.NewRequest(http.MethodGet, "/static/scroll.js", nil)).Body.String()
	assert.Contains(t, script, "addEventListener('close'")
	assert.Contains(t, script, "scroll-live")
}

func TestFragmentsAreNotPageViews(t *testing.T) {
	r := setupRouter(t)

	nav := httptest.NewRequest(http.MethodGet, "/nav?active=skills", nil)
	nav.Header.Set("HX-Request", "true")
	require.Equal(t, http.StatusOK, do(r, nav).Code)
	require.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/nav", nil)).Code)
	require.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/api/sections", nil)).Code)

	a := url.Values{"username": {"root"}, "password": {"hunter2"}}
	login := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(a.Encode()))
	login.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	cookies := do(r, login).Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/admin/metrics", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	body := do(r, req).Body.String()
	assert.NotContains(t, body, `path="/nav"`)
	assert.NotContains(t, body, `path="/api/sections"`)
}

func TestCustomSectionRendersBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	doc, err := content.Parse([]byte(`
site: {title: Test}
sections:
  - {id: about, title: About}
  - {id: talks, title: Talks}
about: [Hi.]
bodies:
  talks: "Spoke at **GopherCon**."
`))
	require.NoError(t, err)

	r, err := newRouter(config.Config{Port: "0"}, doc, zerolog.Nop())
	require.NoError(t, err)

	body := do(r, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	assert.Contains(t, body, `id="talks"`)
	assert.Contains(t, body, `data-nav="talks"`)
	assert.Contains(t, body, "<strong>GopherCon</strong>")
}
