package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestMountAppliesWildcardMiddlewareToEveryGroup(t *testing.T) {
	engine := newTestEngine()
	var seen []string

	routes := []Route{
		NewRoute(GET, "", "/healthz", ok),
		NewRoute(GET, "v1", "/jobs/:id", ok),
	}
	middlewares := []Middleware{
		NewMiddleware("*", func(c *gin.Context) {
			seen = append(seen, c.Request.URL.Path)
			c.Next()
		}),
	}

	Mount(engine, routes, middlewares)

	for _, path := range []string{"/healthz", "/v1/jobs/abc"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.ElementsMatch(t, []string{"/healthz", "/v1/jobs/abc"}, seen)
}

func TestMountAppliesGroupScopedMiddlewareOnlyToItsGroup(t *testing.T) {
	engine := newTestEngine()

	routes := []Route{
		NewRoute(GET, "", "/healthz", ok),
		NewRoute(GET, "v1", "/jobs/:id", ok),
	}
	middlewares := []Middleware{
		NewMiddleware("v1", func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		}),
	}

	Mount(engine, routes, middlewares)

	healthzRec := httptest.NewRecorder()
	engine.ServeHTTP(healthzRec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, healthzRec.Code)

	jobsRec := httptest.NewRecorder()
	engine.ServeHTTP(jobsRec, httptest.NewRequest(http.MethodGet, "/v1/jobs/abc", nil))
	assert.Equal(t, http.StatusUnauthorized, jobsRec.Code)
}
