// Package rest holds the small route/middleware value types kzero's HTTP
// surfaces are built from, so a gin engine is always assembled by walking
// a declared route list rather than calling router.GET inline at startup.
package rest

import "github.com/gin-gonic/gin"

type HTTPMethod int

const (
	GET HTTPMethod = iota
	POST
	PUT
	PATCH
)

type Route struct {
	Method      HTTPMethod
	Group       string
	Path        string
	HandlerFunc gin.HandlerFunc
}

func NewRoute(method HTTPMethod, group, path string, handler gin.HandlerFunc) Route {
	return Route{Method: method, Group: group, Path: path, HandlerFunc: handler}
}

// Middleware pairs a gin.HandlerFunc with the route group it guards.
// Group "*" applies to every request, mirroring the teacher's
// AddGinMiddleware("*", ...) convention for its CORS handler.
type Middleware struct {
	Handler gin.HandlerFunc
	Group   string
}

func NewMiddleware(group string, handler gin.HandlerFunc) Middleware {
	return Middleware{Group: group, Handler: handler}
}

// Mount registers every route onto engine, grouping by Route.Group the
// way the teacher's app builder does, and applies middlewares to their
// named group before any route handler runs.
func Mount(engine *gin.Engine, routes []Route, middlewares []Middleware) {
	for _, m := range middlewares {
		if m.Group == "*" {
			engine.Use(m.Handler)
		}
	}

	groups := map[string]*gin.RouterGroup{}
	groupFor := func(name string) *gin.RouterGroup {
		if group, ok := groups[name]; ok {
			return group
		}

		var group *gin.RouterGroup
		if name == "" {
			group = &engine.RouterGroup
		} else {
			group = engine.Group("/" + name)
		}
		for _, m := range middlewares {
			if m.Group == name {
				group.Use(m.Handler)
			}
		}
		groups[name] = group
		return group
	}

	for _, r := range routes {
		group := groupFor(r.Group)
		switch r.Method {
		case GET:
			group.GET(r.Path, r.HandlerFunc)
		case POST:
			group.POST(r.Path, r.HandlerFunc)
		case PUT:
			group.PUT(r.Path, r.HandlerFunc)
		case PATCH:
			group.PATCH(r.Path, r.HandlerFunc)
		}
	}
}
