package statusapi

import (
	"github.com/kzero-xyz/kzero-service/internal/proofstore"
	"github.com/kzero-xyz/kzero-service/pkg/rest"
)

// Routes declares the whole status surface as a flat route list, the
// way pkg-common/rest's app builder expects to receive it.
func Routes(store proofstore.Store) []rest.Route {
	h := NewHandler(store)
	return []rest.Route{
		rest.NewRoute(rest.GET, "", "/healthz", h.Healthz),
		rest.NewRoute(rest.GET, "v1", "/jobs/:id", h.JobStatus),
	}
}

// Middlewares declares the CORS/internal-auth pair this surface is
// served behind: CORS applies to every response, internal auth only
// to the v1 group so /healthz stays reachable by a liveness probe
// that doesn't carry the operator token.
func Middlewares(corsOrigin, internalToken string) []rest.Middleware {
	return []rest.Middleware{
		rest.NewMiddleware("*", CORSMiddleware(corsOrigin)),
		rest.NewMiddleware("v1", InternalAuthMiddleware(internalToken)),
	}
}
