// Package router wires HTTP handlers onto the gin engine.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by handlers that attach their own routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router groups all API routes under a common version prefix
type Router struct {
	engine     *gin.Engine
	apiPrefix  string
	registrars []RouteRegistrar
}

// NewRouter creates a Router mounting routes under /api/v1
func NewRouter(engine *gin.Engine) *Router {
	return &Router{engine: engine, apiPrefix: "/api/v1"}
}

// Register queues handlers for route registration
func (r *Router) Register(registrars ...RouteRegistrar) {
	r.registrars = append(r.registrars, registrars...)
}

// Setup attaches all registered routes to the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.apiPrefix)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}
