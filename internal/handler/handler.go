package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/maxviazov/shelf-trivia-service/internal/repository"
	"github.com/maxviazov/shelf-trivia-service/internal/service"
	"github.com/maxviazov/shelf-trivia-service/pkg/response"
)

// Register mounts all public routes on the given engine.
// Resource routes live at the root, where the shelf and trivia frontends expect them.
func Register(r *gin.Engine, repo Pinger, bookSvc service.BookService, triviaSvc service.TriviaService) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
	}

	root := r.Group("")
	NewBookHandler(bookSvc).Register(root)
	NewTriviaHandler(triviaSvc).Register(root)

	r.NoRoute(func(c *gin.Context) { response.WriteError(c, repository.ErrNotFound) })
	r.NoMethod(func(c *gin.Context) { response.WriteError(c, response.ErrMethodNotAllowed) })
}
