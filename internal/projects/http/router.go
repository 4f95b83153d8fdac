package http

import (
	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/hydration"
)

// Register attaches project and selection routes to the given router group.
// Every route waits for hydration; mutating routes additionally run the
// supplied middleware (rate limiting in production).
func (h *Handler) Register(rg *gin.RouterGroup, gate *hydration.Gate, mutating ...gin.HandlerFunc) {
	rg.Use(RequireHydrated(gate), Session())

	projects := rg.Group("/projects")
	projects.GET("", h.list)
	projects.GET("/summary", h.summary)
	projects.GET("/:id", h.get)
	projects.GET("/:id/steps", h.steps)
	projects.GET("/:id/contacts", h.contacts)
	projects.GET("/:id/questions", h.questions)
	projects.GET("/:id/responses", h.responses)
	projects.PUT("/:id/select", h.selectProject)

	writes := projects.Group("", mutating...)
	writes.POST("", h.create)
	writes.PATCH("/:id", h.update)
	writes.POST("/:id/archive", h.archive)
	writes.POST("/:id/duplicate", h.duplicate)
	writes.POST("/:id/steps/:step", h.completeStep)
	writes.DELETE("/:id", h.delete)

	rg.GET("/current", h.current)
	rg.DELETE("/current", h.clearCurrent)
}
