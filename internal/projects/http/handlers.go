package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/service"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/views"
)

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.svc.Create(c.Request.Context(), domain.CreateInput{Name: req.Name, Description: req.Description})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, withWarning(gin.H{"ok": true, "project": res.Project}, res.Warning))
}

// list supports ?status=all (default), active (everything not archived),
// archived, draft and completed.
func (h *Handler) list(c *gin.Context) {
	items := h.svc.List()

	switch filter := strings.ToLower(strings.TrimSpace(c.Query("status"))); filter {
	case "", "all":
	case "active":
		items = views.NonArchived(items)
	case "archived":
		items = views.Archived(items)
	case string(domain.StatusDraft), string(domain.StatusCompleted):
		items = views.ByStatus(items, domain.Status(filter))
	default:
		h.fail(c, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, filter))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) summary(c *gin.Context) {
	items := h.svc.List()
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"summary": views.Summarize(items),
		"recent":  views.Recent(items, 5),
	})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.svc.Update(c.Request.Context(), c.Param("id"), service.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Progress:    req.Progress,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, withWarning(gin.H{"ok": true, "project": res.Project}, res.Warning))
}

func (h *Handler) archive(c *gin.Context) {
	res, err := h.svc.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, withWarning(gin.H{"ok": true, "project": res.Project}, res.Warning))
}

func (h *Handler) duplicate(c *gin.Context) {
	res, err := h.svc.Duplicate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, withWarning(gin.H{"ok": true, "project": res.Project}, res.Warning))
}

func (h *Handler) delete(c *gin.Context) {
	warning, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, withWarning(gin.H{"ok": true}, warning))
}

func (h *Handler) steps(c *gin.Context) {
	steps, err := h.svc.Steps(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "steps": steps})
}

func (h *Handler) completeStep(c *gin.Context) {
	res, err := h.svc.CompleteStep(c.Request.Context(), c.Param("id"), c.Param("step"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, withWarning(gin.H{"ok": true, "project": res.Project}, res.Warning))
}
