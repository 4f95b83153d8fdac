package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) selectProject(c *gin.Context) {
	id := c.Param("id")
	sel, ok := h.sessions.Lookup(c.GetString(sessionKey))
	if !ok {
		// unknown projects do not allocate a selector for a new session
		if _, err := h.svc.Get(id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found", "current": nil})
			return
		}
		sel = h.selector(c)
	}

	p, ok := sel.Select(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found", "current": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "current": p})
}

// current returns the session's selected project, or null when none is
// selected or it no longer exists.
func (h *Handler) current(c *gin.Context) {
	sel, ok := h.sessions.Lookup(c.GetString(sessionKey))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": true, "current": nil})
		return
	}
	p, ok := sel.Current()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": true, "current": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "current": p})
}

func (h *Handler) clearCurrent(c *gin.Context) {
	if sel, ok := h.sessions.Lookup(c.GetString(sessionKey)); ok {
		sel.Clear()
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "current": nil})
}
