package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dataset routes never 404 on an unknown project: the provider answers with
// empty lists.

func (h *Handler) contacts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "contacts": h.data.Contacts(c.Param("id"))})
}

func (h *Handler) questions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "questions": h.data.Questions(c.Param("id"))})
}

func (h *Handler) responses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "responses": h.data.Responses(c.Param("id"))})
}
