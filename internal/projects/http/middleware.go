package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/hydration"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/selection"
)

const (
	SessionHeader = "X-Session-Id"
	sessionKey    = "session_id"

	maxSessionIDLen = 128
)

// RequireHydrated answers 503 until the store has been loaded, so clients
// can tell "still loading" apart from "no projects".
func RequireHydrated(gate *hydration.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate.Ready() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"ok": false, "state": "loading"})
			return
		}
		c.Next()
	}
}

// Session resolves the caller's session id from X-Session-Id, issuing a new
// one when absent or oversized, and echoes it back. Issuing an id does not
// allocate selection state; only selecting a project does.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := strings.TrimSpace(c.GetHeader(SessionHeader))
		if sid == "" || len(sid) > maxSessionIDLen {
			sid = uuid.NewString()
		}
		c.Set(sessionKey, sid)
		c.Writer.Header().Set(SessionHeader, sid)
		c.Next()
	}
}

// selector returns the session's selector, creating it. Read-only routes use
// h.sessions.Lookup instead.
func (h *Handler) selector(c *gin.Context) *selection.Selector {
	return h.sessions.For(c.GetString(sessionKey))
}
