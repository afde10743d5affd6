// Chat HTTP handlers.
//
//   - GET  /chat/rooms                 (rooms visible to the caller)
//   - POST /chat/rooms/:id/verify      (PIN attempt, lockout state machine)
//   - GET  /chat/rooms/:id/messages    (latest 100, chronological)
//   - POST /chat/rooms/:id/messages    (post)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VerifyPinRequest is the JSON payload for a PIN attempt.
type VerifyPinRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// PostMessageRequest is the JSON payload for posting a chat message.
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListRooms handles GET /chat/rooms. A USER's paired admin room is created
// here on first call.
func (h *Handlers) ListRooms(c *gin.Context) {
	rooms, err := h.chat.ListRooms(c.Request.Context(), identity(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": rooms, "total": len(rooms)})
}

// VerifyPin handles POST /chat/rooms/:id/verify.
func (h *Handlers) VerifyPin(c *gin.Context) {
	var req VerifyPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	room, err := h.chat.VerifyPin(c.Request.Context(), identity(c), c.Param("id"), req.Pin)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"verified": true, "room": room})
}

// ListMessages handles GET /chat/rooms/:id/messages.
func (h *Handlers) ListMessages(c *gin.Context) {
	msgs, err := h.chat.ListMessages(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": msgs, "total": len(msgs)})
}

// PostMessage handles POST /chat/rooms/:id/messages.
func (h *Handlers) PostMessage(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	msg, err := h.chat.PostMessage(c.Request.Context(), identity(c), c.Param("id"), req.Content)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, msg)
}
