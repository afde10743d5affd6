// Attachment and comment HTTP handlers.
//
//   - POST   /subtasks/:id/attachments          (upload base64 payload)
//   - GET    /subtasks/:id/attachments          (list)
//   - DELETE /attachments/:id                   (role-keyed delete)
//   - POST   /attachments/:id/comments          (comment)
//   - GET    /attachments/:id/comments          (thread)
//   - PUT    /comments/:id                      (edit, author match)
//   - DELETE /comments/:id                      (delete, author match)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmetrika/workflow-backend/internal/services"
)

// UploadAttachmentRequest is the JSON payload for attaching a file. FileURL
// carries the opaque base64 payload.
type UploadAttachmentRequest struct {
	FileName string `json:"file_name" binding:"required,min=1,max=255"`
	FileURL  string `json:"file_url" binding:"required"`
	FileSize int64  `json:"file_size" binding:"required,min=1"`
	FileType string `json:"file_type"`
}

// CommentRequest is the JSON payload for creating or editing a comment.
type CommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// UploadAttachment handles POST /subtasks/:id/attachments.
func (h *Handlers) UploadAttachment(c *gin.Context) {
	var req UploadAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	a, err := h.attachments.Upload(c.Request.Context(), identity(c), services.UploadInput{
		SubtaskID: c.Param("id"),
		FileName:  req.FileName,
		FileURL:   req.FileURL,
		FileSize:  req.FileSize,
		FileType:  req.FileType,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, a)
}

// ListAttachments handles GET /subtasks/:id/attachments.
func (h *Handlers) ListAttachments(c *gin.Context) {
	items, err := h.attachments.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// DeleteAttachment handles DELETE /attachments/:id.
func (h *Handlers) DeleteAttachment(c *gin.Context) {
	if err := h.attachments.Delete(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// CreateComment handles POST /attachments/:id/comments.
func (h *Handlers) CreateComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	cm, err := h.attachments.Comment(c.Request.Context(), identity(c), c.Param("id"), req.Comment)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, cm)
}

// ListComments handles GET /attachments/:id/comments.
func (h *Handlers) ListComments(c *gin.Context) {
	items, err := h.attachments.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// EditComment handles PUT /comments/:id.
func (h *Handlers) EditComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.attachments.EditComment(c.Request.Context(), identity(c), c.Param("id"), req.Comment); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// DeleteComment handles DELETE /comments/:id.
func (h *Handlers) DeleteComment(c *gin.Context) {
	if err := h.attachments.DeleteComment(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
