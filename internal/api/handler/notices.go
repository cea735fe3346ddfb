package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.Storage.ListMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"members": nonNil(members)})
}

func (h *Handler) StudentCount(c *gin.Context) {
	n, err := h.Storage.CountStudents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"count": n})
}

func (h *Handler) ListAnnouncements(c *gin.Context) {
	list, err := h.Storage.ListAnnouncements(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, nonNil(list))
}

func (h *Handler) ListPolls(c *gin.Context) {
	list, err := h.Storage.ListPolls(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, nonNil(list))
}

func (h *Handler) UnreadNotifications(c *gin.Context) {
	list, err := h.Storage.ListUnreadNotifications(c.Request.Context(), recipient(claimsFrom(c)))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, nonNil(list))
}

// UnreadCount answers {success, count} rather than the data envelope.
func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.Storage.CountUnreadNotifications(c.Request.Context(), recipient(claimsFrom(c)))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": n})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	err := h.Storage.MarkNotificationRead(c.Request.Context(), recipient(claimsFrom(c)), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked as read"})
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.Storage.MarkAllNotificationsRead(c.Request.Context(), recipient(claimsFrom(c))); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All notifications marked as read"})
}
