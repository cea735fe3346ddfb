// Package handler serves the hostel complaints REST API for local development.
package handler

import (
	"errors"
	"hostelcare/portal/internal/events"
	"hostelcare/portal/internal/lifecycle"
	"hostelcare/portal/internal/models"
	"hostelcare/portal/internal/roster"
	"hostelcare/portal/internal/storage"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler holds the backend's collaborators.
type Handler struct {
	Storage   storage.Storage
	Lifecycle *lifecycle.Service
	Roster    *roster.Service
	Hub       *events.Hub
	Secret    []byte
}

func NewHandler(s storage.Storage, svc *lifecycle.Service, hub *events.Hub, secret string) *Handler {
	return &Handler{Storage: s, Lifecycle: svc, Roster: roster.NewService(s), Hub: hub, Secret: []byte(secret)}
}

// Register mounts every route on r.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/auth/dev-token", h.DevToken)

	api := r.Group("/api", h.AuthRequired())
	admin := RequireRole(models.RoleAdmin)
	student := RequireRole(models.RoleStudent)

	api.GET("/complaints/admin/all", admin, h.ListAllComplaints)
	api.GET("/complaints/admin/:id/timeline", admin, h.AdminTimeline)
	api.PUT("/complaints/admin/:id/status", admin, h.UpdateStatus)
	api.GET("/complaints/my", student, h.ListMyComplaints)
	api.POST("/complaints", student, h.CreateComplaint)
	api.GET("/complaints/:id/timeline", student, h.StudentTimeline)
	api.POST("/complaints/:id/feedback", student, h.SubmitFeedback)

	api.GET("/admin/members", admin, h.ListMembers)
	api.GET("/admin/students/count", admin, h.StudentCount)
	api.GET("/admin/students/temp-summary", admin, h.TempStudents)
	api.GET("/admin/students", admin, h.ListStudents)
	api.POST("/admin/students", admin, h.AddStudent)
	api.PUT("/admin/students/:id", admin, h.UpdateStudent)
	api.DELETE("/admin/students/:id", admin, h.DeleteStudent)
	api.GET("/announcements", h.ListAnnouncements)
	api.GET("/announcements/admin/all", admin, h.ListAnnouncements)
	api.POST("/announcements", admin, h.PostAnnouncement)
	api.DELETE("/announcements/:id", admin, h.DeleteAnnouncement)
	api.GET("/polls/admin/all", admin, h.ListPolls)

	api.GET("/notifications/unread", h.UnreadNotifications)
	api.GET("/notifications/count", h.UnreadCount)
	api.PATCH("/notifications/read-all", h.MarkAllNotificationsRead)
	api.DELETE("/notifications/:id", h.MarkNotificationRead)

	r.GET("/ws/events", h.AuthRequired(), h.ServeWebSocket)
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var ve models.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, validationMessage(ve))
	case errors.Is(err, models.ErrNotFound):
		fail(c, http.StatusNotFound, "Complaint not found")
	case errors.Is(err, roster.ErrStudentNotFound):
		fail(c, http.StatusNotFound, "Student not found")
	case errors.Is(err, roster.ErrAnnouncementNotFound):
		fail(c, http.StatusNotFound, "Announcement not found")
	case errors.Is(err, roster.ErrDuplicateRoll):
		fail(c, http.StatusConflict, "Student with this roll number already exists")
	case errors.Is(err, lifecycle.ErrForbidden):
		fail(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, models.ErrLocked):
		fail(c, http.StatusConflict, "Complaint is locked for updates")
	case errors.Is(err, models.ErrInvalidState):
		fail(c, http.StatusConflict, "Feedback can only be given once, after the complaint is resolved")
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func validationMessage(ve models.ValidationError) string {
	fields := make([]string, 0, len(ve))
	for f := range ve {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, ve[f])
	}
	return strings.Join(msgs, "; ")
}
