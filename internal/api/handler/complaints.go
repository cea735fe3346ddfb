package handler

import (
	"hostelcare/portal/internal/complaint"
	"hostelcare/portal/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListAllComplaints(c *gin.Context) {
	list, err := h.Storage.ListComplaints(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, nonNil(list))
}

func (h *Handler) ListMyComplaints(c *gin.Context) {
	list, err := h.Storage.ListComplaintsForStudent(c.Request.Context(), claimsFrom(c).Subject)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"complaints": nonNil(list)})
}

func (h *Handler) AdminTimeline(c *gin.Context) {
	claims := claimsFrom(c)
	_, entries, err := h.Lifecycle.Timeline(c.Request.Context(), claims.Role, claims.Subject, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, entries)
}

func (h *Handler) StudentTimeline(c *gin.Context) {
	claims := claimsFrom(c)
	cmp, entries, err := h.Lifecycle.Timeline(c.Request.Context(), claims.Role, claims.Subject, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"timeline": entries, "currentAssignedTo": cmp.AssignedTo})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var upd models.StatusUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmp, err := h.Lifecycle.UpdateStatus(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated to " + string(cmp.CurrentStatus), "data": cmp})
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	var fb models.Feedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmp, err := h.Lifecycle.SubmitFeedback(c.Request.Context(), claimsFrom(c).Subject, c.Param("id"), fb)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Feedback submitted", "data": cmp})
}

func (h *Handler) CreateComplaint(c *gin.Context) {
	var nc models.NewComplaint
	if err := c.ShouldBindJSON(&nc); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	nc, err := complaint.ValidateNewComplaint(nc)
	if err != nil {
		respondError(c, err)
		return
	}

	claims := claimsFrom(c)
	student := models.StudentRef{ID: claims.Subject, Name: claims.Name, RollNumber: claims.RollNumber}
	if st, err := h.Storage.GetStudentByID(c.Request.Context(), claims.Subject); err == nil && st != nil {
		student = st.Ref()
	}

	cmp, err := h.Lifecycle.Create(c.Request.Context(), student, nc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Complaint submitted successfully", "data": cmp})
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
