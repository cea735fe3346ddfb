package handler

import (
	"hostelcare/portal/internal/models"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListStudents serves one page of the roster. Unparsable page or limit
// values fall back to the defaults.
func (h *Handler) ListStudents(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.Roster.List(c.Request.Context(), models.StudentFilter{
		Page:       page,
		Limit:      limit,
		Search:     c.Query("search"),
		Course:     c.Query("course"),
		Branch:     c.Query("branch"),
		RoomNumber: c.Query("roomNumber"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, result)
}

func (h *Handler) AddStudent(c *gin.Context) {
	var in models.StudentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, password, err := h.Roster.Add(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Student added successfully",
		"data":    gin.H{"student": st, "generatedPassword": password},
	})
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	var in models.StudentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := h.Roster.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Student updated successfully", "data": st})
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	if err := h.Roster.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Student deleted successfully"})
}

func (h *Handler) TempStudents(c *gin.Context) {
	list, err := h.Roster.TempSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, list)
}

func (h *Handler) PostAnnouncement(c *gin.Context) {
	var in models.AnnouncementInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	a, err := h.Roster.PostAnnouncement(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Announcement posted", "data": a})
}

func (h *Handler) DeleteAnnouncement(c *gin.Context) {
	if err := h.Roster.DeleteAnnouncement(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Announcement deleted"})
}
