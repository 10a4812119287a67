package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centerdesk/session-scheduler-api/pkg/database"
	"github.com/centerdesk/session-scheduler-api/pkg/models"
)

// GetShifts returns the weekly mentor-shift table.
func (h *Handler) GetShifts(c *gin.Context) {
	shifts, err := database.LoadShifts(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch shifts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

// PutShifts replaces the weekly mentor-shift table wholesale. The screens
// always submit the full week, so a replace keeps ordering deterministic.
func (h *Handler) PutShifts(c *gin.Context) {
	var shifts models.WeeklyShifts
	if err := c.ShouldBindJSON(&shifts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, d := range models.Weekdays {
		for _, m := range shifts[d] {
			if m.Name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "shift on " + d.String() + " is missing a mentor name"})
				return
			}
		}
	}

	if err := database.ReplaceShifts(h.DB, shifts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save shifts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

// GetSetting returns the JSON value stored under a key.
func (h *Handler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	var value json.RawMessage
	found, err := database.GetSetting(h.DB, key, &value)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch setting"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// PutSetting stores an arbitrary JSON value under a key.
func (h *Handler) PutSetting(c *gin.Context) {
	key := c.Param("key")
	var value json.RawMessage
	if err := c.ShouldBindJSON(&value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.PutSetting(h.DB, key, value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save setting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// ListConsultings returns a student's consulting log, newest first.
func (h *Handler) ListConsultings(c *gin.Context) {
	var rows []database.ConsultingRecord
	query := h.DB.Order("consult_date desc")
	if id := c.Query("student_id"); id != "" {
		query = query.Where("student_id = ?", id)
	}
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch consultings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultings": rows})
}

// CreateConsulting logs one consulting session.
func (h *Handler) CreateConsulting(c *gin.Context) {
	var req struct {
		StudentID   string `json:"student_id"`
		ConsultDate string `json:"consult_date"`
		Note        string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.StudentID == "" || req.ConsultDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_id and consult_date are required"})
		return
	}
	if err := h.DB.First(&database.StudentRecord{}, "id = ?", req.StudentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	row := database.ConsultingRecord{
		StudentID:   req.StudentID,
		ConsultDate: req.ConsultDate,
		Note:        req.Note,
	}
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create consulting record"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

// DeleteConsulting removes one consulting log entry.
func (h *Handler) DeleteConsulting(c *gin.Context) {
	if err := h.DB.Delete(&database.ConsultingRecord{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete consulting record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Consulting record deleted"})
}
