package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/centerdesk/session-scheduler-api/pkg/database"
	"github.com/centerdesk/session-scheduler-api/pkg/models"
)

// studentRequest is the editable subset of a roster row.
type studentRequest struct {
	Name        string `json:"name"`
	Seat        string `json:"seat"`
	BirthYear   int    `json:"birth_year"`
	Personality string `json:"personality"`

	Korean    string `json:"korean"`
	Math      string `json:"math"`
	Elective1 string `json:"elective1"`
	Elective2 string `json:"elective2"`

	FixedMentor    string `json:"fixed_mentor"`
	BannedMentor1  string `json:"banned_mentor1"`
	BannedMentor2  string `json:"banned_mentor2"`
	SelectedMentor string `json:"selected_mentor"`

	WeeklySessions   int    `json:"weekly_sessions"`
	CareInterested   bool   `json:"care_interested"`
	CareFrequency    string `json:"care_frequency"`
	InterviewWilling bool   `json:"interview_willing"`
}

func (r studentRequest) apply(rec *database.StudentRecord) {
	rec.Name = r.Name
	rec.Seat = r.Seat
	rec.BirthYear = r.BirthYear
	rec.Personality = r.Personality
	rec.Korean = r.Korean
	rec.Math = r.Math
	rec.Elective1 = r.Elective1
	rec.Elective2 = r.Elective2
	rec.FixedMentor = r.FixedMentor
	rec.BannedMentor1 = r.BannedMentor1
	rec.BannedMentor2 = r.BannedMentor2
	rec.SelectedMentor = r.SelectedMentor
	rec.WeeklySessions = models.ClampWeeklySessions(r.WeeklySessions)
	rec.CareInterested = r.CareInterested
	rec.CareFrequency = r.CareFrequency
	rec.InterviewWilling = r.InterviewWilling
}

// ListStudents returns the roster in creation order.
func (h *Handler) ListStudents(c *gin.Context) {
	var records []database.StudentRecord
	if err := h.DB.Order("created_at").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch students"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": records})
}

// GetStudent returns one roster row with attendance joined in.
func (h *Handler) GetStudent(c *gin.Context) {
	var record database.StudentRecord
	if err := h.DB.First(&record, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var att []database.AttendanceRecord
	h.DB.Where("student_id = ?", record.ID).Find(&att)
	c.JSON(http.StatusOK, record.ToModel(att))
}

// CreateStudent adds a roster row. The id is server-assigned.
func (h *Handler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	record := database.StudentRecord{ID: uuid.NewString()}
	req.apply(&record)
	if err := h.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create student"})
		return
	}
	c.JSON(http.StatusCreated, record)
}

// UpdateStudent replaces the editable fields of a roster row.
func (h *Handler) UpdateStudent(c *gin.Context) {
	var record database.StudentRecord
	if err := h.DB.First(&record, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.apply(&record)
	if err := h.DB.Save(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update student"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteStudent removes a roster row and its dependent records.
func (h *Handler) DeleteStudent(c *gin.Context) {
	id := c.Param("id")
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&database.AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&database.MentorAssignmentRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&database.ConsultingRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&database.StudentRecord{}, "id = ?", id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete student"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}

// GetAttendance returns a student's weekly windows keyed by weekday.
func (h *Handler) GetAttendance(c *gin.Context) {
	id := c.Param("id")
	var record database.StudentRecord
	if err := h.DB.First(&record, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var att []database.AttendanceRecord
	h.DB.Where("student_id = ?", id).Find(&att)
	c.JSON(http.StatusOK, gin.H{"student_id": id, "attendance": record.ToModel(att).Attendance})
}

// PutAttendance replaces a student's weekly windows. The body accepts the
// legacy day shapes, a two-element array, a "start~end" string, or null.
func (h *Handler) PutAttendance(c *gin.Context) {
	id := c.Param("id")
	if err := h.DB.First(&database.StudentRecord{}, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch student"})
		return
	}

	var att models.Attendance
	if err := c.ShouldBindJSON(&att); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.SaveAttendance(h.DB, id, att); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save attendance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"student_id": id, "attendance": att.Normalize()})
}
