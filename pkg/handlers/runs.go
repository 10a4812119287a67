package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/centerdesk/session-scheduler-api/pkg/database"
	"github.com/centerdesk/session-scheduler-api/pkg/matcher"
	"github.com/centerdesk/session-scheduler-api/pkg/models"
	"github.com/centerdesk/session-scheduler-api/pkg/scheduler"
	"github.com/centerdesk/session-scheduler-api/pkg/validator"
)

// Setting keys the run endpoints fall back to when the request carries no
// inline configuration.
const (
	SettingPlanner   = "planner_config"
	SettingCare      = "care_config"
	SettingInterview = "interview_config"
)

func (h *Handler) loadRoster(c *gin.Context) ([]models.Student, bool) {
	students, err := database.LoadStudents(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load students"})
		return nil, false
	}
	return students, true
}

// RunMatching recomputes mentor recommendations for the whole roster and
// persists them.
func (h *Handler) RunMatching(c *gin.Context) {
	students, ok := h.loadRoster(c)
	if !ok {
		return
	}
	shifts, err := database.LoadShifts(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load shifts"})
		return
	}

	assignments := matcher.Match(students, shifts)
	if err := database.SaveAssignments(h.DB, assignments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save assignments"})
		return
	}

	h.recordUsage(c, 1, len(students))
	h.Log.Info("matching run complete", zap.Int("students", len(students)))
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

// GetAssignments returns the persisted mentor recommendations.
func (h *Handler) GetAssignments(c *gin.Context) {
	var rows []database.MentorAssignmentRecord
	if err := h.DB.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch assignments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": rows})
}

// plannerRequest optionally overrides the stored planner configuration.
type plannerRequest struct {
	Config *scheduler.Config `json:"config"`
}

func (h *Handler) plannerConfig(c *gin.Context, inline *scheduler.Config) (scheduler.Config, bool) {
	if inline != nil {
		return *inline, true
	}
	var cfg scheduler.Config
	found, err := database.GetSetting(h.DB, SettingPlanner, &cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load planner config"})
		return scheduler.Config{}, false
	}
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No planner config stored; supply one in the request body"})
		return scheduler.Config{}, false
	}
	return cfg, true
}

// RunPlanner computes the weekly session schedule. The strategy comes from
// the ?strategy query parameter; the empty string means default day order.
func (h *Handler) RunPlanner(c *gin.Context) {
	strategy, ok := scheduler.ParseStrategy(c.Query("strategy"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown strategy: " + c.Query("strategy")})
		return
	}

	var req plannerRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg, ok := h.plannerConfig(c, req.Config)
	if !ok {
		return
	}
	if cfg.SessionMinutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_minutes must be positive"})
		return
	}

	students, ok := h.loadRoster(c)
	if !ok {
		return
	}

	result, err := scheduler.Assign(students, cfg, strategy)
	if err != nil {
		h.Log.Error("planner run failed", zap.Error(err), zap.String("strategy", string(strategy)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := database.ReplaceSchedule(h.DB, database.SchedulePlanner, result.Schedule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save schedule"})
		return
	}

	h.recordUsage(c, 1, len(students))
	h.Log.Info("planner run complete",
		zap.String("strategy", string(result.Strategy)),
		zap.Int("sessions", result.Schedule.TotalSessions()),
		zap.Int("shortfalls", len(result.Shortfalls)))
	c.JSON(http.StatusOK, result)
}

// RunMentalCare places interested students into counselor sessions.
func (h *Handler) RunMentalCare(c *gin.Context) {
	var req struct {
		Config *scheduler.CareConfig `json:"config"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cfg scheduler.CareConfig
	if req.Config != nil {
		cfg = *req.Config
	} else {
		found, err := database.GetSetting(h.DB, SettingCare, &cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load care config"})
			return
		}
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No care config stored; supply one in the request body"})
			return
		}
	}
	if cfg.SessionMinutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_minutes must be positive"})
		return
	}

	students, ok := h.loadRoster(c)
	if !ok {
		return
	}

	result := scheduler.AssignCare(students, cfg)
	if err := database.ReplaceSchedule(h.DB, database.ScheduleMentalCare, result.Schedule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save schedule"})
		return
	}

	h.recordUsage(c, 1, len(students))
	c.JSON(http.StatusOK, result)
}

// RunInterviews places willing students into director interview slots.
func (h *Handler) RunInterviews(c *gin.Context) {
	var req struct {
		Config *scheduler.InterviewConfig `json:"config"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cfg scheduler.InterviewConfig
	if req.Config != nil {
		cfg = *req.Config
	} else {
		found, err := database.GetSetting(h.DB, SettingInterview, &cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load interview config"})
			return
		}
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No interview config stored; supply one in the request body"})
			return
		}
	}
	if cfg.SessionMinutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_minutes must be positive"})
		return
	}

	students, ok := h.loadRoster(c)
	if !ok {
		return
	}

	result := scheduler.AssignInterviews(students, cfg)
	if err := database.ReplaceSchedule(h.DB, database.ScheduleInterview, result.Schedule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save schedule"})
		return
	}

	h.recordUsage(c, 1, len(students))
	c.JSON(http.StatusOK, result)
}

// GetSchedule reads back the last persisted schedule of one kind.
func (h *Handler) GetSchedule(c *gin.Context) {
	kind := c.Param("kind")
	switch kind {
	case database.SchedulePlanner, database.ScheduleMentalCare, database.ScheduleInterview:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown schedule kind: " + kind})
		return
	}

	schedule, err := database.LoadSchedule(h.DB, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch schedule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "schedule": schedule})
}

// ValidateStudent checks one student's selected mentor against the shift
// table and reports per-day overlap.
func (h *Handler) ValidateStudent(c *gin.Context) {
	var record database.StudentRecord
	if err := h.DB.First(&record, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	var att []database.AttendanceRecord
	h.DB.Where("student_id = ?", record.ID).Find(&att)

	shifts, err := database.LoadShifts(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load shifts"})
		return
	}

	c.JSON(http.StatusOK, validator.CheckStudent(record.ToModel(att), shifts))
}

// ValidateRoster checks every student's selected mentor in one pass.
func (h *Handler) ValidateRoster(c *gin.Context) {
	students, ok := h.loadRoster(c)
	if !ok {
		return
	}
	shifts, err := database.LoadShifts(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load shifts"})
		return
	}
	c.JSON(http.StatusOK, validator.CheckRoster(students, shifts))
}
