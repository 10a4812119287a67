package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register wires every route onto r. Both the standalone server and the
// serverless entry point share this table.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Session Scheduler API",
			"version": "1.0.0",
		})
	})
	r.GET("/health", h.Health)
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.GET("/students", h.ListStudents)
		api.POST("/students", h.CreateStudent)
		api.GET("/students/:id", h.GetStudent)
		api.PUT("/students/:id", h.UpdateStudent)
		api.DELETE("/students/:id", h.DeleteStudent)
		api.GET("/students/:id/attendance", h.GetAttendance)
		api.PUT("/students/:id/attendance", h.PutAttendance)
		api.GET("/students/:id/validate", h.ValidateStudent)

		api.GET("/shifts", h.GetShifts)
		api.PUT("/shifts", h.PutShifts)

		api.GET("/settings/:key", h.GetSetting)
		api.PUT("/settings/:key", h.PutSetting)

		api.GET("/consultings", h.ListConsultings)
		api.POST("/consultings", h.CreateConsulting)
		api.DELETE("/consultings/:id", h.DeleteConsulting)

		api.POST("/run/matching", h.RunMatching)
		api.POST("/run/planner", h.RunPlanner)
		api.POST("/run/mentalcare", h.RunMentalCare)
		api.POST("/run/interviews", h.RunInterviews)

		api.GET("/assignments", h.GetAssignments)
		api.GET("/schedule/:kind", h.GetSchedule)
		api.GET("/schedule/:kind/export", h.ExportSchedule)
		api.POST("/attendance/import", h.ImportAttendance)

		api.GET("/validate", h.ValidateRoster)
		api.GET("/usage", h.GetMyUsage)
	}
}
