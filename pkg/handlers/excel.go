package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/centerdesk/session-scheduler-api/pkg/database"
	"github.com/centerdesk/session-scheduler-api/pkg/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const maxImportRows = 1000

// ImportAttendance bulk-loads attendance windows from an uploaded workbook.
// The sheet needs a header row with a name column followed by one column per
// weekday key (mon..sat); day cells hold "start~end" or are left empty.
func (h *Handler) ImportAttendance(c *gin.Context) {
	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	src, err := upload.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not open upload"})
		return
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not parse workbook"})
		return
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read sheet"})
		return
	}
	if len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Workbook has no data rows"})
		return
	}
	if len(rows)-1 > maxImportRows {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Workbook exceeds %d data rows", maxImportRows)})
		return
	}

	nameCol := -1
	dayCols := map[models.Weekday]int{}
	for i, head := range rows[0] {
		head = strings.ToLower(strings.TrimSpace(head))
		if head == "name" {
			nameCol = i
			continue
		}
		if d, ok := models.ParseWeekday(head); ok {
			dayCols[d] = i
		}
	}
	if nameCol < 0 || len(dayCols) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Header must include a name column and weekday columns (mon..sat)"})
		return
	}

	var roster []database.StudentRecord
	if err := h.DB.Find(&roster).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load students"})
		return
	}
	var existing []database.AttendanceRecord
	if err := h.DB.Find(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load attendance"})
		return
	}
	byName := make(map[string]database.StudentRecord, len(roster))
	for _, r := range roster {
		byName[r.Name] = r
	}

	imported := 0
	var unmatched []string
	for _, row := range rows[1:] {
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		record, ok := byName[name]
		if !ok {
			unmatched = append(unmatched, name)
			continue
		}

		// Merge semantics: only cells present in the sheet overwrite; a day
		// left blank keeps whatever is stored.
		att := record.ToModel(existing).Attendance
		for d, col := range dayCols {
			if col >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			if from, to, found := strings.Cut(cell, "~"); found {
				att[d] = models.TimePair{strings.TrimSpace(from), strings.TrimSpace(to)}
			}
		}

		if err := database.SaveAttendance(h.DB, record.ID, att); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save attendance for " + name})
			return
		}
		imported++
	}

	h.Log.Info("attendance import", zap.Int("imported", imported), zap.Int("unmatched", len(unmatched)))
	c.JSON(http.StatusOK, gin.H{"imported": imported, "unmatched": unmatched})
}

// ExportSchedule streams the persisted schedule of one kind as a workbook
// with one column per weekday and one row per slot start.
func (h *Handler) ExportSchedule(c *gin.Context) {
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

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	f.SetCellValue(sheet, "A1", "day")
	f.SetCellValue(sheet, "B1", "start")
	f.SetCellValue(sheet, "C1", "end")
	f.SetCellValue(sheet, "D1", "student")
	f.SetCellStyle(sheet, "A1", "D1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "D", 14)

	row := 2
	for _, d := range models.Weekdays {
		for _, a := range schedule[d] {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), d.String())
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), a.Start)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), a.End)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), a.Student)
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		h.Log.Error("schedule export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not write workbook"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_schedule.xlsx", kind))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
