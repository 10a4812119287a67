package database

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/centerdesk/session-scheduler-api/pkg/models"
)

// ToModel builds the working Student from a roster row and its attendance
// rows. The result is already normalized.
func (r StudentRecord) ToModel(att []AttendanceRecord) models.Student {
	attendance := make(models.Attendance, models.NumWeekdays)
	for _, a := range att {
		if a.StudentID != r.ID {
			continue
		}
		if d, ok := models.ParseWeekday(a.Weekday); ok {
			attendance[d] = models.TimePair{a.Start, a.End}
		}
	}
	return models.Student{
		ID:               r.ID,
		Name:             r.Name,
		SeatNumber:       r.Seat,
		BirthYear:        r.BirthYear,
		Personality:      r.Personality,
		Korean:           r.Korean,
		Math:             r.Math,
		Elective1:        r.Elective1,
		Elective2:        r.Elective2,
		FixedMentor:      r.FixedMentor,
		BannedMentor1:    r.BannedMentor1,
		BannedMentor2:    r.BannedMentor2,
		SelectedMentor:   r.SelectedMentor,
		WeeklySessions:   r.WeeklySessions,
		CareInterested:   r.CareInterested,
		CareFrequency:    models.CareFrequency(r.CareFrequency),
		InterviewWilling: r.InterviewWilling,
		Attendance:       attendance,
	}.Normalize()
}

// LoadStudents materializes the full roster snapshot a scheduling run
// operates on.
func LoadStudents(db *gorm.DB) ([]models.Student, error) {
	var records []StudentRecord
	if err := db.Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	var att []AttendanceRecord
	if err := db.Find(&att).Error; err != nil {
		return nil, err
	}

	students := make([]models.Student, 0, len(records))
	for _, r := range records {
		students = append(students, r.ToModel(att))
	}
	return students, nil
}

// SaveAttendance upserts one student's weekly windows, one row per weekday.
func SaveAttendance(db *gorm.DB, studentID string, att models.Attendance) error {
	att = att.Normalize()
	for _, d := range models.Weekdays {
		pair := att[d]
		row := AttendanceRecord{
			StudentID: studentID,
			Weekday:   d.String(),
			Start:     pair[0],
			End:       pair[1],
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"start", "end"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadShifts materializes the weekly mentor-shift table in display order.
func LoadShifts(db *gorm.DB) (models.WeeklyShifts, error) {
	var rows []MentorShiftRecord
	if err := db.Order("weekday, position").Find(&rows).Error; err != nil {
		return nil, err
	}

	shifts := make(models.WeeklyShifts, models.NumWeekdays)
	for _, d := range models.Weekdays {
		shifts[d] = []models.MentorShift{}
	}
	for _, row := range rows {
		d, ok := models.ParseWeekday(row.Weekday)
		if !ok {
			continue
		}
		shifts[d] = append(shifts[d], models.MentorShift{
			Name:          row.Name,
			Affiliation:   row.Affiliation,
			Time:          row.Time,
			Personality:   row.Personality,
			BirthYear:     row.BirthYear,
			KoreanSubject: row.KoreanSubject,
			MathSubject:   row.MathSubject,
			Elective1:     row.Elective1,
			Elective2:     row.Elective2,
			Note:          row.Note,
		})
	}
	return shifts, nil
}

// ReplaceShifts swaps the whole weekly shift table in one transaction.
func ReplaceShifts(db *gorm.DB, shifts models.WeeklyShifts) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&MentorShiftRecord{}).Error; err != nil {
			return err
		}
		for _, d := range models.Weekdays {
			for i, m := range shifts[d] {
				row := MentorShiftRecord{
					Weekday:       d.String(),
					Position:      i,
					Name:          m.Name,
					Affiliation:   m.Affiliation,
					Time:          m.Time,
					Personality:   m.Personality,
					BirthYear:     m.BirthYear,
					KoreanSubject: m.KoreanSubject,
					MathSubject:   m.MathSubject,
					Elective1:     m.Elective1,
					Elective2:     m.Elective2,
					Note:          m.Note,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// SaveAssignments upserts the matcher output, one row per student.
func SaveAssignments(db *gorm.DB, assignments []models.MentorAssignment) error {
	for _, a := range assignments {
		row := MentorAssignmentRecord{
			StudentID:    a.StudentID,
			First:        a.First,
			Second:       a.Second,
			Third:        a.Third,
			ReasonFirst:  a.Reasons.First,
			ReasonSecond: a.Reasons.Second,
			ReasonThird:  a.Reasons.Third,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			UpdateAll: true,
		}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// ReplaceSchedule swaps the persisted schedule of one kind for a fresh run's
// output.
func ReplaceSchedule(db *gorm.DB, kind string, schedule models.Schedule) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("kind = ?", kind).Delete(&ScheduleEntry{}).Error; err != nil {
			return err
		}
		for _, d := range models.Weekdays {
			for _, a := range schedule[d] {
				row := ScheduleEntry{
					Kind:    kind,
					Weekday: d.String(),
					Start:   a.Start,
					End:     a.End,
					Student: a.Student,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// LoadSchedule reads back the persisted schedule of one kind.
func LoadSchedule(db *gorm.DB, kind string) (models.Schedule, error) {
	var rows []ScheduleEntry
	if err := db.Where("kind = ?", kind).Order("weekday, start").Find(&rows).Error; err != nil {
		return nil, err
	}
	schedule := make(models.Schedule, models.NumWeekdays)
	for _, d := range models.Weekdays {
		schedule[d] = []models.SlotAssignment{}
	}
	for _, row := range rows {
		d, ok := models.ParseWeekday(row.Weekday)
		if !ok {
			continue
		}
		schedule[d] = append(schedule[d], models.SlotAssignment{
			Start:   row.Start,
			End:     row.End,
			Student: row.Student,
		})
	}
	return schedule, nil
}

// GetSetting unmarshals the JSON value under key into out. found is false
// when the key has never been written.
func GetSetting(db *gorm.DB, key string, out any) (bool, error) {
	var s Setting
	err := db.Where("key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s.Value), out); err != nil {
		return false, err
	}
	return true, nil
}

// PutSetting upserts a JSON value under key.
func PutSetting(db *gorm.DB, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Setting{Key: key, Value: string(raw)}).Error
}
