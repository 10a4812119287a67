package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// StudentRecord is the students table: roster fields plus the per-student
// scheduling knobs the admin screens edit.
type StudentRecord struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
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

	WeeklySessions   int    `gorm:"default:1" json:"weekly_sessions"`
	CareInterested   bool   `json:"care_interested"`
	CareFrequency    string `json:"care_frequency"`
	InterviewWilling bool   `json:"interview_willing"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttendanceRecord is one student's window on one weekday. Empty start/end
// means no attendance that day; the row still exists once normalized.
type AttendanceRecord struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StudentID string `gorm:"uniqueIndex:idx_student_day;not null" json:"student_id"`
	Weekday   string `gorm:"uniqueIndex:idx_student_day;not null" json:"weekday"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// MentorShiftRecord is one mentor's working block on a weekday. Position
// preserves the display order within the day.
type MentorShiftRecord struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Weekday  string `gorm:"index;not null" json:"weekday"`
	Position int    `json:"position"`

	Name        string `gorm:"not null" json:"name"`
	Affiliation string `json:"affiliation"`
	Time        string `json:"time"`
	Personality string `json:"personality"`
	BirthYear   int    `json:"birth_year"`

	KoreanSubject string `json:"korean_subject"`
	MathSubject   string `json:"math_subject"`
	Elective1     string `json:"elective1"`
	Elective2     string `json:"elective2"`

	Note string `json:"note"`
}

// MentorAssignmentRecord stores the matcher's latest ranked result per
// student. Recomputed and upserted on every matching run.
type MentorAssignmentRecord struct {
	StudentID string `gorm:"primaryKey" json:"student_id"`
	First     string `json:"first"`
	Second    string `json:"second"`
	Third     string `json:"third"`

	ReasonFirst  string `json:"reason_first"`
	ReasonSecond string `json:"reason_second"`
	ReasonThird  string `json:"reason_third"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Schedule kinds stored in ScheduleEntry.Kind.
const (
	SchedulePlanner    = "planner"
	ScheduleMentalCare = "mentalcare"
	ScheduleInterview  = "interview"
)

// ScheduleEntry is one assigned session of a persisted weekly schedule.
// Each run replaces the entries of its kind wholesale.
type ScheduleEntry struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Kind    string `gorm:"index:idx_kind_day;not null" json:"kind"`
	Weekday string `gorm:"index:idx_kind_day;not null" json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Student string `json:"student"`
}

// ConsultingRecord logs one director consulting session for a student.
type ConsultingRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   string    `gorm:"index;not null" json:"student_id"`
	ConsultDate string    `gorm:"not null" json:"consult_date"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// Setting is a keyed JSON blob for configuration the screens edit: working
// hours, session durations, notice texts.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}

// APIKey represents the api_keys table for programmatic clients.
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage tracks per-key daily request counts.
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	RunCount     int    `gorm:"default:0" json:"run_count"`
	StudentCount int    `gorm:"default:0" json:"student_count"`
}

// MasterUser represents the master_users table for the admin screens.
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema.
// DATABASE_URL selects postgres; otherwise a local sqlite file is used.
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "scheduler.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	db.AutoMigrate(
		&StudentRecord{}, &AttendanceRecord{}, &MentorShiftRecord{},
		&MentorAssignmentRecord{}, &ScheduleEntry{}, &ConsultingRecord{},
		&Setting{},
		&APIKey{}, &APIUsage{}, &MasterUser{},
	)

	return db
}
