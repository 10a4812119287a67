package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/centerdesk/session-scheduler-api/pkg/auth"
	"github.com/centerdesk/session-scheduler-api/pkg/database"
)

func testRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&database.StudentRecord{}, &database.AttendanceRecord{},
		&database.MentorShiftRecord{}, &database.MentorAssignmentRecord{},
		&database.ScheduleEntry{}, &database.ConsultingRecord{},
		&database.Setting{},
		&database.APIKey{}, &database.APIUsage{}, &database.MasterUser{},
	))

	r := gin.New()
	New(db, zap.NewNop()).Register(r)
	return r, db
}

func doJSON(r *gin.Engine, method, path, key string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func apiKey(t *testing.T) string {
	t.Helper()
	t.Setenv("API_MASTER_SECRET", "test-secret")
	return auth.GenerateHMACKey("test-client")
}

func TestHealth(t *testing.T) {
	r, _ := testRouter(t)
	w := doJSON(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRequiresKey(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(r, http.MethodGet, "/api/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	t.Setenv("API_MASTER_SECRET", "test-secret")
	w = doJSON(r, http.MethodGet, "/api/students", "bogus.signature", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStudentLifecycle(t *testing.T) {
	r, _ := testRouter(t)
	key := apiKey(t)

	w := doJSON(r, http.MethodPost, "/api/students", key, gin.H{
		"name":            "Kim",
		"weekly_sessions": 2,
		"birth_year":      2007,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created database.StudentRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Kim", created.Name)

	w = doJSON(r, http.MethodPut, "/api/students/"+created.ID+"/attendance", key, gin.H{
		"mon": []string{"09:00", "12:00"},
		"fri": "14:00~18:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/students/"+created.ID, key, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Attendance map[string][2]string `json:"attendance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, [2]string{"09:00", "12:00"}, got.Attendance["mon"])
	assert.Equal(t, [2]string{"14:00", "18:00"}, got.Attendance["fri"])

	w = doJSON(r, http.MethodDelete, "/api/students/"+created.ID, key, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/students/"+created.ID, key, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunPlannerInlineConfig(t *testing.T) {
	r, db := testRouter(t)
	key := apiKey(t)

	w := doJSON(r, http.MethodPost, "/api/students", key, gin.H{
		"name":            "Kim",
		"weekly_sessions": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created database.StudentRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(r, http.MethodPut, "/api/students/"+created.ID+"/attendance", key, gin.H{
		"mon": []string{"09:00", "12:00"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/run/planner", key, gin.H{
		"config": gin.H{
			"hours":           gin.H{"mon": []gin.H{{"start": "09:00", "end": "12:00"}}},
			"session_minutes": 30,
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Schedule map[string][]struct {
			Student string `json:"student"`
		} `json:"schedule"`
		Shortfalls []any  `json:"shortfalls"`
		Strategy   string `json:"strategy"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Schedule["mon"], 1)
	assert.Equal(t, "Kim", res.Schedule["mon"][0].Student)
	assert.Empty(t, res.Shortfalls)
	assert.Equal(t, "mon_first", res.Strategy)

	// The run persisted its schedule and recorded usage for the key.
	w = doJSON(r, http.MethodGet, "/api/schedule/planner", key, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var usage []database.APIUsage
	require.NoError(t, db.Find(&usage).Error)
	require.Len(t, usage, 1)
	assert.Equal(t, 1, usage[0].RunCount)
}

func TestRunPlannerRejectsUnknownStrategy(t *testing.T) {
	r, _ := testRouter(t)
	key := apiKey(t)

	w := doJSON(r, http.MethodPost, "/api/run/planner?strategy=sun_first", key, gin.H{
		"config": gin.H{"hours": gin.H{}, "session_minutes": 30},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunPlannerNeedsStoredConfig(t *testing.T) {
	r, _ := testRouter(t)
	key := apiKey(t)

	w := doJSON(r, http.MethodPost, "/api/run/planner", key, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Storing the config under its settings key unblocks the bare run.
	w = doJSON(r, http.MethodPut, "/api/settings/"+SettingPlanner, key, gin.H{
		"hours":           gin.H{"mon": []gin.H{{"start": "09:00", "end": "12:00"}}},
		"session_minutes": 30,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/run/planner", key, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestShiftsAndMatchingFlow(t *testing.T) {
	r, _ := testRouter(t)
	key := apiKey(t)

	w := doJSON(r, http.MethodPost, "/api/students", key, gin.H{
		"name":       "Kim",
		"birth_year": 2007,
		"math":       "미적",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created database.StudentRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(r, http.MethodPut, "/api/students/"+created.ID+"/attendance", key, gin.H{
		"mon": []string{"09:00", "12:00"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/api/shifts", key, gin.H{
		"mon": []gin.H{{
			"name":         "lee",
			"time":         "09:00~12:00",
			"birth_year":   1998,
			"math_subject": "미적",
		}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/run/matching", key, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Assignments []struct {
			StudentID string `json:"student_id"`
			First     string `json:"first"`
		} `json:"assignments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Assignments, 1)
	assert.Equal(t, created.ID, res.Assignments[0].StudentID)
	assert.Equal(t, "lee", res.Assignments[0].First)
}

func TestExportSchedule(t *testing.T) {
	r, db := testRouter(t)
	key := apiKey(t)

	require.NoError(t, db.Create(&database.ScheduleEntry{
		Kind: database.SchedulePlanner, Weekday: "mon",
		Start: "09:00", End: "09:30", Student: "Kim",
	}).Error)

	w := doJSON(r, http.MethodGet, "/api/schedule/planner/export", key, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "planner_schedule.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())

	w = doJSON(r, http.MethodGet, "/api/schedule/bogus/export", key, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminLoginAndKeys(t *testing.T) {
	r, db := testRouter(t)
	t.Setenv("ADMIN_USERNAME", "director")
	t.Setenv("ADMIN_PASSWORD", "secret-pass")
	t.Setenv("API_MASTER_SECRET", "test-secret")

	username, err := auth.EnsureAdminExists(db)
	require.NoError(t, err)
	assert.Equal(t, "director", username)

	w := doJSON(r, http.MethodPost, "/admin/login", "", gin.H{
		"username": "director",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/admin/login", "", gin.H{
		"username": "director",
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	w = doJSON(r, http.MethodPost, "/admin/keys", login.AccessToken, gin.H{"name": "center-desk"})
	require.Equal(t, http.StatusOK, w.Code)

	var minted struct {
		Key string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &minted))
	_, err = auth.VerifyHMACKey(minted.Key)
	assert.NoError(t, err)

	// Unauthenticated key management is rejected.
	w = doJSON(r, http.MethodGet, "/admin/keys", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
