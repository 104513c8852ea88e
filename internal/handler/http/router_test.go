package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/auth"
	backupService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/backup"
	dashboardService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/employee"
	fileService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/file"
	payrollService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/puantaj-backend-go/internal/service/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret   = "test-secret-key-for-jwt"
	handlerTestUsername = "admin"
	handlerTestPassword = "123"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

// newTestServer wires the full stack on an in-memory store and seeds the
// default admin.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	store, err := memory.Open("")
	require.NoError(t, err)

	employeeRepo := memory.NewEmployeeRepository(store)
	attendanceRepo := memory.NewAttendanceRepository(store)
	userRepo := memory.NewUserRepository(store)
	refreshRepo := memory.NewRefreshTokenRepository(store)
	snapshotRepo := memory.NewSnapshotRepository(store)

	filesDir := t.TempDir()
	fileStorage, err := storage.NewLocalStorage(filesDir, "http://localhost/files")
	require.NoError(t, err)
	files := fileService.NewFileService(fileStorage)

	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour, 24*time.Hour, false)
	calculator := payrollService.NewCalculator()
	payroll := payrollService.NewPayrollService(employeeRepo, attendanceRepo, calculator)
	auth := authService.NewAuthService(userRepo, refreshRepo, jwtService)

	_, err = auth.EnsureDefaultAdmin(context.Background(), handlerTestUsername, handlerTestPassword)
	require.NoError(t, err)

	return NewRouter(
		RouterOptions{
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
			AllowedOrigins: []string{"http://localhost:3000"},
			FilesDir:       filesDir,
		},
		jwtService,
		NewAuthHandler(auth, jwtService),
		NewEmployeeHandler(employeeService.NewEmployeeService(employeeRepo)),
		NewAttendanceHandler(attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, calculator)),
		NewPayrollHandler(payroll),
		NewDashboardHandler(dashboardService.NewDashboardService(employeeRepo, attendanceRepo, calculator)),
		NewReportHandler(reportService.NewReportService(employeeRepo, attendanceRepo, payroll, calculator, files)),
		NewBackupHandler(backupService.NewBackupService(snapshotRepo, files)),
	)
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewBuffer(payload)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func login(t *testing.T, h http.Handler) (string, *http.Cookie) {
	t.Helper()

	rec := doRequest(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": handlerTestUsername,
		"password": handlerTestPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	require.NotEmpty(t, data.AccessToken)

	var refresh *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == jwt.RefreshTokenCookieName {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	return data.AccessToken, refresh
}

func createTestEmployee(t *testing.T, h http.Handler, token string) string {
	t.Helper()

	rec := doRequest(t, h, http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"full_name":   "Ayşe Yılmaz",
		"bank_salary": "20000",
		"cash_salary": "10000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	require.NotEmpty(t, data.ID)
	return data.ID
}

func TestRouter_Heartbeat(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	h := newTestServer(t)

	paths := []string{
		"/api/v1/employees",
		"/api/v1/attendance",
		"/api/v1/payroll/statements?period=2024-03",
		"/api/v1/dashboard",
		"/api/v1/backup/export",
		"/api/v1/users",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/employees", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestEmployeeHandler(t *testing.T) {
	h := newTestServer(t)
	token, _ := login(t, h)

	t.Run("validation error", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/employees", token, map[string]interface{}{})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decodeEnvelope(t, rec)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "full_name")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/employees", token, "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	id := createTestEmployee(t, h, token)

	t.Run("get and list", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/employees/"+id, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var emp struct {
			FullName    string `json:"full_name"`
			TotalSalary string `json:"total_salary"`
			DailyHours  string `json:"daily_hours"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &emp))
		assert.Equal(t, "Ayşe Yılmaz", emp.FullName)
		assert.Equal(t, "30000", emp.TotalSalary)
		assert.Equal(t, "8", emp.DailyHours)

		rec = doRequest(t, h, http.MethodGet, "/api/v1/employees", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list []json.RawMessage
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
		assert.Len(t, list, 1)
	})

	t.Run("update", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPut, "/api/v1/employees/"+id, token, map[string]interface{}{
			"cash_salary": "12000",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var emp struct {
			TotalSalary string `json:"total_salary"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &emp))
		assert.Equal(t, "32000", emp.TotalSalary)
	})

	t.Run("not found", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/employees/missing", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodDelete, "/api/v1/employees/"+id, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, h, http.MethodGet, "/api/v1/employees/"+id, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAttendanceHandler(t *testing.T) {
	h := newTestServer(t)
	token, _ := login(t, h)
	employeeID := createTestEmployee(t, h, token)

	entry := map[string]interface{}{
		"employee_id": employeeID,
		"date":        "2024-03-04",
		"leave_type":  "worked",
		"check_in":    "08:00",
		"check_out":   "17:00",
		"meal":        "150",
	}

	rec := doRequest(t, h, http.MethodPost, "/api/v1/attendance", token, entry)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID   string `json:"id"`
		Date string `json:"date"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.Equal(t, "2024-03-04", created.Date)

	t.Run("same day twice conflicts", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/attendance", token, entry)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("overwrite replaces", func(t *testing.T) {
		replaced := map[string]interface{}{}
		for k, v := range entry {
			replaced[k] = v
		}
		replaced["overwrite"] = true
		replaced["meal"] = "200"

		rec := doRequest(t, h, http.MethodPost, "/api/v1/attendance", token, replaced)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("invalid clock", func(t *testing.T) {
		bad := map[string]interface{}{
			"employee_id": employeeID,
			"date":        "2024-03-05",
			"check_in":    "25:00",
		}
		rec := doRequest(t, h, http.MethodPost, "/api/v1/attendance", token, bad)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("range", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/attendance/range", token, map[string]interface{}{
			"employee_id": employeeID,
			"start_date":  "2024-03-11",
			"end_date":    "2024-03-15",
			"leave_type":  "annual_leave",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var items []json.RawMessage
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &items))
		assert.Len(t, items, 5)
	})

	t.Run("list with paging", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/attendance?month=2024-03&page=1&limit=4", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		env := decodeEnvelope(t, rec)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(6), env.Meta.TotalItems)
		assert.Equal(t, 2, env.Meta.TotalPages)

		var items []json.RawMessage
		require.NoError(t, json.Unmarshal(env.Data, &items))
		assert.Len(t, items, 4)
	})

	t.Run("invalid page", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/attendance?page=x", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update and delete", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPut, "/api/v1/attendance/"+created.ID, token, map[string]interface{}{
			"note": "geç geldi",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = doRequest(t, h, http.MethodDelete, "/api/v1/attendance/"+created.ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, h, http.MethodGet, "/api/v1/attendance/"+created.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPayrollAndDashboardHandlers(t *testing.T) {
	h := newTestServer(t)
	token, _ := login(t, h)
	employeeID := createTestEmployee(t, h, token)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/payroll/statements/"+employeeID+"?period=2024-03", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "no attendance yet")

	rec = doRequest(t, h, http.MethodPost, "/api/v1/attendance", token, map[string]interface{}{
		"employee_id": employeeID,
		"date":        "2024-03-04",
		"check_in":    "08:00",
		"check_out":   "16:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("statement", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/payroll/statements/"+employeeID+"?period=2024-03", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var stmt struct {
			EmployeeID string `json:"employee_id"`
			Period     string `json:"period"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &stmt))
		assert.Equal(t, employeeID, stmt.EmployeeID)
		assert.Equal(t, "2024-03", stmt.Period)
	})

	t.Run("invalid period", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/payroll/statements/"+employeeID+"?period=2024-13", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list statements", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/payroll/statements?period=2024-03", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var list []json.RawMessage
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
		assert.Len(t, list, 1)
	})

	t.Run("dashboard", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/dashboard?month=2024-03", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var dash struct {
			TotalEmployees int `json:"total_employees"`
			RecordCount    int `json:"record_count"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &dash))
		assert.Equal(t, 1, dash.TotalEmployees)
		assert.Equal(t, 1, dash.RecordCount)
	})
}

func TestReportHandler(t *testing.T) {
	h := newTestServer(t)
	token, _ := login(t, h)
	employeeID := createTestEmployee(t, h, token)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/attendance", token, map[string]interface{}{
		"employee_id": employeeID,
		"date":        "2024-03-04",
		"check_in":    "08:00",
		"check_out":   "18:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("workbook", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/reports/workbook?month=2024-03&save=true", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.NotEmpty(t, rec.Header().Get("X-Storage-Path"))
		// xlsx files are zip archives
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
	})

	t.Run("bad save flag", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/reports/workbook?save=maybe", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("statement", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/reports/statements/"+employeeID+"?period=2024-03", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "2024-03")
	})

	t.Run("statement without period", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/reports/statements/"+employeeID, token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestBackupHandler(t *testing.T) {
	h := newTestServer(t)
	token, _ := login(t, h)
	createTestEmployee(t, h, token)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/backup/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Personel_Takip_Yedek_")
	exported := rec.Body.Bytes()

	var doc struct {
		Employees []json.RawMessage `json:"employees"`
	}
	require.NoError(t, json.Unmarshal(exported, &doc))
	assert.Len(t, doc.Employees, 1)

	t.Run("archive and list", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/backup/archives", token, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var archive struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &archive))
		assert.NotEmpty(t, archive.Name)

		rec = doRequest(t, h, http.MethodGet, "/api/v1/backup/archives", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list []json.RawMessage
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
		assert.Len(t, list, 1)

		rec = doRequest(t, h, http.MethodPost, "/api/v1/backup/archives/"+archive.Name+"/restore", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("restore from upload", func(t *testing.T) {
		createTestEmployee(t, h, token)

		rec := doRequest(t, h, http.MethodPost, "/api/v1/backup/restore", token, string(exported))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = doRequest(t, h, http.MethodGet, "/api/v1/employees", token, nil)
		var list []json.RawMessage
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
		assert.Len(t, list, 1)
	})

	t.Run("restore rejects broken references", func(t *testing.T) {
		body := `{"employees":[],"attendance":[{"id":"r1","employee_id":"ghost","date":"2024-03-04","leave_type":"worked"}]}`
		rec := doRequest(t, h, http.MethodPost, "/api/v1/backup/restore", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown archive", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/backup/archives/nope.json/restore", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
