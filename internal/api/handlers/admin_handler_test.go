package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"intakehub/internal/models"
	"intakehub/internal/reports"
	"intakehub/internal/services/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHealthCheck(t *testing.T) {
	h, _ := setupHandlers(t)
	rr := httptest.NewRecorder()
	h.HealthCheck(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","active_kiosks":0}`, rr.Body.String())

	h.Forms.For("kiosk-1")
	h.Forms.For("kiosk-2")
	rr = httptest.NewRecorder()
	h.HealthCheck(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"ok","active_kiosks":2}`, rr.Body.String())
}

func TestGetInfo(t *testing.T) {
	h, m := setupHandlers(t)
	info := models.Info{ServiceName: "IntakeHub-API", Version: "1.2.3", Backend: "csv", SchemaVersion: 3}
	m.Info.On("GetInfo").Return(info)

	rr := httptest.NewRecorder()
	h.GetInfo(rr, httptest.NewRequest(http.MethodGet, "/api/info", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got models.Info
	decode(t, rr, &got)
	assert.Equal(t, info, got)
}

func TestGetToken(t *testing.T) {
	expires := time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		user     string
		password string
		noAuth   bool
		err      error
		code     int
	}{
		{name: "Success", user: "admin", password: "secret", code: http.StatusOK},
		{name: "WrongPassword", user: "admin", password: "nope", err: auth.ErrInvalidCredentials, code: http.StatusUnauthorized},
		{name: "NoPasswordConfigured", user: "admin", password: "x", err: auth.ErrNoAdminPassword, code: http.StatusServiceUnavailable},
		{name: "OtherUser", user: "bob", password: "secret", code: http.StatusUnauthorized},
		{name: "MissingBasicAuth", noAuth: true, code: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := setupHandlers(t)
			if !tt.noAuth && tt.user == "admin" {
				m.Token.On("IssueAdminToken", tt.password).Return("tok", expires, tt.err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/token", nil)
			if !tt.noAuth {
				req.SetBasicAuth(tt.user, tt.password)
			}
			rr := httptest.NewRecorder()
			h.GetToken(rr, req)

			assert.Equal(t, tt.code, rr.Code)
			if tt.code == http.StatusOK {
				var got tokenResponse
				decode(t, rr, &got)
				assert.Equal(t, "tok", got.AccessToken)
				assert.True(t, expires.Equal(got.ExpiresAt))
			}
		})
	}
}

func TestExportRecords(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		h, m := setupHandlers(t)
		m.Intake.On("ExportAll", mock.Anything, "csv", mock.Anything).
			Run(func(args mock.Arguments) {
				io.WriteString(args.Get(2).(io.Writer), "ID,Timestamp\n")
			}).
			Return(nil)

		rr := httptest.NewRecorder()
		h.ExportRecords(rr, httptest.NewRequest(http.MethodGet, "/api/export", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "intakes_20240304.csv")
		assert.Equal(t, "ID,Timestamp\n", rr.Body.String())
	})

	t.Run("XLSX", func(t *testing.T) {
		h, m := setupHandlers(t)
		m.Intake.On("ExportAll", mock.Anything, "xlsx", mock.Anything).Return(nil)

		rr := httptest.NewRecorder()
		h.ExportRecords(rr, httptest.NewRequest(http.MethodGet, "/api/export?format=XLSX", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "spreadsheetml")
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		h, _ := setupHandlers(t)
		rr := httptest.NewRecorder()
		h.ExportRecords(rr, httptest.NewRequest(http.MethodGet, "/api/export?format=pdf", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	})
}

func TestRepairRecords(t *testing.T) {
	admin := auth.Operator("admin")

	t.Run("DryRun", func(t *testing.T) {
		h, m := setupHandlers(t)
		m.Intake.On("Repair", mock.Anything, admin, true).Return(2, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/repair?dryrun=true", nil)
		req = req.WithContext(auth.WithCapability(req.Context(), admin))
		rr := httptest.NewRecorder()
		h.RepairRecords(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got repairResponse
		decode(t, rr, &got)
		assert.Equal(t, repairResponse{DryRun: true, RowsAffected: 2}, got)
	})

	t.Run("Failure", func(t *testing.T) {
		h, m := setupHandlers(t)
		m.Intake.On("Repair", mock.Anything, mock.Anything, false).Return(0, errors.New("disk full"))

		rr := httptest.NewRecorder()
		h.RepairRecords(rr, httptest.NewRequest(http.MethodPost, "/api/repair", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("BadFlag", func(t *testing.T) {
		h, _ := setupHandlers(t)
		rr := httptest.NewRecorder()
		h.RepairRecords(rr, httptest.NewRequest(http.MethodPost, "/api/repair?dryrun=sure", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestTriggerHousekeeping(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, m := setupHandlers(t)
		report := &models.DriftReport{CheckedAt: fixedNow, RowsAffected: 1, Message: "1 rows need repair."}
		m.Housekeeping.On("TriggerDriftCheck", mock.Anything).Return(report, nil)

		rr := httptest.NewRecorder()
		h.TriggerHousekeeping(rr, httptest.NewRequest(http.MethodPost, "/api/housekeeping", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.DriftReport
		decode(t, rr, &got)
		assert.Equal(t, 1, got.RowsAffected)
	})

	t.Run("Failure", func(t *testing.T) {
		h, m := setupHandlers(t)
		m.Housekeeping.On("TriggerDriftCheck", mock.Anything).Return(nil, errors.New("boom"))

		rr := httptest.NewRecorder()
		h.TriggerHousekeeping(rr, httptest.NewRequest(http.MethodPost, "/api/housekeeping", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestGetReport(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h, m := setupHandlers(t)
		day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
		summary := reports.Summary{Date: "2024-03-01", CountOnDate: 5, Weekday: "Friday", TotalRecords: 9}
		m.Intake.On("Report", mock.Anything, mock.MatchedBy(func(d time.Time) bool { return d.Equal(day) }), "Friday").
			Return(summary, nil)

		rr := httptest.NewRecorder()
		h.GetReport(rr, httptest.NewRequest(http.MethodGet, "/api/reports?date=2024-03-01&weekday=Friday", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var got reports.Summary
		decode(t, rr, &got)
		assert.Equal(t, 5, got.CountOnDate)
	})

	t.Run("BadWeekday", func(t *testing.T) {
		h, _ := setupHandlers(t)
		rr := httptest.NewRecorder()
		h.GetReport(rr, httptest.NewRequest(http.MethodGet, "/api/reports?weekday=Caturday", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("BadDate", func(t *testing.T) {
		h, _ := setupHandlers(t)
		rr := httptest.NewRecorder()
		h.GetReport(rr, httptest.NewRequest(http.MethodGet, "/api/reports?date=yesterday-ish", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
