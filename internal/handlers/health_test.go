package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskmanager-api/internal/config"
	"taskmanager-api/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }
func (p stubPinger) Driver() string { return "stub" }

func setupHealthTest(t *testing.T) (*HealthHandler, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	// Expect ping during GORM initialization
	mock.ExpectPing()

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	handler := NewHealthHandler(storage.NewSQLStorage(db, config.DriverPostgres))

	cleanup := func() {
		sqlDB.Close()
	}

	return handler, mock, cleanup
}

func serveHealth(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/health", http.NoBody)
	handler(c)
	return w
}

func TestNewHealthHandler(t *testing.T) {
	handler := NewHealthHandler(stubPinger{})

	assert.NotNil(t, handler.store)
	assert.False(t, handler.startTime.IsZero())
	assert.Equal(t, 2*time.Second, handler.pingTimeout)
}

func TestBasicHealth(t *testing.T) {
	w := serveHealth(NewHealthHandler(nil).BasicHealth)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestDetailedHealth_Healthy(t *testing.T) {
	handler, mock, cleanup := setupHealthTest(t)
	defer cleanup()

	mock.ExpectPing()

	w := serveHealth(handler.DetailedHealth)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, Version, response.Version)
	assert.NotEmpty(t, response.Timestamp)
	assert.NotEmpty(t, response.Uptime)
	assert.Equal(t, "healthy", response.Checks["storage"].Status)
	assert.Equal(t, "postgres", response.Checks["storage"].Details["driver"])
	assert.Contains(t, response.Checks, "system")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDetailedHealth_StoreUnhealthy(t *testing.T) {
	handler, mock, cleanup := setupHealthTest(t)
	defer cleanup()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	w := serveHealth(handler.DetailedHealth)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "Storage ping failed", response.Checks["storage"].Message)
	assert.Contains(t, response.Checks["storage"].Details["error"], "connection refused")
}

func TestDetailedHealth_NilStore(t *testing.T) {
	w := serveHealth(NewHealthHandler(nil).DetailedHealth)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Storage not initialized", response.Checks["storage"].Message)
}

func TestReadinessProbe(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		wantStatus int
		wantBody   string
	}{
		{"ready", stubPinger{}, http.StatusOK, "ready"},
		{"store down", stubPinger{err: errors.New("timeout")}, http.StatusServiceUnavailable, "not_ready"},
		{"no store", nil, http.StatusServiceUnavailable, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveHealth(NewHealthHandler(tt.store).ReadinessProbe)

			assert.Equal(t, tt.wantStatus, w.Code)

			var response map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantBody, response["status"])
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "storage_unavailable", response["reason"])
			}
		})
	}
}

func TestLivenessProbe(t *testing.T) {
	w := serveHealth(NewHealthHandler(stubPinger{err: errors.New("down")}).LivenessProbe)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}

func TestCheckStore_HonorsTimeout(t *testing.T) {
	handler := NewHealthHandler(blockingPinger{})
	handler.pingTimeout = 10 * time.Millisecond

	check := handler.checkStore(context.Background())

	assert.Equal(t, "unhealthy", check.Status)
	assert.Contains(t, check.Details["error"], context.DeadlineExceeded.Error())
}

type blockingPinger struct{}

func (blockingPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingPinger) Driver() string { return "blocking" }

func TestGetSystemInfo(t *testing.T) {
	info := NewHealthHandler(nil).getSystemInfo()

	assert.Equal(t, "info", info.Status)
	assert.Contains(t, info.Details, "goroutines")
	assert.Contains(t, info.Details, "go_version")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5*time.Minute + 3*time.Second, "5m 3s"},
		{2*time.Hour + 1*time.Minute, "2h 1m 0s"},
		{49*time.Hour + 30*time.Second, "2d 1h 0m 30s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
