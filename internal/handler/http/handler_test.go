package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/MKhiriev/go-climate-keeper/internal/logger"
	"github.com/MKhiriev/go-climate-keeper/internal/mock"
	"github.com/MKhiriev/go-climate-keeper/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────

// newTestServices wires the real backup and app info services over a mocked
// backup repository.
func newTestServices(t *testing.T) (*service.Services, *mock.MockBackupRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	backups := mock.NewMockBackupRepository(ctrl)

	appInfo, err := service.NewAppInfoService("test-version", logger.Nop())
	require.NoError(t, err)

	return &service.Services{
		AppInfoService: appInfo,
		BackupService:  service.NewBackupService(backups, logger.Nop()),
	}, backups
}

func postForm(t *testing.T, router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svcs := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svcs, "/custom/backup", log)

	require.NotNil(t, h)
	assert.Equal(t, svcs, h.services)
	assert.Equal(t, "/custom/backup", h.backupPath)
	assert.Equal(t, log, h.logger)
}

func TestNewHandler_DefaultBackupPath(t *testing.T) {
	h := NewHandler(&service.Services{}, "", logger.Nop())
	assert.Equal(t, DefaultBackupPath, h.backupPath)
}

// ─────────────────────────────────────────────
// Init: route registration
// ─────────────────────────────────────────────

func TestInit_Routes(t *testing.T) {
	svcs, _ := newTestServices(t)
	router := NewHandler(svcs, "", logger.Nop()).Init()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "version", method: http.MethodGet, path: "/api/version", wantStatus: http.StatusOK},
		{name: "backup via GET is hidden", method: http.MethodGet, path: DefaultBackupPath, wantStatus: http.StatusNotFound},
		{name: "version via POST is hidden", method: http.MethodPost, path: "/api/version", wantStatus: http.StatusNotFound},
		{name: "unknown route", method: http.MethodGet, path: "/api/records", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestInit_TraceIDIsEchoed(t *testing.T) {
	svcs, _ := newTestServices(t)
	router := NewHandler(svcs, "", logger.Nop()).Init()

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set(traceIDHeader, "trace-123")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "trace-123", rr.Header().Get(traceIDHeader))
}

func TestInit_RecoversFromPanics(t *testing.T) {
	// no backup service wired: the handler dereferences a nil interface
	router := NewHandler(&service.Services{}, "", logger.Nop()).Init()

	form := url.Values{"data": {validPayloadJSON}}
	rr := postForm(t, router, DefaultBackupPath, form)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

// ─────────────────────────────────────────────
// version
// ─────────────────────────────────────────────

func TestGetServerVersion(t *testing.T) {
	svcs, _ := newTestServices(t)
	router := NewHandler(svcs, "", logger.Nop()).Init()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test-version", rr.Body.String())
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
}
