package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"intakehub/internal/api/handlers"
	"intakehub/internal/metrics"
	"intakehub/internal/models"
	"intakehub/internal/services/auth"
	"intakehub/internal/services/mocks"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	intake *mocks.MockIntakeService
	token  *mocks.MockTokenService
	info   *mocks.MockInfoService
}

func newRouter(t *testing.T) (http.Handler, *routerFixture) {
	t.Helper()
	f := &routerFixture{
		intake: new(mocks.MockIntakeService),
		token:  new(mocks.MockTokenService),
		info:   new(mocks.MockInfoService),
	}
	h := handlers.NewHandlers(f.info, f.intake, f.token, new(mocks.MockHousekeepingService))
	h.Now = func() time.Time { return time.Date(2024, 3, 4, 9, 30, 0, 0, time.Local) }

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.IntakesCreated.Inc()

	return SetupRouter(h, auth.NewMiddleware(f.token), reg), f
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestPublicRoutes(t *testing.T) {
	r, f := newRouter(t)
	f.info.On("GetInfo").Return(models.Info{ServiceName: "IntakeHub-API"})

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/api/info", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "IntakeHub-API")

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "intakehub_intakes_created_total 1")
}

func TestKioskRoutesNeedNoToken(t *testing.T) {
	r, f := newRouter(t)
	f.intake.On("Lookup", mock.Anything, "5555551234", mock.Anything).Return(models.LookupResult{}, nil)

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/api/households?phone=5555551234", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	f.intake.AssertExpectations(t)
}

func TestAdminRoutesNeedToken(t *testing.T) {
	r, f := newRouter(t)

	rr := serve(r, httptest.NewRequest(http.MethodDelete, "/api/records/3", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	f.token.On("Authorize", "bad").Return(auth.Capability{}, errors.New("invalid token"))
	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	f.intake.AssertNotCalled(t, "Report", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminRouteWithToken(t *testing.T) {
	r, f := newRouter(t)
	admin := auth.Operator("admin")
	f.token.On("Authorize", "good").Return(admin, nil)
	f.intake.On("DeleteRecord", mock.Anything, models.StoreKey(3), admin).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/records/3", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := serve(r, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	f.intake.AssertExpectations(t)
}

func TestRequestIDHeader(t *testing.T) {
	r, _ := newRouter(t)

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	id := rr.Header().Get(RequestIDHeader)
	_, err := ulid.ParseStrict(id)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "kiosk-42")
	rr = serve(r, req)
	assert.Equal(t, "kiosk-42", rr.Header().Get(RequestIDHeader))
}

func TestUnknownRouteIsJSON(t *testing.T) {
	r, _ := newRouter(t)

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json"))
}
