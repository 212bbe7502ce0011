package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"intakehub/internal/formstate"
	"intakehub/internal/services/mocks"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.Local)

type testMocks struct {
	Info         *mocks.MockInfoService
	Intake       *mocks.MockIntakeService
	Token        *mocks.MockTokenService
	Housekeeping *mocks.MockHousekeepingService
}

// setupHandlers builds Handlers backed by fresh mocks and a fixed clock.
func setupHandlers(t *testing.T) (*Handlers, *testMocks) {
	t.Helper()
	m := &testMocks{
		Info:         new(mocks.MockInfoService),
		Intake:       new(mocks.MockIntakeService),
		Token:        new(mocks.MockTokenService),
		Housekeeping: new(mocks.MockHousekeepingService),
	}
	h := NewHandlers(m.Info, m.Intake, m.Token, m.Housekeeping)
	h.Now = func() time.Time { return fixedNow }
	h.Forms = formstate.NewRegistry(time.Minute)

	t.Cleanup(func() {
		m.Info.AssertExpectations(t)
		m.Intake.AssertExpectations(t)
		m.Token.AssertExpectations(t)
		m.Housekeeping.AssertExpectations(t)
	})
	return h, m
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

// withKey sets the {key} route variable the way the router would.
func withKey(req *http.Request, key string) *http.Request {
	return mux.SetURLVars(req, map[string]string{"key": key})
}
