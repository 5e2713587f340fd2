package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pior/routeros"
	"github.com/pior/routeros/internal/promexporter"
	"github.com/pior/routeros/internal/testutils"
	"github.com/pior/routeros/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type executorMock struct {
	result routeros.Result
	words  []string
	shape  routeros.Shape
}

func (m *executorMock) Execute(ctx context.Context, words []string, shape routeros.Shape) routeros.Result {
	m.words = words
	m.shape = shape
	return m.result
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestUsers(t *testing.T) {
	exec := &executorMock{result: routeros.NewResult([]wire.Record{{"name": "alice", "password": "pw1"}})}
	h := NewHandler(exec, nil, nil).Routes()

	rec := get(t, h, "/api/v1/users")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":[{"name":"alice","password":"pw1"}]}`, rec.Body.String())
	assert.Equal(t, HotspotUsersCommand, exec.words)
	assert.Equal(t, routeros.ShapeRecords, exec.shape)
}

func TestUsersFailure(t *testing.T) {
	exec := &executorMock{result: routeros.NewErrorResult(&routeros.LoginError{Message: "invalid user name or password (6)"})}
	h := NewHandler(exec, nil, nil).Routes()

	rec := get(t, h, "/api/v1/users")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":{"kind":"login","message":"routeros: login failed: invalid user name or password (6)"}}`, rec.Body.String())
}

func TestMetrics(t *testing.T) {
	exec := &executorMock{result: routeros.NewResult([]wire.Record{})}
	h := NewHandler(exec, nil, nil).Routes()

	get(t, h, "/api/v1/users")
	get(t, h, "/api/v1/users")

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `routeros_http_requests_total{path="/api/v1/users",result="ok"} 2`)
	assert.Contains(t, rec.Body.String(), `routeros_http_requests_total{path="/api/v1/users",result="error"} 0`)
	assert.Contains(t, rec.Body.String(), `routeros_http_request_duration_seconds_count{path="/api/v1/users"} 2`)
}

func TestIndexAndRouting(t *testing.T) {
	h := NewHandler(&executorMock{}, nil, nil).Routes()

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/users")

	assert.Equal(t, http.StatusNotFound, get(t, h, "/nope").Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUsersAgainstRouter(t *testing.T) {
	router := testutils.NewFakeRouter(t, testutils.LoginHandler("api", "pw",
		[]string{"=.id=*1", "=name=alice", "=limit-uptime=1h"},
		[]string{"=.id=*2", "=name=bob", "=bytes-in=120"},
	))

	config := routeros.DefaultConfig()
	config.Address = router.Addr()
	config.Username = "api"
	config.Password = "pw"
	config.SettleDelay = 0
	session := routeros.NewSession(config)
	h := NewHandler(session, promexporter.NewExporter(session), nil).Routes()

	rec := get(t, h, "/api/v1/users")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[
		{"id":"1","name":"alice","limitUptime":"1h"},
		{"id":"2","name":"bob","bytesIn":120}
	]}`, rec.Body.String())

	rec = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `routeros_http_requests_total{path="/api/v1/users",result="ok"} 1`)
	assert.Contains(t, body, fmt.Sprintf(`routeros_session_logins_total{router="%s"} 1`, router.Addr()))
	assert.Contains(t, body, fmt.Sprintf(`routeros_session_commands_total{router="%s"} 1`, router.Addr()))
}
