package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"reliability/config"
	"reliability/debug"
)

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestData(t *testing.T) {
	s := New(config.Default())
	w := get(t, s, "/data.json?model=recoverable&points=25&end=1000&mu1h=0.1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rec debug.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	require.Equal(t, "Recoverable", rec.Model)
	require.Len(t, rec.Time, 25)
	require.Len(t, rec.States, 30)
	require.Equal(t, 1000.0, rec.Time[24])
	require.True(t, rec.Success)
	require.Equal(t, uint64(1), rec.ID)

	// 基础配置不受查询参数影响
	w = get(t, s, "/data.json")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	require.Equal(t, "Nonrecoverable", rec.Model)
	require.Len(t, rec.Time, 200)
	require.Equal(t, uint64(2), rec.ID)
}

func TestNotNumber(t *testing.T) {
	s := New(config.Default())
	w := get(t, s, "/?lambda1=fast")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), config.ErrNotNumber.Error())

	w = get(t, s, "/?gamma=1")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStrictRejectsNegativeRate(t *testing.T) {
	base := config.Default()
	base.Strict = true
	s := New(base)
	w := get(t, s, "/data.json?lambda2=-1")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, New(config.Default()), "/data.json?lambda2=-1e-4")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestNotConverged(t *testing.T) {
	base := config.Default()
	base.Solver.MaxSteps = 1
	w := get(t, New(base), "/data.json")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCharts(t *testing.T) {
	w := get(t, New(config.Default()), "/?model=nonrecoverable")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	require.Contains(t, w.Body.String(), debug.OperationalName)
}

func TestPlot(t *testing.T) {
	s := New(config.Default())
	w := get(t, s, "/plot/png?points=20")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/png", w.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))

	w = get(t, s, "/plot/bmp")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParameters(t *testing.T) {
	w := get(t, New(config.Default()), "/parameters")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Parameters []string `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body.Parameters, "lambda1s")
}
