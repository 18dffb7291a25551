package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"robot-registry/config"
	"robot-registry/internal/db/dbtest"
	"robot-registry/internal/model"
	"robot-registry/internal/repository"
	"robot-registry/internal/transfer"
	"robot-registry/internal/validation"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func setupRouter(t *testing.T) (*gin.Engine, *repository.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.New(dbtest.OpenStore(t))
	v := validation.NewWithClock(fixedNow)
	engine := transfer.New(repo, transfer.WithInputCheck(v.Input), transfer.WithClock(fixedNow))
	handler := NewHandler(repo, v, engine, "robots_export.json")

	cfg := config.Default().Server
	cfg.RateLimitPerSec = 1000
	cfg.RateLimitBurst = 1000
	return NewRouter(handler, cfg), repo
}

func request(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createRobot(t *testing.T, router http.Handler, name string, year int, typ model.RobotType) model.Robot {
	t.Helper()
	w := request(t, router, http.MethodPost, "/api/robots", model.RobotInput{Name: name, Label: "Label " + name, Year: year, Type: typ})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.Robot](t, w)
}
