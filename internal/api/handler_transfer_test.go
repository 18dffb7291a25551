package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-registry/internal/model"
	"robot-registry/internal/transfer"
)

func TestExport(t *testing.T) {
	router, _ := setupRouter(t)
	createRobot(t, router, "Bravo", 2002, model.RobotTypeService)
	alpha := createRobot(t, router, "Alpha", 2001, model.RobotTypeIndustrial)
	require.Equal(t, http.StatusOK, request(t, router, http.MethodPost, "/api/robots/"+alpha.ID+"/archive", nil).Code)

	w := request(t, router, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="robots_export.json"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	env := decode[transfer.Envelope](t, w)
	assert.Equal(t, "1.0", env.Version)
	assert.Equal(t, "2025-06-01T12:00:00.000Z", env.ExportDate)
	assert.Equal(t, 1, env.Count)
	require.Len(t, env.Robots, 1)
	assert.Equal(t, "Bravo", env.Robots[0].Name)

	w = request(t, router, http.MethodGet, "/api/export?include_archived=true", nil)
	env = decode[transfer.Envelope](t, w)
	assert.Equal(t, 2, env.Count)
	assert.Equal(t, "Alpha", env.Robots[0].Name)
}

func TestExport_BadFlag(t *testing.T) {
	router, _ := setupRouter(t)

	for _, path := range []string{"/api/export?include_archived=maybe", "/api/robots?include_archived=maybe"} {
		w := request(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		body := decode[map[string]any](t, w)
		assert.Equal(t, "VALIDATION_ERROR", body["code"], path)
		assert.Equal(t, "include_archived must be a boolean", body["error"], path)
	}
}

func TestImport_RoundTripThroughHTTP(t *testing.T) {
	source, _ := setupRouter(t)
	createRobot(t, source, "Alpha", 2001, model.RobotTypeIndustrial)
	createRobot(t, source, "Bravo", 2002, model.RobotTypeService)
	exported := request(t, source, http.MethodGet, "/api/export?include_archived", nil)
	require.Equal(t, http.StatusOK, exported.Code)

	target, _ := setupRouter(t)
	createRobot(t, target, "Bravo", 1999, model.RobotTypeOther)

	w := request(t, target, http.MethodPost, "/api/import", exported.Body.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success": 1, "duplicates": 1, "errors": []}`, w.Body.String())

	w = request(t, target, http.MethodGet, "/api/stats", nil)
	assert.JSONEq(t, `{"total": 2, "active": 2, "archived": 0, "byType": {"industrial": 1, "other": 1}}`, w.Body.String())
}

func TestImport_InvalidEnvelope(t *testing.T) {
	router, _ := setupRouter(t)

	w := request(t, router, http.MethodPost, "/api/import", `{"robots": [{"name": "x"}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[struct {
		Error      string   `json:"error"`
		Code       string   `json:"code"`
		Violations []string `json:"violations"`
	}](t, w)
	assert.Equal(t, "INVALID_FORMAT", body.Code)
	assert.Len(t, body.Violations, 5)
	assert.Contains(t, body.Error, "robot 1: label is missing")
}

func TestImport_RecordErrors(t *testing.T) {
	router, _ := setupRouter(t)

	w := request(t, router, http.MethodPost, "/api/import",
		`{"robots": [{"name": "Alpha", "label": "Assembler", "year": 1900, "type": "industrial"}], "exportDate": "d", "version": "1.0"}`)
	require.Equal(t, http.StatusOK, w.Code)

	result := decode[transfer.ImportResult](t, w)
	assert.Equal(t, 0, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, "year must be 1950 or later", result.Errors[0].Error)
}

func TestValidateImport(t *testing.T) {
	router, _ := setupRouter(t)

	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "Valid",
			body:     `{"robots": [], "exportDate": "d", "version": "1.0"}`,
			expected: `{"valid": true, "errors": []}`,
		},
		{
			name:     "Malformed",
			body:     `{`,
			expected: `{"valid": false, "errors": ["invalid JSON"]}`,
		},
		{
			name:     "Missing metadata",
			body:     `{"robots": []}`,
			expected: `{"valid": false, "errors": ["export date is missing", "version is missing"]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := request(t, router, http.MethodPost, "/api/import/validate", tc.body)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tc.expected, w.Body.String())
		})
	}
}
