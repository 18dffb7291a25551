package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-registry/internal/model"
)

func TestCreateRobot(t *testing.T) {
	testCases := []struct {
		name         string
		body         any
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "Created",
			body:         map[string]any{"name": "  Alpha ", "label": "Assembler", "year": 2000, "type": "industrial"},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Malformed body",
			body:         `{"name": `,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "INVALID_BODY",
		},
		{
			name:         "Year as text",
			body:         `{"name": "Alpha", "label": "Assembler", "year": "2000", "type": "industrial"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "INVALID_BODY",
		},
		{
			name:         "Field violations",
			body:         map[string]any{"name": "A", "label": "Assembler", "year": 1800, "type": "industrial"},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "VALIDATION_ERROR",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := setupRouter(t)

			w := request(t, router, http.MethodPost, "/api/robots", tc.body)
			assert.Equal(t, tc.expectedCode, w.Code, w.Body.String())
			if tc.expectedErr != "" {
				body := decode[map[string]any](t, w)
				assert.Equal(t, tc.expectedErr, body["code"])
				return
			}
			robot := decode[model.Robot](t, w)
			assert.Equal(t, "Alpha", robot.Name)
			assert.NotEmpty(t, robot.ID)
			assert.False(t, robot.Archived)
		})
	}
}

func TestCreateRobot_ValidationFields(t *testing.T) {
	router, _ := setupRouter(t)

	w := request(t, router, http.MethodPost, "/api/robots", map[string]any{"name": "A", "year": 2030, "type": "toaster"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "name must be at least 2 characters", body.Fields["name"])
	assert.Equal(t, "label is required", body.Fields["label"])
	assert.Equal(t, "year cannot be after 2025", body.Fields["year"])
	assert.Contains(t, body.Fields["type"], "type must be one of")
}

func TestCreateRobot_DuplicateName(t *testing.T) {
	router, _ := setupRouter(t)
	robot := createRobot(t, router, "Alpha", 2000, model.RobotTypeIndustrial)
	require.Equal(t, http.StatusOK, request(t, router, http.MethodPost, "/api/robots/"+robot.ID+"/archive", nil).Code)

	w := request(t, router, http.MethodPost, "/api/robots", model.RobotInput{Name: "Alpha", Label: "Another", Year: 2001, Type: model.RobotTypeService})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error": "a robot named \"Alpha\" already exists", "code": "DUPLICATE_NAME"}`, w.Body.String())
}

func TestGetRobot(t *testing.T) {
	router, _ := setupRouter(t)
	robot := createRobot(t, router, "Alpha", 2000, model.RobotTypeIndustrial)

	w := request(t, router, http.MethodGet, "/api/robots/"+robot.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, robot, decode[model.Robot](t, w))

	w = request(t, router, http.MethodGet, "/api/robots/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "robot missing not found", "code": "NOT_FOUND"}`, w.Body.String())
}

func TestGetRobot_NotServedFromOtherRoutesCache(t *testing.T) {
	router, _ := setupRouter(t)
	createRobot(t, router, "Alpha", 2000, model.RobotTypeIndustrial)

	require.Equal(t, http.StatusOK, request(t, router, http.MethodGet, "/api/stats", nil).Code)
	require.Equal(t, http.StatusOK, request(t, router, http.MethodGet, "/api/robots", nil).Code)

	w := request(t, router, http.MethodGet, "/api/robots/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, "NOT_FOUND", decode[map[string]any](t, w)["code"])
}

func TestUpdateRobot(t *testing.T) {
	router, _ := setupRouter(t)
	alpha := createRobot(t, router, "Alpha", 2000, model.RobotTypeIndustrial)
	createRobot(t, router, "Beta", 2001, model.RobotTypeService)

	testCases := []struct {
		name         string
		id           string
		body         any
		expectedCode int
		expectedErr  string
	}{
		{name: "Label only", id: alpha.ID, body: map[string]any{"label": " Painter "}, expectedCode: http.StatusOK},
		{name: "Empty update", id: alpha.ID, body: map[string]any{}, expectedCode: http.StatusBadRequest, expectedErr: "VALIDATION_ERROR"},
		{name: "Name taken", id: alpha.ID, body: map[string]any{"name": "Beta"}, expectedCode: http.StatusConflict, expectedErr: "DUPLICATE_NAME"},
		{name: "Unknown id", id: "missing", body: map[string]any{"year": 2010}, expectedCode: http.StatusNotFound, expectedErr: "NOT_FOUND"},
		{name: "Bad type", id: alpha.ID, body: map[string]any{"type": "toaster"}, expectedCode: http.StatusBadRequest, expectedErr: "VALIDATION_ERROR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := request(t, router, http.MethodPatch, "/api/robots/"+tc.id, tc.body)
			assert.Equal(t, tc.expectedCode, w.Code, w.Body.String())
			if tc.expectedErr != "" {
				assert.Equal(t, tc.expectedErr, decode[map[string]any](t, w)["code"])
			}
		})
	}

	w := request(t, router, http.MethodGet, "/api/robots/"+alpha.ID, nil)
	updated := decode[model.Robot](t, w)
	assert.Equal(t, "Painter", updated.Label)
	assert.Equal(t, "Alpha", updated.Name)
	assert.GreaterOrEqual(t, updated.UpdatedAt, updated.CreatedAt)
}

func TestArchiveRestoreDelete(t *testing.T) {
	router, _ := setupRouter(t)
	robot := createRobot(t, router, "Alpha", 2000, model.RobotTypeIndustrial)

	w := request(t, router, http.MethodPost, "/api/robots/"+robot.ID+"/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[model.Robot](t, w).Archived)

	w = request(t, router, http.MethodPost, "/api/robots/"+robot.ID+"/archive", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, router, http.MethodPost, "/api/robots/"+robot.ID+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[model.Robot](t, w).Archived)

	w = request(t, router, http.MethodPost, "/api/robots/missing/restore", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, router, http.MethodDelete, "/api/robots/"+robot.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = request(t, router, http.MethodDelete, "/api/robots/"+robot.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRobots(t *testing.T) {
	router, _ := setupRouter(t)
	createRobot(t, router, "Charlie", 2003, model.RobotTypeMedical)
	alpha := createRobot(t, router, "Alpha", 2001, model.RobotTypeIndustrial)
	createRobot(t, router, "Bravo", 2002, model.RobotTypeService)
	require.Equal(t, http.StatusOK, request(t, router, http.MethodPost, "/api/robots/"+alpha.ID+"/archive", nil).Code)

	testCases := []struct {
		name          string
		query         string
		expectedCode  int
		expectedNames []string
		expectedTotal int64
		expectedMore  bool
	}{
		{name: "Default listing", query: "", expectedCode: http.StatusOK, expectedNames: []string{"Bravo", "Charlie"}, expectedTotal: 2},
		{name: "Including archived", query: "?include_archived=true", expectedCode: http.StatusOK, expectedNames: []string{"Alpha", "Bravo", "Charlie"}, expectedTotal: 3},
		{name: "Year descending", query: "?sort=-year&include_archived", expectedCode: http.StatusOK, expectedNames: []string{"Charlie", "Bravo", "Alpha"}, expectedTotal: 3},
		{name: "Paged", query: "?limit=1&offset=0", expectedCode: http.StatusOK, expectedNames: []string{"Bravo"}, expectedTotal: 2, expectedMore: true},
		{name: "Search", query: "?q=arl", expectedCode: http.StatusOK, expectedNames: []string{"Charlie"}, expectedTotal: 1},
		{name: "Bad sort", query: "?sort=label", expectedCode: http.StatusBadRequest},
		{name: "Limit too large", query: "?limit=500", expectedCode: http.StatusBadRequest},
		{name: "Limit not a number", query: "?limit=many", expectedCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := request(t, router, http.MethodGet, "/api/robots"+tc.query, nil)
			require.Equal(t, tc.expectedCode, w.Code, w.Body.String())
			if tc.expectedCode != http.StatusOK {
				assert.Equal(t, "VALIDATION_ERROR", decode[map[string]any](t, w)["code"])
				return
			}
			page := decode[model.Page](t, w)
			var names []string
			for _, r := range page.Data {
				names = append(names, r.Name)
			}
			assert.Equal(t, tc.expectedNames, names)
			assert.Equal(t, tc.expectedTotal, page.Total)
			assert.Equal(t, tc.expectedMore, page.HasMore)
		})
	}
}

func TestListRobots_CacheFlushedByMutation(t *testing.T) {
	router, _ := setupRouter(t)
	createRobot(t, router, "Alpha", 2001, model.RobotTypeIndustrial)

	first := request(t, router, http.MethodGet, "/api/robots", nil)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := request(t, router, http.MethodGet, "/api/robots", nil)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))

	createRobot(t, router, "Bravo", 2002, model.RobotTypeService)

	third := request(t, router, http.MethodGet, "/api/robots", nil)
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, int64(2), decode[model.Page](t, third).Total)
}

func TestPurgeArchivedAndStats(t *testing.T) {
	router, _ := setupRouter(t)
	a := createRobot(t, router, "Alpha", 2001, model.RobotTypeIndustrial)
	b := createRobot(t, router, "Bravo", 2002, model.RobotTypeIndustrial)
	createRobot(t, router, "Charlie", 2003, model.RobotTypeMedical)
	for _, id := range []string{a.ID, b.ID} {
		require.Equal(t, http.StatusOK, request(t, router, http.MethodPost, "/api/robots/"+id+"/archive", nil).Code)
	}

	w := request(t, router, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total": 3, "active": 1, "archived": 2, "byType": {"medical": 1}}`, w.Body.String())

	w = request(t, router, http.MethodDelete, "/api/archived", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted": 2}`, w.Body.String())

	w = request(t, router, http.MethodGet, "/api/stats", nil)
	assert.JSONEq(t, `{"total": 1, "active": 1, "archived": 0, "byType": {"medical": 1}}`, w.Body.String())
}
