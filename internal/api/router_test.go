package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohits-web03/worklog/internal/models"
	"github.com/rohits-web03/worklog/internal/testsupport"
)

type client struct {
	t       *testing.T
	handler http.Handler
	apiKey  string
}

func newClient(t *testing.T) *client {
	testsupport.NewDB(t)
	return &client{t: t, handler: SetupRouter()}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// login registers email and stores the issued key on the client.
func (c *client) login(email string) string {
	c.t.Helper()
	rr := c.do(http.MethodPost, "/register", map[string]string{"username": "u", "email": email, "password": "pw"})
	require.Equal(c.t, http.StatusOK, rr.Code, rr.Body.String())
	rr = c.do(http.MethodPost, "/login", map[string]string{"email": email, "password": "pw"})
	require.Equal(c.t, http.StatusOK, rr.Code, rr.Body.String())
	c.apiKey = decode[map[string]string](c.t, rr)["apiKey"]
	return c.apiKey
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	rr := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestMetricsExposeRoutePatterns(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodGet, "/health", nil)

	rr := c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `worklog_http_requests_total{method="GET",route="GET /health",status="200"}`)
}

func TestPreflightAnsweredWithoutKey(t *testing.T) {
	c := newClient(t)
	req := httptest.NewRequest(http.MethodOptions, "/activities", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "x-api-key")
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)

	assert.NotEqual(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRegisterFlow(t *testing.T) {
	c := newClient(t)

	rr := c.do(http.MethodPost, "/register", map[string]string{"username": "ann", "email": "ann@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Registered user: ann","email":"ann@example.com"}`, rr.Body.String())

	rr = c.do(http.MethodPost, "/register", map[string]string{"username": "ann2", "email": "ann@example.com", "password": "pw2"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"User with this email already exists"}`, rr.Body.String())

	rr = c.do(http.MethodPost, "/register", map[string]string{"username": "ben", "email": "ben@example.com"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Password is required"}`, rr.Body.String())
}

func TestLoginFailures(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodPost, "/register", map[string]string{"email": "cat@example.com", "password": "pw"})

	rr := c.do(http.MethodPost, "/login", map[string]string{"email": "dog@example.com", "password": "pw"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = c.do(http.MethodPost, "/login", map[string]string{"email": "cat@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"message":"Invalid password"}`, rr.Body.String())
}

func TestLoginKeyAuthorizesUntilLogout(t *testing.T) {
	c := newClient(t)
	key := c.login("dan@example.com")
	assert.Regexp(t, `^[0-9a-f]{32}$`, key)

	rr := c.do(http.MethodGet, "/test", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Test route is working!"}`, rr.Body.String())

	rr = c.do(http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully"}`, rr.Body.String())

	rr = c.do(http.MethodGet, "/test", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"message":"Invalid API key"}`, rr.Body.String())

	c.apiKey = ""
	rr = c.do(http.MethodGet, "/activities", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCalculateDuration(t *testing.T) {
	c := newClient(t)
	c.login("dur@example.com")

	rr := c.do(http.MethodPost, "/calculate-duration", map[string]string{
		"dateFrom": "2024-04-04", "hoursFrom": "09:00", "dateTo": "2024-04-04", "hoursTo": "17:30",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"hours":8,"minutes":30}`, rr.Body.String())

	rr = c.do(http.MethodPost, "/calculate-duration", map[string]string{
		"dateFrom": "2024-04-04", "hoursFrom": "9am", "dateTo": "2024-04-04", "hoursTo": "17:30",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestActivities(t *testing.T) {
	c := newClient(t)
	c.login("act@example.com")

	rr := c.do(http.MethodPost, "/activities", map[string]string{"activity": "Coding", "description": "code", "color": "#00ff00"})
	require.Equal(t, http.StatusOK, rr.Code)
	created := decode[struct {
		Message  string          `json:"message"`
		Activity models.Activity `json:"activity"`
	}](t, rr)
	assert.Equal(t, "Activity added successfully", created.Message)
	assert.Equal(t, "Coding", created.Activity.Name)

	rr = c.do(http.MethodPost, "/activities", map[string]string{"activity": "Coding"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code, "activity names are unique")

	rr = c.do(http.MethodGet, "/activities", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]models.Activity](t, rr)
	require.Len(t, list, 1)

	rr = c.do(http.MethodGet, "/activities/"+itoa(created.Activity.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "#00ff00", decode[models.Activity](t, rr).Color)

	rr = c.do(http.MethodGet, "/activities/9999", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"Activity not found"}`, rr.Body.String())
}

func TestActivityUpsert(t *testing.T) {
	c := newClient(t)
	c.login("ups@example.com")

	rr := c.do(http.MethodPost, "/activities/500", map[string]string{"activity": "Reading", "color": "#111111"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Activity added successfully")

	rr = c.do(http.MethodPost, "/activities/500", map[string]string{"activity": "Reading", "description": "books", "color": "#222222"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Activity updated successfully")

	list := decode[[]models.Activity](t, c.do(http.MethodGet, "/activities", nil))
	require.Len(t, list, 1)
	assert.EqualValues(t, 500, list[0].ID)
	assert.Equal(t, "#222222", list[0].Color)

	rr = c.do(http.MethodPost, "/activities/abc", map[string]string{"activity": "X"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestActivitiesAreScopedToOwner(t *testing.T) {
	c := newClient(t)
	c.login("one@example.com")
	rr := c.do(http.MethodPost, "/activities", map[string]string{"activity": "Private"})
	require.Equal(t, http.StatusOK, rr.Code)
	id := decode[struct {
		Activity models.Activity `json:"activity"`
	}](t, rr).Activity.ID

	c.login("two@example.com")
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/activities/"+itoa(id), nil).Code)
	assert.Empty(t, decode[[]models.Activity](t, c.do(http.MethodGet, "/activities", nil)))
}

func TestWorkingHours(t *testing.T) {
	c := newClient(t)
	c.login("wh@example.com")
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/activities", map[string]string{"activity": "Coding", "color": "#abcdef"}).Code)

	entry := map[string]string{
		"dateFrom": "2024-04-04", "dateTo": "2024-04-04", "hoursFrom": "09:00", "hoursTo": "17:30",
		"activity": "Coding", "description": "feature work",
	}
	rr := c.do(http.MethodPost, "/workinghours", entry)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	created := decode[struct {
		Message      string              `json:"message"`
		WorkingHours models.WorkingHours `json:"workingHours"`
	}](t, rr)
	assert.Equal(t, "Working hours added successfully", created.Message)
	require.NotNil(t, created.WorkingHours.Duration)
	assert.Equal(t, 510, *created.WorkingHours.Duration)

	orphan := map[string]string{
		"dateFrom": "2024-04-05", "dateTo": "2024-04-05", "hoursFrom": "10:00", "hoursTo": "11:00",
		"activity": "Unknown", "description": "",
	}
	rr = c.do(http.MethodPost, "/workinghours", orphan)
	require.Equal(t, http.StatusOK, rr.Code)
	orphanID := decode[struct {
		WorkingHours models.WorkingHours `json:"workingHours"`
	}](t, rr).WorkingHours.ID

	rr = c.do(http.MethodGet, "/workinghours", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var listed []struct {
		ID       uint   `json:"id"`
		Activity string `json:"activity"`
		Color    string `json:"color"`
		Duration struct {
			Hours   int `json:"hours"`
			Minutes int `json:"minutes"`
		} `json:"duration"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1, "entries without a matching activity are dropped from the list")
	assert.Equal(t, "#abcdef", listed[0].Color)
	assert.Equal(t, 8, listed[0].Duration.Hours)
	assert.Equal(t, 30, listed[0].Duration.Minutes)

	rr = c.do(http.MethodGet, "/workinghours/"+itoa(orphanID), nil)
	require.Equal(t, http.StatusOK, rr.Code, "the orphan is still stored")

	rr = c.do(http.MethodGet, "/workinghours/4242", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"Working hour not found"}`, rr.Body.String())
}

func TestUpdateWorkingHours(t *testing.T) {
	c := newClient(t)
	c.login("upd@example.com")

	entry := map[string]string{
		"dateFrom": "2024-04-04", "dateTo": "2024-04-04", "hoursFrom": "09:00", "hoursTo": "10:00",
		"activity": "Coding", "description": "",
	}
	rr := c.do(http.MethodPost, "/workinghours", entry)
	require.Equal(t, http.StatusOK, rr.Code)
	id := decode[struct {
		WorkingHours models.WorkingHours `json:"workingHours"`
	}](t, rr).WorkingHours.ID

	entry["hoursTo"] = "12:00"
	entry["description"] = "longer"
	rr = c.do(http.MethodPost, "/workinghours/update/"+itoa(id), entry)
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decode[models.WorkingHours](t, rr)
	assert.Equal(t, "12:00", updated.HoursTo)
	assert.Equal(t, "longer", updated.Description)

	rr = c.do(http.MethodPost, "/workinghours/update/9999", entry)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"message":"Working hours not found"}`, rr.Body.String())

	var count int64
	require.NoError(t, testDB(t).Model(&models.WorkingHours{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "a missed update never inserts")
}

func TestTotalWorkingHours(t *testing.T) {
	c := newClient(t)
	c.login("tot@example.com")

	rr := c.do(http.MethodPost, "/workinghours", map[string]string{
		"dateFrom": "2024-04-04", "dateTo": "2024-04-04", "hoursFrom": "09:00", "hoursTo": "11:30",
		"activity": "Coding", "description": "",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = c.do(http.MethodGet, "/calculate-total-working-hours?date=2024-04-04", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	totals := decode[map[string]float64](t, rr)
	assert.Equal(t, 2.5, totals["day"])
	for _, k := range []string{"week", "month", "year"} {
		_, ok := totals[k]
		assert.True(t, ok, k)
	}

	rr = c.do(http.MethodGet, "/calculate-total-working-hours?date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMalformedBodiesRejected(t *testing.T) {
	c := newClient(t)
	c.login("bad@example.com")

	rr := c.do(http.MethodPost, "/activities", map[string]string{"color": "#fff"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Activity is required"}`, rr.Body.String())

	rr = c.do(http.MethodPost, "/activities/3", map[string]string{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = c.do(http.MethodPost, "/workinghours", map[string]string{
		"dateFrom": "2024-04-04", "hoursFrom": "09:00", "dateTo": "2024-04-04", "hoursTo": "17:00",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"Activity is required"}`, rr.Body.String())

	rr = c.do(http.MethodPost, "/workinghours", map[string]string{
		"dateFrom": "04/04/2024", "hoursFrom": "09:00", "dateTo": "2024-04-04", "hoursTo": "17:00", "activity": "Dev",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	list := decode[[]map[string]any](t, c.do(http.MethodGet, "/workinghours", nil))
	assert.Empty(t, list)
}
