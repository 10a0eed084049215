package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/usecase"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := utils.InitValidator(); err != nil {
		panic(err)
	}
}

// withUser stands in for AuthMiddleware.
func withUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
			c.Set("access_token", "access-"+userID)
		}
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type mockEvents struct {
	EventService
	created    *model.CalendarEvent
	deleteType string
	deleteErr  error
	ics        string
}

func (m *mockEvents) CreateEvent(_ context.Context, e *model.CalendarEvent) error {
	e.ID = "ev-1"
	m.created = e
	return nil
}

func (m *mockEvents) DeleteEvent(_ context.Context, _, _, deleteType string) (*usecase.DeleteResult, error) {
	m.deleteType = deleteType
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	dt, _ := usecase.ParseDeleteType(deleteType)
	return &usecase.DeleteResult{DeleteType: dt, Deleted: 1}, nil
}

func (m *mockEvents) ExportICS(context.Context, string) (string, error) {
	return m.ics, nil
}

func (m *mockEvents) ListEvents(_ context.Context, _ string, from, to time.Time) ([]*model.CalendarEvent, error) {
	if to.Before(from) {
		return nil, &usecase.ValidationError{Field: "end", Message: "must not be before start"}
	}
	return []*model.CalendarEvent{}, nil
}

func eventRouter(m *mockEvents, userID string) *gin.Engine {
	h := NewEventHandler(m)
	r := gin.New()
	g := r.Group("/api", withUser(userID))
	g.GET("/events", h.ListEvents)
	g.GET("/events/export.ics", h.ExportICS)
	g.POST("/events", h.CreateEvent)
	g.DELETE("/events/:id", h.DeleteEvent)
	return r
}

func TestEventHandlerRequiresUser(t *testing.T) {
	w := doJSON(eventRouter(&mockEvents{}, ""), http.MethodGet, "/api/events", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode(t, w)["error"])
}

func TestEventHandlerDelete(t *testing.T) {
	m := &mockEvents{}
	r := eventRouter(m, "u1")

	w := doJSON(r, http.MethodDelete, "/api/events/ev-1?deleteType=all", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "all", m.deleteType)
	assert.Equal(t, "Recurring series deleted", decode(t, w)["message"])

	w = doJSON(r, http.MethodDelete, "/api/events/ev-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", m.deleteType)

	m.deleteErr = usecase.ErrEventNotFound
	w = doJSON(r, http.MethodDelete, "/api/events/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Event not found", decode(t, w)["error"])

	m.deleteErr = &usecase.ValidationError{Field: "deleteType", Message: "bogus"}
	w = doJSON(r, http.MethodDelete, "/api/events/ev-1?deleteType=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	m.deleteErr = errors.New("connection reset")
	w = doJSON(r, http.MethodDelete, "/api/events/ev-1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to delete event", decode(t, w)["error"])
}

func TestEventHandlerCreate(t *testing.T) {
	m := &mockEvents{}
	r := eventRouter(m, "u1")

	w := doJSON(r, http.MethodPost, "/api/events", map[string]interface{}{
		"title":      "standup",
		"start":      "2024-03-04T09:00:00Z",
		"end":        "2024-03-04T09:15:00Z",
		"frequency":  "week",
		"by_weekday": []string{"monday"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, m.created)
	assert.Equal(t, "u1", m.created.UserID)
	assert.Equal(t, model.FrequencyWeek, m.created.Frequency)

	m.created = nil
	w = doJSON(r, http.MethodPost, "/api/events", map[string]interface{}{
		"title":      "standup",
		"start":      "2024-03-04T09:00:00Z",
		"by_weekday": []string{"funday"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, m.created)
}

func TestEventHandlerRangeAndExport(t *testing.T) {
	m := &mockEvents{ics: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}
	r := eventRouter(m, "u1")

	w := doJSON(r, http.MethodGet, "/api/events?start=2024-03-10&end=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/events?start=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/events/export.ics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar"))
	assert.Equal(t, m.ics, w.Body.String())
}

type mockGoals struct {
	GoalService
	window usecase.Window
	bulk   func([]usecase.SubtaskStatusChange) (*usecase.BulkStatusResult, error)
}

func (m *mockGoals) Timeline(_ context.Context, _ string, w usecase.Window) ([]usecase.TimelineItem, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	m.window = w
	return []usecase.TimelineItem{}, nil
}

func (m *mockGoals) BulkUpdateSubtaskStatus(_ context.Context, _, _ string, changes []usecase.SubtaskStatusChange) (*usecase.BulkStatusResult, error) {
	return m.bulk(changes)
}

func goalRouter(m *mockGoals) *gin.Engine {
	h := NewGoalHandler(m)
	h.now = func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) }
	r := gin.New()
	g := r.Group("/api", withUser("u1"))
	g.GET("/goals/timeline", h.Timeline)
	g.PUT("/goals/:id/subtasks/status", h.BulkUpdateSubtaskStatus)
	return r
}

func TestGoalHandlerTimeline(t *testing.T) {
	m := &mockGoals{}
	r := goalRouter(m)

	w := doJSON(r, http.MethodGet, "/api/goals/timeline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultTimelineDays, m.window.Days)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), m.window.Start)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "2024-04-08", data["end"])

	w = doJSON(r, http.MethodGet, "/api/goals/timeline?start=2024-01-01&days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, m.window.Days)

	w = doJSON(r, http.MethodGet, "/api/goals/timeline?days=week", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(r, http.MethodGet, "/api/goals/timeline?days=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoalHandlerBulkStatus(t *testing.T) {
	m := &mockGoals{}
	r := goalRouter(m)

	m.bulk = func(changes []usecase.SubtaskStatusChange) (*usecase.BulkStatusResult, error) {
		return &usecase.BulkStatusResult{Updated: []string{"a", "b"}}, nil
	}
	body := map[string]interface{}{"changes": []map[string]string{
		{"subtask_id": "a", "status": "Done"},
		{"subtask_id": "b", "status": "In Review"},
	}}
	w := doJSON(r, http.MethodPut, "/api/goals/g1/subtasks/status", body)
	assert.Equal(t, http.StatusOK, w.Code)

	m.bulk = func(changes []usecase.SubtaskStatusChange) (*usecase.BulkStatusResult, error) {
		res := &usecase.BulkStatusResult{
			Updated: []string{"a"},
			Failed:  []usecase.SubtaskFailure{{SubtaskID: "b", Error: "timeout"}},
		}
		return res, &usecase.BulkUpdateError{Result: res}
	}
	w = doJSON(r, http.MethodPut, "/api/goals/g1/subtasks/status", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "1 of 2 subtask updates failed", resp["error"])
	assert.NotNil(t, resp["data"])

	w = doJSON(r, http.MethodPut, "/api/goals/g1/subtasks/status", map[string]interface{}{
		"changes": []map[string]string{{"subtask_id": "a", "status": "Finished"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type mockHabits struct {
	HabitService
	day   time.Time
	count int
}

func (m *mockHabits) LogCompletion(_ context.Context, userID, habitID string, date time.Time, count int, notes string) (*model.HabitCompletion, error) {
	m.day, m.count = date, count
	return &model.HabitCompletion{HabitID: habitID, UserID: userID, Date: date, Count: count}, nil
}

func TestHabitHandlerLogCompletion(t *testing.T) {
	m := &mockHabits{}
	h := NewHabitHandler(m)
	r := gin.New()
	r.POST("/habits/:id/completions", withUser("u1"), h.LogCompletion)

	w := doJSON(r, http.MethodPost, "/habits/h1/completions", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, m.count)
	assert.True(t, m.day.IsZero())

	w = doJSON(r, http.MethodPost, "/habits/h1/completions", map[string]interface{}{"date": "2024-03-09", "count": 2})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2, m.count)
	assert.Equal(t, "2024-03-09", utils.FormatDate(m.day))

	w = doJSON(r, http.MethodPost, "/habits/h1/completions", map[string]interface{}{"date": "09/03/2024"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type mockSettings struct {
	SettingService
	created *model.Setting
}

func (m *mockSettings) CreateSetting(_ context.Context, s *model.Setting) error {
	m.created = s
	return nil
}

func TestSettingsHandlerCreate(t *testing.T) {
	m := &mockSettings{}
	h := NewSettingsHandler(m)
	r := gin.New()
	r.POST("/settings", withUser("u1"), h.CreateSetting)

	w := doJSON(r, http.MethodPost, "/settings", map[string]interface{}{
		"type": "limit", "urls": []string{"youtube.com"}, "limit_minutes": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, m.created.Enabled)
	assert.Equal(t, model.SettingType("limit"), m.created.Type)

	m.created = nil
	w = doJSON(r, http.MethodPost, "/settings", map[string]interface{}{"type": "snooze", "urls": []string{"a.com"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, m.created)
}

type mockAuth struct {
	AuthService
	login *usecase.LoginResult
	err   error
}

func (m *mockAuth) Login(context.Context, usecase.LoginInput) (*usecase.LoginResult, error) {
	return m.login, m.err
}

func (m *mockAuth) Register(_ context.Context, username, email, _ string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.User{UserID: "u1", Username: username, Email: email, Password: "salt$hash"}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	m := &mockAuth{}
	h := NewAuthHandler(m)
	r := gin.New()
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)
	creds := map[string]string{"username": "alice", "password": "passw0rd!"}

	m.login = &usecase.LoginResult{RequiresTwoFactor: true}
	w := doJSON(r, http.MethodPost, "/login", creds)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Set-Cookie"))

	m.login = &usecase.LoginResult{
		User:         &model.User{UserID: "u1", Username: "alice"},
		Session:      &model.Session{SessionID: "s1", ExpiresAt: time.Now().Add(time.Hour)},
		AccessToken:  "a",
		RefreshToken: "r",
	}
	w = doJSON(r, http.MethodPost, "/login", creds)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "session_id=s1")
	assert.NotContains(t, w.Body.String(), "password")

	m.login, m.err = nil, usecase.ErrInvalidCredentials
	w = doJSON(r, http.MethodPost, "/login", creds)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/register", map[string]string{
		"username": "alice", "email": "a@example.com", "password": "passw0rd!",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	m.err = &usecase.ConflictError{Message: "Username already taken"}
	w = doJSON(r, http.MethodPost, "/register", map[string]string{
		"username": "alice", "email": "a@example.com", "password": "passw0rd!",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	m.err = nil
	w = doJSON(r, http.MethodPost, "/register", map[string]string{
		"username": "alice", "email": "a@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/register", map[string]string{
		"username": "alice", "email": "a@example.com", "password": "passw0rd!",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "salt$hash")
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("no route to host") }

	r := gin.New()
	r.GET("/health", NewHealthHandler("test", map[string]HealthCheck{"mongo": ok}).Health)
	w := doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	r = gin.New()
	r.GET("/health", NewHealthHandler("test", map[string]HealthCheck{"mongo": ok, "redis": down}).Health)
	w = doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	deps := decode(t, w)["data"].(map[string]interface{})["dependencies"].(map[string]interface{})
	assert.Equal(t, "down", deps["redis"])
	assert.Equal(t, "up", deps["mongo"])
}
