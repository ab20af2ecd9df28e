package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubashG45/Task-Management/internal/application"
	"github.com/SubashG45/Task-Management/internal/domain/entity"
	repo "github.com/SubashG45/Task-Management/internal/domain/repository"
	"github.com/SubashG45/Task-Management/internal/interface/middleware"
	"github.com/SubashG45/Task-Management/pkg/helpers"
	"github.com/SubashG45/Task-Management/pkg/validation"
)

type fakeTaskRepo struct {
	seq   int
	tasks map[string]entity.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]entity.Task{}}
}

func (f *fakeTaskRepo) Create(_ context.Context, t *entity.Task) error {
	f.seq++
	t.ID = fmt.Sprintf("task-%04d", f.seq)
	t.CreatedAt = time.Unix(int64(1700000000+f.seq), 0)
	t.UpdatedAt = t.CreatedAt
	f.tasks[t.ID] = *t
	return nil
}

func (f *fakeTaskRepo) List(_ context.Context, userID string, flt repo.TaskFilter) ([]entity.Task, error) {
	out := []entity.Task{}
	for _, t := range f.tasks {
		if t.UserID != userID {
			continue
		}
		if flt.Completed != nil && t.Completed != *flt.Completed {
			continue
		}
		if flt.Priority != "" && t.Priority != flt.Priority {
			continue
		}
		if flt.Search != "" {
			s := strings.ToLower(flt.Search)
			if !strings.Contains(strings.ToLower(t.Title), s) &&
				!strings.Contains(strings.ToLower(t.Description), s) {
				continue
			}
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, userID, id string) (*entity.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repo.ErrNotFound
	}
	cp := t
	return &cp, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, userID string, t *entity.Task) error {
	existing, ok := f.tasks[t.ID]
	if !ok || existing.UserID != userID {
		return repo.ErrNotFound
	}
	f.tasks[t.ID] = *t
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, userID, id string) error {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return repo.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

type taskAPI struct {
	router *gin.Engine
	jwt    *helpers.JWTManager
	repo   *fakeTaskRepo
}

func newTaskAPI(t *testing.T) *taskAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	r := newFakeTaskRepo()
	jwt := helpers.NewJWTManager("handler-test-secret", time.Hour)
	svc := application.NewTaskService(r, nil, nil, nil, "", 0)
	h := NewTaskHandler(svc, nil)

	engine := gin.New()
	g := engine.Group("/tasks", middleware.Auth(jwt))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/export/csv", h.ExportCSV)
	g.GET("/search", h.Search)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.DELETE("/:id", h.Delete)

	return &taskAPI{router: engine, jwt: jwt, repo: r}
}

func (a *taskAPI) do(t *testing.T, userID, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *strings.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	} else {
		rdr = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, _, err := a.jwt.GenerateAccessToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func taskIDFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var parsed struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	require.NotEmpty(t, parsed.Data.ID)
	return parsed.Data.ID
}

func TestTaskHandler_RequiresAuth(t *testing.T) {
	api := newTaskAPI(t)

	w := api.do(t, "", http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTaskHandler_CreateIgnoresClientSuppliedOwner(t *testing.T) {
	api := newTaskAPI(t)

	w := api.do(t, "alice", http.MethodPost, "/tasks",
		`{"title":"sneaky","userId":"bob","user_id":"bob"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var parsed struct {
		Data entity.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.Equal(t, "alice", parsed.Data.UserID)

	// bob sees nothing
	w = api.do(t, "bob", http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "sneaky")
}

func TestTaskHandler_CreateValidation(t *testing.T) {
	api := newTaskAPI(t)

	w := api.do(t, "alice", http.MethodPost, "/tasks", `{"description":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, "alice", http.MethodPost, "/tasks", `{"title":"x","priority":"urgent"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, "alice", http.MethodPost, "/tasks", `{"title":"x","status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_ListFilters(t *testing.T) {
	api := newTaskAPI(t)

	for _, body := range []string{
		`{"title":"high pending","priority":"high"}`,
		`{"title":"high done","priority":"high","status":"completed"}`,
		`{"title":"low pending","priority":"low"}`,
	} {
		w := api.do(t, "alice", http.MethodPost, "/tasks", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := api.do(t, "alice", http.MethodGet, "/tasks?priority=high&status=pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "high pending")
	assert.NotContains(t, w.Body.String(), "high done")
	assert.NotContains(t, w.Body.String(), "low pending")

	w = api.do(t, "alice", http.MethodGet, "/tasks?search=HIGH", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "high pending")
	assert.Contains(t, w.Body.String(), "high done")
	assert.NotContains(t, w.Body.String(), "low pending")
}

func TestTaskHandler_ListRejectsInvalidFilterValues(t *testing.T) {
	api := newTaskAPI(t)

	w := api.do(t, "alice", http.MethodGet, "/tasks?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, "alice", http.MethodGet, "/tasks?priority=urgent", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_UpdateForeignTaskIsNotFound(t *testing.T) {
	api := newTaskAPI(t)

	w := api.do(t, "bob", http.MethodPost, "/tasks", `{"title":"bob's"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := taskIDFrom(t, w)

	w = api.do(t, "alice", http.MethodPut, "/tasks/"+id, `{"title":"hijacked"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, "alice", http.MethodDelete, "/tasks/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// untouched for bob
	w = api.do(t, "bob", http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bob's")
}

func TestTaskHandler_MalformedTaskIDIsNotFound(t *testing.T) {
	api := newTaskAPI(t)

	w := api.do(t, "alice", http.MethodPut, "/tasks/not-a-uuid", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "task not found")

	w = api.do(t, "alice", http.MethodPatch, "/tasks/not-a-uuid/status", `{"status":"completed"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, "alice", http.MethodDelete, "/tasks/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_UpdateStatus(t *testing.T) {
	api := newTaskAPI(t)

	w := api.do(t, "alice", http.MethodPost, "/tasks", `{"title":"t"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := taskIDFrom(t, w)

	w = api.do(t, "alice", http.MethodPatch, "/tasks/"+id+"/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completed":true`)

	w = api.do(t, "alice", http.MethodPatch, "/tasks/"+id+"/status", `{"status":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_DeleteTwice(t *testing.T) {
	api := newTaskAPI(t)

	w := api.do(t, "alice", http.MethodPost, "/tasks", `{"title":"t"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := taskIDFrom(t, w)

	w = api.do(t, "alice", http.MethodDelete, "/tasks/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, "alice", http.MethodDelete, "/tasks/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_ExportCSV(t *testing.T) {
	api := newTaskAPI(t)

	w := api.do(t, "alice", http.MethodPost, "/tasks",
		`{"title":"groceries","description":"milk, eggs","priority":"high","dueDate":"2025-03-01T12:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = api.do(t, "alice", http.MethodPost, "/tasks", `{"title":"plain"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, "alice", http.MethodGet, "/tasks/export/csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "attachment; filename=tasks.csv", w.Header().Get("Content-Disposition"))

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "title,description,priority,dueDate,completed\n"), body)
	assert.Contains(t, body, `groceries,"milk, eggs",high,2025-03-01T12:00:00Z,false`)
	assert.Contains(t, body, "plain,,low,,false")
}

func TestTaskHandler_ExportCSVEmptyIsNotFound(t *testing.T) {
	api := newTaskAPI(t)

	w := api.do(t, "alice", http.MethodGet, "/tasks/export/csv", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no tasks to export")
}

func TestTaskHandler_SearchWithoutBackendIsEmpty(t *testing.T) {
	api := newTaskAPI(t)

	w := api.do(t, "alice", http.MethodGet, "/tasks/search?q=anything", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}
