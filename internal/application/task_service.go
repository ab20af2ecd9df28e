package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/SubashG45/Task-Management/internal/domain/entity"
	repo "github.com/SubashG45/Task-Management/internal/domain/repository"
	"github.com/SubashG45/Task-Management/pkg/helpers"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrNoTasksToExport = errors.New("no tasks to export")
)

// TaskService owns the task query-and-filter contract. Every method takes the
// authenticated user's id as its first domain argument; the id is never read
// from request payloads, so all store access stays inside the caller's own
// partition.
type TaskService struct {
	Repo         repo.TaskRepository
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESTasksIndex string
	CacheTTL     time.Duration
}

func NewTaskService(r repo.TaskRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esTasksIndex string, cacheTTL time.Duration) *TaskService {
	return &TaskService{
		Repo:         r,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESTasksIndex: esTasksIndex,
		CacheTTL:     cacheTTL,
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     *time.Time
}

// UpdateTaskInput uses pointers so only supplied fields change. Owner and id
// are not part of the input at all. When both Status and Completed are given
// Status wins; either one alone re-synchronizes the other.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	Completed   *bool
	DueDate     *time.Time
}

// ListTasksInput carries the optional list filters as they arrive from the
// query string; empty strings mean unconstrained.
type ListTasksInput struct {
	Status   string
	Priority string
	Search   string
}

func tasksCacheKey(userID string) string {
	return "tasks:user:" + userID
}

// Create inserts a new task owned by userID. Any owner the caller tried to
// smuggle into the payload never reaches this method.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*entity.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityLow
	}
	if !entity.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	status := in.Status
	if status == "" {
		status = entity.StatusPending
	}
	if !entity.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	t := &entity.Task{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Priority:    priority,
		DueDate:     in.DueDate,
	}
	t.SetStatus(status)

	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, userID)
	s.indexTask(ctx, t)
	return t, nil
}

// List returns the caller's tasks matching the optional filters, ordered by
// due date ascending with undated tasks first. An empty result is a valid
// empty slice. Unfiltered lists are served from Redis when possible.
func (s *TaskService) List(ctx context.Context, userID string, in ListTasksInput) ([]entity.Task, error) {
	f := repo.TaskFilter{Priority: in.Priority, Search: in.Search}
	switch in.Status {
	case "":
	case entity.StatusCompleted:
		completed := true
		f.Completed = &completed
	case entity.StatusPending:
		completed := false
		f.Completed = &completed
	default:
		return nil, ErrInvalidStatus
	}
	if in.Priority != "" && !entity.ValidPriority(in.Priority) {
		return nil, ErrInvalidPriority
	}

	unfiltered := in.Status == "" && in.Priority == "" && in.Search == ""
	if unfiltered && s.Redis != nil && s.CacheTTL > 0 {
		var cached []entity.Task
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, tasksCacheKey(userID), &cached); err == nil && ok {
			return cached, nil
		}
	}

	tasks, err := s.Repo.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	if unfiltered && s.Redis != nil && s.CacheTTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Redis, tasksCacheKey(userID), tasks, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("task cache write failed")
		}
	}
	return tasks, nil
}

// Update applies the supplied fields to the caller's own task. A task that
// does not exist and a task owned by someone else produce the same
// ErrTaskNotFound.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, in UpdateTaskInput) (*entity.Task, error) {
	t, err := s.Repo.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		if !entity.ValidPriority(*in.Priority) {
			return nil, ErrInvalidPriority
		}
		t.Priority = *in.Priority
	}
	if in.Completed != nil {
		t.SetCompleted(*in.Completed)
	}
	if in.Status != nil {
		if !entity.ValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		t.SetStatus(*in.Status)
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}

	if err := s.Repo.Update(ctx, userID, t); err != nil {
		return nil, mapNotFound(err)
	}

	s.invalidateCache(ctx, userID)
	s.indexTask(ctx, t)
	return t, nil
}

// UpdateStatus toggles a task between pending and completed, keeping the
// legacy completed flag in sync.
func (s *TaskService) UpdateStatus(ctx context.Context, userID, taskID, status string) (*entity.Task, error) {
	if !entity.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.Update(ctx, userID, taskID, UpdateTaskInput{Status: &status})
}

// Delete removes the caller's own task; repeated deletes keep returning
// ErrTaskNotFound.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if err := s.Repo.Delete(ctx, userID, taskID); err != nil {
		return mapNotFound(err)
	}
	s.invalidateCache(ctx, userID)
	s.deleteTaskDoc(ctx, taskID)
	return nil
}

// Export fetches every task the caller owns, in the same stable order as
// List. Zero tasks is a reportable condition distinct from a store fault.
func (s *TaskService) Export(ctx context.Context, userID string) ([]entity.Task, error) {
	tasks, err := s.Repo.List(ctx, userID, repo.TaskFilter{})
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNoTasksToExport
	}
	return tasks, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}

func (s *TaskService) invalidateCache(ctx context.Context, userID string) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, tasksCacheKey(userID)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("task cache invalidation failed")
	}
}

func (s *TaskService) indexTask(ctx context.Context, t *entity.Task) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          t.ID,
		"user_id":     t.UserID,
		"title":       t.Title,
		"description": t.Description,
		"priority":    t.Priority,
		"status":      t.Status,
		"completed":   t.Completed,
		"created_at":  t.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if t.DueDate != nil {
		doc["due_date"] = t.DueDate.Format(time.RFC3339Nano)
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESTasksIndex, DocumentID: t.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", t.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("task_id", t.ID).Warn("es index response error")
	}
}

func (s *TaskService) deleteTaskDoc(ctx context.Context, taskID string) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESTasksIndex, DocumentID: taskID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", taskID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a free-text Elasticsearch query over the caller's own
// tasks. The user_id term filter keeps results inside the caller's
// partition; a missing ES client degrades to an empty result.
func (s *TaskService) Search(ctx context.Context, userID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESTasksIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESTasksIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
