// Package querytest provides an in-memory implementation of the store
// interfaces for handler and middleware tests.
package querytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gilanghuda/goal-tracker-backend/app/models"
	"github.com/gilanghuda/goal-tracker-backend/app/queries"
	"github.com/google/uuid"
)

var (
	_ queries.UserStore  = (*Store)(nil)
	_ queries.TokenStore = (*Store)(nil)
	_ queries.GoalStore  = (*Store)(nil)
	_ queries.TaskStore  = (*Store)(nil)
)

// Store keeps rows in maps keyed by id and mirrors the cascade and ownership
// rules of the PostgreSQL schema. When Err is set every method returns it.
type Store struct {
	Err error

	mu          sync.Mutex
	seq         int64
	users       map[int64]models.User
	tokens      map[int64]models.AccessToken
	goals       map[int64]models.Goal
	tasks       map[int64]models.Task
	completions map[int64]models.TaskCompletion
}

func New() *Store {
	return &Store{
		users:       map[int64]models.User{},
		tokens:      map[int64]models.AccessToken{},
		goals:       map[int64]models.Goal{},
		tasks:       map[int64]models.Task{},
		completions: map[int64]models.TaskCompletion{},
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return queries.ErrEmailTaken
		}
	}
	u.ID = s.nextID()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, queries.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, queries.ErrNotFound
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.GetUserByEmail(ctx, email)
	if err == queries.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[id]; !ok {
		return queries.ErrNotFound
	}
	delete(s.users, id)
	for tid, t := range s.tokens {
		if t.UserID == id {
			delete(s.tokens, tid)
		}
	}
	for gid, g := range s.goals {
		if g.UserID == id {
			delete(s.goals, gid)
		}
	}
	for tid, t := range s.tasks {
		if t.UserID == id {
			s.deleteTaskLocked(tid)
		}
	}
	return nil
}

func (s *Store) CreateToken(_ context.Context, t *models.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	t.ID = s.nextID()
	s.tokens[t.ID] = *t
	return nil
}

func (s *Store) GetToken(_ context.Context, tokenID uuid.UUID) (*models.AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, t := range s.tokens {
		if t.TokenID == tokenID {
			return &t, nil
		}
	}
	return nil, queries.ErrNotFound
}

func (s *Store) TouchToken(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if t, ok := s.tokens[id]; ok {
		t.LastUsedAt = &at
		s.tokens[id] = t
	}
	return nil
}

func (s *Store) DeleteToken(_ context.Context, tokenID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for id, t := range s.tokens {
		if t.TokenID == tokenID {
			delete(s.tokens, id)
			return nil
		}
	}
	return queries.ErrNotFound
}

func (s *Store) DeleteTokensByUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for id, t := range s.tokens {
		if t.UserID == userID {
			delete(s.tokens, id)
		}
	}
	return nil
}

// TokenCount returns the number of issued tokens still stored for userID.
func (s *Store) TokenCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

func (s *Store) CreateGoal(_ context.Context, g *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	g.ID = s.nextID()
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) withCounts(g models.Goal) models.Goal {
	g.TotalTasksCount, g.CompletedTasksCount = 0, 0
	for _, t := range s.tasks {
		if t.GoalID != nil && *t.GoalID == g.ID {
			g.TotalTasksCount++
			if t.Status == models.TaskStatusCompleted {
				g.CompletedTasksCount++
			}
		}
	}
	return g
}

func (s *Store) ListGoalsByUser(_ context.Context, userID int64) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	goals := []models.Goal{}
	for _, g := range s.goals {
		if g.UserID == userID {
			goals = append(goals, s.withCounts(g))
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

func (s *Store) GetGoalByUUID(_ context.Context, userID int64, id uuid.UUID) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, g := range s.goals {
		if g.UserID == userID && g.UUID == id {
			g = s.withCounts(g)
			return &g, nil
		}
	}
	return nil, queries.ErrNotFound
}

func (s *Store) UpdateGoal(_ context.Context, g *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.goals[g.ID]
	if !ok || existing.UserID != g.UserID {
		return queries.ErrNotFound
	}
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, goalID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	g, ok := s.goals[goalID]
	if !ok || g.UserID != userID {
		return queries.ErrNotFound
	}
	delete(s.goals, goalID)
	for id, t := range s.tasks {
		if t.GoalID != nil && *t.GoalID == goalID {
			s.deleteTaskLocked(id)
		}
	}
	return nil
}

func (s *Store) CreateTask(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	t.ID = s.nextID()
	s.tasks[t.ID] = *t
	return nil
}

func (s *Store) withGoal(t models.Task) models.Task {
	t.GoalUUID, t.GoalTitle = nil, nil
	if t.GoalID != nil {
		if g, ok := s.goals[*t.GoalID]; ok {
			u, title := g.UUID, g.Title
			t.GoalUUID, t.GoalTitle = &u, &title
		}
	}
	return t
}

func (s *Store) listTasks(keep func(models.Task) bool) []models.Task {
	tasks := []models.Task{}
	for _, t := range s.tasks {
		if keep(t) {
			tasks = append(tasks, s.withGoal(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks
}

func (s *Store) ListTasksByUser(_ context.Context, userID int64) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.listTasks(func(t models.Task) bool { return t.UserID == userID }), nil
}

func (s *Store) ListTasksByGoal(_ context.Context, userID, goalID int64) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.listTasks(func(t models.Task) bool {
		return t.UserID == userID && t.GoalID != nil && *t.GoalID == goalID
	}), nil
}

func (s *Store) GetTaskByUUID(_ context.Context, userID int64, id uuid.UUID) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, t := range s.tasks {
		if t.UserID == userID && t.UUID == id {
			t = s.withGoal(t)
			return &t, nil
		}
	}
	return nil, queries.ErrNotFound
}

func (s *Store) updateTaskLocked(t *models.Task) error {
	existing, ok := s.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return queries.ErrNotFound
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *Store) UpdateTask(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	return s.updateTaskLocked(t)
}

func (s *Store) CompleteTask(_ context.Context, t *models.Task, c *models.TaskCompletion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if err := s.updateTaskLocked(t); err != nil {
		return err
	}
	c.ID = s.nextID()
	c.TaskID = t.ID
	s.completions[c.ID] = *c
	return nil
}

func (s *Store) ListCompletions(_ context.Context, taskID int64) ([]models.TaskCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	completions := []models.TaskCompletion{}
	for _, c := range s.completions {
		if c.TaskID == taskID {
			completions = append(completions, c)
		}
	}
	sort.Slice(completions, func(i, j int) bool {
		if !completions[i].CompletedAt.Equal(completions[j].CompletedAt) {
			return completions[i].CompletedAt.After(completions[j].CompletedAt)
		}
		return completions[i].ID > completions[j].ID
	})
	return completions, nil
}

func (s *Store) DeleteTask(_ context.Context, userID, taskID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	t, ok := s.tasks[taskID]
	if !ok || t.UserID != userID {
		return queries.ErrNotFound
	}
	s.deleteTaskLocked(taskID)
	return nil
}

func (s *Store) deleteTaskLocked(taskID int64) {
	delete(s.tasks, taskID)
	for id, c := range s.completions {
		if c.TaskID == taskID {
			delete(s.completions, id)
		}
	}
}

// CompletionCount returns the number of stored completions across all tasks.
func (s *Store) CompletionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.completions)
}

// TaskCount returns the number of stored tasks across all users.
func (s *Store) TaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
