package controllers_test

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSimpleTask(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Learn Go")

	r := s.do(fiber.MethodPost, "/api/goals/"+goal+"/tasks", token, map[string]any{
		"title":           "Read the tour",
		"description":     "tour.golang.org",
		"type":            "simple",
		"recurrence_type": "daily",
	})

	require.Equal(t, fiber.StatusCreated, r.status, r.raw)
	assert.Equal(t, "タスクを作成しました。", r.body["message"])
	task := r.object("task")
	assert.Equal(t, "Read the tour", task["title"])
	assert.Equal(t, "tour.golang.org", task["description"])
	assert.Equal(t, "simple", task["type"])
	assert.Equal(t, "pending", task["status"])
	assert.Nil(t, task["recurrence_type"])
	assert.Nil(t, task["due_date"])
	assert.Nil(t, task["completed_at"])
	assert.Equal(t, false, task["is_overdue"])
	assert.Nil(t, task["days_until_due"])
	assert.NotContains(t, task, "goal_uuid")
}

func TestCreateTaskValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Learn Go")

	cases := []struct {
		name  string
		body  map[string]any
		field string
		msg   string
	}{
		{"missing title", map[string]any{"type": "simple"}, "title", "タイトルは必須です。"},
		{"missing type", map[string]any{"title": "x"}, "type", "タスクタイプは必須です。"},
		{"unknown type", map[string]any{"title": "x", "type": "someday"}, "type", "タスクタイプは有効な値を選択してください。"},
		{"recurring without recurrence", map[string]any{"title": "x", "type": "recurring"}, "recurrence_type", "繰り返しタスクの場合は、繰り返しタイプを選択してください。"},
		{"unknown recurrence", map[string]any{"title": "x", "type": "recurring", "recurrence_type": "hourly"}, "recurrence_type", "繰り返しタイプは有効な値を選択してください。"},
		{"deadline without due date", map[string]any{"title": "x", "type": "deadline"}, "due_date", "期限付きタスクの場合は、期限日を設定してください。"},
		{"unparsable due date", map[string]any{"title": "x", "type": "deadline", "due_date": "someday"}, "due_date", "期限日は有効な日付形式で入力してください。"},
		{"past due date", map[string]any{"title": "x", "type": "deadline", "due_date": "2025-08-06"}, "due_date", "期限日は現在より後の日付を設定してください。"},
		{"non-string title", map[string]any{"title": 42, "type": "simple"}, "title", "タイトルは文字列で入力してください。"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := s.do(fiber.MethodPost, "/api/goals/"+goal+"/tasks", token, tc.body)

			require.Equal(t, fiber.StatusUnprocessableEntity, r.status, r.raw)
			assert.Equal(t, "バリデーションエラーが発生しました。", r.body["message"])
			assert.Equal(t, tc.msg, r.fieldError(tc.field))
		})
	}
	assert.Zero(t, s.store.TaskCount())
}

func TestCreateRecurringAndDeadlineTasks(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Learn Go")

	recurring := s.createTask(token, goal, map[string]any{"title": "Practice", "type": "recurring", "recurrence_type": "weekly"})
	assert.Equal(t, "weekly", recurring["recurrence_type"])

	deadline := s.createTask(token, goal, map[string]any{"title": "Ship", "type": "deadline", "due_date": "2025-08-12T10:00:00Z"})
	assert.Equal(t, "2025-08-12T10:00:00.000000Z", deadline["due_date"])
	assert.Equal(t, 5.0, deadline["days_until_due"])
	assert.Equal(t, false, deadline["is_overdue"])
}

func TestCreateIndependentTask(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	other := s.register("jiro@example.com")
	goal := s.createGoal(token, "Learn Go")
	foreign := s.createGoal(other, "Jiro's goal")

	loose := s.do(fiber.MethodPost, "/api/tasks", token, simpleTask("Buy milk"))
	require.Equal(t, fiber.StatusCreated, loose.status, loose.raw)
	assert.Nil(t, loose.object("task")["goal_uuid"])
	assert.Nil(t, loose.object("task")["goal_title"])

	body := simpleTask("Write a CLI")
	body["goal_uuid"] = goal
	linked := s.do(fiber.MethodPost, "/api/tasks", token, body)
	require.Equal(t, fiber.StatusCreated, linked.status, linked.raw)
	assert.Equal(t, goal, linked.object("task")["goal_uuid"])
	assert.Equal(t, "Learn Go", linked.object("task")["goal_title"])

	for _, id := range []string{foreign, uuid.NewString(), "not-a-uuid"} {
		body := simpleTask("Orphan")
		body["goal_uuid"] = id
		r := s.do(fiber.MethodPost, "/api/tasks", token, body)
		assert.Equal(t, fiber.StatusNotFound, r.status, id)
		assert.Equal(t, "指定された目標が見つかりません。", r.body["message"], id)
	}

	goalView := s.do(fiber.MethodGet, "/api/goals/"+goal, token, nil)
	assert.Equal(t, 1.0, goalView.object("goal")["total_tasks_count"])
}

func TestListAllTasksNewestFirst(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Learn Go")
	s.createTask(token, goal, simpleTask("first"))
	s.now = s.now.Add(time.Minute)
	s.do(fiber.MethodPost, "/api/tasks", token, simpleTask("second"))
	other := s.register("jiro@example.com")
	s.do(fiber.MethodPost, "/api/tasks", other, simpleTask("not mine"))

	r := s.do(fiber.MethodGet, "/api/tasks", token, nil)

	require.Equal(t, fiber.StatusOK, r.status)
	tasks := r.list("tasks")
	require.Len(t, tasks, 2)
	second, first := tasks[0].(map[string]any), tasks[1].(map[string]any)
	assert.Equal(t, "second", second["title"])
	assert.Nil(t, second["goal_title"])
	assert.Equal(t, "first", first["title"])
	assert.Equal(t, "Learn Go", first["goal_title"])
	assert.Equal(t, goal, first["goal_uuid"])
}

func TestGoalTasksListing(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Learn Go")
	s.createTask(token, goal, simpleTask("in goal"))
	s.do(fiber.MethodPost, "/api/tasks", token, simpleTask("loose"))

	r := s.do(fiber.MethodGet, "/api/goals/"+goal+"/tasks", token, nil)

	require.Equal(t, fiber.StatusOK, r.status)
	tasks := r.list("tasks")
	require.Len(t, tasks, 1)
	assert.Equal(t, "in goal", tasks[0].(map[string]any)["title"])
}

func TestCompleteSimpleTaskOnce(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Learn Go")
	task := s.createTask(token, goal, simpleTask("Read the tour"))
	path := "/api/tasks/" + task["uuid"].(string)

	r := s.do(fiber.MethodPost, path+"/complete", token, map[string]any{"notes": "done in one sitting"})
	require.Equal(t, fiber.StatusOK, r.status, r.raw)
	assert.Equal(t, "タスクを完了しました。", r.body["message"])
	assert.Equal(t, "completed", r.object("task")["status"])
	assert.Equal(t, "2025-08-07T10:00:00.000000Z", r.object("task")["completed_at"])
	assert.Equal(t, 1, s.store.CompletionCount())

	again := s.do(fiber.MethodPost, path+"/complete", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, again.status)
	assert.Equal(t, "タスクは既に完了しています。", again.body["message"])
	assert.Equal(t, 1, s.store.CompletionCount())

	history := s.do(fiber.MethodGet, path+"/completions", token, nil)
	require.Equal(t, fiber.StatusOK, history.status)
	completions := history.list("completions")
	require.Len(t, completions, 1)
	assert.Equal(t, "done in one sitting", completions[0].(map[string]any)["notes"])
}

func TestCompleteRecurringTaskResets(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Stay fit")
	task := s.createTask(token, goal, map[string]any{"title": "Stretch", "type": "recurring", "recurrence_type": "daily"})
	path := "/api/tasks/" + task["uuid"].(string)

	first := s.do(fiber.MethodPost, path+"/complete", token, nil)
	require.Equal(t, fiber.StatusOK, first.status, first.raw)
	assert.Equal(t, "pending", first.object("task")["status"])
	assert.Nil(t, first.object("task")["completed_at"])

	s.now = s.now.Add(24 * time.Hour)
	second := s.do(fiber.MethodPost, path+"/complete", token, map[string]any{"notes": "day two"})
	require.Equal(t, fiber.StatusOK, second.status)
	assert.Equal(t, "pending", second.object("task")["status"])

	history := s.do(fiber.MethodGet, path+"/completions", token, nil)
	completions := history.list("completions")
	require.Len(t, completions, 2)
	latest := completions[0].(map[string]any)
	assert.Equal(t, "2025-08-08T10:00:00.000000Z", latest["completed_at"])
	assert.Equal(t, "day two", latest["notes"])
}

func TestCompleteTaskRejectsNonStringNotes(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Learn Go")
	task := s.createTask(token, goal, simpleTask("Read the tour"))

	r := s.do(fiber.MethodPost, "/api/tasks/"+task["uuid"].(string)+"/complete", token, map[string]any{"notes": 123})

	require.Equal(t, fiber.StatusUnprocessableEntity, r.status)
	assert.Equal(t, "メモは文字列で入力してください。", r.fieldError("notes"))
	assert.Zero(t, s.store.CompletionCount())
}

func TestUpdateTaskStatusTransitions(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Learn Go")
	task := s.createTask(token, goal, simpleTask("Read the tour"))
	path := "/api/tasks/" + task["uuid"].(string)

	done := s.do(fiber.MethodPut, path, token, map[string]any{"status": "completed", "title": "ignored"})
	require.Equal(t, fiber.StatusOK, done.status, done.raw)
	assert.Equal(t, "タスクを更新しました。", done.body["message"])
	assert.Equal(t, "completed", done.object("task")["status"])
	assert.NotNil(t, done.object("task")["completed_at"])
	assert.Equal(t, "Read the tour", done.object("task")["title"])
	assert.Equal(t, 1, s.store.CompletionCount())

	reopened := s.do(fiber.MethodPut, path, token, map[string]any{"status": "pending"})
	require.Equal(t, fiber.StatusOK, reopened.status)
	assert.Equal(t, "pending", reopened.object("task")["status"])
	assert.Nil(t, reopened.object("task")["completed_at"])
	assert.Equal(t, 1, s.store.CompletionCount())
}

func TestUpdateTaskFields(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Learn Go")
	task := s.createTask(token, goal, map[string]any{"title": "Practice", "type": "recurring", "recurrence_type": "daily"})
	path := "/api/tasks/" + task["uuid"].(string)

	renamed := s.do(fiber.MethodPut, path, token, map[string]any{"title": "Practice more"})
	require.Equal(t, fiber.StatusOK, renamed.status, renamed.raw)
	assert.Equal(t, "Practice more", renamed.object("task")["title"])
	assert.Equal(t, "daily", renamed.object("task")["recurrence_type"])

	missingDue := s.do(fiber.MethodPut, path, token, map[string]any{"type": "deadline"})
	require.Equal(t, fiber.StatusUnprocessableEntity, missingDue.status)
	assert.Equal(t, "期限付きタスクの場合は、期限日を設定してください。", missingDue.fieldError("due_date"))

	pastDue := s.do(fiber.MethodPut, path, token, map[string]any{"type": "deadline", "due_date": "2025-08-01"})
	require.Equal(t, fiber.StatusOK, pastDue.status, pastDue.raw)
	updated := pastDue.object("task")
	assert.Equal(t, "deadline", updated["type"])
	assert.Nil(t, updated["recurrence_type"])
	assert.Equal(t, true, updated["is_overdue"])
	assert.Equal(t, -6.0, updated["days_until_due"])

	badStatus := s.do(fiber.MethodPut, path, token, map[string]any{"status": "done"})
	require.Equal(t, fiber.StatusUnprocessableEntity, badStatus.status)
	assert.Equal(t, "ステータスは有効な値を選択してください。", badStatus.fieldError("status"))
}

func TestOverdueAndDaysUntilDue(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Learn Go")
	task := s.createTask(token, goal, map[string]any{"title": "Ship", "type": "deadline", "due_date": "2025-08-08T10:00:00Z"})
	path := "/api/tasks/" + task["uuid"].(string)

	s.now = testNow.Add(4 * 24 * time.Hour)
	late := s.do(fiber.MethodGet, path, token, nil)
	require.Equal(t, fiber.StatusOK, late.status)
	assert.Equal(t, true, late.object("task")["is_overdue"])
	assert.Equal(t, -3.0, late.object("task")["days_until_due"])

	done := s.do(fiber.MethodPost, path+"/complete", token, nil)
	require.Equal(t, fiber.StatusOK, done.status)
	assert.Equal(t, false, done.object("task")["is_overdue"])
	assert.Nil(t, done.object("task")["days_until_due"])
}

func TestDeleteTask(t *testing.T) {
	s := newTestServer(t)
	token := s.register("taro@example.com")
	goal := s.createGoal(token, "Learn Go")
	task := s.createTask(token, goal, simpleTask("Read the tour"))
	path := "/api/tasks/" + task["uuid"].(string)
	s.do(fiber.MethodPost, path+"/complete", token, nil)

	r := s.do(fiber.MethodDelete, path, token, nil)

	require.Equal(t, fiber.StatusNoContent, r.status)
	assert.Equal(t, fiber.StatusNotFound, s.do(fiber.MethodGet, path, token, nil).status)
	assert.Zero(t, s.store.CompletionCount())
	assert.Equal(t, fiber.StatusOK, s.do(fiber.MethodGet, "/api/goals/"+goal, token, nil).status)
}

func TestTasksAreScopedToOwner(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("taro@example.com")
	other := s.register("jiro@example.com")
	goal := s.createGoal(owner, "Private goal")
	task := s.createTask(owner, goal, simpleTask("Private task"))
	path := "/api/tasks/" + task["uuid"].(string)

	requests := []struct {
		method string
		path   string
		body   any
	}{
		{fiber.MethodGet, path, nil},
		{fiber.MethodPut, path, map[string]any{"title": "Hijacked"}},
		{fiber.MethodDelete, path, nil},
		{fiber.MethodPost, path + "/complete", nil},
		{fiber.MethodGet, path + "/completions", nil},
		{fiber.MethodGet, "/api/tasks/" + uuid.NewString(), nil},
	}
	for _, req := range requests {
		r := s.do(req.method, req.path, other, req.body)
		assert.Equal(t, fiber.StatusNotFound, r.status, "%s %s", req.method, req.path)
		assert.Equal(t, "タスクが見つかりません。", r.body["message"], "%s %s", req.method, req.path)
	}

	assert.Empty(t, s.do(fiber.MethodGet, "/api/tasks", other, nil).list("tasks"))
	still := s.do(fiber.MethodGet, path, owner, nil)
	require.Equal(t, fiber.StatusOK, still.status)
	assert.Equal(t, "Private task", still.object("task")["title"])
	assert.Equal(t, "pending", still.object("task")["status"])
	assert.Zero(t, s.store.CompletionCount())
}
