package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 8, 7, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestNewTaskStartsPending(t *testing.T) {
	task := NewTask(1, nil, "Read", nil, TaskTypeSimple, strPtr(RecurrenceDaily), nil, testNow)

	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Nil(t, task.RecurrenceType, "recurrence type is dropped for non-recurring tasks")
	assert.Nil(t, task.GoalID)
	assert.NotEqual(t, [16]byte{}, [16]byte(task.UUID))
}

func TestNewTaskAttachesGoal(t *testing.T) {
	goal := NewGoal(1, "Learn Go", nil, testNow)
	goal.ID = 42

	task := NewTask(1, goal, "Tour of Go", nil, TaskTypeRecurring, strPtr(RecurrenceWeekly), nil, testNow)

	require.NotNil(t, task.GoalID)
	assert.Equal(t, int64(42), *task.GoalID)
	assert.Equal(t, goal.UUID, *task.GoalUUID)
	assert.Equal(t, "Learn Go", *task.GoalTitle)
	assert.Equal(t, RecurrenceWeekly, *task.RecurrenceType)
}

func TestCompleteSimpleTask(t *testing.T) {
	task := NewTask(1, nil, "Write report", nil, TaskTypeSimple, nil, nil, testNow)
	task.ID = 7

	completion, err := task.Complete(testNow, strPtr("done early"))
	require.NoError(t, err)

	assert.Equal(t, TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(testNow))
	assert.Nil(t, task.LastResetAt)

	assert.Equal(t, int64(7), completion.TaskID)
	assert.True(t, completion.CompletedAt.Equal(testNow))
	assert.Equal(t, "done early", *completion.Notes)
}

func TestCompleteTwiceIsRejected(t *testing.T) {
	task := NewTask(1, nil, "Write report", nil, TaskTypeSimple, nil, nil, testNow)

	_, err := task.Complete(testNow, nil)
	require.NoError(t, err)

	completion, err := task.Complete(testNow.Add(time.Minute), nil)
	assert.ErrorIs(t, err, ErrTaskAlreadyCompleted)
	assert.Nil(t, completion)
	assert.True(t, task.CompletedAt.Equal(testNow))
}

func TestCompleteRecurringTaskResets(t *testing.T) {
	for _, rt := range []string{RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly} {
		t.Run(rt, func(t *testing.T) {
			task := NewTask(1, nil, "Stretch", nil, TaskTypeRecurring, strPtr(rt), nil, testNow)

			completion, err := task.Complete(testNow, nil)
			require.NoError(t, err)
			require.NotNil(t, completion)

			assert.Equal(t, TaskStatusPending, task.Status)
			assert.Nil(t, task.CompletedAt)
			require.NotNil(t, task.LastResetAt)
			assert.True(t, task.LastResetAt.Equal(testNow))
			assert.True(t, completion.CompletedAt.Equal(testNow))
		})
	}
}

func TestCompleteRecurringWithoutRecurrenceTypeStaysCompleted(t *testing.T) {
	task := NewTask(1, nil, "Stretch", nil, TaskTypeRecurring, nil, nil, testNow)

	_, err := task.Complete(testNow, nil)
	require.NoError(t, err)

	assert.Equal(t, TaskStatusCompleted, task.Status)
	assert.Nil(t, task.LastResetAt)
}

func TestReopenKeepsHistoryTimestamps(t *testing.T) {
	task := NewTask(1, nil, "Write report", nil, TaskTypeSimple, nil, nil, testNow)
	_, err := task.Complete(testNow, nil)
	require.NoError(t, err)

	task.Reopen(testNow.Add(time.Hour))

	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Nil(t, task.CompletedAt)
}

func TestIsOverdue(t *testing.T) {
	past := testNow.Add(-24 * time.Hour)
	future := testNow.Add(24 * time.Hour)

	cases := []struct {
		name   string
		due    *time.Time
		status string
		want   bool
	}{
		{"no due date", nil, TaskStatusPending, false},
		{"past and pending", &past, TaskStatusPending, true},
		{"past but completed", &past, TaskStatusCompleted, false},
		{"future and pending", &future, TaskStatusPending, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := &Task{DueDate: tc.due, Status: tc.status}
			assert.Equal(t, tc.want, task.IsOverdue(testNow))
		})
	}
}

func TestDaysUntilDue(t *testing.T) {
	t.Run("nil without due date", func(t *testing.T) {
		task := &Task{Status: TaskStatusPending}
		assert.Nil(t, task.DaysUntilDue(testNow))
	})

	t.Run("nil when completed", func(t *testing.T) {
		task := &Task{Status: TaskStatusCompleted, DueDate: timePtr(testNow.AddDate(0, 0, 5))}
		assert.Nil(t, task.DaysUntilDue(testNow))
	})

	t.Run("future due date truncates", func(t *testing.T) {
		task := &Task{Status: TaskStatusPending, DueDate: timePtr(testNow.AddDate(0, 0, 5))}
		got := task.DaysUntilDue(testNow.Add(time.Second))
		require.NotNil(t, got)
		assert.Equal(t, 4, *got)
	})

	t.Run("past due date is negative", func(t *testing.T) {
		task := &Task{Status: TaskStatusPending, DueDate: timePtr(testNow.AddDate(0, 0, -3))}
		got := task.DaysUntilDue(testNow.Add(time.Second))
		require.NotNil(t, got)
		assert.Equal(t, -3, *got)
	})
}

func TestTaskResponseFormatsTimestamps(t *testing.T) {
	due := time.Date(2025, 9, 1, 9, 30, 0, 0, time.FixedZone("JST", 9*3600))
	task := NewTask(1, nil, "Submit", nil, TaskTypeDeadline, nil, &due, testNow)

	resp := task.Response(testNow)

	require.NotNil(t, resp.DueDate)
	assert.Equal(t, "2025-09-01T00:30:00.000000Z", *resp.DueDate)
	assert.Equal(t, "2025-08-07T10:00:00.000000Z", resp.CreatedAt)
	assert.Nil(t, resp.CompletedAt)
	assert.False(t, resp.IsOverdue)
	require.NotNil(t, resp.DaysUntilDue)
	assert.Equal(t, 24, *resp.DaysUntilDue)
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{
		"2025-09-01",
		"2025-09-01 12:30:00",
		"2025-09-01T12:30",
		"2025-09-01T12:30:00Z",
		"2025-09-01T12:30:00+09:00",
	} {
		_, err := ParseDate(in, time.UTC)
		assert.NoError(t, err, in)
	}

	_, err := ParseDate("not-a-date", time.UTC)
	assert.Error(t, err)
}
