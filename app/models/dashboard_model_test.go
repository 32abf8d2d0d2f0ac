package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboardStatsEmpty(t *testing.T) {
	stats := BuildDashboardStats(nil, nil, testNow, time.UTC)

	assert.Equal(t, GoalCounts{}, stats.Stats.Goals)
	assert.Equal(t, TaskCounts{}, stats.Stats.Tasks)
	assert.Empty(t, stats.Stats.TaskTypeDistribution)
	assert.Empty(t, stats.RecentGoals)
	assert.Empty(t, stats.UpcomingTasks)
	require.Len(t, stats.WeeklyProgress, 7)
}

func TestBuildDashboardStatsCounts(t *testing.T) {
	active := *NewGoal(1, "A", nil, testNow)
	done := *NewGoal(1, "B", nil, testNow)
	done.SetStatus(GoalStatusCompleted, testNow)
	archived := *NewGoal(1, "C", nil, testNow)
	archived.SetStatus(GoalStatusArchived, testNow)

	yesterday := testNow.Add(-24 * time.Hour)
	nextWeek := testNow.AddDate(0, 0, 7)
	tasks := []Task{
		{Type: TaskTypeSimple, Status: TaskStatusCompleted, CompletedAt: &testNow},
		{Type: TaskTypeDeadline, Status: TaskStatusPending, DueDate: &yesterday},
		{Type: TaskTypeDeadline, Status: TaskStatusPending, DueDate: &nextWeek},
		{Type: TaskTypeRecurring, Status: TaskStatusPending},
	}

	stats := BuildDashboardStats([]Goal{active, done, archived}, tasks, testNow, time.UTC)

	assert.Equal(t, GoalCounts{Total: 3, Active: 1, Completed: 1, CompletionRate: 33.33}, stats.Stats.Goals)
	assert.Equal(t, TaskCounts{Total: 4, Completed: 1, Pending: 3, Overdue: 1, CompletionRate: 25}, stats.Stats.Tasks)
	assert.Equal(t, map[string]int{"simple": 1, "deadline": 2, "recurring": 1}, stats.Stats.TaskTypeDistribution)

	require.Len(t, stats.UpcomingTasks, 1)
	require.NotNil(t, stats.UpcomingTasks[0].DaysUntilDue)
	assert.Equal(t, 7, *stats.UpcomingTasks[0].DaysUntilDue)
}

func TestRecentGoalsOrderAndLimit(t *testing.T) {
	var goals []Goal
	for i := 0; i < 7; i++ {
		g := *NewGoal(1, string(rune('A'+i)), nil, testNow)
		g.UpdatedAt = testNow.Add(time.Duration(i) * time.Minute)
		goals = append(goals, g)
	}

	stats := BuildDashboardStats(goals, nil, testNow, time.UTC)

	require.Len(t, stats.RecentGoals, 5)
	assert.Equal(t, "G", stats.RecentGoals[0].Title)
	assert.Equal(t, "C", stats.RecentGoals[4].Title)
}

func TestUpcomingTasksSortedByDueDate(t *testing.T) {
	var tasks []Task
	for i := 6; i >= 1; i-- {
		due := testNow.AddDate(0, 0, i)
		tasks = append(tasks, Task{Title: string(rune('0' + i)), Status: TaskStatusPending, DueDate: &due})
	}

	stats := BuildDashboardStats(nil, tasks, testNow, time.UTC)

	require.Len(t, stats.UpcomingTasks, 5)
	assert.Equal(t, "1", stats.UpcomingTasks[0].Title)
	assert.Equal(t, "5", stats.UpcomingTasks[4].Title)
}

func TestWeeklyProgressWindow(t *testing.T) {
	sixDaysAgo := testNow.AddDate(0, 0, -6)
	sevenDaysAgo := testNow.AddDate(0, 0, -7)
	tasks := []Task{
		{Status: TaskStatusCompleted, CompletedAt: &testNow},
		{Status: TaskStatusCompleted, CompletedAt: &testNow},
		{Status: TaskStatusCompleted, CompletedAt: &sixDaysAgo},
		{Status: TaskStatusCompleted, CompletedAt: &sevenDaysAgo},
	}

	stats := BuildDashboardStats(nil, tasks, testNow, time.UTC)
	week := stats.WeeklyProgress

	require.Len(t, week, 7)
	assert.Equal(t, DailyProgress{Date: "2025-08-01", Day: "Fri", CompletedTasks: 1}, week[0])
	assert.Equal(t, DailyProgress{Date: "2025-08-07", Day: "Thu", CompletedTasks: 2}, week[6])

	total := 0
	for _, d := range week {
		total += d.CompletedTasks
	}
	assert.Equal(t, 3, total)
}

func TestBuildGoalProgress(t *testing.T) {
	goal := NewGoal(1, "Ship it", nil, testNow)
	march := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	tasks := []Task{
		{Type: TaskTypeSimple, Status: TaskStatusCompleted, CompletedAt: &testNow},
		{Type: TaskTypeSimple, Status: TaskStatusCompleted, CompletedAt: &march},
		{Type: TaskTypeDeadline, Status: TaskStatusCompleted, CompletedAt: &feb},
		{Type: TaskTypeRecurring, Status: TaskStatusPending},
	}

	progress := BuildGoalProgress(goal, tasks, testNow, time.UTC)

	assert.Equal(t, 4, progress.Goal.TotalTasksCount)
	assert.Equal(t, 3, progress.Goal.CompletedTasksCount)
	assert.Equal(t, 75.0, progress.Goal.ProgressPercentage)
	assert.Equal(t, map[string]int{"completed": 3, "pending": 1}, progress.TaskDistribution.ByStatus)
	assert.Equal(t, map[string]int{"simple": 2, "deadline": 1, "recurring": 1}, progress.TaskDistribution.ByType)

	require.Len(t, progress.MonthlyProgress, 6)
	assert.Equal(t, MonthlyProgress{Month: "2025-03", MonthName: "Mar 2025", CompletedTasks: 1}, progress.MonthlyProgress[0])
	assert.Equal(t, MonthlyProgress{Month: "2025-08", MonthName: "Aug 2025", CompletedTasks: 1}, progress.MonthlyProgress[5])
}
