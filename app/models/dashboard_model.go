package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	recentGoalsLimit   = 5
	upcomingTasksLimit = 5
	weeklyWindowDays   = 7
	monthlyWindow      = 6
)

type GoalCounts struct {
	Total          int     `json:"total"`
	Active         int     `json:"active"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

type TaskCounts struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"`
}

type DashboardCounts struct {
	Goals                GoalCounts     `json:"goals"`
	Tasks                TaskCounts     `json:"tasks"`
	TaskTypeDistribution map[string]int `json:"task_type_distribution"`
}

type RecentGoal struct {
	UUID               uuid.UUID `json:"uuid"`
	Title              string    `json:"title"`
	Status             string    `json:"status"`
	ProgressPercentage float64   `json:"progress_percentage"`
	UpdatedAt          string    `json:"updated_at"`
}

type UpcomingTask struct {
	UUID         uuid.UUID `json:"uuid"`
	Title        string    `json:"title"`
	DueDate      *string   `json:"due_date"`
	DaysUntilDue *int      `json:"days_until_due"`
	GoalTitle    *string   `json:"goal_title"`
}

type DailyProgress struct {
	Date           string `json:"date"`
	Day            string `json:"day"`
	CompletedTasks int    `json:"completed_tasks"`
}

type DashboardStats struct {
	Stats          DashboardCounts `json:"stats"`
	RecentGoals    []RecentGoal    `json:"recent_goals"`
	UpcomingTasks  []UpcomingTask  `json:"upcoming_tasks"`
	WeeklyProgress []DailyProgress `json:"weekly_progress"`
}

// BuildDashboardStats aggregates everything a user owns. goals must carry
// their task counts.
func BuildDashboardStats(goals []Goal, tasks []Task, now time.Time, loc *time.Location) DashboardStats {
	if loc == nil {
		loc = time.UTC
	}

	var gc GoalCounts
	gc.Total = len(goals)
	for _, g := range goals {
		switch g.Status {
		case GoalStatusActive:
			gc.Active++
		case GoalStatusCompleted:
			gc.Completed++
		}
	}
	gc.CompletionRate = Percentage(gc.Completed, gc.Total)

	var tc TaskCounts
	distribution := make(map[string]int)
	tc.Total = len(tasks)
	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case TaskStatusCompleted:
			tc.Completed++
		case TaskStatusPending:
			tc.Pending++
		}
		if t.IsOverdue(now) {
			tc.Overdue++
		}
		distribution[t.Type]++
	}
	tc.CompletionRate = Percentage(tc.Completed, tc.Total)

	return DashboardStats{
		Stats: DashboardCounts{
			Goals:                gc,
			Tasks:                tc,
			TaskTypeDistribution: distribution,
		},
		RecentGoals:    recentGoals(goals),
		UpcomingTasks:  upcomingTasks(tasks, now),
		WeeklyProgress: weeklyProgress(tasks, now, loc),
	}
}

func recentGoals(goals []Goal) []RecentGoal {
	sorted := make([]Goal, len(goals))
	copy(sorted, goals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	if len(sorted) > recentGoalsLimit {
		sorted = sorted[:recentGoalsLimit]
	}

	out := make([]RecentGoal, 0, len(sorted))
	for i := range sorted {
		g := &sorted[i]
		out = append(out, RecentGoal{
			UUID:               g.UUID,
			Title:              g.Title,
			Status:             g.Status,
			ProgressPercentage: g.ProgressPercentage(),
			UpdatedAt:          FormatTime(g.UpdatedAt),
		})
	}
	return out
}

func upcomingTasks(tasks []Task, now time.Time) []UpcomingTask {
	var upcoming []*Task
	for i := range tasks {
		t := &tasks[i]
		if t.Status == TaskStatusPending && t.DueDate != nil && t.DueDate.After(now) {
			upcoming = append(upcoming, t)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(*upcoming[j].DueDate)
	})
	if len(upcoming) > upcomingTasksLimit {
		upcoming = upcoming[:upcomingTasksLimit]
	}

	out := make([]UpcomingTask, 0, len(upcoming))
	for _, t := range upcoming {
		out = append(out, UpcomingTask{
			UUID:         t.UUID,
			Title:        t.Title,
			DueDate:      FormatTimePtr(t.DueDate),
			DaysUntilDue: t.DaysUntilDue(now),
			GoalTitle:    t.GoalTitle,
		})
	}
	return out
}

// weeklyProgress counts tasks by completed_at date over the last seven days,
// today included, oldest first.
func weeklyProgress(tasks []Task, now time.Time, loc *time.Location) []DailyProgress {
	today := startOfDay(now.In(loc))
	start := today.AddDate(0, 0, -(weeklyWindowDays - 1))

	perDay := make(map[string]int)
	for i := range tasks {
		if c := tasks[i].CompletedAt; c != nil {
			perDay[c.In(loc).Format("2006-01-02")]++
		}
	}

	out := make([]DailyProgress, 0, weeklyWindowDays)
	for i := 0; i < weeklyWindowDays; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		out = append(out, DailyProgress{
			Date:           key,
			Day:            day.Format("Mon"),
			CompletedTasks: perDay[key],
		})
	}
	return out
}

type GoalProgressSummary struct {
	UUID                uuid.UUID `json:"uuid"`
	Title               string    `json:"title"`
	Description         *string   `json:"description"`
	Status              string    `json:"status"`
	ProgressPercentage  float64   `json:"progress_percentage"`
	TotalTasksCount     int       `json:"total_tasks_count"`
	CompletedTasksCount int       `json:"completed_tasks_count"`
	CreatedAt           string    `json:"created_at"`
}

type TaskDistribution struct {
	ByStatus map[string]int `json:"by_status"`
	ByType   map[string]int `json:"by_type"`
}

type MonthlyProgress struct {
	Month          string `json:"month"`
	MonthName      string `json:"month_name"`
	CompletedTasks int    `json:"completed_tasks"`
}

type GoalProgress struct {
	Goal             GoalProgressSummary `json:"goal"`
	TaskDistribution TaskDistribution    `json:"task_distribution"`
	MonthlyProgress  []MonthlyProgress   `json:"monthly_progress"`
}

// BuildGoalProgress summarises one goal from its tasks, including completed
// counts for the trailing six calendar months.
func BuildGoalProgress(goal *Goal, tasks []Task, now time.Time, loc *time.Location) GoalProgress {
	if loc == nil {
		loc = time.UTC
	}

	byStatus := make(map[string]int)
	byType := make(map[string]int)
	perMonth := make(map[string]int)
	completed := 0
	for i := range tasks {
		t := &tasks[i]
		byStatus[t.Status]++
		byType[t.Type]++
		if t.Status == TaskStatusCompleted {
			completed++
		}
		if t.CompletedAt != nil {
			perMonth[t.CompletedAt.In(loc).Format("2006-01")]++
		}
	}

	g := *goal
	g.TotalTasksCount = len(tasks)
	g.CompletedTasksCount = completed

	local := now.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	monthly := make([]MonthlyProgress, 0, monthlyWindow)
	for i := 0; i < monthlyWindow; i++ {
		month := first.AddDate(0, i-(monthlyWindow-1), 0)
		key := month.Format("2006-01")
		monthly = append(monthly, MonthlyProgress{
			Month:          key,
			MonthName:      month.Format("Jan 2006"),
			CompletedTasks: perMonth[key],
		})
	}

	return GoalProgress{
		Goal: GoalProgressSummary{
			UUID:                g.UUID,
			Title:               g.Title,
			Description:         g.Description,
			Status:              g.Status,
			ProgressPercentage:  g.ProgressPercentage(),
			TotalTasksCount:     g.TotalTasksCount,
			CompletedTasksCount: g.CompletedTasksCount,
			CreatedAt:           FormatTime(g.CreatedAt),
		},
		TaskDistribution: TaskDistribution{ByStatus: byStatus, ByType: byType},
		MonthlyProgress:  monthly,
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
