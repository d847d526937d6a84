package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Categories
	r.HandleFunc("/api/categories", deps.CategoryHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/categories", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.Get).Methods("GET")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/categories/{id}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Activities
	r.HandleFunc("/api/activities", deps.ActivityHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/activities", deps.ActivityHandler.Create).Methods("POST")
	r.HandleFunc("/api/activities/{id}", deps.ActivityHandler.Get).Methods("GET")
	r.HandleFunc("/api/activities/{id}", deps.ActivityHandler.Update).Methods("PUT")
	r.HandleFunc("/api/activities/{id}", deps.ActivityHandler.Delete).Methods("DELETE")

	// Time entries
	r.HandleFunc("/api/time-entries", deps.TimeEntryHandler.List).Methods("GET")
	r.HandleFunc("/api/time-entries", deps.TimeEntryHandler.Create).Methods("POST")
	r.HandleFunc("/api/time-entries/active", deps.TimeEntryHandler.Active).Methods("GET")
	r.HandleFunc("/api/time-entries/start", deps.TimeEntryHandler.Start).Methods("POST")
	r.HandleFunc("/api/time-entries/manual", deps.TimeEntryHandler.Manual).Methods("POST")
	r.HandleFunc("/api/time-entries/sync-state", deps.TimeEntryHandler.SyncState).Methods("GET")
	r.HandleFunc("/api/time-entries/gaps", deps.TimeEntryHandler.Gaps).Methods("GET")
	r.HandleFunc("/api/time-entries/{id}", deps.TimeEntryHandler.Get).Methods("GET")
	r.HandleFunc("/api/time-entries/{id}", deps.TimeEntryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/time-entries/{id}", deps.TimeEntryHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/time-entries/{id}/stop", deps.TimeEntryHandler.Stop).Methods("POST")

	// Goals
	r.HandleFunc("/api/goals", deps.GoalHandler.List).Methods("GET")
	r.HandleFunc("/api/goals", deps.GoalHandler.Create).Methods("POST")
	r.HandleFunc("/api/goals/bulk-order", deps.GoalHandler.BulkUpdateOrder).Methods("POST")
	r.HandleFunc("/api/goals/{id}", deps.GoalHandler.Get).Methods("GET")
	r.HandleFunc("/api/goals/{id}", deps.GoalHandler.Update).Methods("PUT")
	r.HandleFunc("/api/goals/{id}", deps.GoalHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/goals/{id}/statistics", deps.GoalHandler.Statistics).Methods("GET")
	r.HandleFunc("/api/goals/{id}/mark-completed", deps.GoalHandler.MarkCompleted).Methods("POST")
	r.HandleFunc("/api/goals/{id}/sort-order", deps.GoalHandler.UpdateSortOrder).Methods("PUT")
	r.HandleFunc("/api/goals/{id}/sub-processes", deps.GoalHandler.SubProcesses).Methods("GET")

	// Sub-processes
	r.HandleFunc("/api/sub-processes", deps.SubProcessHandler.List).Methods("GET")
	r.HandleFunc("/api/sub-processes", deps.SubProcessHandler.Create).Methods("POST")
	r.HandleFunc("/api/sub-processes/focused", deps.SubProcessHandler.Focused).Methods("GET")
	r.HandleFunc("/api/sub-processes/{id}", deps.SubProcessHandler.Get).Methods("GET")
	r.HandleFunc("/api/sub-processes/{id}", deps.SubProcessHandler.Update).Methods("PUT")
	r.HandleFunc("/api/sub-processes/{id}", deps.SubProcessHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/sub-processes/{id}/toggle-focus", deps.SubProcessHandler.ToggleFocus).Methods("POST")
	r.HandleFunc("/api/sub-processes/{id}/toggle-status", deps.SubProcessHandler.ToggleStatus).Methods("POST")
	r.HandleFunc("/api/sub-processes/{id}/sort-order", deps.SubProcessHandler.UpdateSortOrder).Methods("PUT")

	// Work heads
	r.HandleFunc("/api/work-heads", deps.WorkHeadHandler.List).Methods("GET")
	r.HandleFunc("/api/work-heads", deps.WorkHeadHandler.Create).Methods("POST")
	r.HandleFunc("/api/work-heads/{id}", deps.WorkHeadHandler.Get).Methods("GET")
	r.HandleFunc("/api/work-heads/{id}", deps.WorkHeadHandler.Update).Methods("PUT")
	r.HandleFunc("/api/work-heads/{id}", deps.WorkHeadHandler.Delete).Methods("DELETE")

	// Work updates
	r.HandleFunc("/api/work-updates", deps.WorkUpdateHandler.List).Methods("GET")
	r.HandleFunc("/api/work-updates", deps.WorkUpdateHandler.Create).Methods("POST")
	r.HandleFunc("/api/work-updates/recent", deps.WorkUpdateHandler.Recent).Methods("GET")
	r.HandleFunc("/api/work-updates/search", deps.WorkUpdateHandler.Search).Methods("GET")
	r.HandleFunc("/api/work-updates/summary-by-head", deps.WorkUpdateHandler.SummaryByHead).Methods("GET")
	r.HandleFunc("/api/work-updates/monthly-counts", deps.WorkUpdateHandler.MonthlyCounts).Methods("GET")
	r.HandleFunc("/api/work-updates/{id}", deps.WorkUpdateHandler.Get).Methods("GET")
	r.HandleFunc("/api/work-updates/{id}", deps.WorkUpdateHandler.Update).Methods("PUT")
	r.HandleFunc("/api/work-updates/{id}", deps.WorkUpdateHandler.Delete).Methods("DELETE")

	// Tasks
	r.HandleFunc("/api/tasks", deps.TaskHandler.List).Methods("GET")
	r.HandleFunc("/api/tasks", deps.TaskHandler.Create).Methods("POST")
	r.HandleFunc("/api/tasks/today", deps.TaskHandler.Today).Methods("GET")
	r.HandleFunc("/api/tasks/overdue", deps.TaskHandler.Overdue).Methods("GET")
	r.HandleFunc("/api/tasks/completed-today", deps.TaskHandler.CompletedToday).Methods("GET")
	r.HandleFunc("/api/tasks/upcoming", deps.TaskHandler.Upcoming).Methods("GET")
	r.HandleFunc("/api/tasks/summary", deps.TaskHandler.Summary).Methods("GET")
	r.HandleFunc("/api/tasks/completion-report", deps.TaskHandler.CompletionReport).Methods("GET")
	r.HandleFunc("/api/tasks/monthly-stats", deps.TaskHandler.MonthlyStats).Methods("GET")
	r.HandleFunc("/api/tasks/{id}", deps.TaskHandler.Get).Methods("GET")
	r.HandleFunc("/api/tasks/{id}", deps.TaskHandler.Update).Methods("PUT")
	r.HandleFunc("/api/tasks/{id}", deps.TaskHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/tasks/{id}/status", deps.TaskHandler.UpdateStatus).Methods("PATCH")

	// Habits
	r.HandleFunc("/api/habits", deps.HabitHandler.List).Methods("GET")
	r.HandleFunc("/api/habits", deps.HabitHandler.Create).Methods("POST")
	r.HandleFunc("/api/habits/register", deps.HabitHandler.Register).Methods("GET")
	r.HandleFunc("/api/habits/stats", deps.HabitHandler.OverallStats).Methods("GET")
	r.HandleFunc("/api/habits/trends", deps.HabitHandler.OverallTrends).Methods("GET")
	r.HandleFunc("/api/habits/{id}", deps.HabitHandler.Get).Methods("GET")
	r.HandleFunc("/api/habits/{id}", deps.HabitHandler.Update).Methods("PUT")
	r.HandleFunc("/api/habits/{id}", deps.HabitHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/habits/{id}/log", deps.HabitHandler.LogCompletion).Methods("POST")
	r.HandleFunc("/api/habits/{id}/toggle", deps.HabitHandler.Toggle).Methods("POST")
	r.HandleFunc("/api/habits/{id}/history", deps.HabitHandler.History).Methods("GET")
	r.HandleFunc("/api/habits/{id}/stats", deps.HabitHandler.Stats).Methods("GET")
	r.HandleFunc("/api/habits/{id}/trends", deps.HabitHandler.Trends).Methods("GET")

	// Habit logs
	r.HandleFunc("/api/habit-logs", deps.HabitHandler.ListLogs).Methods("GET")
	r.HandleFunc("/api/habit-logs", deps.HabitHandler.CreateLog).Methods("POST")
	r.HandleFunc("/api/habit-logs/{id}", deps.HabitHandler.GetLog).Methods("GET")
	r.HandleFunc("/api/habit-logs/{id}", deps.HabitHandler.UpdateLog).Methods("PUT")
	r.HandleFunc("/api/habit-logs/{id}", deps.HabitHandler.DeleteLog).Methods("DELETE")

	// Cashbook (kind is "income" or "expense")
	r.HandleFunc("/api/cashbook/summary", deps.CashbookHandler.Summary).Methods("GET")
	r.HandleFunc("/api/cashbook/{kind}/groups", deps.CashbookHandler.ListGroups).Methods("GET")
	r.HandleFunc("/api/cashbook/{kind}/groups", deps.CashbookHandler.CreateGroup).Methods("POST")
	r.HandleFunc("/api/cashbook/{kind}/groups/{id}", deps.CashbookHandler.UpdateGroup).Methods("PUT")
	r.HandleFunc("/api/cashbook/{kind}/groups/{id}", deps.CashbookHandler.DeleteGroup).Methods("DELETE")
	r.HandleFunc("/api/cashbook/{kind}/entries", deps.CashbookHandler.ListEntries).Methods("GET")
	r.HandleFunc("/api/cashbook/{kind}/entries", deps.CashbookHandler.CreateEntry).Methods("POST")
	r.HandleFunc("/api/cashbook/{kind}/entries/{id}", deps.CashbookHandler.GetEntry).Methods("GET")
	r.HandleFunc("/api/cashbook/{kind}/entries/{id}", deps.CashbookHandler.UpdateEntry).Methods("PUT")
	r.HandleFunc("/api/cashbook/{kind}/entries/{id}", deps.CashbookHandler.DeleteEntry).Methods("DELETE")
	r.HandleFunc("/api/cashbook/{kind}/report", deps.CashbookHandler.GroupReport).Methods("GET")

	// Party ledgers
	r.HandleFunc("/api/parties", deps.PartyHandler.ListLedgers).Methods("GET")
	r.HandleFunc("/api/parties", deps.PartyHandler.CreateLedger).Methods("POST")
	r.HandleFunc("/api/parties/outstanding", deps.PartyHandler.TotalOutstanding).Methods("GET")
	r.HandleFunc("/api/parties/transactions", deps.PartyHandler.ListTransactions).Methods("GET")
	r.HandleFunc("/api/parties/transactions", deps.PartyHandler.CreateTransaction).Methods("POST")
	r.HandleFunc("/api/parties/transactions/{id}", deps.PartyHandler.GetTransaction).Methods("GET")
	r.HandleFunc("/api/parties/transactions/{id}", deps.PartyHandler.UpdateTransaction).Methods("PUT")
	r.HandleFunc("/api/parties/transactions/{id}", deps.PartyHandler.DeleteTransaction).Methods("DELETE")
	r.HandleFunc("/api/parties/{id}", deps.PartyHandler.GetLedger).Methods("GET")
	r.HandleFunc("/api/parties/{id}", deps.PartyHandler.UpdateLedger).Methods("PUT")
	r.HandleFunc("/api/parties/{id}", deps.PartyHandler.DeleteLedger).Methods("DELETE")
	r.HandleFunc("/api/parties/{id}/statement", deps.PartyHandler.Statement).Methods("GET")

	// Debts
	r.HandleFunc("/api/debts", deps.DebtHandler.List).Methods("GET")
	r.HandleFunc("/api/debts", deps.DebtHandler.Create).Methods("POST")
	r.HandleFunc("/api/debts/outstanding", deps.DebtHandler.TotalOutstanding).Methods("GET")
	r.HandleFunc("/api/debts/{id}", deps.DebtHandler.Get).Methods("GET")
	r.HandleFunc("/api/debts/{id}", deps.DebtHandler.Update).Methods("PUT")
	r.HandleFunc("/api/debts/{id}", deps.DebtHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/debts/{id}/schedules", deps.DebtHandler.ListSchedules).Methods("GET")
	r.HandleFunc("/api/debts/{id}/schedules", deps.DebtHandler.CreateSchedule).Methods("POST")
	r.HandleFunc("/api/debts/{id}/schedules/{scheduleId}", deps.DebtHandler.UpdateSchedule).Methods("PUT")
	r.HandleFunc("/api/debts/{id}/schedules/{scheduleId}", deps.DebtHandler.DeleteSchedule).Methods("DELETE")
	r.HandleFunc("/api/debts/{id}/payments", deps.DebtHandler.ListPayments).Methods("GET")
	r.HandleFunc("/api/debts/{id}/payments", deps.DebtHandler.ApplyPayment).Methods("POST")
	r.HandleFunc("/api/debts/{id}/statement", deps.DebtHandler.Statement).Methods("GET")

	// Daily schedule
	r.HandleFunc("/api/schedule", deps.ScheduleHandler.Today).Methods("GET")
	r.HandleFunc("/api/schedule/habits/{id}/complete", deps.ScheduleHandler.CompleteHabit).Methods("POST")
	r.HandleFunc("/api/schedule/tasks/{id}", deps.ScheduleHandler.UpdateTask).Methods("PATCH")
	r.HandleFunc("/api/schedule/sub-processes/{id}/complete", deps.ScheduleHandler.CompleteSubProcess).Methods("POST")

	// Reports
	r.HandleFunc("/api/reports/categories", deps.ReportHandler.CategoryReport).Methods("GET")
	r.HandleFunc("/api/reports/activities", deps.ReportHandler.ActivityReport).Methods("GET")
	r.HandleFunc("/api/reports/gaps", deps.ReportHandler.Gaps).Methods("GET")
	r.HandleFunc("/api/reports/dashboard", deps.ReportHandler.Dashboard).Methods("GET")
	r.HandleFunc("/api/reports/dashboard/time", deps.ReportHandler.TimeDash).Methods("GET")
	r.HandleFunc("/api/reports/dashboard/tasks", deps.ReportHandler.TaskDash).Methods("GET")
	r.HandleFunc("/api/reports/dashboard/habits", deps.ReportHandler.HabitDash).Methods("GET")
	r.HandleFunc("/api/reports/dashboard/goals", deps.ReportHandler.GoalDash).Methods("GET")
	r.HandleFunc("/api/reports/dashboard/work-updates", deps.ReportHandler.WorkDash).Methods("GET")
}
