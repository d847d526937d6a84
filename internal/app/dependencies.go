package app

import (
	"database/sql"
	"time"

	"github.com/daylog/daylog/internal/config"
	"github.com/daylog/daylog/internal/utils"
	"github.com/daylog/daylog/pkg/activity"
	"github.com/daylog/daylog/pkg/cashbook"
	"github.com/daylog/daylog/pkg/category"
	"github.com/daylog/daylog/pkg/debt"
	"github.com/daylog/daylog/pkg/goal"
	"github.com/daylog/daylog/pkg/habit"
	"github.com/daylog/daylog/pkg/party"
	"github.com/daylog/daylog/pkg/report"
	"github.com/daylog/daylog/pkg/schedule"
	"github.com/daylog/daylog/pkg/subprocess"
	"github.com/daylog/daylog/pkg/task"
	"github.com/daylog/daylog/pkg/timeentry"
	"github.com/daylog/daylog/pkg/workhead"
	"github.com/daylog/daylog/pkg/workupdate"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	CategoryService category.Service
	CategoryHandler *category.Handler

	ActivityService activity.Service
	ActivityHandler *activity.Handler

	TimeEntryService timeentry.Service
	TimeEntryHandler *timeentry.Handler

	SubProcessService subprocess.Service
	SubProcessHandler *subprocess.Handler

	GoalService goal.Service
	GoalHandler *goal.Handler

	WorkHeadService workhead.Service
	WorkHeadHandler *workhead.Handler

	WorkUpdateService workupdate.Service
	WorkUpdateHandler *workupdate.Handler

	TaskService task.Service
	TaskHandler *task.Handler

	HabitService habit.Service
	HabitHandler *habit.Handler

	CashbookService cashbook.Service
	CashbookHandler *cashbook.Handler

	PartyService party.Service
	PartyHandler *party.Handler

	DebtService debt.Service
	DebtHandler *debt.Handler

	ScheduleService schedule.Service
	ScheduleHandler *schedule.Handler

	ReportService report.Service
	ReportHandler *report.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application, loc *time.Location) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = utils.SystemClock{}

	deps.CategoryService = category.NewService(category.NewRepository(db))
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.ActivityService = activity.NewService(activity.NewRepository(db))
	deps.ActivityHandler = activity.NewHandler(deps.ActivityService)

	deps.TimeEntryService = timeentry.NewService(timeentry.NewRepository(db), deps.ActivityService, deps.Clock)
	deps.TimeEntryHandler = timeentry.NewHandler(deps.TimeEntryService, loc)

	subProcessService := subprocess.NewService(subprocess.NewRepository(db), deps.Clock)
	deps.SubProcessService = subProcessService
	deps.SubProcessHandler = subprocess.NewHandler(deps.SubProcessService)

	deps.GoalService = goal.NewService(goal.NewRepository(db), subProcessService, deps.Clock)
	deps.GoalHandler = goal.NewHandler(deps.GoalService)

	deps.WorkHeadService = workhead.NewService(workhead.NewRepository(db), deps.Clock)
	deps.WorkHeadHandler = workhead.NewHandler(deps.WorkHeadService)

	deps.WorkUpdateService = workupdate.NewService(workupdate.NewRepository(db), deps.Clock)
	deps.WorkUpdateHandler = workupdate.NewHandler(deps.WorkUpdateService)

	deps.TaskService = task.NewService(task.NewRepository(db), deps.Clock, loc)
	deps.TaskHandler = task.NewHandler(deps.TaskService)

	deps.HabitService = habit.NewService(habit.NewRepository(db), deps.Clock, loc)
	deps.HabitHandler = habit.NewHandler(deps.HabitService, loc)

	deps.CashbookService = cashbook.NewService(cashbook.NewRepository(db), deps.Clock)
	deps.CashbookHandler = cashbook.NewHandler(deps.CashbookService, deps.Clock, loc)

	deps.PartyService = party.NewService(party.NewRepository(db), deps.Clock)
	deps.PartyHandler = party.NewHandler(deps.PartyService, deps.Clock, loc)

	deps.DebtService = debt.NewService(debt.NewRepository(db), deps.Clock, loc)
	deps.DebtHandler = debt.NewHandler(deps.DebtService)

	deps.ScheduleService = schedule.NewService(deps.HabitService, deps.TaskService, deps.SubProcessService, deps.Clock, loc)
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService)

	deps.ReportService = report.NewService(deps.TimeEntryService, deps.ActivityService, deps.TaskService,
		deps.HabitService, deps.GoalService, deps.SubProcessService, deps.WorkUpdateService)
	deps.ReportHandler = report.NewHandler(deps.ReportService, deps.Clock, loc)

	return deps
}
