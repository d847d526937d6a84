package report

import (
	"net/http"
	"time"

	"github.com/daylog/daylog/internal/daterange"
	"github.com/daylog/daylog/internal/rest"
	"github.com/daylog/daylog/internal/utils"
	"github.com/daylog/daylog/pkg/task"
	"github.com/daylog/daylog/pkg/timeentry"
	"github.com/daylog/daylog/pkg/workupdate"
)

type CategoryRowDTO struct {
	CategoryID   int             `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Color        string          `json:"color,omitempty"`
	TotalMinutes int             `json:"totalMinutes"`
	EntryCount   int             `json:"entryCount"`
	Percent      float64         `json:"percent"`
	Entries      []EntrySliceDTO `json:"entries,omitempty"`
}

// EntrySliceDTO is the slim time-entry rendering used inside reports.
type EntrySliceDTO struct {
	ID              int    `json:"id"`
	ActivityID      int    `json:"activityId"`
	ActivityName    string `json:"activityName,omitempty"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
}

type CategoryReportDTO struct {
	StartDate    string           `json:"startDate"`
	EndDate      string           `json:"endDate"`
	TotalMinutes int              `json:"totalMinutes"`
	Categories   []CategoryRowDTO `json:"categories"`
}

type ActivityRowDTO struct {
	ActivityID   int     `json:"activityId"`
	ActivityName string  `json:"activityName"`
	TotalMinutes int     `json:"totalMinutes"`
	EntryCount   int     `json:"entryCount"`
	Percent      float64 `json:"percent"`
}

type ActivityReportDTO struct {
	StartDate    string           `json:"startDate"`
	EndDate      string           `json:"endDate"`
	TotalMinutes int              `json:"totalMinutes"`
	Activities   []ActivityRowDTO `json:"activities"`
}

type TimeDashDTO struct {
	TotalMinutes int              `json:"totalMinutes"`
	TotalEntries int              `json:"totalEntries"`
	Categories   []CategoryRowDTO `json:"categories"`
	Activities   []ActivityRowDTO `json:"activities"`
}

type TaskDashDTO struct {
	Total      int            `json:"total"`
	Pending    int            `json:"pending"`
	InProgress int            `json:"inProgress"`
	Completed  int            `json:"completed"`
	Cancelled  int            `json:"cancelled"`
	Tasks      []TaskSliceDTO `json:"tasks"`
}

type TaskSliceDTO struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	TaskDate string `json:"taskDate"`
}

type HabitDashRowDTO struct {
	HabitID        int     `json:"habitId"`
	Name           string  `json:"name"`
	Frequency      string  `json:"frequency"`
	CompletedCount int     `json:"completedCount"`
	PendingCount   int     `json:"pendingCount"`
	Rate           float64 `json:"rate"`
}

type HabitDashDTO struct {
	Habits []HabitDashRowDTO `json:"habits"`
}

type GoalDashDTO struct {
	FocusGoals            []GoalSliceDTO `json:"focusGoals"`
	TotalSubProcesses     int            `json:"totalSubProcesses"`
	CompletedSubProcesses int            `json:"completedSubProcesses"`
	CompletedInRange      int            `json:"completedInRange"`
	CompletionPercent     float64        `json:"completionPercent"`
}

type GoalSliceDTO struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type HeadSummaryDTO struct {
	HeadID   int    `json:"headId"`
	HeadName string `json:"headName"`
	Count    int    `json:"count"`
	LastDate string `json:"lastDate,omitempty"`
}

type WorkDashDTO struct {
	TotalUpdates int                  `json:"totalUpdates"`
	Heads        []HeadSummaryDTO     `json:"heads"`
	Updates      []WorkUpdateSliceDTO `json:"updates"`
}

type WorkUpdateSliceDTO struct {
	ID          int    `json:"id"`
	Date        string `json:"date"`
	HeadName    string `json:"headName,omitempty"`
	Description string `json:"description"`
}

type DashboardDTO struct {
	StartDate   string       `json:"startDate"`
	EndDate     string       `json:"endDate"`
	Time        TimeDashDTO  `json:"time"`
	Tasks       TaskDashDTO  `json:"tasks"`
	Habits      HabitDashDTO `json:"habits"`
	Goals       GoalDashDTO  `json:"goals"`
	WorkUpdates WorkDashDTO  `json:"workUpdates"`
}

type GapDTO struct {
	GapStart         string `json:"gapStart"`
	GapEnd           string `json:"gapEnd"`
	DurationMinutes  int    `json:"durationMinutes"`
	PreviousActivity string `json:"previousActivity,omitempty"`
	NextActivity     string `json:"nextActivity,omitempty"`
}

type Handler struct {
	service Service
	clock   utils.Clock
	loc     *time.Location
}

func NewHandler(service Service, clock utils.Clock, loc *time.Location) *Handler {
	return &Handler{service: service, clock: clock, loc: loc}
}

func (h *Handler) CategoryReport(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.rangeFromQuery(w, r)
	if !ok {
		return
	}
	report, err := h.service.CategoryReport(r.Context(), rng)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dto := CategoryReportDTO{
		StartDate:    utils.FormatDate(report.From),
		EndDate:      utils.FormatDate(report.To),
		TotalMinutes: report.TotalMinutes,
		Categories:   toCategoryRowDTOs(report.Rows, h.loc, true),
	}
	rest.JSON(w, http.StatusOK, dto)
}

func (h *Handler) ActivityReport(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.rangeFromQuery(w, r)
	if !ok {
		return
	}
	report, err := h.service.ActivityReport(r.Context(), rng)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dto := ActivityReportDTO{
		StartDate:    utils.FormatDate(report.From),
		EndDate:      utils.FormatDate(report.To),
		TotalMinutes: report.TotalMinutes,
		Activities:   toActivityRowDTOs(report.Rows),
	}
	rest.JSON(w, http.StatusOK, dto)
}

func (h *Handler) Gaps(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.rangeFromQuery(w, r)
	if !ok {
		return
	}
	gaps, err := h.service.Gaps(r.Context(), rng)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]GapDTO, 0, len(gaps))
	for _, g := range gaps {
		dtos = append(dtos, GapDTO{
			GapStart:         utils.FormatTime(g.Start),
			GapEnd:           utils.FormatTime(g.End),
			DurationMinutes:  g.DurationMinutes,
			PreviousActivity: g.PreviousActivity,
			NextActivity:     g.NextActivity,
		})
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) TimeDash(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.rangeFromQuery(w, r)
	if !ok {
		return
	}
	dash, err := h.service.TimeDash(r.Context(), rng)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toTimeDashDTO(dash, h.loc))
}

func (h *Handler) TaskDash(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.rangeFromQuery(w, r)
	if !ok {
		return
	}
	dash, err := h.service.TaskDash(r.Context(), rng)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toTaskDashDTO(dash))
}

func (h *Handler) HabitDash(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.rangeFromQuery(w, r)
	if !ok {
		return
	}
	dash, err := h.service.HabitDash(r.Context(), rng)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toHabitDashDTO(dash))
}

func (h *Handler) GoalDash(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.rangeFromQuery(w, r)
	if !ok {
		return
	}
	dash, err := h.service.GoalDash(r.Context(), rng)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toGoalDashDTO(dash))
}

func (h *Handler) WorkDash(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.rangeFromQuery(w, r)
	if !ok {
		return
	}
	dash, err := h.service.WorkDash(r.Context(), rng)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toWorkDashDTO(dash))
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.rangeFromQuery(w, r)
	if !ok {
		return
	}
	dashboard, err := h.service.Dashboard(r.Context(), rng)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, DashboardDTO{
		StartDate:   utils.FormatDate(dashboard.From),
		EndDate:     utils.FormatDate(dashboard.To),
		Time:        toTimeDashDTO(dashboard.Time, h.loc),
		Tasks:       toTaskDashDTO(dashboard.Tasks),
		Habits:      toHabitDashDTO(dashboard.Habits),
		Goals:       toGoalDashDTO(dashboard.Goals),
		WorkUpdates: toWorkDashDTO(dashboard.WorkUpdates),
	})
}

func (h *Handler) rangeFromQuery(w http.ResponseWriter, r *http.Request) (daterange.Range, bool) {
	q := r.URL.Query()
	rangeType := q.Get("range")
	if rangeType == "" {
		rangeType = "this_month"
	}
	rng, err := daterange.Resolve(rangeType, q.Get("start_date"), q.Get("end_date"), h.clock.Now().In(h.loc))
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return daterange.Range{}, false
	}
	return rng, true
}

func toCategoryRowDTOs(rows []CategoryRow, loc *time.Location, includeEntries bool) []CategoryRowDTO {
	dtos := make([]CategoryRowDTO, 0, len(rows))
	for _, row := range rows {
		dto := CategoryRowDTO{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Color:        row.Color,
			TotalMinutes: row.TotalMinutes,
			EntryCount:   row.EntryCount,
			Percent:      row.Percent,
		}
		if includeEntries {
			dto.Entries = toEntrySliceDTOs(row.Entries, loc)
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func toEntrySliceDTOs(entries []timeentry.TimeEntry, loc *time.Location) []EntrySliceDTO {
	dtos := make([]EntrySliceDTO, 0, len(entries))
	for _, e := range entries {
		dto := EntrySliceDTO{
			ID:              e.ID,
			ActivityID:      e.ActivityID,
			ActivityName:    e.ActivityName,
			StartTime:       utils.FormatTime(e.StartTime.In(loc)),
			DurationMinutes: e.DurationMinutes,
		}
		if e.EndTime != nil {
			dto.EndTime = utils.FormatTime(e.EndTime.In(loc))
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func toActivityRowDTOs(rows []ActivityRow) []ActivityRowDTO {
	dtos := make([]ActivityRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, ActivityRowDTO{
			ActivityID:   row.ActivityID,
			ActivityName: row.ActivityName,
			TotalMinutes: row.TotalMinutes,
			EntryCount:   row.EntryCount,
			Percent:      row.Percent,
		})
	}
	return dtos
}

func toTimeDashDTO(dash TimeDash, loc *time.Location) TimeDashDTO {
	return TimeDashDTO{
		TotalMinutes: dash.TotalMinutes,
		TotalEntries: dash.TotalEntries,
		Categories:   toCategoryRowDTOs(dash.Categories, loc, false),
		Activities:   toActivityRowDTOs(dash.Activities),
	}
}

func toTaskDashDTO(dash TaskDash) TaskDashDTO {
	dto := TaskDashDTO{
		Total:      dash.Total,
		Pending:    dash.Pending,
		InProgress: dash.InProgress,
		Completed:  dash.Completed,
		Cancelled:  dash.Cancelled,
		Tasks:      make([]TaskSliceDTO, 0, len(dash.Tasks)),
	}
	for _, t := range dash.Tasks {
		dto.Tasks = append(dto.Tasks, toTaskSliceDTO(t))
	}
	return dto
}

func toTaskSliceDTO(t task.Task) TaskSliceDTO {
	return TaskSliceDTO{
		ID:       t.ID,
		Title:    t.Title,
		Status:   string(t.Status),
		Priority: string(t.Priority),
		TaskDate: utils.FormatDate(t.TaskDate),
	}
}

func toHabitDashDTO(dash HabitDash) HabitDashDTO {
	dto := HabitDashDTO{Habits: make([]HabitDashRowDTO, 0, len(dash.Rows))}
	for _, row := range dash.Rows {
		dto.Habits = append(dto.Habits, HabitDashRowDTO{
			HabitID:        row.Habit.ID,
			Name:           row.Habit.Name,
			Frequency:      string(row.Habit.Frequency),
			CompletedCount: row.CompletedCount,
			PendingCount:   row.PendingCount,
			Rate:           row.Rate,
		})
	}
	return dto
}

func toGoalDashDTO(dash GoalDash) GoalDashDTO {
	dto := GoalDashDTO{
		FocusGoals:            make([]GoalSliceDTO, 0, len(dash.FocusGoals)),
		TotalSubProcesses:     dash.TotalSubProcesses,
		CompletedSubProcesses: dash.CompletedSubProcesses,
		CompletedInRange:      dash.CompletedInRange,
		CompletionPercent:     dash.CompletionPercent,
	}
	for _, g := range dash.FocusGoals {
		dto.FocusGoals = append(dto.FocusGoals, GoalSliceDTO{
			ID:     g.ID,
			Name:   g.Name,
			Status: string(g.Status),
		})
	}
	return dto
}

func toWorkDashDTO(dash WorkDash) WorkDashDTO {
	dto := WorkDashDTO{
		TotalUpdates: dash.TotalUpdates,
		Heads:        make([]HeadSummaryDTO, 0, len(dash.Heads)),
		Updates:      make([]WorkUpdateSliceDTO, 0, len(dash.Updates)),
	}
	for _, head := range dash.Heads {
		summary := HeadSummaryDTO{
			HeadID:   head.HeadID,
			HeadName: head.HeadName,
			Count:    head.Count,
		}
		if !head.LastDate.IsZero() {
			summary.LastDate = utils.FormatDate(head.LastDate)
		}
		dto.Heads = append(dto.Heads, summary)
	}
	for _, u := range dash.Updates {
		dto.Updates = append(dto.Updates, toWorkUpdateSliceDTO(u))
	}
	return dto
}

func toWorkUpdateSliceDTO(u workupdate.WorkUpdate) WorkUpdateSliceDTO {
	return WorkUpdateSliceDTO{
		ID:          u.ID,
		Date:        utils.FormatDate(u.Date),
		HeadName:    u.HeadName,
		Description: u.Description,
	}
}
