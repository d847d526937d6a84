package habit

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/rest"
	"github.com/daylog/daylog/internal/utils"
)

type HabitDTO struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Frequency        Frequency `json:"frequency"`
	ReminderTime     string    `json:"reminderTime,omitempty"`
	IsReminderActive bool      `json:"isReminderActive"`
	CreatedAt        time.Time `json:"createdAt,omitzero"`
}

type LogDTO struct {
	ID          int       `json:"id"`
	HabitID     int       `json:"habitId"`
	LogDate     string    `json:"logDate"`
	CompletedAt time.Time `json:"completedAt"`
	Notes       string    `json:"notes,omitempty"`
}

type StatsDTO struct {
	HabitID          int     `json:"habitId"`
	CurrentStreak    int     `json:"currentStreak"`
	WeekRate         float64 `json:"weekRate"`
	MonthRate        float64 `json:"monthRate"`
	TotalCompletions int     `json:"totalCompletions"`
}

type RegisterRowDTO struct {
	Habit         HabitDTO `json:"habit"`
	CompletedDays []string `json:"completedDays"`
}

type TrendPointDTO struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Rate  float64 `json:"rate"`
}

type OverallStatsDTO struct {
	TotalHabits         int     `json:"totalHabits"`
	ActiveHabits        int     `json:"activeHabits"`
	CompletionRate      float64 `json:"completionRate"`
	LongestStreak       int     `json:"longestStreak"`
	MostConsistentHabit string  `json:"mostConsistentHabit,omitempty"`
}

type HabitTrendDTO struct {
	Habit           HabitDTO `json:"habit"`
	CompletionCount int      `json:"completionCount"`
	Rate            float64  `json:"rate"`
}

type TrendSummaryDTO struct {
	Trends           []HabitTrendDTO `json:"trends"`
	TotalCompletions int             `json:"totalCompletions"`
	DailyAverage     float64         `json:"dailyAverage"`
}

type logUpdateRequest struct {
	HabitID int    `json:"habitId"`
	Date    string `json:"date"`
	Notes   string `json:"notes"`
}

type logRequest struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

type toggleResponse struct {
	HabitID   int    `json:"habitId"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new habit")

	var dto HabitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.Name == "" {
		rest.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.service.Create(r.Context(), fromDTO(dto))
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, toDTO(created))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var habits []Habit
	var err error
	if r.URL.Query().Get("reminders") == "active" {
		habits, err = h.service.WithActiveReminder(r.Context())
	} else {
		habits, err = h.service.List(r.Context())
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]HabitDTO, 0, len(habits))
	for _, habit := range habits {
		dtos = append(dtos, toDTO(habit))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	habit, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(habit))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto HabitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	dto.ID = id

	updated, err := h.service.Update(r.Context(), fromDTO(dto))
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LogCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid date")
		return
	}

	logged, err := h.service.LogCompletion(r.Context(), id, date, req.Notes)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, toLogDTO(logged))
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req logRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid date")
		return
	}
	if date.IsZero() {
		date = time.Now().In(h.loc)
	}

	completed, err := h.service.Toggle(r.Context(), id, date)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toggleResponse{
		HabitID:   id,
		Date:      utils.FormatDate(date),
		Completed: completed,
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	from, to, err := h.rangeFromQuery(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := h.service.History(r.Context(), id, from, to)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]LogDTO, 0, len(logs))
	for _, l := range logs {
		dtos = append(dtos, toLogDTO(l))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.rangeFromQuery(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.service.Register(r.Context(), from, to)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]RegisterRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, RegisterRowDTO{Habit: toDTO(row.Habit), CompletedDays: row.CompletedDays})
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	stats, err := h.service.Stats(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, StatsDTO{
		HabitID:          stats.HabitID,
		CurrentStreak:    stats.CurrentStreak,
		WeekRate:         stats.WeekRate,
		MonthRate:        stats.MonthRate,
		TotalCompletions: stats.TotalCompletions,
	})
}

func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	months := 6
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			rest.Error(w, http.StatusBadRequest, "invalid months")
			return
		}
		months = parsed
	}

	points, err := h.service.Trends(r.Context(), id, months)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]TrendPointDTO, 0, len(points))
	for _, p := range points {
		dtos = append(dtos, TrendPointDTO{Year: p.Year, Month: p.Month, Rate: p.Rate})
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) OverallStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.OverallStats(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, OverallStatsDTO{
		TotalHabits:         stats.TotalHabits,
		ActiveHabits:        stats.ActiveHabits,
		CompletionRate:      stats.CompletionRate,
		LongestStreak:       stats.LongestStreak,
		MostConsistentHabit: stats.MostConsistentHabit,
	})
}

func (h *Handler) OverallTrends(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			rest.Error(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = parsed
	}

	summary, err := h.service.OverallTrends(r.Context(), days)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dto := TrendSummaryDTO{
		Trends:           make([]HabitTrendDTO, 0, len(summary.Trends)),
		TotalCompletions: summary.TotalCompletions,
		DailyAverage:     summary.DailyAverage,
	}
	for _, t := range summary.Trends {
		dto.Trends = append(dto.Trends, HabitTrendDTO{
			Habit:           toDTO(t.Habit),
			CompletionCount: t.CompletionCount,
			Rate:            t.Rate,
		})
	}
	rest.JSON(w, http.StatusOK, dto)
}

func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	var habitID *int
	if raw := r.URL.Query().Get("habit_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			rest.Error(w, http.StatusBadRequest, "invalid habit_id")
			return
		}
		habitID = &id
	}

	logs, err := h.service.Logs(r.Context(), habitID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]LogDTO, 0, len(logs))
	for _, l := range logs {
		dtos = append(dtos, toLogDTO(l))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateLog(w http.ResponseWriter, r *http.Request) {
	var req logUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if req.HabitID == 0 {
		rest.Error(w, http.StatusBadRequest, "habitId is required")
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid date")
		return
	}

	logged, err := h.service.LogCompletion(r.Context(), req.HabitID, date, req.Notes)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, toLogDTO(logged))
}

func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	l, err := h.service.GetLog(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toLogDTO(l))
}

func (h *Handler) UpdateLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req logUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid date")
		return
	}

	updated, err := h.service.UpdateLog(r.Context(), Log{ID: id, LogDate: date, Notes: req.Notes})
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toLogDTO(updated))
}

func (h *Handler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.service.DeleteLogByID(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rangeFromQuery(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	now := time.Now().In(h.loc)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.loc)
	to := from.AddDate(0, 1, -1)
	var err error
	if raw := q.Get("start_date"); raw != "" {
		if from, err = utils.ParseDate(raw); err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid start_date")
		}
	}
	if raw := q.Get("end_date"); raw != "" {
		if to, err = utils.ParseDate(raw); err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid end_date")
		}
	}
	return from, to, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		rest.Error(w, http.StatusNotFound, "Habit not found")
	case errors.Is(err, ErrLogNotFound):
		rest.Error(w, http.StatusNotFound, "Habit log not found")
	case errors.Is(err, ErrAlreadyLogged):
		rest.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidFrequency):
		rest.Error(w, http.StatusBadRequest, err.Error())
	default:
		rest.Error(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func parseOptionalDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return utils.ParseDate(raw)
}

func toDTO(h Habit) HabitDTO {
	return HabitDTO{
		ID:               h.ID,
		Name:             h.Name,
		Description:      h.Description,
		Frequency:        h.Frequency,
		ReminderTime:     h.ReminderTime,
		IsReminderActive: h.IsReminderActive,
		CreatedAt:        h.CreatedAt,
	}
}

func toLogDTO(l Log) LogDTO {
	return LogDTO{
		ID:          l.ID,
		HabitID:     l.HabitID,
		LogDate:     utils.FormatDate(l.LogDate),
		CompletedAt: l.CompletedAt,
		Notes:       l.Notes,
	}
}

func fromDTO(dto HabitDTO) Habit {
	return Habit{
		ID:               dto.ID,
		Name:             dto.Name,
		Description:      dto.Description,
		Frequency:        dto.Frequency,
		ReminderTime:     dto.ReminderTime,
		IsReminderActive: dto.IsReminderActive,
	}
}
