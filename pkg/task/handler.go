package task

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/rest"
	"github.com/daylog/daylog/internal/utils"
)

type TaskDTO struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        Status     `json:"status"`
	Priority      Priority   `json:"priority"`
	TaskDate      string     `json:"taskDate"`
	TaskTime      string     `json:"taskTime,omitempty"`
	EstimatedTime *int       `json:"estimatedTime,omitempty"`
	EstimateUnit  string     `json:"estimateUnit,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt,omitzero"`
	UpdatedAt     time.Time  `json:"updatedAt,omitzero"`
}

type StatusSummaryDTO struct {
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
	Total      int `json:"total"`
}

type DayCompletionDTO struct {
	Date       string         `json:"date"`
	Total      int            `json:"total"`
	ByPriority map[string]int `json:"byPriority"`
}

type CompletionReportDTO struct {
	From               string             `json:"from"`
	To                 string             `json:"to"`
	TotalCompleted     int                `json:"totalCompleted"`
	AvgCompletionHours float64            `json:"avgCompletionHours"`
	Days               []DayCompletionDTO `json:"days"`
}

type MonthlyStatDTO struct {
	Month     int `json:"month"`
	Completed int `json:"completed"`
}

type statusRequest struct {
	Status Status `json:"status"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new task")

	var dto TaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.Title == "" {
		rest.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	t, err := fromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), t)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, toDTO(created))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter Filter
	if raw := q.Get("status"); raw != "" {
		status := Status(raw)
		filter.Status = &status
	}
	if raw := q.Get("priority"); raw != "" {
		priority := Priority(raw)
		filter.Priority = &priority
	}
	var err error
	if raw := q.Get("start_date"); raw != "" {
		if filter.From, err = utils.ParseDate(raw); err != nil {
			rest.Error(w, http.StatusBadRequest, "invalid start_date")
			return
		}
	}
	if raw := q.Get("end_date"); raw != "" {
		if filter.To, err = utils.ParseDate(raw); err != nil {
			rest.Error(w, http.StatusBadRequest, "invalid end_date")
			return
		}
	}
	filter.Search = q.Get("q")

	tasks, err := h.service.List(r.Context(), filter)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toDTOs(tasks))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(t))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto TaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	dto.ID = id
	t, err := fromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), t)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(updated))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if req.Status == "" {
		rest.Error(w, http.StatusBadRequest, "status is required")
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), id, req.Status)
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

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.service.Today)
}

func (h *Handler) Overdue(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.service.Overdue)
}

func (h *Handler) CompletedToday(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.service.CompletedToday)
}

func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			rest.Error(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = parsed
	}
	tasks, err := h.service.Upcoming(r.Context(), days)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toDTOs(tasks))
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, StatusSummaryDTO{
		Pending:    summary.Pending,
		InProgress: summary.InProgress,
		Completed:  summary.Completed,
		Cancelled:  summary.Cancelled,
		Total:      summary.Total,
	})
}

func (h *Handler) CompletionReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := utils.ParseDate(q.Get("start_date"))
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	to, err := utils.ParseDate(q.Get("end_date"))
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid end_date")
		return
	}

	report, err := h.service.CompletionReport(r.Context(), from, to)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dto := CompletionReportDTO{
		From:               utils.FormatDate(report.From),
		To:                 utils.FormatDate(report.To),
		TotalCompleted:     report.TotalCompleted,
		AvgCompletionHours: report.AvgCompletionHours,
		Days:               make([]DayCompletionDTO, 0, len(report.Days)),
	}
	for _, day := range report.Days {
		byPriority := make(map[string]int, len(day.ByPriority))
		for p, n := range day.ByPriority {
			byPriority[string(p)] = n
		}
		dto.Days = append(dto.Days, DayCompletionDTO{
			Date:       utils.FormatDate(day.Date),
			Total:      day.Total,
			ByPriority: byPriority,
		})
	}
	rest.JSON(w, http.StatusOK, dto)
}

func (h *Handler) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid year")
		return
	}
	stats, err := h.service.MonthlyStats(r.Context(), year)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]MonthlyStatDTO, 0, len(stats))
	for _, s := range stats {
		dtos = append(dtos, MonthlyStatDTO{Month: s.Month, Completed: s.Completed})
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context) ([]Task, error)) {
	tasks, err := fetch(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toDTOs(tasks))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		rest.Error(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, ErrInvalidTime), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidPriority):
		rest.Error(w, http.StatusBadRequest, err.Error())
	default:
		rest.Error(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func toDTO(t Task) TaskDTO {
	return TaskDTO{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        t.Status,
		Priority:      t.Priority,
		TaskDate:      utils.FormatDate(t.TaskDate),
		TaskTime:      t.TaskTime,
		EstimatedTime: t.EstimatedTime,
		EstimateUnit:  t.EstimateUnit,
		CompletedAt:   t.CompletedAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toDTOs(tasks []Task) []TaskDTO {
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, toDTO(t))
	}
	return dtos
}

func fromDTO(dto TaskDTO) (Task, error) {
	t := Task{
		ID:            dto.ID,
		Title:         dto.Title,
		Description:   dto.Description,
		Status:        dto.Status,
		Priority:      dto.Priority,
		TaskTime:      dto.TaskTime,
		EstimatedTime: dto.EstimatedTime,
		EstimateUnit:  dto.EstimateUnit,
	}
	if dto.TaskDate != "" {
		date, err := utils.ParseDate(dto.TaskDate)
		if err != nil {
			return Task{}, errors.New("invalid taskDate")
		}
		t.TaskDate = date
	}
	return t, nil
}
