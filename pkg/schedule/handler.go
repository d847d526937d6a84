package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/daylog/daylog/internal/rest"
	"github.com/daylog/daylog/internal/utils"
	"github.com/daylog/daylog/pkg/habit"
	"github.com/daylog/daylog/pkg/subprocess"
	"github.com/daylog/daylog/pkg/task"
)

type ItemDTO struct {
	Kind      Kind   `json:"kind"`
	RefID     int    `json:"refId"`
	Title     string `json:"title"`
	Detail    string `json:"detail,omitempty"`
	TimeOfDay string `json:"timeOfDay,omitempty"`
	Completed bool   `json:"completed"`
	Priority  string `json:"priority,omitempty"`
}

type DayDTO struct {
	Date  string    `json:"date"`
	Items []ItemDTO `json:"items"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	var day Day
	var err error
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, parseErr := utils.ParseDate(raw)
		if parseErr != nil {
			rest.Error(w, http.StatusBadRequest, "invalid date")
			return
		}
		day, err = h.service.ForDate(r.Context(), date)
	} else {
		day, err = h.service.Today(r.Context())
	}
	if err != nil {
		h.respondError(w, err)
		return
	}

	dto := DayDTO{Date: utils.FormatDate(day.Date), Items: make([]ItemDTO, 0, len(day.Items))}
	for _, item := range day.Items {
		dto.Items = append(dto.Items, ItemDTO{
			Kind:      item.Kind,
			RefID:     item.RefID,
			Title:     item.Title,
			Detail:    item.Detail,
			TimeOfDay: item.TimeOfDay,
			Completed: item.Completed,
			Priority:  item.Priority,
		})
	}
	rest.JSON(w, http.StatusOK, dto)
}

func (h *Handler) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	completed, err := h.service.CompleteHabit(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, map[string]bool{"completed": completed})
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var body struct {
		Status task.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	updated, err := h.service.UpdateTask(r.Context(), id, body.Status)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, map[string]any{
		"id":     updated.ID,
		"status": updated.Status,
	})
}

func (h *Handler) CompleteSubProcess(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	completed, err := h.service.CompleteSubProcess(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, subprocess.ToDTO(completed))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, habit.ErrNotFound):
		rest.Error(w, http.StatusNotFound, "Habit not found")
	case errors.Is(err, task.ErrNotFound):
		rest.Error(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, subprocess.ErrNotFound):
		rest.Error(w, http.StatusNotFound, "Sub-process not found")
	case errors.Is(err, habit.ErrAlreadyLogged):
		rest.Error(w, http.StatusConflict, err.Error())
	default:
		rest.Error(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}
