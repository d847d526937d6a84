package goal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/rest"
	"github.com/daylog/daylog/pkg/subprocess"
)

type GoalDTO struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

type StatisticsDTO struct {
	GoalID               int     `json:"goalId"`
	TotalSubProcesses    int     `json:"totalSubProcesses"`
	CompletedCount       int     `json:"completedCount"`
	FocusedCount         int     `json:"focusedCount"`
	TotalEstimatedDays   string  `json:"totalEstimatedDays"`
	CompletedDays        string  `json:"completedDays"`
	RemainingDays        string  `json:"remainingDays"`
	TimeProgressPercent  float64 `json:"timeProgressPercent"`
	CountProgressPercent float64 `json:"countProgressPercent"`
}

type sortOrderRequest struct {
	SortOrder int `json:"sortOrder"`
}

type bulkOrderRequest struct {
	Orders []bulkOrderEntry `json:"orders"`
}

type bulkOrderEntry struct {
	ID        int `json:"id"`
	SortOrder int `json:"sortOrder"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new goal")

	var dto GoalDTO
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
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusCreated, toDTO(created))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var status *Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := Status(raw)
		status = &s
	}
	goals, err := h.service.List(r.Context(), status)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]GoalDTO, 0, len(goals))
	for _, g := range goals {
		dtos = append(dtos, toDTO(g))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	g, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(g))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto GoalDTO
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

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	stats, err := h.service.Statistics(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, StatisticsDTO{
		GoalID:               stats.GoalID,
		TotalSubProcesses:    stats.TotalSubProcesses,
		CompletedCount:       stats.CompletedCount,
		FocusedCount:         stats.FocusedCount,
		TotalEstimatedDays:   stats.TotalEstimatedDays.String(),
		CompletedDays:        stats.CompletedDays.String(),
		RemainingDays:        stats.RemainingDays.String(),
		TimeProgressPercent:  stats.TimeProgressPercent,
		CountProgressPercent: stats.CountProgressPercent,
	})
}

func (h *Handler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	g, err := h.service.MarkCompleted(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(g))
}

func (h *Handler) UpdateSortOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req sortOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	g, err := h.service.UpdateSortOrder(r.Context(), id, req.SortOrder)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(g))
}

func (h *Handler) BulkUpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req bulkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	orders := make([]OrderUpdate, 0, len(req.Orders))
	for _, o := range req.Orders {
		orders = append(orders, OrderUpdate{ID: o.ID, SortOrder: o.SortOrder})
	}
	if err := h.service.UpdateOrders(r.Context(), orders); err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, map[string]string{"status": "order updated"})
}

func (h *Handler) SubProcesses(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	items, err := h.service.SubProcesses(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, subprocess.ToDTOs(items))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Goal not found")
		return
	}
	rest.Error(w, http.StatusInternalServerError, err.Error())
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func toDTO(g Goal) GoalDTO {
	return GoalDTO{
		ID:        g.ID,
		Name:      g.Name,
		Status:    g.Status,
		SortOrder: g.SortOrder,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func fromDTO(dto GoalDTO) Goal {
	return Goal{
		ID:        dto.ID,
		Name:      dto.Name,
		Status:    dto.Status,
		SortOrder: dto.SortOrder,
	}
}
