package subprocess

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/rest"
)

type SubProcessDTO struct {
	ID            int        `json:"id"`
	GoalID        int        `json:"goalId"`
	GoalName      string     `json:"goalName,omitempty"`
	Name          string     `json:"name"`
	EstimatedDays string     `json:"estimatedDays"`
	Status        Status     `json:"status"`
	Focus         bool       `json:"focus"`
	SortOrder     int        `json:"sortOrder"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt,omitzero"`
	UpdatedAt     time.Time  `json:"updatedAt,omitzero"`
}

type sortOrderRequest struct {
	SortOrder int `json:"sortOrder"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new sub-process")

	var dto SubProcessDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.Name == "" {
		rest.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if dto.GoalID == 0 {
		rest.Error(w, http.StatusBadRequest, "goalId is required")
		return
	}
	sp, err := fromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), sp)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, ToDTO(created))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var filter Filter
	q := r.URL.Query()
	if raw := q.Get("goal"); raw != "" {
		goalID, err := strconv.Atoi(raw)
		if err != nil {
			rest.Error(w, http.StatusBadRequest, "invalid goal id")
			return
		}
		filter.GoalID = &goalID
	}
	if raw := q.Get("status"); raw != "" {
		status := Status(raw)
		filter.Status = &status
	}
	if raw := q.Get("focus"); raw != "" {
		focus := raw == "true"
		filter.Focus = &focus
	}

	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, ToDTOs(items))
}

func (h *Handler) Focused(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Focused(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, ToDTOs(items))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	sp, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, ToDTO(sp))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto SubProcessDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	dto.ID = id
	sp, err := fromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), sp)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, ToDTO(updated))
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

func (h *Handler) ToggleFocus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	sp, err := h.service.ToggleFocus(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, ToDTO(sp))
}

func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	sp, err := h.service.ToggleStatus(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, ToDTO(sp))
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
	sp, err := h.service.UpdateSortOrder(r.Context(), id, req.SortOrder)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, ToDTO(sp))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		rest.Error(w, http.StatusNotFound, "Sub-process not found")
	case errors.Is(err, ErrInvalidEstimate):
		rest.Error(w, http.StatusBadRequest, err.Error())
	default:
		rest.Error(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func ToDTO(sp SubProcess) SubProcessDTO {
	return SubProcessDTO{
		ID:            sp.ID,
		GoalID:        sp.GoalID,
		GoalName:      sp.GoalName,
		Name:          sp.Name,
		EstimatedDays: sp.EstimatedDays.String(),
		Status:        sp.Status,
		Focus:         sp.Focus,
		SortOrder:     sp.SortOrder,
		CompletedAt:   sp.CompletedAt,
		CreatedAt:     sp.CreatedAt,
		UpdatedAt:     sp.UpdatedAt,
	}
}

func ToDTOs(items []SubProcess) []SubProcessDTO {
	dtos := make([]SubProcessDTO, 0, len(items))
	for _, sp := range items {
		dtos = append(dtos, ToDTO(sp))
	}
	return dtos
}

func fromDTO(dto SubProcessDTO) (SubProcess, error) {
	estimated := decimal.Zero
	if dto.EstimatedDays != "" {
		var err error
		estimated, err = decimal.NewFromString(dto.EstimatedDays)
		if err != nil {
			return SubProcess{}, errors.New("invalid estimatedDays")
		}
	}
	return SubProcess{
		ID:            dto.ID,
		GoalID:        dto.GoalID,
		Name:          dto.Name,
		EstimatedDays: estimated,
		Status:        dto.Status,
		Focus:         dto.Focus,
		SortOrder:     dto.SortOrder,
	}, nil
}
