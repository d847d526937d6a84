package workhead

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/rest"
)

type WorkHeadDTO struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new work head")

	var dto WorkHeadDTO
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
	activeOnly := r.URL.Query().Get("active") == "true"
	heads, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]WorkHeadDTO, 0, len(heads))
	for _, wh := range heads {
		dtos = append(dtos, toDTO(wh))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	wh, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Work head not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(wh))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto WorkHeadDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	dto.ID = id

	updated, err := h.service.Update(r.Context(), fromDTO(dto))
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Work head not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			rest.Error(w, http.StatusNotFound, "Work head not found")
			return
		}
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toDTO(wh WorkHead) WorkHeadDTO {
	return WorkHeadDTO{
		ID:          wh.ID,
		Name:        wh.Name,
		Description: wh.Description,
		IsActive:    wh.IsActive,
		CreatedAt:   wh.CreatedAt,
		UpdatedAt:   wh.UpdatedAt,
	}
}

func fromDTO(dto WorkHeadDTO) WorkHead {
	return WorkHead{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		IsActive:    dto.IsActive,
	}
}
