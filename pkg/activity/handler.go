package activity

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/daylog/daylog/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ActivityDTO struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	IsActive    bool         `json:"isActive"`
	Category    *CategoryDTO `json:"category,omitempty"`
	CategoryID  *int         `json:"categoryId,omitempty"`
	CreatedAt   time.Time    `json:"createdAt,omitzero"`
}

type CategoryDTO struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new activity")

	var dto ActivityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.Name == "" {
		rest.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.service.Create(r.Context(), toActivity(dto))
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusCreated, toDTO(created))
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	activities, err := h.service.GetAll(r.Context(), activeOnly)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]ActivityDTO, 0, len(activities))
	for _, a := range activities {
		dtos = append(dtos, toDTO(a))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	activity, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Activity not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(activity))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto ActivityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	dto.ID = id

	ok, err := h.service.Update(r.Context(), toActivity(dto))
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		rest.Error(w, http.StatusNotFound, "Activity not found")
		return
	}
	updated, err := h.service.Get(r.Context(), id)
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
	ok, err := h.service.Delete(r.Context(), id)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		rest.Error(w, http.StatusNotFound, "Activity not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toDTO(a Activity) ActivityDTO {
	dto := ActivityDTO{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
	}
	if a.Category != nil {
		dto.Category = &CategoryDTO{ID: a.Category.ID, Name: a.Category.Name, Color: a.Category.Color}
	}
	return dto
}

func toActivity(dto ActivityDTO) Activity {
	activity := Activity{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		IsActive:    dto.IsActive,
	}
	if dto.CategoryID != nil {
		activity.Category = &CategoryRef{ID: *dto.CategoryID}
	} else if dto.Category != nil {
		activity.Category = &CategoryRef{ID: dto.Category.ID}
	}
	return activity
}
