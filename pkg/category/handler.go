package category

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

type CategoryDTO struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new category")

	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.Name == "" {
		rest.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.service.Create(r.Context(), toCategory(dto))
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusCreated, toDTO(created))
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetAll(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, toDTO(c))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	category, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(category))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	dto.ID = id

	ok, err := h.service.Update(r.Context(), toCategory(dto))
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		rest.Error(w, http.StatusNotFound, "Category not found")
		return
	}
	rest.JSON(w, http.StatusOK, dto)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	ok, err := h.service.Delete(r.Context(), id)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		rest.Error(w, http.StatusNotFound, "Category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func toDTO(c Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Color: c.Color, CreatedAt: c.CreatedAt}
}

func toCategory(dto CategoryDTO) Category {
	return Category{ID: dto.ID, Name: dto.Name, Color: dto.Color}
}
