package workupdate

import (
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

type WorkUpdateDTO struct {
	ID          int       `json:"id"`
	Date        string    `json:"date"`
	HeadID      *int      `json:"headId,omitempty"`
	HeadName    string    `json:"headName,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

type HeadSummaryDTO struct {
	HeadID   int    `json:"headId"`
	HeadName string `json:"headName"`
	Count    int    `json:"count"`
	LastDate string `json:"lastDate,omitempty"`
}

type MonthlyCountDTO struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new work update")

	var dto WorkUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.Description == "" {
		rest.Error(w, http.StatusBadRequest, "description is required")
		return
	}
	wu, err := fromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), wu)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusCreated, toDTO(created))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter Filter
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
	if raw := q.Get("head"); raw != "" {
		headID, err := strconv.Atoi(raw)
		if err != nil {
			rest.Error(w, http.StatusBadRequest, "invalid head id")
			return
		}
		filter.HeadID = &headID
	}

	updates, err := h.service.List(r.Context(), filter)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toDTOs(updates))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	wu, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toDTO(wu))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto WorkUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	dto.ID = id
	wu, err := fromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), wu)
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

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	updates, err := h.service.Recent(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toDTOs(updates))
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		rest.Error(w, http.StatusBadRequest, "q is required")
		return
	}
	updates, err := h.service.Search(r.Context(), query)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, toDTOs(updates))
}

func (h *Handler) SummaryByHead(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.SummaryByHead(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]HeadSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dto := HeadSummaryDTO{HeadID: s.HeadID, HeadName: s.HeadName, Count: s.Count}
		if !s.LastDate.IsZero() {
			dto.LastDate = utils.FormatDate(s.LastDate)
		}
		dtos = append(dtos, dto)
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) MonthlyCounts(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid year")
		return
	}
	counts, err := h.service.MonthlyCounts(r.Context(), year)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]MonthlyCountDTO, 0, len(counts))
	for _, c := range counts {
		dtos = append(dtos, MonthlyCountDTO{Month: c.Month, Count: c.Count})
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		rest.Error(w, http.StatusNotFound, "Work update not found")
		return
	}
	rest.Error(w, http.StatusInternalServerError, err.Error())
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func toDTO(wu WorkUpdate) WorkUpdateDTO {
	return WorkUpdateDTO{
		ID:          wu.ID,
		Date:        utils.FormatDate(wu.Date),
		HeadID:      wu.HeadID,
		HeadName:    wu.HeadName,
		Description: wu.Description,
		CreatedAt:   wu.CreatedAt,
		UpdatedAt:   wu.UpdatedAt,
	}
}

func toDTOs(updates []WorkUpdate) []WorkUpdateDTO {
	dtos := make([]WorkUpdateDTO, 0, len(updates))
	for _, wu := range updates {
		dtos = append(dtos, toDTO(wu))
	}
	return dtos
}

func fromDTO(dto WorkUpdateDTO) (WorkUpdate, error) {
	wu := WorkUpdate{
		ID:          dto.ID,
		HeadID:      dto.HeadID,
		Description: dto.Description,
	}
	if dto.Date != "" {
		date, err := utils.ParseDate(dto.Date)
		if err != nil {
			return WorkUpdate{}, errors.New("invalid date")
		}
		wu.Date = date
	}
	return wu, nil
}
