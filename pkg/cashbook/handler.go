package cashbook

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/daterange"
	"github.com/daylog/daylog/internal/rest"
	"github.com/daylog/daylog/internal/utils"
)

type GroupDTO struct {
	ID   int    `json:"id"`
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

type EntryDTO struct {
	ID        int       `json:"id"`
	Kind      Kind      `json:"kind"`
	Date      string    `json:"date"`
	Name      string    `json:"name"`
	GroupID   int       `json:"groupId"`
	GroupName string    `json:"groupName,omitempty"`
	Amount    string    `json:"amount"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

type GroupTotalDTO struct {
	GroupID   int    `json:"groupId"`
	GroupName string `json:"groupName"`
	Total     string `json:"total"`
	Count     int    `json:"count"`
}

type ReportDTO struct {
	Kind   Kind            `json:"kind"`
	From   string          `json:"from"`
	To     string          `json:"to"`
	Total  string          `json:"total"`
	Groups []GroupTotalDTO `json:"groups"`
}

type SummaryDTO struct {
	From         string `json:"from"`
	To           string `json:"to"`
	TotalIncome  string `json:"totalIncome"`
	TotalExpense string `json:"totalExpense"`
	Net          string `json:"net"`
}

type Handler struct {
	service Service
	clock   utils.Clock
	loc     *time.Location
}

func NewHandler(service Service, clock utils.Clock, loc *time.Location) *Handler {
	return &Handler{service: service, clock: clock, loc: loc}
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	kind := pathKind(r)
	var dto GroupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.Name == "" {
		rest.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.service.CreateGroup(r.Context(), kind, dto.Name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, toGroupDTO(created))
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.Groups(r.Context(), pathKind(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]GroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, toGroupDTO(g))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto GroupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.Name == "" {
		rest.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	updated, err := h.service.UpdateGroup(r.Context(), Group{ID: id, Kind: pathKind(r), Name: dto.Name})
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toGroupDTO(updated))
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.service.DeleteGroup(r.Context(), pathKind(r), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new cash book entry")

	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.Name == "" {
		rest.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	dto.Kind = pathKind(r)
	entry, err := fromEntryDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateEntry(r.Context(), entry)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, toEntryDTO(created))
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	rng, err := h.rangeFromQuery(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := Filter{From: rng.Start, To: rng.End, Search: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("group"); raw != "" {
		groupID, err := strconv.Atoi(raw)
		if err != nil {
			rest.Error(w, http.StatusBadRequest, "invalid group id")
			return
		}
		filter.GroupID = &groupID
	}

	entries, err := h.service.ListEntries(r.Context(), pathKind(r), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toEntryDTO(e))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	entry, err := h.service.GetEntry(r.Context(), pathKind(r), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toEntryDTO(entry))
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	dto.ID = id
	dto.Kind = pathKind(r)
	entry, err := fromEntryDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateEntry(r.Context(), entry)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toEntryDTO(updated))
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.service.DeleteEntry(r.Context(), pathKind(r), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GroupReport(w http.ResponseWriter, r *http.Request) {
	rng, err := h.rangeFromQuery(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.service.GroupReport(r.Context(), pathKind(r), rng.Start, rng.End)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dto := ReportDTO{
		Kind:   report.Kind,
		From:   utils.FormatDate(report.From),
		To:     utils.FormatDate(report.To),
		Total:  report.Total.String(),
		Groups: make([]GroupTotalDTO, 0, len(report.Groups)),
	}
	for _, gt := range report.Groups {
		dto.Groups = append(dto.Groups, GroupTotalDTO{
			GroupID:   gt.GroupID,
			GroupName: gt.GroupName,
			Total:     gt.Total.String(),
			Count:     gt.Count,
		})
	}
	rest.JSON(w, http.StatusOK, dto)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	rng, err := h.rangeFromQuery(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := h.service.Summary(r.Context(), rng.Start, rng.End)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, SummaryDTO{
		From:         utils.FormatDate(summary.From),
		To:           utils.FormatDate(summary.To),
		TotalIncome:  summary.TotalIncome.String(),
		TotalExpense: summary.TotalExpense.String(),
		Net:          summary.Net.String(),
	})
}

func (h *Handler) rangeFromQuery(r *http.Request) (daterange.Range, error) {
	q := r.URL.Query()
	rangeType := q.Get("range")
	if rangeType == "" {
		rangeType = "this_month"
	}
	return daterange.Resolve(rangeType, q.Get("start_date"), q.Get("end_date"), h.clock.Now().In(h.loc))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGroupNotFound):
		rest.Error(w, http.StatusNotFound, "Group not found")
	case errors.Is(err, ErrEntryNotFound):
		rest.Error(w, http.StatusNotFound, "Entry not found")
	case errors.Is(err, ErrGroupInUse):
		rest.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrDuplicateGroup):
		rest.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidKind):
		rest.Error(w, http.StatusBadRequest, err.Error())
	default:
		rest.Error(w, http.StatusInternalServerError, err.Error())
	}
}

func pathKind(r *http.Request) Kind {
	return Kind(mux.Vars(r)["kind"])
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func toGroupDTO(g Group) GroupDTO {
	return GroupDTO{ID: g.ID, Kind: g.Kind, Name: g.Name}
}

func toEntryDTO(e Entry) EntryDTO {
	return EntryDTO{
		ID:        e.ID,
		Kind:      e.Kind,
		Date:      utils.FormatDate(e.Date),
		Name:      e.Name,
		GroupID:   e.GroupID,
		GroupName: e.GroupName,
		Amount:    e.Amount.String(),
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}

func fromEntryDTO(dto EntryDTO) (Entry, error) {
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		return Entry{}, errors.New("invalid amount")
	}
	e := Entry{
		ID:      dto.ID,
		Kind:    dto.Kind,
		Name:    dto.Name,
		GroupID: dto.GroupID,
		Amount:  amount,
		Notes:   dto.Notes,
	}
	if dto.Date != "" {
		date, err := utils.ParseDate(dto.Date)
		if err != nil {
			return Entry{}, errors.New("invalid date")
		}
		e.Date = date
	}
	return e, nil
}
