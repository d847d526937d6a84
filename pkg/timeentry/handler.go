package timeentry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/daylog/daylog/internal/daterange"
	"github.com/daylog/daylog/internal/rest"
	"github.com/daylog/daylog/pkg/activity"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	ID                int    `json:"id"`
	ActivityID        int    `json:"activityId"`
	ActivityName      string `json:"activityName,omitempty"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime,omitempty"`
	DurationMinutes   *int   `json:"durationMinutes,omitempty"`
	Notes             string `json:"notes,omitempty"`
	IsManuallyEntered bool   `json:"isManuallyEntered"`
	SyncToken         string `json:"syncToken,omitempty"`
}

type ListResponse struct {
	Entries              []EntryDTO   `json:"entries"`
	TotalEntries         int          `json:"totalEntries"`
	TotalDurationMinutes int          `json:"totalDurationMinutes"`
	DateRange            DateRangeDTO `json:"dateRange"`
}

type DateRangeDTO struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type GapDTO struct {
	GapStart         string `json:"gapStart"`
	GapEnd           string `json:"gapEnd"`
	DurationMinutes  int    `json:"durationMinutes"`
	PreviousActivity string `json:"previousActivity,omitempty"`
	NextActivity     string `json:"nextActivity,omitempty"`
}

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var rng *daterange.Range
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")
	if startDate != "" && endDate != "" {
		parsed, err := daterange.Parse(startDate, endDate, h.loc)
		if err != nil {
			rest.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		rng = &parsed
	}

	result, err := h.service.List(r.Context(), rng)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := ListResponse{
		Entries:              h.toDTOs(result.Entries),
		TotalEntries:         result.TotalEntries,
		TotalDurationMinutes: result.TotalDurationMinutes,
	}
	if !result.From.IsZero() {
		response.DateRange.Start = result.From.In(h.loc).Format(time.RFC3339)
		response.DateRange.End = result.To.In(h.loc).Format(time.RFC3339)
	}
	rest.JSON(w, http.StatusOK, response)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, h.toDTO(entry))
}

func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Active(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rest.JSON(w, http.StatusOK, h.toDTO(*entry))
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	log.Trace("Starting new time entry")

	var req struct {
		ActivityID int    `json:"activityId"`
		Notes      string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	entry, err := h.service.Start(r.Context(), req.ActivityID, req.Notes)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, h.toDTO(entry))
}

func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	entry, err := h.service.Stop(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, h.toDTO(entry))
}

func (h *Handler) Manual(w http.ResponseWriter, r *http.Request) {
	entry, err := h.decodeEntry(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	entry.IsManuallyEntered = true

	created, err := h.service.Create(r.Context(), entry)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, h.toDTO(created))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	entry, err := h.decodeEntry(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), entry)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, h.toDTO(created))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	entry, err := h.decodeEntry(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	entry.ID = id

	updated, err := h.service.Update(r.Context(), entry)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, h.toDTO(updated))
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
		rest.Error(w, http.StatusNotFound, "Time entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SyncState(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.SyncState(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	var active *EntryDTO
	if state.ActiveEntry != nil {
		dto := h.toDTO(*state.ActiveEntry)
		active = &dto
	}
	rest.JSON(w, http.StatusOK, struct {
		ActiveEntry   *EntryDTO  `json:"activeEntry"`
		RecentEntries []EntryDTO `json:"recentEntries"`
	}{active, h.toDTOs(state.RecentEntries)})
}

func (h *Handler) Gaps(w http.ResponseWriter, r *http.Request) {
	rng, err := daterange.Parse(r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"), h.loc)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	gaps, err := h.service.Gaps(r.Context(), rng)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	gapDTOs := make([]GapDTO, 0, len(gaps))
	totalGapMinutes := 0
	for _, gap := range gaps {
		gapDTOs = append(gapDTOs, GapDTO{
			GapStart:         gap.Start.In(h.loc).Format(time.RFC3339),
			GapEnd:           gap.End.In(h.loc).Format(time.RFC3339),
			DurationMinutes:  gap.DurationMinutes,
			PreviousActivity: gap.PreviousActivity,
			NextActivity:     gap.NextActivity,
		})
		totalGapMinutes += gap.DurationMinutes
	}

	rest.JSON(w, http.StatusOK, struct {
		DateRange       DateRangeDTO `json:"dateRange"`
		Gaps            []GapDTO     `json:"gaps"`
		TotalGapMinutes int          `json:"totalGapMinutes"`
	}{
		DateRange: DateRangeDTO{
			Start: rng.StartOfDay().In(h.loc).Format(time.RFC3339),
			End:   rng.EndOfDay().In(h.loc).Format(time.RFC3339),
		},
		Gaps:            gapDTOs,
		TotalGapMinutes: totalGapMinutes,
	})
}

func (h *Handler) decodeEntry(r *http.Request) (TimeEntry, error) {
	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return TimeEntry{}, errors.New("invalid request body format")
	}
	startTime, err := time.Parse(time.RFC3339, dto.StartTime)
	if err != nil {
		return TimeEntry{}, errors.New("start time must be in RFC3339 format")
	}
	entry := TimeEntry{
		ActivityID:        dto.ActivityID,
		StartTime:         startTime,
		Notes:             dto.Notes,
		IsManuallyEntered: dto.IsManuallyEntered,
	}
	if dto.EndTime != "" {
		endTime, err := time.Parse(time.RFC3339, dto.EndTime)
		if err != nil {
			return TimeEntry{}, errors.New("end time must be in RFC3339 format")
		}
		entry.EndTime = &endTime
	}
	return entry, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		rest.Error(w, http.StatusNotFound, "Time entry not found")
	case errors.Is(err, activity.ErrNotFound):
		rest.Error(w, http.StatusNotFound, "Activity not found")
	case errors.Is(err, ErrAlreadyStopped):
		rest.Error(w, http.StatusConflict, "This time entry is already stopped")
	case errors.Is(err, ErrEndBeforeStart),
		errors.Is(err, ErrFutureTime),
		errors.Is(err, ErrOverlap):
		rest.Error(w, http.StatusBadRequest, err.Error())
	default:
		rest.Error(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) toDTO(entry TimeEntry) EntryDTO {
	dto := EntryDTO{
		ID:                entry.ID,
		ActivityID:        entry.ActivityID,
		ActivityName:      entry.ActivityName,
		StartTime:         entry.StartTime.In(h.loc).Format(time.RFC3339),
		Notes:             entry.Notes,
		IsManuallyEntered: entry.IsManuallyEntered,
		SyncToken:         entry.SyncToken,
	}
	if entry.EndTime != nil {
		dto.EndTime = entry.EndTime.In(h.loc).Format(time.RFC3339)
		duration := entry.DurationMinutes
		dto.DurationMinutes = &duration
	}
	return dto
}

func (h *Handler) toDTOs(entries []TimeEntry) []EntryDTO {
	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, h.toDTO(entry))
	}
	return dtos
}
