package debt

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
	"github.com/daylog/daylog/internal/utils"
)

type DebtDTO struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Status    Status    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

type ScheduleDTO struct {
	ID             int       `json:"id"`
	DebtID         int       `json:"debtId"`
	SNo            int       `json:"sNo"`
	ExpectedDate   string    `json:"expectedDate"`
	ExpectedAmount string    `json:"expectedAmount"`
	PaidDate       string    `json:"paidDate,omitempty"`
	PaidAmount     string    `json:"paidAmount"`
	Status         Status    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
}

type PaymentDTO struct {
	ID          int       `json:"id"`
	DebtID      int       `json:"debtId"`
	ScheduleID  int       `json:"scheduleId"`
	PaymentDate string    `json:"paymentDate,omitempty"`
	Amount      string    `json:"amount"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

type StatementLineDTO struct {
	ScheduleDTO
	RemainingAmount string `json:"remainingAmount"`
}

type StatementDTO struct {
	Debt           DebtDTO            `json:"debt"`
	TotalExpected  string             `json:"totalExpected"`
	TotalPaid      string             `json:"totalPaid"`
	TotalRemaining string             `json:"totalRemaining"`
	Lines          []StatementLineDTO `json:"lines"`
}

type OutstandingDTO struct {
	TotalExpected  string `json:"totalExpected"`
	TotalPaid      string `json:"totalPaid"`
	TotalRemaining string `json:"totalRemaining"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new debt")

	var dto DebtDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.Name == "" {
		rest.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.service.Create(r.Context(), Debt{Name: dto.Name, Type: dto.Type})
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, toDebtDTO(created))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var status *Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := Status(raw)
		status = &s
	}
	debts, err := h.service.List(r.Context(), status)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]DebtDTO, 0, len(debts))
	for _, d := range debts {
		dtos = append(dtos, toDebtDTO(d))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toDebtDTO(d))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto DebtDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.Name == "" {
		rest.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	updated, err := h.service.Update(r.Context(), Debt{ID: id, Name: dto.Name, Type: dto.Type})
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toDebtDTO(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
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

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	debtID, err := pathID(r, "id")
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto ScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	sched, err := scheduleFromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	sched.DebtID = debtID

	created, err := h.service.CreateSchedule(r.Context(), sched)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, toScheduleDTO(created))
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	debtID, err := pathID(r, "id")
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	schedules, err := h.service.Schedules(r.Context(), debtID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]ScheduleDTO, 0, len(schedules))
	for _, s := range schedules {
		dtos = append(dtos, toScheduleDTO(s))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := pathID(r, "scheduleId")
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid schedule id")
		return
	}
	var dto ScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	sched, err := scheduleFromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	sched.ID = scheduleID
	sched.Status = dto.Status

	updated, err := h.service.UpdateSchedule(r.Context(), sched)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, toScheduleDTO(updated))
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := pathID(r, "scheduleId")
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid schedule id")
		return
	}
	if err := h.service.DeleteSchedule(r.Context(), scheduleID); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	debtID, err := pathID(r, "id")
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto PaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid amount")
		return
	}
	p := Payment{
		DebtID:     debtID,
		ScheduleID: dto.ScheduleID,
		Amount:     amount,
		Notes:      dto.Notes,
	}
	if dto.PaymentDate != "" {
		date, err := utils.ParseDate(dto.PaymentDate)
		if err != nil {
			rest.Error(w, http.StatusBadRequest, "invalid paymentDate")
			return
		}
		p.PaymentDate = date
	}

	created, err := h.service.ApplyPayment(r.Context(), p)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, toPaymentDTO(created))
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	debtID, err := pathID(r, "id")
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	payments, err := h.service.Payments(r.Context(), debtID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dtos := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		dtos = append(dtos, toPaymentDTO(p))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	debtID, err := pathID(r, "id")
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	statement, err := h.service.Statement(r.Context(), debtID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dto := StatementDTO{
		Debt:           toDebtDTO(statement.Debt),
		TotalExpected:  statement.TotalExpected.String(),
		TotalPaid:      statement.TotalPaid.String(),
		TotalRemaining: statement.TotalRemaining.String(),
		Lines:          make([]StatementLineDTO, 0, len(statement.Lines)),
	}
	for _, line := range statement.Lines {
		dto.Lines = append(dto.Lines, StatementLineDTO{
			ScheduleDTO:     toScheduleDTO(line.Schedule),
			RemainingAmount: line.RemainingAmount.String(),
		})
	}
	rest.JSON(w, http.StatusOK, dto)
}

func (h *Handler) TotalOutstanding(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.TotalOutstanding(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	rest.JSON(w, http.StatusOK, OutstandingDTO{
		TotalExpected:  out.TotalExpected.String(),
		TotalPaid:      out.TotalPaid.String(),
		TotalRemaining: out.TotalRemaining.String(),
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		rest.Error(w, http.StatusNotFound, "Debt not found")
	case errors.Is(err, ErrScheduleNotFound):
		rest.Error(w, http.StatusNotFound, "Payment schedule not found")
	case errors.Is(err, ErrScheduleHasPayments):
		rest.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrScheduleMismatch),
		errors.Is(err, ErrExceedsRemaining),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidType):
		rest.Error(w, http.StatusBadRequest, err.Error())
	default:
		rest.Error(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

func toDebtDTO(d Debt) DebtDTO {
	return DebtDTO{
		ID:        d.ID,
		Name:      d.Name,
		Type:      d.Type,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
}

func toScheduleDTO(s Schedule) ScheduleDTO {
	dto := ScheduleDTO{
		ID:             s.ID,
		DebtID:         s.DebtID,
		SNo:            s.SNo,
		ExpectedDate:   utils.FormatDate(s.ExpectedDate),
		ExpectedAmount: s.ExpectedAmount.String(),
		PaidAmount:     s.PaidAmount.String(),
		Status:         s.Status,
		CreatedAt:      s.CreatedAt,
	}
	if s.PaidDate != nil {
		dto.PaidDate = utils.FormatDate(*s.PaidDate)
	}
	return dto
}

func toPaymentDTO(p Payment) PaymentDTO {
	return PaymentDTO{
		ID:          p.ID,
		DebtID:      p.DebtID,
		ScheduleID:  p.ScheduleID,
		PaymentDate: utils.FormatDate(p.PaymentDate),
		Amount:      p.Amount.String(),
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

func scheduleFromDTO(dto ScheduleDTO) (Schedule, error) {
	amount, err := decimal.NewFromString(dto.ExpectedAmount)
	if err != nil {
		return Schedule{}, errors.New("invalid expectedAmount")
	}
	sched := Schedule{SNo: dto.SNo, ExpectedAmount: amount}
	if dto.ExpectedDate != "" {
		date, err := utils.ParseDate(dto.ExpectedDate)
		if err != nil {
			return Schedule{}, errors.New("invalid expectedDate")
		}
		sched.ExpectedDate = date
	}
	return sched, nil
}
