package party

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

type LedgerDTO struct {
	ID             int       `json:"id"`
	PartyName      string    `json:"partyName"`
	OpeningBalance string    `json:"openingBalance"`
	BalanceNature  Nature    `json:"balanceNature"`
	CurrentBalance string    `json:"currentBalance,omitempty"`
	CurrentNature  Nature    `json:"currentNature,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
}

type TransactionDTO struct {
	ID        int             `json:"id"`
	Date      string          `json:"date"`
	PartyID   int             `json:"partyId"`
	PartyName string          `json:"partyName,omitempty"`
	Type      TransactionType `json:"type"`
	Amount    string          `json:"amount"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt,omitzero"`
}

type StatementLineDTO struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type,omitempty"`
	Amount      string          `json:"amount"`
	Balance     string          `json:"balance"`
	IsOpening   bool            `json:"isOpening,omitempty"`
}

type StatementDTO struct {
	Ledger LedgerDTO          `json:"ledger"`
	Lines  []StatementLineDTO `json:"lines"`
}

type OutstandingDTO struct {
	TotalReceivable string `json:"totalReceivable"`
	TotalPayable    string `json:"totalPayable"`
	Net             string `json:"net"`
}

type Handler struct {
	service Service
	clock   utils.Clock
	loc     *time.Location
}

func NewHandler(service Service, clock utils.Clock, loc *time.Location) *Handler {
	return &Handler{service: service, clock: clock, loc: loc}
}

func (h *Handler) CreateLedger(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new party ledger")

	var dto LedgerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if dto.PartyName == "" {
		rest.Error(w, http.StatusBadRequest, "partyName is required")
		return
	}
	l, err := ledgerFromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateLedger(r.Context(), l)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, ledgerToDTO(created))
}

func (h *Handler) ListLedgers(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListLedgers(r.Context())
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]LedgerDTO, 0, len(views))
	for _, v := range views {
		dtos = append(dtos, viewToDTO(v))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	view, err := h.service.GetLedger(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, viewToDTO(view))
}

func (h *Handler) UpdateLedger(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto LedgerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	dto.ID = id
	l, err := ledgerFromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateLedger(r.Context(), l)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, ledgerToDTO(updated))
}

func (h *Handler) DeleteLedger(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.service.DeleteLedger(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	t, err := transactionFromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateTransaction(r.Context(), t)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusCreated, transactionToDTO(created))
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter Filter
	if rangeType := q.Get("range"); rangeType != "" {
		rng, err := daterange.Resolve(rangeType, q.Get("start_date"), q.Get("end_date"), h.clock.Now().In(h.loc))
		if err != nil {
			rest.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.From = rng.Start
		filter.To = rng.End
	}
	if raw := q.Get("party"); raw != "" {
		partyID, err := strconv.Atoi(raw)
		if err != nil {
			rest.Error(w, http.StatusBadRequest, "invalid party id")
			return
		}
		filter.PartyID = &partyID
	}
	filter.Search = q.Get("q")

	transactions, err := h.service.ListTransactions(r.Context(), filter)
	if err != nil {
		rest.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dtos = append(dtos, transactionToDTO(t))
	}
	rest.JSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	t, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, transactionToDTO(t))
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.Error(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	dto.ID = id
	t, err := transactionFromDTO(dto)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateTransaction(r.Context(), t)
	if err != nil {
		h.respondError(w, err)
		return
	}
	rest.JSON(w, http.StatusOK, transactionToDTO(updated))
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.service.DeleteTransaction(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		rest.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	ledger, lines, err := h.service.PartyStatement(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	dto := StatementDTO{
		Ledger: ledgerToDTO(ledger),
		Lines:  make([]StatementLineDTO, 0, len(lines)),
	}
	for _, line := range lines {
		dto.Lines = append(dto.Lines, StatementLineDTO{
			Date:        utils.FormatDate(line.Date),
			Description: line.Description,
			Type:        line.Type,
			Amount:      line.Amount.String(),
			Balance:     line.Balance.String(),
			IsOpening:   line.IsOpening,
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
		TotalReceivable: out.TotalReceivable.String(),
		TotalPayable:    out.TotalPayable.String(),
		Net:             out.Net.String(),
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrLedgerNotFound):
		rest.Error(w, http.StatusNotFound, "Party ledger not found")
	case errors.Is(err, ErrTransactionNotFound):
		rest.Error(w, http.StatusNotFound, "Party transaction not found")
	case errors.Is(err, ErrLedgerInUse):
		rest.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidNature), errors.Is(err, ErrInvalidType):
		rest.Error(w, http.StatusBadRequest, err.Error())
	default:
		rest.Error(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func ledgerToDTO(l Ledger) LedgerDTO {
	return LedgerDTO{
		ID:             l.ID,
		PartyName:      l.PartyName,
		OpeningBalance: l.OpeningBalance.String(),
		BalanceNature:  l.BalanceNature,
		CreatedAt:      l.CreatedAt,
	}
}

func viewToDTO(v LedgerView) LedgerDTO {
	dto := ledgerToDTO(v.Ledger)
	dto.CurrentBalance = v.CurrentBalance.String()
	dto.CurrentNature = v.CurrentNature
	return dto
}

func transactionToDTO(t Transaction) TransactionDTO {
	return TransactionDTO{
		ID:        t.ID,
		Date:      utils.FormatDate(t.Date),
		PartyID:   t.PartyID,
		PartyName: t.PartyName,
		Type:      t.Type,
		Amount:    t.Amount.String(),
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
	}
}

func ledgerFromDTO(dto LedgerDTO) (Ledger, error) {
	opening := decimal.Zero
	if dto.OpeningBalance != "" {
		var err error
		opening, err = decimal.NewFromString(dto.OpeningBalance)
		if err != nil {
			return Ledger{}, errors.New("invalid openingBalance")
		}
	}
	return Ledger{
		ID:             dto.ID,
		PartyName:      dto.PartyName,
		OpeningBalance: opening,
		BalanceNature:  dto.BalanceNature,
	}, nil
}

func transactionFromDTO(dto TransactionDTO) (Transaction, error) {
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		return Transaction{}, errors.New("invalid amount")
	}
	t := Transaction{
		ID:      dto.ID,
		PartyID: dto.PartyID,
		Type:    dto.Type,
		Amount:  amount,
		Notes:   dto.Notes,
	}
	if dto.Date != "" {
		date, err := utils.ParseDate(dto.Date)
		if err != nil {
			return Transaction{}, errors.New("invalid date")
		}
		t.Date = date
	}
	return t, nil
}
