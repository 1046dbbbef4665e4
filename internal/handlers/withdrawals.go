package handlers

import (
	"net/http"
	"strconv"

	apperrors "payout_vault/internal/errors"
	"payout_vault/internal/middleware"
	"payout_vault/internal/services"
)

// WithdrawalHandler handles withdrawal and balance routes.
type WithdrawalHandler struct {
	withdrawals *services.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawals *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals}
}

// withdrawRequest is the request body for creating a withdrawal. The
// password field authorizes the withdrawal; it is used for a single proof
// computation and never stored.
type withdrawRequest struct {
	Amount      int64  `json:"amount"`
	Destination string `json:"destination"`
	Password    string `json:"password"`
}

// Create submits a proof-authorized withdrawal to the custodian.
func (h *WithdrawalHandler) Create(w http.ResponseWriter, r *http.Request) {
	operator := middleware.GetOperator(r)
	if operator == nil {
		respondError(w, apperrors.Unauthorized(""))
		return
	}

	var req withdrawRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	attempt, err := h.withdrawals.Withdraw(operator.ID, req.Amount, req.Destination, req.Password, clientIP(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, attempt)
}

// List returns recent withdrawal attempts.
func (h *WithdrawalHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	attempts, err := h.withdrawals.Recent(limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"attempts": attempts})
}

// Balance returns the funds currently held at the custodian.
func (h *WithdrawalHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.withdrawals.Balance()
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, balance)
}
