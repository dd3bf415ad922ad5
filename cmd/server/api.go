package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"solana-ido-service/internal/domain"
	"solana-ido-service/internal/ido"
	"solana-ido-service/internal/observability"
	"solana-ido-service/internal/solkey"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// participantRequest addresses one participant of a campaign.
type participantRequest struct {
	Participant string `json:"participant"`
}

// joinRequest admits a participant with an allocation count.
type joinRequest struct {
	Participant string `json:"participant"`
	Allocations uint64 `json:"allocations"`
}

// faucetRequest credits a custody ledger account.
type faucetRequest struct {
	Account string `json:"account"`
	Asset   string `json:"asset"` // "tokens" or "funds"
	Amount  uint64 `json:"amount"`
}

// amountResponse reports a single transferred amount.
type amountResponse struct {
	Amount uint64 `json:"amount"`
}

// balancesResponse reports both custody balances of an account.
type balancesResponse struct {
	Account string `json:"account"`
	Tokens  uint64 `json:"tokens"`
	Funds   uint64 `json:"funds"`
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status          string `json:"status"`
	Uptime          string `json:"uptime"`
	Storage         string `json:"storage"`
	FeedSubscribers int    `json:"feed_subscribers"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:          "running",
		Uptime:          time.Since(s.started).String(),
		Storage:         storageMode(s.useMemory),
		FeedSubscribers: s.hub.ClientCount(),
	})
}

func (s *Server) handleInitializeCampaign(w http.ResponseWriter, r *http.Request) {
	var params ido.CampaignParams
	if !decodeBody(w, r, &params) {
		return
	}

	start := time.Now()
	c, err := s.svc.InitializeCampaign(r.Context(), params)
	observability.RecordOperation("initialize_campaign", time.Since(start).Seconds(), err)
	if err != nil {
		s.writeError(w, "initialize_campaign", err)
		return
	}
	observability.DefaultMetrics.CampaignsInitialized.Inc()

	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Campaign(r.Context(), r.PathValue("owner"))
	if err != nil {
		s.writeError(w, "get_campaign", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.Events(r.Context(), r.PathValue("owner"))
	if err != nil {
		s.writeError(w, "get_events", err)
		return
	}
	if events == nil {
		events = []*domain.LedgerEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleGetParticipation(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Participation(r.Context(), r.PathValue("owner"), r.PathValue("participant"))
	if err != nil {
		s.writeError(w, "get_participation", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDepositSupply(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := s.svc.DepositSupply(r.Context(), r.PathValue("owner"))
	observability.RecordOperation("deposit_supply", time.Since(start).Seconds(), err)
	if err != nil {
		s.writeError(w, "deposit_supply", err)
		return
	}
	observability.DefaultMetrics.SupplyDeposits.Inc()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start := time.Now()
	p, err := s.svc.Join(r.Context(), r.PathValue("owner"), req.Participant, req.Allocations)
	observability.RecordOperation("join", time.Since(start).Seconds(), err)
	if err != nil {
		s.writeError(w, "join", err)
		return
	}
	observability.RecordJoin(req.Allocations, p.Amount, p.Paid)

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start := time.Now()
	claimed, err := s.svc.Claim(r.Context(), r.PathValue("owner"), req.Participant)
	observability.RecordOperation("claim", time.Since(start).Seconds(), err)
	if err != nil {
		s.writeError(w, "claim", err)
		return
	}
	observability.RecordClaim(claimed)

	writeJSON(w, http.StatusOK, amountResponse{Amount: claimed})
}

func (s *Server) handleCloseCampaign(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")

	start := time.Now()
	err := s.svc.CloseCampaign(r.Context(), owner)
	observability.RecordOperation("close_campaign", time.Since(start).Seconds(), err)
	if err != nil {
		s.writeError(w, "close_campaign", err)
		return
	}
	if c, err := s.svc.Campaign(r.Context(), owner); err == nil {
		observability.RecordClose(string(c.Settlement))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCloseIfSoftCapNotReached(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := s.svc.CloseIfSoftCapNotReached(r.Context(), r.PathValue("owner"))
	observability.RecordOperation("close_failed_sale", time.Since(start).Seconds(), err)
	if err != nil {
		s.writeError(w, "close_failed_sale", err)
		return
	}
	observability.RecordClose(string(domain.SettlementClosedFailure))

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefund(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start := time.Now()
	refunded, err := s.svc.Refund(r.Context(), r.PathValue("owner"), req.Participant)
	observability.RecordOperation("refund", time.Since(start).Seconds(), err)
	if err != nil {
		s.writeError(w, "refund", err)
		return
	}
	observability.RecordRefund(refunded)

	writeJSON(w, http.StatusOK, amountResponse{Amount: refunded})
}

func (s *Server) handleReclaimTokens(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reclaimed, err := s.svc.ReclaimTokensIfSoftCapNotReached(r.Context(), r.PathValue("owner"))
	observability.RecordOperation("reclaim_tokens", time.Since(start).Seconds(), err)
	if err != nil {
		s.writeError(w, "reclaim_tokens", err)
		return
	}
	observability.DefaultMetrics.TokensReclaimed.Add(float64(reclaimed))

	writeJSON(w, http.StatusOK, amountResponse{Amount: reclaimed})
}

func (s *Server) handleWithdrawFunds(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, err := s.svc.WithdrawFunds(r.Context(), r.PathValue("owner"))
	observability.RecordOperation("withdraw_funds", time.Since(start).Seconds(), err)
	if err != nil {
		s.writeError(w, "withdraw_funds", err)
		return
	}
	observability.RecordWithdrawal(result.OwnerProceeds, result.PlatformFee)

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFaucet(w http.ResponseWriter, r *http.Request) {
	var req faucetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := solkey.Validate(req.Account); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var err error
	switch req.Asset {
	case "tokens":
		err = s.tokens.Mint(r.Context(), req.Account, req.Amount)
	case "funds":
		err = s.funds.Mint(r.Context(), req.Account, req.Amount)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "asset must be tokens or funds"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	account := r.PathValue("account")

	tokens, err := s.tokens.Balance(r.Context(), account)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	funds, err := s.funds.Balance(r.Context(), account)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, balancesResponse{Account: account, Tokens: tokens, Funds: funds})
}

// writeError maps a service error onto an HTTP status and records it.
func (s *Server) writeError(w http.ResponseWriter, operation string, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Printf("%s: %v", operation, err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	observability.RecordOperationError(operation, err.Error())
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusForError translates the service's sentinel errors.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ido.ErrCampaignNotFound),
		errors.Is(err, ido.ErrNotJoined):
		return http.StatusNotFound

	case errors.Is(err, ido.ErrCampaignExists),
		errors.Is(err, ido.ErrAlreadyJoined),
		errors.Is(err, ido.ErrSupplyAlreadyDeposited),
		errors.Is(err, ido.ErrFundsAlreadyWithdrawn),
		errors.Is(err, ido.ErrSaleClosed),
		errors.Is(err, ido.ErrSaleNotClosed):
		return http.StatusConflict

	case errors.Is(err, ido.ErrInsufficientFunds),
		errors.Is(err, ido.ErrInvalidDepositBalance),
		errors.Is(err, ido.ErrInsufficientTreasury):
		return http.StatusPaymentRequired

	case errors.Is(err, solkey.ErrInvalidAddress),
		errors.Is(err, ido.ErrInvalidStartSaleTime),
		errors.Is(err, ido.ErrInvalidEndSaleTime),
		errors.Is(err, ido.ErrInvalidCliff),
		errors.Is(err, ido.ErrInvalidVestingEndTime),
		errors.Is(err, ido.ErrInvalidPrice),
		errors.Is(err, ido.ErrInvalidAllocation),
		errors.Is(err, ido.ErrInvalidSoftCap),
		errors.Is(err, ido.ErrInvalidHardCap),
		errors.Is(err, ido.ErrInvalidCliffPct),
		errors.Is(err, ido.ErrInvalidAllocationsPerParticipant),
		errors.Is(err, ido.ErrInvalidNumberOfAllocations),
		errors.Is(err, ido.ErrSaleNotOpen),
		errors.Is(err, ido.ErrSaleEnded),
		errors.Is(err, ido.ErrAllocationNotAvailable),
		errors.Is(err, ido.ErrSupplyNotDeposited),
		errors.Is(err, ido.ErrSoftCapReached),
		errors.Is(err, ido.ErrSoftCapNotReached),
		errors.Is(err, ido.ErrNothingToClaim),
		errors.Is(err, ido.ErrNothingToRefund),
		errors.Is(err, ido.ErrTotalClaimedNotZero),
		errors.Is(err, ido.ErrMathOverflow):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// decodeBody parses the JSON request body, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
