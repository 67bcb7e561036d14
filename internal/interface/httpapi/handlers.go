package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"suretyledger-service/internal/domain/errs"
	"suretyledger-service/internal/usecase"
	"suretyledger-service/pkg/logger"
)

// callerHeader carries the authenticated principal. The hosting runtime is
// trusted to have verified identity before the request reaches this service.
const callerHeader = "X-Caller"

// Handler holds the HTTP handlers for the ledger engine
type Handler struct {
	engine *usecase.Engine
	logger logger.Logger
}

// NewHandler creates a new handler
func NewHandler(engine *usecase.Engine, logger logger.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

type operationalRequest struct {
	Mode bool `json:"mode"`
}

type callerRequest struct {
	Address string `json:"address"`
}

type registerAirlineRequest struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type submitFundRequest struct {
	Payment int64 `json:"payment"`
}

type registerFlightRequest struct {
	FlightID  string `json:"flightId"`
	Timestamp int64  `json:"timestamp"`
}

type buyInsuranceRequest struct {
	Airline   string `json:"airline"`
	FlightID  string `json:"flightId"`
	Timestamp int64  `json:"timestamp"`
	Payment   int64  `json:"payment"`
}

type flightStatusRequest struct {
	Airline      string `json:"airline"`
	FlightID     string `json:"flightId"`
	Timestamp    int64  `json:"timestamp"`
	StatusCode   uint8  `json:"statusCode"`
	AirlineFault bool   `json:"airlineFault"`
}

// GetStatus returns the operational flag
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"operational": h.engine.IsOperational()})
}

// SetOperational toggles the circuit breaker
func (h *Handler) SetOperational(w http.ResponseWriter, r *http.Request) {
	var req operationalRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.engine.SetOperationalStatus(r.Context(), caller(r), req.Mode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"operational": req.Mode})
}

// AuthorizeCaller adds an address to the authorized-caller allow-list
func (h *Handler) AuthorizeCaller(w http.ResponseWriter, r *http.Request) {
	var req callerRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.engine.AuthorizeCaller(r.Context(), caller(r), req.Address); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authorized": req.Address})
}

// DeauthorizeCaller removes an address from the authorized-caller allow-list
func (h *Handler) DeauthorizeCaller(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if err := h.engine.DeauthorizeCaller(r.Context(), caller(r), address); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deauthorized": address})
}

// RegisterAirline requests onboarding of a new airline
func (h *Handler) RegisterAirline(w http.ResponseWriter, r *http.Request) {
	var req registerAirlineRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.engine.RegisterAirline(r.Context(), caller(r), req.Address, req.Name); err != nil {
		writeError(w, err)
		return
	}
	airline, _ := h.engine.AirlineOf(req.Address)
	writeJSON(w, http.StatusCreated, map[string]any{
		"address": airline.Address,
		"state":   airline.State.String(),
	})
}

// ApproveRegistration records the caller's vote for a pending airline
func (h *Handler) ApproveRegistration(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if err := h.engine.ApproveRegistration(r.Context(), caller(r), address); err != nil {
		writeError(w, err)
		return
	}
	airline, _ := h.engine.AirlineOf(address)
	writeJSON(w, http.StatusOK, map[string]any{
		"address":   airline.Address,
		"state":     airline.State.String(),
		"approvals": len(airline.Approvals),
	})
}

// GetAirline returns an airline record
func (h *Handler) GetAirline(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	airline, ok := h.engine.AirlineOf(address)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": errs.ErrUnknownAirline.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"address":    airline.Address,
		"name":       airline.Name,
		"state":      airline.State.String(),
		"stakedFund": airline.StakedFund,
		"approvals":  airline.Approvals,
	})
}

// SubmitFund stakes the caller's collateral
func (h *Handler) SubmitFund(w http.ResponseWriter, r *http.Request) {
	var req submitFundRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.engine.SubmitFund(r.Context(), caller(r), req.Payment); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"address":      caller(r),
		"state":        "Actived",
		"totalActived": h.engine.TotalActivedAirlines(),
	})
}

// RegisterFlight creates a flight record for the calling airline
func (h *Handler) RegisterFlight(w http.ResponseWriter, r *http.Request) {
	var req registerFlightRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.engine.RegisterFlight(r.Context(), caller(r), req.FlightID, req.Timestamp); err != nil {
		writeError(w, err)
		return
	}
	flight, _ := h.engine.FlightOf(caller(r), req.FlightID, req.Timestamp)
	writeJSON(w, http.StatusCreated, map[string]any{"flightKey": flight.Key})
}

// GetFlight returns a flight record looked up by its identifying triple
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	timestamp, err := parseTimestamp(query.Get("timestamp"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid timestamp"})
		return
	}
	flight, ok := h.engine.FlightOf(query.Get("airline"), query.Get("flightId"), timestamp)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "flight not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"flightKey":  flight.Key,
		"flightId":   flight.FlightID,
		"airline":    flight.Airline,
		"registered": flight.Registered,
		"statusCode": flight.StatusCode,
		"processed":  flight.Processed,
		"insurees":   flight.Insurees,
	})
}

// BuyInsurance records an insurance position for the caller
func (h *Handler) BuyInsurance(w http.ResponseWriter, r *http.Request) {
	var req buyInsuranceRequest
	if !decode(w, r, &req) {
		return
	}
	err := h.engine.BuyInsurance(r.Context(), caller(r), req.Airline, req.FlightID, req.Timestamp, req.Payment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"buyer":  caller(r),
		"amount": req.Payment,
	})
}

// ProcessFlightStatus records the oracle-confirmed flight outcome
func (h *Handler) ProcessFlightStatus(w http.ResponseWriter, r *http.Request) {
	var req flightStatusRequest
	if !decode(w, r, &req) {
		return
	}
	err := h.engine.ProcessFlightStatus(r.Context(), caller(r),
		req.Airline, req.FlightID, req.Timestamp, req.StatusCode, req.AirlineFault)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"processed": true})
}

// Withdraw pays out the caller's credit balance
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	paid, err := h.engine.Withdraw(r.Context(), caller(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"amount": paid})
}

// GetCredit returns the credit balance owed to an address
func (h *Handler) GetCredit(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	writeJSON(w, http.StatusOK, map[string]any{
		"address": address,
		"amount":  h.engine.CreditOf(address),
	})
}

// GetHealth returns service health
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

func parseTimestamp(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func caller(r *http.Request) string {
	return r.Header.Get(callerHeader)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps a taxonomy error to its HTTP status
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrNotOperational):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrNotOwner),
		errors.Is(err, errs.ErrNotAuthorizedCaller),
		errors.Is(err, errs.ErrInvalidCallerState):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrUnknownAirline):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrInsufficientStake),
		errors.Is(err, errs.ErrInvalidPayment),
		errors.Is(err, errs.ErrExcessPayment):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrDuplicateAirline),
		errors.Is(err, errs.ErrAlreadyApproved),
		errors.Is(err, errs.ErrAlreadyPurchased),
		errors.Is(err, errs.ErrFlightAlreadyProcessed),
		errors.Is(err, errs.ErrNoPositiveCredit),
		errors.Is(err, errs.ErrReentrancyDetected):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
