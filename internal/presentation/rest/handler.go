package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/bibbank/microlend/internal/application/dto"
	"github.com/bibbank/microlend/internal/application/usecase"
	"github.com/bibbank/microlend/internal/domain/event"
	"github.com/bibbank/microlend/internal/domain/service"
	"github.com/bibbank/microlend/pkg/auth"
)

// ScoringHandler exposes the scoring use cases as a JSON API.
type ScoringHandler struct {
	engine *usecase.Engine
	logger *slog.Logger
}

// NewScoringHandler creates a new handler.
func NewScoringHandler(engine *usecase.Engine, logger *slog.Logger) *ScoringHandler {
	return &ScoringHandler{engine: engine, logger: logger}
}

// RegisterRoutes attaches the API routes to r.
func (h *ScoringHandler) RegisterRoutes(r *mux.Router) {
	users := r.PathPrefix("/users/{id}").Subrouter()
	users.HandleFunc("/credit-score", h.creditScore).Methods(http.MethodGet)
	users.HandleFunc("/credit-score/refresh", h.refreshScore).Methods(http.MethodPost)
	users.HandleFunc("/eligibility", h.eligibility).Methods(http.MethodGet)
	users.HandleFunc("/risk", h.risk).Methods(http.MethodGet)
	users.HandleFunc("/loan-limit", h.loanLimit).Methods(http.MethodGet)
	users.HandleFunc("/loan-applications/screen", h.screen).Methods(http.MethodPost)

	r.HandleFunc("/rates", h.rates).Methods(http.MethodGet)
}

func (h *ScoringHandler) creditScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}
	resp, err := h.engine.CreditScore.Execute(r.Context(), dto.UserRequest{UserID: userID})
	h.respond(w, r, resp, err)
}

func (h *ScoringHandler) eligibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}
	resp, err := h.engine.Eligibility.Execute(r.Context(), dto.UserRequest{UserID: userID})
	h.respond(w, r, resp, err)
}

func (h *ScoringHandler) risk(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}
	amount, err := parseAmount(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.engine.Risk.Execute(r.Context(), dto.AssessRiskRequest{UserID: userID, Amount: amount})
	h.respond(w, r, resp, err)
}

func (h *ScoringHandler) loanLimit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}
	resp, err := h.engine.LoanLimit.Execute(r.Context(), dto.UserRequest{UserID: userID})
	h.respond(w, r, resp, err)
}

type screenBody struct {
	Amount   decimal.Decimal `json:"amount"`
	TermDays int             `json:"term_days"`
}

func (h *ScoringHandler) screen(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizedUser(w, r)
	if !ok {
		return
	}

	var body screenBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.engine.Screening.Execute(r.Context(), dto.ScreenApplicationRequest{
		UserID:   userID,
		Amount:   body.Amount,
		TermDays: body.TermDays,
	})
	h.respond(w, r, resp, err)
}

func (h *ScoringHandler) refreshScore(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing credentials")
		return
	}
	if !claims.IsStaff() {
		writeError(w, http.StatusForbidden, "staff role required")
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = event.RefreshModeFull
	}
	resp, err := h.engine.Refresh.Execute(r.Context(), dto.RefreshScoreRequest{
		UserID: mux.Vars(r)["id"],
		Mode:   mode,
	})
	h.respond(w, r, resp, err)
}

// rates returns the pricing terms for a score without touching storage.
func (h *ScoringHandler) rates(w http.ResponseWriter, r *http.Request) {
	score, err := strconv.Atoi(r.URL.Query().Get("score"))
	if err != nil || score < service.MinCreditScore || score > service.MaxCreditScore {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("score must be an integer in [%d, %d]", service.MinCreditScore, service.MaxCreditScore))
		return
	}
	writeJSON(w, http.StatusOK, dto.RateCardResponse{
		CreditScore:  score,
		InterestRate: service.InterestRate(score),
		MaxTermDays:  service.MaxTerm(score),
	})
}

func (h *ScoringHandler) authorizedUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := mux.Vars(r)["id"]
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing credentials")
		return "", false
	}
	if !claims.CanAccessUser(userID) {
		writeError(w, http.StatusForbidden, "not allowed to access this user")
		return "", false
	}
	return userID, true
}

func (h *ScoringHandler) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		code, msg := statusFor(err)
		if code == http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		}
		writeError(w, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("amount must be positive")
	}
	return amount, nil
}
