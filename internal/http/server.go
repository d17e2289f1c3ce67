// Package http exposes the balance sheet and budget reports as a JSON
// API.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"bilancio/internal/core"
	"bilancio/internal/middleware/trace"
	"bilancio/internal/services"
)

type Server struct {
	http.Server
	ledger  *services.LedgerService
	reports *services.ReportService

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, ledgerSvc *services.LedgerService, reports *services.ReportService) *Server {
	s := &Server{
		Server:  http.Server{Addr: addr},
		ledger:  ledgerSvc,
		reports: reports,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /api/v1/balance-sheet", s.handleBalanceSheet)
	mux.HandleFunc("GET /api/v1/balance-sheet/{year}", s.handleBalanceSheetYear)
	mux.HandleFunc("GET /api/v1/budget-template", s.handleBudgetTemplate)
	mux.HandleFunc("PUT /api/v1/resources/{id}/balances/{year}/{month}", s.handleSetBalance)

	tracer := trace.NewMiddleware(clientIP)
	s.Handler = tracer.Middleware(mux)

	return s
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// clientIP extracts the client IP, considering proxies.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleBalanceSheet returns the all-years roll-up.
func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	summaries := s.ledger.YearSummaries()
	writeJSON(r.Context(), w, http.StatusOK, toBalanceSheetJSON(summaries))
}

// handleBalanceSheetYear returns one year of the balance sheet with the
// monthly net totals and every resource's recorded balances.
func (s *Server) handleBalanceSheetYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid year")
		return
	}

	report := s.ledger.YearReport(year)
	writeJSON(r.Context(), w, http.StatusOK, toYearReportJSON(report))
}

// handleBudgetTemplate returns the budget-template report for the month
// given by the "month" query parameter (YYYY-MM), defaulting to the
// current month.
func (s *Server) handleBudgetTemplate(w http.ResponseWriter, r *http.Request) {
	ref, err := parseMonthRef(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	report, err := s.reports.BudgetTemplate(r.Context(), ref)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget template error",
			"month", ref.Format("2006-01"),
			"error", err)
		writeError(r.Context(), w, http.StatusBadGateway, "budget template unavailable")
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, toBudgetTemplateJSON(report))
}

type balanceRequest struct {
	// Cents is the balance in minor currency units; null records an
	// explicit empty balance for the month.
	Cents *int64 `json:"cents"`
	// Amount is a decimal string alternative ("123.45" or "123,45"),
	// mutually exclusive with cents.
	Amount *string `json:"amount"`
}

// balanceCents resolves the request's two input forms to cents, or nil
// for an explicit empty balance.
func (req balanceRequest) balanceCents() (*int64, error) {
	if req.Cents != nil && req.Amount != nil {
		return nil, errors.New("cents and amount are mutually exclusive")
	}
	if req.Amount != nil {
		cents, err := core.ParseDecimalToCents(*req.Amount)
		if err != nil {
			return nil, err
		}
		return &cents, nil
	}
	return req.Cents, nil
}

// handleSetBalance records a manual balance for one resource and one
// month, triggering the net-total cascade.
func (s *Server) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	resourceID := r.PathValue("id")

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid month, expected 1-12")
		return
	}

	var req balanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}
	cents, err := req.balanceCents()
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid balance amount")
		return
	}

	var balance *core.Money
	if cents != nil {
		m := core.NewMoney(*cents)
		balance = &m
	}

	period := core.NewPeriod(year, core.Month(month))
	if err := s.ledger.SetBalance(r.Context(), resourceID, period, balance); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(r.Context(), w, http.StatusNotFound, "resource not found")
			return
		}
		slog.ErrorContext(r.Context(), "Set balance error",
			"resource", resourceID,
			"period", period.String(),
			"error", err)
		writeError(r.Context(), w, http.StatusInternalServerError, "failed to record balance")
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, balanceResponse{
		ResourceID: resourceID,
		Period:     period.String(),
		Cents:      cents,
	})
}

type balanceResponse struct {
	ResourceID string `json:"resource_id"`
	Period     string `json:"period"`
	Cents      *int64 `json:"cents"`
}
