package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"trijoshh/internal/core"
	"trijoshh/internal/services"
)

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	case http.MethodPut:
		s.updateExpense(w, r)
	default:
		methodNotAllowed(w, "GET, POST, PUT")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	by, order := sortParams(r)
	expenses, err := s.app.Expenses(by, order)
	if err != nil {
		s.appError(w, r, err, "list expenses")
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var draft core.Expense
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense: "+err.Error())
		return
	}
	draft.Description = sanitizeInput(draft.Description)

	added, err := s.app.AddExpense(r.Context(), draft)
	if err != nil {
		s.appError(w, r, err, "create expense")
		return
	}

	slog.InfoContext(r.Context(), "Expense created",
		"expense_id", added.ID,
		"amount_cents", added.Amount.Cents,
		"category", added.Category)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense: "+err.Error())
		return
	}
	if e.ID == "" {
		writeError(w, http.StatusUnprocessableEntity, "expense id is required")
		return
	}
	e.Description = sanitizeInput(e.Description)

	if err := s.app.UpdateExpense(r.Context(), e); err != nil {
		s.appError(w, r, err, "update expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExpenseByID serves DELETE /api/expenses/{id}.
func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.app.DeleteExpense(r.Context(), id); err != nil {
		s.appError(w, r, err, "delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	total, err := s.app.Total()
	if err != nil {
		s.appError(w, r, err, "summary")
		return
	}
	breakdown, err := s.app.Breakdown()
	if err != nil {
		s.appError(w, r, err, "summary")
		return
	}
	if breakdown == nil {
		breakdown = []core.CategoryAmount{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":     total,
		"breakdown": breakdown,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	var sb strings.Builder
	filename, err := s.app.ExportCSV(&sb)
	if err != nil {
		s.appError(w, r, err, "export")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sb.String()))
}

// appError maps controller errors onto HTTP statuses.
func (s *Server) appError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, services.ErrNoSession):
		writeError(w, http.StatusUnauthorized, "please log in first")
	case errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrDescriptionTooLong):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "operation", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func sortParams(r *http.Request) (core.SortBy, core.SortOrder) {
	by := core.SortByDate
	if r.URL.Query().Get("sort") == string(core.SortByCategory) {
		by = core.SortByCategory
	}
	order := core.Descending
	if r.URL.Query().Get("order") == string(core.Ascending) {
		order = core.Ascending
	}
	return by, order
}
