package http

import "net/http"

type suggestRequest struct {
	Description string `json:"description"`
}

type suggestResponse struct {
	Category *string `json:"category"`
}

// handleSuggest routes a description edit through the caller's debouncer.
// The request resolves once the quiet period passes; an edit arriving in
// the meantime supersedes it and the older request reports no suggestion.
// A null category is a normal outcome, never an error.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	user, ok := s.app.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "please log in first")
		return
	}

	var req suggestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := suggestResponse{}
	if cat, ok := s.debouncerFor(user.ID).Await(r.Context(), sanitizeInput(req.Description)); ok {
		label := string(cat)
		resp.Category = &label
	}
	writeJSON(w, http.StatusOK, resp)
}
