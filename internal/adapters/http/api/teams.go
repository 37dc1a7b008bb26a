package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/ftcscope/pkg/logger"
)

// TeamsHandler serves team lookups and season selectors.
type TeamsHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies, l logger.Logger) *TeamsHandler {
	return &TeamsHandler{deps: deps, logger: l}
}

// HandleLookup handles GET /api/teams/{number}?season=Y. A missing season
// selects the current one.
func (h *TeamsHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	const op = "api.lookup"
	number, err := teamNumber(r)
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	season := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("season")); raw != "" {
		season, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("season %q is not a number", raw)))
			return
		}
	}

	res, err := h.deps.Lookup(r.Context(), number, season)
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleSeasons handles GET /api/teams/{number}/seasons.
func (h *TeamsHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	const op = "api.seasons"
	number, err := teamNumber(r)
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	list, err := h.deps.TeamSeasons(r.Context(), number)
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *TeamsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := classify(err); status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "team request failed",
			logger.String("path", r.URL.Path),
			logger.String("requestID", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, err)
}

func teamNumber(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "number")
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("team number %q must be a positive integer", raw)
	}
	return n, nil
}
