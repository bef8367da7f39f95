package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/engine"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/models"
	"github.com/CalebUK/kicker-genius-app-sub000/internal/service"
	"github.com/gorilla/mux"
)

var errBadParameter = errors.New("bad parameter")

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func presentModel(w http.ResponseWriter, status int, model any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(model); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// presentError writes err as JSON and reports whether there was one.
func presentError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadParameter):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSnapshotNotLoaded):
		status = http.StatusServiceUnavailable
	default:
		slog.Error("Unexpected error", "error", err, "path", r.URL.Path, "request_id", requestID(r.Context()))
	}
	presentModel(w, status, errorResponse{Error: err.Error(), RequestID: requestID(r.Context())})
	return true
}

// scoringFromQuery starts from the chat's config when chat_id is given,
// else the default, and applies any scoring keys found in the query.
func (s *Server) scoringFromQuery(r *http.Request) (engine.ScoringConfig, error) {
	q := r.URL.Query()
	scoring := engine.DefaultScoring()
	if raw := q.Get("chat_id"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return scoring, fmt.Errorf("%w: chat_id %q", errBadParameter, raw)
		}
		if scoring, err = s.kickerService.Scoring(r.Context(), chatID); err != nil {
			return scoring, err
		}
	}

	overridden := false
	for _, key := range engine.ScoringKeys() {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return scoring, fmt.Errorf("%w: %s=%q", errBadParameter, key, raw)
		}
		if err := scoring.Set(key, v); err != nil {
			return scoring, fmt.Errorf("%w: %v", errBadParameter, err)
		}
		overridden = true
	}
	if overridden {
		scoring.Name = "custom"
	}
	return scoring, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", errBadParameter, name, raw)
	}
	return n, nil
}

type healthResponse struct {
	Status         string `json:"status"`
	SnapshotLoaded bool   `json:"snapshot_loaded"`
	Week           int    `json:"week,omitempty"`
	League         string `json:"league,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if week, err := s.kickerService.CurrentWeek(); err == nil {
		resp.SnapshotLoaded = true
		resp.Week = week
	}
	if league := s.kickerService.League(); league != nil {
		resp.League = league.Name
	}
	presentModel(w, http.StatusOK, resp)
}

type rankingsResponse struct {
	Week     int                  `json:"week"`
	Scoring  engine.ScoringConfig `json:"scoring"`
	Rankings []models.KickerView  `json:"rankings"`
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	scoring, err := s.scoringFromQuery(r)
	if presentError(w, r, err) {
		return
	}
	limit, err := intParam(r, "limit")
	if presentError(w, r, err) {
		return
	}

	q := r.URL.Query()
	filter := service.RankingFilter{
		Team:         q.Get("team"),
		Ownership:    models.Ownership(strings.ToLower(q.Get("ownership"))),
		HideInactive: q.Get("hide_inactive") == "true",
		Limit:        limit,
	}
	switch filter.Ownership {
	case models.OwnershipUnknown, models.OwnershipMine, models.OwnershipTaken, models.OwnershipFree:
	default:
		presentError(w, r, fmt.Errorf("%w: ownership=%q", errBadParameter, filter.Ownership))
		return
	}

	views, err := s.kickerService.Rankings(r.Context(), scoring, filter)
	if presentError(w, r, err) {
		return
	}
	week, err := s.kickerService.CurrentWeek()
	if presentError(w, r, err) {
		return
	}
	presentModel(w, http.StatusOK, rankingsResponse{Week: week, Scoring: scoring, Rankings: views})
}

func (s *Server) handleLeaders(w http.ResponseWriter, r *http.Request) {
	scoring, err := s.scoringFromQuery(r)
	if presentError(w, r, err) {
		return
	}
	limit, err := intParam(r, "limit")
	if presentError(w, r, err) {
		return
	}
	views, err := s.kickerService.Leaders(r.Context(), scoring, limit)
	if presentError(w, r, err) {
		return
	}
	presentModel(w, http.StatusOK, map[string]any{"scoring": scoring, "leaders": views})
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	scoring, err := s.scoringFromQuery(r)
	if presentError(w, r, err) {
		return
	}
	ex, err := s.kickerService.Explain(r.Context(), scoring, mux.Vars(r)["name"])
	if presentError(w, r, err) {
		return
	}
	presentModel(w, http.StatusOK, ex)
}

type statusResponse struct {
	Name     string           `json:"name"`
	Team     string           `json:"team"`
	GameTime string           `json:"game_time"`
	Status   engine.GameState `json:"status"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ex, err := s.kickerService.Explain(r.Context(), engine.DefaultScoring(), mux.Vars(r)["name"])
	if presentError(w, r, err) {
		return
	}
	presentModel(w, http.StatusOK, statusResponse{
		Name:     ex.View.Name,
		Team:     ex.View.Team,
		GameTime: ex.View.GameTime,
		Status:   ex.View.Status,
	})
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	scoring, err := s.scoringFromQuery(r)
	if presentError(w, r, err) {
		return
	}
	week, err := intParam(r, "week")
	if presentError(w, r, err) {
		return
	}
	report, err := s.kickerService.Accuracy(r.Context(), scoring, week)
	if presentError(w, r, err) {
		return
	}
	presentModel(w, http.StatusOK, report)
}

func (s *Server) handleInjuries(w http.ResponseWriter, r *http.Request) {
	injuries, err := s.kickerService.Injuries(r.Context())
	if presentError(w, r, err) {
		return
	}
	presentModel(w, http.StatusOK, map[string]any{"injuries": injuries})
}

func (s *Server) handleScoring(w http.ResponseWriter, r *http.Request) {
	scoring, err := s.scoringFromQuery(r)
	if presentError(w, r, err) {
		return
	}
	presentModel(w, http.StatusOK, map[string]any{"scoring": scoring, "keys": engine.ScoringKeys()})
}
