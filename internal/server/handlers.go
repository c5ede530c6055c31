package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"TrendScreener/internal/aggregator"
	"TrendScreener/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status    string `json:"status"`
	LastRunID string `json:"last_run_id,omitempty"`
	LastRunAt string `json:"last_run_at,omitempty"`
}

// RankingResponse is the JSON form of a report.
type RankingResponse struct {
	RunID       string        `json:"run_id"`
	GeneratedAt string        `json:"generated_at"`
	Interval    string        `json:"interval"`
	Period      string        `json:"period"`
	Desde       int           `json:"desde"`
	Hasta       int           `json:"hasta"`
	Columns     []string      `json:"columns"`
	Rows        []RankingRow  `json:"rows"`
	Failures    []FailureJSON `json:"failures"`
}

// RankingRow is one metadata row; the metric fields are null when the
// entity was not scored.
type RankingRow struct {
	Ticker    string   `json:"ticker"`
	Name      string   `json:"name"`
	MarketCap float64  `json:"market_cap"`
	ChangePct float64  `json:"change_pct"`
	Intervalo *string  `json:"intervalo"`
	Desde     *int     `json:"desde"`
	Variacion *float64 `json:"variacion"`
	Desvio    *float64 `json:"desvio"`
}

// FailureJSON describes an entity that could not be scored.
type FailureJSON struct {
	Ticker string `json:"ticker"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

// NewRankingResponse converts a report, formatting times in loc.
func NewRankingResponse(r *model.Report, loc *time.Location) RankingResponse {
	resp := RankingResponse{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt.In(loc).Format(time.RFC3339),
		Interval:    r.Interval,
		Period:      r.Period,
		Desde:       r.Window.From,
		Hasta:       r.Window.To,
		Columns:     aggregator.ColumnNames,
		Rows:        make([]RankingRow, 0, len(r.Table.Rows)),
		Failures:    make([]FailureJSON, 0, len(r.Failures)),
	}
	for _, row := range r.Table.Rows {
		out := RankingRow{
			Ticker:    row.Ticker,
			Name:      row.Name,
			MarketCap: row.MarketCap,
			ChangePct: row.ChangePct,
		}
		if m := row.Metric; m != nil {
			interval, from, variation, deviation := m.Interval, m.From, m.Variation, m.Deviation
			out.Intervalo, out.Desde, out.Variacion, out.Desvio = &interval, &from, &variation, &deviation
		}
		resp.Rows = append(resp.Rows, out)
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, FailureJSON{
			Ticker: f.Ticker,
			Kind:   string(f.Kind),
			Error:  f.Error(),
		})
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if rep := s.latest.Load(); rep != nil {
		resp.LastRunID = rep.RunID
		resp.LastRunAt = rep.GeneratedAt.In(s.loc).Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	rep := s.latest.Load()
	if rep == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no ranking available yet"})
		return
	}
	writeJSON(w, http.StatusOK, NewRankingResponse(rep, s.loc))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := renderPage(s.latest.Load(), s.loc)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID(r.Context())).Msg("render ranking page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
