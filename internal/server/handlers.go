package server

import (
	"net/http"

	"github.com/bobmcallan/dcacalc/internal/common"
	"github.com/bobmcallan/dcacalc/internal/models"
	"github.com/bobmcallan/dcacalc/internal/services/returns"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
		"asset":   s.app.Config.Quote.Symbol + "/" + s.app.Config.Quote.Currency,
	})
}

func (s *Server) handleBenchmarks(w http.ResponseWriter, r *http.Request) {
	a, b := s.app.ReturnService.Benchmarks()
	WriteJSON(w, http.StatusOK, map[string][]models.Benchmark{
		"benchmarks": {a, b},
	})
}

// --- Calculation handlers ---

type lumpSumRequest struct {
	Amount float64     `json:"amount"`
	Date   models.Date `json:"date"`
}

type dcaRequest struct {
	MonthlyAmount float64     `json:"monthly_amount"`
	StartDate     models.Date `json:"start_date"`
	EndDate       models.Date `json:"end_date"`
}

func (s *Server) handleLumpSum(w http.ResponseWriter, r *http.Request) {
	var req lumpSumRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.ReturnService.EvaluateLumpSum(r.Context(), req.Amount, req.Date)
	if err != nil {
		s.writeCalculationError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleDCA(w http.ResponseWriter, r *http.Request) {
	var req dcaRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.ReturnService.EvaluateDCA(r.Context(), req.MonthlyAmount, req.StartDate, req.EndDate)
	if err != nil {
		s.writeCalculationError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleChart evaluates either strategy and responds with the comparison chart as PNG.
// The request body is a StrategyParameters object.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var params models.StrategyParameters
	if !DecodeJSON(w, r, &params) {
		return
	}

	result, err := s.app.ReturnService.Evaluate(r.Context(), params)
	if err != nil {
		s.writeCalculationError(w, r, err)
		return
	}

	png, err := returns.RenderComparisonChart(result.Series)
	if err != nil {
		s.logger.Warn().Err(err).Int("points", result.Series.Len()).Msg("Chart render failed")
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), models.CodeComputation)
		return
	}

	if err := WritePNG(w, png); err != nil {
		s.logger.Debug().
			Err(err).
			Int("bytes", len(png)).
			Str("correlation_id", w.Header().Get("X-Correlation-ID")).
			Msg("Chart write failed")
	}
}

func (s *Server) writeCalculationError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn().
		Err(err).
		Str("path", r.URL.Path).
		Str("correlation_id", w.Header().Get("X-Correlation-ID")).
		Msg("Calculation failed")
	WriteDomainError(w, err)
}
