package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/tradebot/gopaca/internal/alpaca"
	"github.com/tradebot/gopaca/internal/command"
	"github.com/tradebot/gopaca/internal/guard"
	"github.com/tradebot/gopaca/internal/trading"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, err := s.client.Account(ctx)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	positions, err := s.client.Positions(ctx)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"account":   account,
		"positions": positions,
	})
}

func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := strings.TrimSpace(q.Get("symbol"))
	if len(symbol) < 1 || len(symbol) > 10 {
		writeError(w, http.StatusBadRequest, "symbol must be 1-10 characters")
		return
	}

	ctx := r.Context()
	normalized, err := guard.Symbol(ctx, s.client, s.allowed, symbol)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	limit := 100
	if v := q.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	latest, err := s.client.LatestQuote(ctx, normalized)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	bars, err := s.client.Bars(ctx, normalized, alpaca.BarsQuery{
		Timeframe: q.Get("timeframe"),
		Limit:     limit,
		Start:     q.Get("start"),
		End:       q.Get("end"),
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"latest_quote": latest,
		"bars":         bars,
	})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var req trading.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	s.submit(w, r, req)
}

type buyTextRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleBuyText(w http.ResponseWriter, r *http.Request) {
	var req buyTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	orderReq, err := command.Parse(req.Command)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.submit(w, r, orderReq)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, req trading.OrderRequest) {
	result, err := s.engine.Submit(r.Context(), req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
