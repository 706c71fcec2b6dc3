package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tradebot/gopaca/internal/alpaca"
	"github.com/tradebot/gopaca/internal/guard"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// writeFailure maps the error taxonomy onto HTTP statuses: guard and input
// failures are the caller's fault (400), upstream and transport failures
// are reported as bad gateway with the specific cause.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	var verr *guard.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Reason)
		return
	}
	var uerr *alpaca.UpstreamError
	if errors.As(err, &uerr) {
		s.log.WithField("status", uerr.StatusCode).Error("upstream error: ", uerr.Body)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("upstream error %d: %s", uerr.StatusCode, uerr.Body))
		return
	}
	var terr *alpaca.TransportError
	if errors.As(err, &terr) {
		s.log.Error("upstream unreachable: ", terr)
		writeError(w, http.StatusBadGateway, "upstream unreachable: "+terr.Error())
		return
	}
	s.log.Error("internal error: ", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}
