package web

import (
	"fmt"
	"net/http"

	"github.com/carbase/dealership/internal/core"
)

func (s *Server) handleSalesReport(w http.ResponseWriter, r *http.Request) {
	start, err := parseTimeParam(r, "start_date")
	if err != nil {
		s.respondBadRequest(w, r, err)
		return
	}
	end, err := parseTimeParam(r, "end_date")
	if err != nil {
		s.respondBadRequest(w, r, err)
		return
	}

	rep, err := s.svc.SalesReport(r.Context(), core.SoldCarsFilter{Start: start, End: end})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) handleStockReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.StockReport(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) handleBuyersReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.BuyersReport(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	params := core.ListOperationsParams{
		Offset: parseIntParam(r, "skip", 0),
		Limit:  parseIntParam(r, "limit", 100),
	}
	if raw := r.URL.Query().Get("operation_type"); raw != "" {
		kind, ok := core.ParseOperationKind(raw)
		if !ok {
			s.respondBadRequest(w, r, fmt.Errorf("unknown operation type %q", raw))
			return
		}
		params.Kind = &kind
	}

	ops, err := s.svc.ListOperations(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if ops == nil {
		ops = []core.Operation{}
	}
	respondJSON(w, http.StatusOK, ops)
}
