package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/carbase/dealership/internal/core"
)

type createMovementRequest struct {
	VIN          string   `json:"vin"`
	FromLocation string   `json:"from_location"`
	ToLocation   string   `json:"to_location"`
	Date         *apiTime `json:"date"`
}

func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	var req createMovementRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondBadRequest(w, r, err)
		return
	}
	if req.VIN == "" || req.ToLocation == "" {
		s.respondBadRequest(w, r, errors.New("vin and to_location are required"))
		return
	}

	// Sold cars stay put: reject here so the ledger check runs before any
	// movement is attempted.
	car, err := s.svc.GetCarByVIN(r.Context(), req.VIN)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if car.Sold() {
		s.respondError(w, r, core.ErrAlreadySold)
		return
	}

	var ts time.Time
	if req.Date != nil {
		ts = req.Date.Time
	}
	mv, err := s.svc.MoveCar(r.Context(), req.VIN, req.FromLocation, req.ToLocation, ts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, mv)
}

func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := s.svc.ListMovements(r.Context(),
		parseIntParam(r, "skip", 0), parseIntParam(r, "limit", 100))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if movements == nil {
		movements = []core.Movement{}
	}
	respondJSON(w, http.StatusOK, movements)
}

func (s *Server) handleListCarMovements(w http.ResponseWriter, r *http.Request) {
	id, err := carIDParam(r)
	if err != nil {
		s.respondBadRequest(w, r, err)
		return
	}
	movements, err := s.svc.ListCarMovements(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if movements == nil {
		movements = []core.Movement{}
	}
	respondJSON(w, http.StatusOK, movements)
}
