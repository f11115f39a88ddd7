package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/carbase/dealership/internal/core"
)

// carIDParam parses the {carID} URL parameter.
func carIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "carID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid car id %q", chi.URLParam(r, "carID"))
	}
	return id, nil
}

type createCarRequest struct {
	VIN           string          `json:"vin"`
	Model         string          `json:"model"`
	Color         string          `json:"color"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	ArrivalDate   apiTime         `json:"arrival_date"`
}

func (req *createCarRequest) validate() error {
	if !core.ValidVIN(req.VIN) {
		return fmt.Errorf("invalid VIN %q: expected 17 letters/digits", req.VIN)
	}
	if req.Model == "" || req.Color == "" {
		return errors.New("model and color are required")
	}
	if req.PurchasePrice.IsNegative() {
		return errors.New("purchase_price must not be negative")
	}
	if req.ArrivalDate.IsZero() {
		return errors.New("arrival_date is required")
	}
	return nil
}

func (s *Server) handleCreateCar(w http.ResponseWriter, r *http.Request) {
	var req createCarRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondBadRequest(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.respondBadRequest(w, r, err)
		return
	}

	car, err := s.svc.CreateCar(r.Context(), core.CreateCarParams{
		VIN:           req.VIN,
		Model:         req.Model,
		Color:         req.Color,
		PurchasePrice: req.PurchasePrice,
		ArrivalDate:   req.ArrivalDate.Time,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, car)
}

func (s *Server) handleListCars(w http.ResponseWriter, r *http.Request) {
	params := core.ListCarsParams{
		Offset: parseIntParam(r, "skip", 0),
		Limit:  parseIntParam(r, "limit", 100),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := core.ParseCarStatus(raw)
		if !ok {
			s.respondBadRequest(w, r, fmt.Errorf("unknown status %q", raw))
			return
		}
		params.Status = &status
	}

	cars, err := s.svc.ListCars(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if cars == nil {
		cars = []core.Car{}
	}
	respondJSON(w, http.StatusOK, cars)
}

func (s *Server) handleListCarsInStock(w http.ResponseWriter, r *http.Request) {
	cars, err := s.svc.ListCarsInStock(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if cars == nil {
		cars = []core.Car{}
	}
	respondJSON(w, http.StatusOK, cars)
}

func (s *Server) handleGetCar(w http.ResponseWriter, r *http.Request) {
	id, err := carIDParam(r)
	if err != nil {
		s.respondBadRequest(w, r, err)
		return
	}
	car, err := s.svc.GetCar(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, car)
}

func (s *Server) handleGetCarByVIN(w http.ResponseWriter, r *http.Request) {
	car, err := s.svc.GetCarByVIN(r.Context(), chi.URLParam(r, "vin"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, car)
}

// updateCarRequest is a partial update. The nullable fields use RawMessage
// so an explicit JSON null (clear the field) is distinguishable from an
// absent key (leave it alone).
type updateCarRequest struct {
	Model         *string          `json:"model"`
	Color         *string          `json:"color"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Status        *string          `json:"status"`
	Location      *string          `json:"location"`
	ArrivalDate   *apiTime         `json:"arrival_date"`
	SalePrice     json.RawMessage  `json:"sale_price"`
	SaleDate      json.RawMessage  `json:"sale_date"`
	BuyerID       json.RawMessage  `json:"buyer_id"`
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func (req *updateCarRequest) toUpdate() (core.CarUpdate, error) {
	var upd core.CarUpdate
	upd.Model = req.Model
	upd.Color = req.Color
	upd.PurchasePrice = req.PurchasePrice

	if req.Status != nil {
		status, ok := core.ParseCarStatus(*req.Status)
		if !ok {
			return upd, fmt.Errorf("unknown status %q", *req.Status)
		}
		upd.Status = &status
	}
	upd.Location = req.Location
	if req.ArrivalDate != nil {
		upd.ArrivalDate = &req.ArrivalDate.Time
	}

	if req.SalePrice != nil {
		var v decimal.NullDecimal
		if !isJSONNull(req.SalePrice) {
			if err := json.Unmarshal(req.SalePrice, &v.Decimal); err != nil {
				return upd, fmt.Errorf("invalid sale_price: %w", err)
			}
			v.Valid = true
		}
		upd.SalePrice = &v
	}
	if req.SaleDate != nil {
		var v sql.NullTime
		if !isJSONNull(req.SaleDate) {
			var t apiTime
			if err := json.Unmarshal(req.SaleDate, &t); err != nil {
				return upd, fmt.Errorf("invalid sale_date: %w", err)
			}
			v = sql.NullTime{Time: t.Time, Valid: true}
		}
		upd.SaleDate = &v
	}
	if req.BuyerID != nil {
		var v sql.NullInt64
		if !isJSONNull(req.BuyerID) {
			if err := json.Unmarshal(req.BuyerID, &v.Int64); err != nil {
				return upd, fmt.Errorf("invalid buyer_id: %w", err)
			}
			v.Valid = true
		}
		upd.BuyerID = &v
	}

	return upd, nil
}

func (s *Server) handleUpdateCar(w http.ResponseWriter, r *http.Request) {
	id, err := carIDParam(r)
	if err != nil {
		s.respondBadRequest(w, r, err)
		return
	}

	var req updateCarRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondBadRequest(w, r, err)
		return
	}
	upd, err := req.toUpdate()
	if err != nil {
		s.respondBadRequest(w, r, err)
		return
	}

	car, err := s.svc.UpdateCar(r.Context(), id, upd)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, car)
}

func (s *Server) handleDeleteCar(w http.ResponseWriter, r *http.Request) {
	id, err := carIDParam(r)
	if err != nil {
		s.respondBadRequest(w, r, err)
		return
	}
	if err := s.svc.DeleteCar(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Car deleted"})
}
