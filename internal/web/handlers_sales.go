package web

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/carbase/dealership/internal/core"
)

type createSaleRequest struct {
	VIN        string          `json:"vin"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	BuyerName  string          `json:"buyer_name"`
	BuyerPhone *string         `json:"buyer_phone"`
	BuyerEmail *string         `json:"buyer_email"`
	SaleDate   *apiTime        `json:"sale_date"`
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondBadRequest(w, r, err)
		return
	}
	if req.VIN == "" || req.BuyerName == "" {
		s.respondBadRequest(w, r, errors.New("vin and buyer_name are required"))
		return
	}
	if req.SalePrice.IsNegative() {
		s.respondBadRequest(w, r, errors.New("sale_price must not be negative"))
		return
	}

	params := core.SellCarParams{
		VIN:        req.VIN,
		SalePrice:  req.SalePrice,
		BuyerName:  req.BuyerName,
		BuyerPhone: req.BuyerPhone,
		BuyerEmail: req.BuyerEmail,
	}
	if req.SaleDate != nil {
		params.SaleDate = &req.SaleDate.Time
	}

	car, err := s.svc.SellCar(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, car)
}

func (s *Server) handleListSoldCars(w http.ResponseWriter, r *http.Request) {
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

	cars, err := s.svc.ListSoldCars(r.Context(), core.SoldCarsFilter{Start: start, End: end})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if cars == nil {
		cars = []core.Car{}
	}
	respondJSON(w, http.StatusOK, cars)
}

func (s *Server) handleListBuyers(w http.ResponseWriter, r *http.Request) {
	buyers, err := s.svc.ListBuyers(r.Context(),
		parseIntParam(r, "skip", 0), parseIntParam(r, "limit", 100))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if buyers == nil {
		buyers = []core.Buyer{}
	}
	respondJSON(w, http.StatusOK, buyers)
}
