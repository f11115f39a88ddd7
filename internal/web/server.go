// Package web provides the HTTP server and JSON API for the dealership
// service: car ledger, movements, sales, buyers, reports and CSV file
// imports.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/carbase/dealership/internal/config"
	"github.com/carbase/dealership/internal/core"
	"github.com/carbase/dealership/internal/importer"
	"github.com/carbase/dealership/internal/web/middleware"
)

// Server is the HTTP server for the dealership API.
type Server struct {
	cfg      *config.Config
	svc      *core.Service
	importer *importer.Importer
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a Server wired to the given service and importer.
func NewServer(cfg *config.Config, svc *core.Service, im *importer.Importer) *Server {
	s := &Server{
		cfg:      cfg,
		svc:      svc,
		importer: im,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleRoot)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/cars", func(r chi.Router) {
			r.Get("/", s.handleListCars)
			r.Post("/", s.handleCreateCar)
			r.Get("/stock", s.handleListCarsInStock)
			r.Get("/vin/{vin}", s.handleGetCarByVIN)
			r.Get("/{carID}", s.handleGetCar)
			r.Put("/{carID}", s.handleUpdateCar)
			r.Delete("/{carID}", s.handleDeleteCar)
		})

		r.Route("/movements", func(r chi.Router) {
			r.Get("/", s.handleListMovements)
			r.Post("/", s.handleCreateMovement)
			r.Get("/car/{carID}", s.handleListCarMovements)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", s.handleListSoldCars)
			r.Post("/", s.handleCreateSale)
		})

		r.Get("/buyers", s.handleListBuyers)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales", s.handleSalesReport)
			r.Get("/stock", s.handleStockReport)
			r.Get("/buyers", s.handleBuyersReport)
			r.Get("/operations", s.handleListOperations)
		})

		r.Route("/files", func(r chi.Router) {
			r.Post("/upload/arrivals", s.uploadHandler(importer.FileArrivals))
			r.Post("/upload/movements", s.uploadHandler(importer.FileMovements))
			r.Post("/upload/sales", s.uploadHandler(importer.FileSales))
			r.Post("/upload/auto", s.handleUploadAuto)
		})
	})
}

// Start begins listening for HTTP requests. Blocks until the server stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// handleRoot describes the API.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"name":        "Car Sales Management System",
		"description": "Inventory, movements, sales and reports for a car dealership.",
	})
}
