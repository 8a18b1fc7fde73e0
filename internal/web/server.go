package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/MattiaPT/displayer/internal/config"
	"github.com/MattiaPT/displayer/internal/dataset"
	"github.com/MattiaPT/displayer/internal/log"
)

// Server serves one dataset. The dataset is read-only, so handlers share it
// without locking.
type Server struct {
	router           *mux.Router
	dataset          *dataset.Dataset
	renderer         *Renderer
	logger           *log.Logger
	version          string
	geohashPrecision uint

	etags sync.Map
}

func NewServer(ds *dataset.Dataset, renderer *Renderer, logger *log.Logger) *Server {
	s := &Server{
		router:           mux.NewRouter(),
		dataset:          ds,
		renderer:         renderer,
		logger:           logger,
		version:          "unknown",
		geohashPrecision: config.DefaultGeohashPrecision,
	}

	s.setupRoutes()
	return s
}

func (s *Server) SetVersion(v string) {
	s.version = v
}

func (s *Server) SetGeohashPrecision(p uint) {
	s.geohashPrecision = p
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", s.handleVersion).Methods("GET")
	api.HandleFunc("/dataset", s.handleDataset).Methods("GET")
	api.HandleFunc("/dataset.geojson", s.handleGeoJSON).Methods("GET")

	s.router.HandleFunc("/assets/{token}", s.handleAsset).Methods("GET", "HEAD")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeAPIError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeAPIError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(addr string) error {
	s.logger.Info("Starting displayer", zap.String("url", "http://"+addr), zap.Int("assets", s.dataset.Len()))

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
