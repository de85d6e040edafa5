// Package server exposes the sequence tools as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pzweuj/biotools-sub000/internal/barcode"
	"github.com/pzweuj/biotools-sub000/internal/dimer"
	"github.com/pzweuj/biotools-sub000/internal/hgvs"
	"github.com/pzweuj/biotools-sub000/internal/orf"
	"github.com/pzweuj/biotools-sub000/internal/restriction"
)

// Options configures a Server. Zero values select package defaults.
type Options struct {
	Catalog    *restriction.Catalog
	HGVS       *hgvs.Client // nil disables the HGVS proxy
	ORF        orf.Params
	ORFWorkers int
	Index      barcode.Params
	Dimer      dimer.Params
	Logger     *zap.Logger
}

// Server routes API requests to the tool packages.
type Server struct {
	opts   Options
	router chi.Router
	logger *zap.Logger
}

// New builds a server and its routes.
func New(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = restriction.DefaultCatalog
	}
	if opts.ORF.MinLength == 0 && len(opts.ORF.StartCodons) == 0 {
		opts.ORF = orf.DefaultParams()
	}
	if opts.Index == (barcode.Params{}) {
		opts.Index = barcode.DefaultParams()
	}
	if opts.Dimer == (dimer.Params{}) {
		opts.Dimer = dimer.DefaultParams()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{opts: opts, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/sequence", func(r chi.Router) {
			r.Post("/revcomp", s.handleRevComp)
			r.Post("/transcribe", s.handleTranscribe)
			r.Post("/translate", s.handleTranslate)
			r.Post("/usage", s.handleUsage)
		})
		r.Post("/orf", s.handleORF)
		r.Route("/restriction", func(r chi.Router) {
			r.Get("/enzymes", s.handleEnzymes)
			r.Post("/digest", s.handleDigest)
			r.Post("/ligate", s.handleLigate)
		})
		r.Post("/dimer", s.handleDimer)
		r.Post("/index/check", s.handleIndexCheck)
		r.Post("/convert", s.handleConvert)
		r.Get("/hgvs/*", s.handleHGVS)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	srv.SetKeepAlivesEnabled(false)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
