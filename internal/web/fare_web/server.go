package fare_web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tarediiran-industries.com/fare-services/internal/common"
	"tarediiran-industries.com/fare-services/internal/fares"
	"tarediiran-industries.com/fare-services/internal/store"
)

// FareWebServer serves the fare database. The database file is read on every
// request, so lines merged by fare-ingest show up without a restart.
type FareWebServer struct {
	databasePath string
	metrics      *common.Metrics
	router       chi.Router
	server       *http.Server
	renderer     *Renderer
}

func NewFareWebServer(listenAddr string, databasePath string, metrics *common.Metrics) (*FareWebServer, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	server := &FareWebServer{
		databasePath: databasePath,
		metrics:      metrics,
		router:       router,
		server:       httpServer,
		renderer:     renderer,
	}

	router.Get("/", func(writer http.ResponseWriter, request *http.Request) {
		http.Redirect(writer, request, "/lines", http.StatusFound)
	})
	router.Get("/lines", server.handleLinesPage)
	router.Get("/database.json", server.handleDatabase)
	router.Get("/api/lines", server.handleAPILines)
	router.Get("/api/price", server.handleAPIPrice)
	router.Get("/healthz", server.handleHealth)

	return server, nil
}

func (server *FareWebServer) Handler() http.Handler {
	return server.router
}

func (server *FareWebServer) loadLines() ([]fares.Line, error) {
	return store.Load(server.databasePath)
}

func (server *FareWebServer) Serve(ctx context.Context) error {
	log.Printf("listening on %s (database %s)", server.server.Addr, server.databasePath)

	serveErr := make(chan error, 1)
	go func() {
		err := server.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.server.Shutdown(shutdownCtx)
}
