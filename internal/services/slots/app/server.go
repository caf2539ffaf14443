// Package app serves pages whose layout slots are filled from a slot
// registry.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/pageslots/internal/platform/requestctx"
	"github.com/louisbranch/pageslots/internal/platform/timeouts"
	"github.com/louisbranch/pageslots/internal/slots"
	"github.com/louisbranch/pageslots/internal/slots/catalog"
)

const defaultAppName = "Page Slots"

// Config defines the inputs for the page server.
type Config struct {
	HTTPAddr string
	AppName  string
	// Dispatcher selects slot entries for each request. Required.
	Dispatcher slots.Dispatcher
}

// Server hosts the page HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

type handler struct {
	appName    string
	dispatcher slots.Dispatcher
}

// NewHandler returns the page routes wrapped with current-path middleware.
func NewHandler(config Config) (http.Handler, error) {
	if config.Dispatcher == nil {
		return nil, errors.New("slot dispatcher is required")
	}
	appName := strings.TrimSpace(config.AppName)
	if appName == "" {
		appName = defaultAppName
	}
	h := &handler{appName: appName, dispatcher: config.Dispatcher}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /_slots/{name}", h.handleInspectSlot)
	mux.HandleFunc("GET /", h.handlePage)
	return withCurrentPath(mux), nil
}

// NewServer builds the HTTP server for config.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(config)
	if err != nil {
		return nil, err
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("page server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("page server listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// withCurrentPath exposes the request path to slot rendering.
func withCurrentPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestctx.WithPath(r.Context(), r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *handler) handlePage(w http.ResponseWriter, r *http.Request) {
	page := Page(h.dispatcher, PageParams{
		AppName: h.appName,
		Title:   PageTitleFromPath(r.URL.Path),
		Lang:    ResolveLanguage(r).String(),
	})
	templ.Handler(page, templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			log.Printf("render page %s: %v", r.URL.Path, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		})
	})).ServeHTTP(w, r)
}

type inspectEntry struct {
	Component string      `json:"component"`
	Props     slots.Props `json:"props,omitempty"`
}

type inspectResponse struct {
	Slot    string         `json:"slot"`
	Path    string         `json:"path"`
	Entries []inspectEntry `json:"entries"`
}

// handleInspectSlot reports which entries of a slot are active for the
// "path" query parameter (default "/").
func (h *handler) handleInspectSlot(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}

	mounts := h.dispatcher.Dispatch(name, path)
	entries := make([]inspectEntry, 0, len(mounts))
	for _, mount := range mounts {
		entries = append(entries, inspectEntry{
			Component: catalog.Name(mount.Component),
			Props:     mount.Props,
		})
	}
	writeJSON(w, http.StatusOK, inspectResponse{Slot: name, Path: path, Entries: entries})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode json response: %v", err)
	}
}
