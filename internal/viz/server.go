package viz

import (
	"context"
	"embed"
	"errors"
	"expvar"
	"fmt"
	"net"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"damage-game/internal/config"
	"damage-game/internal/eventlog"
	"damage-game/internal/mcpserver"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

//go:embed pages/*.html
var pages embed.FS

const shutdownTimeout = 5 * time.Second

// Server serves replays and live tails of the logs under one directory.
type Server struct {
	cfg      config.VizConfig
	logDir   string
	clock    quartz.Clock
	upgrader websocket.Upgrader
	mcp      *mcpserver.Server
}

// New builds a server. A nil clock uses the wall clock.
func New(cfg config.VizConfig, logDir string, clock quartz.Clock) *Server {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Server{
		cfg:      cfg,
		logDir:   logDir,
		clock:    clock,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		mcp:      mcpserver.New(logDir),
	}
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

func (s *Server) pingInterval() time.Duration {
	if s.cfg.PingInterval <= 0 {
		return 15 * time.Second
	}
	return s.cfg.PingInterval
}

func (s *Server) logExists(id string) bool {
	if !eventlog.ValidID(id) {
		return false
	}
	_, err := os.Stat(eventlog.LogPath(s.logDir, id))
	return err == nil
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/", s.page("index.html"))
	r.Get("/table", s.page("table.html"))
	r.Get("/arena", s.page("arena.html"))

	r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", "GET, POST, DELETE, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
	})
	r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", s.mcp.Handler())
	r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", s.mcp.Handler())
	r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", s.mcp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.With(APILogMiddleware()).Get("/", s.handleIndex)
		r.With(APILogMiddleware()).Get("/games", s.handleGames)
		r.With(APILogMiddleware()).Get("/tournaments", s.handleTournaments)
		r.With(APILogMiddleware()).Get("/replay", s.handleReplay)
		r.With(APILogMiddleware()).Get("/bio", s.handleBio)
		r.Get("/stream", s.handleStream)
		r.Get("/ws", s.handleWS)
	})

	r.Route("/debug", func(r chi.Router) {
		r.Get("/vars", expvar.Handler().ServeHTTP)
	})
	return r
}

func (s *Server) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		body, err := pages.ReadFile("pages/" + name)
		if err != nil {
			writeError(w, http.StatusNotFound, "page_not_found", name)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}
}

// ListenAndServe serves until ctx ends, then shuts down. Open streams are
// cancelled with ctx.
func (s *Server) ListenAndServe(ctx context.Context) error {
	router := s.Router()
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	LogRoutes(router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("log_dir", s.logDir).Msg("visualizer listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("%s %s; ", rt.Method, rt.Path))
	}
	log.Debug().Int("count", len(routes)).Str("routes", b.String()).Msg("registered routes")
}
