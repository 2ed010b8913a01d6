package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"spending/internal/cache"
	"spending/internal/core"
	"spending/internal/log"
	"spending/internal/middleware/ratelimit"
	"spending/internal/ports"
	appweb "spending/web"
)

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server renders the spending pages and the JSON API.
type Server struct {
	http.Server
	store     ports.Store
	templates *template.Template
	logger    *log.Logger
	now       func() time.Time

	// month listings, keyed by the first day of the month
	months   *cache.LRU[core.Date, []core.Purchase]
	caches   *cache.Manager
	limiter  *ratelimit.Limiter
	started  time.Time
	stopBg   context.CancelFunc
	stopOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, store ports.Store, logger *log.Logger) (*Server, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	s := &Server{
		store:     store,
		templates: t,
		logger:    logger.WithComponent(log.ComponentHTTP),
		now:       time.Now,
		months:    cache.NewLRU[core.Date, []core.Purchase](48, 5*time.Minute),
		caches:    cache.NewManager(),
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		started:   time.Now(),
	}
	s.caches.Register("months", s.months)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /spending/{year}/{month}", s.handleSpending)
	mux.HandleFunc("GET /purchase/{id}", s.handlePurchase)
	mux.HandleFunc("GET /api/purchases/{year}/{month}", s.handleAPIList)
	mux.HandleFunc("GET /api/purchase/{id}", s.handleAPIGet)
	mux.HandleFunc("DELETE /api/purchase/{id}", s.handleAPIDelete)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	files := http.StripPrefix("/static/", http.FileServer(http.FS(static)))
	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	}))

	var h http.Handler = mux
	h = s.limiter.Middleware(extractClientIP)(h)
	h = s.withSecurityHeaders(h)
	h = log.RequestIDMiddleware(requestIDOf)(h)
	h = withRequestID(h)
	h = log.Middleware(s.logger)(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopBg = cancel
	go s.caches.Run(ctx, 10*time.Minute)
	go s.limiter.Run(ctx)
	return s, nil
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.Addr)
	return s.Server.ListenAndServe()
}

// Shutdown stops the cleanup loops and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		s.stopBg()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// monthPurchases returns the purchases of month, served from the cache when
// possible.
func (s *Server) monthPurchases(ctx context.Context, month core.Date) ([]core.Purchase, error) {
	key := month.FirstOfMonth()
	if items, ok := s.months.Get(key); ok {
		log.FromContext(ctx).DebugContext(ctx, "Month cache hit", log.FieldYear, month.Year, log.FieldMonth, int(month.Month))
		return append([]core.Purchase(nil), items...), nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	items, err := s.store.ListPurchases(cctx, month)
	if err != nil {
		return nil, fmt.Errorf("list purchases of %s: %w", month.MonthOnly(), err)
	}
	s.months.Set(key, items)
	return append([]core.Purchase(nil), items...), nil
}

func (s *Server) invalidateMonth(month core.Date) {
	s.months.Delete(month.FirstOfMonth())
}
