package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/drstein77/cartfolio/internal/browser"
	"github.com/drstein77/cartfolio/internal/cart"
	"github.com/drstein77/cartfolio/internal/config"
	"github.com/drstein77/cartfolio/internal/controllers"
	"github.com/drstein77/cartfolio/internal/dbkeeper"
	"github.com/drstein77/cartfolio/internal/logger"
	"github.com/drstein77/cartfolio/internal/middleware"
	"github.com/drstein77/cartfolio/internal/presenter"
	"github.com/drstein77/cartfolio/internal/rediskeeper"
	"github.com/drstein77/cartfolio/internal/sqlitekeeper"
	"github.com/drstein77/cartfolio/internal/storage"
	"github.com/go-chi/chi"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	srv    *http.Server
	ctx    context.Context
	option *config.Options
	Log    *logger.Logger

	mu      sync.Mutex
	closers []func() bool
}

// NewServer creates a new Server instance with the provided context
func NewServer(ctx context.Context) *Server {
	// create and initialize a new option instance
	option := config.NewOptions()
	option.ParseFlags()

	// get a new logger
	nLogger, err := logger.NewLogger(option.LogLevel())
	if err != nil {
		log.Fatalln(err)
	}

	return &Server{
		ctx:    ctx,
		option: option,
		Log:    nLogger,
	}
}

// Serve wires the cart and runs the HTTP server until it is shut down.
func (server *Server) Serve() error {
	slot := server.newSlot()
	if slot.close != nil {
		server.mu.Lock()
		server.closers = append(server.closers, slot.close)
		server.mu.Unlock()
	}
	store := cart.NewStore(slot.slot, server.Log, cart.WithKey(server.option.CartKey()))

	if slot.tab != nil {
		tab := slot.tab
		presenter.Bind(server.ctx, store, tab.Document(), tab, presenter.Options{
			CartPage: server.option.CartPage(),
			Dwell:    server.option.NotifyDwell(),
			Render: func(ctx context.Context) {
				if err := tab.CallGlobal(ctx, "displayCart"); err != nil {
					server.Log.Warn("displayCart failed", zap.Error(err))
				}
			},
		}, server.Log)
	} else {
		presenter.LogEvents(store, server.Log)
	}

	// create router and mount routes
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(server.Log))
	r.Mount("/", controllers.NewBaseController(store, server.Log).Route())

	srv := &http.Server{
		Addr:              server.option.RunAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.mu.Lock()
	server.srv = srv
	server.mu.Unlock()

	g, gctx := errgroup.WithContext(server.ctx)
	g.Go(func() error {
		server.Log.Info("Server started", zap.String("addr", server.option.RunAddr()), zap.String("storage", slot.name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// a cancelled root context stops the server even without a signal
		server.Shutdown(5 * time.Second)
		server.closeBackends()
		return nil
	})
	return g.Wait()
}

// Shutdown stops accepting requests and waits up to timeout for in-flight ones.
func (server *Server) Shutdown(timeout time.Duration) {
	server.mu.Lock()
	srv := server.srv
	server.mu.Unlock()
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		server.Log.Error("Server shutdown error", zap.Error(err))
		return
	}
	server.Log.Info("Server stopped gracefully")
}

func (server *Server) closeBackends() {
	server.mu.Lock()
	closers := server.closers
	server.closers = nil
	server.mu.Unlock()

	for _, c := range closers {
		c()
	}
	_ = server.Log.Sync()
}

type selectedSlot struct {
	name  string
	slot  storage.Slot
	tab   *browser.Tab
	close func() bool
}

// newSlot builds the configured backend, falling back to memory when it
// cannot be reached. The caller owns the returned close func.
func (server *Server) newSlot() selectedSlot {
	opt := server.option
	l := server.Log

	switch opt.Storage() {
	case config.StorageSQLite:
		if kp := sqlitekeeper.NewSQLiteKeeper(server.ctx, opt.SQLitePath, l); kp != nil {
			return selectedSlot{name: config.StorageSQLite, slot: kp, close: kp.Close}
		}
	case config.StoragePostgres:
		if err := dbkeeper.Migrate(opt.DataBaseDSN(), ""); err != nil {
			l.Error("Migration failed", zap.Error(err))
			break
		}
		if kp := dbkeeper.NewDBKeeper(server.ctx, opt.DataBaseDSN, l); kp != nil {
			return selectedSlot{name: config.StoragePostgres, slot: kp, close: kp.Close}
		}
	case config.StorageRedis:
		if kp := rediskeeper.NewRedisKeeper(opt.RedisAddr, l); kp != nil {
			if kp.Ping(server.ctx) {
				return selectedSlot{name: config.StorageRedis, slot: kp, close: kp.Close}
			}
			kp.Close()
		}
	case config.StorageBrowser:
		tab, err := browser.Open(server.ctx, browser.Config{
			DebuggerURL: opt.DebuggerURL(),
			PageURL:     opt.BrowserURL(),
			Headless:    true,
		}, l)
		if err == nil {
			return selectedSlot{name: config.StorageBrowser, slot: tab.LocalStorage(), tab: tab, close: tab.Close}
		}
		l.Error("Browser storage unavailable", zap.Error(err))
	case config.StorageMemory:
	default:
		l.Warn("Unknown storage backend", zap.String("storage", opt.Storage()))
	}

	if opt.Storage() != config.StorageMemory {
		l.Warn("Falling back to memory storage", zap.String("requested", opt.Storage()))
	}
	return selectedSlot{name: config.StorageMemory, slot: storage.NewMemoryStorage(l)}
}
