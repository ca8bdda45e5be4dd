package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoArmGo/TravelAlbum/internal/config"
	"github.com/GoArmGo/TravelAlbum/internal/usecase"
	"github.com/jmoiron/sqlx"
)

// App держит собранные зависимости и управляет жизненным циклом
// двух HTTP-серверов: публичной галереи и админки.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlx.DB
	album  usecase.AlbumUseCase
	auth   usecase.AuthUseCase
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	db *sqlx.DB,
	album usecase.AlbumUseCase,
	auth usecase.AuthUseCase,
) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		db:     db,
		album:  album,
		auth:   auth,
	}
}

// LoggerIns возвращает основной логгер приложения.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает оба сервера и блокируется до сигнала завершения.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	publicSrv := a.newServer(a.cfg.ServerPort, a.publicRouter())
	adminSrv := a.newServer(a.cfg.AdminPort, a.adminRouter())

	errCh := make(chan error, 2)
	a.serve("public", publicSrv, errCh)
	a.serve("admin", adminSrv, errCh)

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.logger.Error("server failed, stopping the rest", "error", err)
		runErr = fmt.Errorf("сервер завершился с ошибкой: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := publicSrv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := adminSrv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if err := a.Shutdown(); err != nil {
		a.logger.Error("failed to close resources", "error", err)
	}

	if runErr != nil {
		return runErr
	}

	a.logger.Info("servers stopped gracefully")
	return nil
}

func (a *App) newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: handler,
	}
}

func (a *App) serve(name string, srv *http.Server, errCh chan<- error) {
	go func() {
		a.logger.Info("server started", "name", name, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия БД: %w", err)
		}
	}
	return nil
}
