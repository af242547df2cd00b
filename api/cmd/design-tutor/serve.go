package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"design-tutor/api/internal/handle"
	"design-tutor/api/internal/httpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var history handle.History
	if a.repo != nil {
		history = a.repo
	}

	gin.SetMode(gin.ReleaseMode)
	h := handle.New(a.svc, history, a.log, a.cfg.ToolName)
	router := httpserver.NewRouter(h, a.cfg.ToolName, a.log)
	srv := httpserver.New(a.cfg.Addr(), router, a.cfg.LLMTimeout, a.log)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Starting server", zap.String("app", a.cfg.AppName), zap.String("addr", a.cfg.Addr()))
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	a.log.Info("Server exited")
	return nil
}
