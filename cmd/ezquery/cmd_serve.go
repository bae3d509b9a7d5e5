package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhath/ezquery/internal/gateway"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(false, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Remote != "" {
		return fmt.Errorf("serve runs against a local profile; --remote is not supported")
	}
	svc, label, err := a.localService()
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.GatewayAddr
	}

	srv := gateway.New(gateway.Config{
		Executor:     svc,
		Logger:       a.logger,
		Addr:         addr,
		WriteTimeout: a.cfg.QueryTimeout.Duration + 5*time.Second,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	fmt.Fprintf(cmd.ErrOrStderr(), "serving %s on %s\n", label, addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
