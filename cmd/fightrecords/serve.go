package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pevans/fightrecords/store"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--addr <host:port>]",
	Short: "Serves stored runs, bouts and fighters over HTTP.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		addr := fileConfig.API.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		recordStore, err := store.NewRecordStore(fileConfig.Storage.Records.DSN)
		if err != nil {
			return fmt.Errorf("failed to open record store: %w", err)
		}
		defer recordStore.Close()

		server := &http.Server{
			Addr:    addr,
			Handler: store.NewAPIServer(recordStore).SetupRouter(),
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()

		slog.InfoContext(ctx, "starting read API", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		slog.InfoContext(ctx, "read API stopped")
		return nil
	},
}
