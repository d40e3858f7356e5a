package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spigell/job-extractor/internal/extract"
	"github.com/spigell/job-extractor/internal/fetch"
	"github.com/spigell/job-extractor/internal/logger"
	"github.com/spigell/job-extractor/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultListen = ":8000"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the job-extractor HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", defaultListen, "address for the HTTP server")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-extractor", zap.String("version", version))

	conn, err := buildConnector(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the extractor connector", zap.Error(err))
	}

	if err := conn.Initialize(ctx); err != nil {
		logger.Fatal("initializing the extractor connector", zap.Error(err))
	}

	service := extract.New(conn, logger)
	fetcher := fetch.New(0, logger)

	listen := viper.GetString("listen")
	if listen == "" {
		listen = defaultListen
	}

	httpServer := &http.Server{
		Addr:              listen,
		Handler:           server.New(service, fetcher, logger, version).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down", zap.String("reason", "signal received"))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http server shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", listen))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server", zap.Error(err))
	}

	if err := service.Cleanup(); err != nil {
		logger.Warn("connector cleanup", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
