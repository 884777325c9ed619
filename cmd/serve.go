/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

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

	"github.com/gregplaysguitar/localstack/internal/api"
	"github.com/gregplaysguitar/localstack/internal/config"
	"github.com/gregplaysguitar/localstack/internal/logging"
	"github.com/gregplaysguitar/localstack/internal/provision"
	"github.com/gregplaysguitar/localstack/internal/service/kinesis"
	"github.com/gregplaysguitar/localstack/internal/service/s3"
	"github.com/gregplaysguitar/localstack/internal/service/sns"
	"github.com/gregplaysguitar/localstack/internal/service/sqs"
	"github.com/gregplaysguitar/localstack/internal/stack"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the emulator's HTTP gateway",
	Long: `Start the CloudFormation emulator and serve its stack API over HTTP.

The gateway listens on LOCALSTACK_BIND_ADDRESS (default 127.0.0.1:4566) and
accepts the standard stack operations: CreateStack, UpdateStack, DeleteStack,
CancelUpdateStack, ValidateTemplate, DescribeStacks, DescribeStackResources,
ListStackResources and DescribeStackEvents.

All state is held in memory. Stopping the process discards every stack and
every emulated resource.

Configuration is read from LOCALSTACK_* environment variables. The --bind
flag overrides the configured listen address.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bind, _ := cmd.Flags().GetString("bind")
		return runServer(cmd.Context(), bind)
	},
}

// runServer wires the engine together and serves until interrupted
func runServer(ctx context.Context, bindOverride string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if bindOverride != "" {
		cfg.BindAddress = bindOverride
	}

	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	registry := provision.DefaultRegistry(provision.Services{
		SQS:     sqs.New(cfg.AccountID, cfg.Region, cfg.Endpoint()),
		SNS:     sns.New(cfg.AccountID, cfg.Region),
		S3:      s3.New(),
		Kinesis: kinesis.New(cfg.AccountID, cfg.Region),
	})

	manager := stack.NewManager(registry, stack.Options{
		AccountID:   cfg.AccountID,
		Region:      cfg.Region,
		Parallelism: cfg.Parallelism,
		PageSize:    cfg.PageSize,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:    cfg.BindAddress,
		Handler: api.NewServer(api.New(manager), logger).Handler(),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", "address", cfg.BindAddress, "region", cfg.Region, "account", cfg.AccountID)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("gateway failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func init() {
	serveCmd.Flags().String("bind", "", "listen address (overrides LOCALSTACK_BIND_ADDRESS)")
	rootCmd.AddCommand(serveCmd)
}
