package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/belyf/users-contract-tests/config"
	"github.com/belyf/users-contract-tests/framework"
	"github.com/belyf/users-contract-tests/framework/mockserver"
	"github.com/belyf/users-contract-tests/logging"
	"github.com/belyf/users-contract-tests/mockusers"
	"github.com/belyf/users-contract-tests/userstests"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(2)
	}

	cfg, err := config.Load(params.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		os.Exit(1)
	}
	if err := params.applyTo(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid parameters: %s\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewZap(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log settings: %s\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(gin.ReleaseMode)
	if params.serve {
		if err := serve(cfg, logger); err != nil {
			logger.Error("mock_serve_failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}
	if !runTests(&params, cfg, logger) {
		os.Exit(1)
	}
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	debugLogger := logging.ZapPrintf(logger)
	server := mockserver.New(
		mockserver.WithAddr(cfg.Mock.Addr),
		mockserver.WithLogger(logger),
		mockserver.WithDebugLogger(debugLogger),
	)
	transformer := mockusers.NewTransformer(nil,
		mockusers.WithResourcePath(cfg.Service.ResourcePath),
		mockusers.WithLogger(debugLogger),
	)
	mockusers.Install(server, transformer)
	seed := transformer.ResetWithSeed(mockusers.UserFromParams(userstests.SeedParams()))
	if err := server.Start(); err != nil {
		return err
	}
	logger.Info("mock_users_ready",
		zap.String("base_url", server.BaseURL()),
		zap.String("resource_path", cfg.Service.ResourcePath),
		zap.String("seed_id", seed.ID))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting_down")
	server.Stop()
	return nil
}

func runTests(params *commandParams, cfg *config.Config, logger *zap.Logger) bool {
	var backend userstests.Backend
	if cfg.Mock.Enabled {
		logger.Info("using_mock_service", zap.String("addr", cfg.Mock.Addr))
		backend = userstests.NewMockBackend(userstests.MockOptions{
			Addr:         cfg.Mock.Addr,
			APIKey:       cfg.Service.APIKey,
			ResourcePath: cfg.Service.ResourcePath,
			Timeout:      cfg.HTTP.Timeout,
			Logger:       logger,
		})
	} else {
		logger.Info("using_live_service", zap.String("base_url", cfg.Service.BaseURL))
		backend = userstests.NewLiveBackend(userstests.LiveOptions{
			BaseURL:      cfg.Service.BaseURL,
			APIKey:       cfg.Service.APIKey,
			ResourcePath: cfg.Service.ResourcePath,
			Timeout:      cfg.HTTP.Timeout,
		})
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := userstests.RunTestSuite(backend, params.filters.AsFilter, testLogger)

	fmt.Println()
	printResults(os.Stdout, results)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To rerun only the failed tests:")
		fmt.Printf("  %s\n", params.rerunCommand(os.Args[0], results.Failures))
		return false
	}
	return true
}
