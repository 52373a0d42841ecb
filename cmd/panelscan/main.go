package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inkstone/panelscan/internal/config"
	"github.com/inkstone/panelscan/internal/ocr"
	"github.com/inkstone/panelscan/internal/pipeline"
	"github.com/inkstone/panelscan/internal/server"
	"github.com/inkstone/panelscan/internal/tm"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("panelscan %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("panelscan - MCP server for comic-panel text recognition and translation-memory matching")
			fmt.Println()
			fmt.Println("Usage: panelscan [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PANELSCAN_LOG_LEVEL       debug|info|warn|error (default info)")
			fmt.Println("  PANELSCAN_POOL_SIZE       Bounded recognition concurrency (default 4)")
			fmt.Println("  PANELSCAN_LANG_PRIORITY   Default-engine fallback list, e.g. 'kor+jpn+eng,eng'")
			fmt.Println("  PANELSCAN_DATABASE_URL    Optional PostgreSQL URL for the TM corpus provider")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "panelscan: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol; all logging goes to stderr.
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()
	log := logger.Sugar()

	registry, err := ocr.NewRegistry(ocr.RegistryOptions{Priority: cfg.LangPriority})
	if err != nil {
		log.Fatalw("engine initialization failed", "error", err)
	}

	var corpus tm.CorpusProvider
	if cfg.DatabaseURL != "" {
		provider, err := tm.NewPostgresProvider(cfg.DatabaseURL)
		if err != nil {
			log.Fatalw("translation-memory database unavailable", "error", err)
		}
		defer provider.Close()
		corpus = provider
	}

	svc, err := pipeline.New(pipeline.Options{
		Registry: registry,
		PoolSize: cfg.PoolSize,
		Corpus:   corpus,
		Logger:   log,
	})
	if err != nil {
		log.Fatalw("pipeline initialization failed", "error", err)
	}
	defer svc.Close()

	log.Infow("panelscan starting",
		"version", Version,
		"default_engine", registry.Default().Languages(),
		"pool_size", cfg.PoolSize,
	)

	srv := server.New(svc, log)
	if err := srv.Run(); err != nil {
		log.Fatalw("server error", "error", err)
	}
}

// newLogger builds a console zap logger writing to stderr.
func newLogger(level string) *zap.Logger {
	zapLevel := zapcore.InfoLevel
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		zap.NewAtomicLevelAt(zapLevel),
	))
}
