package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"call_analysis/internal/app/di"
	"call_analysis/internal/app/router"
	"call_analysis/internal/feature/callanalysis/adapters/csvlog"
	callanalysishandler "call_analysis/internal/feature/callanalysis/transport/handler"
	"call_analysis/internal/feature/callanalysis/usecase"
	infradb "call_analysis/internal/platform/db"
	"call_analysis/internal/platform/http/handler"
	"call_analysis/internal/platform/logger"
	infraredis "call_analysis/internal/platform/redis"
)

// options はコマンドライン引数です。
type options struct {
	host    string
	port    int
	test    bool
	csvPath string
}

func parseFlags(args []string, csvDefault string) (options, error) {
	var o options
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&o.host, "host", "127.0.0.1", "listen host")
	fs.IntVar(&o.port, "port", 5000, "listen port")
	fs.BoolVar(&o.test, "test", false, "analyze the sample transcript, save it and exit (no server)")
	fs.StringVar(&o.csvPath, "csv", csvDefault, "CSV file the analyses are appended to")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.port <= 0 || o.port > 65535 {
		return options{}, fmt.Errorf("invalid port %d", o.port)
	}
	return o, nil
}

// flagExitCode は引数解析エラーの終了コードです。-h / --help は正常終了とします。
func flagExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	logger.Setup(logger.LoadConfig())

	opts, err := parseFlags(os.Args[1:], csvlog.LoadConfig().Path)
	if err != nil {
		os.Exit(flagExitCode(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.test {
		err = runSample(ctx, opts.csvPath, os.Stdout)
	} else {
		err = serve(ctx, opts)
	}
	if err != nil {
		slog.Error("call analysis exited with error", "error", err)
		os.Exit(1)
	}
}

// runSample は通話例を1件分析してCSVへ保存し、結果を表示します。
func runSample(ctx context.Context, csvPath string, out io.Writer) error {
	analyzer, err := di.NewAnalyzer(ctx, di.LoadAnalyzerConfig(), nil)
	if err != nil {
		return err
	}
	uc := usecase.NewCallAnalysisUsecase(analyzer, csvlog.NewLogger(csvlog.Config{Path: csvPath}), nil)

	fmt.Fprintln(out, "Running test with sample transcript:")
	fmt.Fprintln(out, callanalysishandler.SampleTranscript)

	record, err := uc.AnalyzeCall(ctx, callanalysishandler.SampleTranscript)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Summary:", record.Summary)
	fmt.Fprintln(out, "Sentiment:", record.Sentiment)
	fmt.Fprintf(out, "Transcript analyzed and saved to %s\n", csvPath)
	return nil
}

func serve(ctx context.Context, opts options) error {
	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig()); err != nil {
		if !errors.Is(err, infraredis.ErrNotConfigured) {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		}
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// db
	var db *gorm.DB
	if tmp, err := infradb.Open(infradb.LoadConfigFromEnv()); err != nil {
		if !errors.Is(err, infradb.ErrDisabled) {
			slog.Warn("history database unavailable. Running without /records.", "error", err)
		}
	} else {
		db = tmp
	}

	analyzer, err := di.NewAnalyzer(ctx, di.LoadAnalyzerConfig(), rdb)
	if err != nil {
		return err
	}

	// Usecase
	uc := usecase.NewCallAnalysisUsecase(
		analyzer,
		di.NewRecordLogger(csvlog.Config{Path: opts.csvPath}),
		di.NewRecordHistory(db),
	)

	// Handler
	callH := callanalysishandler.NewCallAnalysisHandler(uc)

	// ルータ生成
	r := router.NewRouter(callH, router.Options{
		AllowedOrigins: router.ParseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS")),
		ReadyChecks:    readyChecks(rdb, db),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(opts.host, strconv.Itoa(opts.port)),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("call analysis server listening", "addr", srv.Addr, "csv", opts.csvPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func readyChecks(rdb *redisv9.Client, db *gorm.DB) map[string]handler.Check {
	checks := map[string]handler.Check{}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if db != nil {
		checks["db"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	return checks
}
