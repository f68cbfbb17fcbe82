package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amazonprice/internal/api"
	"amazonprice/internal/config"
	"amazonprice/internal/function"
	"amazonprice/internal/logger"
	"amazonprice/internal/lookup"
	"amazonprice/internal/scheduler"
	"amazonprice/internal/task"
	"amazonprice/internal/tasks"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// options 只在单次查询模式下使用的命令行参数
type options struct {
	configDir string
	keywords  string
	item      string
	ean       string
	price     string
	index     string
	node      string
	page      int
	limit     int
	one       bool
	images    bool
	watch     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, opts := newFlagSet(stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	// 加载配置（命令行参数优先）
	cfg, err := config.Load(opts.configDir, flags)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// 初始化日志
	zapLogger, err := logger.NewLogger(cfg.Logger, logger.Options{
		Console: stderr,
		Fields:  []zap.Field{zap.String("app", cfg.App.Name)},
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer zapLogger.Sync()

	metrics := api.NewMetrics()
	client := api.NewClient(api.Config{
		Scheme:  cfg.PAAPI.Scheme,
		Timeout: cfg.PAAPI.TimeoutDuration,
		Metrics: metrics,
		Logger:  zapLogger.Named("paapi"),
	})

	if cfg.Server.Enabled || opts.watch {
		if err := serve(cfg, opts, client, metrics, zapLogger); err != nil {
			zapLogger.Error("application stopped with error", zap.Error(err))
			return 1
		}
		return 0
	}

	if opts.keywords == "" && opts.item == "" && opts.ean == "" {
		fmt.Fprintln(stderr, "one of --keywords, --item or --ean is required")
		flags.PrintDefaults()
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := newQuery(cfg, opts, client).Run(ctx)
	if err != nil {
		zapLogger.Error("query failed", zap.Error(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := printResult(stdout, result); err != nil {
		fmt.Fprintf(stderr, "Failed to write result: %v\n", err)
		return 1
	}
	return 0
}

func newFlagSet(output io.Writer) (*pflag.FlagSet, *options) {
	opts := &options{}
	flags := pflag.NewFlagSet("amazon-price", pflag.ContinueOnError)
	flags.SetOutput(output)

	// 凭证与站点，绑定到配置键
	flags.StringP("id", "i", "", "API access key id")
	flags.StringP("secret", "s", "", "API secret key")
	flags.StringP("associate", "a", "", "associate tag")
	flags.StringP("country", "c", "", "country code or store name, e.g. DE or germany")
	flags.String("timeout", "", "request timeout, e.g. 30s")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Bool("serve", false, "run the HTTP server")
	flags.Int("port", 0, "HTTP server port")

	// 单次查询
	flags.StringVarP(&opts.keywords, "keywords", "k", "", "keywords to search")
	flags.StringVar(&opts.item, "item", "", "look up a single item by its identifier")
	flags.StringVar(&opts.ean, "ean", "", "look up a single item by EAN barcode")
	flags.StringVarP(&opts.price, "price", "p", "", "price range in whole units, e.g. 10..20")
	flags.StringVar(&opts.index, "index", "", "search index, default All")
	flags.StringVar(&opts.node, "node", "", "browse node filter")
	flags.IntVar(&opts.page, "page", 0, "result page")
	flags.IntVarP(&opts.limit, "limit", "l", 0, "limit number of results")
	flags.BoolVarP(&opts.one, "one", "1", false, "only return one result")
	flags.BoolVar(&opts.images, "images", false, "include image sets")

	flags.BoolVar(&opts.watch, "watch", false, "run the configured watch jobs")
	flags.StringVar(&opts.configDir, "config", "", "directory containing config.yaml")

	return flags, opts
}

func newQuery(cfg *config.Config, opts *options, executor api.Executor) *lookup.Query {
	input := lookup.ByKeywords(opts.keywords)
	switch {
	case opts.item != "":
		input = lookup.ByID(opts.item)
	case opts.ean != "":
		input = lookup.ByEAN(opts.ean)
	}

	q := lookup.New(input, executor,
		lookup.WithCredentials(cfg.PAAPI.Credentials()),
		lookup.WithCountry(cfg.PAAPI.Country),
	).
		Price(opts.price).
		SearchIndex(opts.index).
		BrowseNode(opts.node).
		Limit(opts.limit).
		One(opts.one).
		LoadImages(opts.images)

	if opts.page > 0 {
		q.Page(opts.page)
	}
	return q
}

func printResult(w io.Writer, result lookup.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result.Value())
}

// serve 运行监控任务和（可选的）HTTP 服务器，直到收到退出信号
func serve(cfg *config.Config, opts *options, client *api.Client, metrics *api.Metrics, zapLogger *zap.Logger) error {
	zapLogger.Info("application starting",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
	)

	// 1. 注册监控任务
	registry := task.NewRegistry()
	if opts.watch {
		if err := registerWatchTasks(registry, cfg, client, zapLogger); err != nil {
			return err
		}
	}

	// 2. 创建并启动调度器
	location, err := cfg.GetLocation()
	if err != nil {
		zapLogger.Warn("failed to load location, using UTC", zap.Error(err))
		location = time.UTC
	}
	defaultTimeout, err := cfg.GetDefaultTimeout()
	if err != nil {
		zapLogger.Warn("failed to parse default timeout, using 2m", zap.Error(err))
		defaultTimeout = 2 * time.Minute
	}

	sched := scheduler.NewScheduler(scheduler.Config{
		Logger:         zapLogger.Named("scheduler"),
		Registry:       registry,
		DefaultTimeout: defaultTimeout,
		Location:       location,
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// 3. 启动 HTTP 服务器
	server := function.NewServer(&cfg.Server, zapLogger.Named("http"), &function.Dependencies{
		Config:   cfg,
		Logger:   zapLogger,
		Executor: client,
		Metrics:  metrics,
		Results:  sched.Results,
	})
	serverErr := server.Start()

	// 4. 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		zapLogger.Info("received signal, shutting down...", zap.String("signal", sig.String()))
	case runErr = <-serverErr:
	}

	// 5. 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		zapLogger.Error("error stopping HTTP server", zap.Error(err))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		zapLogger.Error("error stopping scheduler", zap.Error(err))
	}

	zapLogger.Info("application stopped")
	return runErr
}

// registerWatchTasks 按配置注册监控任务
func registerWatchTasks(registry *task.Registry, cfg *config.Config, executor api.Executor, zapLogger *zap.Logger) error {
	for _, job := range cfg.Watch {
		t := tasks.NewWatchTask(tasks.WatchConfig{
			Job:         job,
			Executor:    executor,
			Credentials: cfg.PAAPI.Credentials(),
			Country:     cfg.PAAPI.Country,
			Logger:      zapLogger.Named("watch"),
		})
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("failed to register watch task %q: %w", job.Name, err)
		}
	}
	return nil
}
