package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/joho/godotenv"
	"github.com/umputun/go-flags"
	"golang.org/x/sync/errgroup"

	"jobharvest/internal/campaign"
	"jobharvest/internal/collect"
	"jobharvest/internal/config"
	"jobharvest/internal/domain"
	"jobharvest/internal/fetch"
	"jobharvest/internal/scheduler"
	"jobharvest/internal/scrape/indeed"
	"jobharvest/internal/store"
)

type options struct {
	Config     string `short:"c" long:"config" env:"HARVEST_CONFIG" default:"config.yml" description:"config file"`
	Store      string `short:"s" long:"store" env:"HARVEST_STORE" description:"jobs table file (.csv, .db, .sqlite, .xlsx), overrides config"`
	InitConfig bool   `long:"init-config" env:"HARVEST_INIT_CONFIG" description:"write the default config file if it does not exist"`
	Dbg        bool   `long:"dbg" env:"HARVEST_DEBUG" description:"debug mode"`

	Args struct {
		Title string `positional-arg-name:"job-title" description:"job title to search for"`
	} `positional-args:"yes" required:"yes"`
}

var revision = "unknown"

func main() {
	fmt.Printf("harvest %s\n", revision)

	// .env is optional; values there feed the env-backed options below
	_ = godotenv.Load()

	var opts options
	rest, err := flags.Parse(&opts)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if len(rest) > 0 {
		fmt.Fprintf(os.Stderr, "expected one job title, got %d args; quote multi-word titles\n", len(rest)+1)
		os.Exit(2)
	}
	setupLog(opts.Dbg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("[WARN] interrupted, categories saved before the interruption are kept")
		}
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Printf("[INFO] done, added=%d total=%d categories=%d", res.Added(), res.Total, len(res.Categories))
}

func run(ctx context.Context, opts options) (campaign.Result, error) {
	if opts.InitConfig {
		created, err := config.EnsureUserConfig(opts.Config)
		if err != nil {
			return campaign.Result{}, fmt.Errorf("config bootstrap failed: %w", err)
		}
		if created {
			log.Printf("[INFO] wrote default config to %s", opts.Config)
		}
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return campaign.Result{}, err
	}

	unlock, err := store.Lock(cfg.Store.Path)
	if err != nil {
		return campaign.Result{}, err
	}
	defer func() {
		if err := unlock(); err != nil {
			log.Printf("[WARN] unlock %s: %v", cfg.Store.Path, err)
		}
	}()

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return campaign.Result{}, err
	}
	defer st.Close()

	var added atomic.Int64
	collector := collect.New(
		fetch.NewHTTP(cfg.HTTP.Timeout, cfg.HTTP.UserAgent),
		indeed.NewExtractor(),
		indeed.Search{
			BaseURL:  cfg.Search.BaseURL,
			ViewURL:  cfg.Search.ViewURL,
			Location: cfg.Search.Location,
			Radius:   cfg.Search.Radius,
			Sort:     cfg.Search.Sort,
		},
	)
	collector.OnRecord = func(domain.Record) { added.Add(1) }

	driver := campaign.New(collector, st, cfg.Salary.Labels())
	log.Printf("[INFO] harvesting %q into %s, labels=%v", opts.Args.Title, st.Path(), cfg.Salary.Labels())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	var res campaign.Result
	g.Go(func() error {
		defer cancel()
		var err error
		res, err = driver.Run(gctx, opts.Args.Title)
		return err
	})
	g.Go(func() error {
		scheduler.Every(gctx, time.Minute, "progress", func(context.Context) error {
			log.Printf("[INFO] still running, added=%d", added.Load())
			return nil
		})
		return nil
	})

	err = g.Wait()
	return res, err
}

func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", opts.Config, err)
	}
	if opts.Store != "" {
		cfg.Store.Path = opts.Store
	}

	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		log.Printf("[WARN] config: %s", w)
	}
	if err := v.Err(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setupLog(dbg bool) {
	if dbg {
		log.Setup(log.Debug, log.Msec, log.CallerFunc, log.CallerPkg, log.CallerFile)
		return
	}
	log.Setup(log.Msec)
}
