package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"harmoniq/internal/api"
	"harmoniq/internal/catalog"
	"harmoniq/internal/config"
	"harmoniq/internal/eventbus"
	"harmoniq/internal/groups"
	"harmoniq/internal/logging"
	"harmoniq/internal/scenarios"
	"harmoniq/internal/selection"
	"harmoniq/internal/synchronizer"
	"harmoniq/internal/ui"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	apiURL     string
	configPath string
	debounce   time.Duration
	logLevel   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "harmoniq",
		Short:         "Pick the infrastructures of an energy planning group",
		Version:       api.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("harmoniq needs an interactive terminal")
			}
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.apiURL, "api", "", "backend base URL (overrides config and "+config.EnvAPIURL+")")
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config.toml")
	flags.DurationVar(&opts.debounce, "debounce", 0, "delay before a selection change is saved")
	flags.StringVar(&opts.logLevel, "log-level", "", "trace, debug, info, warn or error")

	return cmd
}

// loadConfig reads the config file, then env, then flags
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	svc := config.NewConfigService(opts.configPath)

	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = svc.LoadFromPath(opts.configPath)
	} else {
		cfg, err = svc.Load()
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	if cmd.Flags().Changed("api") {
		cfg.API.BaseURL = opts.apiURL
	}
	if cmd.Flags().Changed("debounce") {
		cfg.Sync.DebounceMS = int(opts.debounce.Milliseconds())
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(parent context.Context, cfg *config.Config) error {
	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logging.Component(logger, "main")

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New(eventbus.WithLogger(logging.Component(logger, "eventbus")))
	defer bus.Close()

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithRetryMax(cfg.API.RetryMax),
		api.WithLogger(logging.Component(logger, "api")),
	)
	if err != nil {
		return err
	}

	store := selection.NewStore(selection.WithLogger(logging.Component(logger, "selection")))
	session := synchronizer.NewSession(store, client.Groups(),
		synchronizer.WithDelay(cfg.Debounce()),
		synchronizer.WithBus(bus),
		synchronizer.WithSimulations(client.Scenarios()),
		synchronizer.WithLogger(logging.Component(logger, "synchronizer")),
	)
	defer session.Close()

	loader := catalog.NewLoader(client.Catalog(), store,
		catalog.WithBus(bus),
		catalog.WithEndpoints(cfg.Endpoint),
		catalog.WithConcurrency(cfg.Catalog.Concurrency),
		catalog.WithLogger(logging.Component(logger, "catalog")),
	)
	defer loader.Stop()

	model := ui.NewModel(ui.Deps{
		Context:   ctx,
		Config:    cfg,
		Session:   session,
		Loader:    loader,
		Groups:    groups.NewDirectory(client.Groups(), bus, logging.Component(logger, "groups")),
		Scenarios: scenarios.NewDirectory(client.Scenarios(), bus, logging.Component(logger, "scenarios")),
		Log:       logging.Component(logger, "ui"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	unsubscribe := bus.SubscribeAll(func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	defer unsubscribe()

	log.WithFields(logrus.Fields{"api": cfg.API.BaseURL, "debounce": cfg.Debounce()}).Info("starting")
	_, runErr := p.Run()

	// the model flushes on q; this covers signals and ctrl+c
	if cfg.UISettings.AutosaveOnExit {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := session.Flush(flushCtx); err != nil {
			log.WithError(err).Error("final save failed")
			fmt.Fprintln(os.Stderr, "harmoniq: selection not saved:", err)
		}
		flushCancel()
	}

	if runErr != nil && ctx.Err() == nil {
		log.WithError(runErr).Error("program exited with error")
		return runErr
	}
	log.Info("exited")
	return nil
}
