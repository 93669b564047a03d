package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"panelshell/internal/config"
	"panelshell/internal/control"
	"panelshell/internal/logging"
	"panelshell/internal/resource"
	"panelshell/internal/trace"
	"panelshell/internal/ui"
)

type rootOptions struct {
	configPath string
	logLevel   string
	control    bool
	addr       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "panelshell",
		Short:         "A terminal shell of prioritized overlay panels",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts)
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default: .panelshell/config.yaml, then ~/.config/panelshell/config.yaml)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "override log.level")
	cmd.Flags().BoolVar(&opts.control, "control", false, "enable the control server")
	cmd.PersistentFlags().StringVar(&opts.addr, "addr", "", "control server address (overrides control.addr)")

	cmd.AddCommand(newInitCmd(opts), newPanelsCmd(opts), newSendCmd(opts), newStatusCmd(opts))
	return cmd
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, _, err := config.Load(opts.configPath)
	return cfg, err
}

func controlAddr(cfg config.Config, opts *rootOptions) string {
	if opts.addr != "" {
		return opts.addr
	}
	return cfg.Control.Addr
}

func runShell(cmd *cobra.Command, opts *rootOptions) error {
	cfg, v, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.control {
		cfg.Control.Enabled = true
	}
	cfg.Control.Addr = controlAddr(cfg, opts)

	logCfg := logging.ApplyEnv(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	log, closeLog, err := logging.Open(logCfg)
	if err != nil {
		return err
	}
	defer closeLog()
	log.Info().Str("version", version).Str("config", v.ConfigFileUsed()).Int("panels", len(cfg.Panels)).Msg("starting")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	ctx = logging.WithContext(ctx, log)

	exporter, err := trace.NewOTLPExporter(ctx, trace.ExporterConfig{
		Enabled:     cfg.Tracing.Enabled,
		Exporter:    cfg.Tracing.Exporter,
		Endpoint:    cfg.Tracing.Endpoint,
		File:        cfg.Tracing.File,
		ServiceName: cfg.Tracing.ServiceName,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		log.Warn().Err(err).Msg("tracing export disabled")
		exporter = nil
	}
	rec := trace.NewRecorder(trace.DefaultHistory, exporter)
	ctx = logging.WithSession(ctx, rec.Trace().ID)
	log = *logging.FromContext(ctx)

	loader := resource.New(resource.Options{
		Dir:           cfg.Resources.Dir,
		CacheTTL:      cfg.Resources.CacheTTL,
		MarkdownWidth: cfg.Resources.MarkdownWidth,
		Style:         markdownStyle(),
		Logger:        log,
	})

	board := &control.Board{}
	shell, err := ui.NewShell(ui.Options{
		Config:   cfg,
		Loader:   loader,
		Recorder: rec,
		Board:    board,
		Logger:   log,
	})
	if err != nil {
		return err
	}
	defer shell.Close()

	g, gctx := errgroup.WithContext(ctx)
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(gctx)}
	if cfg.UI.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(shell, progOpts...)

	if cfg.Control.Enabled {
		srv := control.NewServer(cfg.Control.Addr, control.SinkFunc(func(c control.Command) {
			go p.Send(ui.ControlMsg{Command: c})
		}), board, log)
		g.Go(func() error { return srv.Serve(gctx) })
	}
	if cfg.Resources.Watch {
		g.Go(func() error {
			watchResources(logging.WithComponent(gctx, "resource-watch"), loader, p)
			return nil
		})
	}
	config.Watch(v, func(c config.Config) {
		log.Info().Int("panels", len(c.Panels)).Msg("config changed")
		p.Send(ui.ConfigReloadedMsg{Config: c})
	}, func(err error) {
		log.Warn().Err(err).Msg("config reload rejected")
		p.Send(ui.StatusMsg{Text: "config: " + err.Error(), Error: true})
	})

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
			return nil
		}
		return err
	})

	runErr := g.Wait()

	finishCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := rec.Finish(finishCtx); err != nil {
		log.Warn().Err(err).Msg("exporting session trace")
	}
	if runErr != nil {
		log.Error().Err(runErr).Msg("shell stopped")
		return fmt.Errorf("running shell: %w", runErr)
	}
	log.Info().Msg("shell stopped")
	return nil
}

func watchResources(ctx context.Context, loader *resource.Loader, p *tea.Program) {
	log := logging.FromContext(ctx)
	err := loader.Watch(ctx, resource.DefaultDebounce, func(ids []string) {
		log.Debug().Strs("ids", ids).Msg("resources changed")
		p.Send(ui.ResourcesChangedMsg{IDs: ids})
	})
	if err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Str("dir", loader.Root()).Msg("resource watch stopped")
	}
}

// markdownStyle picks a glamour style for the terminal background. It
// runs before the program starts so the background query does not race
// with the input reader.
func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
