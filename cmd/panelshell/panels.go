package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"panelshell/internal/config"
	"panelshell/internal/ui/textutil"
)

func newPanelsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panels",
		Short: "List configured panels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			printPanels(cmd.OutOrStdout(), cfg.Panels)
			return nil
		},
	}
	cmd.AddCommand(newPanelsAddCmd(opts))
	return cmd
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func printPanels(w io.Writer, panels []config.PanelConfig) {
	cols := []int{12, 20, 4, 8, 6}
	row := func(cells ...string) string {
		var b strings.Builder
		for i, c := range cells {
			if i < len(cols) {
				c = textutil.PadRight(textutil.Truncate(c, cols[i]), cols[i])
			}
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(c)
		}
		return strings.TrimRight(b.String(), " ")
	}
	fmt.Fprintln(w, headerStyle.Render(row("NAME", "TITLE", "KEY", "PRIORITY", "QUEUE", "CONTENT")))
	for _, p := range panels {
		queue := "no"
		if p.Suppressible {
			queue = "yes"
		}
		fmt.Fprintln(w, row(p.Name, p.DisplayTitle(), p.Key, p.PanelPriority().String(), queue, describeContent(p.Content)))
	}
}

func describeContent(c config.ContentConfig) string {
	switch c.Type {
	case config.ContentResource:
		return "resource " + c.Resource
	case config.ContentCommand:
		return "command " + c.Command
	}
	if c.Text == "" {
		return "text"
	}
	return "text " + textutil.Truncate(strings.ReplaceAll(c.Text, "\n", " "), 30)
}

type addOptions struct {
	title        string
	key          string
	priority     string
	suppressible bool
	text         string
	resource     string
	command      string
	timeout      time.Duration
}

func newPanelsAddCmd(opts *rootOptions) *cobra.Command {
	a := &addOptions{}
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a panel to the config file",
		Long: `Add a panel to the config file, creating the file if needed.

Exactly one of --text, --resource or --command sets the content.

Examples:
  panelshell panels add todo --key t --resource todo.md
  panelshell panels add load --key l --priority high --command uptime`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := a.panel(args[0])
			if err != nil {
				return err
			}
			path := config.Resolve(opts.configPath)
			if path == "" {
				path = defaultConfigPath(opts)
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			cfg, _, err := config.Load(path)
			if err != nil {
				return err
			}
			panels := append(cfg.Panels, pc)
			if err := config.ValidatePanels(panels); err != nil {
				return err
			}
			if err := config.SavePanels(path, panels); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", pc.Name, path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&a.title, "title", "", "panel title (default: name)")
	f.StringVarP(&a.key, "key", "k", "", "key bound under SPC p")
	f.StringVarP(&a.priority, "priority", "p", "medium", "low, medium or high")
	f.BoolVarP(&a.suppressible, "suppressible", "s", true, "queue the panel when a higher priority panel shows")
	f.StringVar(&a.text, "text", "", "static text")
	f.StringVar(&a.resource, "resource", "", "resource id under resources.dir")
	f.StringVar(&a.command, "command", "", "shell command whose output is shown")
	f.DurationVar(&a.timeout, "timeout", 0, "command timeout")
	cmd.MarkFlagsMutuallyExclusive("text", "resource", "command")
	return cmd
}

func (a *addOptions) panel(name string) (config.PanelConfig, error) {
	pc := config.PanelConfig{
		Name:         name,
		Title:        a.title,
		Key:          a.key,
		Priority:     a.priority,
		Suppressible: a.suppressible,
	}
	switch {
	case a.resource != "":
		pc.Content = config.ContentConfig{Type: config.ContentResource, Resource: a.resource}
	case a.command != "":
		pc.Content = config.ContentConfig{Type: config.ContentCommand, Command: a.command, Timeout: a.timeout}
	default:
		pc.Content = config.ContentConfig{Type: config.ContentText, Text: a.text}
	}
	if err := config.ValidatePanels([]config.PanelConfig{pc}); err != nil {
		return config.PanelConfig{}, err
	}
	return pc, nil
}
