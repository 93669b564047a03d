package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"panelshell/internal/control"
)

func newSendCmd(opts *rootOptions) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "send show|close PANEL",
		Short: "Show or close a panel in a running shell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := control.ParseAction(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			client := control.NewClient(controlAddr(cfg, opts))
			resp, err := client.Send(cmd.Context(), control.Request{
				Panel:  args[1],
				Action: action,
				Reason: reason,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s accepted (%s)\n", action, args[1], resp.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "state change reason (default: remote)")
	return cmd
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the panel status of a running shell as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			s, err := control.NewClient(controlAddr(cfg, opts)).Status(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		},
	}
	return cmd
}
