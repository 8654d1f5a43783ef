// Package cli is the jobcal command line: the HTTP server plus read-only calendar views.
package cli

import (
	"github.com/jobcal/jobcal/internal/config"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
}

func (o *options) load() (config.Application, error) {
	return config.Load(o.configPath)
}

// NewRootCmd creates the top-level "jobcal" command. Without a subcommand it runs the server.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "jobcal",
		Short:         "Job-hunting calendar server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "Path to the YAML configuration file")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newMonthCmd(opts),
		newAgendaCmd(opts),
	)
	return root
}
