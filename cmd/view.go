package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reify.dev/pkg/reify/internal/domain"
	m "reify.dev/pkg/reify/internal/model"
)

var viewReportFlag string

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [paths...]",
		Short: "Browse the edits of a run",
		Long:  viewLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolveWorkflow(cmd).View(cmd.Context(), domain.ViewArgs{
				Paths:   parsePaths(args),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Threads: viper.GetUint(runParallelConfigKey),
				Report:  m.Path(viewReportFlag),
			})
		},
	}

	cmd.Flags().StringVar(&viewReportFlag, reportFlagName, "", "load the edits from a report saved by run --report")

	return cmd
}
