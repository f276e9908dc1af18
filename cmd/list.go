package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reify.dev/pkg/reify/internal/domain"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List instantiation candidates",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolveWorkflow(cmd).List(cmd.Context(), domain.ListArgs{
				Paths:   parsePaths(args),
				Exclude: viper.GetStringSlice(excludeConfigKey),
				Threads: viper.GetUint(runParallelConfigKey),
			})
		},
	}

	return cmd
}
