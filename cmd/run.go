package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reify.dev/pkg/reify/internal/domain"
	m "reify.dev/pkg/reify/internal/model"
)

var runParallelFlag uint
var runInPlaceFlag bool
var runOutputDirFlag string
var runDiffFlag bool
var runReportFlag string

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Materialize template instantiations",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolveWorkflow(cmd).Run(cmd.Context(), domain.RunArgs{
				Paths:     parsePaths(args),
				Exclude:   viper.GetStringSlice(excludeConfigKey),
				Threads:   viper.GetUint(runParallelConfigKey),
				Mode:      outputMode(),
				OutputDir: m.Path(runOutputDirFlag),
				Report:    m.Path(runReportFlag),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().UintVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetUint(runParallelConfigKey), "number of translation units processed in parallel (0: one per unit)")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().BoolVarP(&runInPlaceFlag, inPlaceFlagName, "i", false, "overwrite the sources with their patched form")
	cmd.Flags().StringVarP(&runOutputDirFlag, outputDirFlagName, "d", "", "write patched sources under this directory")
	cmd.Flags().BoolVar(&runDiffFlag, diffFlagName, false, "print a unified diff instead of the patched sources")
	cmd.Flags().StringVar(&runReportFlag, reportFlagName, "", "save the run report as YAML to this file")

	cmd.MarkFlagsMutuallyExclusive(inPlaceFlagName, outputDirFlagName, diffFlagName)
}

func outputMode() domain.OutputMode {
	switch {
	case runInPlaceFlag:
		return domain.OutputInPlace
	case runOutputDirFlag != "":
		return domain.OutputDir
	case runDiffFlag:
		return domain.OutputDiff
	default:
		return domain.OutputStdout
	}
}
