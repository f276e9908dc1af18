// Package cmd provides the root command and CLI setup for reify.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"reify.dev/pkg/reify/internal/adapter"
	"reify.dev/pkg/reify/internal/controller"
	"reify.dev/pkg/reify/internal/domain"
	m "reify.dev/pkg/reify/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var lexicalAdapter adapter.LexicalAdapter
var synthesizer adapter.Synthesizer
var materializer domain.Materializer

// workflow is built on first use from the resolved flags. Tests replace it
// with a mock before executing a command.
var workflow domain.Workflow

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var clangBinaryFlag string
var clangStdFlag string
var dumpSuffixFlag string
var logFileFlag string
var verboseFlag bool

// rootCmd represents the base command when called without any subcommands.
// It is built in init, after the config defaults are registered.
var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
	rootCmd.AddCommand(newRunCmd(), newListCmd(), newViewCmd(), newInitCmd(), newVersionCmd())

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewYAMLReportStore()
	lexicalAdapter = adapter.NewLocalLexicalAdapter()
	synthesizer = adapter.NewTextSynthesizer()
	materializer = domain.NewMaterializer(lexicalAdapter, synthesizer)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./src/...      recursively scan src directory
  - ./src main.cpp scan a directory and a single file`

const rootLongDescription = `Reify materializes C++ template instantiations. It reads the clang AST of
each translation unit, finds the instantiations the compiler performed
implicitly, and writes them back into the source as explicit
specializations, next to the template they come from.

` + pathPatternsHelp

const runLongDescription = `Materialize the instantiations of the given translation units
(default: ./...). Patched sources go to stdout unless --in-place,
--output-dir or --diff is set.

` + pathPatternsHelp

const listLongDescription = `List the instantiation candidates of the given translation units and
what would happen to each of them.

` + pathPatternsHelp

const viewLongDescription = `Browse the edits of a run, either computed from the given paths or
loaded from a report saved with run --report.

` + pathPatternsHelp

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reify",
		Short:         "C++ template instantiation materializer",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.StringVar(&clangBinaryFlag, clangFlagName, viper.GetString(clangBinaryKey), "clang driver used to dump the AST")
	bindFlagToConfig(flags.Lookup(clangFlagName), clangBinaryKey)

	flags.StringVar(&clangStdFlag, stdFlagName, viper.GetString(clangStdKey), "C++ standard passed to clang as -std")
	bindFlagToConfig(flags.Lookup(stdFlagName), clangStdKey)

	flags.StringVar(&dumpSuffixFlag, dumpSuffixFlagName, viper.GetString(clangDumpSuffixKey), "suffix of pre-generated JSON AST dumps read instead of running clang")
	bindFlagToConfig(flags.Lookup(dumpSuffixFlagName), clangDumpSuffixKey)

	flags.StringVar(&logFileFlag, logFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(flags.Lookup(logFlagName), logFilenameKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// resolveWorkflow returns the workflow, building it for cmd on first use.
func resolveWorkflow(cmd *cobra.Command) domain.Workflow {
	if workflow != nil {
		return workflow
	}

	ui := controller.NewUI(cmd, controller.IsTTY(os.Stdout))
	astAdapter := adapter.NewClangASTAdapter(clangOptions())

	workflow = domain.NewWorkflow(fsAdapter, reportStore, astAdapter, ui, materializer)

	return workflow
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// parsePaths converts positional arguments to paths, defaulting to the
// whole working tree.
func parsePaths(args []string) []m.Path {
	if len(args) == 0 {
		return []m.Path{defaultPathPattern}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
