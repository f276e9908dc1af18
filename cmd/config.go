package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"reify.dev/pkg/reify/internal/adapter"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "reify"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	excludeFlagName    = "exclude"
	clangFlagName      = "clang"
	stdFlagName        = "std"
	dumpSuffixFlagName = "dump-suffix"
	logFlagName        = "log"
	verboseFlagName    = "verbose"

	runParallelFlagName = "parallel"
	inPlaceFlagName     = "in-place"
	outputDirFlagName   = "output-dir"
	diffFlagName        = "diff"
	reportFlagName      = "report"

	clangBinaryKey      = "clang.binary"
	clangStdKey         = "clang.std"
	clangArgsKey        = "clang.args"
	clangDumpSuffixKey  = "clang.dump_suffix"
	clangSystemPathsKey = "clang.system_paths"

	runParallelConfigKey = "run.parallel"
	excludeConfigKey     = "paths.exclude"

	defaultClangBinary = "clang++"
	defaultClangStd    = "c++17"
	defaultRunParallel = 0
	defaultPathPattern = "./..."

	envPrefix = "REIFY"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".reify.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(clangBinaryKey, defaultClangBinary)
	viper.SetDefault(clangStdKey, defaultClangStd)
	viper.SetDefault(clangArgsKey, []string{})
	viper.SetDefault(clangDumpSuffixKey, adapter.DefaultDumpSuffix)
	viper.SetDefault(clangSystemPathsKey, adapter.DefaultSystemPaths)
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(excludeConfigKey, []string{})

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels are accepted too (-4 is debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at the configured level; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// clangOptions assembles the front-end options from flags, config and env.
func clangOptions() adapter.ClangOptions {
	args := viper.GetStringSlice(clangArgsKey)

	if std := strings.TrimSpace(viper.GetString(clangStdKey)); std != "" {
		args = append([]string{"-std=" + std}, args...)
	}

	return adapter.ClangOptions{
		Binary:      viper.GetString(clangBinaryKey),
		Args:        args,
		SystemPaths: viper.GetStringSlice(clangSystemPathsKey),
		DumpSuffix:  viper.GetString(clangDumpSuffixKey),
	}
}
