package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fffona/ffind/internal/finder"
)

var version = "0.1.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ffind <start_path> <pattern> [num_threads]",
	Short: "Concurrent filename search",
	Long: `ffind recursively searches a directory tree for entries whose name
matches a glob pattern, expanding directories with a pool of concurrent
workers.

The pattern supports '*' (any run of characters) and '?' (exactly one
character), matched case-insensitively. A pattern without wildcards is
treated as a substring search.

Examples:
  ffind . "*.txt"
  ffind /var/log "data_??.csv" 8
  ffind ~ report`,
	Version:       version,
	Args:          cobra.RangeArgs(2, 3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFind(args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("log-file", "", "Append a session log to this file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("silent", false, "Disable diagnostic logging except errors")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colorized match output")

	// Bind flags to viper
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("silent", rootCmd.PersistentFlags().Lookup("silent"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))

	viper.SetEnvPrefix("FFIND")
	viper.AutomaticEnv()
}

// parseWorkers resolves the optional num_threads argument. The default
// is the hardware concurrency, never less than one.
func parseWorkers(args []string) (int, error) {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid num_threads value: %s", args[2])
		}
		workers = n
	}
	return workers, nil
}

// preparePattern applies the substring fallback: a pattern with no
// wildcard characters is rewritten so it matches anywhere in a name.
func preparePattern(pattern string) string {
	if !finder.HasWildcard(pattern) {
		return "*" + pattern + "*"
	}
	return pattern
}

func logLevel() finder.LogLevel {
	switch {
	case viper.GetBool("verbose"):
		return finder.LogLevelDebug
	case viper.GetBool("silent"):
		return finder.LogLevelError
	default:
		return finder.LogLevelInfo
	}
}

func newSink() (*finder.Sink, error) {
	return finder.NewSink(finder.SinkOptions{
		Out:     os.Stdout,
		ErrOut:  os.Stderr,
		LogPath: viper.GetString("log-file"),
		Color:   !viper.GetBool("no-color") && finder.ColorEnabled(os.Stdout),
	})
}

func runFind(args []string) error {
	root := args[0]
	pattern := preparePattern(args[1])

	workers, err := parseWorkers(args)
	if err != nil {
		return err
	}

	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("start path does not exist: %s", root)
	}

	logger := finder.NewLogger(logLevel())
	defer logger.Sync()

	sink, err := newSink()
	if err != nil {
		return err
	}
	defer sink.Close()

	f, err := finder.New(finder.Options{
		Pattern: pattern,
		Workers: workers,
		Logger:  logger,
		Sink:    sink,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sink.SessionStart(root, pattern, workers)
	err = f.Run(ctx, root)
	sink.SessionEnd()
	return err
}
