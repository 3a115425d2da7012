package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/fffona/ffind/internal/finder"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch <start_path> <pattern>",
	Short: "Watch a tree and report newly created matches",
	Long: `Watch a directory tree and report files created while watching whose
names match the pattern. Directories created during the watch are
picked up as well. Runs until interrupted.

Examples:
  ffind watch /var/log "*.log"
  ffind watch . "*.go" --log-file=changes.log`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(root, pattern string) error {
	logger := finder.NewLogger(logLevel())
	defer logger.Sync()

	sink, err := newSink()
	if err != nil {
		return err
	}
	defer sink.Close()

	f, err := finder.New(finder.Options{
		Pattern: preparePattern(pattern),
		Logger:  logger,
		Sink:    sink,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = f.Watch(ctx, root)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
