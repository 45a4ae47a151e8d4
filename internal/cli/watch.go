package cli

import (
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chunksplit/chunksplit/internal/logger"
)

// debounceWindow soaks up the burst of writes most editors and build
// tools produce for a single save.
const debounceWindow = 100 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <graph-file>",
	Short: "Re-run chunk assignment whenever the graph file changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchGraphFile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchGraphFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	level := logger.LevelInfo
	if viper.GetBool("verbose") {
		level = logger.LevelVerbose
	}
	log := logger.New(level)

	rerun := func() {
		chunks, err := assignFromFile(abs)
		if err != nil {
			// A half-written or broken graph file shouldn't end the watch;
			// report it and wait for the next change.
			log.Warn(err.Error())
			return
		}
		renderChunks(chunks)
	}
	rerun()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors that write via
	// rename replace the inode, and a watch on the old inode goes silent.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	log.Info("Watching " + path)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	var debounce *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || !event.Op.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error: " + err.Error())
		case <-interrupt:
			return nil
		}
	}
}
