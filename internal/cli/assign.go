package cli

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chunksplit/chunksplit/internal/graph"
	"github.com/chunksplit/chunksplit/internal/graphfile"
	"github.com/chunksplit/chunksplit/internal/helpers"
	"github.com/chunksplit/chunksplit/internal/linker"
	"github.com/chunksplit/chunksplit/internal/logger"
)

var assignCmd = &cobra.Command{
	Use:   "assign <graph-file>",
	Short: "Assign the modules of a graph file to chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chunks, err := assignFromFile(args[0])
		if err != nil {
			return err
		}
		renderChunks(chunks)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assignCmd)
}

// assignFromFile loads a graph file and runs chunk assignment over it.
// The minimum chunk size comes from the graph file itself unless the
// --min-chunk-size flag, the CHUNKSPLIT_MINCHUNKSIZE environment
// variable, or the config file overrides it.
func assignFromFile(path string) ([]graph.Chunk, error) {
	bundle, err := graphfile.Load(path)
	if err != nil {
		return nil, err
	}

	minChunkSize := bundle.MinChunkSize
	if viper.IsSet("minChunkSize") {
		minChunkSize = viper.GetInt("minChunkSize")
	}
	if minChunkSize < 0 {
		return nil, fmt.Errorf("minChunkSize must not be negative, got %d", minChunkSize)
	}

	level := logger.LevelInfo
	var timer *helpers.Timer
	if viper.GetBool("verbose") {
		level = logger.LevelVerbose
		timer = &helpers.Timer{}
	}
	log := logger.New(level)

	log.Verbose(fmt.Sprintf("assigning %d modules from %d entries (min chunk size %s)",
		len(bundle.Modules), len(bundle.Entries), logger.PrettyBytes(minChunkSize)))

	chunks := linker.AssignChunks(bundle.Entries, bundle.ManualChunks, minChunkSize, log, timer)
	log.Timing(timer.Lines())
	return chunks, nil
}

func renderChunks(chunks []graph.Chunk) {
	rows := pterm.TableData{{"Chunk", "Modules", "Size"}}
	for i, chunk := range chunks {
		size := 0
		ids := make([]string, len(chunk.Modules))
		for j, m := range chunk.Modules {
			size += m.Size()
			ids[j] = moduleName(m)
		}
		rows = append(rows, []string{
			chunkName(chunk, i),
			strings.Join(ids, ", "),
			logger.PrettyBytes(size),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render() //nolint:errcheck
}

func chunkName(chunk graph.Chunk, index int) string {
	if chunk.Alias != nil {
		return *chunk.Alias
	}
	return fmt.Sprintf("chunk-%d", index)
}

// moduleName prints a module's id when the graph implementation has one.
func moduleName(m graph.Module) string {
	if named, ok := m.(interface{ ID() string }); ok {
		return named.ID()
	}
	return fmt.Sprintf("%p", m)
}
