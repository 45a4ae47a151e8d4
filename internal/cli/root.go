// Package cli wires the chunk assignment pipeline to the command line:
// flag and config handling, graph file loading, and the human-readable
// rendering of the resulting chunk list.
package cli

import (
	"errors"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "chunksplit",
	Short: "Assign bundle modules to output chunks",
	Long: `Reads a module graph description and partitions the included modules
into output chunks: every module lands in exactly one chunk, code is never
duplicated, and chunks smaller than the configured minimum are merged into
compatible neighbors without reordering observable side effects.`,
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().String("config", "", "config file (default is ./chunksplit.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging output")
	rootCmd.PersistentFlags().Int("min-chunk-size", 0, "merge chunks smaller than this many bytes")
	viper.BindPFlag("configFile", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("minChunkSize", rootCmd.PersistentFlags().Lookup("min-chunk-size"))
	viper.SetEnvPrefix("CHUNKSPLIT")
	viper.AutomaticEnv()
}

func initConfig() {
	if cfgFile := viper.GetString("configFile"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("chunksplit")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			pterm.Fatal.Printf("Failed to read config: %v\n", err)
		}
	} else {
		pterm.Debug.Println("Using config file:", viper.ConfigFileUsed())
	}
}
