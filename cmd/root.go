package cmd

import (
	"fmt"
	"os"

	"github.com/jgwest/htmldiff-cli/logging"
	"github.com/jgwest/htmldiff-cli/model"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "htmldiff",
	Short: "Render HTML comparisons of text files, singly or in batches",
	Long: `htmldiff renders the differences between two text files as an HTML
document, either for a single pair of files ('render') or for a batch of
file pairs described in a CSV file ('batch'). In batch mode, missing source
files are fetched from a Confluence content store and rendered comparisons
are published back to it.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.htmldiff.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {

	logging.Init(logLevel)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".htmldiff" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".htmldiff")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func reportCLIErrorAndExit(err error) {
	fmt.Println(err)
	os.Exit(1)
}

// loadToolConfig returns the tool configuration from the resolved config
// file, or an empty configuration when no config file is present.
func loadToolConfig() model.ConfigFile {

	path := viper.ConfigFileUsed()
	if path == "" {
		return model.ConfigFile{}
	}

	config, err := model.ReadConfigFile(path)
	if err != nil {
		reportCLIErrorAndExit(err)
		return model.ConfigFile{}
	}

	return config
}
