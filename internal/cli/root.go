// Package cli implements the citer command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"citer/internal/model"
)

var (
	cfgFile   string
	verbose   bool
	workspace string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "citer",
	Short: "Citer - exact-quote citation engine for research workspaces",
	Long: `Citer turns research findings into verifiable citations.

It builds a source registry from the findings files a research run
leaves behind, anchors numbered citation markers to exact quotes in a
draft document, and appends a matching reference section. Separate
commands validate marker/reference integrity and audit the liveness of
cited links.

Citer never invents sources: a citation appears only where a recorded
quote appears verbatim in the text.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("citer v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.citer/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "research workspace directory")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("workspace.dir", rootCmd.PersistentFlags().Lookup("workspace"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.citer")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CITER_*
	viper.SetEnvPrefix("CITER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildConfig layers viper values over the built-in defaults. Flags bound
// to viper win over env vars, which win over the config file.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("workspace.dir"); v != "" {
		cfg.Workspace.Dir = v
	}
	if v := viper.GetString("workspace.findings_dir"); v != "" {
		cfg.Workspace.FindingsDir = v
	}
	if v := viper.GetString("workspace.reports_dir"); v != "" {
		cfg.Workspace.ReportsDir = v
	}
	if viper.IsSet("citation.min_credibility") {
		cfg.Citation.MinCredibility = viper.GetFloat64("citation.min_credibility")
	}
	if v := viper.GetDuration("http.timeout"); v > 0 {
		cfg.HTTP.Timeout = v
	}
	if v := viper.GetString("http.user_agent"); v != "" {
		cfg.HTTP.UserAgent = v
	}
	if v := viper.GetInt("concurrency.check_workers"); v > 0 {
		cfg.Concurrency.CheckWorkers = v
	}
	if v := viper.GetInt("concurrency.batch_workers"); v > 0 {
		cfg.Concurrency.BatchWorkers = v
	}
	if v := viper.GetFloat64("concurrency.rate_per_sec"); v > 0 {
		cfg.Concurrency.RatePerSec = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = v
	}

	cfg.Output.Verbose = viper.GetBool("verbose")
	return cfg
}
