package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srad/channelnotify/conf"
)

var (
	Version string
	Commit  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "channelnotify",
	Short:         "Channels that notify their subscribers about new videos",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorln(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFormatter(&log.TextFormatter{})

	rootCmd.PersistentFlags().String("config", "", "config file (default conf/app.{yml,json,toml})")
	rootCmd.PersistentFlags().String("log-level", "", "set log-level: error, warn, info, debug, trace")

	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTokenCmd())
}

// loadConfig reads the configuration; flags win over environment and file.
func loadConfig(cmd *cobra.Command) (*conf.Cfg, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := conf.Read(configFile)
	if err != nil {
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	cfg.ApplyLogLevel()

	return cfg, nil
}
