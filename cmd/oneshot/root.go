package main

import (
	"github.com/indigo-web/oneshot/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	root       string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := new(options)
	defaults := config.Default()

	root := &cobra.Command{
		Use:   "oneshot",
		Short: "oneshot - a one-request-per-connection web server",
		Long: `oneshot serves static files and runs CGI scripts. Every connection carries
exactly one request: it is parsed, answered and closed. Settings are taken from the
config file, ONESHOT_* environment variables and flags, the latter taking precedence.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to the config file (yaml, toml or json)")
	flags.StringVar(&opts.root, "root", defaults.Static.Root, "Document root")
	flags.StringVar(&opts.logLevel, "log-level", defaults.Log.Level, "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", defaults.Log.Format, "Log format: text or json")

	root.AddCommand(newServeCmd(opts), newConfigCmd(opts))

	return root
}

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"root":       "static.root",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// loadConfig merges defaults, the config file, the environment and the flags that
// were explicitly set.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	v, err := config.NewViper(opts.configPath)
	if err != nil {
		return nil, err
	}

	if err = bindFlags(cmd, v); err != nil {
		return nil, err
	}

	return config.FromViper(v)
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	return nil
}
