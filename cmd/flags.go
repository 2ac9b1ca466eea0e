package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// siteFlagSet holds the flags of every command that reads content.
func siteFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("site", pflag.ContinueOnError)
	fs.StringP("content", "c", "", "content YAML file (default: built-in content)")
	fs.String("assets", "./public", "assets directory (images, videos, resume)")
	return fs
}

var siteBindings = map[string]string{
	"site.content": "content",
	"site.assets":  "assets",
}

// serverFlagSet holds the listener flags of serve.
func serverFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	fs.IntP("port", "p", 8080, "port to serve on")
	fs.String("host", "localhost", "host to bind to")
	fs.StringP("env", "e", "development", "environment (development, production)")
	fs.Bool("live-reload", true, "reload open pages when content or assets change (development only)")
	return fs
}

var serverBindings = map[string]string{
	"server.port":             "port",
	"server.host":             "host",
	"server.environment":      "env",
	"development.live_reload": "live-reload",
}

// bindFlags binds viper keys to the flags of cmd. It runs when the command
// executes, so commands sharing a key never steal each other's binding.
func bindFlags(cmd *cobra.Command, bindings map[string]string) error {
	for key, name := range bindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown flag --%s for %s", name, key)
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
