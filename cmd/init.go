package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sooryaraj/folio/internal/config"
	"github.com/sooryaraj/folio/internal/content"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:     "init [dir]",
	Aliases: []string{"i"},
	Short:   "Write a starter .folio.yml and content.yml",
	Long: `Write a .folio.yml configuration and a content.yml holding the built-in
portfolio content, ready to edit, and create the assets directory.

Examples:
  folio init
  folio init my-portfolio
  folio init --force          # overwrite existing files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
}

// starterConfig is the .folio.yml written by init.
type starterConfig struct {
	Server      config.ServerConfig      `yaml:"server"`
	Site        config.SiteConfig        `yaml:"site"`
	Development config.DevelopmentConfig `yaml:"development"`
	Build       config.BuildConfig       `yaml:"build"`
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	if err := os.MkdirAll(filepath.Join(dir, "public", "images"), 0o755); err != nil {
		return fmt.Errorf("failed to create assets directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "public", "videos"), 0o755); err != nil {
		return fmt.Errorf("failed to create assets directory: %w", err)
	}

	siteYAML, err := content.Marshal(content.Default())
	if err != nil {
		return err
	}

	cfgYAML, err := yaml.Marshal(starterConfig{
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         8080,
			Environment:  config.EnvDevelopment,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Site: config.SiteConfig{
			Content: "content.yml",
			Assets:  "./public",
		},
		Development: config.DevelopmentConfig{
			LiveReload: true,
			Debounce:   300 * time.Millisecond,
		},
		Build: config.BuildConfig{
			Output:     "dist",
			CopyAssets: true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{".folio.yml", cfgYAML},
		{"content.yml", siteYAML},
	}

	out := cmd.OutOrStdout()
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err == nil && !initForce {
			fmt.Fprintf(out, "Skipping %s (exists, use --force to overwrite)\n", path)
			continue
		}
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
	}

	fmt.Fprintln(out, "Put your photos in public/images, videos in public/videos and resume.pdf in public, then run: folio serve")
	return nil
}
