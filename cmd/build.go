package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sooryaraj/folio/internal/build"
	"github.com/sooryaraj/folio/internal/logging"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Export the portfolio as static files",
	Long: `Export the portfolio to a directory that any static host can serve:
index.html, robots.txt, sitemap.xml (when --base-url is set) and a copy of
the assets directory. The exported contact form builds the mailto: link in
the browser.

Examples:
  folio build
  folio build -o public_html --base-url https://sooryaraj.dev
  folio build --copy-assets=false`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("output", "o", "dist", "output directory")
	buildCmd.Flags().String("base-url", "", "public URL of the site, used for sitemap.xml")
	buildCmd.Flags().Bool("copy-assets", true, "copy the assets directory into the output")
	buildCmd.Flags().AddFlagSet(siteFlagSet())
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, merge(siteBindings, map[string]string{
		"build.output":      "output",
		"build.base_url":    "base-url",
		"build.copy_assets": "copy-assets",
	}))
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	site, err := loadSite(cfg)
	if err != nil {
		return err
	}

	op := logging.StartOperation(logger, "build")
	gen := build.NewStaticSiteGenerator(cfg.Build.Output, logger)
	result, err := gen.Generate(cmd.Context(), site, build.StaticGenerationOptions{
		BaseURL:    cfg.Build.BaseURL,
		AssetsDir:  cfg.Site.Assets,
		CopyAssets: cfg.Build.CopyAssets,
	})
	if err != nil {
		op.EndWithError(cmd.Context(), err)
		return fmt.Errorf("build failed: %w", err)
	}
	op.End(cmd.Context(), "files", len(result.Files))

	out := cmd.OutOrStdout()
	for _, f := range result.Files {
		rel, err := filepath.Rel(result.OutputDir, f.Path)
		if err != nil {
			rel = f.Path
		}
		fmt.Fprintf(out, "  %-40s %10s\n", filepath.ToSlash(rel), humanize.Bytes(uint64(f.Size)))
	}
	fmt.Fprintf(out, "Wrote %d files (%s, %d assets) to %s in %s\n",
		len(result.Files),
		humanize.Bytes(uint64(result.TotalSize())),
		result.AssetsCopied,
		result.OutputDir,
		result.Duration.Round(time.Millisecond))

	for _, link := range result.MissingLinks {
		fmt.Fprintf(out, "Warning: page links to %s, which is not in the export\n", link)
	}

	return nil
}
