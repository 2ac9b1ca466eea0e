package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sooryaraj/folio/internal/assets"
	"github.com/spf13/cobra"
)

var validateFormat string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the content file and the asset files it references",
	Long: `Validate the content file (required fields, e-mail address, media
entries) and check that every referenced asset exists in the assets
directory with the right media type: images for the hero and photos, MP4
for videos, PDF for the resume.

Examples:
  folio validate
  folio validate --content site.yml --assets ./public
  folio validate --format json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "output format (text, json)")
	validateCmd.Flags().AddFlagSet(siteFlagSet())
}

// AssetStatus is one row of the validate report.
type AssetStatus struct {
	Field string `json:"field"`
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	MIME  string `json:"mime,omitempty"`
	Size  int64  `json:"size"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateFormat != "text" && validateFormat != "json" {
		return fmt.Errorf("unsupported format: %s (supported: text, json)", validateFormat)
	}

	cfg, err := loadConfig(cmd, siteBindings)
	if err != nil {
		return err
	}

	site, err := loadSite(cfg)
	if err != nil {
		return err
	}

	report, err := assets.Check(cmd.Context(), site, cfg.Site.Assets)
	if err != nil {
		return fmt.Errorf("failed to check assets: %w", err)
	}

	rows := make([]AssetStatus, 0, len(report.Results))
	for _, res := range report.Results {
		row := AssetStatus{
			Field: res.Field,
			Path:  res.Path,
			Kind:  string(res.Kind),
			MIME:  res.MIME,
			Size:  res.Size,
			Valid: res.Err == nil,
		}
		if res.Err != nil {
			row.Error = res.Err.Error()
		}
		rows = append(rows, row)
	}

	if validateFormat == "json" {
		if err := writeJSON(cmd, map[string]interface{}{
			"content": site.String(),
			"assets":  rows,
			"valid":   len(report.Failed()) == 0,
		}); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Content: %s\n", site.String())
		for _, row := range rows {
			status := "ok"
			if !row.Valid {
				status = "FAIL"
			}
			fmt.Fprintf(out, "  %-4s %-16s %-24s %-18s %9s", status, row.Field, row.Path, row.MIME, humanize.Bytes(uint64(row.Size)))
			if row.Error != "" {
				fmt.Fprintf(out, "  %s", row.Error)
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%d assets, %s total\n", len(rows), humanize.Bytes(uint64(report.TotalSize())))
	}

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d assets failed validation: %w", len(failed), len(rows), report.Err())
	}
	return nil
}
