// Package build exports the site as static files: index.html, sitemap.xml,
// robots.txt and a copy of the assets directory.
package build

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sooryaraj/folio/internal/contact"
	"github.com/sooryaraj/folio/internal/content"
	"github.com/sooryaraj/folio/internal/errors"
	"github.com/sooryaraj/folio/internal/logging"
	"github.com/sooryaraj/folio/internal/view"
)

// StaticGenerationOptions configures one export.
type StaticGenerationOptions struct {
	// BaseURL is the public origin of the site. The sitemap and the
	// robots.txt Sitemap line are only written when it is set.
	BaseURL string

	// AssetsDir is copied into the output when CopyAssets is true.
	AssetsDir  string
	CopyAssets bool

	// BuildTime stamps the sitemap and the footer year. Zero means now.
	BuildTime time.Time
}

// GeneratedFile is one file written by the generator.
type GeneratedFile struct {
	Path string
	Size int64
}

// Result summarizes an export.
type Result struct {
	OutputDir    string
	Files        []GeneratedFile
	AssetsCopied int
	MissingLinks []string
	Duration     time.Duration
}

// TotalSize sums the sizes of all written files.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// StaticSiteGenerator writes the static export into outputDir.
type StaticSiteGenerator struct {
	outputDir string
	logger    logging.Logger
}

// NewStaticSiteGenerator creates a generator writing into outputDir.
func NewStaticSiteGenerator(outputDir string, logger logging.Logger) *StaticSiteGenerator {
	return &StaticSiteGenerator{
		outputDir: outputDir,
		logger:    logger.WithComponent("build"),
	}
}

// Generate writes the export for site.
func (s *StaticSiteGenerator) Generate(ctx context.Context, site *content.Site, options StaticGenerationOptions) (*Result, error) {
	start := time.Now()
	if options.BuildTime.IsZero() {
		options.BuildTime = start
	}

	if options.CopyAssets {
		if err := s.checkOutputOutsideAssets(options.AssetsDir); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, exportError("failed to create output directory", err)
	}

	result := &Result{OutputDir: s.outputDir}

	indexFile, err := s.generateIndexPage(ctx, site, options)
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, indexFile)

	if options.BaseURL != "" {
		sitemapFile, err := s.generateSitemap(options)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, sitemapFile)
	}

	robotsFile, err := s.generateRobotsTxt(options)
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, robotsFile)

	if options.CopyAssets {
		copied, err := s.copyAssets(ctx, options.AssetsDir, result.Files)
		if err != nil {
			return nil, err
		}
		result.AssetsCopied = len(copied)
		result.Files = append(result.Files, copied...)

		missing, err := CheckLinks(indexFile.Path, s.outputDir)
		if err != nil {
			return nil, err
		}
		result.MissingLinks = missing
		for _, link := range missing {
			s.logger.Warn(ctx, nil, "Exported page links to a missing file", "link", link)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (s *StaticSiteGenerator) checkOutputOutsideAssets(assetsDir string) error {
	if assetsDir == "" {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid, "copy_assets is set but no assets directory is configured")
	}

	out, err := filepath.Abs(s.outputDir)
	if err != nil {
		return exportError("resolving output directory", err)
	}
	assets, err := filepath.Abs(assetsDir)
	if err != nil {
		return exportError("resolving assets directory", err)
	}

	rel, err := filepath.Rel(assets, out)
	if err == nil && filepath.IsLocal(rel) {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("output directory %s must not be inside the assets directory %s", s.outputDir, assetsDir))
	}
	return nil
}

func (s *StaticSiteGenerator) generateIndexPage(ctx context.Context, site *content.Site, options StaticGenerationOptions) (GeneratedFile, error) {
	page := view.Page(site, view.PageOptions{
		Draft:    contactDraft(site),
		FormMode: view.FormModeScript,
		Year:     options.BuildTime.Year(),
	})

	var buf bytes.Buffer
	if err := page.Render(ctx, &buf); err != nil {
		return GeneratedFile{}, exportError("failed to render index page", err)
	}

	return s.writeFile("index.html", buf.Bytes())
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (s *StaticSiteGenerator) generateSitemap(options StaticGenerationOptions) (GeneratedFile, error) {
	set := urlset{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{{
			Loc:        strings.TrimSuffix(options.BaseURL, "/") + "/",
			LastMod:    options.BuildTime.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "1.0",
		}},
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return GeneratedFile{}, exportError("failed to encode sitemap", err)
	}

	return s.writeFile("sitemap.xml", append([]byte(xml.Header), append(data, '\n')...))
}

func (s *StaticSiteGenerator) generateRobotsTxt(options StaticGenerationOptions) (GeneratedFile, error) {
	robots := "User-agent: *\nAllow: /\n"
	if options.BaseURL != "" {
		robots += fmt.Sprintf("Sitemap: %s/sitemap.xml\n", strings.TrimSuffix(options.BaseURL, "/"))
	}
	return s.writeFile("robots.txt", []byte(robots))
}

// copyAssets mirrors assetsDir into the output, skipping dotfiles, anything
// that is not a regular file, and files that would replace a generated one.
func (s *StaticSiteGenerator) copyAssets(ctx context.Context, assetsDir string, generated []GeneratedFile) ([]GeneratedFile, error) {
	var copied []GeneratedFile

	reserved := make(map[string]bool, len(generated))
	for _, f := range generated {
		if rel, err := filepath.Rel(s.outputDir, f.Path); err == nil {
			reserved[rel] = true
		}
	}

	err := filepath.WalkDir(assetsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if path != assetsDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(assetsDir, path)
		if err != nil {
			return err
		}
		if reserved[rel] {
			s.logger.Warn(ctx, nil, "Asset shadows a generated file, skipping", "asset", path)
			return nil
		}

		size, err := copyFile(path, filepath.Join(s.outputDir, rel))
		if err != nil {
			return err
		}
		copied = append(copied, GeneratedFile{Path: filepath.Join(s.outputDir, rel), Size: size})
		return nil
	})
	if err != nil {
		return nil, exportError("failed to copy assets", err).WithPath(assetsDir)
	}

	return copied, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

func (s *StaticSiteGenerator) writeFile(name string, data []byte) (GeneratedFile, error) {
	path := filepath.Join(s.outputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return GeneratedFile{}, exportError("failed to write "+name, err)
	}
	return GeneratedFile{Path: path, Size: int64(len(data))}, nil
}

// contactDraft is the empty form state the exported page starts from.
func contactDraft(site *content.Site) contact.Draft {
	return contact.NewController(site.Email, site.Subject).Draft()
}

func exportError(msg string, cause error) *errors.SiteError {
	return errors.NewIOError(errors.ErrCodeExportFailed, msg, cause)
}
