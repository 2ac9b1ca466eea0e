package build

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sooryaraj/folio/internal/assets"
	"github.com/sooryaraj/folio/internal/content"
	"github.com/sooryaraj/folio/internal/errors"
	"github.com/sooryaraj/folio/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

var buildTime = time.Date(2026, 4, 12, 9, 30, 0, 0, time.UTC)

func writeAsset(t *testing.T, dir, rel, data string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func defaultAssets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, ref := range assets.Refs(content.Default()) {
		writeAsset(t, dir, ref.Path, "data for "+ref.Path)
	}
	writeAsset(t, dir, ".git/HEAD", "ref")
	writeAsset(t, dir, ".DS_Store", "junk")
	return dir
}

func TestGenerateWritesExport(t *testing.T) {
	assetsDir := defaultAssets(t)
	out := filepath.Join(t.TempDir(), "dist")

	gen := NewStaticSiteGenerator(out, logging.NewNopLogger())
	result, err := gen.Generate(context.Background(), content.Default(), StaticGenerationOptions{
		BaseURL:    "https://sooryaraj.dev/",
		AssetsDir:  assetsDir,
		CopyAssets: true,
		BuildTime:  buildTime,
	})
	require.NoError(t, err)

	assert.Equal(t, out, result.OutputDir)
	assert.Equal(t, 7, result.AssetsCopied)
	assert.Empty(t, result.MissingLinks)
	assert.Positive(t, result.TotalSize())

	for _, name := range []string{"index.html", "sitemap.xml", "robots.txt", "images/hero.jpg", "videos/video2.mp4", "resume.pdf"} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(name)))
	}
	assert.NoDirExists(t, filepath.Join(out, ".git"))
	assert.NoFileExists(t, filepath.Join(out, ".DS_Store"))

	robots, err := os.ReadFile(filepath.Join(out, "robots.txt"))
	require.NoError(t, err)
	assert.Equal(t, "User-agent: *\nAllow: /\nSitemap: https://sooryaraj.dev/sitemap.xml\n", string(robots))

	raw, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	require.NoError(t, err)
	var set urlset
	require.NoError(t, xml.Unmarshal(raw, &set))
	require.Len(t, set.URLs, 1)
	assert.Equal(t, "https://sooryaraj.dev/", set.URLs[0].Loc)
	assert.Equal(t, "2026-04-12", set.URLs[0].LastMod)
}

func TestExportedPageUsesScriptForm(t *testing.T) {
	out := t.TempDir()

	gen := NewStaticSiteGenerator(out, logging.NewNopLogger())
	_, err := gen.Generate(context.Background(), content.Default(), StaticGenerationOptions{BuildTime: buildTime})
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)

	body := string(page)
	assert.Contains(t, body, `data-email="sooryaraj.dev@gmail.com"`)
	assert.Contains(t, body, `data-subject="Portfolio Inquiry"`)
	assert.Contains(t, body, "encodeURIComponent")
	assert.NotContains(t, body, `action="/contact"`)
	assert.NotContains(t, body, "WebSocket")
	assert.Contains(t, body, "2026 Sooryaraj")

	assert.NoFileExists(t, filepath.Join(out, "sitemap.xml"), "no sitemap without a base URL")
}

func TestGenerateKeepsGeneratedFilesOverAssets(t *testing.T) {
	assetsDir := defaultAssets(t)
	writeAsset(t, assetsDir, "index.html", "<p>stale page</p>")
	writeAsset(t, assetsDir, "robots.txt", "User-agent: *\nDisallow: /\n")
	writeAsset(t, assetsDir, "sitemap.xml", "<urlset/>")
	out := filepath.Join(t.TempDir(), "dist")

	gen := NewStaticSiteGenerator(out, logging.NewNopLogger())
	result, err := gen.Generate(context.Background(), content.Default(), StaticGenerationOptions{
		BaseURL:    "https://sooryaraj.dev",
		AssetsDir:  assetsDir,
		CopyAssets: true,
		BuildTime:  buildTime,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.AssetsCopied)

	page, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(page), "stale page")
	assert.Contains(t, string(page), "Sooryaraj")

	robots, err := os.ReadFile(filepath.Join(out, "robots.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(robots), "Allow: /")

	sitemap, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "https://sooryaraj.dev")
}

func TestGenerateReportsMissingLinks(t *testing.T) {
	assetsDir := defaultAssets(t)
	require.NoError(t, os.Remove(filepath.Join(assetsDir, "resume.pdf")))

	gen := NewStaticSiteGenerator(t.TempDir(), logging.NewNopLogger())
	result, err := gen.Generate(context.Background(), content.Default(), StaticGenerationOptions{
		AssetsDir:  assetsDir,
		CopyAssets: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/resume.pdf"}, result.MissingLinks)
}

func TestGenerateRejectsOutputInsideAssets(t *testing.T) {
	assetsDir := defaultAssets(t)

	for _, out := range []string{assetsDir, filepath.Join(assetsDir, "dist")} {
		gen := NewStaticSiteGenerator(out, logging.NewNopLogger())
		_, err := gen.Generate(context.Background(), content.Default(), StaticGenerationOptions{
			AssetsDir:  assetsDir,
			CopyAssets: true,
		})

		var se *errors.SiteError
		require.ErrorAs(t, err, &se, out)
		assert.Equal(t, errors.ErrorTypeConfig, se.Type)
	}
}

func TestLocalLinks(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><body>
<a href="#gallery">Gallery</a>
<img src="/images/a.jpg">
<img src="/images/a.jpg">
<video poster="/images/poster.jpg"><source src="/videos/v.mp4?v=2"></video>
<a href="https://example.com/x">x</a>
<a href="//cdn.example.com/y">y</a>
<a href="mailto:someone@example.com">mail</a>
<a href="/">home</a>
</body></html>`))
	require.NoError(t, err)

	assert.Equal(t, []string{"/images/a.jpg", "/images/poster.jpg", "/videos/v.mp4"}, LocalLinks(doc))
}
