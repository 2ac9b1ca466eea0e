// Package assets checks that the files a site references exist in the
// assets directory and hold the kind of media the page expects.
package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sooryaraj/folio/internal/content"
	"github.com/sooryaraj/folio/internal/errors"
)

// Kind is the media class a reference must resolve to.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
)

// accepts reports whether a detected type is valid for the kind.
func (k Kind) accepts(m *mimetype.MIME) bool {
	switch k {
	case KindImage:
		return strings.HasPrefix(m.String(), "image/")
	case KindVideo:
		// The page declares every source as video/mp4.
		return m.Is("video/mp4")
	case KindDocument:
		return m.Is("application/pdf")
	default:
		return false
	}
}

// Ref is one asset reference found in the content table.
type Ref struct {
	Field string
	Path  string
	Kind  Kind
}

// Refs lists the local asset references of site in page order. External
// URLs are not checked.
func Refs(site *content.Site) []Ref {
	var refs []Ref
	add := func(field, path string, kind Kind) {
		if isLocal(path) {
			refs = append(refs, Ref{Field: field, Path: path, Kind: kind})
		}
	}

	add("hero_image", site.HeroImage, KindImage)
	for i, p := range site.Photos {
		add(fmt.Sprintf("photos[%d].src", i), p.Src, KindImage)
	}
	for i, v := range site.Videos {
		add(fmt.Sprintf("videos[%d].src", i), v.Src, KindVideo)
	}
	add("resume", site.ResumePath, KindDocument)

	return refs
}

func isLocal(ref string) bool {
	return strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//")
}

// Result is the outcome of checking one reference.
type Result struct {
	Ref
	File string
	MIME string
	Size int64
	Err  error
}

// HumanSize formats Size for reports.
func (r Result) HumanSize() string {
	return humanize.Bytes(uint64(r.Size))
}

// Report collects the results of a Check.
type Report struct {
	Dir     string
	Results []Result
}

// TotalSize sums the sizes of the files that were found.
func (r *Report) TotalSize() int64 {
	var total int64
	for _, res := range r.Results {
		total += res.Size
	}
	return total
}

// Failed returns the results that did not pass.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err returns a validation error listing every failed reference, or nil.
func (r *Report) Err() error {
	var vec errors.ValidationErrorCollection
	for _, res := range r.Failed() {
		vec.AddField(res.Field, res.Path, res.Err.Error())
	}
	if se := vec.ToSiteError(); se != nil {
		return se.WithPath(r.Dir)
	}
	return nil
}

// Resolve maps a site reference such as /images/a.jpg to a file inside dir.
func Resolve(dir, ref string) (string, error) {
	if !isLocal(ref) {
		return "", errors.ErrInvalidPath(ref)
	}

	rel := filepath.FromSlash(strings.TrimPrefix(ref, "/"))
	if !filepath.IsLocal(rel) {
		return "", errors.ErrPathTraversal(ref)
	}

	return filepath.Join(dir, rel), nil
}

// Check inspects every reference of site against dir. It only fails when
// dir itself is unusable; per-file problems are recorded in the report.
func Check(ctx context.Context, site *content.Site, dir string) (*Report, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound, "assets directory not readable", err).WithPath(dir)
	}
	if !info.IsDir() {
		return nil, errors.ErrInvalidPath(dir).WithContext("reason", "not a directory")
	}

	report := &Report{Dir: dir}
	for _, ref := range Refs(site) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Results = append(report.Results, checkRef(dir, ref))
	}

	return report, nil
}

func checkRef(dir string, ref Ref) Result {
	res := Result{Ref: ref}

	file, err := Resolve(dir, ref.Path)
	if err != nil {
		res.Err = err
		return res
	}
	res.File = file

	info, err := os.Stat(file)
	if err != nil {
		res.Err = errors.NewIOError(errors.ErrCodeAssetMissing, "asset not found", err).WithPath(ref.Path)
		return res
	}
	if info.IsDir() {
		res.Err = errors.NewValidationError(errors.ErrCodeAssetType, "asset is a directory").WithPath(ref.Path)
		return res
	}
	res.Size = info.Size()

	m, err := mimetype.DetectFile(file)
	if err != nil {
		res.Err = errors.NewIOError(errors.ErrCodeAssetMissing, "cannot read asset", err).WithPath(ref.Path)
		return res
	}
	res.MIME = m.String()

	if !ref.Kind.accepts(m) {
		res.Err = errors.NewValidationError(errors.ErrCodeAssetType,
			fmt.Sprintf("expected %s, found %s", ref.Kind, m.String())).WithPath(ref.Path)
	}

	return res
}
