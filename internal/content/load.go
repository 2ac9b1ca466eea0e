package content

import (
	"bytes"
	"fmt"
	"net/mail"
	"os"
	"strings"

	siteerrors "github.com/sooryaraj/folio/internal/errors"
	"gopkg.in/yaml.v3"
)

// Parse overlays a YAML document on top of the defaults. Keys that are
// absent keep their default value; lists that are present replace the
// default list entirely.
func Parse(data []byte) (*Site, error) {
	site := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return site, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(site); err != nil {
		return nil, siteerrors.NewContentError(siteerrors.ErrCodeContentParse, "cannot parse content", err)
	}

	if err := Validate(site); err != nil {
		return nil, err
	}
	return site, nil
}

// LoadFile reads and validates a content file. An empty path yields the
// defaults.
func LoadFile(path string) (*Site, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, siteerrors.NewIOError(siteerrors.ErrCodeFileNotFound, "content file not found", err).WithPath(path)
		}
		return nil, siteerrors.NewIOError(siteerrors.ErrCodeInternalError, "cannot read content file", err).WithPath(path)
	}

	site, err := Parse(data)
	if err != nil {
		if se, ok := err.(*siteerrors.SiteError); ok {
			return nil, se.WithPath(path)
		}
		return nil, err
	}
	return site, nil
}

// Marshal renders the site as YAML, suitable as a starting content file.
func Marshal(site *Site) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(site); err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks the invariants the page relies on: identity fields are
// present, the recipient is a bare address, every list entry has a source
// and a title, and IDs are unique within their list.
func Validate(site *Site) error {
	var vec siteerrors.ValidationErrorCollection

	if strings.TrimSpace(site.Name) == "" {
		vec.AddField("name", site.Name, "must not be empty")
	}
	if err := validateEmail(site.Email); err != nil {
		vec.AddField("email", site.Email, err.Error(), "use a bare address such as me@example.com")
	}
	if strings.TrimSpace(site.Subject) == "" {
		vec.AddField("subject", site.Subject, "must not be empty")
	}

	seenSections := make(map[string]bool, len(site.Sections))
	for i, s := range site.Sections {
		field := fmt.Sprintf("sections[%d].id", i)
		switch {
		case s.ID == "" || strings.ContainsAny(s.ID, " #\"'<>"):
			vec.AddField(field, s.ID, "must be a non-empty anchor name without spaces")
		case seenSections[s.ID]:
			vec.AddField(field, s.ID, "duplicate section id")
		}
		seenSections[s.ID] = true
	}

	seenPhotos := make(map[int]bool, len(site.Photos))
	for i, p := range site.Photos {
		checkMedia(&vec, fmt.Sprintf("photos[%d]", i), p.Src, p.Title)
		if seenPhotos[p.ID] {
			vec.AddField(fmt.Sprintf("photos[%d].id", i), p.ID, "duplicate photo id")
		}
		seenPhotos[p.ID] = true
	}

	seenVideos := make(map[int]bool, len(site.Videos))
	for i, v := range site.Videos {
		checkMedia(&vec, fmt.Sprintf("videos[%d]", i), v.Src, v.Title)
		if seenVideos[v.ID] {
			vec.AddField(fmt.Sprintf("videos[%d].id", i), v.ID, "duplicate video id")
		}
		seenVideos[v.ID] = true
	}

	seenProjects := make(map[string]bool, len(site.Projects))
	for i, p := range site.Projects {
		prefix := fmt.Sprintf("projects[%d]", i)
		if p.ID == "" {
			vec.AddField(prefix+".id", p.ID, "must not be empty")
		} else if seenProjects[p.ID] {
			vec.AddField(prefix+".id", p.ID, "duplicate project id")
		}
		seenProjects[p.ID] = true
		if strings.TrimSpace(p.Title) == "" {
			vec.AddField(prefix+".title", p.Title, "must not be empty")
		}
	}

	if se := vec.ToSiteError(); se != nil {
		se.Type = siteerrors.ErrorTypeContent
		se.Code = siteerrors.ErrCodeContentInvalid
		return se
	}
	return nil
}

func checkMedia(vec *siteerrors.ValidationErrorCollection, prefix, src, title string) {
	if strings.TrimSpace(src) == "" {
		vec.AddField(prefix+".src", src, "must not be empty")
	} else if strings.Contains(src, "..") {
		vec.AddField(prefix+".src", src, "must not contain '..'")
	}
	if strings.TrimSpace(title) == "" {
		vec.AddField(prefix+".title", title, "must not be empty")
	}
}

func validateEmail(addr string) error {
	if addr == "" {
		return fmt.Errorf("must not be empty")
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return fmt.Errorf("not a valid address: %w", err)
	}
	if parsed.Address != addr {
		return fmt.Errorf("must be a bare address without a display name")
	}
	return nil
}
