package build

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// linkAttrs are the attributes that point at files the page loads or offers.
var linkAttrs = map[string]bool{"src": true, "href": true, "poster": true}

// LocalLinks returns the site-relative links in an HTML document, in
// document order and without duplicates. Fragments, queries, external URLs
// and non-HTTP schemes are ignored.
func LocalLinks(doc *html.Node) []string {
	seen := make(map[string]bool)
	var links []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if !linkAttrs[a.Key] {
					continue
				}
				link := localPath(a.Val)
				if link != "" && !seen[link] {
					seen[link] = true
					links = append(links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

func localPath(ref string) string {
	if !strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "//") {
		return ""
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if ref == "/" {
		return ""
	}
	return ref
}

// CheckLinks parses the page at indexPath and returns the local links that
// do not resolve to a file under root.
func CheckLinks(indexPath, root string) ([]string, error) {
	f, err := os.Open(indexPath)
	if err != nil {
		return nil, exportError("failed to open exported page", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, exportError("failed to parse exported page", err)
	}

	var missing []string
	for _, link := range LocalLinks(doc) {
		rel := filepath.FromSlash(strings.TrimPrefix(link, "/"))
		if !filepath.IsLocal(rel) {
			missing = append(missing, link)
			continue
		}
		info, err := os.Stat(filepath.Join(root, rel))
		if err != nil || info.IsDir() {
			missing = append(missing, link)
		}
	}

	return missing, nil
}
