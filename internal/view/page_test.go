package view

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sooryaraj/folio/internal/contact"
	"github.com/sooryaraj/folio/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func renderPage(t *testing.T, site *content.Site, opts PageOptions) (string, *html.Node) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Page(site, opts).Render(context.Background(), &buf))

	doc, err := html.Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)
	return buf.String(), doc
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byID(doc *html.Node, id string) *html.Node {
	nodes := findAll(doc, func(n *html.Node) bool { return attr(n, "id") == id })
	if len(nodes) != 1 {
		return nil
	}
	return nodes[0]
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func defaultOptions() PageOptions {
	return PageOptions{
		Draft: contact.Draft{Subject: content.DefaultSubject},
		Year:  2026,
	}
}

func TestGalleryEntriesMatchContentOrder(t *testing.T) {
	site := content.Default()
	_, doc := renderPage(t, site, defaultOptions())

	gallery := byID(doc, "gallery")
	require.NotNil(t, gallery)
	figures := findAll(gallery, func(n *html.Node) bool { return n.Data == "figure" })
	require.Len(t, figures, len(site.Photos))
	for i, fig := range figures {
		img := findAll(fig, func(n *html.Node) bool { return n.Data == "img" })
		require.Len(t, img, 1)
		assert.Equal(t, site.Photos[i].Src, attr(img[0], "src"))
		assert.Equal(t, site.Photos[i].Title, attr(img[0], "alt"))
		assert.Equal(t, site.Photos[i].Title, textOf(fig))
	}

	videos := byID(doc, "videos")
	require.NotNil(t, videos)
	players := findAll(videos, func(n *html.Node) bool { return hasClass(n, "video") })
	require.Len(t, players, len(site.Videos))
	for i, p := range players {
		src := findAll(p, func(n *html.Node) bool { return n.Data == "source" })
		require.Len(t, src, 1)
		assert.Equal(t, site.Videos[i].Src, attr(src[0], "src"))
		assert.Equal(t, "video/mp4", attr(src[0], "type"))
		assert.Contains(t, textOf(p), site.Videos[i].Title)
	}

	projects := byID(doc, "projects")
	require.NotNil(t, projects)
	cards := findAll(projects, func(n *html.Node) bool { return hasClass(n, "project") })
	require.Len(t, cards, len(site.Projects))
	for i, card := range cards {
		assert.Equal(t, site.Projects[i].ID, attr(card, "data-id"))
		assert.Contains(t, textOf(card), site.Projects[i].Title)
		assert.Contains(t, textOf(card), site.Projects[i].Description)
	}
}

func TestGalleryCountsFollowContent(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		site := content.Default()
		site.Photos = nil
		for i := 0; i < n; i++ {
			site.Photos = append(site.Photos, content.Photo{ID: i, Src: "/images/x.jpg", Title: "x"})
		}

		_, doc := renderPage(t, site, defaultOptions())
		figures := findAll(byID(doc, "gallery"), func(n *html.Node) bool { return n.Data == "figure" })
		assert.Len(t, figures, n)
	}
}

func TestNavigationAnchors(t *testing.T) {
	_, doc := renderPage(t, content.Default(), defaultOptions())

	nav := findAll(doc, func(n *html.Node) bool { return n.Data == "nav" })
	require.Len(t, nav, 1)
	links := findAll(nav[0], func(n *html.Node) bool { return n.Data == "a" })
	require.Len(t, links, 4)

	var hrefs, labels []string
	for _, l := range links {
		hrefs = append(hrefs, attr(l, "href"))
		labels = append(labels, textOf(l))
	}
	assert.Equal(t, []string{"#gallery", "#videos", "#projects", "#contact"}, hrefs)
	assert.Equal(t, []string{"Photos", "Videos", "Projects", "Contact"}, labels)

	for _, h := range hrefs {
		assert.NotNil(t, byID(doc, strings.TrimPrefix(h, "#")), "anchor %s must exist", h)
	}
}

func TestHeroLinks(t *testing.T) {
	_, doc := renderPage(t, content.Default(), defaultOptions())

	downloads := findAll(doc, func(n *html.Node) bool {
		return n.Data == "a" && attr(n, "href") == "/resume.pdf"
	})
	require.Len(t, downloads, 1)
	hasDownload := false
	for _, a := range downloads[0].Attr {
		hasDownload = hasDownload || a.Key == "download"
	}
	assert.True(t, hasDownload)
}

func TestServerFormMode(t *testing.T) {
	opts := defaultOptions()
	opts.Draft.SenderName = `Ava "Quote" O'Brien`
	opts.Draft.MessageBody = "Hi!\n</textarea><script>alert(1)</script>"

	out, doc := renderPage(t, content.Default(), opts)

	form := byID(doc, "contact-form")
	require.NotNil(t, form)
	assert.Equal(t, "post", attr(form, "method"))
	assert.Equal(t, ContactFormAction, attr(form, "action"))

	name := byID(doc, "contact-name")
	require.NotNil(t, name)
	assert.Equal(t, opts.Draft.SenderName, attr(name, "value"))

	msg := byID(doc, "contact-message")
	require.NotNil(t, msg)
	assert.Equal(t, opts.Draft.MessageBody, textOf(msg))

	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.NotContains(t, out, mailtoScript)
}

func TestScriptFormMode(t *testing.T) {
	opts := defaultOptions()
	opts.FormMode = FormModeScript

	out, doc := renderPage(t, content.Default(), opts)

	form := byID(doc, "contact-form")
	require.NotNil(t, form)
	assert.Empty(t, attr(form, "action"))
	assert.Equal(t, content.DefaultEmail, attr(form, "data-email"))
	assert.Equal(t, content.DefaultSubject, attr(form, "data-subject"))
	assert.Contains(t, out, mailtoScript)
}

func TestDirectMailLink(t *testing.T) {
	_, doc := renderPage(t, content.Default(), defaultOptions())

	links := findAll(doc, func(n *html.Node) bool {
		return n.Data == "a" && attr(n, "href") == "mailto:sooryaraj.dev@gmail.com"
	})
	require.Len(t, links, 1)
	assert.Equal(t, "sooryaraj.dev@gmail.com", textOf(links[0]))
}

func TestNoticeAndLiveReload(t *testing.T) {
	opts := defaultOptions()
	opts.Notice = "Please fill in your name and message."
	opts.LiveReload = true

	out, doc := renderPage(t, content.Default(), opts)

	alerts := findAll(doc, func(n *html.Node) bool { return attr(n, "role") == "alert" })
	require.Len(t, alerts, 1)
	assert.Equal(t, opts.Notice, textOf(alerts[0]))
	assert.Contains(t, out, liveReloadScript)
}

func TestFooterYear(t *testing.T) {
	_, doc := renderPage(t, content.Default(), defaultOptions())

	footer := findAll(doc, func(n *html.Node) bool { return n.Data == "footer" })
	require.Len(t, footer, 1)
	assert.Contains(t, textOf(footer[0]), "2026 Sooryaraj")
}

func TestEscapesContent(t *testing.T) {
	site := content.Default()
	site.Photos[0].Title = `<img src=x onerror=alert(1)>`
	site.Projects[0].Link = "javascript:alert(1)"

	out, doc := renderPage(t, site, defaultOptions())

	assert.NotContains(t, out, "<img src=x onerror")
	assert.NotContains(t, out, `href="javascript:`)

	figures := findAll(byID(doc, "gallery"), func(n *html.Node) bool { return n.Data == "figcaption" })
	require.NotEmpty(t, figures)
	assert.Equal(t, site.Photos[0].Title, textOf(figures[0]))
}
