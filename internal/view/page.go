// Package view renders the portfolio page as templ components.
//
// Every section is its own component so handlers and tests can render parts
// of the page in isolation. Components only read the content table and the
// contact draft they are given.
package view

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/sooryaraj/folio/internal/contact"
	"github.com/sooryaraj/folio/internal/content"
)

// FormMode selects how the contact form reaches the mail client.
type FormMode int

const (
	// FormModeServer posts the form to the server, which redirects to the
	// mailto: URI.
	FormModeServer FormMode = iota
	// FormModeScript builds the mailto: URI in the browser. Used for the
	// static export where no server is available.
	FormModeScript
)

// ContactFormAction is where the form posts in FormModeServer.
const ContactFormAction = "/contact"

// PageOptions carries per-render state.
type PageOptions struct {
	Draft      contact.Draft
	Notice     string
	FormMode   FormMode
	LiveReload bool
	Year       int
}

// Page renders the full HTML document.
func Page(site *content.Site, opts PageOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw("<!DOCTYPE html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(site.Name + " | " + site.Tagline)
		h.raw("</title>")
		h.raw(`<meta name="description"`)
		h.attr("content", site.Tagline)
		h.raw("></head><body class=\"page\">")

		h.render(ctx, Header(site))
		h.raw("<main>")
		h.render(ctx, Hero(site))
		h.render(ctx, PhotoGallery(site.Photos))
		h.render(ctx, VideoGallery(site.Videos))
		h.render(ctx, ProjectList(site.Projects))
		h.render(ctx, ContactSection(site, opts))
		h.raw("</main>")
		h.render(ctx, Footer(site, opts.Year))

		if opts.FormMode == FormModeScript {
			h.raw("<script>" + mailtoScript + "</script>")
		}
		if opts.LiveReload {
			h.raw("<script>" + liveReloadScript + "</script>")
		}
		h.raw("</body></html>\n")
		return h.err
	})
}

// Header renders the site name and the section navigation.
func Header(site *content.Site) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<header class="site-header"><div class="container"><h1>`)
		h.text(site.Name)
		h.raw(`</h1><nav>`)
		for _, s := range site.Sections {
			h.raw("<a")
			h.urlAttr("href", templ.URL("#"+s.ID))
			h.raw(">")
			h.text(s.DisplayLabel())
			h.raw("</a>")
		}
		h.raw("</nav></div></header>")
		return h.err
	})
}

// Hero renders the introduction with the contact and resume buttons.
func Hero(site *content.Site) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="hero"><div class="hero-text"><h2>Hi, I'm `)
		h.text(site.Name)
		h.raw(".</h2><p>")
		h.text(site.Intro)
		h.raw(`</p><div class="actions"><a class="button primary" href="#contact">Hire / Contact</a>`)
		if site.ResumePath != "" {
			h.raw(`<a class="button secondary"`)
			h.urlAttr("href", templ.URL(site.ResumePath))
			h.raw(` download>Download Resume</a>`)
		}
		h.raw(`</div></div>`)
		if site.HeroImage != "" {
			h.raw(`<div class="hero-image"><img`)
			h.urlAttr("src", templ.URL(site.HeroImage))
			h.raw(` alt="Hero"></div>`)
		}
		h.raw(`</section>`)
		return h.err
	})
}

// PhotoGallery renders one figure per photo, in list order.
func PhotoGallery(photos []content.Photo) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="gallery" class="container"><h3>Photography</h3><div class="grid grid-3">`)
		for _, p := range photos {
			h.raw(`<figure class="photo"`)
			h.intAttr("data-id", p.ID)
			h.raw("><img")
			h.urlAttr("src", templ.URL(p.Src))
			h.attr("alt", p.Title)
			h.raw(` loading="lazy"><figcaption>`)
			h.text(p.Title)
			h.raw("</figcaption></figure>")
		}
		h.raw(`</div></section>`)
		return h.err
	})
}

// VideoGallery renders one player per video, in list order.
func VideoGallery(videos []content.Video) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="videos" class="container"><h3>Videography</h3><div class="grid grid-2">`)
		for _, v := range videos {
			h.raw(`<div class="video"`)
			h.intAttr("data-id", v.ID)
			h.raw(`><video controls preload="metadata"><source`)
			h.urlAttr("src", templ.URL(v.Src))
			h.raw(` type="video/mp4"></video><div class="caption">`)
			h.text(v.Title)
			h.raw("</div></div>")
		}
		h.raw(`</div></section>`)
		return h.err
	})
}

// ProjectList renders one card per project, in list order.
func ProjectList(projects []content.Project) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="projects" class="container"><h3>Web Projects</h3><div class="grid grid-3">`)
		for _, p := range projects {
			h.raw(`<div class="project"`)
			h.attr("data-id", p.ID)
			h.raw("><h4>")
			h.text(p.Title)
			h.raw("</h4><p>")
			h.text(p.Description)
			h.raw("</p><a")
			h.urlAttr("href", templ.URL(p.Href()))
			h.raw(">View Project &rarr;</a></div>")
		}
		h.raw(`</div></section>`)
		return h.err
	})
}

// ContactSection renders the form, pre-filled from opts.Draft, and the
// plain mailto link below it.
func ContactSection(site *content.Site, opts PageOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="contact" class="contact"><div class="container"><h3>Contact Me</h3>`)
		if opts.Notice != "" {
			h.raw(`<p class="notice" role="alert">`)
			h.text(opts.Notice)
			h.raw(`</p>`)
		}

		h.raw(`<form id="contact-form" class="card"`)
		switch opts.FormMode {
		case FormModeScript:
			h.attr("data-email", site.Email)
			h.attr("data-subject", subjectOrDefault(opts.Draft.Subject, site.Subject))
		default:
			h.attr("method", "post")
			h.attr("action", ContactFormAction)
		}
		h.raw(">")

		h.raw(`<label for="contact-name">Your Name</label><input id="contact-name" name="name" type="text"`)
		h.attr("value", opts.Draft.SenderName)
		h.raw(` required>`)
		h.raw(`<label for="contact-message">Message</label><textarea id="contact-message" name="message" rows="5" required>`)
		// A newline right after the start tag is dropped by parsers; emit one
		// so a message that starts with a newline survives.
		h.raw("\n")
		h.text(opts.Draft.MessageBody)
		h.raw(`</textarea>`)
		if opts.FormMode == FormModeServer {
			h.raw(`<input type="hidden" name="subject"`)
			h.attr("value", subjectOrDefault(opts.Draft.Subject, site.Subject))
			h.raw(">")
		}
		h.raw(`<button type="submit">Send Message</button></form>`)

		h.raw(`<div class="direct"><p>Or email me directly at:</p><a`)
		h.urlAttr("href", templ.SafeURL("mailto:"+site.Email))
		h.raw(">")
		h.text(site.Email)
		h.raw("</a></div></div></section>")
		return h.err
	})
}

// Footer renders the copyright line.
func Footer(site *content.Site, year int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<footer class="site-footer">&copy; `)
		h.text(strconv.Itoa(year) + " " + site.Name)
		if site.Credits != "" {
			h.text(" | " + site.Credits)
		}
		h.raw("</footer>")
		return h.err
	})
}

func subjectOrDefault(subject, fallback string) string {
	if subject == "" {
		return fallback
	}
	return subject
}
