// Package content holds the portfolio's content tables: site identity, the
// photo and video galleries, and the project list.
//
// A Site is loaded once (from the built-in defaults, optionally overlaid by a
// YAML file) and is never mutated afterwards. Callers that need to hold on to
// lists get copies, so a Site can be shared freely between request handlers.
package content

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Photo is one entry of the photo gallery.
type Photo struct {
	ID    int    `yaml:"id" json:"id"`
	Src   string `yaml:"src" json:"src"`
	Title string `yaml:"title" json:"title"`
}

// Video is one entry of the video gallery.
type Video struct {
	ID    int    `yaml:"id" json:"id"`
	Src   string `yaml:"src" json:"src"`
	Title string `yaml:"title" json:"title"`
}

// Project is one entry of the project list.
type Project struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Link        string `yaml:"link,omitempty" json:"link,omitempty"`
}

// Href returns the project link, "#" when none is set.
func (p Project) Href() string {
	if p.Link == "" {
		return "#"
	}
	return p.Link
}

// Section is a navigation anchor on the page.
type Section struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// DisplayLabel returns the configured label or a title-cased ID.
func (s Section) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return cases.Title(language.English).String(strings.ReplaceAll(s.ID, "-", " "))
}

// Site is the complete content table for one portfolio page.
type Site struct {
	Name       string    `yaml:"name" json:"name"`
	Tagline    string    `yaml:"tagline" json:"tagline"`
	Email      string    `yaml:"email" json:"email"`
	Subject    string    `yaml:"subject" json:"subject"`
	Intro      string    `yaml:"intro" json:"intro"`
	HeroImage  string    `yaml:"hero_image" json:"hero_image"`
	ResumePath string    `yaml:"resume" json:"resume"`
	Credits    string    `yaml:"credits" json:"credits"`
	Sections   []Section `yaml:"sections" json:"sections"`
	Photos     []Photo   `yaml:"photos" json:"photos"`
	Videos     []Video   `yaml:"videos" json:"videos"`
	Projects   []Project `yaml:"projects" json:"projects"`
}

// Default recipient and subject used by the contact form.
const (
	DefaultEmail   = "sooryaraj.dev@gmail.com"
	DefaultSubject = "Portfolio Inquiry"
)

// Default returns the built-in content table.
func Default() *Site {
	return &Site{
		Name:    "Sooryaraj",
		Tagline: "Full Stack Developer, Photographer & Video/Photo Editor",
		Email:   DefaultEmail,
		Subject: DefaultSubject,
		Intro: "I build web applications, capture stunning photos, and edit cinematic videos. " +
			"I blend technology with artistry to create digital experiences that inspire.",
		HeroImage:  "/images/hero.jpg",
		ResumePath: "/resume.pdf",
		Credits:    "Built with Go & templ",
		Sections: []Section{
			{ID: "gallery", Label: "Photos"},
			{ID: "videos"},
			{ID: "projects"},
			{ID: "contact"},
		},
		Photos: []Photo{
			{ID: 1, Src: "/images/photo1.jpg", Title: "Sunset over the Bay"},
			{ID: 2, Src: "/images/photo2.jpg", Title: "Urban Portrait"},
			{ID: 3, Src: "/images/photo3.jpg", Title: "Mountain Trail"},
		},
		Videos: []Video{
			{ID: 1, Src: "/videos/video1.mp4", Title: "Event Highlight Reel"},
			{ID: 2, Src: "/videos/video2.mp4", Title: "Short Cinematic Clip"},
		},
		Projects: []Project{
			{ID: "p1", Title: "E-commerce SPA", Description: "React + Node.js + MongoDB. Real-time inventory."},
			{ID: "p2", Title: "Portfolio CMS", Description: "Next.js + Sanity CMS for dynamic updates."},
			{ID: "p3", Title: "Photo Print Shop", Description: "Stripe integration for photo prints."},
		},
	}
}

// Clone returns a deep copy of the site.
func (s *Site) Clone() *Site {
	c := *s
	c.Sections = slices.Clone(s.Sections)
	c.Photos = slices.Clone(s.Photos)
	c.Videos = slices.Clone(s.Videos)
	c.Projects = slices.Clone(s.Projects)
	return &c
}

// String summarizes the table for logs.
func (s *Site) String() string {
	return fmt.Sprintf("%s <%s>: %d photos, %d videos, %d projects",
		s.Name, s.Email, len(s.Photos), len(s.Videos), len(s.Projects))
}
