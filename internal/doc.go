// Package internal contains the implementation packages of folio.
//
// # Package Organization
//
//   - content: the immutable content table (photos, videos, projects) and
//     its YAML loader and atomic store
//   - contact: the contact form controller and mailto: URI encoding
//   - view: templ components rendering the page
//   - server: HTTP handlers, middleware and security headers
//   - livereload: websocket hub telling open pages to reload
//   - watcher: debounced fsnotify watching of content and assets
//   - assets: media type checks of referenced asset files
//   - build: static export (index.html, sitemap.xml, robots.txt, assets)
//   - config: viper-backed configuration with validation
//   - errors: structured SiteError types
//   - logging: slog-based structured logging
//   - version: build metadata
//
// # Data Flow
//
// Content is loaded once into a content.Store. Each request renders the
// current snapshot with view.Page and, for a form post, runs a fresh
// contact.Controller whose Submit result becomes a 303 redirect to the
// mailto: URI. In development a watcher reloads the store and the live
// reload hub tells open pages to refresh.
package internal
