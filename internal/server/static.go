package server

import (
	"io/fs"
	"net/http"
	"strings"
)

// staticHandler serves files from the assets directory. Directory listings
// and dotfiles are hidden.
func (s *Server) staticHandler() http.Handler {
	dir := s.config.Site.Assets
	if dir == "" {
		return http.NotFoundHandler()
	}
	return http.FileServer(assetFS{http.Dir(dir)})
}

type assetFS struct {
	fs http.FileSystem
}

func (a assetFS) Open(name string) (http.File, error) {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return nil, fs.ErrNotExist
		}
	}

	f, err := a.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}

	return f, nil
}
