package server

import (
	"context"
	"path/filepath"

	"github.com/sooryaraj/folio/internal/watcher"
)

// setupFileWatcher watches the content file and the assets directory. A
// content change reloads the store; any change tells open pages to reload.
func (s *Server) setupFileWatcher(ctx context.Context) error {
	var filters []watcher.FileFilter

	contentPath := s.store.Path()
	if contentPath != "" {
		abs, err := filepath.Abs(contentPath)
		if err != nil {
			return err
		}
		contentPath = abs
		if err := s.watcher.AddFile(contentPath); err != nil {
			return err
		}
		filters = append(filters, watcher.ExactFileFilter(contentPath))
	}

	if assets := s.config.Site.Assets; assets != "" {
		abs, err := filepath.Abs(assets)
		if err != nil {
			return err
		}
		if err := s.watcher.AddRecursive(abs); err != nil {
			s.logger.Warn(ctx, err, "Not watching assets", "dir", abs)
		} else {
			filters = append(filters, watcher.UnderDirFilter(abs))
		}
	}

	if len(filters) == 0 {
		return nil
	}

	s.watcher.AddFilter(watcher.AnyOf(filters...))
	s.watcher.AddFilter(watcher.NoHiddenFilter)
	s.watcher.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		return s.handleFileChange(ctx, contentPath, events)
	})

	return s.watcher.Start(ctx)
}

func (s *Server) handleFileChange(ctx context.Context, contentPath string, events []watcher.ChangeEvent) error {
	reason := "assets changed"

	for _, event := range events {
		s.logger.Debug(ctx, "File changed", "path", event.Path, "type", event.Type.String())

		if contentPath != "" && event.Path == contentPath {
			reason = "content changed"
			if err := s.store.Reload(ctx); err != nil {
				// The previous snapshot is still served; no reload.
				return err
			}
		}
	}

	if s.hub != nil {
		s.hub.NotifyReload(reason)
	}
	return nil
}
