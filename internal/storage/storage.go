package storage

import (
	"context"
	"path/filepath"
	"strings"
)

// BackgroundProvider returns a local path to a random background image.
type BackgroundProvider interface {
	RandomBackground(ctx context.Context) (string, error)
}

// ArtifactStore publishes a rendered file and returns its public URL.
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, name string) (string, error)
}

func isBackgroundImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}
