package storage

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

type LocalStorage struct {
	backgroundDir string
	outputDir     string
}

func NewLocalStorage(backgroundDir, outputDir string) *LocalStorage {
	return &LocalStorage{
		backgroundDir: backgroundDir,
		outputDir:     outputDir,
	}
}

func (s *LocalStorage) RandomBackground(ctx context.Context) (string, error) {
	images, err := s.ListBackgrounds()
	if err != nil {
		return "", err
	}

	if len(images) == 0 {
		return "", fmt.Errorf("no background images found in %s", s.backgroundDir)
	}

	return images[rand.Intn(len(images))], nil
}

func (s *LocalStorage) ListBackgrounds() ([]string, error) {
	entries, err := os.ReadDir(s.backgroundDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read background directory: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() || !isBackgroundImage(entry.Name()) {
			continue
		}
		images = append(images, filepath.Join(s.backgroundDir, entry.Name()))
	}

	return images, nil
}

func (s *LocalStorage) EnsureDirectories() error {
	if err := os.MkdirAll(s.backgroundDir, 0755); err != nil {
		return fmt.Errorf("failed to create background directory: %w", err)
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return nil
}
