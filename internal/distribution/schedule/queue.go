package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileList is a bounded list mirrored to a JSON file after every change.
// When full, the oldest item is dropped to make room.
type fileList[T any] struct {
	items    []T
	mu       sync.RWMutex
	dataFile string
	maxSize  int
}

func newFileList[T any](dataDir, filename string, maxSize int) *fileList[T] {
	l := &fileList[T]{
		items:    make([]T, 0),
		dataFile: filepath.Join(dataDir, filename),
		maxSize:  maxSize,
	}
	l.load()
	return l
}

func (l *fileList[T]) Add(item T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, item)
	if l.maxSize > 0 && len(l.items) > l.maxSize {
		l.items = l.items[len(l.items)-l.maxSize:]
	}
	return l.save()
}

func (l *fileList[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *fileList[T]) List() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]T, len(l.items))
	copy(result, l.items)
	return result
}

func (l *fileList[T]) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = make([]T, 0)
	return l.save()
}

func (l *fileList[T]) FindAndRemove(predicate func(T) bool) (*T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range l.items {
		if predicate(item) {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return &item, l.save()
		}
	}
	return nil, nil
}

func (l *fileList[T]) Filter(predicate func(T) bool) []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []T
	for _, item := range l.items {
		if predicate(item) {
			result = append(result, item)
		}
	}
	return result
}

func (l *fileList[T]) load() {
	data, err := os.ReadFile(l.dataFile)
	if err != nil {
		return
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return
	}

	l.items = items
}

func (l *fileList[T]) save() error {
	data, err := json.MarshalIndent(l.items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(l.dataFile), err)
	}

	if err := os.MkdirAll(filepath.Dir(l.dataFile), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(l.dataFile), err)
	}
	if err := os.WriteFile(l.dataFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", l.dataFile, err)
	}
	return nil
}
