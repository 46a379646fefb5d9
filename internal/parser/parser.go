package parser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fjglira/xraysync/internal/domain"
)

// SheetReader loads the raw rows of a spreadsheet file.
type SheetReader interface {
	Read(filePath string) ([]domain.RawRow, error)
	SupportedExtensions() []string
}

// ReaderRegistry maps file extensions to sheet readers.
type ReaderRegistry interface {
	Register(reader SheetReader)
	ReaderFor(extension string) (SheetReader, error)
}

// DefaultRegistry is a thread-safe reader registry.
type DefaultRegistry struct {
	mu      sync.RWMutex
	readers map[string]SheetReader
}

// NewRegistry creates a new DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		readers: make(map[string]SheetReader),
	}
}

// NewDefaultRegistry returns a registry with the xlsx and csv readers.
// sheet selects the worksheet for xlsx files; empty means the active one.
func NewDefaultRegistry(sheet string) *DefaultRegistry {
	r := NewRegistry()
	r.Register(NewXLSXReader(sheet))
	r.Register(NewCSVReader())
	return r
}

// Register adds a reader to the registry for each of its supported extensions.
func (r *DefaultRegistry) Register(sr SheetReader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range sr.SupportedExtensions() {
		r.readers[normalizeExt(ext)] = sr
	}
}

// ReaderFor returns the reader registered for the given file extension.
func (r *DefaultRegistry) ReaderFor(extension string) (SheetReader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if sr, ok := r.readers[normalizeExt(extension)]; ok {
		return sr, nil
	}
	return nil, fmt.Errorf("no sheet reader registered for extension %q", extension)
}

// Extensions lists the registered extensions with a leading dot.
func (r *DefaultRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		exts = append(exts, "."+ext)
	}
	return exts
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
