// ABOUTME: Sound effect loader for URLs and local files
// ABOUTME: Fetches effect files over HTTP or from disk with an optional disk cache
package assets

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Loader loads sound effect bytes. It satisfies audiogate.Fetcher.
type Loader struct {
	cacheDir string
	client   *http.Client

	mu     sync.Mutex
	memory map[string][]byte
}

// NewLoader creates a loader. With an empty cacheDir downloads are kept in
// memory for the life of the process.
func NewLoader(cacheDir string) (*Loader, error) {
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	return &Loader{
		cacheDir: cacheDir,
		client:   &http.Client{},
		memory:   make(map[string][]byte),
	}, nil
}

// Load returns the bytes at location: an http(s) URL, a file:// URL or a
// plain path. Remote responses other than 2xx are errors. Failures are not
// retried.
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, fmt.Errorf("empty sound location")
	}

	u, err := url.Parse(location)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return l.loadRemote(ctx, location)
		case "file":
			return readFile(u.Path)
		}
	}
	return readFile(location)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound file: %w", err)
	}
	return data, nil
}

func (l *Loader) loadRemote(ctx context.Context, location string) ([]byte, error) {
	if data, ok := l.cached(location); ok {
		log.Printf("Sound cache hit: %s", location)
		return data, nil
	}

	log.Printf("Downloading sound: %s", location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download sound: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("sound download failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound: %w", err)
	}

	l.store(location, data)
	return data, nil
}

func (l *Loader) cached(location string) ([]byte, bool) {
	if l.cacheDir == "" {
		l.mu.Lock()
		defer l.mu.Unlock()
		data, ok := l.memory[location]
		return data, ok
	}

	data, err := os.ReadFile(l.cachePath(location))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (l *Loader) store(location string, data []byte) {
	if l.cacheDir == "" {
		l.mu.Lock()
		l.memory[location] = data
		l.mu.Unlock()
		return
	}

	path := l.cachePath(location)
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Failed to cache sound %s: %v", location, err)
		os.Remove(path)
		return
	}
	log.Printf("Sound saved: %s", path)
}

// cachePath derives the cache file name from a URL hash
func (l *Loader) cachePath(location string) string {
	hash := sha256.Sum256([]byte(location))
	return filepath.Join(l.cacheDir, fmt.Sprintf("%x%s", hash[:8], getExtension(location)))
}

// getExtension extracts file extension from URL
func getExtension(location string) string {
	// Remove query string
	location = strings.Split(location, "?")[0]

	ext := filepath.Ext(location)
	if ext == "" {
		ext = ".bin"
	}
	return ext
}

// Cleanup removes cached sounds
func (l *Loader) Cleanup() error {
	l.mu.Lock()
	l.memory = make(map[string][]byte)
	l.mu.Unlock()

	if l.cacheDir == "" {
		return nil
	}
	return os.RemoveAll(l.cacheDir)
}
