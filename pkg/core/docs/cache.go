package docs

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
)

// TextCache provides file-based caching of extracted text keyed by content
// hash and detected format.
type TextCache struct {
	cacheDir string
}

// NewTextCache creates a cache under dir.
func NewTextCache(dir string) *TextCache {
	os.MkdirAll(dir, 0755)
	return &TextCache{cacheDir: dir}
}

func (c *TextCache) filePath(hash string) string {
	return filepath.Join(c.cacheDir, hash+".txt")
}

// Get returns cached text for a key.
func (c *TextCache) Get(hash string) (string, bool) {
	data, err := os.ReadFile(c.filePath(hash))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set stores text under a key.
func (c *TextCache) Set(hash, text string) error {
	return os.WriteFile(c.filePath(hash), []byte(text), 0644)
}

// ContentHash returns the MD5 hex digest of data.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}
