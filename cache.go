package heatmap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"
)

// Signature identifies a version of a dataset file.
type Signature struct {
	ModTime time.Time
	Size    int64
}

// Equal reports whether both signatures denote the same file version.
func (s Signature) Equal(o Signature) bool { return s.ModTime.Equal(o.ModTime) && s.Size == o.Size }

// Stat returns the current signature of the dataset at path.
func Stat(path string) (Signature, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return Signature{}, fmt.Errorf("%w: %q", ErrDatasetNotFound, path)
	}
	if err != nil {
		return Signature{}, fmt.Errorf("%w: cannot stat %q: %v", ErrDatasetUnreadable, path, err)
	}
	return Signature{ModTime: info.ModTime(), Size: info.Size()}, nil
}

// Cache memoizes loaded tables by path and file signature, so that repeated
// requests within a session do not parse the file again.
// Cached tables are shared and must not be modified.
//
// Its zero value is ready to use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	loads   int
	hits    int
}

type cacheEntry struct {
	sig   Signature
	table *MerchantTable
}

// Load returns the table at path, parsing it only if the file signature
// changed since the last call.
func (c *Cache) Load(path string) (*MerchantTable, Signature, error) {
	sig, err := Stat(path)
	if err != nil {
		return nil, Signature{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[path]; ok && e.sig.Equal(sig) {
		c.hits++
		return e.table, sig, nil
	}

	table, err := Load(path)
	if err != nil {
		return nil, Signature{}, err
	}
	if c.entries == nil {
		c.entries = make(map[string]cacheEntry)
	}
	c.entries[path] = cacheEntry{sig: sig, table: table}
	c.loads++
	return table, sig, nil
}

// Stats returns the number of file parses and cache hits so far.
func (c *Cache) Stats() (loads, hits int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads, c.hits
}
