package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	textNamespace  = "text"
	imageNamespace = "images"
)

// imageExtensions lists the blob extensions GetImagePath tries, in order.
var imageExtensions = []string{".png", ".jpg", ".webp", ".gif"}

// AssetCache is a content-addressable store for generated text and images.
// Each blob is stored under the fingerprint of the payload that produced it,
// next to a pretty-printed copy of that payload for auditing.
//
// The cache never generates anything. Callers look up a payload, generate on
// a miss and store the result. Concurrent writers for the same fingerprint are
// not coordinated; the last rename wins.
type AssetCache struct {
	root string
}

// CacheStats summarizes what is on disk.
type CacheStats struct {
	Root       string `json:"root" yaml:"root"`
	TextCount  int    `json:"text_count" yaml:"text_count"`
	ImageCount int    `json:"image_count" yaml:"image_count"`
	TotalBytes int64  `json:"total_bytes" yaml:"total_bytes"`
}

// NewAssetCache creates a cache rooted at root. Directories are created
// lazily on the first write.
func NewAssetCache(root string) *AssetCache {
	return &AssetCache{root: root}
}

// Root returns the cache root directory.
func (c *AssetCache) Root() string {
	return c.root
}

// EnsureDirs creates the namespace directories.
func (c *AssetCache) EnsureDirs() error {
	for _, ns := range []string{textNamespace, imageNamespace} {
		dir := filepath.Join(c.root, ns)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &StorageError{Path: dir, Op: "mkdir", Err: err}
		}
	}
	return nil
}

// GetText returns the cached text for payload, if present.
func (c *AssetCache) GetText(payload any) (string, bool, error) {
	fp, err := Fingerprint(payload)
	if err != nil {
		return "", false, err
	}
	path := c.textPath(fp)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Path: path, Op: "read", Err: err}
	}
	return string(data), true, nil
}

// SetText stores text under the fingerprint of payload.
func (c *AssetCache) SetText(payload any, text string) error {
	fp, err := Fingerprint(payload)
	if err != nil {
		return err
	}
	path := c.textPath(fp)
	if err := writeFileAtomic(path, []byte(text)); err != nil {
		return err
	}
	if err := c.writePayload(textNamespace, fp, payload); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// GetImagePath returns the path of the cached image for payload, if present.
func (c *AssetCache) GetImagePath(payload any) (string, bool, error) {
	fp, err := Fingerprint(payload)
	if err != nil {
		return "", false, err
	}
	for _, ext := range imageExtensions {
		path := filepath.Join(c.root, imageNamespace, fp+ext)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", false, &StorageError{Path: path, Op: "stat", Err: err}
		}
		if info.Mode().IsRegular() {
			return path, true, nil
		}
	}
	return "", false, nil
}

// SetImage stores image bytes under the fingerprint of payload and returns
// the blob path. The file extension follows the sniffed content type, and
// blobs of the same fingerprint with another extension are removed. A blob
// whose payload sibling cannot be written is removed again.
func (c *AssetCache) SetImage(payload any, data []byte) (string, error) {
	fp, err := Fingerprint(payload)
	if err != nil {
		return "", err
	}
	ext := sniffImageExtension(data)
	path := filepath.Join(c.root, imageNamespace, fp+ext)
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	if err := c.writePayload(imageNamespace, fp, payload); err != nil {
		os.Remove(path)
		return "", err
	}
	for _, other := range imageExtensions {
		if other == ext {
			continue
		}
		stale := filepath.Join(c.root, imageNamespace, fp+other)
		if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", &StorageError{Path: stale, Op: "remove", Err: err}
		}
	}
	return path, nil
}

// Stats walks the cache and counts blobs. A missing root is an empty cache.
func (c *AssetCache) Stats() (*CacheStats, error) {
	stats := &CacheStats{Root: c.root}
	for _, ns := range []string{textNamespace, imageNamespace} {
		dir := filepath.Join(c.root, ns)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &StorageError{Path: dir, Op: "read", Err: err}
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.HasSuffix(entry.Name(), ".json") || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			stats.TotalBytes += info.Size()
			if ns == textNamespace {
				stats.TextCount++
			} else {
				stats.ImageCount++
			}
		}
	}
	return stats, nil
}

// Clear removes every cached asset.
func (c *AssetCache) Clear() error {
	for _, ns := range []string{textNamespace, imageNamespace} {
		dir := filepath.Join(c.root, ns)
		if err := os.RemoveAll(dir); err != nil {
			return &StorageError{Path: dir, Op: "remove", Err: err}
		}
	}
	return nil
}

func (c *AssetCache) textPath(fp string) string {
	return filepath.Join(c.root, textNamespace, fp+".txt")
}

// writePayload stores the payload sibling as indented JSON with sorted keys.
func (c *AssetCache) writePayload(ns, fp string, payload any) error {
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, canonical, "", "  "); err != nil {
		return fmt.Errorf("failed to indent payload: %w", err)
	}
	pretty.WriteByte('\n')
	return writeFileAtomic(filepath.Join(c.root, ns, fp+".json"), pretty.Bytes())
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so readers never observe a partial blob.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StorageError{Path: dir, Op: "mkdir", Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return &StorageError{Path: path, Op: "create", Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return &StorageError{Path: path, Op: "chmod", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &StorageError{Path: path, Op: "rename", Err: err}
	}
	return nil
}

// sniffImageExtension maps image content to a blob extension, defaulting to
// .png for anything unrecognized.
func sniffImageExtension(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
