// Package blob stores uploaded post images and hands out their public URLs.
package blob

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Store is the object store behind post images. Save places the object
// under a key namespaced by the uploader and returns its public URL;
// Remove takes that URL back and deletes the object.
type Store interface {
	Save(userID, ext string, r io.Reader) (string, error)
	Remove(fileURL string) error
}

// DiskStore keeps objects on the local filesystem under
// {root}/{userID}/{epochMillis}{ext} and serves them below baseURL.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create upload dir: %w", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *DiskStore) Save(userID, ext string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), ext)
	dir := filepath.Join(s.root, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("blob: create user dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("blob: create object: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("blob: write object: %w", err)
	}
	return s.baseURL + "/" + userID + "/" + name, nil
}

func (s *DiskStore) Remove(fileURL string) error {
	key, ok := strings.CutPrefix(fileURL, s.baseURL+"/")
	if !ok {
		return fmt.Errorf("blob: url %q is not under %s", fileURL, s.baseURL)
	}
	key = path.Clean(key)
	if key == "." || strings.HasPrefix(key, "..") || path.IsAbs(key) {
		return fmt.Errorf("blob: invalid object key %q", key)
	}
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key))); err != nil {
		return fmt.Errorf("blob: remove object %q: %w", key, err)
	}
	return nil
}
