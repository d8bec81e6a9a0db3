package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage abstracts the audio blob store. Paths are slash-separated keys
// relative to the store's root.
type Storage interface {
	Put(path string, data []byte) error
	Get(path string) ([]byte, error)
	Size(path string) (int64, error)
	Delete(path string) error
	URL(path string) string
}

// TempAudioPath returns a uuid-keyed path inside the given provider's
// temporary namespace. Concurrent generations never collide here.
func TempAudioPath(service, format string) string {
	return path.Join("tmp", service, uuid.NewString()+"."+format)
}

// PodcastPath returns a uuid-keyed path for a final concatenated artifact.
func PodcastPath(format string) string {
	return path.Join("podcasts", uuid.NewString()+"."+format)
}

// Disk stores blobs under a base directory on the local filesystem.
type Disk struct {
	base    string
	baseURL string
}

// NewDisk creates a disk store rooted at base. baseURL is the public
// prefix returned by URL for final artifacts.
func NewDisk(base, baseURL string) *Disk {
	return &Disk{base: base, baseURL: baseURL}
}

func (d *Disk) fullPath(p string) string {
	return filepath.Join(d.base, filepath.FromSlash(p))
}

func (d *Disk) Put(p string, data []byte) error {
	full := d.fullPath(p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (d *Disk) Get(p string) ([]byte, error) {
	return os.ReadFile(d.fullPath(p))
}

func (d *Disk) Size(p string) (int64, error) {
	info, err := os.Stat(d.fullPath(p))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (d *Disk) Delete(p string) error {
	return os.Remove(d.fullPath(p))
}

// URL maps a stored artifact to its public address. Audio files are
// served flat under /audio by their base name.
func (d *Disk) URL(p string) string {
	return fmt.Sprintf("%s/audio/%s", d.baseURL, path.Base(p))
}
