// Package fileobj implements the external file-object contract the core
// consumes for SST storage: random-access reads, a size query, and
// whole-file creation. The core never reaches for os.* directly; it only
// ever talks to this interface, so a non-local backend (see s3_store.go) can
// stand in for it without touching any other package.
package fileobj

import (
	"fmt"
	"os"
	"path/filepath"
)

// File is the random-access, whole-file-write abstraction the SST layer is
// built against.
type File interface {
	// ReadAt returns the len bytes starting at offset.
	ReadAt(offset, length uint64) ([]byte, error)
	// Size returns the total size of the file in bytes.
	Size() (uint64, error)
}

// Store creates and opens SST files by id within a directory. LocalStore is
// its local-disk implementation; S3Store is an S3-backed implementation of
// the same interface.
type Store interface {
	// Create writes data as a new file named by SSTPath(id) and returns a
	// File handle open for reading it back.
	Create(id uint64, data []byte) (File, error)
	// Open returns a File handle for the existing SST with the given id.
	Open(id uint64) (File, error)
	// List returns the ids of every SST file currently present, in
	// ascending order.
	List() ([]uint64, error)
}

// SSTName formats the on-disk filename for an SST: a 5-digit
// zero-padded id with a ".sst" suffix.
func SSTName(id uint64) string {
	return fmt.Sprintf("%05d.sst", id)
}

// localFile is the os-backed File implementation.
type localFile struct {
	path string
}

func (f *localFile) ReadAt(offset, length uint64) ([]byte, error) {
	osFile, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer osFile.Close()

	buf := make([]byte, length)
	if _, err := osFile.ReadAt(buf, int64(offset)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (f *localFile) Size() (uint64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

// LocalStore is a directory of SST files on the local filesystem.
type LocalStore struct {
	Dir string
}

// NewLocalStore returns a Store rooted at dir, creating dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{Dir: dir}, nil
}

func (s *LocalStore) path(id uint64) string {
	return filepath.Join(s.Dir, SSTName(id))
}

func (s *LocalStore) Create(id uint64, data []byte) (File, error) {
	path := s.path(id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}
	return &localFile{path: path}, nil
}

func (s *LocalStore) Open(id uint64) (File, error) {
	path := s.path(id)
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &localFile{path: path}, nil
}

func (s *LocalStore) List() ([]uint64, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}
	var ids []uint64
	for _, e := range entries {
		var id uint64
		if _, err := fmt.Sscanf(e.Name(), "%05d.sst", &id); err == nil {
			ids = append(ids, id)
		}
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids, nil
}
