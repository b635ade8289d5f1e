package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
)

// FileSet assigns FileIDs and keeps content, line index, and digest for every
// loaded file. ID assignment is safe for concurrent use: readers probe under a
// shared lock and upgrade to exclusive only on a miss, so parallel extraction
// can register files without serializing reads.
type FileSet struct {
	mu      sync.RWMutex
	files   []File
	index   map[string]FileID // normalized path -> latest id
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// NewFileSetWithBase creates a FileSet that resolves relative paths against dir.
func NewFileSetWithBase(dir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = dir
	return fs
}

// BaseDir returns the configured base directory, falling back to the working
// directory.
func (fs *FileSet) BaseDir() string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if fs.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fs.baseDir
}

// Add stores file content, computes the line index and digest, and returns a
// fresh FileID. Re-adding a path always allocates a new ID; the path index
// points at the latest version.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	normalized := normalizePath(path)
	lineIdx := buildLineIndex(content)
	hash := sha256.Sum256(content)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fs.index[normalized] = id
	return id
}

// Load reads a file from disk, normalizes BOM/CRLF, and calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (test, stdin, generated).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file metadata for id, or nil for an unknown ID.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Path returns the path for id, or "" for an unknown ID.
func (fs *FileSet) Path(id FileID) string {
	if f := fs.Get(id); f != nil {
		return f.Path
	}
	return ""
}

// GetLatest returns the most recent FileID registered for path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

// Len returns the number of files, counting superseded versions.
func (fs *FileSet) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.files)
}

// GetLine returns the given 0-indexed line without its terminator, or "" if
// the line does not exist.
func (f *File) GetLine(line uint32) string {
	if f == nil {
		return ""
	}
	var start uint32
	if line > 0 {
		if int(line-1) >= len(f.LineIdx) {
			return ""
		}
		start = f.LineIdx[line-1]
	}
	end := uint32(len(f.Content))
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line] - 1 // drop the '\n'
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// buildLineIndex records the byte offset of the start of every line after
// line 0.
func buildLineIndex(content []byte) []uint32 {
	var idx []uint32
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i + 1)
			if err != nil {
				panic(fmt.Errorf("line index overflow: %w", err))
			}
			idx = append(idx, off)
		}
	}
	return idx
}

func normalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

func removeBOM(content []byte) ([]byte, bool) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if bytes.HasPrefix(content, bom) {
		return content[len(bom):], true
	}
	return content, false
}

func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}
