package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// Digest is a SHA-256 content hash used for cache keys and change detection.
type Digest [32]byte

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offset of the start of each line after the first
	Hash    Digest
	Flags   FileFlags
}

// LineCol is a 0-indexed position in a source file.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Before reports whether p precedes other in document order.
func (p LineCol) Before(other LineCol) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}
