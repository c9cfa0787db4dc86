package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileID uniquely identifies a source file within a FileSet.
type FileID uint32

// FileFlags encodes metadata about how a source file was added.
type FileFlags uint8

const (
	// FileVirtual marks content added from memory (tests, stdin, decoded
	// diagnostic payloads) rather than loaded from disk.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
)

// File holds the raw bytes of one source plus metadata. Content is kept
// exactly as read: CRLF terminators are preserved because span resolution
// treats "\r\n" as a single boundary.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// ReadSpan extracts a context window around span from this file's content.
func (f *File) ReadSpan(span Span, before, after int) (SpanContents, error) {
	return ReadSpan(f.Content, span, before, after)
}

// LineCol is a 1-based human-readable position.
type LineCol struct {
	Line uint32
	Col  uint32
}

// FileSet manages a collection of source files addressed by FileID.
type FileSet struct {
	files []File
	index map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores content under path and returns a fresh FileID. The path index
// always points at the most recently added version of a path.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[path] = id
	return id
}

// Load reads a file from disk, strips a UTF-8 BOM if present, and adds it.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, hadBOM := removeBOM(content)
	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content (tests, stdin, decoded payloads).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for the given ID, or nil when the ID is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// GetByPath returns the most recent file added under path.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fs.index[path]; ok {
		return &fs.files[id], true
	}
	return nil, false
}

func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Files returns the files in insertion order. The slice aliases internal
// storage and must not be modified.
func (fs *FileSet) Files() []File {
	return fs.files
}

// Resolve converts a span's endpoints into 1-based line/column positions
// using the file's precomputed line index.
func (fs *FileSet) Resolve(id FileID, span Span) (start, end LineCol) {
	f := fs.Get(id)
	if f == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return toLineCol(f.LineIdx, span.Offset), toLineCol(f.LineIdx, span.End())
}
