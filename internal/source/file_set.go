package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans into
// line/column positions.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet with the given base directory for
// relative paths.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the directory relative paths are resolved against.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fs.baseDir
}

// SetBaseDir sets the base directory for relative paths.
func (fs *FileSet) SetBaseDir(dir string) {
	fs.baseDir = dir
}

// Add stores a file from normalized bytes, computes the line index and the
// content hash, and returns a fresh FileID. FileIDs are 1-based; 0 is the
// NoFileID sentinel.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := filepath.ToSlash(filepath.Clean(path))

	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles + 1)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fs.index[normalizedPath] = id
	return id
}

// AddVirtual adds an in-memory file (tests, stdin).
func (fs *FileSet) AddVirtual(path string, content []byte) FileID {
	normalized, flags := NormalizeContent(content)
	return fs.Add(path, normalized, flags|FileVirtual)
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return NoFileID, err
	}
	normalized, flags := NormalizeContent(raw)
	return fs.Add(path, normalized, flags), nil
}

// Get returns the file for id, or nil when the id is invalid.
func (fs *FileSet) Get(id FileID) *File {
	if id == NoFileID || int(id) > len(fs.files) {
		return nil
	}
	return &fs.files[id-1]
}

// Lookup returns the most recently added file for path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[filepath.ToSlash(filepath.Clean(path))]
	return id, ok
}

// Len returns the number of files in the set.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Position resolves a byte offset in a file to a 1-based line/column pair.
func (fs *FileSet) Position(file FileID, offset uint32) (LineCol, bool) {
	f := fs.Get(file)
	if f == nil {
		return LineCol{}, false
	}
	line := uint32(0)
	for line+1 < uint32(len(f.LineIdx)) && f.LineIdx[line+1] <= offset {
		line++
	}
	return LineCol{Line: line + 1, Col: offset - f.LineIdx[line] + 1}, true
}

// Line returns the text of the 1-based line number, without the newline.
func (fs *FileSet) Line(file FileID, line uint32) (string, bool) {
	f := fs.Get(file)
	if f == nil || line == 0 || int(line) > len(f.LineIdx) {
		return "", false
	}
	start := f.LineIdx[line-1]
	end := uint32(len(f.Content))
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line] - 1
	}
	if end < start {
		end = start
	}
	return string(f.Content[start:end]), true
}

// buildLineIndex records the byte offset of the start of every line.
func buildLineIndex(content []byte) []uint32 {
	idx := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i)+1)
		}
	}
	return idx
}
