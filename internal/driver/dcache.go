package driver

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"candy/internal/diag"
	"candy/internal/source"
)

// Current schema version - increment when DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores per-file check results keyed by content hash, so an
// unchanged file skips re-checking entirely. A change in content changes
// the key, which is the whole invalidation story. Thread-safe.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiagPayload is one serialized diagnostic.
type DiagPayload struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
}

// DiskPayload is the cached outcome of checking one file.
type DiskPayload struct {
	Schema uint16
	Path   string
	Hash   [32]byte
	Broken bool
	Diags  []DiagPayload
}

// OpenDiskCache initializes a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a disk cache rooted at dir (tests, tools).
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, "checks", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload; best effort, errors are swallowed so
// the cache can never fail a check.
func (c *DiskCache) Put(key [32]byte, payload *DiskPayload) {
	if c == nil || payload == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return
	}
	name := f.Name()
	enc := msgpack.NewEncoder(f)
	encErr := enc.Encode(payload)
	closeErr := f.Close()
	if encErr != nil || closeErr != nil {
		_ = os.Remove(name)
		return
	}
	// Atomic replace.
	if err := os.Rename(name, p); err != nil {
		_ = os.Remove(name)
	}
}

// Get reads a payload back; a miss or any decode problem reads as a miss.
func (c *DiskCache) Get(key [32]byte) (*DiskPayload, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	defer func() { _ = f.Close() }()

	var out DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false
	}
	if out.Schema != diskCacheSchemaVersion {
		return nil, false
	}
	return &out, true
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "checks"))
}

func payloadFromBag(path string, hash [32]byte, bag *diag.Bag) *DiskPayload {
	payload := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Path:   path,
		Hash:   hash,
		Broken: bag.HasErrors(),
	}
	for _, d := range bag.Items() {
		payload.Diags = append(payload.Diags, DiagPayload{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	return payload
}

func replayDiagnostics(bag *diag.Bag, payload *DiskPayload, file source.FileID) {
	for _, d := range payload.Diags {
		bag.Add(diag.New(
			diag.Severity(d.Severity),
			diag.Code(d.Code),
			source.Span{File: file, Start: d.Start, End: d.End},
			d.Message,
		))
	}
}
