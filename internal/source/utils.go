package source

import "bytes"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NormalizeContent strips a UTF-8 BOM and rewrites CRLF line endings to LF.
// The returned flags record which normalizations were applied, so spans keep
// matching the stored content rather than the bytes on disk.
func NormalizeContent(raw []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if bytes.HasPrefix(raw, utf8BOM) {
		raw = raw[len(utf8BOM):]
		flags |= FileHadBOM
	}
	if bytes.Contains(raw, []byte("\r\n")) {
		raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return raw, flags
}
