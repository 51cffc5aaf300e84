package artifact

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/unicode"
)

// signature is a magic-byte prefix check with the MIME type it implies.
type signature struct {
	mime   string
	prefix []byte
}

// knownSignatures covers the blob types this workflow engine's own
// executors actually produce (images, audio, PDFs) before falling back to
// the general-purpose mimetype library for anything else.
var knownSignatures = []signature{
	{"image/png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}},
	{"image/jpeg", []byte{0xFF, 0xD8, 0xFF}},
	{"image/gif", []byte("GIF87a")},
	{"image/gif", []byte("GIF89a")},
	{"application/pdf", []byte("%PDF-")},
}

const (
	riffMagic  = "RIFF"
	riffWave   = "WAVE"
	riffWebP   = "WEBP"
	riffOffset = 8
)

// sniff determines a blob's MIME type: exact magic-byte match first, then
// a RIFF container sub-type check (WAV vs WebP share the RIFF prefix),
// then the mimetype library, then an extension hint, finally
// application/octet-stream.
func sniff(data []byte, filename string) string {
	for _, sig := range knownSignatures {
		if bytes.HasPrefix(data, sig.prefix) {
			return sig.mime
		}
	}

	if len(data) >= riffOffset+4 && string(data[:4]) == riffMagic {
		switch string(data[riffOffset : riffOffset+4]) {
		case riffWave:
			return "audio/wav"
		case riffWebP:
			return "image/webp"
		}
	}

	if len(data) > 0 {
		if mt := mimetype.Detect(data); mt != nil && mt.String() != "application/octet-stream" {
			return mt.String()
		}
	}

	if ext := filepath.Ext(filename); ext != "" {
		if m, ok := extensionMIME[strings.ToLower(ext)]; ok {
			return m
		}
	}

	return "application/octet-stream"
}

// normalizeText converts a UTF-16 (BOM-prefixed) text/plain blob to UTF-8 so
// downstream template interpolation and code executors always see UTF-8.
// Non-text or already-UTF-8 blobs are returned unchanged.
func normalizeText(mime string, data []byte) []byte {
	if mime != "text/plain" || len(data) < 2 {
		return data
	}
	bom := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, err := bom.Bytes(data)
	if err != nil {
		return data
	}
	return decoded
}

var extensionMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
	".wav":  "audio/wav",
	".webp": "image/webp",
	".json": "application/json",
	".txt":  "text/plain",
}
