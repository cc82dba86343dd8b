// Package docio reads and writes document nodes as files, picking the
// encoding from the file extension: .json, .jsonc (read only), .yaml/.yml and
// .cbor, each optionally wrapped in zstd by a trailing .zst.
package docio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/tidwall/jsonc"

	"github.com/docodec/docodec/node"
)

// Encode renders n in the encoding named by ext (".json", ".yaml", ".yml",
// ".cbor").
func Encode(n *node.Node, ext string) ([]byte, error) {
	switch ext {
	case ".json":
		return node.EncodeJSON(n)
	case ".yaml", ".yml":
		return node.EncodeYAML(n)
	case ".cbor":
		return node.EncodeCBOR(n)
	}
	return nil, fmt.Errorf("docio: unsupported encoding %q", ext)
}

// Decode parses data in the encoding named by ext. ".jsonc" strips comments
// and trailing commas before parsing as JSON.
func Decode(data []byte, ext string) (*node.Node, error) {
	switch ext {
	case ".json":
		return node.DecodeJSON(data)
	case ".jsonc":
		return node.DecodeJSON(jsonc.ToJSON(data))
	case ".yaml", ".yml":
		return node.DecodeYAML(data)
	case ".cbor":
		return node.DecodeCBOR(data)
	}
	return nil, fmt.Errorf("docio: unsupported encoding %q", ext)
}

// splitExt peels a trailing .zst off the extension chain.
func splitExt(path string) (ext string, compressed bool) {
	ext = strings.ToLower(filepath.Ext(path))
	if ext != ".zst" {
		return ext, false
	}
	inner := strings.TrimSuffix(path, filepath.Ext(path))
	return strings.ToLower(filepath.Ext(inner)), true
}

// Save writes n to path in the encoding its extension names. A trailing .zst
// compresses the output.
func Save(path string, n *node.Node) error {
	ext, compressed := splitExt(path)
	data, err := Encode(n, ext)
	if err != nil {
		return err
	}
	if compressed {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("docio: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads the document at path, decompressing first when the name carries
// a trailing .zst.
func Load(path string) (*node.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext, compressed := splitExt(path)
	if compressed {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("docio: %w", err)
		}
		data, err = dec.DecodeAll(data, nil)
		dec.Close()
		if err != nil {
			return nil, fmt.Errorf("docio: %s: %w", path, err)
		}
	}
	return Decode(data, ext)
}
