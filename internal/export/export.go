// Package export builds the downloadable text artifact of a stored game
package export

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"chesslog/internal/core"
)

// DefaultPrefix starts every artifact file name
const DefaultPrefix = "chesslog_game"

// Artifact is a game dump ready for download
type Artifact struct {
	FileName string
	Content  string
	DataURI  string
}

// FileName formats <prefix>_<key>.txt
func FileName(prefix string, key core.GameKey) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_%s.txt", prefix, key)
}

// DataURI base64 encodes dump for client side download
func DataURI(dump string) string {
	return "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString([]byte(dump))
}

func New(prefix string, key core.GameKey, dump string) Artifact {
	return Artifact{
		FileName: FileName(prefix, key),
		Content:  dump,
		DataURI:  DataURI(dump),
	}
}

// Write saves the artifact into dir and returns the file path
func Write(dir string, a Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, a.FileName)
	if err := os.WriteFile(path, []byte(a.Content), 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
