package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Keys for the two persisted scalars.
const (
	keyBest     = "best"
	keyContrast = "contrast"
)

// FileStore persists the best score and the contrast preference as
// stringified scalars in a small key=value file. Read and write
// failures degrade to defaults; the game never fails over persistence.
type FileStore struct {
	path string
}

// NewFileStore places the save file under the user config directory,
// falling back to the working directory when none is available.
func NewFileStore() *FileStore {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return &FileStore{path: filepath.Join(dir, "caravan", "save")}
}

// NewFileStoreAt uses an explicit path (tests).
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) read() map[string]string {
	out := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if err != nil {
		return out
	}
	for _, line := range strings.Split(string(data), "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if ok {
			out[k] = v
		}
	}
	return out
}

func (f *FileStore) write(kv map[string]string) {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return
	}
	var b strings.Builder
	// Stable order keeps the file diffable.
	for _, k := range []string{keyBest, keyContrast} {
		if v, ok := kv[k]; ok {
			fmt.Fprintf(&b, "%s=%s\n", k, v)
		}
	}
	if err := os.WriteFile(f.path, []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
	}
}

func (f *FileStore) LoadBest() float64 {
	if v, err := strconv.ParseFloat(f.read()[keyBest], 64); err == nil && v >= 0 {
		return v
	}
	return 0
}

func (f *FileStore) SaveBest(v float64) {
	kv := f.read()
	kv[keyBest] = strconv.FormatFloat(v, 'f', -1, 64)
	f.write(kv)
}

func (f *FileStore) LoadContrast() bool {
	v, err := strconv.ParseBool(f.read()[keyContrast])
	return err == nil && v
}

func (f *FileStore) SaveContrast(v bool) {
	kv := f.read()
	kv[keyContrast] = strconv.FormatBool(v)
	f.write(kv)
}
