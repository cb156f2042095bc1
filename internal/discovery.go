package internal

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/routekit/pkg/annotation"
)

// ControllerIndex records which source file declares which controller types.
// Go binaries carry no source tree, so controllers register themselves, usually from an
// init function, and directory discovery reads the index instead of loading files.
type ControllerIndex struct {
	files map[string][]reflect.Type
	mu    sync.RWMutex
}

// NewControllerIndex creates an empty index.
func NewControllerIndex() *ControllerIndex {
	return &ControllerIndex{files: make(map[string][]reflect.Type)}
}

// DefaultIndex is the index used by engines created without WithControllerIndex.
var DefaultIndex = NewControllerIndex()

// Add records types as declared in file. Relative paths are made absolute.
func (x *ControllerIndex) Add(file string, types ...reflect.Type) {
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	file = filepath.Clean(file)

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, t := range types {
		t = annotation.Indirect(t)
		if t == nil || slices.Contains(x.files[file], t) {
			continue
		}
		x.files[file] = append(x.files[file], t)
	}
}

// AddCaller records types as declared in the source file of the caller skip frames
// above AddCaller. Binaries built with -trimpath report module-relative paths, which
// directory discovery cannot match.
func (x *ControllerIndex) AddCaller(skip int, types ...reflect.Type) error {
	_, file, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return fmt.Errorf("%w: caller file is unknown", ErrInvalidSource)
	}
	x.Add(file, types...)
	return nil
}

// Types returns the types recorded for file, in registration order.
func (x *ControllerIndex) Types(file string) []reflect.Type {
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Clone(x.files[filepath.Clean(file)])
}

// Len returns the number of indexed files.
func (x *ControllerIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.files)
}

// walk visits dir in lexical order and returns a unit per indexed controller. The
// prefix of a unit is the directory of its file relative to dir.
func (x *ControllerIndex) walk(dir string) ([]unit, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSource, dir, err)
	}

	out := make([]unit, 0)
	err = fs.WalkDir(os.DirFS(abs), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if path.Ext(p) != ".go" || strings.HasSuffix(p, "_test.go") {
			return nil
		}

		prefix := path.Dir(p)
		if prefix == "." {
			prefix = ""
		}
		for _, t := range x.Types(filepath.Join(abs, filepath.FromSlash(p))) {
			out = append(out, unit{typ: t, prefix: prefix, origin: p})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSource, dir, err)
	}
	return out, nil
}

// skipDir matches the directories the go tool ignores.
func skipDir(name string) bool {
	return name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
