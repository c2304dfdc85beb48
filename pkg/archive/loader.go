package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrUnknownMethod is returned by Load for an unsupported compression method.
var ErrUnknownMethod = errors.New("unknown compression method")

const (
	// MethodDeflate compresses entries. It is the default.
	MethodDeflate = "deflate"
	// MethodStore writes entries uncompressed.
	MethodStore = "store"
)

var methods = map[string]uint16{
	MethodDeflate: zip.Deflate,
	MethodStore:   zip.Store,
}

var (
	loadedMu sync.Mutex
	loaded   = make(map[string]*Archiver)
)

// Load resolves the archiver for a compression method. An empty name selects
// MethodDeflate. The first successful resolution is cached, so repeated calls
// return the same *Archiver.
func Load(method string) (*Archiver, error) {
	name := strings.ToLower(strings.TrimSpace(method))
	if name == "" {
		name = MethodDeflate
	}

	loadedMu.Lock()
	defer loadedMu.Unlock()

	if a, ok := loaded[name]; ok {
		return a, nil
	}

	m, ok := methods[name]
	if !ok {
		return nil, fmt.Errorf("failed to load archiver %q (available: %s): %w",
			method, strings.Join(Methods(), ", "), ErrUnknownMethod)
	}

	a := &Archiver{method: m, name: name, now: time.Now}
	loaded[name] = a
	return a, nil
}

// Methods lists the supported compression method names.
func Methods() []string {
	names := make([]string, 0, len(methods))
	for n := range methods {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
