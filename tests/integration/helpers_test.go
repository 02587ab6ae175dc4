// Package integration provides shared helpers for the recordbook
// integration tests. Each test gets an isolated temp directory per
// backend so suites can run in parallel.
package integration

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/helpachild/recordbook/internal/export"
	"github.com/helpachild/recordbook/internal/file"
	"github.com/helpachild/recordbook/internal/httpapi"
	"github.com/helpachild/recordbook/internal/sqlite"
	"github.com/helpachild/recordbook/pkg/types"
)

// attachableStore is what the helpers hand back: the store contract plus
// the export hook registration both backends provide.
type attachableStore interface {
	types.Store
	SetRecordsChangedHook(fn func([]types.Record))
}

// backendFactory builds a detached backend for a given data directory.
type backendFactory func(log zerolog.Logger) attachableStore

// backendCases enumerates the storage backends the contract tests run
// against.
var backendCases = []struct {
	name    string
	backend string
	factory backendFactory
}{
	{
		name:    "file",
		backend: types.BackendFile,
		factory: func(log zerolog.Logger) attachableStore { return file.NewBackend(log) },
	},
	{
		name:    "sqlite",
		backend: types.BackendSQLite,
		factory: func(log zerolog.Logger) attachableStore { return sqlite.NewBackend(log) },
	},
}

// newAttachedStore attaches a backend to a fresh temp directory and
// registers detach on cleanup.
func newAttachedStore(t *testing.T, backend string, factory backendFactory) (attachableStore, string) {
	t.Helper()
	dir := t.TempDir()
	store := factory(zerolog.Nop())
	require.NoError(t, store.Attach(types.Config{Backend: backend, DataDir: dir}))
	t.Cleanup(func() { store.Detach() })
	return store, dir
}

// newServer stands up the full HTTP surface over an attached file
// backend with the spreadsheet export hook wired, mirroring the serve
// command's assembly.
func newServer(t *testing.T) (*httpapi.Server, string) {
	t.Helper()
	dataDir := t.TempDir()
	exportDir := t.TempDir()

	backend := file.NewBackend(zerolog.Nop())
	require.NoError(t, backend.Attach(types.Config{Backend: types.BackendFile, DataDir: dataDir}))
	t.Cleanup(func() { backend.Detach() })

	exporter := export.New(zerolog.Nop())
	backend.SetRecordsChangedHook(exporter.RegenerateHook(exportDir))

	return httpapi.New(backend, exporter, exportDir, zerolog.Nop()), exportDir
}

// doJSON performs an in-process request against the Fiber app and
// returns the response with its body drained.
func doJSON(t *testing.T, s *httpapi.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err, "%s %s", method, path)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}
