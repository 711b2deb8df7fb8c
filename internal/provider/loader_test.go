package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestRawPrintingsFromFile(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, FilePrintings, `[
		{"id": "src-1", "name": "Grizzly Bears", "lang": "en", "set": "LEA", "collector_number": "94", "layout": "normal", "type_line": "Creature — Bear"}
	]`)

	raws, err := NewLoader(dir, nil).RawPrintings(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "src-1", raws[0].ID)
	assert.Equal(t, "LEA", raws[0].SetCode)
	assert.Equal(t, "94", raws[0].Number)
}

func TestRawPrintingsMissingIsFatal(t *testing.T) {
	_, err := NewLoader(t.TempDir(), nil).RawPrintings(context.Background())
	assert.Error(t, err)
}

func TestAuxDegradesPerSource(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, FileCommanders, `["Grist, the Hunger Tide"]`)
	writeInput(t, dir, FileOracle, `[
		{"oracleId": "oracle-1", "printings": ["LEA", "M11"]}
	]`)

	aux := NewLoader(dir, nil).Aux(context.Background())

	assert.Equal(t, []string{"Grist, the Hunger Tide"}, aux.CommanderNames)
	assert.Contains(t, aux.Oracle, "oracle-1")
	// everything else degrades to empty
	assert.Empty(t, aux.Catalog)
	assert.Empty(t, aux.Bridge)
	assert.Empty(t, aux.MeldTriplets)
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "src-remote", "name": "X", "lang": "en", "set": "LEA", "collector_number": "1", "layout": "normal", "type_line": "Instant"}]`))
	}))
	defer srv.Close()

	l := NewLoader(t.TempDir(), nil)
	l.URLs = map[string]string{FilePrintings: srv.URL}

	raws, err := l.RawPrintings(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "src-remote", raws[0].ID)
}

func TestLoadURLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewLoader(t.TempDir(), nil)
	l.URLs = map[string]string{FilePrintings: srv.URL}

	_, err := l.RawPrintings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
