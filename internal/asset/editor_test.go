package asset

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwhitfield/texforge/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaterializer(t *testing.T, handler http.HandlerFunc) *EditorMaterializer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &EditorMaterializer{client: &editor.Client{HTTP: srv.Client(), BaseURL: srv.URL}}
}

func TestImport(t *testing.T) {
	var body map[string]any
	m := newTestMaterializer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"importedObjectPaths":["/Game/Generated/T_dragon.T_dragon"]}`))
	})

	handle, err := m.Import(context.Background(), ImportParams{
		Path:   "/tmp/texforge-123.png",
		Folder: "/Game/Generated",
		Name:   "T_dragon",
	})
	require.NoError(t, err)
	assert.Equal(t, "/Game/Generated/T_dragon.T_dragon", handle.Path)
	assert.Equal(t, "T_dragon", handle.Name)

	assert.Equal(t, assetToolsPath, body["objectPath"])
	assert.Equal(t, "ImportAssetTasks", body["functionName"])
	task := body["parameters"].(map[string]any)["Tasks"].([]any)[0].(map[string]any)
	assert.Equal(t, "/tmp/texforge-123.png", task["filename"])
	assert.Equal(t, "/Game/Generated", task["destination_path"])
	assert.Equal(t, "T_dragon", task["destination_name"])
	assert.Equal(t, true, task["automated"])
	assert.Equal(t, true, task["replace_existing"])
	assert.Equal(t, true, task["save"])
}

func TestImportNothingImported(t *testing.T) {
	m := newTestMaterializer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"importedObjectPaths":[]}`))
	})

	_, err := m.Import(context.Background(), ImportParams{Path: "/tmp/x.png", Folder: "/Game", Name: "T_x"})
	assert.ErrorIs(t, err, ErrImport)
}

func TestImportEditorDown(t *testing.T) {
	m := newTestMaterializer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no route", http.StatusNotFound)
	})

	_, err := m.Import(context.Background(), ImportParams{Path: "/tmp/x.png", Folder: "/Game", Name: "T_x"})
	assert.ErrorIs(t, err, ErrImport)
}
