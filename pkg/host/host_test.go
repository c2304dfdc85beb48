package host_test

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/loam-export/pkg/adapters/vault"
	"github.com/aretw0/loam-export/pkg/core"
	"github.com/aretw0/loam-export/pkg/host"
	"github.com/aretw0/loam-export/pkg/plugin"
)

func newVault(t *testing.T, files map[string]string) *vault.Store {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	store := vault.NewStore(vault.Config{Path: root})
	require.NoError(t, store.Initialize(context.Background()))
	return store
}

func TestPrompt(t *testing.T) {
	input := core.PromptInput{Label: "Tag name", Placeholder: "your/tag"}

	t.Run("Reads a line per input", func(t *testing.T) {
		var out bytes.Buffer
		h := host.New(newVault(t, nil), host.WithInput(strings.NewReader("work\r\nhome\n")), host.WithOutput(&out))

		values, err := h.Prompt(context.Background(), "Which?", input, input)
		require.NoError(t, err)
		assert.Equal(t, []string{"work", "home"}, values)
		assert.Contains(t, out.String(), "Which?\nTag name [your/tag]: ")
	})

	t.Run("Last line without newline", func(t *testing.T) {
		h := host.New(newVault(t, nil), host.WithInput(strings.NewReader("work")), host.WithOutput(&bytes.Buffer{}))
		values, err := h.Prompt(context.Background(), "Which?", input)
		require.NoError(t, err)
		assert.Equal(t, []string{"work"}, values)
	})

	t.Run("EOF cancels", func(t *testing.T) {
		h := host.New(newVault(t, nil), host.WithInput(strings.NewReader("")), host.WithOutput(&bytes.Buffer{}))
		_, err := h.Prompt(context.Background(), "Which?", input)
		assert.ErrorIs(t, err, core.ErrCancelled)
	})

	t.Run("Queued answers come first", func(t *testing.T) {
		h := host.New(newVault(t, nil),
			host.WithAnswers("queued"),
			host.WithInput(strings.NewReader("typed\n")),
			host.WithOutput(&bytes.Buffer{}),
		)
		values, err := h.Prompt(context.Background(), "Which?", input, input)
		require.NoError(t, err)
		assert.Equal(t, []string{"queued", "typed"}, values)
	})

	t.Run("Queue refills answers", func(t *testing.T) {
		h := host.New(newVault(t, nil), host.WithInput(strings.NewReader("")), host.WithOutput(&bytes.Buffer{}))
		h.Queue("first")
		values, err := h.Prompt(context.Background(), "Which?", input)
		require.NoError(t, err)
		assert.Equal(t, []string{"first"}, values)

		_, err = h.Prompt(context.Background(), "Which?", input)
		assert.ErrorIs(t, err, core.ErrCancelled)

		h.Queue("second")
		values, err = h.Prompt(context.Background(), "Which?", input)
		require.NoError(t, err)
		assert.Equal(t, []string{"second"}, values)
	})
}

func TestSaveFile(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	h := host.New(newVault(t, nil), host.WithOutputDir(outDir), host.WithOutput(&bytes.Buffer{}))
	ctx := context.Background()

	require.NoError(t, h.SaveFile(ctx, core.Blob{Type: "text/csv", Data: []byte("a,b")}, "export-1.csv"))
	require.NoError(t, h.SaveFile(ctx, core.Blob{Data: []byte("x")}, "../../escape.zip"))

	data, err := os.ReadFile(filepath.Join(outDir, "export-1.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))
	assert.FileExists(t, filepath.Join(outDir, "..-..-escape.zip"))

	for _, bad := range []string{"", ".", ".."} {
		assert.Error(t, h.SaveFile(ctx, core.Blob{}, bad), bad)
	}
	assert.Len(t, h.Saved(), 2)
}

func TestSaveFile_NestedTagsKeepDistinctFiles(t *testing.T) {
	outDir := t.TempDir()
	store := newVault(t, map[string]string{
		"one.md": "---\nuuid: one\ntitle: One\ntags: [a/x]\n---\nfirst",
		"two.md": "---\nuuid: two\ntitle: Two\ntags: [b/x]\n---\nsecond",
	})
	h := host.New(store,
		host.WithOutputDir(outDir),
		host.WithOutput(&bytes.Buffer{}),
		host.WithAnswers("a/x", "b/x"),
	)
	ctx := context.Background()

	require.NoError(t, plugin.ExportTag(ctx, h))
	require.NoError(t, plugin.ExportTag(ctx, h))

	assert.Equal(t, []string{
		filepath.Join(outDir, "a-x.zip"),
		filepath.Join(outDir, "b-x.zip"),
	}, h.Saved())
	assert.FileExists(t, filepath.Join(outDir, "a-x.zip"))
	assert.FileExists(t, filepath.Join(outDir, "b-x.zip"))
}

func TestAlertAndNavigate(t *testing.T) {
	var out bytes.Buffer
	h := host.New(newVault(t, nil), host.WithOutput(&out))
	ctx := context.Background()

	require.NoError(t, h.Navigate(ctx, "https://example.com/n/1"))
	require.NoError(t, h.Alert(ctx, "No notes found with this tag."))

	assert.Equal(t, "-> https://example.com/n/1\n! No notes found with this tag.\n", out.String())

	state, ok := h.State().(host.HostState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Alerts)
	assert.Equal(t, "vault", state.StoreType)
}

func TestEndToEnd_TagExport(t *testing.T) {
	store := newVault(t, map[string]string{
		"standup.md":  "---\nuuid: s1\ntitle: Standup\ntags: [work]\n---\n# Standup",
		"clients.md":  "---\nuuid: c1\ntitle: clients/acme\ntags: [work/clients]\n---\nacme \"notes\"",
		"shopping.md": "---\nuuid: h1\ntitle: Shopping\ntags: [home]\n---\nmilk",
	})
	outDir := t.TempDir()
	var out bytes.Buffer

	h := host.New(store,
		host.WithAnswers("work"),
		host.WithOutput(&out),
		host.WithOutputDir(outDir),
	)

	err := plugin.New().Invoke(context.Background(), h, "tag")
	require.NoError(t, err)

	zr, err := zip.OpenReader(filepath.Join(outDir, "work.zip"))
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	// Vault order is by path: clients.md before standup.md.
	assert.Equal(t, []string{"clients-acme.md", "Standup.md"}, names)

	// The progress note ends in the success state.
	progress, err := store.FilterNotes(context.Background(), core.Filter{})
	require.NoError(t, err)
	var found bool
	for _, p := range progress {
		if p.Name == plugin.ProgressNoteTitle {
			content, err := store.GetNoteContent(context.Background(), core.Note{UUID: p.UUID})
			require.NoError(t, err)
			assert.Equal(t, plugin.SuccessMessage, content)
			found = true
		}
	}
	assert.True(t, found, "progress note not found")
	assert.Contains(t, out.String(), "-> https://www.amplenote.com/notes/")
}

func TestEndToEnd_CSVExport(t *testing.T) {
	store := newVault(t, map[string]string{
		"a.md": "---\nuuid: a1\ntitle: He said \"hi\"\ntags: [a, b]\n---\nbody",
	})
	outDir := t.TempDir()
	h := host.New(store, host.WithOutputDir(outDir), host.WithOutput(&bytes.Buffer{}))

	reg := plugin.New(plugin.WithFlushTrailing(true))
	require.NoError(t, reg.Invoke(context.Background(), h, "csv"))

	data, err := os.ReadFile(filepath.Join(outDir, "export-1.csv"))
	require.NoError(t, err)
	assert.Equal(t, "UUID,Title,Tags,Content\n\"a1\",\"He said \"\"hi\"\"\",\"a,b\",\"body\"\n", string(data))
}
