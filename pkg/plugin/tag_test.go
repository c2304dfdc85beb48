package plugin_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/loam-export/internal/hosttest"
	"github.com/aretw0/loam-export/pkg/archive"
	"github.com/aretw0/loam-export/pkg/core"
	"github.com/aretw0/loam-export/pkg/plugin"
)

func workNotes() []core.Note {
	return []core.Note{
		{UUID: "n1", Name: "Standup", Tags: []string{"work"}, Content: "# Standup\n- shipped"},
		{UUID: "n2", Name: "Groceries", Tags: []string{"home"}, Content: "milk"},
		{UUID: "n3", Name: "clients/acme", Tags: []string{"work/clients"}, Content: "He said \"hi\",\nthen left"},
		{UUID: "n4", Name: "Retro", Tags: []string{"work"}, Content: ""},
	}
}

func unzip(t *testing.T, data []byte) ([]string, map[string]string) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	contents := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		names = append(names, f.Name)
		contents[f.Name] = string(body)
	}
	return names, contents
}

func TestExportTag_NoNotes(t *testing.T) {
	t.Run("Empty result", func(t *testing.T) {
		host := hosttest.New(workNotes()...)
		host.Answers = []string{"missing"}

		err := plugin.ExportTag(context.Background(), host)
		require.NoError(t, err)

		assert.Equal(t, []string{plugin.NoNotesMessage}, host.Alerts())
		assert.Equal(t, []string{"Prompt", "FilterNotes", "Alert"}, host.Methods())
		assert.Zero(t, host.Count("CreateNote"))
		assert.Empty(t, host.Saved())
	})

	t.Run("Nil result", func(t *testing.T) {
		host := hosttest.New(workNotes()...)
		host.Answers = []string{"work"}
		host.NilResults = true

		err := plugin.ExportTag(context.Background(), host)
		require.NoError(t, err)

		assert.Equal(t, []string{plugin.NoNotesMessage}, host.Alerts())
		assert.Zero(t, host.Count("CreateNote"))
		assert.Zero(t, host.Count("Navigate"))
		assert.Empty(t, host.Saved())
	})
}

func TestExportTag_Success(t *testing.T) {
	host := hosttest.New(workNotes()...)
	host.Answers = []string{"work"}

	err := plugin.ExportTag(context.Background(), host)
	require.NoError(t, err)
	assert.Empty(t, host.Alerts())

	// Progress note: one update per note, then zip creation, then success.
	progress := host.History("created-1")
	assert.Equal(t, []string{
		"Processing note 1/3...",
		"Processing note 2/3...",
		"Processing note 3/3...",
		plugin.CreatingZipMessage,
		plugin.SuccessMessage,
	}, progress)

	assert.Equal(t, []string{plugin.DefaultNoteURL("created-1")}, host.URLs())

	saved := host.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, "work.zip", saved[0].Name)
	assert.Equal(t, archive.MediaType, saved[0].Blob.Type)

	names, contents := unzip(t, saved[0].Blob.Data)
	assert.Equal(t, []string{"Standup.md", "clients-acme.md", "Retro.md"}, names)
	assert.Equal(t, "# Standup\n- shipped", contents["Standup.md"])
	assert.Equal(t, "He said \"hi\",\nthen left", contents["clients-acme.md"])
	assert.Equal(t, "", contents["Retro.md"])
}

func TestExportTag_CallOrder(t *testing.T) {
	host := hosttest.New(workNotes()[:1]...)
	host.Answers = []string{"work"}

	require.NoError(t, plugin.ExportTag(context.Background(), host))

	// The user is navigated to the progress note before any note is fetched.
	assert.Equal(t, []string{
		"Prompt",
		"FilterNotes",
		"CreateNote",
		"FindNote",
		"Navigate",
		"ReplaceNoteContent",
		"FindNote",
		"GetNoteContent",
		"ReplaceNoteContent",
		"SaveFile",
		"ReplaceNoteContent",
	}, host.Methods())
}

func TestExportTag_TrimsFilenameOnly(t *testing.T) {
	host := hosttest.New(core.Note{UUID: "p1", Name: "Padded", Tags: []string{" padded "}, Content: "x"})
	host.Answers = []string{" padded "}

	require.NoError(t, plugin.ExportTag(context.Background(), host))

	calls := host.Calls()
	require.GreaterOrEqual(t, len(calls), 2)
	assert.Equal(t, hosttest.Call{Method: "FilterNotes", Arg: " padded "}, calls[1])

	saved := host.Saved()
	require.Len(t, saved, 1)
	assert.Equal(t, "padded.zip", saved[0].Name)
}

func TestExportTag_CustomNoteURL(t *testing.T) {
	host := hosttest.New(workNotes()...)
	host.Answers = []string{"home"}

	err := plugin.ExportTag(context.Background(), host,
		plugin.WithNoteURL(func(uuid string) string { return "loam://" + uuid }),
		plugin.WithArchiveMethod(archive.MethodStore),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"loam://created-1"}, host.URLs())
}

func TestExportTag_Cancelled(t *testing.T) {
	host := hosttest.New(workNotes()...)
	host.Cancel = true

	err := plugin.New().Invoke(context.Background(), host, plugin.TagCommandName)
	require.NoError(t, err)

	assert.Empty(t, host.Alerts())
	assert.Equal(t, []string{"Prompt"}, host.Methods())
}

func TestExportTag_UnknownArchiveMethod(t *testing.T) {
	host := hosttest.New(workNotes()...)
	host.Answers = []string{"work"}

	reg := plugin.New(plugin.WithArchiveMethod("rar"))
	err := reg.Invoke(context.Background(), host, plugin.TagCommandName)
	require.ErrorIs(t, err, archive.ErrUnknownMethod)

	assert.Equal(t, []string{"Alert"}, host.Methods())
	require.Len(t, host.Alerts(), 1)
	assert.Contains(t, host.Alerts()[0], "unknown compression method")
}

func TestExportTag_HostFailures(t *testing.T) {
	boom := errors.New("host exploded")

	// Three matching notes: the progress note is written 5 times in total.
	tests := []struct {
		method string
		n      int
	}{
		{"Prompt", 1},
		{"FilterNotes", 1},
		{"CreateNote", 1},
		{"FindNote", 1},
		{"Navigate", 1},
		{"ReplaceNoteContent", 1},
		{"FindNote", 3},
		{"GetNoteContent", 2},
		{"ReplaceNoteContent", 4},
		{"SaveFile", 1},
		{"ReplaceNoteContent", 5},
	}

	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			host := hosttest.New(workNotes()...)
			host.Answers = []string{"work"}
			host.FailOn(tc.method, tc.n, boom)

			err := plugin.New().Invoke(context.Background(), host, plugin.TagCommandName)
			require.ErrorIs(t, err, boom)

			assert.Equal(t, []string{boom.Error()}, host.Alerts())

			// Nothing runs between the failing call and the alert.
			methods := host.Methods()
			require.GreaterOrEqual(t, len(methods), 2)
			assert.Equal(t, tc.method, methods[len(methods)-2])
			assert.Equal(t, "Alert", methods[len(methods)-1])
			assert.Equal(t, tc.n, host.Count(tc.method))
		})
	}
}

func TestExportTag_FailureLeavesProgress(t *testing.T) {
	host := hosttest.New(workNotes()...)
	host.Answers = []string{"work"}
	host.FailOn("GetNoteContent", 2, errors.New("boom"))

	err := plugin.New().Invoke(context.Background(), host, "tag")
	require.Error(t, err)

	assert.Equal(t, []string{"boom"}, host.Alerts())
	assert.Empty(t, host.Saved())
	assert.Equal(t, []string{
		"Processing note 1/3...",
		"Processing note 2/3...",
	}, host.History("created-1"))
}
