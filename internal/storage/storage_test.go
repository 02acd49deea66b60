//nolint:testpackage // Tests require internal access for thorough testing
package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/abatilo/lanes/internal/board"
	"github.com/abatilo/lanes/internal/task"
)

func adapters(t *testing.T) map[string]Adapter {
	t.Helper()

	bolt, err := OpenBolt(filepath.Join(t.TempDir(), "nested", "lanes.db"))
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	t.Cleanup(func() { bolt.Close() })

	return map[string]Adapter{
		BackendFile: NewFileAdapter(filepath.Join(t.TempDir(), "data")),
		BackendBolt: bolt,
	}
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, a := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			data, ok, err := a.LoadBlob(ctx, TasksBlob)
			if err != nil || ok || data != nil {
				t.Fatalf("LoadBlob on empty store = (%q, %v, %v), want absent", data, ok, err)
			}

			if err := a.SaveBlob(ctx, TasksBlob, []byte(`{"columns":[]}`)); err != nil {
				t.Fatalf("SaveBlob failed: %v", err)
			}
			if err := a.SaveBlob(ctx, TasksBlob, []byte(`{"columns":null}`)); err != nil {
				t.Fatalf("second SaveBlob failed: %v", err)
			}

			data, ok, err = a.LoadBlob(ctx, TasksBlob)
			if err != nil || !ok {
				t.Fatalf("LoadBlob = (%v, %v), want present", ok, err)
			}
			if string(data) != `{"columns":null}` {
				t.Errorf("LoadBlob = %q, want the last write", data)
			}

			if err := a.SaveBlob(ctx, MarkdownBlob, []byte{}); err != nil {
				t.Fatalf("SaveBlob empty failed: %v", err)
			}
			if _, ok, _ := a.LoadBlob(ctx, MarkdownBlob); !ok {
				t.Error("empty blob should still be reported as present")
			}
		})
	}
}

func TestAdapterHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, a := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			if err := a.SaveBlob(ctx, TasksBlob, []byte("x")); !errors.Is(err, context.Canceled) {
				t.Errorf("SaveBlob error = %v, want context.Canceled", err)
			}
			if _, _, err := a.LoadBlob(ctx, TasksBlob); !errors.Is(err, context.Canceled) {
				t.Errorf("LoadBlob error = %v, want context.Canceled", err)
			}
		})
	}
}

func TestFileAdapterLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	a := NewFileAdapter(dir)

	for range 3 {
		if err := a.SaveBlob(context.Background(), TasksBlob, []byte("{}")); err != nil {
			t.Fatalf("SaveBlob failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != TasksBlob {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only %s", names, TasksBlob)
	}
}

func TestFileAdapterRejectsPaths(t *testing.T) {
	a := NewFileAdapter(t.TempDir())

	for _, name := range []string{"", "..", "../escape.json", "sub/dir.json"} {
		err := a.SaveBlob(context.Background(), name, []byte("x"))
		var invalid InvalidBlobNameError
		if !errors.As(err, &invalid) {
			t.Errorf("SaveBlob(%q) error = %v, want InvalidBlobNameError", name, err)
		}
	}
}

func TestBoltAdapterPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lanes.db")
	ctx := context.Background()

	a, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	if err := a.SaveBlob(ctx, TasksBlob, []byte("saved")); err != nil {
		t.Fatalf("SaveBlob failed: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer b.Close()

	data, ok, err := b.LoadBlob(ctx, TasksBlob)
	if err != nil || !ok || string(data) != "saved" {
		t.Errorf("LoadBlob after reopen = (%q, %v, %v)", data, ok, err)
	}
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()

	fileAdapter, err := Open(BackendFile, filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("Open(file) failed: %v", err)
	}
	if fa, ok := fileAdapter.(*FileAdapter); !ok || !fa.IsInitialized() {
		t.Error("file backend should create its directory")
	}

	boltAdapter, err := Open(BackendBolt, dir)
	if err != nil {
		t.Fatalf("Open(bolt) failed: %v", err)
	}
	defer boltAdapter.Close()
	if _, err := os.Stat(filepath.Join(dir, boltFile)); err != nil {
		t.Errorf("bolt backend did not create %s: %v", boltFile, err)
	}

	_, err = Open("s3", dir)
	var unknown UnknownBackendError
	if !errors.As(err, &unknown) {
		t.Errorf("Open(s3) error = %v, want UnknownBackendError", err)
	}
}

func TestDecodeBackfillsLegacyDocument(t *testing.T) {
	legacy := []byte(`{
  "columns": [
    {
      "id": "c1",
      "name": "Todo",
      "backgroundColor": "#3c3836",
      "tasks": [
        {"id": "t1", "text": "root", "priority": "P1", "completed": true, "completedAt": "2024-01-10T09:00:00.000Z", "parentId": null},
        {"id": "t2", "text": "child", "priority": null, "completed": false, "parentId": "t1"}
      ]
    },
    {"id": "c2", "name": "Done", "backgroundColor": "#504945", "tasks": []}
  ]
}`)

	b, repaired, err := Decode(legacy)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !repaired {
		t.Error("missing children lists should be reported as a repair")
	}

	for i, c := range b.Columns {
		if !c.Visible || c.Order != i || c.AutoSort {
			t.Errorf("column %s not backfilled: %+v", c.ID, c)
		}
	}

	col := b.Column("c1")
	root := col.Task("t1")
	if root.Priority != task.PriorityP1 || root.Cleared || root.Pending {
		t.Errorf("root not backfilled: %+v", root)
	}
	want := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	if root.CompletedAt == nil || !root.CompletedAt.Equal(want) {
		t.Errorf("CompletedAt = %v, want %v", root.CompletedAt, want)
	}
	if len(root.Children) != 1 || root.Children[0] != "t2" {
		t.Errorf("root children = %v, want rebuilt [t2]", root.Children)
	}
	if child := col.Task("t2"); child.Priority != task.PriorityNone || child.Children == nil {
		t.Errorf("child not backfilled: %+v", child)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("decoded board inconsistent: %v", err)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "{", "[1,2]", `{"columns": "nope"}`} {
		if _, _, err := Decode([]byte(input)); err == nil {
			t.Errorf("Decode(%q) should fail", input)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	b := board.New()
	colID := b.AddColumn("Work", "#076678", now)
	root := b.AddTask(colID, "root", task.PriorityP0, now)
	child := b.AddSubtask(colID, root, "child", task.PriorityNone, now)
	b.SetDueDate(colID, child, "2024-02-01")
	b.ToggleTask(colID, child, now)
	b.ClearCompleted(colID, now)
	b.TogglePending(colID, root)

	data, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, repaired, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if repaired {
		t.Error("a freshly encoded board should not need repair")
	}
	if !reflect.DeepEqual(b, decoded) {
		t.Errorf("round trip mismatch\nbefore: %s", data)
	}
}

func TestFindDataDir(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "project")
	nested := filepath.Join(project, "src", "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(project, DataDirName), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindDataDir(nested)
	if err != nil {
		t.Fatalf("FindDataDir failed: %v", err)
	}
	if want := filepath.Join(project, DataDirName); got != want {
		t.Errorf("FindDataDir = %q, want %q", got, want)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err = FindDataDir(t.TempDir())
	if err != nil {
		t.Fatalf("FindDataDir failed: %v", err)
	}
	if want := filepath.Join(home, DataDirName); got != want {
		t.Errorf("FindDataDir fallback = %q, want %q", got, want)
	}
}
