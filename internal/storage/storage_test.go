package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileKV(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}

	t.Run("missing_key", func(t *testing.T) {
		_, found, err := kv.Get("nothing")
		if err != nil {
			t.Fatalf("Get error = %v", err)
		}
		if found {
			t.Error("Get reported found for missing key")
		}
	})

	t.Run("set_then_get", func(t *testing.T) {
		if err := kv.Set(ScheduleDataKey, `{"templates":[]}`); err != nil {
			t.Fatalf("Set error = %v", err)
		}
		v, found, err := kv.Get(ScheduleDataKey)
		if err != nil || !found {
			t.Fatalf("Get = (%v, %v), want found", err, found)
		}
		if v != `{"templates":[]}` {
			t.Errorf("Get value = %q", v)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := kv.Set(APIKeyKey, "first"); err != nil {
			t.Fatalf("Set error = %v", err)
		}
		if err := kv.Set(APIKeyKey, "second"); err != nil {
			t.Fatalf("Set error = %v", err)
		}
		v, _, _ := kv.Get(APIKeyKey)
		if v != "second" {
			t.Errorf("Get after overwrite = %q, want %q", v, "second")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := kv.Set("temp", "x"); err != nil {
			t.Fatalf("Set error = %v", err)
		}
		if err := kv.Delete("temp"); err != nil {
			t.Fatalf("Delete error = %v", err)
		}
		if _, found, _ := kv.Get("temp"); found {
			t.Error("key still present after Delete")
		}
		// Deleting a missing key is not an error.
		if err := kv.Delete("temp"); err != nil {
			t.Errorf("Delete of missing key error = %v", err)
		}
	})

	t.Run("rejects_path_traversal", func(t *testing.T) {
		if err := kv.Set("../escape", "x"); err == nil {
			t.Error("Set accepted key with path separator")
		}
		if _, _, err := kv.Get(""); err == nil {
			t.Error("Get accepted empty key")
		}
	})
}

func TestFileKV_SurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}
	if err := kv.Set(ScheduleDataKey, "persisted"); err != nil {
		t.Fatalf("Set error = %v", err)
	}

	reopened, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV (reopen) failed: %v", err)
	}
	v, found, err := reopened.Get(ScheduleDataKey)
	if err != nil || !found || v != "persisted" {
		t.Errorf("Get after reopen = (%q, %v, %v), want persisted value", v, found, err)
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestMemKV_FailWrites(t *testing.T) {
	kv := NewMemKV()
	kv.FailWrites = true
	if err := kv.Set("k", "v"); err == nil {
		t.Error("Set should fail when FailWrites is set")
	}
	if _, found, _ := kv.Get("k"); found {
		t.Error("failed write should not store a value")
	}
}
