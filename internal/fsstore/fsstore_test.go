package fsstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteJSONAtomicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	in := map[string]string{"first_name": "Amogh", "email": "amogh@ufl.edu"}
	if err := WriteJSONAtomic(path, in); err != nil {
		t.Fatalf("WriteJSONAtomic error = %v", err)
	}
	var out map[string]string
	found, err := ReadJSON(path, &out)
	if err != nil {
		t.Fatalf("ReadJSON error = %v", err)
	}
	if !found {
		t.Fatalf("ReadJSON found = false, want true")
	}
	if out["email"] != "amogh@ufl.edu" {
		t.Fatalf("round trip email = %q", out["email"])
	}
}

func TestReadJSONMissingFile(t *testing.T) {
	var out map[string]string
	found, err := ReadJSON(filepath.Join(t.TempDir(), "absent.json"), &out)
	if err != nil {
		t.Fatalf("ReadJSON error = %v", err)
	}
	if found {
		t.Fatalf("ReadJSON found = true for missing file")
	}
}

func TestReadJSONEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var out map[string]string
	found, err := ReadJSON(path, &out)
	if err != nil {
		t.Fatalf("ReadJSON error = %v", err)
	}
	if found {
		t.Fatalf("ReadJSON found = true for empty file")
	}
}

func TestWithLockSerializes(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "locks", "contacts.lck")
	counter := 0
	for i := 0; i < 3; i++ {
		err := WithLock(context.Background(), lockPath, func() error {
			counter++
			return nil
		})
		if err != nil {
			t.Fatalf("WithLock error = %v", err)
		}
	}
	if counter != 3 {
		t.Fatalf("counter = %d, want 3", counter)
	}
}
