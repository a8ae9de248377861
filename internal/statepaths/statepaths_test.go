package statepaths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir in test environment")
	}
	if got := ExpandHomePath("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Fatalf("ExpandHomePath(~/x/y) = %q", got)
	}
	if got := ExpandHomePath("/abs/path"); got != "/abs/path" {
		t.Fatalf("absolute path rewritten: %q", got)
	}
	if got := ExpandHomePath("~"); got != home {
		t.Fatalf("ExpandHomePath(~) = %q", got)
	}
}
