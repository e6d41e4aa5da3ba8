package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/sysmlite/pkg/errors"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func startWatcher(t *testing.T, path string) (<-chan struct{}, context.CancelFunc) {
	t.Helper()
	w, err := New(path, 30*time.Millisecond, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	fired := make(chan struct{}, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(context.Context) error {
			fired <- struct{}{}
			return nil
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return fired, cancel
}

func TestRunFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagram.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	fired, _ := startWatcher(t, path)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(`{"n":1}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("action never ran")
	}
}

func TestRunIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagram.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	fired, _ := startWatcher(t, path)

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
		t.Fatal("action ran for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "diagram.json"), 0, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v", w.debounce)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx, func(context.Context) error { return nil }); err != nil {
		t.Errorf("Run after cancel = %v", err)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New("", 0, nil); !errs.Is(err, errs.ErrCodeInvalidPath) {
		t.Errorf("empty path err = %v", err)
	}
	missing := filepath.Join(t.TempDir(), "no-such-dir", "diagram.json")
	if _, err := New(missing, 0, nil); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing dir err = %v", err)
	}
}
