package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherDebounce(t *testing.T) {
	var (
		dir      = t.TempDir()
		watched  = filepath.Join(dir, "part.stl")
		other    = filepath.Join(dir, "other.stl")
		calls    = make(chan string, 10)
		done     = make(chan error)
		ctx, end = context.WithCancel(context.Background())
	)
	require.NoError(t, os.WriteFile(watched, []byte("solid a\n"), 0644))

	fw, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, fw.Watch([]string{watched}, func(name string) { calls <- name }))
	go func() { done <- fw.Run(ctx) }()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(watched, []byte("solid b\n"), 0644))
	}
	require.NoError(t, os.WriteFile(other, []byte("solid c\n"), 0644))

	select {
	case name := <-calls:
		assert.Equal(t, watched, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case name := <-calls:
		t.Fatalf("unexpected second report for %s", name)
	case <-time.After(300 * time.Millisecond):
	}

	end()
	assert.NoError(t, <-done)
}
