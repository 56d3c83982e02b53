package cmd

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bronystylecrazy/swagsummary/config"
	"github.com/bronystylecrazy/swagsummary/xmldoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChangeSet_Matches(t *testing.T) {
	changes := newChangeSet(&config.Config{
		Input: "./api/openapi.json",
		Docs: config.DocsConfig{
			XML:        []string{"docs/*.xml"},
			GoPackages: []xmldoc.GoPackage{{Dir: "./domain"}},
		},
	})

	assert.True(t, changes.matches("api/openapi.json"))
	assert.True(t, changes.matches("docs/orders.xml"))
	assert.True(t, changes.matches("domain/status.go"))
	assert.False(t, changes.matches("domain/status_test.go"))
	assert.False(t, changes.matches("api/openapi.enriched.json"))
	assert.False(t, changes.matches("docs/readme.md"))

	assert.Equal(t, []string{"api", "docs", "domain"}, changes.dirs())
}

func TestWatchChanges_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "openapi.json")
	require.NoError(t, os.WriteFile(input, []byte("{}"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchChanges(ctx, newChangeSet(&config.Config{Input: input}), 50*time.Millisecond, zap.NewNop(), func() {
			runs.Add(1)
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(input, []byte("{\"n\":1}"), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o600))

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunWatch_RejectsOverwritingInput(t *testing.T) {
	command := NewEnrichCommand(zap.NewNop(), nil)
	err := command.runWatch(context.Background(), &config.Config{
		Input:  "openapi.json",
		Output: []string{"./openapi.json"},
	}, nil)
	assert.Error(t, err)
}
