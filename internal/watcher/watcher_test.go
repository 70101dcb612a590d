package watcher

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcherRejectsNilCallback(t *testing.T) {
	_, err := NewWatcher(time.Millisecond, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestNewWatcherRejectsBadGlob(t *testing.T) {
	_, err := NewWatcher(time.Millisecond, nil, []string{"["}, nil, func([]string) {})
	assert.Error(t, err)
}

func TestShouldExcludeFile(t *testing.T) {
	w, err := NewWatcher(time.Millisecond,
		[]string{".c", ".h"},
		[]string{".git"},
		[]string{"*.mod.c"},
		func([]string) {})
	require.NoError(t, err)
	defer w.Close()

	assert.False(t, w.shouldExcludeFile("drv.c"))
	assert.False(t, w.shouldExcludeFile(filepath.Join("src", "efx.h")))
	assert.True(t, w.shouldExcludeFile("notes.txt"))
	assert.True(t, w.shouldExcludeFile("drv.mod.c"))
	assert.True(t, w.shouldExcludeFile("Makefile"))
}

func TestShouldExcludeDir(t *testing.T) {
	w, err := NewWatcher(time.Millisecond, nil, []string{".git", "build*"}, nil, func([]string) {})
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, w.shouldExcludeDir(filepath.Join("repo", ".git")))
	assert.True(t, w.shouldExcludeDir("build-out"))
	assert.False(t, w.shouldExcludeDir("src"))
}

func TestDefaultExtensionsWhenNoneGiven(t *testing.T) {
	w, err := NewWatcher(time.Millisecond, nil, nil, nil, func([]string) {})
	require.NoError(t, err)
	defer w.Close()

	assert.False(t, w.shouldExcludeFile("drv.c"))
	assert.False(t, w.shouldExcludeFile("drv.h"))
	assert.True(t, w.shouldExcludeFile("drv.go"))
}

func TestDebounceBatchesChanges(t *testing.T) {
	got := make(chan []string, 1)
	w, err := NewWatcher(20*time.Millisecond, nil, nil, nil, func(paths []string) {
		got <- paths
	})
	require.NoError(t, err)
	defer w.Close()

	w.scheduleChange("a.c")
	w.scheduleChange("b.c")
	w.scheduleChange("a.c")

	select {
	case paths := <-got:
		assert.Len(t, paths, 2)
	case <-time.After(time.Second):
		t.Fatal("debounced callback never fired")
	}
}
