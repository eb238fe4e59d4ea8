package diaglog_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-db/diaglog"
)

func TestAppendWritesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "client.log")
	s := diaglog.New(path, true, nil)

	s.Append("[JS] first")
	s.Append("[JS] second\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[JS] first\n[JS] second\n", string(data))
}

func TestAppendDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	s := diaglog.New(path, false, nil)
	assert.False(t, s.Enabled())

	s.Append("ignored")

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAppendFailureIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	s := diaglog.New(filepath.Join(blocker, "client.log"), true, nil)
	assert.NotPanics(t, func() { s.Append("lost") })
}

func TestAppendConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	s := diaglog.New(path, true, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append("line")
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 20*len("line\n"), len(data))
}
