package product

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products":[{"id":"p1","name":"A","price":1,"stock":1}]}`), 0o644))

	ctx := context.Background()
	c := NewCatalog(NewSource(path), nil)
	require.NoError(t, c.Load(ctx))
	require.Equal(t, 1, c.Status().Count)

	w, err := NewWatcher(path, c)
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond

	reloaded := make(chan error, 8)
	w.OnReload = func(err error) {
		select {
		case reloaded <- err:
		default:
		}
	}

	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte(`{"products":[{"id":"p1","name":"A","price":1,"stock":1},{"id":"p2","name":"B","price":2,"stock":2}]}`), 0o644))

	// a reload may observe the truncated file first; a later event fixes it
	assert.Eventually(t, func() bool { return c.Status().Count == 2 }, 5*time.Second, 10*time.Millisecond)
	assert.NotEmpty(t, reloaded)
	require.NoError(t, w.Stop())
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "products.json")
	w, err := NewWatcher(path, NewCatalog(NewSource(path), nil))
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
}
