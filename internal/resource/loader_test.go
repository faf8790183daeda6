package resource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoaderDeliversOnPoll(t *testing.T) {
	release := make(chan struct{})
	l := NewLoader(context.Background(), func(_ context.Context, path string) (string, error) {
		<-release
		if path == "missing" {
			return "", errors.New("not found")
		}
		return "mesh:" + path, nil
	}, 2, nil)

	ok := l.Request(1, "cube")
	bad := l.Request(2, "missing")
	require.False(t, ok.Done())
	require.Equal(t, 0, l.Poll(func(*Future[string]) { t.Fatal("nothing is complete yet") }))

	close(release)
	l.Wait()
	require.True(t, ok.Done())
	require.Equal(t, 0, l.Pending())

	got := map[string]error{}
	require.Equal(t, 2, l.Poll(func(f *Future[string]) {
		v, err := f.Result()
		got[f.Path+"="+v] = err
	}))
	require.NoError(t, got["cube=mesh:cube"])
	require.EqualError(t, got["missing="], "not found")
	require.EqualError(t, bad.Err(), "not found")

	require.Equal(t, 0, l.Poll(func(*Future[string]) { t.Fatal("delivered twice") }))
}

func TestLoaderBoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	gate := make(chan struct{})
	l := NewLoader(context.Background(), func(context.Context, string) (int, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-gate
		running.Add(-1)
		return 0, nil
	}, 2, nil)

	for i := 0; i < 6; i++ {
		l.Request(1, "x")
	}
	close(gate)
	l.Wait()
	require.LessOrEqual(t, peak.Load(), int32(2))
	require.Equal(t, 6, l.Poll(func(*Future[int]) {}))
}

func TestLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	block := make(chan struct{})
	started := make(chan struct{})
	l := NewLoader(ctx, func(context.Context, string) (int, error) {
		close(started)
		<-block
		return 1, nil
	}, 1, nil)

	l.Request(1, "first")
	<-started // first holds the only slot
	queued := l.Request(2, "second")
	cancel()
	<-queued.done
	require.ErrorIs(t, queued.Err(), context.Canceled)
	close(block)
	l.Wait()
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cube.obj"), []byte("v 0 0 0"), 0o644))

	load := FileLoader(dir)
	v, err := load(context.Background(), "cube.obj")
	require.NoError(t, err)
	require.Equal(t, []byte("v 0 0 0"), v)

	_, err = load(context.Background(), "sphere.obj")
	require.ErrorIs(t, err, os.ErrNotExist)
}
