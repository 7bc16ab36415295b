package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/topoviz/pkg/cache"
	"github.com/matzehuels/topoviz/pkg/config"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Dir = t.TempDir()
	return c
}

func TestCacheDirFromConfig(t *testing.T) {
	c := newTestCLI(t)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != c.Config.Cache.Dir {
		t.Errorf("cacheDir() = %q, want %q", dir, c.Config.Cache.Dir)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(io.Discard, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()

	c := newTestCLI(t)
	ch, err := c.newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := ch.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := ch.Get(ctx, "k"); !hit {
		t.Error("file backend should store entries")
	}

	for _, noCache := range []bool{true, false} {
		c := newTestCLI(t)
		if !noCache {
			c.Config.Cache.Backend = config.CacheNone
		}
		ch, err := c.newCache(ctx, noCache)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := ch.(*cache.NullCache); !ok {
			t.Errorf("noCache=%v: got %T, want *cache.NullCache", noCache, ch)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	c := newTestCLI(t)
	dir := c.Config.Cache.Dir
	if err := os.WriteFile(filepath.Join(dir, "entry"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path", "--config", filepath.Join(t.TempDir(), "none.toml")})
	root.PersistentPreRunE = nil
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != dir {
		t.Errorf("cache path = %q, want %q", out.String(), dir)
	}

	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "entry")); !os.IsNotExist(err) {
		t.Error("cache clear should remove entries")
	}
}
