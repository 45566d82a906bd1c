package template

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
)

type countingCache struct {
	mu    sync.Mutex
	trees map[string]*Tree
	hits  int
}

func (c *countingCache) Get(src string) (*Tree, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.trees[src]
	if ok {
		c.hits++
	}
	return t, ok
}

func (c *countingCache) Put(src string, tree *Tree) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trees[src] = tree
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.tmpl")
	if err := os.WriteFile(path, []byte("Hi {{ name |> upper }}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := RenderFile(path, Context{"name": StringValue("ana")})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "Hi ANA" {
		t.Fatalf("got %q", out)
	}

	_, err = RenderFile(path, Context{})
	if !IsKind(err, KindContextLookup) {
		t.Fatalf("want lookup error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error should name the file: %v", err)
	}
}

func TestRenderFileMissing(t *testing.T) {
	_, err := RenderFile(filepath.Join(t.TempDir(), "nope.tmpl"), Context{})
	if !IsKind(err, KindIO) {
		t.Fatalf("want io error, got %v", err)
	}
	if !os.IsNotExist(errorsCause(err)) {
		t.Fatalf("cause should be not-exist, got %v", err)
	}
}

func errorsCause(err error) error {
	if te, ok := err.(*Error); ok {
		return te.Cause
	}
	return nil
}

func TestEngineCache(t *testing.T) {
	cache := &countingCache{trees: map[string]*Tree{}}
	e := NewEngine(nil, cache)
	ctx := Context{"x": StringValue("v")}
	for i := 0; i < 3; i++ {
		out, err := e.Render("<{{ x }}>", ctx)
		if err != nil {
			t.Fatalf("render error: %v", err)
		}
		if out != "<v>" {
			t.Fatalf("got %q", out)
		}
	}
	if cache.hits != 2 {
		t.Fatalf("cache hits = %d, want 2", cache.hits)
	}
	if _, err := e.Render("{{ broken", ctx); !IsKind(err, KindSegmentation) {
		t.Fatalf("want segmentation error, got %v", err)
	}
	if _, ok := cache.trees["{{ broken"]; ok {
		t.Fatalf("failed parse must not be cached")
	}
}

func TestEngineRenderNamed(t *testing.T) {
	e := NewEngine(MemoryLoader{"p": "P{{ x }}"}, nil)
	out, err := e.RenderNamed("p", Context{"x": StringValue("5")})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "P5" {
		t.Fatalf("got %q", out)
	}
	if _, err := e.RenderNamed("q", Context{}); !IsKind(err, KindIO) {
		t.Fatalf("want io error, got %v", err)
	}
	if _, err := NewEngine(nil, nil).RenderNamed("p", Context{}); !IsKind(err, KindIO) {
		t.Fatalf("want io error without loader, got %v", err)
	}
}

func TestDirLoader(t *testing.T) {
	l := DirLoader{FS: fstest.MapFS{"a.tmpl": {Data: []byte("A{{ v }}")}}}
	e := NewEngine(l, nil)
	out, err := e.RenderNamed("a.tmpl", Context{"v": StringValue("!")})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "A!" {
		t.Fatalf("got %q", out)
	}
	if _, err := l.Load("b.tmpl"); err == nil {
		t.Fatalf("expected not found")
	} else if _, ok := err.(ErrTemplateNotFound); !ok {
		t.Fatalf("want ErrTemplateNotFound, got %T", err)
	}
}

func TestEngineConcurrentRender(t *testing.T) {
	cache := &countingCache{trees: map[string]*Tree{}}
	e := NewEngine(nil, cache)
	ctx := Context{"name": StringValue("go")}
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := e.Render("{{ name |> upper }}", ctx)
			if err != nil {
				errs <- err
				return
			}
			if out != "GO" {
				errs <- &Error{Kind: KindGrammar, Message: "unexpected output " + out, Offset: -1}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
