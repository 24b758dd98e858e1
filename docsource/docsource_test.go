package docsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hypermedia-go/hyperapi/hyper"
	"github.com/hypermedia-go/hyperapi/naval"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestSource_LoadJSON(t *testing.T) {
	dir := t.TempDir()
	tree := hyper.NewAffordances("api")
	tree.AddAffordance(hyper.NewAffordance("ping", "GET", "/ping"))
	data, err := naval.Codec{}.Encode(tree)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	path := writeFile(t, dir, "api.json", string(data))

	node, err := New(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	root, ok := node.(*hyper.Affordances)
	if !ok {
		t.Fatalf("expected composite root, got %T", node)
	}
	if !root.HasAffordanceWithID("ping") {
		t.Fatalf("document content lost")
	}
}

func TestSource_LoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "api.yaml", `
id: api
children:
  - id: search
    method: GET
    uri: /search
    inputs:
      - id: q
        value: ""
        required: true
    messages:
      "200": [search]
  - id: admin
    children: []
`)

	node, err := New(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	root, ok := node.(*hyper.Affordances)
	if !ok {
		t.Fatalf("expected composite root, got %T", node)
	}
	if root.Count() != 2 || !root.HasAffordanceWithID("search") || !root.HasAffordanceWithID("admin") {
		t.Fatalf("yaml children lost")
	}
	search := root.CopyAffordanceByID("search").(*hyper.Affordance)
	if len(search.Inputs()) != 1 || !search.Inputs()[0].Required() {
		t.Fatalf("yaml inputs lost: %v", search.ToPlain())
	}
}

func TestSource_LoadFailures(t *testing.T) {
	dir := t.TempDir()

	if _, err := New(filepath.Join(dir, "missing.json")).Load(); err == nil {
		t.Fatalf("missing file must be an error")
	}

	path := writeFile(t, dir, "scalar.yaml", `42`)
	if _, err := New(path).Load(); !errors.Is(err, ErrUnclassifiable) {
		t.Fatalf("expected ErrUnclassifiable, got %v", err)
	}

	path = writeFile(t, dir, "broken.json", `{"id":`)
	if _, err := New(path).Load(); !errors.Is(err, ErrUnclassifiable) {
		t.Fatalf("codec decode failures surface as ErrUnclassifiable, got %v", err)
	}
}

func TestSource_WatchSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "api.json", `{"kind":"affordances","children":[]}`)

	src := New(path, WithDebounce(50*time.Millisecond))
	sub := src.Subscriber()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Watch(ctx) }()

	// Give the watcher a moment to arm before touching the file.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "api.json", `{"kind":"affordances","id":"api","children":[]}`)

	select {
	case <-sub:
	case <-time.After(5 * time.Second):
		t.Fatalf("no change signal within 5s")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("watch must stop on cancel, got %v", err)
	}
}

func TestChangeNotifier_CloseUnblocksSubscribers(t *testing.T) {
	var cn ChangeNotifier
	sub := cn.Subscriber()
	cn.Notify()
	select {
	case <-sub:
	default:
		t.Fatalf("tick not delivered")
	}
	cn.Close()
	if _, open := <-sub; open {
		t.Fatalf("close must close subscriber channels")
	}
	// Late subscribers get an already-closed channel.
	if _, open := <-cn.Subscriber(); open {
		t.Fatalf("post-close subscriber must be closed")
	}
	cn.Notify() // no-op, no panic
}