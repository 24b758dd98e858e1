// Package docsource loads affordance documents from disk, so a request
// tree can be authored as a file instead of built in code. JSON documents
// go through a wire codec; YAML documents are decoded and then classified
// through the same duck-typed revival the codecs use.
//
// A Source can additionally watch its file and signal subscribers when the
// document changes, with edits debounced so editors that write in bursts
// produce one reload, not five.
package docsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/hypermedia-go/hyperapi/codec"
	"github.com/hypermedia-go/hyperapi/hyper"
	"github.com/hypermedia-go/hyperapi/naval"
)

// ErrUnclassifiable is returned when a document parses but its root revives
// to neither an Affordance nor an Affordances.
var ErrUnclassifiable = errors.New("docsource: document root is not an affordance tree")

// Source reads one affordance document from a file.
type Source struct {
	path     string
	wire     codec.Codec
	log      *slog.Logger
	debounce time.Duration
	notifier ChangeNotifier
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithCodec sets the codec used for non-YAML documents. Defaults to the
// NavAL JSON codec.
func WithCodec(c codec.Codec) SourceOption {
	return func(s *Source) {
		if c != nil {
			s.wire = c
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) SourceOption {
	return func(s *Source) {
		if log != nil {
			s.log = log
		}
	}
}

// WithDebounce sets the quiet period collapsing bursts of file events into
// one notification. Values <= 0 are ignored; the default is 200ms.
func WithDebounce(d time.Duration) SourceOption {
	return func(s *Source) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// New constructs a Source for the document at path.
func New(path string, opts ...SourceOption) *Source {
	s := &Source{
		path:     path,
		wire:     naval.Codec{},
		log:      slog.Default(),
		debounce: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and revives the document. YAML files (.yaml, .yml) are parsed
// with the YAML decoder and classified structurally; everything else goes
// through the configured codec.
func (s *Source) Load() (hyper.Node, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("docsource: read %s: %w", s.path, err)
	}
	var node hyper.Node
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		var plain any
		if err := yaml.Unmarshal(data, &plain); err != nil {
			return nil, fmt.Errorf("docsource: parse %s: %w", s.path, err)
		}
		node = hyper.ReviveNode(plain)
	default:
		node = s.wire.Decode(data)
	}
	if node == nil {
		return nil, ErrUnclassifiable
	}
	return node, nil
}

// Subscriber returns a channel that ticks after the watched document
// changes. Watch must be running for ticks to arrive.
func (s *Source) Subscriber() <-chan struct{} {
	return s.notifier.Subscriber()
}

// Watch blocks watching the document's directory until ctx is done,
// signalling subscribers on every debounced write to the file. Watching the
// directory rather than the file keeps the watch alive across the
// rename-and-replace dance most editors perform on save.
func (s *Source) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("docsource: watcher: %w", err)
	}
	defer watcher.Close()
	defer s.notifier.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("docsource: watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(s.path)
	if err != nil {
		target = s.path
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.debounce)
			}
			pending = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("document watch error", slog.String("path", s.path), slog.String("err", err.Error()))
		case <-pending:
			pending = nil
			s.log.Debug("document changed", slog.String("path", s.path))
			s.notifier.Notify()
		}
	}
}
