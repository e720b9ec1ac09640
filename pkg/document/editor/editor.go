package editor

import (
	"bytes"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/aischool/richdoc/internal/media"
	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/render"
)

const defaultMaxConcurrentReads = 4

type Option func(*Editor)

func WithPlaceholder(placeholder string) Option {
	return func(e *Editor) {
		e.placeholder = placeholder
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithUploader sets the uploader used by UploadImage.
func WithUploader(u media.Uploader) Option {
	return func(e *Editor) {
		e.uploader = u
	}
}

// WithMaxConcurrentReads limits how many dropped or pasted files are read
// at the same time.
func WithMaxConcurrentReads(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.maxReads = int64(n)
		}
	}
}

// Editor owns an editing State and serializes every change to it. The
// change callback receives a copy of the document after each edit that
// changed it, in the order the edits were applied. The callback must not
// dispatch to the same editor.
type Editor struct {
	mu       sync.Mutex
	state    State
	closed   bool
	onChange func(document.Document)

	// Changes are numbered under mu and delivered in that order.
	emitMu   sync.Mutex
	emitTurn *sync.Cond
	nextEmit uint64
	emitted  uint64

	placeholder string
	logger      *zap.Logger
	uploader    media.Uploader
	maxReads    int64

	reads   *semaphore.Weighted
	pending sync.WaitGroup
}

// New creates an editor for value, which is resolved the same way the
// viewer resolves its input. onChange may be nil.
func New(value any, onChange func(document.Document), opts ...Option) *Editor {
	e := &Editor{
		onChange: onChange,
		maxReads: defaultMaxConcurrentReads,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	e.logger = e.logger.Named("editor")
	e.reads = semaphore.NewWeighted(e.maxReads)
	e.emitTurn = sync.NewCond(&e.emitMu)
	e.state = NewState(value)
	return e
}

// Dispatch applies cmd to the current state. It reports whether the
// document changed. Dispatching on a closed editor does nothing.
func (e *Editor) Dispatch(cmd Command) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	prev := e.state
	next := cmd(prev)
	e.state = next
	changed := !sameDocument(prev.Doc, next.Doc)
	if !changed || e.onChange == nil {
		e.mu.Unlock()
		return changed
	}

	ticket := e.nextEmit
	e.nextEmit++
	e.mu.Unlock()

	e.emit(ticket, next.Doc.Clone())
	return true
}

// emit waits for the changes numbered before ticket to be delivered and
// then calls the change callback with doc.
func (e *Editor) emit(ticket uint64, doc document.Document) {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()
	for e.emitted != ticket {
		e.emitTurn.Wait()
	}
	defer func() {
		e.emitted++
		e.emitTurn.Broadcast()
	}()
	e.onChange(doc)
}

// sameDocument reports whether a and b share their backing array. Commands
// return their input document untouched when they do not apply.
func sameDocument(a, b document.Document) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// State returns the current editing state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Document returns a copy of the current document.
func (e *Editor) Document() document.Document {
	return e.State().Doc.Clone()
}

func (e *Editor) Placeholder() string { return e.placeholder }

// Empty reports whether the document holds no text and no images, which
// is when surfaces show the placeholder.
func (e *Editor) Empty() bool {
	doc := e.State().Doc
	if document.PlainText(doc) != "" {
		return false
	}
	for _, b := range doc {
		if b.Type() == document.TypeImage {
			return false
		}
	}
	return true
}

// HTML renders the document with the same contract as the viewer.
func (e *Editor) HTML() string {
	var buf bytes.Buffer
	if err := render.Document(&buf, e.State().Doc); err != nil {
		e.logger.Debug("failed to render document", zap.Error(err))
	}
	return buf.String()
}

// Close detaches the editor. Reads still in flight complete without
// changing the document.
func (e *Editor) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

// Wait blocks until all pending file reads have finished.
func (e *Editor) Wait() {
	e.pending.Wait()
}
