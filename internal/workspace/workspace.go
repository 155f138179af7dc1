package workspace

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KaramelBytes/classmate-cli/internal/pubsub"
	"github.com/KaramelBytes/classmate-cli/internal/utils"
)

var (
	ErrEmptyClassName    = errors.New("class name cannot be empty")
	ErrClassNotFound     = errors.New("class not found")
	ErrNoActiveClass     = errors.New("no active class selected")
	ErrEmptyDocumentName = errors.New("document name cannot be empty")
	ErrEmptyMessage      = errors.New("message cannot be empty")
)

// Settings are the request knobs used by Send.
type Settings struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Preamble    string

	// ContextLimit caps the class documents in the system message, in tokens. 0 means no cap.
	ContextLimit int
}

// Workspace holds the classes, their documents, the active class and the
// chat transcript. It is safe for concurrent use.
type Workspace struct {
	mu       sync.RWMutex
	classes  []*Class
	active   string
	messages []ChatMessage
	nextID   int
	settings Settings

	log    *zap.SugaredLogger
	broker *pubsub.Broker[Change]
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger used for chat diagnostics.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.log = l
		}
	}
}

// WithSettings sets the request knobs used by Send.
func WithSettings(s Settings) Option {
	return func(w *Workspace) { w.settings = s }
}

// New returns an empty workspace.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		nextID: 1,
		log:    zap.NewNop().Sugar(),
		broker: pubsub.NewBroker[Change](),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Subscribe streams workspace events until ctx is done or Close is called.
func (w *Workspace) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return w.broker.Subscribe(ctx)
}

// Close releases subscribers.
func (w *Workspace) Close() { w.broker.Shutdown() }

// Settings returns the current request knobs.
func (w *Workspace) Settings() Settings {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.settings
}

// AddClass appends a class with an empty document list. It reports false
// without changing anything when the name already exists. The first class
// added to a workspace without an active class becomes active.
func (w *Workspace) AddClass(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrEmptyClassName
	}
	w.mu.Lock()
	if w.findLocked(name) != nil {
		w.mu.Unlock()
		return false, nil
	}
	w.classes = append(w.classes, &Class{Name: name, Documents: []Document{}})
	selected := false
	if w.active == "" {
		w.active = name
		selected = true
	}
	w.mu.Unlock()

	w.broker.Publish(EventClassAdded, Change{Class: name})
	if selected {
		w.broker.Publish(EventClassSelected, Change{Class: name})
	}
	return true, nil
}

// SelectClass makes name the active class.
func (w *Workspace) SelectClass(name string) error {
	name = strings.TrimSpace(name)
	w.mu.Lock()
	if w.findLocked(name) == nil {
		w.mu.Unlock()
		return ErrClassNotFound
	}
	w.active = name
	w.mu.Unlock()
	w.broker.Publish(EventClassSelected, Change{Class: name})
	return nil
}

// Classes returns class names in insertion order.
func (w *Workspace) Classes() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.classes))
	for _, c := range w.classes {
		out = append(out, c.Name)
	}
	return out
}

// ActiveClass returns the active class name, or "" when none is selected.
func (w *Workspace) ActiveClass() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

// Documents returns a copy of the named class's documents.
func (w *Workspace) Documents(class string) ([]Document, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c := w.findLocked(class)
	if c == nil {
		return nil, ErrClassNotFound
	}
	return c.clone().Documents, nil
}

// ActiveDocuments returns a copy of the active class's documents.
func (w *Workspace) ActiveDocuments() []Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeDocsLocked()
}

// UploadDocument appends a document to the active class. A blank name falls
// back to the source file's base name without its extension.
func (w *Workspace) UploadDocument(name, source, content string) (Document, error) {
	w.mu.RLock()
	active := w.active
	w.mu.RUnlock()
	if active == "" {
		return Document{}, ErrNoActiveClass
	}
	return w.AddDocument(active, name, source, content)
}

// AddDocument appends a document to the named class.
func (w *Workspace) AddDocument(class, name, source, content string) (Document, error) {
	name = strings.TrimSpace(name)
	if name == "" && source != "" {
		base := filepath.Base(source)
		name = strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	if name == "" {
		return Document{}, ErrEmptyDocumentName
	}

	w.mu.Lock()
	c := w.findLocked(class)
	if c == nil {
		w.mu.Unlock()
		return Document{}, ErrClassNotFound
	}
	doc := Document{
		ID:      w.nextID,
		Name:    name,
		Source:  source,
		Content: content,
		Tokens:  utils.CountTokens(content),
		AddedAt: time.Now(),
	}
	w.nextID++
	c.Documents = append(c.Documents, doc)
	w.mu.Unlock()

	w.broker.Publish(EventDocumentAdded, Change{Class: class, Document: &doc})
	return doc, nil
}

// RemoveDocument removes the document with id from the active class.
// It reports false when no such document exists.
func (w *Workspace) RemoveDocument(id int) bool {
	w.mu.Lock()
	c := w.findLocked(w.active)
	if c == nil {
		w.mu.Unlock()
		return false
	}
	for i, d := range c.Documents {
		if d.ID != id {
			continue
		}
		c.Documents = append(c.Documents[:i], c.Documents[i+1:]...)
		class := c.Name
		w.mu.Unlock()
		w.broker.Publish(EventDocumentRemoved, Change{Class: class, Document: &d})
		return true
	}
	w.mu.Unlock()
	return false
}

// Messages returns a copy of the transcript in arrival order.
func (w *Workspace) Messages() []ChatMessage {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]ChatMessage, len(w.messages))
	copy(out, w.messages)
	return out
}

// ClearHistory drops the transcript. Classes and documents are kept.
func (w *Workspace) ClearHistory() int {
	w.mu.Lock()
	n := len(w.messages)
	w.messages = nil
	w.mu.Unlock()
	w.broker.Publish(EventHistoryCleared, Change{})
	return n
}

func (w *Workspace) findLocked(name string) *Class {
	for _, c := range w.classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (w *Workspace) activeDocsLocked() []Document {
	c := w.findLocked(w.active)
	if c == nil {
		return []Document{}
	}
	return c.clone().Documents
}
