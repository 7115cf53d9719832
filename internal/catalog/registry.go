package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"
)

var (
	// ErrDuplicateName is returned when a tool name is registered twice.
	ErrDuplicateName = errors.New("duplicate tool name")

	// ErrInvalidEntry is returned for entries missing a name, a description,
	// or a payload.
	ErrInvalidEntry = errors.New("invalid tool entry")

	// ErrUnknownTool is returned when a name is not in the registry.
	ErrUnknownTool = errors.New("tool not found")

	// ErrReadFailed wraps filesystem errors raised while reading a source.
	ErrReadFailed = errors.New("reading tool source")

	// ErrNotText is returned when a source file is not valid UTF-8.
	ErrNotText = errors.New("tool source is not UTF-8 text")
)

// Entry binds a tool name to the text it returns.
type Entry struct {
	Name        string
	Description string

	// Source is the file returned by the tool. Relative paths are
	// resolved against the registry root.
	Source string

	// Text is returned as-is when Source is empty.
	Text string
}

// Inline reports whether the entry carries its payload as a literal.
func (e Entry) Inline() bool {
	return e.Source == ""
}

func (e Entry) validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if e.Description == "" {
		return fmt.Errorf("%w: tool %q: description is required", ErrInvalidEntry, e.Name)
	}
	if e.Source != "" && e.Text != "" {
		return fmt.Errorf("%w: tool %q: source and text are mutually exclusive", ErrInvalidEntry, e.Name)
	}
	if e.Source == "" && e.Text == "" {
		return fmt.Errorf("%w: tool %q: source or text is required", ErrInvalidEntry, e.Name)
	}
	return nil
}

// Builder collects entries for a Registry.
type Builder struct {
	root    string
	entries []Entry
	index   map[string]int
}

// NewBuilder returns a builder whose relative sources resolve against root.
func NewBuilder(root string) *Builder {
	return &Builder{
		root:  root,
		index: make(map[string]int),
	}
}

// Add registers an entry. It performs no I/O.
func (b *Builder) Add(e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	if _, exists := b.index[e.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, e.Name)
	}
	b.index[e.Name] = len(b.entries)
	b.entries = append(b.entries, e)
	return nil
}

// AddAll registers entries in order and stops at the first error.
func (b *Builder) AddAll(entries ...Entry) error {
	for _, e := range entries {
		if err := b.Add(e); err != nil {
			return err
		}
	}
	return nil
}

// Build returns an immutable registry holding the entries added so far.
func (b *Builder) Build() *Registry {
	r := &Registry{
		root:    b.root,
		entries: make([]Entry, len(b.entries)),
		index:   make(map[string]int, len(b.index)),
	}
	copy(r.entries, b.entries)
	for k, v := range b.index {
		r.index[k] = v
	}
	return r
}

// Registry is the name to source table served by the request loop.
// It is safe for concurrent use because it is never mutated.
type Registry struct {
	root    string
	entries []Entry
	index   map[string]int
}

// Root returns the directory relative sources resolve against.
func (r *Registry) Root() string { return r.root }

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// Entries returns a copy of the entries in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Path returns the resolved source path of e, or "" for inline entries.
func (r *Registry) Path(e Entry) string {
	if e.Inline() {
		return ""
	}
	return Resolve(r.root, e.Source)
}

// Read returns the current contents of the source bound to name.
// The file is read on every call. Errors name the tool but never the
// resolved path, since they are relayed to the peer.
func (r *Registry) Read(name string) (string, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if e.Inline() {
		return e.Text, nil
	}

	data, err := os.ReadFile(r.Path(e))
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return "", fmt.Errorf("%w: tool %q: %w", ErrReadFailed, name, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: tool %q", ErrNotText, name)
	}
	return string(data), nil
}

// Verify reads every bound source once and reports all failures. Unlike
// Read, each failure carries the resolved path for the operator.
func (r *Registry) Verify() error {
	var errs []error
	for _, e := range r.entries {
		if _, err := r.Read(e.Name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path(e), err))
		}
	}
	return errors.Join(errs...)
}

// Resolve joins a relative source onto root. Absolute sources are cleaned
// and returned unchanged.
func Resolve(root, source string) string {
	if filepath.IsAbs(source) || root == "" {
		return filepath.Clean(source)
	}
	return filepath.Join(root, source)
}
