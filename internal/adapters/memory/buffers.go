package memory

import (
	"sort"
	"strings"
	"sync"

	"vpgsync/internal/ports"
)

// Cursor is a caret position inside a buffer
type Cursor struct {
	Line   int
	Column int
}

type buffer struct {
	content string
	cursor  Cursor
}

// Buffers implements ports.TextBuffers in memory
type Buffers struct {
	mu      sync.RWMutex
	buffers map[string]*buffer
}

// Ensure Buffers implements TextBuffers
var _ ports.TextBuffers = (*Buffers)(nil)

// NewBuffers creates an empty buffer set
func NewBuffers() *Buffers {
	return &Buffers{buffers: make(map[string]*buffer)}
}

// Get returns a buffer's content
func (b *Buffers) Get(name string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	buf, ok := b.buffers[name]
	if !ok {
		return "", false
	}
	return buf.content, true
}

// Put replaces a buffer's content, keeping its cursor
func (b *Buffers) Put(name, content string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, ok := b.buffers[name]
	if !ok {
		buf = &buffer{}
		b.buffers[name] = buf
	}
	buf.content = content
	buf.cursor = ClampCursor(content, buf.cursor)
	return nil
}

// Delete removes a buffer
func (b *Buffers) Delete(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.buffers, name)
	return nil
}

// Names returns all buffer names, sorted
func (b *Buffers) Names() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.buffers))
	for name := range b.buffers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Cursor returns a buffer's cursor
func (b *Buffers) Cursor(name string) (Cursor, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	buf, ok := b.buffers[name]
	if !ok {
		return Cursor{}, false
	}
	return buf.cursor, true
}

// SetCursor moves a buffer's cursor, clamped to its content
func (b *Buffers) SetCursor(name string, c Cursor) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if buf, ok := b.buffers[name]; ok {
		buf.cursor = ClampCursor(buf.content, c)
	}
}

// ClampCursor keeps c inside content
func ClampCursor(content string, c Cursor) Cursor {
	lines := strings.Split(content, "\n")
	if c.Line < 0 {
		c.Line = 0
	}
	if c.Line >= len(lines) {
		c.Line = len(lines) - 1
	}
	if c.Column < 0 {
		c.Column = 0
	}
	if n := len(lines[c.Line]); c.Column > n {
		c.Column = n
	}
	return c
}
