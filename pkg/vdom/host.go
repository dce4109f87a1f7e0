package vdom

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownTree is returned when Host is asked to update or tear down a tree
// it never mounted.
var ErrUnknownTree = errors.New("vdom: tree is not mounted on this host")

// OpKind is the kind of call a Host recorded.
type OpKind uint8

const (
	OpMount OpKind = iota + 1
	OpUpdate
	OpTeardown
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpMount:
		return "mount"
	case OpUpdate:
		return "update"
	case OpTeardown:
		return "teardown"
	default:
		return "unknown"
	}
}

// Op is one recorded Patch call.
type Op struct {
	Kind    OpKind
	Handle  string
	Patches []Patch
}

// Root is a tree mounted on a Host. It implements Handle.
type Root struct {
	id   string
	tree *VNode
}

// HandleID implements Handle.
func (r *Root) HandleID() string { return r.id }

// Tree returns the tree currently mounted at r.
func (r *Root) Tree() *VNode { return r.tree }

// HTML renders the mounted tree.
func (r *Root) HTML() string { return RenderHTML(r.tree) }

// Host is an in-memory patch target. It keeps every mounted tree and records
// each call so tests and tools can inspect what a renderer would have done.
type Host struct {
	mu     sync.Mutex
	nextID int
	roots  map[*VNode]*Root
	ops    []Op
}

// NewHost creates an empty host.
func NewHost() *Host {
	return &Host{roots: make(map[*VNode]*Root)}
}

// Patch mounts next when prev is nil, updates prev to next, or tears prev
// down when next is nil. Passing the same tree twice is a no-op update.
func (h *Host) Patch(prev, next *VNode) (Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch {
	case prev == nil && next == nil:
		return nil, nil

	case prev == nil:
		h.nextID++
		root := &Root{id: fmt.Sprintf("root-%d", h.nextID), tree: next}
		h.roots[next] = root
		h.ops = append(h.ops, Op{Kind: OpMount, Handle: root.id, Patches: Diff(nil, next)})
		return root, nil

	case next == nil:
		root, ok := h.roots[prev]
		if !ok {
			return nil, ErrUnknownTree
		}
		delete(h.roots, prev)
		h.ops = append(h.ops, Op{Kind: OpTeardown, Handle: root.id, Patches: Diff(prev, nil)})
		return nil, nil

	default:
		root, ok := h.roots[prev]
		if !ok {
			return nil, ErrUnknownTree
		}
		patches := Diff(prev, next)
		if prev != next {
			delete(h.roots, prev)
			h.roots[next] = root
			root.tree = next
		}
		h.ops = append(h.ops, Op{Kind: OpUpdate, Handle: root.id, Patches: patches})
		return root, nil
	}
}

// Ops returns a copy of the recorded calls.
func (h *Host) Ops() []Op {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Op, len(h.ops))
	copy(out, h.ops)
	return out
}

// Mounted returns the number of trees currently mounted.
func (h *Host) Mounted() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.roots)
}

// Reset forgets the recorded calls.
func (h *Host) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ops = nil
}

// RenderHTML renders v as HTML-like markup. Text is not escaped beyond angle
// brackets and ampersands.
func RenderHTML(v *VNode) string {
	var sb strings.Builder
	renderHTML(&sb, v)
	return sb.String()
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func renderHTML(sb *strings.Builder, v *VNode) {
	if v == nil {
		return
	}
	switch v.Kind {
	case KindText:
		sb.WriteString(textEscaper.Replace(v.Text))
	case KindEmpty:
		sb.WriteString("<!--")
		sb.WriteString(v.Text)
		sb.WriteString("-->")
	case KindFragment:
		for _, c := range v.Children {
			renderHTML(sb, c)
		}
	case KindElement:
		sb.WriteString("<")
		sb.WriteString(v.Tag)
		for _, k := range sortedPropKeys(v.Props) {
			val := propToString(v.Props[k])
			if val == "" {
				continue
			}
			fmt.Fprintf(sb, " %s=%q", k, val)
		}
		sb.WriteString(">")
		for _, c := range v.Children {
			renderHTML(sb, c)
		}
		sb.WriteString("</")
		sb.WriteString(v.Tag)
		sb.WriteString(">")
	}
}
