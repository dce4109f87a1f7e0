package vdom

import (
	"errors"
	"testing"
)

func TestElBuildsTree(t *testing.T) {
	node := El("ul", Props{"class": "list"}, Key(7),
		Range([]string{"a", "b"}, func(s string, i int) *VNode {
			return El("li", s)
		}),
		nil,
		If(false, Text("hidden")),
	)

	if node.Kind != KindElement || node.Tag != "ul" {
		t.Errorf("got %v %q, want Element ul", node.Kind, node.Tag)
	}
	if node.Key != "7" {
		t.Errorf("got key %q, want 7", node.Key)
	}
	if len(node.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(node.Children))
	}
	if node.Count() != 5 {
		t.Errorf("got count %d, want 5", node.Count())
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		prev *VNode
		next *VNode
		want []PatchOp
	}{
		{"node removed", Text("a"), nil, []PatchOp{PatchRemoveNode}},
		{"text change", Text("a"), Text("b"), []PatchOp{PatchSetText}},
		{"text equal", Text("a"), Text("a"), nil},
		{"kind change", Text("a"), El("p"), []PatchOp{PatchReplaceNode}},
		{"tag change", El("p"), El("div"), []PatchOp{PatchReplaceNode}},
		{"attr set", El("p"), El("p", A("id", "x")), []PatchOp{PatchSetAttr}},
		{"attr removed", El("p", A("id", "x")), El("p"), []PatchOp{PatchRemoveAttr}},
		{"attr changed", El("p", A("id", "x")), El("p", A("id", "y")), []PatchOp{PatchSetAttr}},
		{"child added", El("p", "a"), El("p", "a", "b"), []PatchOp{PatchInsertNode}},
		{"child removed", El("p", "a", "b"), El("p", "a"), []PatchOp{PatchRemoveNode}},
		{"mount", nil, El("p"), []PatchOp{PatchInsertNode}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.prev, tt.next)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d patches %v, want %v", len(got), got, tt.want)
			}
			for i := range tt.want {
				if got[i].Op != tt.want[i] {
					t.Errorf("patch %d: got %v, want %v", i, got[i].Op, tt.want[i])
				}
			}
		})
	}
}

func TestDiffChildPath(t *testing.T) {
	prev := El("div", El("p", "a"), El("p", "b"))
	next := El("div", El("p", "a"), El("p", "c"))

	patches := Diff(prev, next)
	if len(patches) != 1 {
		t.Fatalf("got %d patches, want 1", len(patches))
	}
	if patches[0].Path != "1.0" || patches[0].Value != "c" {
		t.Errorf("got path %q value %q, want 1.0 c", patches[0].Path, patches[0].Value)
	}
}

func TestHostLifecycle(t *testing.T) {
	h := NewHost()
	first := El("p", "hello")

	handle, err := h.Patch(nil, first)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if handle == nil || handle.HandleID() == "" {
		t.Fatal("mount should return a handle")
	}

	second := El("p", "world")
	again, err := h.Patch(first, second)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if again.HandleID() != handle.HandleID() {
		t.Errorf("update should keep the handle, got %q want %q", again.HandleID(), handle.HandleID())
	}
	if got := again.(*Root).HTML(); got != "<p>world</p>" {
		t.Errorf("got %q", got)
	}

	if _, err := h.Patch(second, second); err != nil {
		t.Errorf("same tree twice should be safe, got %v", err)
	}

	if _, err := h.Patch(second, nil); err != nil {
		t.Fatalf("teardown: %v", err)
	}
	if h.Mounted() != 0 {
		t.Errorf("got %d mounted, want 0", h.Mounted())
	}

	ops := h.Ops()
	kinds := []OpKind{OpMount, OpUpdate, OpUpdate, OpTeardown}
	if len(ops) != len(kinds) {
		t.Fatalf("got %d ops, want %d", len(ops), len(kinds))
	}
	for i, k := range kinds {
		if ops[i].Kind != k {
			t.Errorf("op %d: got %v, want %v", i, ops[i].Kind, k)
		}
	}
	if len(ops[2].Patches) != 0 {
		t.Errorf("same-tree update should produce no patches, got %v", ops[2].Patches)
	}
}

func TestHostUnknownTree(t *testing.T) {
	h := NewHost()
	if _, err := h.Patch(Text("x"), Text("y")); !errors.Is(err, ErrUnknownTree) {
		t.Errorf("got %v, want ErrUnknownTree", err)
	}
	if _, err := h.Patch(Text("x"), nil); !errors.Is(err, ErrUnknownTree) {
		t.Errorf("got %v, want ErrUnknownTree", err)
	}
}

func TestRenderHTML(t *testing.T) {
	node := Fragment(
		El("a", Props{"href": "/x", "hidden": false}, "1 < 2"),
		Empty("v-if"),
	)
	want := `<a href="/x">1 &lt; 2</a><!--v-if-->`
	if got := RenderHTML(node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
