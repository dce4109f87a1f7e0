package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without wrapper
	KindEmpty                 // Placeholder rendered as a comment
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindEmpty:
		return "Empty"
	default:
		return "Unknown"
	}
}

// VNode is a virtual tree node produced by a render function.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes
	Children []*VNode // Child nodes
	Key      string   // Identity hint for the host
	Text     string   // For KindText and KindEmpty

	// Parent is the placeholder node of the component that rendered this
	// tree, if any. It is cleared when the component is destroyed.
	Parent *VNode
}

// Props holds attributes.
type Props map[string]any

// Handle identifies the host-side root of a mounted tree.
type Handle interface {
	HandleID() string
}

// Count returns the number of nodes in the tree rooted at v.
func (v *VNode) Count() int {
	if v == nil {
		return 0
	}
	n := 1
	for _, c := range v.Children {
		n += c.Count()
	}
	return n
}
