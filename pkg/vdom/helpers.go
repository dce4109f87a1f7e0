package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Empty creates a placeholder node. Components without a render function
// render one.
func Empty(comment string) *VNode {
	return &VNode{
		Kind: KindEmpty,
		Text: comment,
	}
}

// El creates an element. Arguments may be Props, Attr, *VNode, []*VNode or
// string (a text child); nil children are skipped.
func El(tag string, args ...any) *VNode {
	node := &VNode{
		Kind: KindElement,
		Tag:  tag,
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case Props:
			if node.Props == nil {
				node.Props = make(Props, len(v))
			}
			for k, val := range v {
				node.Props[k] = val
			}
		case Attr:
			if v.Key == "key" {
				node.Key = fmt.Sprint(v.Value)
				continue
			}
			if node.Props == nil {
				node.Props = make(Props)
			}
			node.Props[v.Key] = v.Value
		default:
			node.Children = appendChildren(node.Children, arg)
		}
	}
	return node
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0, len(children)),
	}
	for _, child := range children {
		node.Children = appendChildren(node.Children, child)
	}
	return node
}

func appendChildren(dst []*VNode, child any) []*VNode {
	switch v := child.(type) {
	case nil:
	case *VNode:
		if v != nil {
			dst = append(dst, v)
		}
	case []*VNode:
		for _, c := range v {
			if c != nil {
				dst = append(dst, c)
			}
		}
	case string:
		dst = append(dst, Text(v))
	}
	return dst
}

// Attr is a single attribute.
type Attr struct {
	Key   string
	Value any
}

// A creates an attribute.
func A(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Key creates a key attribute.
func Key(key any) Attr {
	return Attr{Key: "key", Value: key}
}

// Range maps items to nodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// If returns node when condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}
