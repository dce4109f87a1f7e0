package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Diff compares two trees and returns the operations that turn prev into
// next. Children are matched by position.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	diff(prev, next, "", &patches)
	return patches
}

func diff(prev, next *VNode, path string, patches *[]Patch) {
	if prev == next {
		return
	}
	if prev == nil {
		*patches = append(*patches, Patch{Op: PatchInsertNode, Path: path, Node: next})
		return
	}
	if next == nil {
		*patches = append(*patches, Patch{Op: PatchRemoveNode, Path: path})
		return
	}
	if prev.Kind != next.Kind || prev.Tag != next.Tag || prev.Key != next.Key {
		*patches = append(*patches, Patch{Op: PatchReplaceNode, Path: path, Node: next})
		return
	}

	switch prev.Kind {
	case KindText, KindEmpty:
		if prev.Text != next.Text {
			*patches = append(*patches, Patch{Op: PatchSetText, Path: path, Value: next.Text})
		}
	case KindElement:
		diffProps(prev, next, path, patches)
		diffChildren(prev, next, path, patches)
	case KindFragment:
		diffChildren(prev, next, path, patches)
	}
}

func diffProps(prev, next *VNode, path string, patches *[]Patch) {
	for _, key := range sortedPropKeys(prev.Props) {
		nextVal, ok := next.Props[key]
		if !ok {
			*patches = append(*patches, Patch{Op: PatchRemoveAttr, Path: path, Key: key})
		} else if !propsEqual(prev.Props[key], nextVal) {
			*patches = append(*patches, Patch{Op: PatchSetAttr, Path: path, Key: key, Value: propToString(nextVal)})
		}
	}
	for _, key := range sortedPropKeys(next.Props) {
		if _, ok := prev.Props[key]; !ok {
			*patches = append(*patches, Patch{Op: PatchSetAttr, Path: path, Key: key, Value: propToString(next.Props[key])})
		}
	}
}

func diffChildren(prev, next *VNode, path string, patches *[]Patch) {
	n := len(prev.Children)
	if len(next.Children) > n {
		n = len(next.Children)
	}
	for i := 0; i < n; i++ {
		childPath := strconv.Itoa(i)
		if path != "" {
			childPath = path + "." + childPath
		}
		switch {
		case i >= len(prev.Children):
			*patches = append(*patches, Patch{Op: PatchInsertNode, Path: path, Index: i, Node: next.Children[i]})
		case i >= len(next.Children):
			*patches = append(*patches, Patch{Op: PatchRemoveNode, Path: childPath})
		default:
			diff(prev.Children[i], next.Children[i], childPath, patches)
		}
	}
}

func sortedPropKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func propsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return ""
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
