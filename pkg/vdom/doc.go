// Package vdom provides the virtual tree produced by component render
// functions and an in-memory host that applies it.
//
// # Core Types
//
// VNode represents elements, text, fragments and empty placeholders. Props
// holds element attributes.
//
//	El("div", Props{"class": "card"},
//	    El("h1", "Title"),
//	    El("p", Textf("%d items", n)),
//	)
//
// # Diffing
//
// Diff compares two trees and returns the Patch operations needed to turn
// one into the other. Children are matched by position.
//
// # Host
//
// Host implements the patch contract used by components: Patch(nil, tree)
// mounts, Patch(prev, tree) updates and Patch(tree, nil) tears down. Every
// call is recorded as an Op.
package vdom
