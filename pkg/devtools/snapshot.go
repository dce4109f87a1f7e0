package devtools

import (
	"github.com/vango-dev/reactor/pkg/component"
)

// Node is a serializable view of a component instance.
type Node struct {
	UID       uint64         `json:"uid"`
	Name      string         `json:"name"`
	Mounted   bool           `json:"mounted"`
	Inactive  bool           `json:"inactive"`
	Destroyed bool           `json:"destroyed"`
	Watchers  int            `json:"watchers"`
	Data      map[string]any `json:"data,omitempty"`
	Props     map[string]any `json:"props,omitempty"`
	Children  []Node         `json:"children,omitempty"`
}

// Snapshot builds the tree rooted at vm. It must run on the runtime's
// thread.
func Snapshot(vm *component.Instance) Node {
	n := Node{
		UID:       vm.UID(),
		Name:      vm.Name(),
		Mounted:   vm.IsMounted(),
		Inactive:  vm.IsInactive(),
		Destroyed: vm.IsDestroyed(),
		Watchers:  len(vm.Watchers()),
	}
	if d := vm.Data(); d != nil && d.Len() > 0 {
		n.Data = d.Raw()
	}
	if p := vm.Props(); p != nil && p.Len() > 0 {
		n.Props = p.Raw()
	}
	for _, c := range vm.Children() {
		n.Children = append(n.Children, Snapshot(c))
	}
	return n
}
