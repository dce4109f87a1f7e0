package component

import (
	"testing"
)

func TestMergeOptionsHooksAndMixins(t *testing.T) {
	rt, _ := newTestRuntime(t)
	var order []string
	hook := func(name string) HookFunc {
		return func(*Instance) error {
			order = append(order, name)
			return nil
		}
	}

	mixin := Options{
		Hooks:   Hooks{Created: []HookFunc{hook("mixin")}},
		Methods: map[string]MethodFunc{"who": func(*Instance, ...any) (any, error) { return "mixin", nil }},
	}
	base := Options{Name: "Base", Hooks: Hooks{Created: []HookFunc{hook("base")}}}
	own := Options{
		Name:    "Own",
		Mixins:  []Options{mixin},
		Hooks:   Hooks{Created: []HookFunc{hook("own")}},
		Methods: map[string]MethodFunc{"who": func(*Instance, ...any) (any, error) { return "own", nil }},
	}

	merged := MergeOptions(base, own)
	if merged.Name != "Own" {
		t.Errorf("got name %q, want Own", merged.Name)
	}

	vm := mustNew(t, rt, merged)
	if want := []string{"base", "mixin", "own"}; !equalStrings(order, want) {
		t.Errorf("got %v, want %v", order, want)
	}
	if got, _ := vm.Call("who"); got != "own" {
		t.Errorf("got %v, want own", got)
	}
}

func TestMergeData(t *testing.T) {
	rt, _ := newTestRuntime(t)
	base := Options{Data: dataOf(map[string]any{
		"a":      1,
		"nested": map[string]any{"x": 1, "y": 1},
	})}
	override := Options{Data: dataOf(map[string]any{
		"b":      2,
		"nested": map[string]any{"x": 2},
	})}

	data, err := MergeOptions(base, override).Data(nil)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	nested := data["nested"].(map[string]any)
	if data["a"] != 1 || data["b"] != 2 || nested["x"] != 2 || nested["y"] != 1 {
		t.Errorf("got %v", data)
	}
	if vm := mustNew(t, rt, MergeOptions(base, override)); vm.Get("a") != 1 {
		t.Errorf("got %v, want 1", vm.Get("a"))
	}
}

func TestMergeWatchAndProps(t *testing.T) {
	h := WatchHandler{}
	merged := MergeOptions(
		Options{Props: []string{"a", "b"}, Watch: map[string][]WatchHandler{"a": {h}}},
		Options{Props: []string{"b", "c"}, Watch: map[string][]WatchHandler{"a": {h}, "c": {h}}},
	)

	if want := []string{"a", "b", "c"}; !equalStrings(merged.Props, want) {
		t.Errorf("got props %v, want %v", merged.Props, want)
	}
	if len(merged.Watch["a"]) != 2 || len(merged.Watch["c"]) != 1 {
		t.Errorf("got watch %v", merged.Watch)
	}
}

func TestDefinition(t *testing.T) {
	rt, _ := newTestRuntime(t)
	def := Define(Options{
		Name:  "Button",
		Props: []string{"label"},
	})
	ext := def.Extend(Options{Name: "IconButton", Props: []string{"icon"}})

	vm, err := ext.New(rt, Options{PropsData: map[string]any{"label": "ok", "icon": "star"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if vm.Name() != "IconButton" {
		t.Errorf("got %q, want IconButton", vm.Name())
	}
	if vm.Get("label") != "ok" || vm.Get("icon") != "star" {
		t.Errorf("got label %v icon %v", vm.Get("label"), vm.Get("icon"))
	}
	if len(def.Options().Props) != 1 {
		t.Error("Extend should not modify the base definition")
	}
}
