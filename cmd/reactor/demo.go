package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/logging"
	"github.com/vango-dev/reactor/pkg/component"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/vdom"
)

func demoCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted component tree",
		Long: `Run a parent/child component tree through mount, batched updates,
deactivation, reactivation and destroy, printing every lifecycle hook and
the rendered markup after each step.

Examples:
  reactor demo
  REACTOR_LOG_LEVEL=debug reactor demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(dir)
			if err != nil {
				return err
			}
			rcfg := cfg.RuntimeConfig()
			rt := reactive.New(
				reactive.WithConfig(rcfg),
				reactive.WithLogger(logging.New(cfg.LogOptions())),
			)
			return runDemo(rt, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory holding the reactor config")

	return cmd
}

// demo is a counter app with a panel of items. The panel sits under an
// abstract keep-alive wrapper, so its parent is the app.
type demo struct {
	rt   *reactive.Runtime
	host *vdom.Host
	out  io.Writer

	app   *component.Instance
	keep  *component.Instance
	panel *component.Instance
	items []*component.Instance
}

func newDemo(rt *reactive.Runtime, out io.Writer) (*demo, error) {
	d := &demo{rt: rt, host: vdom.NewHost(), out: out}

	app, err := component.New(rt, component.Options{
		Name: "App",
		Data: func(*component.Instance) (map[string]any, error) {
			return map[string]any{"title": "reactor", "count": 0, "items": []any{"a", "b"}}, nil
		},
		Computed: map[string]component.ComputedFunc{
			"label": func(vm *component.Instance) (any, error) {
				return fmt.Sprintf("%v (%v)", vm.Get("title"), vm.Get("count")), nil
			},
		},
		Watch: map[string][]component.WatchHandler{
			"count": {{Handler: d.propagateCount}},
		},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			items := vm.Get("items").(*reactive.Array)
			return vdom.El("main",
				vdom.El("h1", vdom.Textf("%v", vm.Get("label"))),
				vdom.Textf("%d items", items.Len()),
			), nil
		},
		Patcher: d.host,
		Hooks:   d.hooks(),
	})
	if err != nil {
		return nil, err
	}
	d.app = app

	d.keep, err = component.New(rt, component.Options{
		Name:     "KeepAlive",
		Parent:   app,
		Abstract: true,
	})
	if err != nil {
		return nil, err
	}
	d.panel, err = component.New(rt, component.Options{
		Name:   "Panel",
		Parent: d.keep,
		Hooks:  d.hooks(),
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < 2; i++ {
		item, err := component.New(rt, component.Options{
			Name:      fmt.Sprintf("Item%d", i),
			Parent:    d.panel,
			Props:     []string{"count"},
			PropsData: map[string]any{"count": 0},
			Render: func(vm *component.Instance) (*vdom.VNode, error) {
				return vdom.El("li", vdom.Textf("%s sees %v", vm.Name(), vm.Get("count"))), nil
			},
			Patcher: d.host,
			Hooks:   d.hooks(),
		})
		if err != nil {
			return nil, err
		}
		d.items = append(d.items, item)
	}
	return d, nil
}

func (d *demo) hooks() component.Hooks {
	log := func(name string) []component.HookFunc {
		return []component.HookFunc{func(vm *component.Instance) error {
			fmt.Fprintf(d.out, "  %-10s %s\n", vm.Name(), name)
			return nil
		}}
	}
	return component.Hooks{
		Created:       log(component.HookCreated),
		Mounted:       log(component.HookMounted),
		BeforeUpdate:  log(component.HookBeforeUpdate),
		Updated:       log(component.HookUpdated),
		Activated:     log(component.HookActivated),
		Deactivated:   log(component.HookDeactivated),
		BeforeDestroy: log(component.HookBeforeDestroy),
		Destroyed:     log(component.HookDestroyed),
	}
}

// propagateCount passes the app's count down to the items as a prop.
func (d *demo) propagateCount(_ *component.Instance, newValue, _ any) error {
	for _, item := range d.items {
		if !item.IsDestroyed() {
			item.UpdateProps(map[string]any{"count": newValue})
		}
	}
	return nil
}

// step is one stage of the scripted run.
type step struct {
	name string
	run  func() error
}

func (d *demo) steps() []step {
	return []step{
		{"mount", d.mount},
		{"batched updates", func() error {
			d.Increment()
			d.Increment()
			d.Increment()
			d.app.Get("items").(*reactive.Array).Push("c")
			return nil
		}},
		{"deactivate", func() error {
			d.panel.Deactivate(true)
			return nil
		}},
		{"activate", func() error {
			d.panel.QueueActivated()
			return nil
		}},
		{"destroy item", func() error {
			d.items[1].Destroy()
			return nil
		}},
	}
}

func (d *demo) mount() error {
	if err := d.app.Mount(nil); err != nil {
		return err
	}
	for _, item := range d.items {
		if err := item.Mount(nil); err != nil {
			return err
		}
	}
	return nil
}

// Increment bumps the app's count.
func (d *demo) Increment() {
	d.app.Set("count", d.app.Get("count").(int)+1)
}

// Markup renders every mounted tree on the host.
func (d *demo) Markup() string {
	out := vdom.RenderHTML(d.app.Tree())
	for _, item := range d.items {
		if !item.IsDestroyed() {
			out += vdom.RenderHTML(item.Tree())
		}
	}
	return out
}

// runDemo runs every step on a runtime using the default dispatcher,
// draining the tick after each one.
func runDemo(rt *reactive.Runtime, out io.Writer) error {
	d, err := newDemo(rt, out)
	if err != nil {
		return err
	}
	for _, s := range d.steps() {
		fmt.Fprintf(out, "== %s\n", s.name)
		if err := s.run(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		rt.Tick()
		fmt.Fprintf(out, "   %s\n", d.Markup())
	}
	fmt.Fprintf(out, "== done: %d trees mounted, %d patch calls\n", d.host.Mounted(), len(d.host.Ops()))
	return nil
}
