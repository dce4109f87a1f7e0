package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	"R001": {
		Category: CategoryScheduler,
		Message:  "Circular update detected",
		Detail:   "A watcher re-queued itself more than the allowed number of times within a single flush. It has been dropped for the rest of this flush. This usually means a watcher or render function mutates state it also reads.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R001",
	},
	"R002": {
		Category: CategoryMutation,
		Message:  "Reactive property added to root data",
		Detail:   "Adding reactive properties to a component instance or its root data at runtime is not supported. Declare the key upfront in the data function.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R002",
	},
	"R003": {
		Category: CategoryMutation,
		Message:  "Property deleted from root data",
		Detail:   "Deleting properties from a component instance or its root data is not supported. Set the key to nil instead.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R003",
	},
	"R004": {
		Category: CategoryMutation,
		Message:  "Invalid mutation target",
		Detail:   "Reactive properties can only be set on or deleted from observable objects, arrays and maps. The target was nil or a primitive value.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R004",
	},
	"R005": {
		Category: CategoryWatcher,
		Message:  "Watcher getter failed",
		Detail:   "The evaluation function of a user watcher returned an error or panicked. The watcher keeps its previous value.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R005",
	},
	"R006": {
		Category: CategoryWatcher,
		Message:  "Watcher callback failed",
		Detail:   "The change callback of a user watcher returned an error or panicked.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R006",
	},
	"R007": {
		Category: CategoryWatcher,
		Message:  "Invalid watch path",
		Detail:   "Watch paths only accept simple dot-delimited keys. Use a getter function for full control.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R007",
	},
	"R008": {
		Category: CategoryLifecycle,
		Message:  "Lifecycle hook failed",
		Detail:   "A lifecycle hook returned an error or panicked. Remaining hooks in the same list still ran.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R008",
	},
	"R009": {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "The render function returned an error or panicked. The previously rendered tree is kept.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R009",
	},
	"R010": {
		Category: CategoryRender,
		Message:  "Render function not defined",
		Detail:   "The component has neither a render function nor a template with a compiler. It renders an empty node.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R010",
	},
	"R011": {
		Category: CategoryIntegrity,
		Message:  "Runtime integrity violation",
		Detail:   "An internal invariant of the reactivity runtime was violated. This is a bug in the runtime or in code that bypasses its API.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R011",
	},
	"R012": {
		Category: CategoryScheduler,
		Message:  "Callback failed",
		Detail:   "A next-tick or post-flush callback returned an error or panicked.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R012",
	},
	"R013": {
		Category: CategoryMutation,
		Message:  "Prop mutated directly",
		Detail:   "Avoid mutating a prop directly since the value will be overwritten whenever the parent component re-renders. Use data or a computed property based on the prop's value instead.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R013",
	},
	"R015": {
		Category: CategoryWatcher,
		Message:  "Subscriber notification failed",
		Detail:   "A subscriber failed while being notified of a change. Other subscribers of the same dependency were still notified.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R015",
	},
	"R016": {
		Category: CategoryScheduler,
		Message:  "Queued watcher failed",
		Detail:   "A watcher run by the scheduler returned an error or panicked. The remaining queued watchers still ran.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R016",
	},
	"R017": {
		Category: CategoryLifecycle,
		Message:  "Event handler failed",
		Detail:   "A component event listener returned an error or panicked. Remaining listeners for the event still ran.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R017",
	},
	"R018": {
		Category: CategoryLifecycle,
		Message:  "Data function failed",
		Detail:   "The data function returned an error or panicked. The component starts with empty data.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R018",
	},
	"R014": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file could not be parsed or contains invalid values.",
		DocURL:   "https://vango.dev/docs/reactor/errors/R014",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
