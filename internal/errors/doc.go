// Package errors provides coded, formatted errors for the reactor runtime.
//
// Every failure path of the runtime (circular updates, rejected mutations,
// render and hook failures) is reported through a single error channel. Before
// it reaches that channel the failure is wrapped in an *Error carrying a stable
// code, a category, and the context string the runtime was in when it failed.
//
// # Error Codes
//
// Each code (e.g. "R001") maps to:
//   - A short message describing the failure
//   - A longer explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("R001").
//	    WithComponent("TodoList").
//	    WithInfo("scheduler flush").
//	    Wrap(reactive.ErrCircularUpdate)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R001: Circular update detected
//	//
//	//   in <TodoList> during scheduler flush
//	//
//	//   A watcher re-queued itself more than the allowed number of times ...
//
// Wrapped errors stay reachable through errors.Is and errors.As.
package errors
