package reactive

import "sync/atomic"

// globalIDCounter is the source of ids for deps, watchers and component
// instances. Watchers are flushed in id order, so ids must follow creation
// order.
var globalIDCounter uint64

// NextID returns the next unique id. Ids are monotonically increasing and
// never reused.
func NextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
