// Package observer provides an event-driven observer pattern for the
// engine's load/evaluate/tick lifecycle.
//
// # Overview
//
// The observer package implements the observer pattern to enable
// monitoring, logging, and reacting to engine lifecycle events. Observers
// can track graph loads, evaluate() and tick() calls, and individual node
// evaluations without coupling to the engine implementation.
//
// # Event Timing
//
//	Load
//	  → EventLoad
//	Evaluate
//	  → EventEvaluateStart
//	     → EventNodeEvaluated (per node run during the call)
//	  → EventEvaluateEnd
//	Tick
//	  → EventTickStart
//	     → EventNodeEvaluated (per Timer advanced)
//	  → EventTickEnd
//
// # Basic Usage
//
//	mgr := observer.NewManager()
//	mgr.Register(observer.NewConsoleObserver())
//	mgr.Notify(ctx, observer.Event{Type: observer.EventLoad, LoadID: g.LoadID()})
//
// # Built-in Observers
//
//   - NoOpObserver: discards every event.
//   - ConsoleObserver: logs every event through a Logger.
//
// # Error Handling
//
// Observer panics are recovered by Manager.Notify and never propagate to
// the scheduler; execution continues normally and other observers still
// receive the event.
//
// # Thread Safety
//
// Manager.Notify dispatches to each registered observer in its own
// goroutine, so Observer implementations may be called concurrently and
// must synchronize their own state.
package observer
