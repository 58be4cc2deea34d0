// Package logging provides structured logging for the evaluation engine.
//
// # Overview
//
// The logging package implements a structured logging system with support
// for multiple output formats, log levels, and contextual fields tied to
// the load/evaluate/tick lifecycle.
//
// # Log Levels
//
//   - DEBUG: Detailed diagnostic information (evaluate and tick start/completion)
//   - INFO: General informational messages (graph load)
//   - WARN: Warning messages for potential issues (ready queue past its soft limit)
//   - ERROR: Error messages for failures (node evaluation, timer tick)
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Output: os.Stdout,
//	})
//
//	logger = logger.WithLoadID(graph.LoadID())
//	logger.Info("graph loaded")
//
// # Context Integration
//
// The logger integrates with Go contexts for automatic field extraction:
//
//	ctx = logger.WithContext(ctx)
//	logging.FromContext(ctx).Info("evaluate start")
//
// # Thread Safety
//
// All logger operations are safe for concurrent use from multiple
// goroutines without additional synchronization; the Engine itself is not
// safe for concurrent use and callers must serialize calls to it
// externally.
package logging
