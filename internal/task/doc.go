// Package task tracks the lifecycle of background media generation work.
// It provides an in-memory registry mapping task identifiers to task state,
// so long-running operations like speech synthesis and video composition
// don't block HTTP request handling and remain poll-able by clients that
// have no persistent connection.
package task
