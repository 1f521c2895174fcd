// Package sweep implements the lookback-window sweep engine.
//
// For every dataset the orchestrator prepares the data once, then trains
// and scores one classifier per candidate trailing window, records every
// attempt, and tracks the window with the best ROC-AUC. A failure inside
// one dataset never aborts the sweep for the remaining ones.
package sweep
