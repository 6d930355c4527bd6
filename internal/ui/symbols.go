package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Run completed
	SymbolFail     = "✗" // Run failed
	SymbolPending  = "○" // Cycle not yet sampled
	SymbolComplete = "●" // Cycle sampled
)
