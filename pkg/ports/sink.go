package ports

// DebugSink abstracts debug output for intermediate results. It allows
// saving captured frames and run metadata for inspection.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveRawFrame saves one captured frame as received from the source.
	SaveRawFrame(index int, data []byte) error

	// SaveSummaryJSON saves the recording summary as JSON.
	SaveSummaryJSON(data []byte) error
}
