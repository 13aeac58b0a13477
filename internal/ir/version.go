package ir

// Version constants for the tool and the producer version it writes.
const (
	// ToolVersion is the epsql release.
	ToolVersion = "0.1.0"

	// ProducerName is written into the Simulations header of created files.
	ProducerName = "epsql"
)
