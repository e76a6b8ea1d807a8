package term

// Version constants for the wire format and builder.
const (
	// WireVersion is the term wire format version (ReQL JSON protocol).
	WireVersion = "V0_4"

	// BuilderVersion is the term builder version.
	BuilderVersion = "0.1.0"
)
