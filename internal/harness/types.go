package harness

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Wire is the canonical wire JSON of the built tree.
	// Empty when compilation failed.
	Wire string `json:"wire,omitempty"`

	// Hash is the content hash of the built tree.
	Hash string `json:"hash,omitempty"`

	// RootKind is the kind name of the root node.
	RootKind string `json:"root_kind,omitempty"`

	// ErrorCode is the compile error code, if compilation failed.
	ErrorCode string `json:"error_code,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
