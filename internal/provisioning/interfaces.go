package provisioning

// Stage defines the interface for a deployment stage.
type Stage interface {
	// Name returns the short identifier of this stage, e.g. "prerequisites".
	Name() string

	// Run executes the stage against the shared context.
	Run(ctx *Context) error
}

// Confirmer asks the operator to approve an action before it runs.
// Implemented by internal/ui for interactive sessions; non-interactive
// runs use AutoApprove.
type Confirmer interface {
	// Confirm presents the summary and returns true if the operator
	// approved the action.
	Confirm(title, summary string) (bool, error)
}

// AutoApprove is a Confirmer that approves every action. Used for
// --yes runs and in tests.
type AutoApprove struct{}

// Confirm always returns true.
func (AutoApprove) Confirm(string, string) (bool, error) { return true, nil }
