package hooked

// Extension provides hooks into the runtime lifecycle
type Extension interface {
	// Name returns the extension's name
	Name() string

	// Order determines extension execution order (lower = earlier)
	Order() int

	// Init is called when the extension is registered to a runtime
	Init(rt *Runtime) error

	// Wrap intercepts operations (invoke, effect, invalidate)
	Wrap(next func() (any, error), op *Operation) (any, error)

	// OnError handles errors surfaced by an operation
	OnError(err error, op *Operation, rt *Runtime)

	// OnCleanupError handles cleanup failures
	// Returns true if the error was handled, false to use default behavior
	OnCleanupError(err *CleanupError) bool

	// Dispose is called when the runtime is disposed
	Dispose(rt *Runtime) error
}

// BaseExtension provides default implementations for Extension methods
type BaseExtension struct {
	name string
}

// NewBaseExtension creates a new base extension with the given name
func NewBaseExtension(name string) BaseExtension {
	return BaseExtension{name: name}
}

func (e *BaseExtension) Name() string {
	return e.name
}

func (e *BaseExtension) Order() int {
	return 100
}

func (e *BaseExtension) Init(rt *Runtime) error {
	return nil
}

func (e *BaseExtension) Wrap(next func() (any, error), op *Operation) (any, error) {
	return next()
}

func (e *BaseExtension) OnError(err error, op *Operation, rt *Runtime) {
}

func (e *BaseExtension) OnCleanupError(err *CleanupError) bool {
	return false
}

func (e *BaseExtension) Dispose(rt *Runtime) error {
	return nil
}

// Operation describes what operation is happening
type Operation struct {
	Kind     OperationKind
	Identity Identity
	Position int
	Runtime  *Runtime
}

// OperationKind represents the type of operation
type OperationKind string

const (
	// OpInvoke indicates one managed invocation of a unit
	OpInvoke OperationKind = "invoke"
	// OpEffect indicates an effect body run
	OpEffect OperationKind = "effect"
	// OpInvalidate indicates an identity invalidation
	OpInvalidate OperationKind = "invalidate"
)
