package decomp

import "fmt"

// PreconditionError means the host was not in a runnable state: wrong
// interaction mode or wrong selection count. The run aborts before any
// side effect.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("decomp: %s", e.Msg)
}
