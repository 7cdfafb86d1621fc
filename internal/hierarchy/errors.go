package hierarchy

import "fmt"

// MutationError reports a mutation the remote refused or could not
// complete. Message is the remote's text, or the transport error's.
type MutationError struct {
	Op      Operation
	Message string
	Err     error
}

func (e *MutationError) Error() string { return e.Message }

func (e *MutationError) Unwrap() error { return e.Err }

// RefreshError reports a refetch that failed after the remote confirmed a
// mutation. The mutation itself stands; the cache keeps its previous tree.
type RefreshError struct {
	Op      Operation
	StageID int64
	Err     error
}

func (e *RefreshError) Error() string {
	if e.StageID != 0 {
		return fmt.Sprintf("refreshing stage %d after %s: %v", e.StageID, e.Op, e.Err)
	}
	return fmt.Sprintf("refreshing project after %s: %v", e.Op, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }
