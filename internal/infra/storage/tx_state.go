package storage

// TxState represents the lifecycle state of a unit of work.
type TxState string

const (
	// TxIdle means the unit was created but no transaction is open yet.
	TxIdle TxState = "idle"

	// TxActive means the transaction is open and accepting staged mutations.
	TxActive TxState = "active"

	// TxCommitted means the staged mutations were made durable. Terminal.
	TxCommitted TxState = "committed"

	// TxRolledBack means the staged mutations were discarded. Terminal.
	TxRolledBack TxState = "rolled_back"
)

// ValidTransitions defines allowed lifecycle transitions.
// Key is the current state, value is the list of valid next states.
// Committed and RolledBack have no outgoing transitions.
var ValidTransitions = map[TxState][]TxState{
	TxIdle:   {TxActive},
	TxActive: {TxCommitted, TxRolledBack},
}

// CanTransition checks if a transition from one state to another is valid.
func CanTransition(from, to TxState) bool {
	validTargets, ok := ValidTransitions[from]
	if !ok {
		return false
	}

	for _, target := range validTargets {
		if target == to {
			return true
		}
	}
	return false
}
