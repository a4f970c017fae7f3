package reconciliation

import (
	"github.com/rackerlabs/clbnodes/clb/client"
)

// State is the desired existence of a node.
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// DesiredState is the input specification for one reconciliation. Nil
// pointer fields were not supplied by the caller and do not participate in
// lookup or diffing.
type DesiredState struct {
	NodeID    *int
	Address   string
	Port      *int
	Condition *client.NodeCondition
	Type      *client.NodeType
	Weight    *int

	State State
}

// HasLookupCriteria reports whether at least one of node id, address and
// port was supplied. Without any criteria FindNode matches nothing.
func (d DesiredState) HasLookupCriteria() bool {
	return d.NodeID != nil || d.Address != "" || d.Port != nil
}

// Outcome is the operation chosen for a reconciliation.
type Outcome string

const (
	OutcomeNoop   Outcome = "no-op"
	OutcomeCreate Outcome = "create"
	OutcomeUpdate Outcome = "update"
	OutcomeDelete Outcome = "delete"
)

// Decision is the single operation to perform, as computed by Decide. It
// carries no side effects, applying it is up to the caller.
type Decision struct {
	Outcome Outcome

	// Node is the matched node, nil when the lookup found none.
	Node *client.Node

	// Create is the node to register, valid for OutcomeCreate.
	Create client.NodeSpec

	// Diff contains only the attributes that differ from the matched
	// node, valid for OutcomeUpdate.
	Diff client.NodeUpdate
}

// Result is the outcome of a full reconciliation run. Node carries the
// resulting public attributes for create, update and no-op with a match; it
// is nil after a delete and after a no-op without a match.
type Result struct {
	Changed bool
	Outcome Outcome
	Node    *client.Node
}
