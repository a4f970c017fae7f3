// Package task is the declarative surface of the tool: it parses and
// validates the recognized options, runs one reconciliation and reports the
// result in the changed/state/node exit contract.
package task

import (
	"fmt"
	"strings"

	"github.com/rackerlabs/clbnodes/clb/client"
	"github.com/rackerlabs/clbnodes/clb/reconciliation"
)

// DefaultWaitTimeout is the poll attempt ceiling in seconds when none is
// configured.
const DefaultWaitTimeout = 30

// defaultState is assumed when no state option is given.
const defaultState = reconciliation.StatePresent

// Parameters mirrors the recognized task options. Nil pointer fields were
// not supplied on the command line.
type Parameters struct {
	LoadBalancerID int

	NodeID  *int
	Address string
	Port    *int

	Condition string
	Type      string
	Weight    *int

	State string

	Wait        bool
	WaitTimeout int

	ConfigFile string
}

// ValidationError is an invalid or missing input, caught before anything
// reaches the reconciler or the remote API.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

var conditions = map[string]client.NodeCondition{
	"enabled":  client.ConditionEnabled,
	"disabled": client.ConditionDisabled,
	"draining": client.ConditionDraining,
}

var nodeTypes = map[string]client.NodeType{
	"primary":   client.TypePrimary,
	"secondary": client.TypeSecondary,
}

// DesiredState validates the parameters and translates them into the
// reconciler input. Enum values are matched case-insensitively and
// normalized to their API spelling.
func (p Parameters) DesiredState() (reconciliation.DesiredState, error) {
	desired := reconciliation.DesiredState{
		NodeID:  p.NodeID,
		Address: p.Address,
		Port:    p.Port,
		Weight:  p.Weight,
		State:   reconciliation.StatePresent,
	}

	if p.LoadBalancerID <= 0 {
		return desired, validationErrorf("load-balancer-id is required")
	}

	switch strings.ToLower(p.State) {
	case "", string(reconciliation.StatePresent):
		desired.State = reconciliation.StatePresent
	case string(reconciliation.StateAbsent):
		desired.State = reconciliation.StateAbsent
	default:
		return desired, validationErrorf("invalid state %q (choose from: present, absent)", p.State)
	}

	if p.Condition != "" {
		condition, ok := conditions[strings.ToLower(p.Condition)]
		if !ok {
			return desired, validationErrorf("invalid condition %q (choose from: enabled, disabled, draining)", p.Condition)
		}
		desired.Condition = &condition
	}

	if p.Type != "" {
		nodeType, ok := nodeTypes[strings.ToLower(p.Type)]
		if !ok {
			return desired, validationErrorf("invalid type %q (choose from: primary, secondary)", p.Type)
		}
		desired.Type = &nodeType
	}

	if p.Port != nil && (*p.Port < 1 || *p.Port > 65535) {
		return desired, validationErrorf("invalid port %d (must be 1-65535)", *p.Port)
	}

	// without any criteria the node lookup is undefined
	if !desired.HasLookupCriteria() {
		return desired, validationErrorf("one of node-id, address or port is required")
	}

	// without a node id a present node may have to be created, which needs
	// both halves of its natural key
	if desired.State == reconciliation.StatePresent && p.NodeID == nil && (p.Address == "" || p.Port == nil) {
		return desired, validationErrorf("address and port are required together when state is present and no node-id is given")
	}

	return desired, nil
}

// waitAttempts returns the poll attempt ceiling, at least one attempt.
func (p Parameters) waitAttempts() int {
	if p.WaitTimeout < 1 {
		return 1
	}
	return p.WaitTimeout
}
