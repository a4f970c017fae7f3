// Package reconciliation decides and applies the minimal operation needed to
// converge a single load balancer node to a desired state.
//
// The decision logic is pure: given a desired state and a snapshot of the
// balancer it returns exactly one of no-op, create, update or delete, or an
// error when converging would be unsafe or impossible. All I/O is delegated
// to the client package.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/rackerlabs/clbnodes/clb/await"
	"github.com/rackerlabs/clbnodes/clb/client"
)

// ErrLastActivePrimary is returned when deleting the node would leave the
// balancer without any enabled primary node. The API detects this as well,
// but without a meaningful error message.
var ErrLastActivePrimary = errors.New("at least one primary node has to be enabled")

// NodeNotFoundError is returned when a node named by id does not exist on
// the balancer. Updating a named node that does not exist is always an
// error, never a create.
type NodeNotFoundError struct {
	NodeID    int
	Available []int
}

func (e *NodeNotFoundError) Error() string {
	msg := fmt.Sprintf("node %d not found", e.NodeID)

	if len(e.Available) > 0 {
		ids := make([]string, 0, len(e.Available))
		for _, id := range e.Available {
			ids = append(ids, strconv.Itoa(id))
		}
		msg += fmt.Sprintf(" (available nodes: %s)", strings.Join(ids, ", "))
	}

	return msg
}

// FindNode returns the first node matching every supplied criterion, nil
// when none matches or no criterion was supplied at all. Address matching
// is case-sensitive and exact.
//
// When loosely specified criteria (e.g. address without port) match more
// than one node, the first match in API order wins. The API is not known to
// guarantee uniqueness for such lookups, so callers should supply the node
// id or the full address/port pair where possible.
func FindNode(nodes []client.Node, nodeID *int, address string, port *int) *client.Node {
	if nodeID == nil && address == "" && port == nil {
		return nil
	}

	for i := range nodes {
		node := &nodes[i]

		if nodeID != nil && node.ID != *nodeID {
			continue
		}
		if address != "" && node.Address != address {
			continue
		}
		if port != nil && node.Port != *port {
			continue
		}

		return node
	}

	return nil
}

// isPrimaryActive reports whether the node has the primary role and accepts
// traffic.
func isPrimaryActive(node client.Node) bool {
	return node.Type == client.TypePrimary && node.Condition == client.ConditionEnabled
}

func primaryActiveCount(nodes []client.Node) int {
	count := 0
	for _, node := range nodes {
		if isPrimaryActive(node) {
			count++
		}
	}
	return count
}

// diffNode computes the minimal update: only attributes that were supplied
// and differ from the current node appear in the result.
func diffNode(current client.Node, desired DesiredState) client.NodeUpdate {
	var diff client.NodeUpdate

	if desired.Condition != nil && *desired.Condition != current.Condition {
		diff.Condition = desired.Condition
	}
	if desired.Type != nil && *desired.Type != current.Type {
		diff.Type = desired.Type
	}
	if desired.Weight != nil && *desired.Weight != current.Weight {
		diff.Weight = desired.Weight
	}

	return diff
}

// Decide computes the single operation converging the balancer to the
// desired state. It performs no I/O.
func Decide(desired DesiredState, lb *client.LoadBalancer) (Decision, error) {
	node := FindNode(lb.Nodes, desired.NodeID, desired.Address, desired.Port)

	if desired.State == StateAbsent {
		if node == nil {
			// removing a non-existent node is not an error
			return Decision{Outcome: OutcomeNoop}, nil
		}

		if isPrimaryActive(*node) && primaryActiveCount(lb.Nodes) == 1 {
			return Decision{}, ErrLastActivePrimary
		}

		return Decision{Outcome: OutcomeDelete, Node: node}, nil
	}

	if node == nil {
		if desired.NodeID != nil {
			return Decision{}, &NodeNotFoundError{
				NodeID:    *desired.NodeID,
				Available: lb.NodeIDs(),
			}
		}

		// address and port are required by the remote system for
		// creation and validated there
		create := client.NodeSpec{
			Address: desired.Address,
			Weight:  desired.Weight,
		}
		if desired.Port != nil {
			create.Port = *desired.Port
		}
		if desired.Condition != nil {
			create.Condition = *desired.Condition
		}
		if desired.Type != nil {
			create.Type = *desired.Type
		}

		return Decision{Outcome: OutcomeCreate, Create: create}, nil
	}

	diff := diffNode(*node, desired)
	if diff.Empty() {
		return Decision{Outcome: OutcomeNoop, Node: node}, nil
	}

	return Decision{Outcome: OutcomeUpdate, Node: node, Diff: diff}, nil
}

// applyUpdate returns the node as it will look once the update is processed.
func applyUpdate(node client.Node, update client.NodeUpdate) client.Node {
	if update.Condition != nil {
		node.Condition = *update.Condition
	}
	if update.Type != nil {
		node.Type = *update.Type
	}
	if update.Weight != nil {
		node.Weight = *update.Weight
	}
	return node
}

// Reconciler applies decisions against the collaborator API.
type Reconciler struct {
	api client.API

	waitForActive bool
	waitAttempts  int
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithWaitForActive makes Reconcile block after a mutation until the
// balancer reports ACTIVE again, polling once per second for at most the
// given number of attempts.
func WithWaitForActive(attempts int) Option {
	return func(r *Reconciler) {
		r.waitForActive = true
		r.waitAttempts = attempts
	}
}

// New creates a Reconciler operating through the given API client.
func New(api client.API, options ...Option) *Reconciler {
	r := &Reconciler{api: api}

	for _, option := range options {
		option(r)
	}

	return r
}

// Reconcile fetches the balancer, decides on the single operation to
// perform, delegates it to the API and, when configured, waits for the
// balancer to return to ACTIVE. At most one mutation is performed per call
// and mutations are never retried.
func (r *Reconciler) Reconcile(ctx context.Context, lbID int, desired DesiredState) (Result, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("load-balancer", lbID)

	lb, err := r.api.GetLoadBalancer(ctx, lbID)
	if err != nil {
		return Result{}, err
	}

	decision, err := Decide(desired, lb)
	if err != nil {
		return Result{}, err
	}

	logger.V(1).Info("decided on operation",
		"outcome", decision.Outcome,
		"num-nodes", len(lb.Nodes),
	)

	result := Result{Outcome: decision.Outcome}

	switch decision.Outcome {
	case OutcomeNoop:
		result.Node = decision.Node
	case OutcomeCreate:
		created, err := r.api.AddNodes(ctx, lbID, []client.NodeSpec{decision.Create})
		if err != nil {
			return Result{}, err
		}
		if len(created) > 0 {
			result.Node = &created[0]
		}
		result.Changed = true
	case OutcomeUpdate:
		if err := r.api.UpdateNode(ctx, lbID, decision.Node.ID, decision.Diff); err != nil {
			return Result{}, err
		}
		updated := applyUpdate(*decision.Node, decision.Diff)
		result.Node = &updated
		result.Changed = true
	case OutcomeDelete:
		if err := r.api.DeleteNode(ctx, lbID, decision.Node.ID); err != nil {
			// gone between fetch and delete, same as never found
			if client.IsNotFound(err) {
				logger.V(1).Info("node already gone", "node", decision.Node.ID)
				return Result{Outcome: OutcomeNoop}, nil
			}
			return Result{}, err
		}
		result.Changed = true
	}

	if result.Changed && r.waitForActive {
		if err := await.LoadBalancerActive(ctx, r.api, lbID, r.waitAttempts); err != nil {
			return Result{}, err
		}
	}

	return result, nil
}
