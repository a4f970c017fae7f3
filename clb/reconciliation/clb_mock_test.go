package reconciliation

// This file is the in-memory mock of the load balancer API used by the
// reconciliation tests. It applies mutations to its node list the way the
// remote system would and records every call for assertions.

import (
	"context"
	"net/http"

	"github.com/gophercloud/gophercloud/v2"

	"github.com/rackerlabs/clbnodes/clb/client"
)

type appliedUpdate struct {
	nodeID int
	update client.NodeUpdate
}

type clbMockServer struct {
	lb     client.LoadBalancer
	nextID int

	// statusSequence is popped once per GetLoadBalancer call, the last
	// element sticks.
	statusSequence []client.LoadBalancerStatus

	getCalls int
	added    []client.NodeSpec
	updates  []appliedUpdate
	deletes  []int

	getError    error
	addError    error
	updateError error
	deleteError error
}

var _ client.API = &clbMockServer{}

func newCLBMock(nodes ...client.Node) *clbMockServer {
	nextID := 1
	for _, node := range nodes {
		if node.ID >= nextID {
			nextID = node.ID + 1
		}
	}

	return &clbMockServer{
		lb: client.LoadBalancer{
			ID:     71,
			Name:   "mock-lb",
			Status: client.StatusActive,
			Nodes:  nodes,
		},
		nextID: nextID,
	}
}

func notFoundError() error {
	return gophercloud.ErrUnexpectedResponseCode{Actual: http.StatusNotFound}
}

func (ms *clbMockServer) GetLoadBalancer(_ context.Context, lbID int) (*client.LoadBalancer, error) {
	ms.getCalls++

	if ms.getError != nil {
		return nil, ms.getError
	}

	if lbID != ms.lb.ID {
		return nil, notFoundError()
	}

	if len(ms.statusSequence) > 0 {
		ms.lb.Status = ms.statusSequence[0]
		if len(ms.statusSequence) > 1 {
			ms.statusSequence = ms.statusSequence[1:]
		}
	}

	snapshot := ms.lb
	snapshot.Nodes = append([]client.Node{}, ms.lb.Nodes...)
	return &snapshot, nil
}

func (ms *clbMockServer) AddNodes(_ context.Context, lbID int, nodes []client.NodeSpec) ([]client.Node, error) {
	if ms.addError != nil {
		return nil, ms.addError
	}

	created := make([]client.Node, 0, len(nodes))
	for _, spec := range nodes {
		ms.added = append(ms.added, spec)

		node := client.Node{
			ID:        ms.nextID,
			Address:   spec.Address,
			Port:      spec.Port,
			Condition: spec.Condition,
			Type:      spec.Type,
			Status:    "ONLINE",
		}
		ms.nextID++

		// remote defaults for attributes left empty
		if node.Condition == "" {
			node.Condition = client.ConditionEnabled
		}
		if node.Type == "" {
			node.Type = client.TypePrimary
		}
		if spec.Weight != nil {
			node.Weight = *spec.Weight
		} else {
			node.Weight = 1
		}

		ms.lb.Nodes = append(ms.lb.Nodes, node)
		created = append(created, node)
	}

	return created, nil
}

func (ms *clbMockServer) UpdateNode(_ context.Context, _ int, nodeID int, update client.NodeUpdate) error {
	if ms.updateError != nil {
		return ms.updateError
	}

	for i := range ms.lb.Nodes {
		if ms.lb.Nodes[i].ID != nodeID {
			continue
		}

		ms.updates = append(ms.updates, appliedUpdate{nodeID: nodeID, update: update})

		if update.Condition != nil {
			ms.lb.Nodes[i].Condition = *update.Condition
		}
		if update.Type != nil {
			ms.lb.Nodes[i].Type = *update.Type
		}
		if update.Weight != nil {
			ms.lb.Nodes[i].Weight = *update.Weight
		}

		return nil
	}

	return notFoundError()
}

func (ms *clbMockServer) DeleteNode(_ context.Context, _ int, nodeID int) error {
	if ms.deleteError != nil {
		return ms.deleteError
	}

	for i := range ms.lb.Nodes {
		if ms.lb.Nodes[i].ID != nodeID {
			continue
		}

		ms.deletes = append(ms.deletes, nodeID)
		ms.lb.Nodes = append(ms.lb.Nodes[:i], ms.lb.Nodes[i+1:]...)
		return nil
	}

	return notFoundError()
}

func (ms *clbMockServer) mutationCount() int {
	return len(ms.added) + len(ms.updates) + len(ms.deletes)
}
