package client

// NodeCondition determines whether a node accepts traffic.
type NodeCondition string

const (
	ConditionEnabled  NodeCondition = "ENABLED"
	ConditionDisabled NodeCondition = "DISABLED"
	ConditionDraining NodeCondition = "DRAINING"
)

// NodeType determines the role of a node within the load balancer.
// Secondary nodes only receive traffic when all primary nodes are down.
type NodeType string

const (
	TypePrimary   NodeType = "PRIMARY"
	TypeSecondary NodeType = "SECONDARY"
)

// LoadBalancerStatus is the lifecycle state reported by the API. The list is
// not exhaustive, the API may report further transient states.
type LoadBalancerStatus string

const (
	StatusActive        LoadBalancerStatus = "ACTIVE"
	StatusBuild         LoadBalancerStatus = "BUILD"
	StatusPendingUpdate LoadBalancerStatus = "PENDING_UPDATE"
	StatusPendingDelete LoadBalancerStatus = "PENDING_DELETE"
	StatusError         LoadBalancerStatus = "ERROR"
)

// Node is a backend target registered with a load balancer. The identifier
// is assigned by the remote system on creation.
type Node struct {
	ID        int           `json:"id"`
	Address   string        `json:"address"`
	Port      int           `json:"port"`
	Condition NodeCondition `json:"condition"`
	Type      NodeType      `json:"type"`
	Weight    int           `json:"weight,omitempty"`
	Status    string        `json:"status,omitempty"`
}

// NodeSpec describes a node to be created. Address and port are required by
// the remote system, the other attributes fall back to API defaults when
// left empty.
type NodeSpec struct {
	Address   string        `json:"address"`
	Port      int           `json:"port"`
	Condition NodeCondition `json:"condition,omitempty"`
	Type      NodeType      `json:"type,omitempty"`
	Weight    *int          `json:"weight,omitempty"`
}

// NodeUpdate carries the attributes to change on an existing node. Nil
// fields are left untouched by the remote system.
type NodeUpdate struct {
	Condition *NodeCondition `json:"condition,omitempty"`
	Type      *NodeType      `json:"type,omitempty"`
	Weight    *int           `json:"weight,omitempty"`
}

// Empty returns true when the update would not change anything.
func (u NodeUpdate) Empty() bool {
	return u.Condition == nil && u.Type == nil && u.Weight == nil
}

// LoadBalancer is the remote balancer with its current node membership.
type LoadBalancer struct {
	ID     int                `json:"id"`
	Name   string             `json:"name"`
	Status LoadBalancerStatus `json:"status"`
	Nodes  []Node             `json:"nodes"`
}

// NodeIDs returns the identifiers of all nodes, in API order.
func (lb LoadBalancer) NodeIDs() []int {
	ids := make([]int, 0, len(lb.Nodes))
	for _, node := range lb.Nodes {
		ids = append(ids, node.ID)
	}
	return ids
}
