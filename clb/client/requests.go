package client

import (
	"context"
	"fmt"
	"strconv"
)

func (c *Client) loadBalancerURL(lbID int) string {
	return c.sc.ServiceURL("loadbalancers", strconv.Itoa(lbID))
}

func (c *Client) nodesURL(lbID int) string {
	return c.sc.ServiceURL("loadbalancers", strconv.Itoa(lbID), "nodes")
}

func (c *Client) nodeURL(lbID, nodeID int) string {
	return c.sc.ServiceURL("loadbalancers", strconv.Itoa(lbID), "nodes", strconv.Itoa(nodeID))
}

func (c *Client) GetLoadBalancer(ctx context.Context, lbID int) (*LoadBalancer, error) {
	var response struct {
		LoadBalancer LoadBalancer `json:"loadBalancer"`
	}

	_, err := c.sc.Get(ctx, c.loadBalancerURL(lbID), &response, okCodes(200))
	if err != nil {
		return nil, fmt.Errorf("error retrieving load balancer %d: %w", lbID, err)
	}

	return &response.LoadBalancer, nil
}

func (c *Client) AddNodes(ctx context.Context, lbID int, nodes []NodeSpec) ([]Node, error) {
	request := struct {
		Nodes []NodeSpec `json:"nodes"`
	}{Nodes: nodes}

	var response struct {
		Nodes []Node `json:"nodes"`
	}

	// node creation is asynchronous, the API acknowledges with 202
	_, err := c.sc.Post(ctx, c.nodesURL(lbID), request, &response, okCodes(200, 202))
	if err != nil {
		return nil, fmt.Errorf("error adding nodes to load balancer %d: %w", lbID, err)
	}

	return response.Nodes, nil
}

func (c *Client) UpdateNode(ctx context.Context, lbID int, nodeID int, update NodeUpdate) error {
	request := struct {
		Node NodeUpdate `json:"node"`
	}{Node: update}

	_, err := c.sc.Put(ctx, c.nodeURL(lbID, nodeID), request, nil, okCodes(200, 202))
	if err != nil {
		return fmt.Errorf("error updating node %d on load balancer %d: %w", nodeID, lbID, err)
	}

	return nil
}

func (c *Client) DeleteNode(ctx context.Context, lbID int, nodeID int) error {
	_, err := c.sc.Delete(ctx, c.nodeURL(lbID, nodeID), okCodes(200, 202))
	if err != nil {
		return fmt.Errorf("error deleting node %d from load balancer %d: %w", nodeID, lbID, err)
	}

	return nil
}
