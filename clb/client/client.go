// Package client wraps the cloud load balancer API behind a small interface.
//
// Transport, authentication and reauthentication are delegated to
// gophercloud; this package only knows the JSON envelopes and endpoints of
// the load balancer service.
package client

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"

	"github.com/rackerlabs/clbnodes/clb/configuration"
)

// loadBalancerServiceType is the service catalog entry for the cloud load
// balancer API.
const loadBalancerServiceType = "rax:load-balancer"

// API is the collaborator boundary used by the reconciler. Every method maps
// to exactly one remote call.
type API interface {
	// GetLoadBalancer retrieves the balancer with its full node list.
	GetLoadBalancer(ctx context.Context, lbID int) (*LoadBalancer, error)

	// AddNodes registers the given nodes and returns them as created by
	// the remote system, identifiers included.
	AddNodes(ctx context.Context, lbID int, nodes []NodeSpec) ([]Node, error)

	// UpdateNode applies the non-nil fields of the update to one node.
	UpdateNode(ctx context.Context, lbID int, nodeID int, update NodeUpdate) error

	// DeleteNode removes one node from the balancer.
	DeleteNode(ctx context.Context, lbID int, nodeID int) error
}

// Client implements API on top of a gophercloud service client.
type Client struct {
	sc *gophercloud.ServiceClient
}

var _ API = &Client{}

// New authenticates against the identity service described by the given
// configuration and locates the load balancer endpoint from the service
// catalog. The configuration is passed explicitly so callers control client
// construction, there is no ambient credential state.
func New(ctx context.Context, config configuration.ProviderConfig) (*Client, error) {
	identityEndpoint := config.IdentityEndpoint
	if identityEndpoint == "" {
		identityEndpoint = configuration.DefaultIdentityEndpoint
	}

	// the identity service accepts the account API key in place of the
	// account password
	password := config.Password
	if password == "" {
		password = config.APIKey
	}

	authOptions := gophercloud.AuthOptions{
		IdentityEndpoint: identityEndpoint,
		Username:         config.Username,
		Password:         password,
		TokenID:          config.TokenID,
		TenantID:         config.TenantID,
		AllowReauth:      config.TokenID == "",
	}

	provider, err := openstack.AuthenticatedClient(ctx, authOptions)
	if err != nil {
		return nil, fmt.Errorf("error authenticating against identity service: %w", err)
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint, err = provider.EndpointLocator(gophercloud.EndpointOpts{
			Type:         loadBalancerServiceType,
			Region:       config.Region,
			Availability: gophercloud.AvailabilityPublic,
		})
		if err != nil {
			return nil, fmt.Errorf("error locating load balancer endpoint in service catalog: %w", err)
		}
	}

	return NewFromServiceClient(&gophercloud.ServiceClient{
		ProviderClient: provider,
		Endpoint:       endpoint,
		Type:           loadBalancerServiceType,
	}), nil
}

// NewFromServiceClient wraps an already configured service client. Used by
// tests and callers doing their own endpoint handling.
func NewFromServiceClient(sc *gophercloud.ServiceClient) *Client {
	return &Client{sc: sc}
}
