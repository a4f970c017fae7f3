package task

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/rackerlabs/clbnodes/clb/client"
	"github.com/rackerlabs/clbnodes/clb/configuration"
	"github.com/rackerlabs/clbnodes/clb/reconciliation"
)

// Output is the machine-readable result written on success. Node is omitted
// after a delete and after a no-op that matched nothing.
type Output struct {
	Changed bool         `json:"changed"`
	State   string       `json:"state"`
	Node    *client.Node `json:"node,omitempty"`
}

// Run performs one full task invocation: validate, build the client from
// the explicit configuration, reconcile, report.
func Run(ctx context.Context, params Parameters, out io.Writer) error {
	// validate before authenticating, bad input should fail fast
	if _, err := params.DesiredState(); err != nil {
		return err
	}

	config, err := loadConfiguration(params.ConfigFile)
	if err != nil {
		return err
	}

	api, err := client.New(ctx, config)
	if err != nil {
		return err
	}

	return RunWithClient(ctx, api, params, out)
}

// RunWithClient is Run with client construction factored out, so tests and
// embedders can supply their own collaborator.
func RunWithClient(ctx context.Context, api client.API, params Parameters, out io.Writer) error {
	desired, err := params.DesiredState()
	if err != nil {
		return err
	}

	logger := logr.FromContextOrDiscard(ctx)
	logger.V(1).Info("reconciling load balancer node",
		"load-balancer", params.LoadBalancerID,
		"state", desired.State,
		"wait", params.Wait,
	)

	options := []reconciliation.Option{}
	if params.Wait {
		options = append(options, reconciliation.WithWaitForActive(params.waitAttempts()))
	}

	result, err := reconciliation.New(api, options...).Reconcile(ctx, params.LoadBalancerID, desired)
	if err != nil {
		return err
	}

	return writeOutput(out, desired, result)
}

func loadConfiguration(path string) (configuration.ProviderConfig, error) {
	var reader io.Reader

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return configuration.ProviderConfig{}, fmt.Errorf("error opening configuration file: %w", err)
		}
		defer file.Close()

		reader = file
	}

	config, err := configuration.NewProviderConfig(reader)
	if err != nil {
		return configuration.ProviderConfig{}, fmt.Errorf("error loading configuration: %w", err)
	}

	if err := config.Validate(); err != nil {
		return configuration.ProviderConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func writeOutput(out io.Writer, desired reconciliation.DesiredState, result reconciliation.Result) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(Output{
		Changed: result.Changed,
		State:   string(desired.State),
		Node:    result.Node,
	})
}
