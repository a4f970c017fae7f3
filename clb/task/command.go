package task

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Command builds the CLI command for the task.
func Command() *cobra.Command {
	var params Parameters

	var (
		nodeID int
		port   int
		weight int
	)

	cmd := &cobra.Command{
		Use:   "clbnodes",
		Short: "Add, modify and remove nodes from a cloud load balancer",
		Long: `clbnodes declaratively manages a single node behind a cloud load
balancer: given a load balancer id and either a node id or an address/port
pair it creates, updates or deletes that node, optionally waiting for the
balancer to become active again.`,
		Example: `  # add a new node to the load balancer
  clbnodes --load-balancer-id 71 --address 10.2.2.3 --port 80 \
      --condition enabled --type primary --wait

  # drain connections from a node
  clbnodes --load-balancer-id 71 --node-id 410 --condition draining --wait

  # remove a node from the load balancer
  clbnodes --load-balancer-id 71 --node-id 410 --state absent --wait`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()

			// only flags the caller actually set participate in
			// lookup and diffing
			if flags.Changed("node-id") {
				params.NodeID = &nodeID
			}
			if flags.Changed("port") {
				params.Port = &port
			}
			if flags.Changed("weight") {
				params.Weight = &weight
			}

			return Run(cmd.Context(), params, os.Stdout)
		},
	}

	bindFlags(cmd.Flags(), &params, &nodeID, &port, &weight)

	return cmd
}

func bindFlags(flags *pflag.FlagSet, params *Parameters, nodeID, port, weight *int) {
	flags.IntVar(&params.LoadBalancerID, "load-balancer-id", 0, "load balancer id (required)")
	flags.IntVar(nodeID, "node-id", 0, "node id, identifies an existing node for update or delete")
	flags.StringVar(&params.Address, "address", "", "IP address or domain name of the node")
	flags.IntVar(port, "port", 0, "port number of the load balanced service on the node")
	flags.StringVar(&params.Condition, "condition", "", "desired node condition (enabled, disabled, draining)")
	flags.StringVar(&params.Type, "type", "", "desired node type (primary, secondary)")
	flags.IntVar(weight, "weight", 0, "desired load distribution weight of the node")
	flags.StringVar(&params.State, "state", string(defaultState), "desired state of the node (present, absent)")
	flags.BoolVar(&params.Wait, "wait", false, "wait for the load balancer to become active before returning")
	flags.IntVar(&params.WaitTimeout, "wait-timeout", DefaultWaitTimeout, "how many seconds to wait before giving up")
	flags.StringVar(&params.ConfigFile, "config", "", "path to the credentials configuration file")
}
