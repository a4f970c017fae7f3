// Package await blocks until a load balancer settles into the ACTIVE state.
package await

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/rackerlabs/clbnodes/clb/client"
)

// pollInterval is fixed at one attempt per second, the attempt ceiling is
// the callers wait timeout in seconds.
const pollInterval = 1 * time.Second

// TimeoutError is returned when the balancer did not reach ACTIVE within
// the attempt ceiling.
type TimeoutError struct {
	Attempts   int
	LastStatus client.LoadBalancerStatus
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf(
		"load balancer not active after %ds (current status: %s)",
		e.Attempts, strings.ToLower(string(e.LastStatus)),
	)
}

// LoadBalancerActive polls the balancer status until it reports ACTIVE,
// once per second for at most the given number of attempts. Status reads
// are the only retried operation; errors from the API abort immediately.
func LoadBalancerActive(ctx context.Context, api client.API, lbID int, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}

	logger := logr.FromContextOrDiscard(ctx).V(2)

	var lastStatus client.LoadBalancerStatus

	err := wait.ExponentialBackoffWithContext(ctx, wait.Backoff{
		Duration: pollInterval,
		Factor:   1.0,
		Steps:    attempts,
	}, func(ctx context.Context) (bool, error) {
		logger.Info("waiting for load balancer to become active", "load-balancer", lbID)

		lb, err := api.GetLoadBalancer(ctx, lbID)
		if err != nil {
			return false, err
		}

		lastStatus = lb.Status
		return lb.Status == client.StatusActive, nil
	})

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if wait.Interrupted(err) {
			return &TimeoutError{Attempts: attempts, LastStatus: lastStatus}
		}
		return err
	}

	return nil
}
