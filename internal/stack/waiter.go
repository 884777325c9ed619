/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stack

import (
	"context"
	"errors"
	"strings"
	"time"

	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// Waiter polls a Manager until a stack reaches a terminal state. The engine
// never blocks an apply call on completion; callers that want synchronous
// behaviour opt in through a Waiter.
type Waiter struct {
	Manager *Manager
	Retries int
	Delay   time.Duration
}

// NewWaiter creates a waiter with the given retry budget.
func NewWaiter(manager *Manager, retries int, delay time.Duration) *Waiter {
	return &Waiter{Manager: manager, Retries: retries, Delay: delay}
}

// Wait polls until the named stack's status is terminal and returns it.
// A stack that disappears while waiting reports DELETE_COMPLETE, since
// deletion removes the stack from the registry. Exhausting the retry
// budget returns a WaitTimeoutError, which is a polling timeout rather
// than a stack failure.
func (w *Waiter) Wait(ctx context.Context, name string) (StackStatus, error) {
	for attempt := 0; attempt < w.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(w.Delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		status, err := w.Manager.StackStatus(name)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return cfntypes.StackStatusDeleteComplete, nil
			}
			return "", err
		}
		if terminalStackStatus(status) {
			return status, nil
		}
	}
	return "", &WaitTimeoutError{Name: name, Retries: w.Retries}
}

func terminalStackStatus(status StackStatus) bool {
	return !strings.HasSuffix(string(status), "_IN_PROGRESS")
}
