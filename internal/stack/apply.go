/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/gregplaysguitar/localstack/internal/intrinsic"
	"github.com/gregplaysguitar/localstack/internal/provision"
)

type operation int

const (
	opCreate operation = iota
	opUpdate
	opDelete
)

func (o operation) String() string {
	switch o {
	case opCreate:
		return "create"
	case opUpdate:
		return "update"
	default:
		return "delete"
	}
}

// walkState is the scheduler's view of one resource during a single walk.
type walkState int

const (
	walkWaiting walkState = iota
	walkRunning
	walkSucceeded
	walkFailed
)

type walkResult struct {
	logicalID string
	ok        bool
}

// runner executes one apply (create, update or delete) over a stack. The
// walk is cooperative: a resource is launched once every blocker has
// finished successfully, up to the configured parallelism; a blocker's
// failure short-circuits its dependents without stopping independent
// branches.
type runner struct {
	manager  *Manager
	stack    *Stack
	op       operation
	obsolete []*Resource
	log      *slog.Logger
}

func (r *runner) run(ctx context.Context) {
	defer r.stack.endApply()

	order := r.stack.Graph.TopologicalOrder()
	if r.op == opDelete {
		order = reversed(order)
	}

	states := make(map[string]walkState, len(order))
	for _, node := range order {
		states[node] = walkWaiting
	}

	results := make(chan walkResult)
	inFlight := 0
	cancelled := false

	for {
		if !cancelled {
			for _, node := range order {
				if states[node] != walkWaiting || inFlight >= r.manager.parallelism {
					continue
				}
				switch r.blockerState(states, node) {
				case walkSucceeded:
					states[node] = walkRunning
					inFlight++
					go func(logicalID string) {
						results <- walkResult{logicalID: logicalID, ok: r.perform(ctx, logicalID)}
					}(node)
				case walkFailed:
					states[node] = walkFailed
					r.shortCircuit(node)
				}
			}
		}

		if inFlight == 0 {
			// Nothing running and nothing newly runnable: the scheduling
			// pass drains blocked nodes via shortCircuit as failures
			// propagate, so the walk is complete.
			break
		}

		var result walkResult
		if cancelled {
			// In-flight resources run to completion; just drain them.
			result = <-results
		} else {
			select {
			case result = <-results:
			case <-ctx.Done():
				cancelled = true
				r.cancelRemaining(states)
				continue
			}
		}
		inFlight--
		if result.ok {
			states[result.logicalID] = walkSucceeded
		} else {
			states[result.logicalID] = walkFailed
		}
	}

	r.finish(ctx, states)
}

// blockerState folds the states of a node's blockers: succeeded when all
// blockers are done successfully, failed when any blocker failed, waiting
// otherwise. For forward walks the blockers are the node's dependencies;
// for deletes they are its dependents.
func (r *runner) blockerState(states map[string]walkState, node string) walkState {
	var blockers []string
	if r.op == opDelete {
		blockers = r.stack.Graph.Dependents(node)
	} else {
		blockers = r.stack.Graph.Dependencies(node)
	}
	for _, blocker := range blockers {
		switch states[blocker] {
		case walkFailed:
			return walkFailed
		case walkWaiting, walkRunning:
			return walkWaiting
		}
	}
	return walkSucceeded
}

// perform runs one resource's operation end to end: resolve inputs, move to
// IN_PROGRESS, dispatch to the provisioner, record the outcome. It reports
// success to the scheduler; all error detail lands on the resource.
func (r *runner) perform(ctx context.Context, logicalID string) bool {
	resource, ok := r.stack.resource(logicalID)
	if !ok {
		return false
	}

	if r.op == opDelete {
		return r.performDelete(ctx, resource)
	}

	spec, _ := r.stack.Template.Resource(logicalID)
	properties, err := intrinsic.Resolve(spec.Properties, r.resolutionContext())
	if err != nil {
		r.failResolution(logicalID, err)
		return false
	}
	resolved, _ := properties.(map[string]any)

	request := provision.Request{
		StackName:  r.stack.Name,
		LogicalID:  logicalID,
		Type:       spec.Type,
		Properties: resolved,
		PhysicalID: resource.PhysicalID,
	}

	updating := r.op == opUpdate && resource.PhysicalID != ""
	if updating {
		r.stack.transition(logicalID, ResourceStatusUpdateInProgress, "")
	} else {
		r.stack.transition(logicalID, ResourceStatusCreateInProgress, "")
	}

	var result provision.Result
	if updating {
		result, err = r.manager.registry.Update(ctx, request)
	} else {
		result, err = r.manager.registry.Create(ctx, request)
	}
	if err != nil {
		status := ResourceStatusCreateFailed
		if updating {
			status = ResourceStatusUpdateFailed
		}
		r.stack.transition(logicalID, status, err.Error())
		r.log.Warn("resource operation failed",
			"stack", r.stack.Name, "resource", logicalID, "type", spec.Type, "error", err)
		return false
	}

	status := ResourceStatusCreateComplete
	if updating {
		status = ResourceStatusUpdateComplete
	}
	r.stack.recordProvisioned(logicalID, result.PhysicalID, result.Attributes, status)
	r.log.Debug("resource provisioned",
		"stack", r.stack.Name, "resource", logicalID, "type", spec.Type, "physical_id", result.PhysicalID)
	return true
}

func (r *runner) performDelete(ctx context.Context, resource Resource) bool {
	if resource.PhysicalID == "" || !resource.Status.Live() {
		r.stack.transition(resource.LogicalID, ResourceStatusDeleteSkipped, "")
		return true
	}
	r.stack.transition(resource.LogicalID, ResourceStatusDeleteInProgress, "")
	err := r.manager.registry.Delete(ctx, provision.Request{
		StackName:  r.stack.Name,
		LogicalID:  resource.LogicalID,
		Type:       resource.Type,
		PhysicalID: resource.PhysicalID,
	})
	if err != nil {
		r.stack.transition(resource.LogicalID, ResourceStatusDeleteFailed, err.Error())
		r.log.Warn("resource deletion failed",
			"stack", r.stack.Name, "resource", resource.LogicalID, "error", err)
		return false
	}
	r.stack.transition(resource.LogicalID, ResourceStatusDeleteComplete, "")
	return true
}

// failResolution classifies a property resolution failure. An unresolved
// dependency here means the walk scheduled the resource too early, which is
// an engine defect, not a template problem.
func (r *runner) failResolution(logicalID string, err error) {
	var unresolved *intrinsic.UnresolvedDependencyError
	reason := err.Error()
	if errors.As(err, &unresolved) {
		reason = fmt.Sprintf("internal error: %v", err)
		r.log.Error("resource scheduled before its dependencies completed",
			"stack", r.stack.Name, "resource", logicalID, "dependency", unresolved.Target)
	}
	status := ResourceStatusCreateFailed
	if r.op == opUpdate {
		status = ResourceStatusUpdateFailed
	}
	r.stack.transition(logicalID, status, reason)
}

// shortCircuit marks a resource that can never run because a blocker
// failed. Deletes leave the resource in place; forward walks fail it.
func (r *runner) shortCircuit(logicalID string) {
	if r.op == opDelete {
		return
	}
	status := ResourceStatusCreateFailed
	if r.op == opUpdate {
		status = ResourceStatusUpdateFailed
	}
	r.stack.transition(logicalID, status, "Resource creation cancelled: a dependency failed")
}

// cancelRemaining fails every resource the walk has not started yet.
// Resources already in flight run to their own completion.
func (r *runner) cancelRemaining(states map[string]walkState) {
	for node, state := range states {
		if state != walkWaiting {
			continue
		}
		states[node] = walkFailed
		if r.op != opDelete {
			r.stack.transition(node, ResourceStatusCreateFailed, "Resource creation cancelled")
		}
	}
}

// finish derives the stack-level outcome, resolves outputs on success and
// removes fully deleted stacks from the registry.
func (r *runner) finish(ctx context.Context, states map[string]walkState) {
	failures := 0
	for _, state := range states {
		if state == walkFailed {
			failures++
		}
	}

	switch r.op {
	case opDelete:
		if failures > 0 {
			r.stack.setStatus(cfntypes.StackStatusDeleteFailed,
				fmt.Sprintf("%d resource(s) could not be deleted", failures))
			return
		}
		r.stack.setStatus(cfntypes.StackStatusDeleteComplete, "")
		r.manager.store.Remove(r.stack.Name)
		r.log.Info("stack deleted", "stack", r.stack.Name)

	case opCreate:
		if failures > 0 {
			r.stack.setStatus(cfntypes.StackStatusCreateFailed,
				fmt.Sprintf("%d resource(s) failed to create", failures))
			return
		}
		r.resolveOutputs()
		r.stack.setStatus(cfntypes.StackStatusCreateComplete, "")
		r.log.Info("stack created", "stack", r.stack.Name)

	case opUpdate:
		if failures > 0 {
			r.stack.setStatus(cfntypes.StackStatusUpdateFailed,
				fmt.Sprintf("%d resource(s) failed to update", failures))
			return
		}
		r.cleanupObsolete(ctx)
		r.resolveOutputs()
		r.stack.setStatus(cfntypes.StackStatusUpdateComplete, "")
		r.log.Info("stack updated", "stack", r.stack.Name)
	}
}

// cleanupObsolete removes resources that the previous template declared
// and the new one no longer does. Cleanup failures are logged but do not
// fail the update; the resource is simply left behind.
func (r *runner) cleanupObsolete(ctx context.Context) {
	for _, resource := range r.obsolete {
		if resource.PhysicalID == "" || !resource.Status.Live() {
			continue
		}
		err := r.manager.registry.Delete(ctx, provision.Request{
			StackName:  r.stack.Name,
			LogicalID:  resource.LogicalID,
			Type:       resource.Type,
			PhysicalID: resource.PhysicalID,
		})
		if err != nil {
			r.log.Warn("obsolete resource not removed",
				"stack", r.stack.Name, "resource", resource.LogicalID, "error", err)
		}
	}
}

func (r *runner) resolveOutputs() {
	outputs := make(map[string]string, len(r.stack.Template.Outputs))
	for name, output := range r.stack.Template.Outputs {
		value, err := intrinsic.Resolve(output.Value, r.resolutionContext())
		if err != nil {
			r.log.Warn("output resolution failed", "stack", r.stack.Name, "output", name, "error", err)
			continue
		}
		outputs[name] = fmt.Sprintf("%v", value)
	}
	r.stack.mu.Lock()
	r.stack.Outputs = outputs
	r.stack.mu.Unlock()
}

func (r *runner) resolutionContext() *intrinsic.Context {
	return &intrinsic.Context{
		Parameters: parameterValues(r.stack.Template, r.stack.Parameters),
		Pseudo:     r.manager.pseudoParameters(r.stack.Name),
		Conditions: r.stack.Template.Conditions,
		Resources:  lookup{stack: r.stack},
	}
}

func reversed(order []string) []string {
	out := make([]string, len(order))
	for i, node := range order {
		out[len(order)-1-i] = node
	}
	return out
}
