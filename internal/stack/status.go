/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package stack holds the deployment engine: the stack registry, the
// per-resource state machine and the concurrent apply walk that drives
// resources through the provisioner in dependency order.
package stack

import (
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// StackStatus is the aggregate status of a stack, using the CloudFormation
// status vocabulary.
type StackStatus = cfntypes.StackStatus

// ResourceStatus is the status of a single resource. The values match
// CloudFormation's resource status strings, with an extra PENDING state for
// resources whose dependencies have not completed yet.
type ResourceStatus string

const (
	ResourceStatusPending ResourceStatus = "PENDING"

	ResourceStatusCreateInProgress = ResourceStatus(cfntypes.ResourceStatusCreateInProgress)
	ResourceStatusCreateComplete   = ResourceStatus(cfntypes.ResourceStatusCreateComplete)
	ResourceStatusCreateFailed     = ResourceStatus(cfntypes.ResourceStatusCreateFailed)

	ResourceStatusUpdateInProgress = ResourceStatus(cfntypes.ResourceStatusUpdateInProgress)
	ResourceStatusUpdateComplete   = ResourceStatus(cfntypes.ResourceStatusUpdateComplete)
	ResourceStatusUpdateFailed     = ResourceStatus(cfntypes.ResourceStatusUpdateFailed)

	ResourceStatusDeleteInProgress = ResourceStatus(cfntypes.ResourceStatusDeleteInProgress)
	ResourceStatusDeleteComplete   = ResourceStatus(cfntypes.ResourceStatusDeleteComplete)
	ResourceStatusDeleteFailed     = ResourceStatus(cfntypes.ResourceStatusDeleteFailed)
	ResourceStatusDeleteSkipped    = ResourceStatus(cfntypes.ResourceStatusDeleteSkipped)
)

// Terminal reports whether no further automatic transition happens from the
// status.
func (s ResourceStatus) Terminal() bool {
	switch s {
	case ResourceStatusPending,
		ResourceStatusCreateInProgress,
		ResourceStatusUpdateInProgress,
		ResourceStatusDeleteInProgress:
		return false
	}
	return true
}

// Success reports whether the status is a terminal success.
func (s ResourceStatus) Success() bool {
	switch s {
	case ResourceStatusCreateComplete,
		ResourceStatusUpdateComplete,
		ResourceStatusDeleteComplete,
		ResourceStatusDeleteSkipped:
		return true
	}
	return false
}

// Failed reports whether the status is a terminal failure.
func (s ResourceStatus) Failed() bool {
	return s.Terminal() && !s.Success()
}

// Live reports whether the resource still exists in its backing service.
func (s ResourceStatus) Live() bool {
	switch s {
	case ResourceStatusDeleteComplete, ResourceStatusDeleteSkipped:
		return false
	}
	return true
}
