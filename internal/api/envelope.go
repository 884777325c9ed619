/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package api

import (
	"errors"
	"net/http"

	"github.com/gregplaysguitar/localstack/internal/graph"
	"github.com/gregplaysguitar/localstack/internal/intrinsic"
	"github.com/gregplaysguitar/localstack/internal/stack"
	"github.com/gregplaysguitar/localstack/internal/template"
)

// ErrorTypeHeader carries the machine-readable error code out of band,
// mirroring the __type field of the body.
const ErrorTypeHeader = "X-Amzn-Errortype"

// Envelope is the structured error body returned for every failure. Type
// is "User" for client-caused (4xx-class) failures and "Server" otherwise.
type Envelope struct {
	Type    string `json:"Type"`
	Message string `json:"message"`
	Code    string `json:"__type"`
}

// envelopeFor classifies an error into the wire envelope and HTTP status.
// Template problems collapse onto the fixed "Template Validation Error"
// message clients match on.
func envelopeFor(err error) (Envelope, int) {
	var (
		syntaxErr     *template.SyntaxError
		schemaErr     *template.SchemaError
		danglingErr   *intrinsic.DanglingReferenceError
		cyclicErr     *graph.CyclicDependencyError
		existsErr     *stack.AlreadyExistsError
		notFoundErr   *stack.NotFoundError
		concurrentErr *stack.ConcurrentApplyError
		parameterErr  *stack.MissingParameterError
	)

	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &schemaErr):
		return Envelope{Type: "User", Message: "Template Validation Error", Code: "ValidationError"}, http.StatusBadRequest
	case errors.As(err, &danglingErr), errors.As(err, &cyclicErr), errors.As(err, &parameterErr):
		return Envelope{Type: "User", Message: err.Error(), Code: "ValidationError"}, http.StatusBadRequest
	case errors.As(err, &existsErr):
		return Envelope{Type: "User", Message: err.Error(), Code: "AlreadyExistsException"}, http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return Envelope{Type: "User", Message: err.Error(), Code: "ValidationError"}, http.StatusBadRequest
	case errors.As(err, &concurrentErr):
		return Envelope{Type: "User", Message: err.Error(), Code: "OperationInProgressException"}, http.StatusConflict
	default:
		return Envelope{Type: "Server", Message: err.Error(), Code: "InternalFailure"}, http.StatusInternalServerError
	}
}
