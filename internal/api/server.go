/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Server is the HTTP gateway. Requests carry an Action form field the way
// the real control plane's query API does; responses and error envelopes
// are JSON.
type Server struct {
	api *API
	log *slog.Logger
}

// NewServer wraps an API for HTTP serving.
func NewServer(a *API, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{api: a, log: logger}
}

// Handler returns the gateway's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.dispatch)
	return mux
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, fmt.Errorf("malformed request: %w", err))
		return
	}
	action := r.FormValue("Action")
	ctx := r.Context()

	s.log.Debug("request", "action", action, "stack", r.FormValue("StackName"))

	var (
		result any
		err    error
	)
	switch action {
	case "CreateStack":
		result, err = s.api.CreateStack(ctx, r.FormValue("StackName"), r.FormValue("TemplateBody"), formParameters(r))
	case "UpdateStack":
		err = s.api.UpdateStack(ctx, r.FormValue("StackName"), r.FormValue("TemplateBody"), formParameters(r))
		result = struct{}{}
	case "DeleteStack":
		err = s.api.DeleteStack(ctx, r.FormValue("StackName"))
		result = struct{}{}
	case "CancelUpdateStack":
		err = s.api.CancelUpdateStack(ctx, r.FormValue("StackName"))
		result = struct{}{}
	case "ValidateTemplate":
		result, err = s.api.ValidateTemplate(ctx, r.FormValue("TemplateBody"))
	case "DescribeStacks":
		result, err = s.api.DescribeStacks(ctx, r.FormValue("StackName"))
	case "DescribeStackResources":
		result, err = s.api.DescribeStackResources(ctx, r.FormValue("StackName"))
	case "ListStackResources":
		result, err = s.api.ListStackResources(ctx, r.FormValue("StackName"), r.FormValue("NextToken"))
	case "DescribeStackEvents":
		result, err = s.api.DescribeStackEvents(ctx, r.FormValue("StackName"))
	default:
		s.writeEnvelope(w, Envelope{
			Type:    "User",
			Message: fmt.Sprintf("unknown action %q", action),
			Code:    "InvalidAction",
		}, http.StatusBadRequest)
		return
	}

	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	envelope, status := envelopeFor(err)
	if envelope.Type == "Server" {
		s.log.Error("request failed", "error", err)
	}
	s.writeEnvelope(w, envelope, status)
}

func (s *Server) writeEnvelope(w http.ResponseWriter, envelope Envelope, status int) {
	w.Header().Set(ErrorTypeHeader, envelope.Code)
	s.writeJSON(w, status, envelope)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("response encoding failed", "error", err)
	}
}

// formParameters decodes Parameters.member.N.ParameterKey/ParameterValue
// pairs from the query form.
func formParameters(r *http.Request) map[string]string {
	parameters := make(map[string]string)
	for i := 1; ; i++ {
		key := r.FormValue(fmt.Sprintf("Parameters.member.%d.ParameterKey", i))
		if key == "" {
			break
		}
		parameters[key] = r.FormValue(fmt.Sprintf("Parameters.member.%d.ParameterValue", i))
	}
	return parameters
}
