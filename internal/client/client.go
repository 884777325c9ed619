/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package client is the Go client for the emulator's HTTP gateway, used by
// the CLI commands and by anything else that wants the stack API without
// linking the engine in-process.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gregplaysguitar/localstack/internal/api"
)

// StackOperations is the programmatic surface of the stack API.
type StackOperations interface {
	CreateStack(ctx context.Context, name, templateBody string, parameters map[string]string) (string, error)
	UpdateStack(ctx context.Context, name, templateBody string, parameters map[string]string) error
	DeleteStack(ctx context.Context, name string) error
	CancelUpdateStack(ctx context.Context, name string) error
	ValidateTemplate(ctx context.Context, templateBody string) (*api.ValidateTemplateOutput, error)
	DescribeStacks(ctx context.Context, name string) (*api.DescribeStacksOutput, error)
	DescribeStackResources(ctx context.Context, name string) (*api.DescribeStackResourcesOutput, error)
	ListStackResources(ctx context.Context, name, nextToken string) (*api.ListStackResourcesOutput, error)
	DescribeStackEvents(ctx context.Context, name string) (*api.DescribeStackEventsOutput, error)
	WaitForStack(ctx context.Context, name string, retries int, delay time.Duration) (string, error)
}

// APIError is a decoded error envelope from the gateway.
type APIError struct {
	Type    string
	Message string
	Code    string
	Status  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Code, e.Type, e.Message)
}

// Client talks to a running gateway over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a client for the gateway at the given base URL.
func New(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateStack submits a stack creation and returns the stack ID.
func (c *Client) CreateStack(ctx context.Context, name, templateBody string, parameters map[string]string) (string, error) {
	form := stackForm("CreateStack", name)
	form.Set("TemplateBody", templateBody)
	addParameters(form, parameters)
	var out api.CreateStackOutput
	if err := c.call(ctx, form, &out); err != nil {
		return "", err
	}
	return out.StackId, nil
}

// UpdateStack submits a stack update.
func (c *Client) UpdateStack(ctx context.Context, name, templateBody string, parameters map[string]string) error {
	form := stackForm("UpdateStack", name)
	form.Set("TemplateBody", templateBody)
	addParameters(form, parameters)
	return c.call(ctx, form, nil)
}

// DeleteStack submits a stack deletion.
func (c *Client) DeleteStack(ctx context.Context, name string) error {
	return c.call(ctx, stackForm("DeleteStack", name), nil)
}

// CancelUpdateStack cancels a stack's in-flight operation.
func (c *Client) CancelUpdateStack(ctx context.Context, name string) error {
	return c.call(ctx, stackForm("CancelUpdateStack", name), nil)
}

// ValidateTemplate checks a template body without provisioning anything.
func (c *Client) ValidateTemplate(ctx context.Context, templateBody string) (*api.ValidateTemplateOutput, error) {
	form := url.Values{}
	form.Set("Action", "ValidateTemplate")
	form.Set("TemplateBody", templateBody)
	var out api.ValidateTemplateOutput
	if err := c.call(ctx, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DescribeStacks lists live stacks, or just the named one.
func (c *Client) DescribeStacks(ctx context.Context, name string) (*api.DescribeStacksOutput, error) {
	var out api.DescribeStacksOutput
	if err := c.call(ctx, stackForm("DescribeStacks", name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DescribeStackResources lists a stack's resources.
func (c *Client) DescribeStackResources(ctx context.Context, name string) (*api.DescribeStackResourcesOutput, error) {
	var out api.DescribeStackResourcesOutput
	if err := c.call(ctx, stackForm("DescribeStackResources", name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListStackResources is the paginated resource listing.
func (c *Client) ListStackResources(ctx context.Context, name, nextToken string) (*api.ListStackResourcesOutput, error) {
	form := stackForm("ListStackResources", name)
	if nextToken != "" {
		form.Set("NextToken", nextToken)
	}
	var out api.ListStackResourcesOutput
	if err := c.call(ctx, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DescribeStackEvents lists a stack's events, newest first.
func (c *Client) DescribeStackEvents(ctx context.Context, name string) (*api.DescribeStackEventsOutput, error) {
	var out api.DescribeStackEventsOutput
	if err := c.call(ctx, stackForm("DescribeStackEvents", name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitForStack polls DescribeStacks until the stack reaches a terminal
// status and returns it. A stack that disappears while waiting counts as
// DELETE_COMPLETE. Exhausting the retry budget returns an error.
func (c *Client) WaitForStack(ctx context.Context, name string, retries int, delay time.Duration) (string, error) {
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		out, err := c.DescribeStacks(ctx, name)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Code == "ValidationError" {
				return "DELETE_COMPLETE", nil
			}
			return "", err
		}
		if len(out.Stacks) == 0 {
			return "DELETE_COMPLETE", nil
		}
		status := string(out.Stacks[0].StackStatus)
		if !strings.HasSuffix(status, "_IN_PROGRESS") {
			return status, nil
		}
	}
	return "", fmt.Errorf("stack %s did not reach a terminal state after %d attempts", name, retries)
}

func (c *Client) call(ctx context.Context, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var envelope api.Envelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, body)
		}
		return &APIError{
			Type:    envelope.Type,
			Message: envelope.Message,
			Code:    envelope.Code,
			Status:  resp.StatusCode,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func stackForm(action, name string) url.Values {
	form := url.Values{}
	form.Set("Action", action)
	if name != "" {
		form.Set("StackName", name)
	}
	return form
}

func addParameters(form url.Values, parameters map[string]string) {
	i := 1
	for key, value := range parameters {
		form.Set(fmt.Sprintf("Parameters.member.%d.ParameterKey", i), key)
		form.Set(fmt.Sprintf("Parameters.member.%d.ParameterValue", i), value)
		i++
	}
}
