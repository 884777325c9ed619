/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregplaysguitar/localstack/internal/provision"
	"github.com/gregplaysguitar/localstack/internal/service/kinesis"
	"github.com/gregplaysguitar/localstack/internal/service/s3"
	"github.com/gregplaysguitar/localstack/internal/service/sns"
	"github.com/gregplaysguitar/localstack/internal/service/sqs"
	"github.com/gregplaysguitar/localstack/internal/stack"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	services := provision.Services{
		SQS:     sqs.New("000000000000", "us-east-1", "http://127.0.0.1:4566"),
		SNS:     sns.New("000000000000", "us-east-1"),
		S3:      s3.New(),
		Kinesis: kinesis.New("000000000000", "us-east-1"),
	}
	manager := stack.NewManager(provision.DefaultRegistry(services), stack.Options{
		AccountID: "000000000000",
		Region:    "us-east-1",
		Logger:    slog.New(slog.DiscardHandler),
	})
	server := httptest.NewServer(NewServer(New(manager), slog.New(slog.DiscardHandler)).Handler())
	t.Cleanup(server.Close)
	return server
}

func postForm(t *testing.T, server *httptest.Server, form url.Values) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.PostForm(server.URL+"/", form)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, body
}

// awaitTerminal polls DescribeStacks until the stack leaves *_IN_PROGRESS
func awaitTerminal(t *testing.T, server *httptest.Server, name string) string {
	t.Helper()
	for attempt := 0; attempt < 400; attempt++ {
		resp, body := postForm(t, server, url.Values{
			"Action": {"DescribeStacks"}, "StackName": {name},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var out DescribeStacksOutput
		require.NoError(t, json.Unmarshal(body, &out))
		require.NotEmpty(t, out.Stacks)
		status := string(out.Stacks[0].StackStatus)
		if !strings.HasSuffix(status, "_IN_PROGRESS") {
			return status
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("stack %s never settled", name)
	return ""
}

func TestServer_MalformedTemplate(t *testing.T) {
	server := newTestServer(t)

	resp, body := postForm(t, server, url.Values{
		"Action":       {"CreateStack"},
		"StackName":    {"broken"},
		"TemplateBody": {"Description: no resources"},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ValidationError", resp.Header.Get(ErrorTypeHeader))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, "User", envelope.Type)
	assert.Equal(t, "Template Validation Error", envelope.Message)
	assert.Equal(t, "ValidationError", envelope.Code)

	// The raw body uses the lowercase message key and the __type code key.
	assert.Contains(t, string(body), `"message"`)
	assert.Contains(t, string(body), `"__type"`)
}

func TestServer_StackLifecycle(t *testing.T) {
	server := newTestServer(t)

	templateBody := `
Parameters:
  QueueName:
    Type: String
Resources:
  Queue:
    Type: AWS::SQS::Queue
    Properties:
      QueueName: !Ref QueueName
Outputs:
  QueueUrl:
    Value: !Ref Queue
`
	resp, body := postForm(t, server, url.Values{
		"Action":                             {"CreateStack"},
		"StackName":                          {"app"},
		"TemplateBody":                       {templateBody},
		"Parameters.member.1.ParameterKey":   {"QueueName"},
		"Parameters.member.1.ParameterValue": {"jobs"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var created CreateStackOutput
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Contains(t, created.StackId, "stack/app/")

	status := awaitTerminal(t, server, "app")
	require.Equal(t, "CREATE_COMPLETE", status)

	// DescribeStacks carries parameters and resolved outputs.
	resp, body = postForm(t, server, url.Values{"Action": {"DescribeStacks"}, "StackName": {"app"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var described DescribeStacksOutput
	require.NoError(t, json.Unmarshal(body, &described))
	require.Len(t, described.Stacks, 1)
	require.Len(t, described.Stacks[0].Outputs, 1)
	assert.Equal(t, "QueueUrl", *described.Stacks[0].Outputs[0].OutputKey)
	assert.Contains(t, *described.Stacks[0].Outputs[0].OutputValue, "/jobs")

	// DescribeStackResources reports the provisioned queue.
	resp, body = postForm(t, server, url.Values{"Action": {"DescribeStackResources"}, "StackName": {"app"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var resources DescribeStackResourcesOutput
	require.NoError(t, json.Unmarshal(body, &resources))
	require.Len(t, resources.StackResources, 1)
	assert.Equal(t, "Queue", *resources.StackResources[0].LogicalResourceId)
	assert.Equal(t, "CREATE_COMPLETE", string(resources.StackResources[0].ResourceStatus))

	// ListStackResources returns the same listing with no continuation.
	resp, body = postForm(t, server, url.Values{"Action": {"ListStackResources"}, "StackName": {"app"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed ListStackResourcesOutput
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Len(t, listed.StackResourceSummaries, 1)
	assert.Empty(t, listed.NextToken)

	// Events arrive newest first with the stack completion on top.
	resp, body = postForm(t, server, url.Values{"Action": {"DescribeStackEvents"}, "StackName": {"app"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events DescribeStackEventsOutput
	require.NoError(t, json.Unmarshal(body, &events))
	require.NotEmpty(t, events.StackEvents)
	assert.Equal(t, "CREATE_COMPLETE", string(events.StackEvents[0].ResourceStatus))

	// Delete and verify the stack disappears.
	resp, _ = postForm(t, server, url.Values{"Action": {"DeleteStack"}, "StackName": {"app"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for attempt := 0; attempt < 400; attempt++ {
		resp, _ = postForm(t, server, url.Values{"Action": {"DescribeStacks"}, "StackName": {"app"}})
		if resp.StatusCode == http.StatusBadRequest {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Double delete stays a successful no-op.
	resp, _ = postForm(t, server, url.Values{"Action": {"DeleteStack"}, "StackName": {"app"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_ValidateTemplate(t *testing.T) {
	server := newTestServer(t)

	resp, body := postForm(t, server, url.Values{
		"Action": {"ValidateTemplate"},
		"TemplateBody": {`
Description: ok
Parameters:
  Name:
    Type: String
    Default: jobs
Resources:
  Queue:
    Type: AWS::SQS::Queue
`},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ValidateTemplateOutput
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "ok", out.Description)
	require.Len(t, out.Parameters, 1)
	assert.Equal(t, "Name", *out.Parameters[0].ParameterKey)
	assert.Equal(t, "jobs", *out.Parameters[0].DefaultValue)
}

func TestServer_UnknownStack(t *testing.T) {
	server := newTestServer(t)

	resp, body := postForm(t, server, url.Values{"Action": {"DescribeStacks"}, "StackName": {"ghost"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, "User", envelope.Type)
	assert.Contains(t, envelope.Message, "ghost")
}

func TestServer_UnknownAction(t *testing.T) {
	server := newTestServer(t)

	resp, body := postForm(t, server, url.Values{"Action": {"LaunchRocket"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "InvalidAction", resp.Header.Get(ErrorTypeHeader))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, fmt.Sprintf("unknown action %q", "LaunchRocket"), envelope.Message)
}
