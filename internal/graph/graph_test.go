/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregplaysguitar/localstack/internal/intrinsic"
	"github.com/gregplaysguitar/localstack/internal/template"
)

func mustParse(t *testing.T, body string) *template.Template {
	t.Helper()
	tmpl, err := template.Parse(body)
	require.NoError(t, err)
	return tmpl
}

func TestBuild_ExplicitDependsOn(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  Queue:
    Type: AWS::SQS::Queue
  Topic:
    Type: AWS::SNS::Topic
    DependsOn: Queue
`)

	g, err := Build(tmpl)
	require.NoError(t, err)

	assert.Equal(t, []string{"Queue"}, g.Dependencies("Topic"))
	assert.Equal(t, []string{"Topic"}, g.Dependents("Queue"))
	assert.Empty(t, g.Dependencies("Queue"))
}

func TestBuild_ImplicitReferenceEdges(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  Queue:
    Type: AWS::SQS::Queue
  Subscription:
    Type: AWS::SNS::Subscription
    Properties:
      TopicArn: !Ref Topic
      Endpoint: !GetAtt Queue.Arn
  Topic:
    Type: AWS::SNS::Topic
`)

	g, err := Build(tmpl)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Topic", "Queue"}, g.Dependencies("Subscription"))
}

func TestBuild_ParameterRefsAreNotEdges(t *testing.T) {
	tmpl := mustParse(t, `
Parameters:
  QueueName:
    Type: String
Resources:
  Queue:
    Type: AWS::SQS::Queue
    Properties:
      QueueName: !Ref QueueName
`)

	g, err := Build(tmpl)
	require.NoError(t, err)
	assert.Empty(t, g.Dependencies("Queue"))
}

func TestBuild_DuplicateEdgesCollapse(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  Queue:
    Type: AWS::SQS::Queue
  Bucket:
    Type: AWS::S3::Bucket
    DependsOn: Queue
    Properties:
      BucketName: !Ref Queue
      Extra: !GetAtt Queue.Arn
`)

	g, err := Build(tmpl)
	require.NoError(t, err)
	assert.Equal(t, []string{"Queue"}, g.Dependencies("Bucket"))
}

func TestBuild_DanglingReference(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      BucketName: !Ref Ghost
`)

	_, err := Build(tmpl)
	var dangling *intrinsic.DanglingReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "Bucket", dangling.Referrer)
	assert.Equal(t, "Ghost", dangling.Target)
}

func TestBuild_DanglingDependsOn(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  Bucket:
    Type: AWS::S3::Bucket
    DependsOn: Ghost
`)

	_, err := Build(tmpl)
	var dangling *intrinsic.DanglingReferenceError
	assert.ErrorAs(t, err, &dangling)
}

func TestBuild_CycleDetected(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  A:
    Type: AWS::SQS::Queue
    DependsOn: C
  B:
    Type: AWS::SQS::Queue
    DependsOn: A
  C:
    Type: AWS::SQS::Queue
    DependsOn: B
`)

	_, err := Build(tmpl)
	var cyclic *CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
	assert.GreaterOrEqual(t, len(cyclic.Cycle), 4)
	assert.Equal(t, cyclic.Cycle[0], cyclic.Cycle[len(cyclic.Cycle)-1])
}

func TestBuild_SelfReferenceRejected(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  Queue:
    Type: AWS::SQS::Queue
    Properties:
      Loop: !Ref Queue
`)

	_, err := Build(tmpl)
	var cyclic *CyclicDependencyError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, []string{"Queue", "Queue"}, cyclic.Cycle)
}

func TestBuild_SelfDependsOnRejected(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  Queue:
    Type: AWS::SQS::Queue
    DependsOn: Queue
`)

	_, err := Build(tmpl)
	var cyclic *CyclicDependencyError
	assert.ErrorAs(t, err, &cyclic)
}

func TestTopologicalOrder_RespectsDependencies(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  Subscription:
    Type: AWS::SNS::Subscription
    Properties:
      TopicArn: !Ref Topic
      Endpoint: !GetAtt Queue.Arn
  Topic:
    Type: AWS::SNS::Topic
  Queue:
    Type: AWS::SQS::Queue
`)

	g, err := Build(tmpl)
	require.NoError(t, err)

	order := g.TopologicalOrder()
	require.Len(t, order, 3)

	position := make(map[string]int, len(order))
	for i, node := range order {
		position[node] = i
	}
	assert.Less(t, position["Topic"], position["Subscription"])
	assert.Less(t, position["Queue"], position["Subscription"])
}

func TestTopologicalOrder_BreaksTiesByDeclarationOrder(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  Zebra:
    Type: AWS::SQS::Queue
  Apple:
    Type: AWS::SQS::Queue
  Mango:
    Type: AWS::SQS::Queue
`)

	g, err := Build(tmpl)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zebra", "Apple", "Mango"}, g.TopologicalOrder())
}

func TestTopologicalOrder_Deterministic(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  Queue:
    Type: AWS::SQS::Queue
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      Tag: !Ref Queue
  Topic:
    Type: AWS::SNS::Topic
`)

	g, err := Build(tmpl)
	require.NoError(t, err)

	first := g.TopologicalOrder()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, g.TopologicalOrder())
	}
}

func TestTransitiveDependents(t *testing.T) {
	tmpl := mustParse(t, `
Resources:
  Queue:
    Type: AWS::SQS::Queue
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      Tag: !Ref Queue
  Backup:
    Type: AWS::S3::Bucket
    DependsOn: Bucket
  Topic:
    Type: AWS::SNS::Topic
`)

	g, err := Build(tmpl)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Bucket", "Backup"}, g.TransitiveDependents("Queue"))
	assert.Empty(t, g.TransitiveDependents("Topic"))
}
