/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/gregplaysguitar/localstack/internal/service/kinesis"
	"github.com/gregplaysguitar/localstack/internal/service/s3"
	"github.com/gregplaysguitar/localstack/internal/service/sns"
	"github.com/gregplaysguitar/localstack/internal/service/sqs"
)

// Resource type strings understood by the default registry.
const (
	TypeQueue        = "AWS::SQS::Queue"
	TypeTopic        = "AWS::SNS::Topic"
	TypeSubscription = "AWS::SNS::Subscription"
	TypeBucket       = "AWS::S3::Bucket"
	TypeStream       = "AWS::Kinesis::Stream"
)

// Services bundles the backing emulators the default handlers dispatch to.
type Services struct {
	SQS     *sqs.Service
	SNS     *sns.Service
	S3      *s3.Service
	Kinesis *kinesis.Service
}

// DefaultRegistry returns a registry with a handler per supported resource
// type, each bound to its backing emulator.
func DefaultRegistry(services Services) *Registry {
	registry := NewRegistry()
	registry.Register(TypeQueue, &queueHandler{service: services.SQS})
	registry.Register(TypeTopic, &topicHandler{service: services.SNS})
	registry.Register(TypeSubscription, &subscriptionHandler{service: services.SNS})
	registry.Register(TypeBucket, &bucketHandler{service: services.S3})
	registry.Register(TypeStream, &streamHandler{service: services.Kinesis})
	return registry
}

type queueHandler struct {
	service *sqs.Service
}

func (h *queueHandler) Create(ctx context.Context, req Request) (Result, error) {
	name := stringProp(req.Properties, "QueueName")
	if name == "" {
		name = physicalName(req.StackName, req.LogicalID)
	}
	queue, err := h.service.CreateQueue(ctx, name, queueAttributes(req.Properties))
	if err != nil {
		return Result{}, err
	}
	return queueResult(queue), nil
}

func (h *queueHandler) Update(ctx context.Context, req Request) (Result, error) {
	name := stringProp(req.Properties, "QueueName")
	if name != "" && !strings.HasSuffix(req.PhysicalID, "/"+name) {
		// Renaming a queue is a replacement.
		return h.Create(ctx, Request{
			StackName:  req.StackName,
			LogicalID:  req.LogicalID,
			Type:       req.Type,
			Properties: req.Properties,
		})
	}
	queue, err := h.service.SetQueueAttributes(ctx, req.PhysicalID, queueAttributes(req.Properties))
	if err != nil {
		return Result{}, err
	}
	return queueResult(queue), nil
}

func (h *queueHandler) Delete(ctx context.Context, req Request) error {
	return h.service.DeleteQueue(ctx, req.PhysicalID)
}

func queueAttributes(properties map[string]any) map[string]string {
	attributes := make(map[string]string)
	if visibility := intProp(properties, "VisibilityTimeout"); visibility > 0 {
		attributes["VisibilityTimeout"] = fmt.Sprintf("%d", visibility)
	}
	if delay := intProp(properties, "DelaySeconds"); delay > 0 {
		attributes["DelaySeconds"] = fmt.Sprintf("%d", delay)
	}
	return attributes
}

func queueResult(queue *sqs.Queue) Result {
	return Result{
		PhysicalID: queue.URL,
		Attributes: map[string]string{
			"Arn":       queue.ARN,
			"QueueName": queue.Name,
			"QueueUrl":  queue.URL,
		},
	}
}

type topicHandler struct {
	service *sns.Service
}

func (h *topicHandler) Create(ctx context.Context, req Request) (Result, error) {
	name := stringProp(req.Properties, "TopicName")
	if name == "" {
		name = physicalName(req.StackName, req.LogicalID)
	}
	topic, err := h.service.CreateTopic(ctx, name)
	if err != nil {
		return Result{}, err
	}
	// Inline Subscription entries on the topic are created alongside it.
	if subscriptions, ok := req.Properties["Subscription"].([]any); ok {
		for _, raw := range subscriptions {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			protocol := stringProp(entry, "Protocol")
			endpoint := stringProp(entry, "Endpoint")
			if _, err := h.service.Subscribe(ctx, topic.ARN, protocol, endpoint); err != nil {
				return Result{}, err
			}
		}
	}
	return topicResult(topic), nil
}

func (h *topicHandler) Update(ctx context.Context, req Request) (Result, error) {
	topic, ok := h.service.GetTopic(req.PhysicalID)
	if !ok {
		return h.Create(ctx, req)
	}
	return topicResult(topic), nil
}

func (h *topicHandler) Delete(ctx context.Context, req Request) error {
	return h.service.DeleteTopic(ctx, req.PhysicalID)
}

func topicResult(topic *sns.Topic) Result {
	return Result{
		PhysicalID: topic.ARN,
		Attributes: map[string]string{
			"Arn":       topic.ARN,
			"TopicName": topic.Name,
		},
	}
}

type subscriptionHandler struct {
	service *sns.Service
}

func (h *subscriptionHandler) Create(ctx context.Context, req Request) (Result, error) {
	topicARN := stringProp(req.Properties, "TopicArn")
	protocol := stringProp(req.Properties, "Protocol")
	endpoint := stringProp(req.Properties, "Endpoint")
	subscription, err := h.service.Subscribe(ctx, topicARN, protocol, endpoint)
	if err != nil {
		return Result{}, err
	}
	return subscriptionResult(subscription), nil
}

func (h *subscriptionHandler) Update(ctx context.Context, req Request) (Result, error) {
	// Subscriptions are immutable: an unchanged one is kept as-is, any
	// change is a replacement.
	if existing, ok := h.service.GetSubscription(req.PhysicalID); ok {
		topicARN := stringProp(req.Properties, "TopicArn")
		protocol := stringProp(req.Properties, "Protocol")
		endpoint := stringProp(req.Properties, "Endpoint")
		if existing.TopicARN == topicARN && existing.Protocol == protocol && existing.Endpoint == endpoint {
			return subscriptionResult(existing), nil
		}
		if err := h.service.Unsubscribe(ctx, existing.ARN); err != nil && err != sns.ErrSubscriptionNotFound {
			return Result{}, err
		}
	}
	return h.Create(ctx, req)
}

func (h *subscriptionHandler) Delete(ctx context.Context, req Request) error {
	err := h.service.Unsubscribe(ctx, req.PhysicalID)
	if err == sns.ErrSubscriptionNotFound {
		// The owning topic may already have been deleted.
		return nil
	}
	return err
}

func subscriptionResult(subscription *sns.Subscription) Result {
	return Result{
		PhysicalID: subscription.ARN,
		Attributes: map[string]string{
			"Arn":      subscription.ARN,
			"TopicArn": subscription.TopicARN,
			"Endpoint": subscription.Endpoint,
		},
	}
}

type bucketHandler struct {
	service *s3.Service
}

func (h *bucketHandler) Create(ctx context.Context, req Request) (Result, error) {
	name := stringProp(req.Properties, "BucketName")
	if name == "" {
		name = strings.ToLower(physicalName(req.StackName, req.LogicalID))
	}
	bucket, err := h.service.CreateBucket(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if err := h.service.PutBucketTagging(ctx, name, bucketTags(req.Properties)); err != nil {
		return Result{}, err
	}
	return bucketResult(bucket), nil
}

func (h *bucketHandler) Update(ctx context.Context, req Request) (Result, error) {
	name := stringProp(req.Properties, "BucketName")
	if name == "" {
		name = req.PhysicalID
	}
	if name != req.PhysicalID {
		return h.Create(ctx, Request{
			StackName:  req.StackName,
			LogicalID:  req.LogicalID,
			Type:       req.Type,
			Properties: req.Properties,
		})
	}
	if err := h.service.PutBucketTagging(ctx, name, bucketTags(req.Properties)); err != nil {
		return Result{}, err
	}
	bucket, _ := h.service.GetBucket(name)
	return bucketResult(bucket), nil
}

func (h *bucketHandler) Delete(ctx context.Context, req Request) error {
	return h.service.DeleteBucket(ctx, req.PhysicalID)
}

func bucketTags(properties map[string]any) map[string]string {
	tags := make(map[string]string)
	rawTags, _ := properties["Tags"].([]any)
	for _, raw := range rawTags {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		key := stringProp(entry, "Key")
		if key == "" {
			continue
		}
		tags[key] = stringProp(entry, "Value")
	}
	return tags
}

func bucketResult(bucket *s3.Bucket) Result {
	return Result{
		PhysicalID: bucket.Name,
		Attributes: map[string]string{
			"Arn":        bucket.ARN,
			"DomainName": bucket.Name + ".s3.amazonaws.com",
		},
	}
}

type streamHandler struct {
	service *kinesis.Service
}

func (h *streamHandler) Create(ctx context.Context, req Request) (Result, error) {
	name := stringProp(req.Properties, "Name")
	if name == "" {
		name = physicalName(req.StackName, req.LogicalID)
	}
	stream, err := h.service.CreateStream(ctx, name, intProp(req.Properties, "ShardCount"))
	if err != nil {
		return Result{}, err
	}
	return streamResult(stream), nil
}

func (h *streamHandler) Update(ctx context.Context, req Request) (Result, error) {
	name := stringProp(req.Properties, "Name")
	if name == "" {
		name = req.PhysicalID
	}
	if name != req.PhysicalID {
		return h.Create(ctx, Request{
			StackName:  req.StackName,
			LogicalID:  req.LogicalID,
			Type:       req.Type,
			Properties: req.Properties,
		})
	}
	stream, err := h.service.UpdateShardCount(ctx, name, intProp(req.Properties, "ShardCount"))
	if err != nil {
		return Result{}, err
	}
	return streamResult(stream), nil
}

func (h *streamHandler) Delete(ctx context.Context, req Request) error {
	return h.service.DeleteStream(ctx, req.PhysicalID)
}

func streamResult(stream *kinesis.Stream) Result {
	return Result{
		PhysicalID: stream.Name,
		Attributes: map[string]string{
			"Arn":  stream.ARN,
			"Name": stream.Name,
		},
	}
}
