/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package sns is an in-memory notification service emulator covering topics
// and subscriptions.
package sns

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/google/uuid"
)

var (
	// ErrTopicNotFound is returned for operations on an absent topic.
	ErrTopicNotFound = fmt.Errorf("topic does not exist")
	// ErrSubscriptionNotFound is returned for operations on an absent subscription.
	ErrSubscriptionNotFound = fmt.Errorf("subscription does not exist")
)

// Topic is one live topic.
type Topic struct {
	Name      string
	ARN       string
	CreatedAt time.Time
}

// Subscription attaches an endpoint to a topic.
type Subscription struct {
	ARN      string
	TopicARN string
	Protocol string
	Endpoint string
}

// Service holds the topics and subscriptions of a single account/region.
type Service struct {
	mu            sync.RWMutex
	accountID     string
	region        string
	topics        map[string]*Topic        // keyed by ARN
	subscriptions map[string]*Subscription // keyed by ARN
}

// New creates an empty notification service for the given account and region.
func New(accountID, region string) *Service {
	return &Service{
		accountID:     accountID,
		region:        region,
		topics:        make(map[string]*Topic),
		subscriptions: make(map[string]*Subscription),
	}
}

// CreateTopic creates a topic, or returns the existing one of the same name.
func (s *Service) CreateTopic(ctx context.Context, name string) (*Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topicARN := s.topicARN(name)
	if topic, ok := s.topics[topicARN]; ok {
		return topic, nil
	}
	topic := &Topic{
		Name:      name,
		ARN:       topicARN,
		CreatedAt: time.Now().UTC(),
	}
	s.topics[topicARN] = topic
	return topic, nil
}

// DeleteTopic removes a topic and every subscription attached to it.
func (s *Service) DeleteTopic(ctx context.Context, topicARN string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.topics[topicARN]; !ok {
		return ErrTopicNotFound
	}
	delete(s.topics, topicARN)
	for subscriptionARN, subscription := range s.subscriptions {
		if subscription.TopicARN == topicARN {
			delete(s.subscriptions, subscriptionARN)
		}
	}
	return nil
}

// Subscribe attaches an endpoint to an existing topic.
func (s *Service) Subscribe(ctx context.Context, topicARN, protocol, endpoint string) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.topics[topicARN]; !ok {
		return nil, ErrTopicNotFound
	}
	if protocol == "" || endpoint == "" {
		return nil, fmt.Errorf("subscription requires a protocol and an endpoint")
	}
	subscription := &Subscription{
		ARN:      fmt.Sprintf("%s:%s", topicARN, uuid.NewString()),
		TopicARN: topicARN,
		Protocol: protocol,
		Endpoint: endpoint,
	}
	s.subscriptions[subscription.ARN] = subscription
	return subscription, nil
}

// Unsubscribe removes a subscription by ARN.
func (s *Service) Unsubscribe(ctx context.Context, subscriptionARN string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscriptions[subscriptionARN]; !ok {
		return ErrSubscriptionNotFound
	}
	delete(s.subscriptions, subscriptionARN)
	return nil
}

// GetTopic looks a topic up by ARN.
func (s *Service) GetTopic(topicARN string) (*Topic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	topic, ok := s.topics[topicARN]
	return topic, ok
}

// GetSubscription looks a subscription up by ARN.
func (s *Service) GetSubscription(subscriptionARN string) (*Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subscription, ok := s.subscriptions[subscriptionARN]
	return subscription, ok
}

// ListTopicARNs returns the ARNs of every live topic, sorted.
func (s *Service) ListTopicARNs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arns := make([]string, 0, len(s.topics))
	for topicARN := range s.topics {
		arns = append(arns, topicARN)
	}
	sort.Strings(arns)
	return arns
}

// ListSubscriptions returns every live subscription, sorted by ARN.
func (s *Service) ListSubscriptions() []*Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subscriptions := make([]*Subscription, 0, len(s.subscriptions))
	for _, subscription := range s.subscriptions {
		subscriptions = append(subscriptions, subscription)
	}
	sort.Slice(subscriptions, func(i, j int) bool {
		return subscriptions[i].ARN < subscriptions[j].ARN
	})
	return subscriptions
}

func (s *Service) topicARN(name string) string {
	return arn.ARN{
		Partition: "aws",
		Service:   "sns",
		Region:    s.region,
		AccountID: s.accountID,
		Resource:  name,
	}.String()
}
