/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package sqs is an in-memory queueing service emulator. It implements just
// enough of the queue lifecycle for template deployments: create, delete,
// attribute updates and lookups by name or URL.
package sqs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

// ErrQueueNotFound is returned for operations on a queue that does not exist.
var ErrQueueNotFound = fmt.Errorf("queue does not exist")

// Queue is one live queue.
type Queue struct {
	Name       string
	URL        string
	ARN        string
	Attributes map[string]string
	CreatedAt  time.Time
}

// Service holds the queues of a single account/region.
type Service struct {
	mu        sync.RWMutex
	accountID string
	region    string
	endpoint  string
	queues    map[string]*Queue // keyed by name
}

// New creates an empty queue service for the given account and region.
// endpoint is the base URL queue URLs are minted under.
func New(accountID, region, endpoint string) *Service {
	return &Service{
		accountID: accountID,
		region:    region,
		endpoint:  endpoint,
		queues:    make(map[string]*Queue),
	}
}

// CreateQueue creates a queue. Creating an existing queue returns the
// existing queue unchanged, matching SQS semantics for identical attributes.
func (s *Service) CreateQueue(ctx context.Context, name string, attributes map[string]string) (*Queue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if queue, ok := s.queues[name]; ok {
		return queue, nil
	}

	queue := &Queue{
		Name:       name,
		URL:        fmt.Sprintf("%s/%s/%s", s.endpoint, s.accountID, name),
		ARN:        s.queueARN(name),
		Attributes: copyAttributes(attributes),
		CreatedAt:  time.Now().UTC(),
	}
	s.queues[name] = queue
	return queue, nil
}

// SetQueueAttributes replaces the given attributes on an existing queue.
func (s *Service) SetQueueAttributes(ctx context.Context, queueURL string, attributes map[string]string) (*Queue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue, err := s.byURL(queueURL)
	if err != nil {
		return nil, err
	}
	for key, value := range attributes {
		queue.Attributes[key] = value
	}
	return queue, nil
}

// DeleteQueue removes a queue by URL. Deleting an absent queue fails with
// ErrQueueNotFound.
func (s *Service) DeleteQueue(ctx context.Context, queueURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue, err := s.byURL(queueURL)
	if err != nil {
		return err
	}
	delete(s.queues, queue.Name)
	return nil
}

// GetQueue looks a queue up by name.
func (s *Service) GetQueue(name string) (*Queue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	queue, ok := s.queues[name]
	return queue, ok
}

// ListQueueURLs returns the URLs of every live queue, sorted.
func (s *Service) ListQueueURLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	urls := make([]string, 0, len(s.queues))
	for _, queue := range s.queues {
		urls = append(urls, queue.URL)
	}
	sort.Strings(urls)
	return urls
}

func (s *Service) byURL(queueURL string) (*Queue, error) {
	for _, queue := range s.queues {
		if queue.URL == queueURL {
			return queue, nil
		}
	}
	return nil, ErrQueueNotFound
}

func (s *Service) queueARN(name string) string {
	return arn.ARN{
		Partition: "aws",
		Service:   "sqs",
		Region:    s.region,
		AccountID: s.accountID,
		Resource:  name,
	}.String()
}

func copyAttributes(attributes map[string]string) map[string]string {
	out := make(map[string]string, len(attributes))
	for key, value := range attributes {
		out[key] = value
	}
	return out
}
