/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package kinesis is an in-memory stream storage emulator covering the
// stream lifecycle.
package kinesis

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

var (
	// ErrStreamExists is returned when creating a stream whose name is taken.
	ErrStreamExists = fmt.Errorf("stream already exists")
	// ErrStreamNotFound is returned for operations on an absent stream.
	ErrStreamNotFound = fmt.Errorf("stream does not exist")
)

// Stream is one live stream.
type Stream struct {
	Name       string
	ARN        string
	ShardCount int
	CreatedAt  time.Time
}

// Service holds the streams of a single account/region.
type Service struct {
	mu        sync.RWMutex
	accountID string
	region    string
	streams   map[string]*Stream
}

// New creates an empty stream service for the given account and region.
func New(accountID, region string) *Service {
	return &Service{
		accountID: accountID,
		region:    region,
		streams:   make(map[string]*Stream),
	}
}

// CreateStream creates a stream.
func (s *Service) CreateStream(ctx context.Context, name string, shardCount int) (*Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.streams[name]; ok {
		return nil, ErrStreamExists
	}
	if shardCount <= 0 {
		shardCount = 1
	}
	stream := &Stream{
		Name:       name,
		ARN:        s.streamARN(name),
		ShardCount: shardCount,
		CreatedAt:  time.Now().UTC(),
	}
	s.streams[name] = stream
	return stream, nil
}

// UpdateShardCount changes the shard count of an existing stream.
func (s *Service) UpdateShardCount(ctx context.Context, name string, shardCount int) (*Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, ok := s.streams[name]
	if !ok {
		return nil, ErrStreamNotFound
	}
	if shardCount > 0 {
		stream.ShardCount = shardCount
	}
	return stream, nil
}

// DeleteStream removes a stream.
func (s *Service) DeleteStream(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.streams[name]; !ok {
		return ErrStreamNotFound
	}
	delete(s.streams, name)
	return nil
}

// GetStream looks a stream up by name.
func (s *Service) GetStream(name string) (*Stream, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stream, ok := s.streams[name]
	return stream, ok
}

// ListStreams returns every live stream name, sorted.
func (s *Service) ListStreams() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.streams))
	for name := range s.streams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) streamARN(name string) string {
	return arn.ARN{
		Partition: "aws",
		Service:   "kinesis",
		Region:    s.region,
		AccountID: s.accountID,
		Resource:  "stream/" + name,
	}.String()
}
