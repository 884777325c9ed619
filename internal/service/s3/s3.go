/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package s3 is an in-memory object storage emulator covering the bucket
// lifecycle and bucket tagging.
package s3

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

var (
	// ErrBucketExists is returned when creating a bucket whose name is taken.
	ErrBucketExists = fmt.Errorf("bucket already exists")
	// ErrBucketNotFound is returned for operations on an absent bucket.
	ErrBucketNotFound = fmt.Errorf("bucket does not exist")
)

// Bucket is one live bucket.
type Bucket struct {
	Name      string
	ARN       string
	Tags      map[string]string
	CreatedAt time.Time
}

// Service holds the buckets of a single account.
type Service struct {
	mu      sync.RWMutex
	buckets map[string]*Bucket
}

// New creates an empty object storage service.
func New() *Service {
	return &Service{buckets: make(map[string]*Bucket)}
}

// CreateBucket creates a bucket. Bucket names are globally unique.
func (s *Service) CreateBucket(ctx context.Context, name string) (*Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[name]; ok {
		return nil, ErrBucketExists
	}
	bucket := &Bucket{
		Name:      name,
		ARN:       "arn:aws:s3:::" + name,
		Tags:      make(map[string]string),
		CreatedAt: time.Now().UTC(),
	}
	s.buckets[name] = bucket
	return bucket, nil
}

// PutBucketTagging replaces the tag set of a bucket.
func (s *Service) PutBucketTagging(ctx context.Context, name string, tags map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[name]
	if !ok {
		return ErrBucketNotFound
	}
	bucket.Tags = make(map[string]string, len(tags))
	for key, value := range tags {
		bucket.Tags[key] = value
	}
	return nil
}

// GetBucketTagging returns a copy of a bucket's tag set.
func (s *Service) GetBucketTagging(ctx context.Context, name string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.buckets[name]
	if !ok {
		return nil, ErrBucketNotFound
	}
	tags := make(map[string]string, len(bucket.Tags))
	for key, value := range bucket.Tags {
		tags[key] = value
	}
	return tags, nil
}

// DeleteBucket removes a bucket.
func (s *Service) DeleteBucket(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[name]; !ok {
		return ErrBucketNotFound
	}
	delete(s.buckets, name)
	return nil
}

// GetBucket looks a bucket up by name.
func (s *Service) GetBucket(name string) (*Bucket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.buckets[name]
	return bucket, ok
}

// ListBuckets returns every live bucket name, sorted.
func (s *Service) ListBuckets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
