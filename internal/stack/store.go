/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stack

import (
	"sort"
	"sync"
)

// Store is the stack-name-keyed registry of live stacks. A single Manager
// owns the store; nothing else mutates it.
type Store struct {
	mu     sync.RWMutex
	stacks map[string]*Stack
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{stacks: make(map[string]*Stack)}
}

// Get returns the live stack with the given name.
func (s *Store) Get(name string) (*Stack, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stacks[name]
	return st, ok
}

// Put registers a stack, failing if the name is already taken.
func (s *Store) Put(st *Stack) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stacks[st.Name]; ok {
		return &AlreadyExistsError{Name: st.Name}
	}
	s.stacks[st.Name] = st
	return nil
}

// Remove drops a stack from the registry. Removing an absent name is a
// no-op.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stacks, name)
}

// List returns every live stack, ordered by name for stable output.
func (s *Store) List() []*Stack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stacks := make([]*Stack, 0, len(s.stacks))
	for _, st := range s.stacks {
		stacks = append(stacks, st)
	}
	sort.Slice(stacks, func(i, j int) bool { return stacks[i].Name < stacks[j].Name })
	return stacks
}
