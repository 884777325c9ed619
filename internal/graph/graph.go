/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package graph

import (
	"fmt"
	"strings"

	"github.com/gregplaysguitar/localstack/internal/intrinsic"
	"github.com/gregplaysguitar/localstack/internal/template"
)

// CyclicDependencyError reports a dependency cycle between resources.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Cycle, " -> "))
}

// Graph is the "depends on" relation over a template's resources. Edges
// come from explicit DependsOn declarations and from references discovered
// by scanning property trees. The graph is immutable once built and is
// guaranteed acyclic.
type Graph struct {
	order        []string
	dependencies map[string][]string
	dependents   map[string][]string
}

// Build derives the dependency graph for a template. It fails with
// intrinsic.DanglingReferenceError when a resource depends on or references
// a logical ID the template does not declare, and with
// CyclicDependencyError when the relation contains a cycle.
func Build(t *template.Template) (*Graph, error) {
	g := &Graph{
		order:        append([]string(nil), t.ResourceOrder...),
		dependencies: make(map[string][]string, len(t.Resources)),
		dependents:   make(map[string][]string, len(t.Resources)),
	}

	for _, logicalID := range g.order {
		spec := t.Resources[logicalID]
		seen := make(map[string]bool)

		addEdge := func(target string) error {
			if _, declared := t.Resources[target]; !declared {
				return &intrinsic.DanglingReferenceError{Referrer: logicalID, Target: target}
			}
			if target == logicalID {
				// A resource naming itself is a cycle of length one.
				return &CyclicDependencyError{Cycle: []string{logicalID, logicalID}}
			}
			if seen[target] {
				return nil
			}
			seen[target] = true
			g.dependencies[logicalID] = append(g.dependencies[logicalID], target)
			g.dependents[target] = append(g.dependents[target], logicalID)
			return nil
		}

		for _, target := range spec.DependsOn {
			if err := addEdge(target); err != nil {
				return nil, err
			}
		}
		for _, ref := range intrinsic.Scan(spec.Properties) {
			if t.HasParameter(ref.LogicalID) {
				continue
			}
			if err := addEdge(ref.LogicalID); err != nil {
				return nil, err
			}
		}
	}

	if cycle := g.findCycle(); cycle != nil {
		return nil, &CyclicDependencyError{Cycle: cycle}
	}
	return g, nil
}

// Dependencies returns the direct dependencies of a resource, in the order
// they were discovered.
func (g *Graph) Dependencies(logicalID string) []string {
	return g.dependencies[logicalID]
}

// Dependents returns the resources that directly depend on the given one.
func (g *Graph) Dependents(logicalID string) []string {
	return g.dependents[logicalID]
}

// Nodes returns every resource logical ID in template declaration order.
func (g *Graph) Nodes() []string {
	return g.order
}

// TopologicalOrder returns a creation order in which every resource appears
// after all of its dependencies. Ties between ready resources break by
// template declaration order, so identical templates always produce the
// same ordering.
func (g *Graph) TopologicalOrder() []string {
	indegree := make(map[string]int, len(g.order))
	for _, node := range g.order {
		indegree[node] = len(g.dependencies[node])
	}

	order := make([]string, 0, len(g.order))
	emitted := make(map[string]bool, len(g.order))
	for len(order) < len(g.order) {
		progressed := false
		for _, node := range g.order {
			if emitted[node] || indegree[node] != 0 {
				continue
			}
			emitted[node] = true
			order = append(order, node)
			for _, dependent := range g.dependents[node] {
				indegree[dependent]--
			}
			progressed = true
			break
		}
		if !progressed {
			// Unreachable once Build has rejected cycles.
			break
		}
	}
	return order
}

// TransitiveDependents returns every resource that directly or indirectly
// depends on the given one.
func (g *Graph) TransitiveDependents(logicalID string) []string {
	var out []string
	seen := map[string]bool{logicalID: true}
	queue := append([]string(nil), g.dependents[logicalID]...)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if seen[node] {
			continue
		}
		seen[node] = true
		out = append(out, node)
		queue = append(queue, g.dependents[node]...)
	}
	return out
}

// findCycle runs a depth-first search with an in-progress marker per node
// and returns the first back-edge path found, or nil.
func (g *Graph) findCycle() []string {
	const (
		white = iota
		grey
		black
	)
	colour := make(map[string]int, len(g.order))
	var stack []string

	var visit func(node string) []string
	visit = func(node string) []string {
		colour[node] = grey
		stack = append(stack, node)
		for _, dep := range g.dependencies[node] {
			switch colour[dep] {
			case grey:
				// Trim the stack back to the first occurrence of dep.
				for i, name := range stack {
					if name == dep {
						return append(append([]string(nil), stack[i:]...), dep)
					}
				}
			case white:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		colour[node] = black
		return nil
	}

	for _, node := range g.order {
		if colour[node] == white {
			if cycle := visit(node); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
