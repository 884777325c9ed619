/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stack

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/google/uuid"

	"github.com/gregplaysguitar/localstack/internal/graph"
	"github.com/gregplaysguitar/localstack/internal/provision"
	"github.com/gregplaysguitar/localstack/internal/template"
)

// Options configures a Manager.
type Options struct {
	AccountID   string
	Region      string
	Parallelism int
	PageSize    int
	Logger      *slog.Logger
}

// Manager is the stack lifecycle manager: it owns the store of live stacks,
// validates and dispatches applies and answers describe/list queries from
// consistent snapshots. Apply work runs asynchronously; callers observe
// progress by polling.
type Manager struct {
	store       *Store
	registry    *provision.Registry
	log         *slog.Logger
	accountID   string
	region      string
	parallelism int
	pageSize    int
}

// NewManager creates a Manager dispatching to the given provisioner
// registry.
func NewManager(registry *provision.Registry, opts Options) *Manager {
	if opts.Parallelism <= 0 {
		opts.Parallelism = 4
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		store:       NewStore(),
		registry:    registry,
		log:         opts.Logger,
		accountID:   opts.AccountID,
		region:      opts.Region,
		parallelism: opts.Parallelism,
		pageSize:    opts.PageSize,
	}
}

// CreateStack validates the template, registers a new stack and dispatches
// the apply. It returns the stack ID immediately; creation progress is
// observable through DescribeStacks and DescribeStackEvents.
func (m *Manager) CreateStack(ctx context.Context, name, templateBody string, parameters map[string]string) (string, error) {
	t, g, err := m.prepare(templateBody, parameters)
	if err != nil {
		return "", err
	}

	st := newStack(name, m.stackID(name), t, g, parameters)
	if err := m.store.Put(st); err != nil {
		return "", err
	}
	_ = st.beginApply()
	st.setStatus(cfntypes.StackStatusCreateInProgress, "User Initiated")

	m.log.Info("stack creation started", "stack", name, "resources", len(t.Resources))
	m.dispatch(st, opCreate, nil)
	return st.ID, nil
}

// UpdateStack re-applies a template to an existing stack. Resources kept by
// the new template retain their physical identifiers; resources the new
// template drops are removed after the apply succeeds.
func (m *Manager) UpdateStack(ctx context.Context, name, templateBody string, parameters map[string]string) error {
	st, ok := m.store.Get(name)
	if !ok {
		return &NotFoundError{Name: name}
	}
	t, g, err := m.prepare(templateBody, parameters)
	if err != nil {
		return err
	}
	if err := st.beginApply(); err != nil {
		return err
	}

	obsolete := m.rebindStack(st, t, g, parameters)
	st.setStatus(cfntypes.StackStatusUpdateInProgress, "User Initiated")

	m.log.Info("stack update started", "stack", name, "resources", len(t.Resources), "removed", len(obsolete))
	m.dispatch(st, opUpdate, obsolete)
	return nil
}

// DeleteStack removes a stack and every resource it owns, dependents before
// dependencies. Deleting an absent stack is a no-op.
func (m *Manager) DeleteStack(ctx context.Context, name string) error {
	st, ok := m.store.Get(name)
	if !ok {
		return nil
	}
	if err := st.beginApply(); err != nil {
		return err
	}
	m.resetForDelete(st)
	st.setStatus(cfntypes.StackStatusDeleteInProgress, "User Initiated")

	m.log.Info("stack deletion started", "stack", name)
	m.dispatch(st, opDelete, nil)
	return nil
}

// CancelStackOperation cancels the in-flight apply of a stack, if any.
// Pending resources fail immediately; in-progress ones run to completion.
func (m *Manager) CancelStackOperation(name string) error {
	st, ok := m.store.Get(name)
	if !ok {
		return &NotFoundError{Name: name}
	}
	st.cancelApply()
	return nil
}

// ValidationResult is the outcome of a validation-only pass.
type ValidationResult struct {
	Description  string
	Parameters   []ParameterDeclaration
	Capabilities []string
}

// ParameterDeclaration describes one template parameter.
type ParameterDeclaration struct {
	ParameterKey string
	DefaultValue string
	Type         string
	Description  string
}

// ValidateTemplate runs the parse and graph-build stages without touching
// any resource, surfacing the same structural and reference errors a real
// apply would hit.
func (m *Manager) ValidateTemplate(templateBody string) (*ValidationResult, error) {
	t, err := template.Parse(templateBody)
	if err != nil {
		return nil, err
	}
	if _, err := graph.Build(t); err != nil {
		return nil, err
	}

	declarations := make([]ParameterDeclaration, 0, len(t.Parameters))
	for name, parameter := range t.Parameters {
		declaration := ParameterDeclaration{
			ParameterKey: name,
			Type:         parameter.Type,
			Description:  parameter.Description,
		}
		if parameter.Default != nil {
			declaration.DefaultValue = fmt.Sprintf("%v", parameter.Default)
		}
		declarations = append(declarations, declaration)
	}
	sort.Slice(declarations, func(i, j int) bool {
		return declarations[i].ParameterKey < declarations[j].ParameterKey
	})

	return &ValidationResult{
		Description:  t.Description,
		Parameters:   declarations,
		Capabilities: []string{},
	}, nil
}

// DescribeStacks returns a summary per live stack, or just the named one.
func (m *Manager) DescribeStacks(name string) ([]StackSummary, error) {
	if name != "" {
		st, ok := m.store.Get(name)
		if !ok {
			return nil, &NotFoundError{Name: name}
		}
		return []StackSummary{st.summary()}, nil
	}
	stacks := m.store.List()
	summaries := make([]StackSummary, 0, len(stacks))
	for _, st := range stacks {
		summaries = append(summaries, st.summary())
	}
	return summaries, nil
}

// DescribeStackResources returns a summary per resource of a stack.
func (m *Manager) DescribeStackResources(name string) ([]ResourceSummary, error) {
	st, ok := m.store.Get(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return st.resourceSummaries(), nil
}

// ListStackResources is the paginated form of DescribeStackResources.
// nextToken is the stringified offset of the next page, empty when the
// listing is exhausted.
func (m *Manager) ListStackResources(name, nextToken string) ([]ResourceSummary, string, error) {
	summaries, err := m.DescribeStackResources(name)
	if err != nil {
		return nil, "", err
	}
	offset := 0
	if nextToken != "" {
		offset, err = strconv.Atoi(nextToken)
		if err != nil || offset < 0 {
			return nil, "", fmt.Errorf("invalid pagination token %q", nextToken)
		}
	}
	if offset >= len(summaries) {
		return []ResourceSummary{}, "", nil
	}
	end := offset + m.pageSize
	token := ""
	if end < len(summaries) {
		token = strconv.Itoa(end)
	} else {
		end = len(summaries)
	}
	return summaries[offset:end], token, nil
}

// DescribeStackEvents returns a stack's events in reverse-chronological
// order.
func (m *Manager) DescribeStackEvents(name string) ([]Event, error) {
	st, ok := m.store.Get(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return st.eventsSnapshot(), nil
}

// StackStatus returns the current aggregate status of a stack.
func (m *Manager) StackStatus(name string) (StackStatus, error) {
	st, ok := m.store.Get(name)
	if !ok {
		return "", &NotFoundError{Name: name}
	}
	return st.Status(), nil
}

// prepare runs the validation-time stages shared by create and update:
// parse, graph build and parameter checking. Any error here aborts the
// apply before a single resource is touched.
func (m *Manager) prepare(templateBody string, parameters map[string]string) (*template.Template, *graph.Graph, error) {
	t, err := template.Parse(templateBody)
	if err != nil {
		return nil, nil, err
	}
	g, err := graph.Build(t)
	if err != nil {
		return nil, nil, err
	}
	for name, parameter := range t.Parameters {
		if _, supplied := parameters[name]; !supplied && parameter.Default == nil {
			return nil, nil, &MissingParameterError{Name: name}
		}
	}
	return t, g, nil
}

// rebindStack swaps a stack onto a new template, keeping resources the new
// template still declares and returning the ones it dropped, dependents
// before dependencies so their cleanup mirrors a delete walk.
func (m *Manager) rebindStack(st *Stack, t *template.Template, g *graph.Graph, parameters map[string]string) []*Resource {
	st.mu.Lock()
	defer st.mu.Unlock()

	var obsolete []*Resource
	for logicalID, resource := range st.resources {
		if _, kept := t.Resources[logicalID]; !kept {
			obsolete = append(obsolete, resource)
			delete(st.resources, logicalID)
		}
	}
	// Order by the outgoing graph: reversed creation order removes each
	// dropped resource before anything it depended on.
	position := make(map[string]int, len(st.Graph.Nodes()))
	for i, node := range st.Graph.TopologicalOrder() {
		position[node] = i
	}
	sort.Slice(obsolete, func(i, j int) bool {
		return position[obsolete[i].LogicalID] > position[obsolete[j].LogicalID]
	})
	for logicalID, spec := range t.Resources {
		if resource, ok := st.resources[logicalID]; ok {
			resource.Type = spec.Type
			resource.Status = ResourceStatusPending
			resource.StatusReason = ""
		} else {
			st.resources[logicalID] = &Resource{
				LogicalID: logicalID,
				Type:      spec.Type,
				Status:    ResourceStatusPending,
			}
		}
	}
	st.Template = t
	st.Graph = g
	st.Parameters = parameters
	return obsolete
}

// resetForDelete re-arms every live resource for the delete walk.
func (m *Manager) resetForDelete(st *Stack) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, resource := range st.resources {
		resource.StatusReason = ""
	}
}

// dispatch launches the walk on its own context so it outlives the
// initiating call, wiring cancellation back onto the stack.
func (m *Manager) dispatch(st *Stack, op operation, obsolete []*Resource) {
	applyCtx, cancel := context.WithCancel(context.Background())
	st.setCancel(cancel)
	run := &runner{
		manager:  m,
		stack:    st,
		op:       op,
		obsolete: obsolete,
		log:      m.log,
	}
	go func() {
		defer cancel()
		run.run(applyCtx)
	}()
}

func (m *Manager) stackID(name string) string {
	return fmt.Sprintf("arn:aws:cloudformation:%s:%s:stack/%s/%s", m.region, m.accountID, name, uuid.NewString())
}

func (m *Manager) pseudoParameters(stackName string) map[string]string {
	return map[string]string{
		"AWS::AccountId": m.accountID,
		"AWS::Region":    m.region,
		"AWS::StackName": stackName,
		"AWS::Partition": "aws",
		"AWS::URLSuffix": "amazonaws.com",
	}
}

func parameterValues(t *template.Template, supplied map[string]string) map[string]any {
	values := make(map[string]any, len(t.Parameters))
	for name, parameter := range t.Parameters {
		if parameter.Default != nil {
			values[name] = parameter.Default
		}
	}
	for name, value := range supplied {
		values[name] = value
	}
	return values
}
