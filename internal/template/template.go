// Package template provides CloudFormation template building from declared
// parameters, mappings, conditions, resources and outputs.
package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	ecsstack "github.com/lex00/ecs-stack-go"
	"github.com/lex00/ecs-stack-go/intrinsics"
	"github.com/lex00/ecs-stack-go/internal/serialize"
)

// FormatVersion is the only template format version CloudFormation accepts.
const FormatVersion = "2010-09-09"

var logicalIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Builder constructs a CloudFormation template.
//
// Registration never fails; problems such as duplicate or malformed
// logical IDs are collected and reported together by Build.
type Builder struct {
	description string

	parameters map[string]intrinsics.Parameter
	mappings   map[string]intrinsics.Mapping
	conditions map[string]any
	resources  map[string]*entry
	outputs    map[string]ecsstack.Output

	errs []error
}

type entry struct {
	name           string
	value          ecsstack.Resource
	condition      string
	dependsOn      []string
	deletionPolicy string
	metadata       any
}

// ResourceOption sets a resource attribute outside Properties.
type ResourceOption func(*entry)

// WithCondition gates the resource on a named condition.
func WithCondition(name string) ResourceOption {
	return func(e *entry) { e.condition = name }
}

// WithDependsOn adds explicit DependsOn targets.
func WithDependsOn(names ...string) ResourceOption {
	return func(e *entry) { e.dependsOn = append(e.dependsOn, names...) }
}

// WithDeletionPolicy sets the DeletionPolicy (Retain, Delete, Snapshot).
func WithDeletionPolicy(policy string) ResourceOption {
	return func(e *entry) { e.deletionPolicy = policy }
}

// WithMetadata sets the resource Metadata, e.g. an AWS::CloudFormation::Init block.
func WithMetadata(metadata any) ResourceOption {
	return func(e *entry) { e.metadata = metadata }
}

// Handle is a registered resource. Used as a property value it serializes
// to {"Ref": "Name"}.
type Handle struct {
	name string
}

// Name returns the logical ID.
func (h Handle) Name() string { return h.name }

// Ref returns the Ref intrinsic for the resource.
func (h Handle) Ref() intrinsics.Ref { return intrinsics.Ref{LogicalName: h.name} }

// GetAtt returns the Fn::GetAtt intrinsic for one of the resource's attributes.
func (h Handle) GetAtt(attribute string) intrinsics.GetAtt {
	return intrinsics.GetAtt{LogicalName: h.name, Attribute: attribute}
}

// MarshalJSON serializes the handle as a Ref.
func (h Handle) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": h.name})
}

// NewBuilder creates an empty template builder.
func NewBuilder(description string) *Builder {
	return &Builder{
		description: description,
		parameters:  make(map[string]intrinsics.Parameter),
		mappings:    make(map[string]intrinsics.Mapping),
		conditions:  make(map[string]any),
		resources:   make(map[string]*entry),
		outputs:     make(map[string]ecsstack.Output),
	}
}

// Parameter registers a template parameter and returns it bound to name.
func (b *Builder) Parameter(name string, p intrinsics.Parameter) intrinsics.Parameter {
	b.claim("parameter", name)
	if p.Type == "" {
		p.Type = "String"
	}
	p = p.Named(name)
	b.parameters[name] = p
	return p
}

// Mapping registers a Mappings table and returns its name.
func (b *Builder) Mapping(name string, m intrinsics.Mapping) string {
	b.claim("mapping", name)
	b.mappings[name] = m
	return name
}

// Condition registers a named condition expression and returns its name.
func (b *Builder) Condition(name string, expr any) string {
	b.claim("condition", name)
	b.conditions[name] = expr
	return name
}

// Resource registers a resource under a logical ID.
func (b *Builder) Resource(name string, r ecsstack.Resource, opts ...ResourceOption) Handle {
	b.claim("resource", name)
	if r == nil {
		b.errs = append(b.errs, fmt.Errorf("resource %q: nil value", name))
	}
	e := &entry{name: name, value: r}
	for _, opt := range opts {
		opt(e)
	}
	b.resources[name] = e
	return Handle{name: name}
}

// Output registers a template output.
func (b *Builder) Output(name string, o ecsstack.Output) {
	if !logicalIDPattern.MatchString(name) {
		b.errs = append(b.errs, fmt.Errorf("output %q: logical ID must be alphanumeric", name))
	}
	if _, exists := b.outputs[name]; exists {
		b.errs = append(b.errs, fmt.Errorf("output %q: duplicate logical ID", name))
	}
	b.outputs[name] = o
}

// claim checks a logical ID. Resources and parameters share one
// namespace; mappings and conditions each have their own.
func (b *Builder) claim(kind, name string) {
	if !logicalIDPattern.MatchString(name) {
		b.errs = append(b.errs, fmt.Errorf("%s %q: logical ID must be alphanumeric", kind, name))
	}
	var taken bool
	switch kind {
	case "mapping":
		_, taken = b.mappings[name]
	case "condition":
		_, taken = b.conditions[name]
	default:
		_, p := b.parameters[name]
		_, r := b.resources[name]
		taken = p || r
	}
	if taken {
		b.errs = append(b.errs, fmt.Errorf("%s %q: duplicate logical ID", kind, name))
	}
}

// analyzed is a resource after serialization and reference extraction.
type analyzed struct {
	def  ecsstack.ResourceDef
	info ecsstack.RegisteredResource
}

// Build constructs the CloudFormation template. All validation problems
// are returned together.
func (b *Builder) Build() (*ecsstack.Template, error) {
	order, resources, errs := b.analyze()

	tmpl := &ecsstack.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.description,
		Resources:                make(map[string]ecsstack.ResourceDef, len(resources)),
	}

	for _, name := range order {
		tmpl.Resources[name] = resources[name].def
	}

	if len(b.parameters) > 0 {
		tmpl.Parameters = make(map[string]ecsstack.Parameter, len(b.parameters))
		for name, p := range b.parameters {
			tmpl.Parameters[name] = convertParameter(p)
		}
	}

	if len(b.mappings) > 0 {
		tmpl.Mappings = make(map[string]any, len(b.mappings))
		for name, m := range b.mappings {
			val, err := serialize.Value(m)
			if err != nil {
				errs = append(errs, fmt.Errorf("mapping %q: %w", name, err))
				continue
			}
			tmpl.Mappings[name] = val
		}
	}

	if len(b.conditions) > 0 {
		tmpl.Conditions = make(map[string]any, len(b.conditions))
		for _, name := range sortedKeys(b.conditions) {
			val, err := serialize.Value(b.conditions[name])
			if err != nil {
				errs = append(errs, fmt.Errorf("condition %q: %w", name, err))
				continue
			}
			var refs references
			refs.collect(val, true)
			errs = append(errs, b.checkRefs("condition "+quote(name), refs)...)
			tmpl.Conditions[name] = val
		}
	}

	if len(b.outputs) > 0 {
		tmpl.Outputs = make(map[string]ecsstack.Output, len(b.outputs))
		for _, name := range sortedKeys(b.outputs) {
			out, err := b.buildOutput(name, b.outputs[name])
			if err != nil {
				errs = append(errs, err)
				continue
			}
			tmpl.Outputs[name] = out
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// Registered returns the registered resources in dependency order.
func (b *Builder) Registered() ([]ecsstack.RegisteredResource, error) {
	order, resources, errs := b.analyze()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	result := make([]ecsstack.RegisteredResource, 0, len(order))
	for _, name := range order {
		result = append(result, resources[name].info)
	}
	return result, nil
}

// analyze serializes every resource, resolves its references and sorts
// the resources topologically.
func (b *Builder) analyze() ([]string, map[string]*analyzed, []error) {
	errs := append([]error(nil), b.errs...)

	if len(b.resources) == 0 {
		errs = append(errs, errors.New("template has no resources"))
	}

	resources := make(map[string]*analyzed, len(b.resources))
	for _, name := range sortedKeys(b.resources) {
		e := b.resources[name]
		if e.value == nil {
			continue
		}
		res, resErrs := b.analyzeResource(e)
		errs = append(errs, resErrs...)
		resources[name] = res
	}

	order, err := topologicalSort(resources)
	if err != nil {
		errs = append(errs, err)
	}
	return order, resources, errs
}

func (b *Builder) analyzeResource(e *entry) (*analyzed, []error) {
	var errs []error
	where := "resource " + quote(e.name)

	props, err := serialize.Resource(e.value)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", where, err))
	}
	if len(props) == 0 {
		props = nil
	}

	var metadata map[string]any
	if e.metadata != nil {
		val, err := serialize.Value(e.metadata)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: metadata: %w", where, err))
		} else if m, ok := val.(map[string]any); ok {
			metadata = m
		} else {
			errs = append(errs, fmt.Errorf("%s: metadata must be an object", where))
		}
	}

	var refs references
	refs.collect(props, false)
	refs.collect(metadata, false)
	errs = append(errs, b.checkRefs(where, refs)...)

	if e.condition != "" {
		if _, ok := b.conditions[e.condition]; !ok {
			errs = append(errs, fmt.Errorf("%s: unknown condition %q", where, e.condition))
		}
	}

	deps := make(map[string]bool)
	var paramRefs []string
	for _, ref := range refs.refs {
		if _, ok := b.resources[ref]; ok {
			deps[ref] = true
		} else if _, ok := b.parameters[ref]; ok {
			paramRefs = append(paramRefs, ref)
		}
	}
	var usages []ecsstack.AttrRefUsage
	for _, ga := range refs.getAtts {
		if _, ok := b.resources[ga.ResourceName]; ok {
			deps[ga.ResourceName] = true
			usages = append(usages, ga)
		}
	}
	for _, dep := range e.dependsOn {
		if _, ok := b.resources[dep]; !ok {
			errs = append(errs, fmt.Errorf("%s: DependsOn unknown resource %q", where, dep))
			continue
		}
		deps[dep] = true
	}

	typeName := e.value.ResourceType()
	res := &analyzed{
		def: ecsstack.ResourceDef{
			Type:           typeName,
			Condition:      e.condition,
			DependsOn:      e.dependsOn,
			DeletionPolicy: e.deletionPolicy,
			Metadata:       metadata,
			Properties:     props,
		},
		info: ecsstack.RegisteredResource{
			Name:          e.name,
			Type:          typeName,
			Condition:     e.condition,
			Dependencies:  sortedKeys(deps),
			ParameterRefs: dedupe(paramRefs),
			AttrRefUsages: usages,
		},
	}
	return res, errs
}

func (b *Builder) buildOutput(name string, o ecsstack.Output) (ecsstack.Output, error) {
	where := "output " + quote(name)
	if o.Value == nil {
		return o, fmt.Errorf("%s: missing Value", where)
	}
	val, err := serialize.Value(o.Value)
	if err != nil {
		return o, fmt.Errorf("%s: %w", where, err)
	}
	o.Value = val

	var refs references
	refs.collect(val, false)
	if o.Export != nil {
		exportName, err := serialize.Value(o.Export.Name)
		if err != nil {
			return o, fmt.Errorf("%s: export: %w", where, err)
		}
		o.Export = &ecsstack.OutputExport{Name: exportName}
		refs.collect(exportName, false)
	}

	errs := b.checkRefs(where, refs)
	if o.Condition != "" {
		if _, ok := b.conditions[o.Condition]; !ok {
			errs = append(errs, fmt.Errorf("%s: unknown condition %q", where, o.Condition))
		}
	}
	return o, errors.Join(errs...)
}

// checkRefs validates every reference found in a template element.
func (b *Builder) checkRefs(where string, refs references) []error {
	var errs []error
	for _, ref := range refs.refs {
		_, isResource := b.resources[ref]
		_, isParam := b.parameters[ref]
		if !isResource && !isParam && !intrinsics.IsPseudo(ref) {
			errs = append(errs, fmt.Errorf("%s: Ref to unknown %q", where, ref))
		}
	}
	for _, ga := range refs.getAtts {
		if _, ok := b.resources[ga.ResourceName]; !ok {
			errs = append(errs, fmt.Errorf("%s: GetAtt on unknown resource %q", where, ga.ResourceName))
		}
	}
	for _, cond := range refs.conditions {
		if _, ok := b.conditions[cond]; !ok {
			errs = append(errs, fmt.Errorf("%s: unknown condition %q", where, cond))
		}
	}
	for _, m := range refs.mappings {
		if _, ok := b.mappings[m]; !ok {
			errs = append(errs, fmt.Errorf("%s: FindInMap on unknown mapping %q", where, m))
		}
	}
	return errs
}

// topologicalSort returns resources in dependency order.
func topologicalSort(resources map[string]*analyzed) ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range resources {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, res := range resources {
		for _, dep := range res.info.Dependencies {
			if _, exists := resources[dep]; exists {
				graph[dep] = append(graph[dep], name)
				inDegree[name]++
			}
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(resources) {
		return nil, detectCycle(resources)
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func detectCycle(resources map[string]*analyzed) error {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var stack []string

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		onPath[node] = true
		stack = append(stack, node)

		for _, dep := range resources[node].info.Dependencies {
			if _, exists := resources[dep]; !exists {
				continue
			}
			if onPath[dep] {
				for i, name := range stack {
					if name == dep {
						cycle = append(append([]string{}, stack[i:]...), dep)
						break
					}
				}
				return true
			}
			if !visited[dep] && findCycle(dep) {
				return true
			}
		}

		onPath[node] = false
		stack = stack[:len(stack)-1]
		return false
	}

	for _, name := range sortedKeys(resources) {
		if !visited[name] && findCycle(name) {
			break
		}
	}

	if len(cycle) == 0 {
		return errors.New("circular dependency detected")
	}
	return fmt.Errorf("circular dependency detected:\n  %s", strings.Join(cycle, "\n    → "))
}

func convertParameter(p intrinsics.Parameter) ecsstack.Parameter {
	return ecsstack.Parameter{
		Type:                  p.Type,
		Description:           p.Description,
		Default:               p.Default,
		AllowedValues:         p.AllowedValues,
		AllowedPattern:        p.AllowedPattern,
		ConstraintDescription: p.ConstraintDescription,
		MinLength:             p.MinLength,
		MaxLength:             p.MaxLength,
		MinValue:              p.MinValue,
		MaxValue:              p.MaxValue,
		NoEcho:                p.NoEcho,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	return sortedKeys(seen)
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// ToJSON serializes the template to JSON.
func ToJSON(t *ecsstack.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *ecsstack.Template) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
