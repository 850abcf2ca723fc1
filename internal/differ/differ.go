// Package differ provides semantic comparison of CloudFormation templates.
//
// Values are compared by their JSON form, so a template built in memory
// compares equal to the same template read back from YAML or JSON.
package differ

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	ecsstack "github.com/lex00/ecs-stack-go"
)

// Entry types used for non-resource changes.
const (
	TypeParameter = "Parameter"
	TypeMapping   = "Mapping"
	TypeCondition = "Condition"
	TypeOutput    = "Output"
)

// Options configures the differ.
type Options struct {
	// IgnoreOrder ignores array element order in comparisons
	IgnoreOrder bool
}

// Result contains the difference between two templates.
type Result struct {
	Diff    ecsstack.TemplateDiff
	Summary ecsstack.DiffSummary
}

// Empty reports whether the templates are equivalent.
func (r *Result) Empty() bool {
	return r.Summary.Total == 0
}

// Compare compares two CloudFormation templates and returns differences.
func Compare(template1, template2 *ecsstack.Template, opts Options) (*Result, error) {
	result := &Result{}
	diff := &result.Diff

	for name, def := range template2.Resources {
		if _, exists := template1.Resources[name]; !exists {
			diff.Added = append(diff.Added, ecsstack.DiffEntry{Resource: name, Type: def.Type})
		}
	}
	for name, def := range template1.Resources {
		if _, exists := template2.Resources[name]; !exists {
			diff.Removed = append(diff.Removed, ecsstack.DiffEntry{Resource: name, Type: def.Type})
		}
	}
	for name, def1 := range template1.Resources {
		def2, exists := template2.Resources[name]
		if !exists {
			continue
		}
		changes, err := compareResources(def1, def2, opts)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", name, err)
		}
		if len(changes) > 0 {
			diff.Modified = append(diff.Modified, ecsstack.DiffEntry{
				Resource: name,
				Type:     def1.Type,
				Changes:  changes,
			})
		}
	}

	if err := compareSection(diff, TypeParameter, toAnyMap(template1.Parameters), toAnyMap(template2.Parameters), opts); err != nil {
		return nil, err
	}
	if err := compareSection(diff, TypeMapping, template1.Mappings, template2.Mappings, opts); err != nil {
		return nil, err
	}
	if err := compareSection(diff, TypeCondition, template1.Conditions, template2.Conditions, opts); err != nil {
		return nil, err
	}
	if err := compareSection(diff, TypeOutput, toAnyMap(template1.Outputs), toAnyMap(template2.Outputs), opts); err != nil {
		return nil, err
	}

	sortEntries(diff.Added)
	sortEntries(diff.Removed)
	sortEntries(diff.Modified)

	result.Summary = ecsstack.DiffSummary{
		Added:    len(diff.Added),
		Removed:  len(diff.Removed),
		Modified: len(diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified

	return result, nil
}

// CompareFiles compares two template files.
func CompareFiles(file1, file2 string, opts Options) (*Result, error) {
	t1, err := LoadTemplate(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}

	t2, err := LoadTemplate(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}

	return Compare(t1, t2, opts)
}

// LoadTemplate loads a CloudFormation template from a JSON or YAML file.
func LoadTemplate(path string) (*ecsstack.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var template ecsstack.Template

	// Try JSON first
	if err := json.Unmarshal(data, &template); err != nil {
		template = ecsstack.Template{}
		if err := yaml.Unmarshal(data, &template); err != nil {
			return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", err)
		}
	}

	return &template, nil
}

func compareResources(def1, def2 ecsstack.ResourceDef, opts Options) ([]string, error) {
	var changes []string

	if def1.Type != def2.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s → %s", def1.Type, def2.Type))
	}
	if def1.Condition != def2.Condition {
		changes = append(changes, fmt.Sprintf("Condition changed: %q → %q", def1.Condition, def2.Condition))
	}
	if def1.DeletionPolicy != def2.DeletionPolicy {
		changes = append(changes, fmt.Sprintf("DeletionPolicy changed: %q → %q", def1.DeletionPolicy, def2.DeletionPolicy))
	}
	if !slices.Equal(def1.DependsOn, def2.DependsOn) {
		changes = append(changes, "DependsOn changed")
	}

	metadata, err := equal(def1.Metadata, def2.Metadata, opts)
	if err != nil {
		return nil, err
	}
	if !metadata {
		changes = append(changes, "Metadata modified")
	}

	props, err := compareProperties("", def1.Properties, def2.Properties, opts)
	if err != nil {
		return nil, err
	}
	return append(changes, props...), nil
}

// compareProperties compares property maps, descending into nested objects
// so changes are reported by dotted path.
func compareProperties(prefix string, props1, props2 map[string]any, opts Options) ([]string, error) {
	var changes []string

	path := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}

	for key, val2 := range props2 {
		val1, exists := props1[key]
		if !exists {
			changes = append(changes, path(key)+" added")
			continue
		}

		m1, ok1 := val1.(map[string]any)
		m2, ok2 := val2.(map[string]any)
		if ok1 && ok2 && !isIntrinsic(m1) && !isIntrinsic(m2) {
			nested, err := compareProperties(path(key), m1, m2, opts)
			if err != nil {
				return nil, err
			}
			changes = append(changes, nested...)
			continue
		}

		same, err := equal(val1, val2, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path(key), err)
		}
		if !same {
			changes = append(changes, path(key)+" modified")
		}
	}

	for key := range props1 {
		if _, exists := props2[key]; !exists {
			changes = append(changes, path(key)+" removed")
		}
	}

	sort.Strings(changes)
	return changes, nil
}

func compareSection(diff *ecsstack.TemplateDiff, kind string, s1, s2 map[string]any, opts Options) error {
	for name := range s2 {
		if _, exists := s1[name]; !exists {
			diff.Added = append(diff.Added, ecsstack.DiffEntry{Resource: name, Type: kind})
		}
	}
	for name, v1 := range s1 {
		v2, exists := s2[name]
		if !exists {
			diff.Removed = append(diff.Removed, ecsstack.DiffEntry{Resource: name, Type: kind})
			continue
		}
		same, err := equal(v1, v2, opts)
		if err != nil {
			return fmt.Errorf("%s %s: %w", strings.ToLower(kind), name, err)
		}
		if !same {
			diff.Modified = append(diff.Modified, ecsstack.DiffEntry{
				Resource: name,
				Type:     kind,
				Changes:  []string{"definition modified"},
			})
		}
	}
	return nil
}

// isIntrinsic reports whether m is a single-key intrinsic such as
// {"Ref": ...} or {"Fn::GetAtt": ...}, which is compared as a whole.
func isIntrinsic(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for k := range m {
		return k == "Ref" || k == "Condition" || strings.HasPrefix(k, "Fn::")
	}
	return false
}

// equal compares two values by their canonical JSON encoding.
func equal(a, b any, opts Options) (bool, error) {
	ca, err := canonical(a, opts)
	if err != nil {
		return false, err
	}
	cb, err := canonical(b, opts)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}

func canonical(v any, opts Options) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if !opts.IgnoreOrder {
		return data, nil
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	sorted, err := sortArrays(generic)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sorted)
}

// sortArrays orders every array by the JSON encoding of its elements.
func sortArrays(v any) (any, error) {
	switch val := v.(type) {
	case []any:
		keyed := make([]struct {
			key  string
			elem any
		}, len(val))
		for i, elem := range val {
			s, err := sortArrays(elem)
			if err != nil {
				return nil, err
			}
			data, err := json.Marshal(s)
			if err != nil {
				return nil, err
			}
			keyed[i].key = string(data)
			keyed[i].elem = s
		}
		sort.SliceStable(keyed, func(i, j int) bool { return keyed[i].key < keyed[j].key })
		result := make([]any, len(keyed))
		for i := range keyed {
			result[i] = keyed[i].elem
		}
		return result, nil
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, elem := range val {
			s, err := sortArrays(elem)
			if err != nil {
				return nil, err
			}
			result[k] = s
		}
		return result, nil
	default:
		return v, nil
	}
}

func toAnyMap[V any](m map[string]V) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// sortEntries sorts diff entries by resource name.
func sortEntries(entries []ecsstack.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Resource != entries[j].Resource {
			return entries[i].Resource < entries[j].Resource
		}
		return entries[i].Type < entries[j].Type
	})
}
