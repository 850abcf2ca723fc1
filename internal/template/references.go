package template

import (
	"regexp"
	"strings"

	ecsstack "github.com/lex00/ecs-stack-go"
)

var subVariablePattern = regexp.MustCompile(`\$\{([^}]*)\}`)

// references are the logical names a serialized template element points at.
type references struct {
	refs       []string
	getAtts    []ecsstack.AttrRefUsage
	conditions []string
	mappings   []string
}

// collect walks a serialized value. In a condition expression a
// {"Condition": "Name"} object references another condition.
func (r *references) collect(v any, inCondition bool) {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 1 {
			for key, arg := range val {
				if r.intrinsic(key, arg, inCondition) {
					return
				}
			}
		}
		for _, child := range val {
			r.collect(child, inCondition)
		}
	case []any:
		for _, child := range val {
			r.collect(child, inCondition)
		}
	}
}

// intrinsic records the target of a single-key intrinsic object. It reports
// whether the object was fully handled.
func (r *references) intrinsic(key string, arg any, inCondition bool) bool {
	switch key {
	case "Ref":
		if name, ok := arg.(string); ok {
			r.refs = append(r.refs, name)
			return true
		}
	case "Fn::GetAtt":
		switch a := arg.(type) {
		case []any:
			if len(a) == 2 {
				name, _ := a[0].(string)
				attr, _ := a[1].(string)
				r.getAtts = append(r.getAtts, ecsstack.AttrRefUsage{ResourceName: name, Attribute: attr})
				r.collect(a[1], inCondition)
				return true
			}
		case string:
			name, attr, _ := strings.Cut(a, ".")
			r.getAtts = append(r.getAtts, ecsstack.AttrRefUsage{ResourceName: name, Attribute: attr})
			return true
		}
	case "Fn::Sub":
		switch a := arg.(type) {
		case string:
			r.sub(a, nil)
			return true
		case []any:
			if len(a) == 2 {
				body, _ := a[0].(string)
				vars, _ := a[1].(map[string]any)
				r.sub(body, vars)
				r.collect(a[1], inCondition)
				return true
			}
		}
	case "Fn::If":
		if a, ok := arg.([]any); ok && len(a) == 3 {
			if name, ok := a[0].(string); ok {
				r.conditions = append(r.conditions, name)
			}
			r.collect(a[1], inCondition)
			r.collect(a[2], inCondition)
			return true
		}
	case "Fn::FindInMap":
		if a, ok := arg.([]any); ok && len(a) >= 3 {
			if name, ok := a[0].(string); ok {
				r.mappings = append(r.mappings, name)
			} else {
				r.collect(a[0], inCondition)
			}
			for _, k := range a[1:] {
				r.collect(k, inCondition)
			}
			return true
		}
	case "Condition":
		if name, ok := arg.(string); ok && inCondition {
			r.conditions = append(r.conditions, name)
			return true
		}
	}
	return false
}

// sub records the variables of an Fn::Sub body. Escaped ${!Literal}
// placeholders and names bound in vars are skipped.
func (r *references) sub(body string, vars map[string]any) {
	for _, m := range subVariablePattern.FindAllStringSubmatch(body, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || strings.HasPrefix(name, "!") {
			continue
		}
		if _, bound := vars[name]; bound {
			continue
		}
		if strings.Contains(name, "::") {
			r.refs = append(r.refs, name)
			continue
		}
		if res, attr, ok := strings.Cut(name, "."); ok {
			r.getAtts = append(r.getAtts, ecsstack.AttrRefUsage{ResourceName: res, Attribute: attr})
			continue
		}
		r.refs = append(r.refs, name)
	}
}
