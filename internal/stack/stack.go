// Package stack is the registry of the stacks the CLI can build.
package stack

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/stack/platform"
	"github.com/lex00/ecs-stack-go/internal/stack/webtask"
	"github.com/lex00/ecs-stack-go/internal/template"
)

// Default is built when no stack name is given.
const Default = "platform"

// BuildFunc declares a stack from configuration.
type BuildFunc func(config.Config) *template.Builder

type registered struct {
	build       BuildFunc
	description string
}

var registry = map[string]registered{
	"task": {
		build:       webtask.Build,
		description: "standalone ECS task definition example (WebTask)",
	},
	"platform": {
		build:       platform.Build,
		description: "network, cluster, load balancer, autoscaling and application service",
	},
}

// Names returns the registered stack names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the build function for a stack. An empty name selects Default.
func Lookup(name string) (BuildFunc, error) {
	if name == "" {
		name = Default
	}
	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown stack %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return r.build, nil
}

// Describe returns a one-line description of a stack.
func Describe(name string) string {
	return registry[name].description
}
