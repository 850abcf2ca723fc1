// Package graph renders the resource dependency graph of a stack as DOT or
// Mermaid.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	ecsstack "github.com/lex00/ecs-stack-go"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from registered resources.
type Generator struct {
	// IncludeParameters adds parameter nodes and the edges to them.
	IncludeParameters bool

	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByType groups resources by AWS service.
	ClusterByType bool
}

// Generate creates a dependency graph and writes it to w. Edges point from
// a resource to what it depends on; GetAtt edges are blue and conditional
// resources are dashed.
func (g *Generator) Generate(resources []ecsstack.RegisteredResource, parameters []string, w io.Writer) error {
	graph := g.buildGraph(resources, parameters)

	var output string
	if g.Format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString returns the graph as a string.
func (g *Generator) GenerateString(resources []ecsstack.RegisteredResource, parameters []string) (string, error) {
	var sb strings.Builder
	if err := g.Generate(resources, parameters, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(resources []ecsstack.RegisteredResource, parameters []string) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	// Edges use the nodes as placed, which may be inside a cluster.
	nodes := make(map[string]dot.Node, len(resources))
	if g.ClusterByType {
		g.addClusteredNodes(graph, resources, nodes)
	} else {
		for _, res := range resources {
			nodes[res.Name] = addNode(graph, res)
		}
	}

	params := make(map[string]dot.Node, len(parameters))
	if g.IncludeParameters {
		for _, name := range parameters {
			n := graph.Node(name)
			n.Attr("shape", "ellipse")
			n.Attr("style", "dashed")
			n.Label(name)
			params[name] = n
		}
	}

	for _, res := range resources {
		getAtts := make(map[string]bool)
		for _, usage := range res.AttrRefUsages {
			getAtts[usage.ResourceName] = true
		}

		from := nodes[res.Name]
		for _, dep := range res.Dependencies {
			to, ok := nodes[dep]
			if !ok {
				continue
			}
			e := graph.Edge(from, to)
			if getAtts[dep] {
				e.Attr("color", "blue")
			}
		}

		if g.IncludeParameters {
			for _, p := range res.ParameterRefs {
				if to, ok := params[p]; ok {
					graph.Edge(from, to).Attr("style", "dashed")
				}
			}
		}
	}

	return graph
}

// addClusteredNodes groups resources by AWS service. Services with a single
// resource are left ungrouped.
func (g *Generator) addClusteredNodes(graph *dot.Graph, resources []ecsstack.RegisteredResource, nodes map[string]dot.Node) {
	byService := make(map[string][]ecsstack.RegisteredResource)
	for _, res := range resources {
		service := serviceOf(res.Type)
		byService[service] = append(byService[service], res)
	}

	services := make([]string, 0, len(byService))
	for s := range byService {
		services = append(services, s)
	}
	sort.Strings(services)

	for _, service := range services {
		members := byService[service]
		if len(members) == 1 {
			nodes[members[0].Name] = addNode(graph, members[0])
			continue
		}

		cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
		cluster.Attr("label", service)
		cluster.Attr("style", "rounded")
		cluster.Attr("bgcolor", "lightyellow")
		for _, res := range members {
			nodes[res.Name] = addNode(cluster, res)
		}
	}
}

func addNode(graph *dot.Graph, res ecsstack.RegisteredResource) dot.Node {
	n := graph.Node(res.Name)
	n.Label(res.Name + "\\n[" + res.Type + "]")
	if res.Condition != "" {
		n.Attr("style", "dashed")
	}
	return n
}

// serviceOf returns the service of a CloudFormation type:
// "AWS::ECS::Service" -> "ECS".
func serviceOf(cfType string) string {
	parts := strings.Split(cfType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	return "Other"
}
