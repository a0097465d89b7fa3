package thimble

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	reflectx "github.com/danpasecinic/thimble/internal/reflect"
)

type GraphInfo struct {
	Components []ComponentInfo
}

type ComponentInfo struct {
	Key          string
	Component    Component
	Kind         string
	Scope        string
	Static       bool
	Instantiated bool
	Dependencies []string
	Lazy         []string
	Dependents   []string
}

func (c *Container) Graph() GraphInfo {
	components := c.Components()
	sort.Slice(
		components, func(i, j int) bool {
			return components[i].String() < components[j].String()
		},
	)

	infos := make([]ComponentInfo, 0, len(components))
	for _, component := range components {
		entry, _ := c.bindings.GetEntry(component)
		b := entry.Value

		info := ComponentInfo{
			Key:          component.String(),
			Component:    component,
			Kind:         b.kind.String(),
			Scope:        "default",
			Static:       entry.Static,
			Instantiated: isInstantiated(b.provider),
		}
		if b.scope != nil {
			info.Scope = markerString(b.scope)
		}

		for _, dep := range b.provider.Dependencies() {
			if dep.IsContainer() {
				info.Lazy = append(info.Lazy, dep.Component.String())
			} else {
				info.Dependencies = append(info.Dependencies, dep.Component.String())
			}
		}
		for _, dependent := range c.graph.GetDependents(component) {
			info.Dependents = append(info.Dependents, dependent.String())
		}

		infos = append(infos, info)
	}

	return GraphInfo{Components: infos}
}

func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

func (c *Container) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Components) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, comp := range info.Components {
		status := "○"
		if comp.Instantiated {
			status = "●"
		}

		deps := comp.Dependencies
		for _, lazy := range comp.Lazy {
			deps = append(deps, "~"+lazy)
		}

		line := fmt.Sprintf("%s %s [%s]", status, comp.Key, comp.Scope)
		if comp.Static {
			line += " static"
		}
		if len(deps) > 0 {
			line += " ← " + strings.Join(deps, ", ")
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

func (c *Container) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, comp := range info.Components {
		label := escapeLabel(comp)
		style := ""
		if comp.Instantiated {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", comp.Key, label, style)
	}

	_, _ = fmt.Fprintln(w)

	for _, comp := range info.Components {
		for _, dep := range comp.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", comp.Key, dep)
		}
		for _, dep := range comp.Lazy {
			_, _ = fmt.Fprintf(w, "  %q -> %q [style=dashed];\n", comp.Key, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

func escapeLabel(info ComponentInfo) string {
	label := strings.ReplaceAll(reflectx.ShortName(info.Component.Type), "*", "")
	if info.Component.Qualifier != nil {
		label += "@" + markerString(info.Component.Qualifier)
	}
	return label
}
