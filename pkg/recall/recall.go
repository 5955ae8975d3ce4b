// Package recall renders the brain as the memory context handed to a language model.
package recall

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/cortex/pkg/domain"
)

// EmptyMemory is the context of a brain that has not learned anything yet.
const EmptyMemory = "Global Memory is empty. You know NOTHING."

// DefaultRelation is used for links extracted without a type.
const DefaultRelation = "is related to"

// Describe renders a plain-text memory context: the known concepts with their
// region, then one line per relationship.
func Describe(s domain.Snapshot) string {
	if len(s.Nodes) == 0 {
		return EmptyMemory
	}

	var sb strings.Builder
	sb.WriteString("Global Memory contains:\n")

	concepts := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		concepts[i] = fmt.Sprintf("%s (is a %s)", n.ID, n.Category)
	}
	sb.WriteString("Concepts: " + strings.Join(concepts, ", ") + "\n")

	sb.WriteString("Relationships:\n")
	for _, l := range s.Links {
		sb.WriteString(fmt.Sprintf("- %s %s %s\n", l.Source, relation(l), l.Target))
	}
	return sb.String()
}

// Markdown renders the memory grouped by region, strongest concepts first.
// Dangling relationships are listed separately.
func Markdown(s domain.Snapshot, regions []domain.Region) string {
	if len(s.Nodes) == 0 {
		return "# Memory\n\n_" + EmptyMemory + "_\n"
	}

	byRegion := make(map[domain.RegionID][]domain.Node)
	for _, n := range s.Nodes {
		byRegion[n.Category] = append(byRegion[n.Category], n)
	}

	var sb strings.Builder
	sb.WriteString("# Memory\n\n")

	for _, r := range regions {
		nodes := byRegion[r.ID]
		if len(nodes) == 0 {
			continue
		}
		sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Strength > nodes[j].Strength })

		sb.WriteString(fmt.Sprintf("## %s (%s)\n\n", r.Label, r.ID))
		for _, n := range nodes {
			sb.WriteString(fmt.Sprintf("- **%s** _%s_ strength %.1f, activation %.0f%%\n",
				n.ID, n.Group, n.Strength, n.ActivationLevel*100))
		}
		sb.WriteString("\n")
	}

	if len(s.Links) > 0 {
		sb.WriteString("## Relationships\n\n")
		var dangling []domain.Link
		for _, l := range s.Links {
			if !s.Renderable(l) {
				dangling = append(dangling, l)
				continue
			}
			sb.WriteString(fmt.Sprintf("- %s _%s_ %s (%.1f)\n", l.Source, relation(l), l.Target, l.Strength))
		}
		if len(dangling) > 0 {
			sb.WriteString("\n### Not yet understood\n\n")
			for _, l := range dangling {
				sb.WriteString(fmt.Sprintf("- %s _%s_ %s\n", l.Source, relation(l), l.Target))
			}
		}
	}

	return sb.String()
}

func relation(l domain.Link) string {
	if strings.TrimSpace(l.Type) == "" {
		return DefaultRelation
	}
	return l.Type
}
