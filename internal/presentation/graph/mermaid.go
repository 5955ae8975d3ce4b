package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/cortex/pkg/domain"
)

// ActiveThreshold is the activation level above which a node is styled as firing.
const ActiveThreshold = 0.5

// GenerateMermaid produces a Mermaid flowchart of a brain snapshot.
// It applies semantic layout:
// - one subgraph per region, in catalog order
// - node labels carry the concept strength
// - links are labelled with their relation type
// - endpoints that are not (yet) concepts become dashed ghost nodes
// Nodes above ActiveThreshold get the "active" class.
func GenerateMermaid(snap domain.Snapshot, regions []domain.Region) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	byRegion := make(map[domain.RegionID][]domain.Node)
	for _, n := range snap.Nodes {
		byRegion[n.Category] = append(byRegion[n.Category], n)
	}

	seen := make(map[domain.RegionID]bool)
	for _, r := range regions {
		seen[r.ID] = true
		writeSubgraph(&sb, string(r.ID), r.Label, byRegion[r.ID])
	}
	// Regions missing from the catalog still render, after the known ones.
	for _, n := range snap.Nodes {
		if seen[n.Category] {
			continue
		}
		seen[n.Category] = true
		writeSubgraph(&sb, string(n.Category), string(n.Category), byRegion[n.Category])
	}

	ghosts := make(map[string]bool)
	var ghostIDs []string
	for _, l := range snap.Links {
		for _, end := range []string{l.Source, l.Target} {
			if _, ok := snap.Node(end); ok {
				continue
			}
			id := sanitizeMermaidID(end)
			if ghosts[id] {
				continue
			}
			ghosts[id] = true
			ghostIDs = append(ghostIDs, id)
			sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", id, escape(end)))
		}
	}

	for _, l := range snap.Links {
		arrow := "-->"
		if !snap.Renderable(l) {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s|\"%s\"| %s\n",
			sanitizeMermaidID(l.Source), arrow, escape(l.Type), sanitizeMermaidID(l.Target)))
	}

	sb.WriteString("\n    %% Styles\n")
	// Force black text (color:#000) for high-contrast on light region colors.
	sb.WriteString("    classDef active stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	sb.WriteString("    classDef ghost stroke-dasharray:4 4,fill:none,color:#888;\n")

	for _, n := range snap.Nodes {
		id := sanitizeMermaidID(n.ID)
		if n.Color != "" {
			sb.WriteString(fmt.Sprintf("    style %s fill:%s,color:#000\n", id, n.Color))
		}
		if n.ActivationLevel > ActiveThreshold {
			sb.WriteString(fmt.Sprintf("    class %s active;\n", id))
		}
	}
	for _, id := range ghostIDs {
		sb.WriteString(fmt.Sprintf("    class %s ghost;\n", id))
	}

	return sb.String()
}

func writeSubgraph(sb *strings.Builder, id, label string, nodes []domain.Node) {
	if len(nodes) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("    subgraph region_%s[\"%s\"]\n", sanitizeMermaidID(id), escape(label)))
	for _, n := range nodes {
		sb.WriteString(fmt.Sprintf("        %s[\"%s <br/> %.1f\"]\n", sanitizeMermaidID(n.ID), escape(n.Label), n.Strength))
	}
	sb.WriteString("    end\n")
}

// sanitizeMermaidID folds ids onto Mermaid-safe identifiers.
// Concept ids are case-insensitive, so the result is lowercased.
func sanitizeMermaidID(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, s)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
