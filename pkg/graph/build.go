package graph

import "github.com/matzehuels/depsize/pkg/inventory"

// Build constructs the dependency graph of an inventory. Packages without
// a measured size are excluded, and so is every edge that would touch
// them. Repeated dependency names produce a single edge.
func Build(inv *inventory.Inventory) *Graph {
	g := New()

	var kept []inventory.Package
	for _, p := range inv.Packages() {
		if !p.Measured() {
			continue
		}
		_ = g.AddNode(Node{ID: p.Name, Size: *p.Size, Version: p.Version})
		kept = append(kept, p)
	}

	for _, p := range kept {
		for _, dep := range p.Dependencies {
			if _, ok := g.Node(dep); !ok {
				continue
			}
			_ = g.AddEdge(Edge{From: p.Name, To: dep})
		}
	}

	return g
}
