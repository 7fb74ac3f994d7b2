// Package forest assembles a flat account list into parent/child trees.
package forest

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fintab-dev/fintab/internal/model"
)

// Node is one account in a built forest, with rollup slots.
type Node struct {
	Account       model.Account
	Children      []*Node
	OwnAmount     decimal.Decimal
	SubtreeAmount decimal.Decimal
}

// Build assembles accounts into a forest. Each account appears exactly
// once; children are ordered by code ascending. An account whose
// ParentID is absent from the input becomes a root — callers routinely
// fetch a single account type, so a parent outside the slice is
// expected, not an error. O(n) time and space.
func Build(accounts []model.Account) []*Node {
	index := make(map[int64]*Node, len(accounts))
	nodes := make([]*Node, 0, len(accounts))
	for _, a := range accounts {
		n := &Node{
			Account:       a,
			OwnAmount:     decimal.Zero,
			SubtreeAmount: decimal.Zero,
		}
		index[a.ID] = n
		nodes = append(nodes, n)
	}

	var roots []*Node
	for _, n := range nodes {
		parent, ok := index[n.Account.ParentID]
		if !ok || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	for _, n := range nodes {
		sort.Slice(n.Children, func(i, j int) bool {
			return n.Children[i].Account.Code < n.Children[j].Account.Code
		})
	}
	sort.Slice(roots, func(i, j int) bool {
		return roots[i].Account.Code < roots[j].Account.Code
	})
	return roots
}

// Walk visits every node of the forest post-order: children before
// their parent, roots in slice order.
func Walk(roots []*Node, visit func(*Node)) {
	for _, r := range roots {
		walkNode(r, visit)
	}
}

func walkNode(n *Node, visit func(*Node)) {
	for _, c := range n.Children {
		walkNode(c, visit)
	}
	visit(n)
}

// Index returns an id -> node map over the whole forest.
func Index(roots []*Node) map[int64]*Node {
	idx := make(map[int64]*Node)
	Walk(roots, func(n *Node) {
		idx[n.Account.ID] = n
	})
	return idx
}
