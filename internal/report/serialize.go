package report

import (
	"github.com/shopspring/decimal"

	"github.com/fintab-dev/fintab/internal/forest"
	"github.com/fintab-dev/fintab/internal/model"
)

// TreeNode is the recursive wire shape of a statement tree.
type TreeNode struct {
	ID       int64             `json:"id"`
	Code     string            `json:"code"`
	Name     string            `json:"name"`
	Type     model.AccountType `json:"type"`
	Amount   decimal.Decimal   `json:"amount"`
	Children []TreeNode        `json:"children"`
}

// Serialize converts a built report forest into wire nodes. Children
// is always a list, never null, so renderers can recurse blindly.
func Serialize(roots []*forest.Node) []TreeNode {
	out := make([]TreeNode, 0, len(roots))
	for _, r := range roots {
		out = append(out, serializeNode(r))
	}
	return out
}

func serializeNode(n *forest.Node) TreeNode {
	children := make([]TreeNode, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, serializeNode(c))
	}
	return TreeNode{
		ID:       n.Account.ID,
		Code:     n.Account.Code,
		Name:     n.Account.Name,
		Type:     n.Account.Type,
		Amount:   n.SubtreeAmount,
		Children: children,
	}
}
