// Package catalogtree turns a flat, parent-pointer category list into the ordered forest a
// storefront renders, with per-node product counts.
package catalogtree

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storehub-backend/internal/domain"
)

// Item is a category after catalog overrides have been applied.
type Item struct {
	ID        string
	Name      string
	Slug      string
	ParentID  *string
	SortOrder *int
}

type Node struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	ParentID  *string `json:"parentId"`
	SortOrder *int    `json:"sortOrder"`
	// ProductCount counts products assigned directly to this category.
	ProductCount int `json:"productCount"`
	// TotalCount counts distinct products in this category and all descendants.
	TotalCount int     `json:"totalCount"`
	Children   []*Node `json:"children"`
}

type Forest []*Node

// Merge applies catalog scoped settings over the store categories. A setting's parent,
// name and sort order win over the category's own values.
func Merge(categories []domain.Category, settings []domain.CatalogCategorySetting) []Item {
	byCategory := make(map[string]domain.CatalogCategorySetting, len(settings))
	for _, s := range settings {
		byCategory[s.CategoryID] = s
	}

	items := make([]Item, 0, len(categories))
	for _, c := range categories {
		item := Item{
			ID:        c.ID,
			Name:      c.Name,
			Slug:      c.Slug,
			ParentID:  c.ParentID,
			SortOrder: c.SortOrder,
		}
		if s, ok := byCategory[c.ID]; ok {
			if s.ParentID != nil {
				item.ParentID = s.ParentID
			}
			if s.CustomName != nil && *s.CustomName != "" {
				item.Name = *s.CustomName
			}
			if s.SortOrder != nil {
				item.SortOrder = s.SortOrder
			}
		}
		items = append(items, item)
	}
	return items
}

// Build assembles the forest. Siblings are ordered by sort order (unset last), then name.
// Items whose parent is missing from the input are dropped, and so are items on a parent
// cycle together with everything below them, since no root reaches them.
func Build(items []Item) Forest {
	nodes := make([]*Node, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == "" {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		nodes = append(nodes, &Node{
			ID:        it.ID,
			Name:      it.Name,
			Slug:      it.Slug,
			ParentID:  it.ParentID,
			SortOrder: it.SortOrder,
		})
	}
	sortNodes(nodes)

	// 1. Partition into roots and a parent -> children accumulator
	var roots Forest
	children := make(map[string][]*Node)
	for _, n := range nodes {
		if n.ParentID == nil || *n.ParentID == "" {
			roots = append(roots, n)
			continue
		}
		children[*n.ParentID] = append(children[*n.ParentID], n)
	}

	// 2. Attach children top-down; visited guards against malformed input
	visited := make(map[string]struct{}, len(nodes))
	var attach func(n *Node)
	attach = func(n *Node) {
		visited[n.ID] = struct{}{}
		for _, child := range children[n.ID] {
			if _, ok := visited[child.ID]; ok {
				continue
			}
			n.Children = append(n.Children, child)
			attach(child)
		}
	}
	for _, root := range roots {
		attach(root)
	}
	return roots
}

func sortNodes(nodes []*Node) {
	col := collate.New(language.Und)
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		switch {
		case a.SortOrder != nil && b.SortOrder == nil:
			return true
		case a.SortOrder == nil && b.SortOrder != nil:
			return false
		case a.SortOrder != nil && *a.SortOrder != *b.SortOrder:
			return *a.SortOrder < *b.SortOrder
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

// DirectCounts counts, per category id, the products whose effective category set contains it.
// A product is counted once per category even when both its legacy column and an assignment name it.
func DirectCounts(products []domain.Product) map[string]int {
	counts := make(map[string]int)
	for i := range products {
		for _, id := range products[i].EffectiveCategoryIDs() {
			counts[id]++
		}
	}
	return counts
}

// ApplyCounts fills ProductCount and TotalCount on every node of the forest.
func ApplyCounts(forest Forest, products []domain.Product) {
	direct := DirectCounts(products)
	members := make(map[string][]string)
	for i := range products {
		for _, id := range products[i].EffectiveCategoryIDs() {
			members[id] = append(members[id], products[i].ID)
		}
	}

	var walk func(n *Node) map[string]struct{}
	walk = func(n *Node) map[string]struct{} {
		n.ProductCount = direct[n.ID]
		subtree := make(map[string]struct{}, len(members[n.ID]))
		for _, pid := range members[n.ID] {
			subtree[pid] = struct{}{}
		}
		for _, child := range n.Children {
			for pid := range walk(child) {
				subtree[pid] = struct{}{}
			}
		}
		n.TotalCount = len(subtree)
		return subtree
	}
	for _, root := range forest {
		walk(root)
	}
}

// FilterToPopulated returns a copy of the forest keeping only nodes that have products
// themselves or through a descendant. The input is not modified.
func FilterToPopulated(forest Forest) Forest {
	var prune func(n *Node) (*Node, bool)
	prune = func(n *Node) (*Node, bool) {
		var kept []*Node
		for _, child := range n.Children {
			if c, ok := prune(child); ok {
				kept = append(kept, c)
			}
		}
		if n.ProductCount == 0 && len(kept) == 0 {
			return nil, false
		}
		cp := *n
		cp.Children = kept
		return &cp, true
	}

	out := Forest{}
	for _, root := range forest {
		if n, ok := prune(root); ok {
			out = append(out, n)
		}
	}
	return out
}

// Find locates a node by id.
func (f Forest) Find(id string) *Node {
	for _, root := range f {
		if n := find(root, id); n != nil {
			return n
		}
	}
	return nil
}

func find(n *Node, id string) *Node {
	if n.ID == id {
		return n
	}
	for _, child := range n.Children {
		if found := find(child, id); found != nil {
			return found
		}
	}
	return nil
}

// CountDescendants returns the node id together with the ids of all its descendants, so that
// selecting a parent category also matches its children's products. An unknown id yields
// just itself.
func CountDescendants(nodeID string, forest Forest) IDSet {
	ids := IDSet{nodeID: {}}
	node := forest.Find(nodeID)
	if node == nil {
		return ids
	}
	stack := append([]*Node(nil), node.Children...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids[n.ID] = struct{}{}
		stack = append(stack, n.Children...)
	}
	return ids
}

type IDSet map[string]struct{}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
