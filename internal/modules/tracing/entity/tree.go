package entity

import "sort"

// SpanNode is a Span plus its resolved children, used to render the nested
// span tree returned by GET /api/traces/{trace_id}.
type SpanNode struct {
	Span
	Children []*SpanNode `json:"children"`
}

// BuildSpanTree arranges a flat span list into a forest ordered by
// start_time. A span whose ParentSpanID does not resolve to another span in
// the same set (missing, or a self/ancestor cycle) becomes a root rather
// than being dropped, so malformed input still surfaces every span exactly
// once.
func BuildSpanTree(spans []Span) []*SpanNode {
	nodes := make(map[string]*SpanNode, len(spans))
	for i := range spans {
		nodes[spans[i].SpanID] = &SpanNode{Span: spans[i]}
	}

	var roots []*SpanNode
	for _, node := range nodes {
		parentID := node.ParentSpanID
		if parentID == nil || *parentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*parentID]
		if !ok || wouldCycle(nodes, node, parent) {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortTree(roots)
	return roots
}

// wouldCycle reports whether attaching child under parent would create a
// cycle, i.e. parent is (transitively) child itself.
func wouldCycle(nodes map[string]*SpanNode, child, parent *SpanNode) bool {
	seen := map[string]bool{}
	cur := parent
	for cur != nil {
		if cur.SpanID == child.SpanID {
			return true
		}
		if seen[cur.SpanID] {
			return true
		}
		seen[cur.SpanID] = true
		if cur.ParentSpanID == nil {
			break
		}
		next, ok := nodes[*cur.ParentSpanID]
		if !ok {
			break
		}
		cur = next
	}
	return false
}

func sortTree(nodes []*SpanNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].StartTime < nodes[j].StartTime
	})
	for _, n := range nodes {
		sortTree(n.Children)
	}
}
