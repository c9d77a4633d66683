package structure

type NodeKind int

const (
	NodeSection NodeKind = iota
	NodePage
	NodeLink
)

// Node is a section, page or external link of the navigation.
type Node struct {
	Kind NodeKind
	// Title is empty for pages titled by their own content.
	Title string
	// SourceTitle is the configured title before translation.
	SourceTitle string
	File        *File
	URL         string
	Children    []*Node
	// Page is bound once the page of File has been populated.
	Page *Page
}

// DisplayTitle resolves the title shown for the node.
func (n *Node) DisplayTitle() string {
	switch {
	case n.Title != "":
		return n.Title
	case n.Page != nil && n.Page.Title != "":
		return n.Page.Title
	case n.File != nil:
		return TitleFromPath(n.File.CanonicalPath)
	}
	return n.URL
}

func (n *Node) clone() *Node {
	out := *n
	out.Page = nil
	out.Children = make([]*Node, len(n.Children))
	for i, c := range n.Children {
		out.Children[i] = c.clone()
	}
	return &out
}

type Navigation struct {
	Items []*Node
}

// Clone returns an unbound deep copy of the tree.
func (n *Navigation) Clone() *Navigation {
	out := &Navigation{Items: make([]*Node, len(n.Items))}
	for i, item := range n.Items {
		out.Items[i] = item.clone()
	}
	return out
}

// Walk visits every node depth first, in display order.
func (n *Navigation) Walk(fn func(*Node)) {
	var walk func([]*Node)
	walk = func(nodes []*Node) {
		for _, node := range nodes {
			fn(node)
			walk(node.Children)
		}
	}
	walk(n.Items)
}

// PageNodes returns the page nodes in display order.
func (n *Navigation) PageNodes() []*Node {
	var out []*Node
	n.Walk(func(node *Node) {
		if node.Kind == NodePage {
			out = append(out, node)
		}
	})
	return out
}

// Bind attaches populated pages to the nodes referencing their files.
func (n *Navigation) Bind(pages map[*File]*Page) {
	n.Walk(func(node *Node) {
		if node.File != nil {
			node.Page = pages[node.File]
		}
	})
}
