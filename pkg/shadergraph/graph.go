package shadergraph

import (
	"errors"
	"fmt"

	pmath "github.com/Faultbox/autopalette/pkg/math"
)

// Graph errors.
var (
	ErrUnknownSocket = errors.New("unknown socket")
	ErrForeignNode   = errors.New("node does not belong to this tree")
)

// Node is one shader node.
type Node struct {
	Name     string
	Kind     NodeKind
	Location pmath.Vec2
	Inputs   []*Socket
	Outputs  []*Socket

	// Image texture settings. Image is the image registry name.
	Image         string
	Interpolation Interpolation
}

// Input returns the named input socket, or nil.
func (n *Node) Input(name string) *Socket {
	for _, s := range n.Inputs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Output returns the named output socket, or nil.
func (n *Node) Output(name string) *Socket {
	for _, s := range n.Outputs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Link connects an output socket to an input socket.
type Link struct {
	From       *Node
	FromSocket string
	To         *Node
	ToSocket   string
}

// String returns "From.Socket -> To.Socket".
func (l *Link) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", l.From.Name, l.FromSocket, l.To.Name, l.ToSocket)
}

// Tree is a material node tree. Node names are unique within a tree.
type Tree struct {
	nodes []*Node
	links []*Link
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{}
}

// NewMaterialTree creates the default tree of a new material: a principled
// BSDF feeding the material output surface.
func NewMaterialTree() *Tree {
	t := New()
	bsdf := t.Add(KindPrincipledBSDF)
	bsdf.Location = pmath.Vec2{X: 10, Y: 300}
	out := t.Add(KindMaterialOutput)
	out.Location = pmath.Vec2{X: 300, Y: 300}
	// Both sockets exist on freshly created nodes.
	_, _ = t.Link(bsdf, OutBSDF, out, InSurface)
	return t
}

// Add creates a node of the given kind. The node is named after its kind,
// with a ".001" style suffix when the name is taken.
func (t *Tree) Add(kind NodeKind) *Node {
	in, out := sockets(kind)
	n := &Node{
		Name:    t.uniqueName(kind.String()),
		Kind:    kind,
		Inputs:  in,
		Outputs: out,
	}
	if kind == KindTexImage {
		n.Interpolation = InterpLinear
	}
	t.nodes = append(t.nodes, n)
	return n
}

func (t *Tree) uniqueName(base string) string {
	if _, taken := t.Node(base); !taken {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if _, taken := t.Node(name); !taken {
			return name
		}
	}
}

// Node looks up a node by name.
func (t *Tree) Node(name string) (*Node, bool) {
	for _, n := range t.nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Nodes returns all nodes in creation order.
func (t *Tree) Nodes() []*Node {
	return t.nodes
}

// NodesOfKind returns the nodes of one kind in creation order.
func (t *Tree) NodesOfKind(kind NodeKind) []*Node {
	var out []*Node
	for _, n := range t.nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Links returns all links.
func (t *Tree) Links() []*Link {
	return t.links
}

// Link connects from.output to to.input. An input accepts one link, so any
// existing link into it is replaced.
func (t *Tree) Link(from *Node, output string, to *Node, input string) (*Link, error) {
	if !t.owns(from) || !t.owns(to) {
		return nil, ErrForeignNode
	}
	if from.Output(output) == nil {
		return nil, fmt.Errorf("%w: %s has no output %q", ErrUnknownSocket, from.Name, output)
	}
	if to.Input(input) == nil {
		return nil, fmt.Errorf("%w: %s has no input %q", ErrUnknownSocket, to.Name, input)
	}

	t.unlinkInput(to, input)
	l := &Link{From: from, FromSocket: output, To: to, ToSocket: input}
	t.links = append(t.links, l)
	return l, nil
}

// LinkTo returns the link feeding the given input, or nil.
func (t *Tree) LinkTo(to *Node, input string) *Link {
	for _, l := range t.links {
		if l.To == to && l.ToSocket == input {
			return l
		}
	}
	return nil
}

// Remove deletes a node and every link touching it.
func (t *Tree) Remove(n *Node) {
	kept := t.links[:0]
	for _, l := range t.links {
		if l.From != n && l.To != n {
			kept = append(kept, l)
		}
	}
	t.links = kept

	for i, m := range t.nodes {
		if m == n {
			t.nodes = append(t.nodes[:i], t.nodes[i+1:]...)
			return
		}
	}
}

func (t *Tree) unlinkInput(to *Node, input string) {
	for i, l := range t.links {
		if l.To == to && l.ToSocket == input {
			t.links = append(t.links[:i], t.links[i+1:]...)
			return
		}
	}
}

func (t *Tree) owns(n *Node) bool {
	for _, m := range t.nodes {
		if m == n {
			return true
		}
	}
	return false
}
