package hyper

// Affordances is a composite tree node: an ordered collection whose elements
// are each either an *Affordance or a nested *Affordances, plus an optional
// identifier and metadata of its own.
//
// Identifiers of nodes are expected to be unique across the whole tree; the
// lookup operations assume this and return the first depth-first match
// without enforcing uniqueness structurally.
//
// AddAffordance rejects duplicates by reference identity, not structural
// equality, and normal use cannot make a node its own ancestor. The
// traversals nevertheless carry a visited-set guard so that a tree wired
// into a cycle behind the API's back terminates instead of recursing
// forever.
type Affordances struct {
	id       string
	metadata map[string]any
	children []Node
}

// NewAffordances constructs an empty composite. The id is optional; pass ""
// for an anonymous grouping node.
func NewAffordances(id string) *Affordances {
	return &Affordances{id: id}
}

// ID returns the composite's identifier, "" when anonymous.
func (s *Affordances) ID() string { return s.id }

// NodeID implements Node.
func (s *Affordances) NodeID() string { return s.id }

// Metadata returns the composite's own metadata map, shared with the node;
// treat it as read-only and replace it through SetMetadata.
func (s *Affordances) Metadata() map[string]any { return s.metadata }

// SetMetadata replaces the composite's metadata map. A nil or empty map is
// ignored.
func (s *Affordances) SetMetadata(metadata map[string]any) *Affordances {
	if len(metadata) == 0 {
		return s
	}
	s.metadata = metadata
	return s
}

// AddAffordance appends a node to the collection. Anything but a concrete
// *Affordance or *Affordances is ignored, as are the receiver itself and a
// pointer already present at this level (identity check, not structural
// equality).
func (s *Affordances) AddAffordance(node any) *Affordances {
	n, ok := asNode(node)
	if !ok || n == s {
		return s
	}
	for _, existing := range s.children {
		if existing == n {
			return s
		}
	}
	s.children = append(s.children, n)
	return s
}

// asNode narrows an arbitrary value to a non-nil tree node.
func asNode(v any) (Node, bool) {
	switch n := v.(type) {
	case *Affordance:
		if n != nil {
			return n, true
		}
	case *Affordances:
		if n != nil {
			return n, true
		}
	}
	return nil, false
}

// Count returns the number of direct children. Nested collections count as
// one regardless of their own size.
func (s *Affordances) Count() int { return len(s.children) }

// HasAffordanceWithID reports whether some node in the tree, at any depth,
// carries the given identifier. The search is depth-first, left-to-right,
// and short-circuits on the first match. An empty id is never found.
func (s *Affordances) HasAffordanceWithID(id string) bool {
	if id == "" {
		return false
	}
	return s.hasID(id, map[*Affordances]struct{}{s: {}})
}

func (s *Affordances) hasID(id string, seen map[*Affordances]struct{}) bool {
	for _, child := range s.children {
		if child.NodeID() == id {
			return true
		}
		if nested, ok := child.(*Affordances); ok {
			if _, visited := seen[nested]; visited {
				continue
			}
			seen[nested] = struct{}{}
			if nested.hasID(id, seen) {
				return true
			}
		}
	}
	return false
}

// CopyAffordanceByID searches the tree depth-first for a node with the given
// identifier and returns a deep copy of it, with metadata cascaded from
// every ancestor on the path: the match's own fields win, then each
// ancestor's in nearness order, the root contributing last. The canonical
// tree is never mutated — the cascade happens on the returned copy alone.
// Returns nil when no node matches.
func (s *Affordances) CopyAffordanceByID(id string) Node {
	if id == "" {
		return nil
	}
	return s.copyByID(id, map[*Affordances]struct{}{s: {}})
}

func (s *Affordances) copyByID(id string, seen map[*Affordances]struct{}) Node {
	for _, child := range s.children {
		if child.NodeID() == id {
			found := child.CopyNode()
			found.cascadeMetadata(s.metadata)
			return found
		}
		nested, ok := child.(*Affordances)
		if !ok {
			continue
		}
		if _, visited := seen[nested]; visited {
			continue
		}
		seen[nested] = struct{}{}
		if found := nested.copyByID(id, seen); found != nil {
			// The match bubbles back up through every ancestor frame; each
			// one folds its own metadata underneath what the copy already
			// carries, so nearer ancestors keep precedence.
			found.cascadeMetadata(s.metadata)
			return found
		}
	}
	return nil
}

// ForEachAffordance invokes fn for every leaf Affordance in the tree, in
// depth-first, left-to-right order. Composite nodes are expanded
// transparently and never passed to fn themselves. There is no early
// termination: the traversal always visits every leaf.
func (s *Affordances) ForEachAffordance(fn func(*Affordance)) {
	if fn == nil {
		return
	}
	s.forEach(fn, map[*Affordances]struct{}{s: {}})
}

func (s *Affordances) forEach(fn func(*Affordance), seen map[*Affordances]struct{}) {
	for _, child := range s.children {
		switch n := child.(type) {
		case *Affordance:
			fn(n)
		case *Affordances:
			if _, visited := seen[n]; visited {
				continue
			}
			seen[n] = struct{}{}
			n.forEach(fn, seen)
		}
	}
}

// Copy returns a new Affordances with the same identifier, the same
// metadata map (shared by reference, replaced wholesale when changed), and
// every child recursively copied. No node identity is shared between the
// original tree and the copy.
func (s *Affordances) Copy() *Affordances {
	return s.copyTree(map[*Affordances]struct{}{s: {}})
}

func (s *Affordances) copyTree(seen map[*Affordances]struct{}) *Affordances {
	out := &Affordances{
		id:       s.id,
		metadata: s.metadata,
	}
	if len(s.children) > 0 {
		out.children = make([]Node, 0, len(s.children))
		for _, child := range s.children {
			switch n := child.(type) {
			case *Affordance:
				out.children = append(out.children, n.Copy())
			case *Affordances:
				if _, visited := seen[n]; visited {
					continue
				}
				seen[n] = struct{}{}
				out.children = append(out.children, n.copyTree(seen))
			}
		}
	}
	return out
}

// CopyNode implements Node.
func (s *Affordances) CopyNode() Node { return s.Copy() }

// CascadeMetadata folds a parent metadata map into this composite's own,
// parent fields first, own fields winning. Call this only on a private copy.
func (s *Affordances) CascadeMetadata(parent map[string]any) *Affordances {
	s.metadata = MergeMetadata(parent, s.metadata)
	return s
}

func (s *Affordances) cascadeMetadata(parent map[string]any) {
	s.CascadeMetadata(parent)
}

// IsAffordances reports whether v is an actual *Affordances.
func IsAffordances(v any) bool {
	s, ok := v.(*Affordances)
	return ok && s != nil
}
