package hyper

// Node is the interface shared by the two tree node types, *Affordance and
// *Affordances. The implementations are sealed: composition elsewhere is by
// embedding a tree, not by providing new node kinds, so the codec's
// classification rules stay closed over exactly these shapes.
type Node interface {
	// NodeID returns the node's identifier, or "" when it has none.
	NodeID() string

	// CopyNode returns a deep copy of the node: same observable fields,
	// fresh object identity at every level.
	CopyNode() Node

	// ToPlain converts the node to the plain nested form mirrored on the
	// wire. Codec plugins operate exclusively on this form.
	ToPlain() map[string]any

	// cascadeMetadata folds a parent metadata map into the node's own,
	// parent fields first, own fields winning. Called only on private
	// copies during tree retrieval; seals the interface as a side effect.
	cascadeMetadata(parent map[string]any)
}

var (
	_ Node = (*Affordance)(nil)
	_ Node = (*Affordances)(nil)
)
