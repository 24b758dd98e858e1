package hyper

// MergeMetadata combines an ancestor metadata map with a descendant's own,
// producing a freshly allocated map. Ancestor fields are written first and
// descendant fields overwrite them on key collision. When both sides are
// empty the result is nil, so an absent map stays absent through a cascade.
//
// Neither input is mutated; node metadata maps may therefore be shared
// freely between a node and its copies.
func MergeMetadata(parent, child map[string]any) map[string]any {
	if len(parent) == 0 && len(child) == 0 {
		return nil
	}
	merged := make(map[string]any, len(parent)+len(child))
	for k, v := range parent {
		merged[k] = v
	}
	for k, v := range child {
		merged[k] = v
	}
	return merged
}
