// Package naval implements the NavAL JSON codec: affordance trees are
// serialized as plain nested JSON objects whose field names mirror the
// hyper model one to one.
//
// Serialized documents carry a "kind" discriminator per node. Decoding
// dispatches on the tag when present and falls back to duck-typed
// classification for legacy documents written without one; the fallback
// tests shapes narrowest first so that an object satisfying the Affordance
// shape is never mistaken for a composite.
package naval

import (
	"encoding/json"
	"fmt"

	"github.com/hypermedia-go/hyperapi/hyper"
)

// MediaType identifies NavAL JSON documents on the wire.
const MediaType = "application/vnd.naval+json"

// Codec is the NavAL JSON codec. The zero value is ready to use.
type Codec struct {
	// Indent, when non-empty, pretty-prints serialized documents with the
	// given indentation string.
	Indent string
}

// MediaType implements codec.Codec.
func (c Codec) MediaType() string { return MediaType }

// Encode serializes a tree rooted at node. A nil node is an error: there is
// no NavAL representation of "no document" (callers signal that with an
// empty payload instead).
func (c Codec) Encode(node hyper.Node) ([]byte, error) {
	if node == nil {
		return nil, fmt.Errorf("naval: cannot encode a nil node")
	}
	plain := node.ToPlain()
	if c.Indent != "" {
		return json.MarshalIndent(plain, "", c.Indent)
	}
	return json.Marshal(plain)
}

// Decode revives a tree from NavAL JSON. Invalid syntax, or a structurally
// valid document whose root revives to neither an Affordance nor an
// Affordances, yields nil; decoding never fails loudly.
func (c Codec) Decode(data []byte) hyper.Node {
	var plain any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil
	}
	return hyper.ReviveNode(plain)
}
