// Package msgpackcodec carries NavAL documents as MessagePack instead of
// JSON: the same plain nested form, a denser wire encoding. Useful for
// machine-to-machine deployments where no human ever reads the payload.
package msgpackcodec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/hypermedia-go/hyperapi/hyper"
)

// MediaType identifies NavAL MessagePack documents on the wire.
const MediaType = "application/vnd.naval+msgpack"

// Codec is the MessagePack codec. The zero value is ready to use.
type Codec struct{}

// MediaType implements codec.Codec.
func (Codec) MediaType() string { return MediaType }

// Encode serializes a tree rooted at node.
func (Codec) Encode(node hyper.Node) ([]byte, error) {
	if node == nil {
		return nil, fmt.Errorf("msgpackcodec: cannot encode a nil node")
	}
	return msgpack.Marshal(node.ToPlain())
}

// Decode revives a tree from its MessagePack form. Anything that does not
// decode and classify to a tree node yields nil.
func (Codec) Decode(data []byte) hyper.Node {
	var plain any
	if err := msgpack.Unmarshal(data, &plain); err != nil {
		return nil
	}
	return hyper.ReviveNode(normalize(plain))
}

// normalize rewrites msgpack's map[any]any containers into the
// map[string]any shape the classifier operates on. Non-string keys mark the
// containing object unclassifiable and are dropped with it.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, entry := range val {
			out[k] = normalize(entry)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, entry := range val {
			key, ok := k.(string)
			if !ok {
				return nil
			}
			out[key] = normalize(entry)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, entry := range val {
			out[i] = normalize(entry)
		}
		return out
	default:
		return v
	}
}
