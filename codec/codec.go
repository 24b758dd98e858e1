// Package codec defines the plugin contract for serializing affordance
// trees onto the wire, and a registry that resolves a plugin from a
// client's Accept header.
//
// A codec is a pure pair of functions over hyper trees. Encoding reports
// mechanical failures (a marshaller rejecting a value) as errors; decoding
// follows the model's sentinel policy and yields nil for anything it cannot
// classify, never an error.
package codec

import (
	"github.com/elnormous/contenttype"

	"github.com/hypermedia-go/hyperapi/hyper"
)

// Codec serializes and revives affordance trees for one media type.
type Codec interface {
	// MediaType returns the media type this codec produces and consumes,
	// e.g. "application/vnd.naval+json".
	MediaType() string

	// Encode serializes a tree rooted at node.
	Encode(node hyper.Node) ([]byte, error)

	// Decode revives a tree from its serialized form. Malformed syntax and
	// documents whose root classifies as neither an Affordance nor an
	// Affordances yield nil.
	Decode(data []byte) hyper.Node
}

// Registry holds codecs keyed by media type and negotiates among them.
// The zero value is unusable; construct with NewRegistry. Registration is
// expected at startup; the registry is safe for concurrent readers after
// that.
type Registry struct {
	codecs   map[string]Codec
	order    []contenttype.MediaType
	fallback Codec
}

// NewRegistry constructs a Registry. The first registered codec becomes the
// fallback used when a client expresses no usable preference.
func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{codecs: make(map[string]Codec)}
	for _, c := range codecs {
		r.Register(c)
	}
	return r
}

// Register adds a codec. A nil codec, an empty or unparsable media type, or
// a media type already claimed by another codec is ignored.
func (r *Registry) Register(c Codec) *Registry {
	if c == nil {
		return r
	}
	mt := contenttype.NewMediaType(c.MediaType())
	if mt.Type == "" {
		return r
	}
	key := mt.String()
	if _, taken := r.codecs[key]; taken {
		return r
	}
	r.codecs[key] = c
	r.order = append(r.order, mt)
	if r.fallback == nil {
		r.fallback = c
	}
	return r
}

// Get returns the codec registered for the exact media type, or nil.
func (r *Registry) Get(mediaType string) Codec {
	mt := contenttype.NewMediaType(mediaType)
	if mt.Type == "" {
		return nil
	}
	return r.codecs[mt.String()]
}

// Negotiate resolves a codec from an Accept header value. An empty header,
// a wildcard, or a header naming none of the registered types resolves to
// the fallback codec. A nil result means the registry is empty.
func (r *Registry) Negotiate(accept string) Codec {
	if accept == "" || len(r.order) == 0 {
		return r.fallback
	}
	mt, _, err := contenttype.GetAcceptableMediaTypeFromHeader(accept, r.order)
	if err != nil {
		return r.fallback
	}
	return r.codecs[mt.String()]
}

// Count returns the number of registered codecs.
func (r *Registry) Count() int { return len(r.codecs) }
