package hyper

// DefaultMessageCode is the fallback key of an affordance's message table.
// Its entry always exists and defaults to the affordance's own identifier.
const DefaultMessageCode = "*"

// Affordance describes a single action in the API's action space: an
// identifier, an HTTP-style method, a target URI, and optionally a relation,
// metadata, an ordered list of form fields, and a message table mapping
// response codes to the identifiers of the affordances a client should be
// offered next.
type Affordance struct {
	id       string
	method   string
	uri      string
	relation string
	metadata map[string]any
	inputs   []*Input
	messages map[string][]string
	handler  HandlerFunc
}

// NewAffordance constructs an Affordance. The message table starts with the
// default entry pointing back at the affordance itself.
func NewAffordance(id, method, uri string) *Affordance {
	return &Affordance{
		id:       id,
		method:   method,
		uri:      uri,
		messages: map[string][]string{DefaultMessageCode: {id}},
	}
}

// ID returns the affordance identifier.
func (a *Affordance) ID() string { return a.id }

// NodeID implements Node.
func (a *Affordance) NodeID() string { return a.id }

// Method returns the action's method.
func (a *Affordance) Method() string { return a.method }

// URI returns the action's target.
func (a *Affordance) URI() string { return a.uri }

// Relation returns the link relation, "" when unset.
func (a *Affordance) Relation() string { return a.relation }

// Metadata returns the affordance's own metadata map. The returned map is
// shared with the node and must be treated as read-only; replace it through
// SetMetadata.
func (a *Affordance) Metadata() map[string]any { return a.metadata }

// Inputs returns a snapshot of the ordered form fields. The Input pointers
// are the node's own; the slice is fresh.
func (a *Affordance) Inputs() []*Input {
	if len(a.inputs) == 0 {
		return nil
	}
	out := make([]*Input, len(a.inputs))
	copy(out, a.inputs)
	return out
}

// SetRelation installs the link relation. An empty string is ignored.
func (a *Affordance) SetRelation(relation string) *Affordance {
	if relation == "" {
		return a
	}
	a.relation = relation
	return a
}

// SetMetadata replaces the affordance's metadata map. A nil or empty map is
// ignored.
func (a *Affordance) SetMetadata(metadata map[string]any) *Affordance {
	if len(metadata) == 0 {
		return a
	}
	a.metadata = metadata
	return a
}

// AddInput appends a form field. Anything but a concrete *Input is ignored,
// as is a pointer already present in the list (identity check, not field
// equality).
func (a *Affordance) AddInput(control any) *Affordance {
	in, ok := control.(*Input)
	if !ok || in == nil {
		return a
	}
	for _, existing := range a.inputs {
		if existing == in {
			return a
		}
	}
	a.inputs = append(a.inputs, in)
	return a
}

// AddMessage installs the list of affordance identifiers to offer when this
// action concludes with the given response code. An empty code, an empty
// list, or a list containing an empty identifier is ignored.
func (a *Affordance) AddMessage(code string, ids []string) *Affordance {
	if code == "" || len(ids) == 0 {
		return a
	}
	for _, id := range ids {
		if id == "" {
			return a
		}
	}
	msg := make([]string, len(ids))
	copy(msg, ids)
	a.messages[code] = msg
	return a
}

// GetMessage returns the affordance identifiers to offer for the given
// response code: the exact-match entry when one was installed, otherwise the
// default entry.
func (a *Affordance) GetMessage(code string) []string {
	msg, ok := a.messages[code]
	if !ok {
		msg = a.messages[DefaultMessageCode]
	}
	out := make([]string, len(msg))
	copy(out, msg)
	return out
}

// SetHandler installs the function invoked when this affordance services an
// incoming request. A nil handler is ignored; the default handler reports
// success with an empty body.
func (a *Affordance) SetHandler(h HandlerFunc) *Affordance {
	if h == nil {
		return a
	}
	a.handler = h
	return a
}

// Handler returns the affordance's request handler, never nil.
func (a *Affordance) Handler() HandlerFunc {
	if a.handler == nil {
		return defaultHandler
	}
	return a.handler
}

// CascadeMetadata folds a parent metadata map into this affordance's own,
// parent fields first, own fields winning on collision. The merged map is
// freshly allocated; the parent map is never touched. Call this only on a
// private copy — it overwrites the receiver's metadata field.
func (a *Affordance) CascadeMetadata(parent map[string]any) *Affordance {
	a.metadata = MergeMetadata(parent, a.metadata)
	return a
}

func (a *Affordance) cascadeMetadata(parent map[string]any) {
	a.CascadeMetadata(parent)
}

// Copy returns a new Affordance with the same observable fields. Scalar
// fields and the message table are copied by value, the metadata map is
// shared by reference (it is replaced wholesale, never edited in place), and
// every Input is recursively copied so the two affordances share no mutable
// state.
func (a *Affordance) Copy() *Affordance {
	out := &Affordance{
		id:       a.id,
		method:   a.method,
		uri:      a.uri,
		relation: a.relation,
		metadata: a.metadata,
		messages: make(map[string][]string, len(a.messages)),
		handler:  a.handler,
	}
	for code, ids := range a.messages {
		msg := make([]string, len(ids))
		copy(msg, ids)
		out.messages[code] = msg
	}
	if len(a.inputs) > 0 {
		out.inputs = make([]*Input, 0, len(a.inputs))
		for _, in := range a.inputs {
			out.inputs = append(out.inputs, in.Copy())
		}
	}
	return out
}

// CopyNode implements Node.
func (a *Affordance) CopyNode() Node { return a.Copy() }

// IsAffordance reports whether v is an actual *Affordance.
func IsAffordance(v any) bool {
	a, ok := v.(*Affordance)
	return ok && a != nil
}
