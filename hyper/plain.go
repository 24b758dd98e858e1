package hyper

// Node kind discriminators stamped onto the plain form at serialization
// time. Decoders prefer the tag; documents without one (the legacy wire
// format) fall back to structural classification, see Classify.
const (
	KindInput       = "input"
	KindAffordance  = "affordance"
	KindAffordances = "affordances"
)

// ToPlain converts the Input to its plain nested form.
func (in *Input) ToPlain() map[string]any {
	m := map[string]any{
		"kind":  KindInput,
		"id":    in.id,
		"value": in.value,
	}
	if in.accept != nil {
		m["accept"] = in.Accept()
	}
	if in.required != nil {
		m["required"] = *in.required
	}
	if in.label != "" {
		m["label"] = in.label
	}
	if in.hidden != nil {
		m["hidden"] = *in.hidden
	}
	if in.readonly != nil {
		m["readonly"] = *in.readonly
	}
	if in.options != nil {
		m["options"] = in.Options()
	}
	if in.pattern != "" {
		m["regexp"] = in.pattern
	}
	return m
}

// ToPlain converts the Affordance to its plain nested form. Inputs and the
// message table are converted recursively; the handler, being behavior
// rather than state, does not travel.
func (a *Affordance) ToPlain() map[string]any {
	m := map[string]any{
		"kind":   KindAffordance,
		"id":     a.id,
		"method": a.method,
		"uri":    a.uri,
	}
	if a.relation != "" {
		m["relation"] = a.relation
	}
	if len(a.metadata) > 0 {
		m["metadata"] = a.metadata
	}
	if len(a.inputs) > 0 {
		inputs := make([]any, 0, len(a.inputs))
		for _, in := range a.inputs {
			inputs = append(inputs, in.ToPlain())
		}
		m["inputs"] = inputs
	}
	messages := make(map[string][]string, len(a.messages))
	for code, ids := range a.messages {
		msg := make([]string, len(ids))
		copy(msg, ids)
		messages[code] = msg
	}
	m["messages"] = messages
	return m
}

// ToPlain converts the composite to its plain nested form. The children
// list is always present, even when empty.
func (s *Affordances) ToPlain() map[string]any {
	m := map[string]any{
		"kind": KindAffordances,
	}
	if s.id != "" {
		m["id"] = s.id
	}
	if len(s.metadata) > 0 {
		m["metadata"] = s.metadata
	}
	children := make([]any, 0, len(s.children))
	for _, child := range s.children {
		children = append(children, child.ToPlain())
	}
	m["children"] = children
	return m
}

// CanReviveInput reports whether v has the minimal Input shape: a map with
// a non-empty string "id" and a present "value".
func CanReviveInput(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	id, ok := m["id"].(string)
	if !ok || id == "" {
		return false
	}
	_, ok = m["value"]
	return ok
}

// ReviveInput rebuilds an Input from a plain form passing CanReviveInput.
// Optional fields that are missing or malformed stay unset; nothing is
// re-validated beyond the per-field shape predicates. Returns nil when the
// minimal shape is not met.
func ReviveInput(v any) *Input {
	if !CanReviveInput(v) {
		return nil
	}
	m := v.(map[string]any)
	in := NewInput(m["id"].(string), m["value"])
	if accept, ok := stringSlice(m["accept"]); ok {
		in.SetAccept(accept)
	}
	if required, ok := m["required"].(bool); ok {
		in.SetRequired(required)
	}
	if label, ok := m["label"].(string); ok {
		in.SetLabel(label)
	}
	if hidden, ok := m["hidden"].(bool); ok {
		in.SetHidden(hidden)
	}
	if readonly, ok := m["readonly"].(bool); ok {
		in.SetReadOnly(readonly)
	}
	if options, ok := anySlice(m["options"]); ok {
		in.SetOptions(options)
	}
	if pattern, ok := m["regexp"].(string); ok {
		in.SetRegexp(pattern)
	}
	return in
}

// CanReviveAffordance reports whether v has the minimal Affordance shape:
// a map with non-empty string "id", "method" and "uri".
func CanReviveAffordance(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, key := range []string{"id", "method", "uri"} {
		s, ok := m[key].(string)
		if !ok || s == "" {
			return false
		}
	}
	return true
}

// ReviveAffordance rebuilds an Affordance from a plain form passing
// CanReviveAffordance. Nested inputs are revived through ReviveInput and
// re-attached as-is; malformed entries are dropped. Returns nil when the
// minimal shape is not met.
func ReviveAffordance(v any) *Affordance {
	if !CanReviveAffordance(v) {
		return nil
	}
	m := v.(map[string]any)
	a := NewAffordance(m["id"].(string), m["method"].(string), m["uri"].(string))
	if relation, ok := m["relation"].(string); ok {
		a.SetRelation(relation)
	}
	if metadata, ok := m["metadata"].(map[string]any); ok {
		a.SetMetadata(metadata)
	}
	if inputs, ok := m["inputs"].([]any); ok {
		for _, entry := range inputs {
			if in := ReviveInput(entry); in != nil {
				a.AddInput(in)
			}
		}
	}
	reviveMessages(a, m["messages"])
	return a
}

// reviveMessages re-attaches a serialized message table. Entries that do
// not decode to a non-empty string list are dropped; the default entry is
// re-created by the constructor regardless.
func reviveMessages(a *Affordance, v any) {
	switch table := v.(type) {
	case map[string][]string:
		for code, ids := range table {
			a.AddMessage(code, ids)
		}
	case map[string]any:
		for code, entry := range table {
			if ids, ok := stringSlice(entry); ok {
				a.AddMessage(code, ids)
			}
		}
	}
}

// CanReviveAffordances reports whether v has the minimal composite shape: a
// map with a "children" array. The shape is deliberately the loosest of the
// three; classification must test it last.
func CanReviveAffordances(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	switch m["children"].(type) {
	case []any, []map[string]any:
		return true
	}
	return false
}

// ReviveAffordances rebuilds a composite from a plain form passing
// CanReviveAffordances. Children are classified and revived recursively;
// entries that revive to neither node type are dropped. Returns nil when
// the minimal shape is not met.
func ReviveAffordances(v any) *Affordances {
	if !CanReviveAffordances(v) {
		return nil
	}
	m := v.(map[string]any)
	id, _ := m["id"].(string)
	s := NewAffordances(id)
	if metadata, ok := m["metadata"].(map[string]any); ok {
		s.SetMetadata(metadata)
	}
	for _, entry := range childEntries(m["children"]) {
		if node := ReviveNode(entry); node != nil {
			s.AddAffordance(node)
		}
	}
	return s
}

func childEntries(v any) []any {
	switch children := v.(type) {
	case []any:
		return children
	case []map[string]any:
		out := make([]any, 0, len(children))
		for _, child := range children {
			out = append(out, child)
		}
		return out
	}
	return nil
}

// Classify rebuilds a typed value from an untagged plain form by testing it
// against each type's minimal shape in fixed priority order: Affordance,
// then Input, then Affordances. The order is load-bearing — the composite
// shape only demands an array field, so anything matching a narrower shape
// must be claimed first. A plain form carrying a "kind" tag is dispatched
// on the tag alone. Returns *Affordance, *Input, *Affordances, or nil.
func Classify(v any) any {
	if m, ok := v.(map[string]any); ok {
		if kind, ok := m["kind"].(string); ok {
			switch kind {
			case KindAffordance:
				if a := ReviveAffordance(v); a != nil {
					return a
				}
				return nil
			case KindInput:
				if in := ReviveInput(v); in != nil {
					return in
				}
				return nil
			case KindAffordances:
				if s := ReviveAffordances(v); s != nil {
					return s
				}
				return nil
			}
			return nil
		}
	}
	if CanReviveAffordance(v) {
		return ReviveAffordance(v)
	}
	if CanReviveInput(v) {
		return ReviveInput(v)
	}
	if CanReviveAffordances(v) {
		return ReviveAffordances(v)
	}
	return nil
}

// ReviveNode classifies a plain form and returns it as a tree node.
// Values that revive to an Input, or to nothing at all, yield nil.
func ReviveNode(v any) Node {
	switch n := Classify(v).(type) {
	case *Affordance:
		return n
	case *Affordances:
		return n
	}
	return nil
}

func stringSlice(v any) ([]string, bool) {
	switch vals := v.(type) {
	case []string:
		out := make([]string, len(vals))
		copy(out, vals)
		return out, true
	case []any:
		out := make([]string, 0, len(vals))
		for _, entry := range vals {
			s, ok := entry.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func anySlice(v any) ([]any, bool) {
	vals, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]any, len(vals))
	copy(out, vals)
	return out, true
}
