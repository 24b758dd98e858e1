package hyper

import "regexp"

// Input describes a single form field of an affordance: its identifier, a
// default value, and optional presentation and validation constraints.
//
// All setters are total functions: a malformed argument leaves the prior
// value in place and returns the receiver for chaining. No setter signals
// failure.
type Input struct {
	id       string
	value    any
	accept   []string
	required *bool
	label    string
	hidden   *bool
	readonly *bool
	options  []any
	pattern  string
}

// NewInput constructs an Input with the given identifier and default value.
// A nil value defaults to the empty string.
func NewInput(id string, value any) *Input {
	in := &Input{id: id, value: ""}
	if value != nil {
		in.value = value
	}
	return in
}

// ID returns the field identifier.
func (in *Input) ID() string { return in.id }

// Value returns the field's default value.
func (in *Input) Value() any { return in.value }

// Accept returns the accepted media types, or nil when unconstrained.
func (in *Input) Accept() []string {
	if in.accept == nil {
		return nil
	}
	out := make([]string, len(in.accept))
	copy(out, in.accept)
	return out
}

// Required reports whether the field must be supplied.
func (in *Input) Required() bool { return in.required != nil && *in.required }

// Label returns the human-facing field label, "" when unset.
func (in *Input) Label() string { return in.label }

// Hidden reports whether the field should be withheld from presentation.
func (in *Input) Hidden() bool { return in.hidden != nil && *in.hidden }

// ReadOnly reports whether the field may not be edited by the client.
func (in *Input) ReadOnly() bool { return in.readonly != nil && *in.readonly }

// Options returns the enumerated permitted values, or nil when the field is
// free-form.
func (in *Input) Options() []any {
	if in.options == nil {
		return nil
	}
	out := make([]any, len(in.options))
	copy(out, in.options)
	return out
}

// Regexp returns the validation pattern, "" when unset.
func (in *Input) Regexp() string { return in.pattern }

// SetValue installs a new default value. A nil argument is ignored.
func (in *Input) SetValue(v any) *Input {
	if v == nil {
		return in
	}
	in.value = v
	return in
}

// SetAccept installs the accepted media types. An empty list, or a list
// containing an empty string, is ignored.
func (in *Input) SetAccept(accept []string) *Input {
	if len(accept) == 0 {
		return in
	}
	for _, mt := range accept {
		if mt == "" {
			return in
		}
	}
	in.accept = make([]string, len(accept))
	copy(in.accept, accept)
	return in
}

// SetRequired marks the field as required or optional.
func (in *Input) SetRequired(required bool) *Input {
	in.required = &required
	return in
}

// SetLabel installs the presentation label. An empty string is ignored.
func (in *Input) SetLabel(label string) *Input {
	if label == "" {
		return in
	}
	in.label = label
	return in
}

// SetHidden marks the field as hidden or visible.
func (in *Input) SetHidden(hidden bool) *Input {
	in.hidden = &hidden
	return in
}

// SetReadOnly marks the field as read-only or editable.
func (in *Input) SetReadOnly(readonly bool) *Input {
	in.readonly = &readonly
	return in
}

// SetOptions installs the enumerated permitted values. An empty list is
// ignored; the field stays free-form.
func (in *Input) SetOptions(options []any) *Input {
	if len(options) == 0 {
		return in
	}
	in.options = make([]any, len(options))
	copy(in.options, options)
	return in
}

// SetRegexp installs the validation pattern. An empty or non-compiling
// pattern is ignored.
func (in *Input) SetRegexp(pattern string) *Input {
	if pattern == "" {
		return in
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return in
	}
	in.pattern = pattern
	return in
}

// Copy returns a new Input with every field independently copied. The value
// is copied as-is; slice-valued constraints get fresh backing arrays so the
// copy and the original never alias.
func (in *Input) Copy() *Input {
	out := &Input{
		id:      in.id,
		value:   in.value,
		label:   in.label,
		pattern: in.pattern,
	}
	if in.accept != nil {
		out.accept = make([]string, len(in.accept))
		copy(out.accept, in.accept)
	}
	if in.options != nil {
		out.options = make([]any, len(in.options))
		copy(out.options, in.options)
	}
	if in.required != nil {
		v := *in.required
		out.required = &v
	}
	if in.hidden != nil {
		v := *in.hidden
		out.hidden = &v
	}
	if in.readonly != nil {
		v := *in.readonly
		out.readonly = &v
	}
	return out
}

// IsInput reports whether v is an actual *Input (strict type test, as
// opposed to the structural test made by CanReviveInput).
func IsInput(v any) bool {
	in, ok := v.(*Input)
	return ok && in != nil
}
