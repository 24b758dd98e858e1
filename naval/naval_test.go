package naval

import (
	"reflect"
	"testing"

	"github.com/hypermedia-go/hyperapi/hyper"
)

func buildTree() *hyper.Affordances {
	search := hyper.NewAffordance("search", "GET", "/search").
		SetRelation("search").
		AddInput(hyper.NewInput("q", "").SetRequired(true)).
		AddMessage("200", []string{"search", "create"})

	create := hyper.NewAffordance("create", "POST", "/things").
		SetMetadata(map[string]any{"zone": "public"})

	group := hyper.NewAffordances("catalog").
		SetMetadata(map[string]any{"section": "catalog"})
	group.AddAffordance(search)

	root := hyper.NewAffordances("api")
	root.AddAffordance(group)
	root.AddAffordance(create)
	return root
}

func TestCodec_RoundTrip(t *testing.T) {
	c := Codec{}
	root := buildTree()

	data, err := c.Encode(root)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	revived := c.Decode(data)
	if revived == nil {
		t.Fatalf("decode returned nil for a document we produced")
	}
	// Re-encoding the revived tree must reproduce the document byte for
	// byte: json.Marshal orders map keys deterministically, so any field
	// lost or invented in revival shows up here.
	again, err := c.Encode(revived)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !reflect.DeepEqual(data, again) {
		t.Fatalf("round trip changed the document:\n%s\n%s", data, again)
	}
}

func TestCodec_AffordanceRoot(t *testing.T) {
	c := Codec{}
	a := hyper.NewAffordance("ping", "GET", "/ping")
	data, err := c.Encode(a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	revived, ok := c.Decode(data).(*hyper.Affordance)
	if !ok {
		t.Fatalf("expected an affordance root, got %T", c.Decode(data))
	}
	if revived.ID() != "ping" || revived.Method() != "GET" || revived.URI() != "/ping" {
		t.Fatalf("fields lost: %v", revived.ToPlain())
	}
}

func TestCodec_DecodeLegacyUntaggedDocument(t *testing.T) {
	// Documents written before the kind tag existed classify structurally.
	legacy := []byte(`{
		"id": "api",
		"children": [
			{"id": "ping", "method": "GET", "uri": "/ping", "messages": {"*": ["ping"]}}
		]
	}`)
	root, ok := Codec{}.Decode(legacy).(*hyper.Affordances)
	if !ok {
		t.Fatalf("legacy composite did not classify")
	}
	if root.Count() != 1 || !root.HasAffordanceWithID("ping") {
		t.Fatalf("legacy children lost")
	}
}

func TestCodec_DecodePrefersNarrowShape(t *testing.T) {
	// Minimal affordance shape must never classify as a composite.
	node := Codec{}.Decode([]byte(`{"id":"x","method":"GET","uri":"/x"}`))
	if _, ok := node.(*hyper.Affordance); !ok {
		t.Fatalf("expected affordance, got %T", node)
	}
}

func TestCodec_DecodeFailuresAreNil(t *testing.T) {
	c := Codec{}
	for name, doc := range map[string]string{
		"invalid syntax":  `{"id": `,
		"input root":      `{"id":"q","value":""}`,
		"no known shape":  `{"id":"x"}`,
		"scalar document": `42`,
	} {
		if c.Decode([]byte(doc)) != nil {
			t.Fatalf("%s must decode to nil", name)
		}
	}
}

func TestCodec_EncodeNilNode(t *testing.T) {
	if _, err := (Codec{}).Encode(nil); err == nil {
		t.Fatalf("nil node must be an encode error")
	}
}

func TestCodec_IndentedOutput(t *testing.T) {
	c := Codec{Indent: "  "}
	data, err := c.Encode(hyper.NewAffordances("api"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if data[0] != '{' || !containsNewline(data) {
		t.Fatalf("expected pretty-printed output, got %s", data)
	}
	if c.Decode(data) == nil {
		t.Fatalf("pretty output must still decode")
	}
}

func containsNewline(data []byte) bool {
	for _, b := range data {
		if b == '\n' {
			return true
		}
	}
	return false
}
