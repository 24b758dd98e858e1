package httpbridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hypermedia-go/hyperapi"
	"github.com/hypermedia-go/hyperapi/codec"
	"github.com/hypermedia-go/hyperapi/codec/msgpackcodec"
	"github.com/hypermedia-go/hyperapi/hyper"
	"github.com/hypermedia-go/hyperapi/messages"
	"github.com/hypermedia-go/hyperapi/naval"
)

func testAPI(t *testing.T) *hyperapi.API {
	t.Helper()
	search := hyper.NewAffordance("search", "GET", "/search").
		AddInput(hyper.NewInput("q", ""))
	search.SetHandler(func(ctx context.Context, req *hyper.Request) *hyper.Response {
		if req.Params["q"] == "teapot" {
			return &hyper.Response{Code: "418", Body: "short and stout"}
		}
		return &hyper.Response{Code: "200"}
	})
	view := hyper.NewAffordance("view", "GET", "/things")

	api := hyperapi.New(hyperapi.WithInfo("test-api", "0.0.1"), hyperapi.WithCodec(naval.Codec{}))
	api.AddRequest(search)
	api.AddRequest(view)
	if !api.AddMessage(context.Background(), messages.NewEntry("search", "200", []string{"search", "view"})) {
		t.Fatalf("message entry rejected")
	}
	return api
}

func testHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(testAPI(t), WithCodecs(codec.NewRegistry(naval.Codec{}, msgpackcodec.Codec{})))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return h
}

func TestHandler_ServesAssembledDocument(t *testing.T) {
	h := testHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=shoes", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != naval.MediaType {
		t.Fatalf("expected naval content type, got %q", got)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected a correlation id header")
	}
	var plain struct {
		Children []struct {
			ID string `json:"id"`
		} `json:"children"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &plain); err != nil {
		t.Fatalf("body is not a JSON document: %v", err)
	}
	if len(plain.Children) != 2 {
		t.Fatalf("expected search and view in the document, got %+v", plain.Children)
	}
}

func TestHandler_HandlerCodeSelectsMessageAndStatus(t *testing.T) {
	h := testHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=teapot", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	// No message mapping for (search, 418): the handler body is the payload.
	if got := rec.Body.String(); got != "short and stout" {
		t.Fatalf("expected handler body fallback, got %q", got)
	}
	if rec.Header().Get("Content-Type") == naval.MediaType {
		t.Fatalf("no document was assembled; content type must not claim one")
	}
}

func TestHandler_UnknownRequestLineIs404(t *testing.T) {
	h := testHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/absent", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/search", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("method mismatch must 404, got %d", rec.Code)
	}
}

func TestHandler_NegotiatesMsgpack(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.Header.Set("Accept", msgpackcodec.MediaType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != msgpackcodec.MediaType {
		t.Fatalf("expected msgpack content type, got %q", got)
	}
	node := (msgpackcodec.Codec{}).Decode(rec.Body.Bytes())
	root, ok := node.(*hyper.Affordances)
	if !ok {
		t.Fatalf("body must decode as a composite, got %T", node)
	}
	if !root.HasAffordanceWithID("view") {
		t.Fatalf("document incomplete")
	}
}

func TestHandler_DefaultHandlerExchange(t *testing.T) {
	// The view affordance has no explicit handler and no message mapping:
	// default handler answers 200 with nothing to send.
	h := testHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestNewHandler_RequiresAPI(t *testing.T) {
	if _, err := NewHandler(nil); err == nil {
		t.Fatalf("nil api must be rejected")
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg := ConfigFromEnv()
	if cfg.Host == "" || cfg.Port == "" {
		t.Fatalf("defaults must apply, got %+v", cfg)
	}
	if cfg.MaxBodyBytes <= 0 {
		t.Fatalf("default body cap must be positive, got %d", cfg.MaxBodyBytes)
	}
}

func TestServer_ImplementsHoster(t *testing.T) {
	var _ hyperapi.Hoster = NewServer(ConfigFromEnv())
}

func TestFormParams_OnlyDeclaredInputs(t *testing.T) {
	aff := hyper.NewAffordance("search", "GET", "/search").
		AddInput(hyper.NewInput("q", ""))
	req := httptest.NewRequest(http.MethodGet, "/search?q=shoes&rogue=1", strings.NewReader(""))
	params := formParams(req, aff)
	if params["q"] != "shoes" {
		t.Fatalf("declared input lost: %v", params)
	}
	if _, leaked := params["rogue"]; leaked {
		t.Fatalf("undeclared parameters must be dropped: %v", params)
	}
}
