// Package hyperapi assembles hypermedia response documents. An API owns the
// canonical tree of request affordances, a message table mapping exchanges
// to the affordances a client should see next, and the codec that puts the
// assembled document on the wire.
//
// The canonical tree is shared-immutable: once an API is serving traffic
// the tree is only read, and every response document is built exclusively
// from fresh copies produced by CopyAffordanceByID. No locking is needed as
// long as registration finishes before hosting begins.
package hyperapi

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/hypermedia-go/hyperapi/codec"
	"github.com/hypermedia-go/hyperapi/hyper"
	"github.com/hypermedia-go/hyperapi/messages"
)

// ErrCannotHost is returned when hosting is requested before the API has a
// non-empty request tree and a codec.
var ErrCannotHost = errors.New("hyperapi: api is not ready to host")

// API aggregates the request affordance tree, the message table, and the
// wire codec for one hypermedia API.
type API struct {
	name     string
	version  string
	requests *hyper.Affordances
	table    messages.Table
	wire     codec.Codec
	log      *slog.Logger
}

// Option configures an API.
type Option func(*API)

// WithInfo sets the API's name and version, surfaced by hosting bridges.
func WithInfo(name, version string) Option {
	return func(api *API) {
		api.name = name
		api.version = version
	}
}

// WithCodec sets the codec used to serialize assembled documents.
func WithCodec(c codec.Codec) Option {
	return func(api *API) { api.wire = c }
}

// WithMessages sets the message-table collaborator.
func WithMessages(table messages.Table) Option {
	return func(api *API) { api.table = table }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(api *API) {
		if log != nil {
			api.log = log
		}
	}
}

// New constructs an API. Without options it has an empty request tree, an
// in-memory message table, and no codec.
func New(opts ...Option) *API {
	api := &API{
		requests: hyper.NewAffordances(""),
		table:    messages.NewMemoryTable(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(api)
	}
	return api
}

// Name returns the API's name, "" when unset.
func (api *API) Name() string { return api.name }

// Version returns the API's version, "" when unset.
func (api *API) Version() string { return api.version }

// Requests returns the canonical request tree. Treat it as read-only once
// the API is hosted.
func (api *API) Requests() *hyper.Affordances { return api.requests }

// AddRequest appends a node to the request tree. The argument rules are
// those of Affordances.AddAffordance: anything but a tree node, or a node
// already present, is ignored.
func (api *API) AddRequest(node any) *API {
	api.requests.AddAffordance(node)
	return api
}

// AddMessage installs an exchange mapping after checking that the request
// id and every listed affordance id exist in the request tree. A nil entry
// or an entry naming an unknown id is rejected; the return reports whether
// the entry was installed. Validating here keeps Respond free of stale-id
// holes.
func (api *API) AddMessage(ctx context.Context, entry *messages.Entry) bool {
	if entry == nil || api.table == nil {
		return false
	}
	if !api.requests.HasAffordanceWithID(entry.RequestID()) {
		api.log.Debug("message entry names unknown request", slog.String("request_id", entry.RequestID()))
		return false
	}
	for _, id := range entry.Message() {
		if !api.requests.HasAffordanceWithID(id) {
			api.log.Debug("message entry names unknown affordance", slog.String("request_id", entry.RequestID()), slog.String("affordance_id", id))
			return false
		}
	}
	api.table.AddMessage(ctx, entry)
	return true
}

// ResolveRequest returns the first affordance in the request tree, in
// depth-first order, whose method and URI match the given request line.
// Method comparison is case-insensitive; URI comparison is exact. Nil when
// nothing matches.
func (api *API) ResolveRequest(method, uri string) *hyper.Affordance {
	var match *hyper.Affordance
	api.requests.ForEachAffordance(func(a *hyper.Affordance) {
		if match == nil && strings.EqualFold(a.Method(), method) && a.URI() == uri {
			match = a
		}
	})
	return match
}

// CanHost reports whether the API is ready to be bound to a listener: a
// non-empty request tree and a codec.
func (api *API) CanHost() bool {
	return api.requests.Count() > 0 && api.wire != nil
}

// Hoster binds an assembled API to a live listener. Bridges own the
// listener's lifecycle; the API only hands itself over.
type Hoster interface {
	Host(api *API, port string, host string) error
}

// Host hands the API to a server bridge. ErrCannotHost when the API is not
// ready per CanHost.
func (api *API) Host(h Hoster, port, host string) error {
	if h == nil || !api.CanHost() {
		return ErrCannotHost
	}
	return h.Host(api, port, host)
}

// Exchange binds one incoming request, identified by the affordance that
// received it, for the duration of a request/response cycle.
func (api *API) Exchange(requestID string) *Exchange {
	return &Exchange{api: api, requestID: requestID}
}

// Exchange is the per-request view of an API: the bound incoming request
// plus the machinery to assemble the response document.
type Exchange struct {
	api       *API
	requestID string
}

// RequestID returns the bound incoming affordance id, "" when none.
func (x *Exchange) RequestID() string { return x.requestID }

// Respond assembles the response document for the given response code: it
// resolves the message list for the bound exchange, copies every listed
// affordance out of the request tree with metadata cascaded, and serializes
// the resulting collection.
//
// "Nothing to send" — no bound request, no message mapping, or no codec —
// is the empty string, not an error. Ids in a message list that no longer
// resolve are skipped; registration-time validation in AddMessage makes
// that a pathological case rather than an expected one.
func (x *Exchange) Respond(ctx context.Context, code string) string {
	return x.RespondUsing(ctx, code, x.api.wire)
}

// RespondUsing is Respond with the codec chosen per exchange rather than
// taken from the API. Server bridges use it to honor a client's negotiated
// media type.
func (x *Exchange) RespondUsing(ctx context.Context, code string, wire codec.Codec) string {
	api := x.api
	if x.requestID == "" || api.table == nil || wire == nil {
		return ""
	}
	entry := api.table.GetMessageForExchange(ctx, x.requestID, code)
	if entry == nil {
		return ""
	}
	result := hyper.NewAffordances("")
	for _, id := range entry.Message() {
		node := api.requests.CopyAffordanceByID(id)
		if node == nil {
			api.log.Debug("message list names a stale affordance", slog.String("request_id", x.requestID), slog.String("affordance_id", id))
			continue
		}
		result.AddAffordance(node)
	}
	data, err := wire.Encode(result)
	if err != nil {
		api.log.Error("response document failed to encode", slog.String("request_id", x.requestID), slog.String("code", code), slog.String("err", err.Error()))
		return ""
	}
	return string(data)
}
