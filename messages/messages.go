// Package messages maps exchanges — (request affordance id, response code)
// pairs — to the ordered list of affordance identifiers that should be
// offered to the client when that exchange concludes. The document
// assembler consults this table on every response.
//
// Lookups follow the model's sentinel policy: an absent mapping is a nil
// result, never an error. Implementations that talk to external stores
// absorb transport failures internally and report them through their own
// logger.
package messages

import "context"

// Entry binds one exchange to its affordance id list.
type Entry struct {
	requestID string
	code      string
	ids       []string
}

// NewEntry constructs an Entry. An empty request id, an empty response
// code, or an id list that is empty or contains an empty identifier yields
// nil.
func NewEntry(requestID, code string, ids []string) *Entry {
	if requestID == "" || code == "" || len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if id == "" {
			return nil
		}
	}
	msg := make([]string, len(ids))
	copy(msg, ids)
	return &Entry{requestID: requestID, code: code, ids: msg}
}

// RequestID returns the id of the affordance that received the request.
func (e *Entry) RequestID() string { return e.requestID }

// Code returns the response code half of the exchange.
func (e *Entry) Code() string { return e.code }

// Message returns the ordered affordance id list for the exchange.
func (e *Entry) Message() []string {
	out := make([]string, len(e.ids))
	copy(out, e.ids)
	return out
}

// Table is the message-table collaborator consulted by the document
// assembler.
type Table interface {
	// HasMessageForExchange reports whether a mapping exists.
	HasMessageForExchange(ctx context.Context, requestID, code string) bool

	// GetMessageForExchange returns the entry for an exchange, nil when no
	// mapping exists.
	GetMessageForExchange(ctx context.Context, requestID, code string) *Entry

	// AddMessage installs an entry, replacing any prior mapping for the
	// same exchange. A nil entry is ignored.
	AddMessage(ctx context.Context, entry *Entry)

	// Count returns the number of installed entries.
	Count(ctx context.Context) int
}
