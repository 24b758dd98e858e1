// Package hyper models a hypermedia API as a tree of affordances: the
// actions a server is willing to service, described richly enough for a
// client to drive the application through them.
//
// The model has three building blocks:
//
//   - Input describes one form field of an action (identifier, default
//     value, validation constraints).
//   - Affordance describes one action: identifier, method, target URI,
//     optional relation and metadata, an ordered list of Inputs, and a
//     per-response-code message table naming which affordances should be
//     offered next.
//   - Affordances is a composite node: an ordered collection whose elements
//     are each either an Affordance or another Affordances, with optional
//     identifier and metadata of its own.
//
// Metadata cascades down the tree at retrieval time: when an affordance is
// copied out of a tree with CopyAffordanceByID, every ancestor on the path
// contributes its metadata, nearest ancestor winning on key collision. The
// canonical tree is never mutated by retrieval; cascade results live only on
// the returned copy.
//
// Mutators across the package are total functions: a malformed argument is
// ignored and the prior value kept, with no error signaled. This permissive
// policy is part of the public contract and is relied upon by hand-authored
// trees; do not tighten it.
package hyper
