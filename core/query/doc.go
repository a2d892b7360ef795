// Package query translates user searches into declarative content-store
// queries.
//
// A Query targets one entity type and carries a filter expression and a
// projection. Field paths use a small syntax shared by every store:
//
//	title                      plain field
//	pricing.model              nested field
//	badges[]                   array fan-out
//	category->title            one-level reference dereference
//	features[].feature->title  array fan-out followed by a dereference
//
// References are objects of the form {"_ref": "<document id>"}. Stores must
// resolve a dereference inside the same query, never with a second round trip.
package query
