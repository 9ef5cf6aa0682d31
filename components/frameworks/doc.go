// Package frameworks provides a small net/http handler that serves the
// framework catalog as JSON options for form inputs: framework names for the
// framework select, and, when a framework is named in the query, its known
// versions for the dependent version select.
//
// The default handler responds to GET and HEAD requests and supports query,
// framework, and limit parameters. The backing data is the embedded catalog
// from pkg/catalog unless a custom one is supplied.
package frameworks
