// Package planner turns a set of root identities into an ordered, closed set
// of artifacts.
//
// A plan joins the transitive dependency closure of its roots through the
// registry. Dependencies that are not loaded yet are fetched from the
// resolver at most once each, and anything still missing is awaited through
// registry events until the context ends. Each event recomputes the closure
// from the roots, so an updated artifact contributes only its current
// dependencies. The closed set is then ordered with depgraph.Resolve.
package planner
