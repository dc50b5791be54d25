// Package depgraph linearizes a set of interdependent artifacts into a safe
// processing order.
//
// # Ordering Contract
//
// Edges point from an artifact to each of its dependencies ("A depends on B").
// Sort returns every added node exactly once such that for every edge A -> B,
// A appears before B: dependents precede dependencies. Consumers that need the
// opposite, execution-style order simply reverse the result.
//
// # Algorithm
//
// The graph is resolved leaves-first with Kahn's algorithm, working in passes:
//
//  1. Every node starts with a count of its distinct, not yet settled
//     dependencies. Targets that were never added as nodes (dangling
//     references) are treated as already settled leaves.
//  2. Each pass collects all unsettled nodes whose count is zero, in insertion
//     order, and settles them in that order, decrementing the counts of the
//     nodes that depend on them.
//  3. A pass that finds nothing while nodes remain means a cycle. Sort fails
//     with a *CyclicDependencyError; SortIgnoreCycle settles the earliest-added
//     remaining node unconditionally and carries on.
//  4. The resulting resolution order (dependencies first) is reversed.
//
// Tie-breaking depends on insertion order of nodes and of each node's edges,
// so callers that need reproducible output must add artifacts in a stable
// order.
//
// # Lifecycle
//
// A Graph is single-shot: build it, sort it, discard it. It is not safe for
// concurrent use and does not copy the artifacts handed to it.
package depgraph
