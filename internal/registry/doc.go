// Package registry provides the live table that binds artifact identities to
// the artifacts currently loaded, and brokers references between artifacts
// that appear, change and disappear in arbitrary order.
//
// Producers (catalog loaders, file watchers) call Register, Update and
// Deregister as artifacts come and go. Consumers call LookupDependency with
// the ids they need: they immediately get whatever is already resolved and a
// standing watch on every requested id. From then on the consumer's Listener
// is told when a watched id is resolved, updated or deregistered, exactly once
// per change, until it calls DeregisterCallback.
//
// A Registry is an explicit instance; there is no process-wide default. All
// operations are mutually exclusive over the artifact table and the watch
// table together. Listener callbacks are always invoked after the internal
// lock has been released, so a listener may call back into the registry from
// its own notification handler.
package registry
