// internal/eid/doc.go

/*
Package eid provides the identifier type used as the sole key for every
cross-reference between artifacts.

An EID is a 128-bit value with a canonical, lowercase `8-4-4-4-12` hex form.
It is built in one of two ways:

  - Parse preserves an existing UUID-shaped string and fails on anything else.
  - Derive hashes an arbitrary string into a UUID-shaped value. The scheme is
    MD5 over the raw bytes with version 3 and RFC 4122 variant bits, which is
    bit-compatible with identifiers already stored by older tooling. It must
    never change.

EIDs are comparable and can be used directly as map keys. Ordering follows the
canonical string form.
*/
package eid
