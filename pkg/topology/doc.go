// Package topology decides whether an arbitrary planar curve network denotes
// exactly one closed region: a simple region or a parity region with one
// hole.
//
// Validation is a fixed sequence of stages over all loops of the network:
//
//  1. Collect loops. Tagged loops are taken as given; untagged curves are
//     grouped by endpoint coincidence and chained. A chain that does not
//     return to its start is NotClosed.
//  2. Planarity. Every vertex must lie on the z=0 plane.
//  3. Area. Every loop must enclose more than MinArea.
//  4. Classification. Exactly one outer loop with at most one nested inner
//     loop is valid; anything else is MultipleRegions.
//
// The first failing stage is terminal. The network is never modified.
package topology
