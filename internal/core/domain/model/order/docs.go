// Package order models what the dispatch service knows about the companion
// order aggregate, which is owned by another service.
//
// The package includes:
//   - Status: the order aggregate's own lifecycle and its mapping from route
//     statuses
//   - DeliverySnapshot: the denormalized delivery fields mirrored onto the order
//     and carried by the published delivery events
package order
