// Package conv provides checked integer conversions for ids that are stored
// as int32 record fields.
//
// Conversions that are safe by construction (loop indices, record offsets
// already bounded by capacity) use plain casts instead.
package conv
