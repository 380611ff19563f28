// Package hash provides the CRC32-Castagnoli checksums that guard persisted
// segment files and snapshot tables.
package hash
