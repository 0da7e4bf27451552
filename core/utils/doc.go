// Package utils provides loose value conversion helpers used when decoding observations
// reported by media backends, whose JSON payloads mix numbers, numeric strings and booleans.
package utils
