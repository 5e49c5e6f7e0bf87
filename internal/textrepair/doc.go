// Package textrepair fixes character names corrupted by a historical
// byte-to-text decoding mismatch. It applies an allow-listed table of known
// corruptions and deliberately refuses to guess at anything outside it.
package textrepair
