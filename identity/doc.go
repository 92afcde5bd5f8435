// Package identity generates opaque task identifiers, used when tasks are
// requested without an ID of their own.
//
// Identifiers are 128 random bits, plus a few to even out the leading
// character, rendered as exactly 25 base36 characters.
package identity
