// Package layout finds the structural anchor of a script export: the header
// row and the character/dialogue column pair. Headers move between sources,
// so the character-column label is the only anchor the detector trusts.
package layout
