package view

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collator compares strings the way a human-facing list expects:
// case-insensitively first, with accented letters next to their base letter.
// A collate.Collator keeps scratch buffers and is not safe for concurrent
// use, so each grouping or sorting pass creates its own.
type collator struct {
	c *collate.Collator
}

func newCollator() *collator {
	return &collator{c: collate.New(language.Und, collate.IgnoreCase)}
}

// compare orders a and b. Strings that collate equal fall back to byte
// order so the result is total.
func (c *collator) compare(a, b string) int {
	if r := c.c.CompareString(a, b); r != 0 {
		return r
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
