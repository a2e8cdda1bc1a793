// Package textutil provides filename sanitization for output naming.
package textutil
