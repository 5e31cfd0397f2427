// Package template defines the template rendering seam used by language
// generators. The gotemplate subpackage provides the pongo2 implementation.
package template
