// Package cli implements the vkgen command line: flag and config file
// layering, optional interactive prompts and the generation run.
package cli
