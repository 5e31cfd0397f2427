// Package registry exposes the public contracts for loading and walking the
// Vulkan machine-readable registry (vk.xml, video.xml). Loader and parser
// implementations live under internal/registry; this package owns the
// registry model, the Visitor callback contract consumed by language
// generators, and Walk, which drives a Visitor through the selected features
// and extensions in registry order.
package registry
