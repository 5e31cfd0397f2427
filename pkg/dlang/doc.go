// Package dlang generates D language bindings from a Vulkan registry.
//
// The generator walks the registry with an emitter that implements
// registry.Visitor. The emitter translates every type, enum group, constant
// and command into D declarations and files them per feature. Once the walk
// completes the accumulated fragments are aligned and spliced into the
// embedded pongo2 templates, one per output module:
//
//	package.d              module <prefix>
//	types.d                module <prefix>.types
//	functions.d            module <prefix>.functions
//	dispatch_device.d      module <prefix>.dispatch_device
//	platform_extensions.d  module <prefix>.platform.mixin_extensions
//	vulkan_lib_loader.d    module <prefix>.vulkan_lib_loader
//	vk_video.d             module <prefix>.vk_video (video registry only)
package dlang
