package dlang

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/goliatone/go-vkgen/pkg/registry"
)

// Aliases are padded past the function column by the width of "alias ".
const aliasExtra = 6

const allocationCallbacks = "const( VkAllocationCallbacks )*"

// receivers maps the first parameter type of a device level command to the
// DispatchDevice member passed in its place by convenience functions.
var receivers = map[string]string{
	"VkDevice":        "vkDevice",
	"VkCommandBuffer": "commandBuffer",
}

// GenCmd translates a command into its function pointer type, declaration,
// loader statement and DispatchDevice members.
func (e *emitter) GenCmd(info *registry.CmdInfo, name, alias string) error {
	if info == nil || len(info.Params) == 0 {
		e.logger.Warn("dlang: command without parameters skipped", "name", name)
		return nil
	}
	width := len(name)
	e.grow(columnFunc, width)

	params := info.Params
	firstType := strings.TrimSpace(fullType(params[0]))

	if alias != "" {
		e.genCmdAlias(name, alias, firstType)
		return nil
	}

	returnType := strings.TrimSpace(fullType(info.Proto))
	doReturn := ""
	if returnType == "void" {
		returnType = "void    "
	} else {
		doReturn = "return "
	}

	e.add(sectionFuncTypeAliases, fragment{
		text:  fmt.Sprintf("alias PFN_%s%s = %s  function( %s );", name, padMarker, returnType, joinParams(params)),
		width: width,
		col:   columnFunc,
	})
	e.add(sectionFuncDeclarations, fragment{
		text:  fmt.Sprintf("PFN_%s%s %s;", name, padMarker, name),
		width: width,
		col:   columnFunc,
	})

	switch {
	case name == "vkGetInstanceProcAddr":
		// loaded from the implementation library
	case !isDispatchable(firstType):
		e.add(sectionLoadGlobal, loader(name, "null", columnGlobal))
		e.grow(columnGlobal, width)
	case firstType == "VkInstance" || firstType == "VkPhysicalDevice" || name == "vkGetDeviceProcAddr":
		e.add(sectionLoadInstance, loader(name, "instance", columnInstance))
		e.grow(columnInstance, width)
	default:
		e.add(sectionLoadDevice, fragment{
			text: fmt.Sprintf("%s%s = cast( PFN_%s%s ) vkGet%sProcAddr( %s, \"%s\" );",
				name, padMarker, name, padMarker, scopeMarker, scopeLowerMarker, name),
			width: width,
			col:   columnDevice,
		})
		e.add(sectionDispatchDeclarations, fragment{
			text:  fmt.Sprintf("PFN_%s%s %s;", name, padMarker, name),
			width: width,
			col:   columnDevice,
		})
		e.grow(columnDevice, width)

		if receiver, ok := receivers[firstType]; ok {
			e.add(sectionConvenienceFuncs, fragment{
				text: e.convenience(name, returnType, doReturn, receiver, params[1:]),
			})
		}
	}
	return nil
}

func (e *emitter) genCmdAlias(name, alias, firstType string) {
	width := len(name)
	e.add(sectionFuncAliases, fragment{
		text:  fmt.Sprintf("alias %s%s = %s;", name, padMarker, alias),
		width: width,
		col:   columnFunc,
		extra: aliasExtra,
	})

	switch firstType {
	case "VkDevice", "VkCommandBuffer":
		e.add(sectionConvenienceAliases, fragment{
			text:  fmt.Sprintf("alias %s%s = %s;", stripVk(name), padMarker, stripVk(alias)),
			width: width,
			col:   columnDevice,
			extra: aliasExtra,
		})
		fallthrough
	case "VkQueue":
		e.add(sectionDispatchAliases, fragment{
			text:  fmt.Sprintf("alias %s%s = %s;", name, padMarker, alias),
			width: width,
			col:   columnDevice,
			extra: aliasExtra,
		})
		e.grow(columnDevice, width)
	}
}

// convenience renders a DispatchDevice member forwarding to the device level
// function pointer with the receiver and allocator supplied by the device.
func (e *emitter) convenience(name, returnType, doReturn, receiver string, params []*etree.Element) string {
	var args strings.Builder
	typed := make([]string, 0, len(params))
	for _, param := range params {
		paramName := entryName(param)
		args.WriteString(", " + paramName)

		typ := strings.TrimSpace(fullType(param))
		if strings.HasPrefix(typ, allocationCallbacks) {
			continue
		}
		typed = append(typed, typ+" "+paramName)
	}
	out := fmt.Sprintf("%s  %s( %s ) { %s%s( %s%s ); }",
		returnType, stripVk(name), strings.Join(typed, ", "), doReturn, name, receiver, args.String())
	return strings.ReplaceAll(out, "(  )", "()")
}

func loader(name, handle string, col column) fragment {
	return fragment{
		text: fmt.Sprintf("%s%s = cast( PFN_%s%s ) vkGetInstanceProcAddr( %s, \"%s\" );",
			name, padMarker, name, padMarker, handle, name),
		width: len(name),
		col:   col,
	}
}

func joinParams(params []*etree.Element) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = strings.TrimSpace(fullType(param)) + " " + entryName(param)
	}
	return strings.Join(parts, ", ")
}

func isDispatchable(typ string) bool {
	switch typ {
	case "VkInstance", "VkPhysicalDevice", "VkDevice", "VkQueue", "VkCommandBuffer":
		return true
	}
	return false
}
