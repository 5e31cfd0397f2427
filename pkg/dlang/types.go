package dlang

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/goliatone/go-vkgen/pkg/registry"
)

const apiVersionPrefix = "VK_API_VERSION_"

// GenType translates a <type> entry into the section of its category.
// Enum groups arrive through GenGroup instead.
func (e *emitter) GenType(info *registry.TypeInfo, name, alias string) error {
	if info == nil || info.Elem == nil {
		return nil
	}
	if req := info.Requires; strings.HasSuffix(req, ".h") || req == "vk_platform" {
		return nil
	}
	category := info.Category
	if category == "" {
		return nil
	}

	if alias != "" {
		if category == "union" {
			category = "struct"
		}
		if !isTypeSection(category) {
			return nil
		}
		e.appendType(category, fmt.Sprintf("alias %s = %s;", name, alias))
		return nil
	}

	elem := info.Elem
	switch category {
	case "define":
		e.genDefine(elem, name)
	case "basetype":
		e.genBaseType(elem, name)
	case "handle":
		macro := strings.TrimSpace(registry.ChildText(elem, "type"))
		e.appendType("handle", fmt.Sprintf("mixin( %s!q{%s} );", macro, name))
	case "bitmask":
		flags := strings.TrimSpace(registry.ChildText(elem, "type"))
		if flags == "" {
			flags = "VkFlags"
		}
		e.appendType("bitmask", fmt.Sprintf("alias %s = %s;", name, flags))
	case "funcpointer":
		e.genFuncPointer(elem, name)
	case "struct", "union":
		e.genStruct(elem, category, name)
	}
	return nil
}

func isTypeSection(category string) bool {
	for _, candidate := range typeSectionOrder {
		if candidate == category {
			return true
		}
	}
	return false
}

// genDefine handles the two defines with a D counterpart: API version
// numbers and the header version. VK_API_VERSION_1_0 ships with the types
// template.
func (e *emitter) genDefine(elem *etree.Element, name string) {
	if version, ok := strings.CutPrefix(name, apiVersionPrefix); ok && isVersionSuffix(version) {
		if version == "1_0" {
			return
		}
		e.appendType("define", fmt.Sprintf("// Vulkan %s version number", strings.ReplaceAll(version, "_", ".")))
		e.appendType("define", fmt.Sprintf("enum %s = VK_MAKE_API_VERSION( 0, %s, 0 );  // Patch version should always be set to 0",
			name, strings.ReplaceAll(version, "_", ", ")))
		return
	}
	if name == "VK_HEADER_VERSION" {
		if fragments := registry.IterText(elem); len(fragments) > 2 {
			e.headerVersion = "enum VK_HEADER_VERSION =" + fragments[2] + ";"
		}
	}
}

func isVersionSuffix(s string) bool {
	if s == "" || strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}

// genBaseType aliases a typedef to its underlying type. Platform types
// without a <type> child become opaque structs, or void* when declared as
// pointers.
func (e *emitter) genBaseType(elem *etree.Element, name string) {
	typ := elem.SelectElement("type")
	if typ == nil {
		if strings.Contains(strings.Join(registry.IterText(elem), ""), "*") {
			e.appendType("basetype", fmt.Sprintf("alias %s = void*;", name))
			return
		}
		e.appendType("basetype", fmt.Sprintf("struct %s;", name))
		return
	}
	target := strings.TrimSpace(registry.Text(typ))
	if tail := strings.TrimSpace(registry.Tail(typ)); strings.HasPrefix(tail, "*") {
		target += "*"
	}
	e.appendType("basetype", fmt.Sprintf("alias %s = %s;", name, target))
}

// genFuncPointer renders a PFN typedef as a D function pointer alias. Older
// registries spell the signature as text; newer ones use <proto>/<param>.
func (e *emitter) genFuncPointer(elem *etree.Element, name string) {
	e.separate("funcpointer")

	if proto := elem.SelectElement("proto"); proto != nil {
		e.appendType("funcpointer", e.funcPointerFromProto(proto, elem, name))
		return
	}

	text := strings.TrimSpace(registry.Text(elem))
	returnType := strings.TrimSuffix(strings.TrimPrefix(text, "typedef "), " (VKAPI_PTR *")

	var params strings.Builder
	fragments := registry.IterText(elem)
	if len(fragments) > 2 {
		for _, fragment := range fragments[2:] {
			params.WriteString(strings.Replace(fragment, strings.Repeat(" ", 16), "", 1))
		}
	}

	signature := params.String()
	if signature == ")(void);" {
		signature = ");"
	} else {
		if len(signature) >= 2 {
			signature = signature[2:]
		}
		signature = strings.ReplaceAll(signature, ")", "\n)")
		signature = strings.ReplaceAll(signature, "  )", " )")
	}
	e.appendType("funcpointer", fmt.Sprintf("alias %s = %s function(%s", name, returnType, signature))
}

func (e *emitter) funcPointerFromProto(proto, elem *etree.Element, name string) string {
	returnType := strings.TrimSpace(fullType(proto))
	params := registry.ElementsForAPI(elem, "param", e.api)
	if len(params) == 0 {
		return fmt.Sprintf("alias %s = %s function();", name, returnType)
	}

	types := make([]string, len(params))
	width := 0
	for i, param := range params {
		types[i] = strings.TrimSpace(fullType(param))
		width = max(width, len(types[i]))
	}
	lines := make([]string, len(params))
	for i, param := range params {
		lines[i] = e.indent + padRight(types[i], width) + " " + entryName(param)
	}
	return fmt.Sprintf("alias %s = %s function(\n%s\n);", name, returnType, strings.Join(lines, ",\n"))
}
