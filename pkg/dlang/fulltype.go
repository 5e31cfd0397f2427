package dlang

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/goliatone/go-vkgen/pkg/registry"
)

const whitespace = " \t\r\n"

// fullType renders the D type of a <member>, <param> or <proto> element:
// leading qualifiers, the <type> text and its pointer tail, followed by the
// array suffix of the <name>. C const pointer forms become D const( ) forms.
func fullType(elem *etree.Element) string {
	if elem == nil {
		return ""
	}
	typ := elem.SelectElement("type")
	if typ == nil {
		return strings.TrimSpace(registry.Text(elem))
	}

	lead := strings.TrimLeft(registry.Text(elem), whitespace)
	lead = strings.TrimPrefix(lead, "struct ")
	typeStr := strings.TrimSpace(registry.Text(typ))
	tail := strings.TrimRight(registry.Tail(typ), whitespace)
	result := lead + typeStr + tail

	switch {
	case strings.HasPrefix(tail, "* c"):
		result = "const( " + typeStr + "* )*"
	case tail == "*" && lead != "":
		result = "const( " + typeStr + " )*"
	}

	if enum := elem.SelectElement("enum"); enum != nil {
		return result + "[ " + strings.TrimSpace(registry.Text(enum)) + " ]"
	}
	if name := elem.SelectElement("name"); name != nil {
		suffix := strings.TrimRight(registry.Tail(name), whitespace)
		if !strings.HasPrefix(strings.TrimSpace(suffix), ":") {
			result += suffix
		}
	}
	return result
}

// bitWidth returns the bit-field width of a struct member declared as
// `name : N`, or zero.
func bitWidth(member *etree.Element) int {
	name := member.SelectElement("name")
	if name == nil {
		return 0
	}
	suffix := strings.TrimSpace(registry.Tail(name))
	rest, ok := strings.CutPrefix(suffix, ":")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// entryName returns the escaped <name> of a member or parameter.
func entryName(elem *etree.Element) string {
	return escapeName(strings.TrimSpace(registry.ChildText(elem, "name")))
}

var dKeywords = map[string]struct{}{
	"abstract": {}, "alias": {}, "align": {}, "asm": {}, "assert": {}, "auto": {},
	"body": {}, "bool": {}, "break": {}, "byte": {}, "case": {}, "cast": {},
	"catch": {}, "char": {}, "class": {}, "const": {}, "continue": {}, "dchar": {},
	"debug": {}, "default": {}, "delegate": {}, "delete": {}, "deprecated": {},
	"do": {}, "double": {}, "else": {}, "enum": {}, "export": {}, "extern": {},
	"false": {}, "final": {}, "finally": {}, "float": {}, "for": {}, "foreach": {},
	"function": {}, "goto": {}, "if": {}, "immutable": {}, "import": {}, "in": {},
	"inout": {}, "int": {}, "interface": {}, "invariant": {}, "is": {}, "lazy": {},
	"long": {}, "macro": {}, "mixin": {}, "module": {}, "new": {}, "nothrow": {},
	"null": {}, "out": {}, "override": {}, "package": {}, "pragma": {}, "private": {},
	"protected": {}, "public": {}, "pure": {}, "real": {}, "ref": {}, "return": {},
	"scope": {}, "shared": {}, "short": {}, "static": {}, "struct": {}, "super": {},
	"switch": {}, "synchronized": {}, "template": {}, "this": {}, "throw": {},
	"true": {}, "try": {}, "typeid": {}, "typeof": {}, "ubyte": {}, "uint": {},
	"ulong": {}, "union": {}, "unittest": {}, "ushort": {}, "version": {},
	"void": {}, "wchar": {}, "while": {}, "with": {},
}

// escapeName prefixes D keywords with an underscore.
func escapeName(name string) string {
	if _, ok := dKeywords[name]; ok {
		return "_" + name
	}
	return name
}

// dValue rewrites C literal suffixes D does not accept.
func dValue(value string) string {
	if strings.HasPrefix(value, `"`) {
		return value
	}
	if v, ok := strings.CutSuffix(value, "ULL)"); ok {
		return v + "UL)"
	}
	if v, ok := strings.CutSuffix(value, "ULL"); ok {
		return v + "UL"
	}
	return value
}

// padRight left-justifies s in a field of width n.
func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

// shortName drops the VK_ prefix of feature and protect names.
func shortName(name string) string {
	if len(name) <= 3 {
		return name
	}
	return name[3:]
}

// stripVk drops the vk prefix of command names.
func stripVk(name string) string {
	if len(name) <= 2 {
		return name
	}
	return name[2:]
}
