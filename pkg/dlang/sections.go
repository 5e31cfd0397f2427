package dlang

import (
	"strings"
)

// platformSection describes one static if block list of the platform module.
type platformSection struct {
	key      string
	sections []section
	depth    int
	comment  string
	scope    string
}

var platformSections = []platformSection{
	{"TYPE_DEFINITIONS", []section{sectionTypeDefinitions, sectionFuncTypeAliases}, 2, " : types and function pointer type aliases", ""},
	{"FUNC_DECLARATIONS", []section{sectionFuncDeclarations}, 3, " : function pointer decelerations", ""},
	{"INSTANCE_LEVEL_FUNCS", []section{sectionLoadInstance}, 3, " : load instance level function definitions", ""},
	{"DEVICE_I_LEVEL_FUNCS", []section{sectionLoadDevice}, 3, " : load instance based device level function definitions", "Instance"},
	{"DEVICE_D_LEVEL_FUNCS", []section{sectionLoadDevice}, 3, " : load device based device level function definitions", "Device"},
	{"DISPATCH_MEMBER_FUNCS", []section{sectionLoadDevice}, 4, " : load dispatch device member function definitions", "Device"},
	{"DISPATCH_CONVENIENCE_FUNCS", []section{sectionConvenienceFuncs}, 3, " : dispatch device convenience member functions", ""},
	{"DISPATCH_FUNC_DECLARATIONS", []section{sectionFuncDeclarations}, 3, " : dispatch device member function pointer decelerations", ""},
}

// applyScope fills the device loader markers with "Instance" or "Device".
func applyScope(s, scope string) string {
	if scope == "" {
		return s
	}
	return strings.NewReplacer(scopeMarker, scope, scopeLowerMarker, strings.ToLower(scope)).Replace(s)
}

// dropLast removes the trailing line break of an assembled section.
func dropLast(s string) string {
	if s == "" {
		return s
	}
	return s[:len(s)-1]
}

// functionSection joins one section of every non platform feature, each
// block headed by a comment naming the feature.
func (e *emitter) functionSection(sec section, indent, scope string) string {
	var b strings.Builder
	joiner := "\n" + indent
	for _, feature := range e.featureOrder {
		lines := e.lines(feature, sec)
		if len(lines) == 0 {
			continue
		}
		b.WriteString("\n" + indent + "// " + feature + "\n" + indent + strings.Join(lines, joiner) + "\n")
	}
	return dropLast(applyScope(b.String(), scope))
}

// typesSection joins the type definitions of every non platform feature.
func (e *emitter) typesSection() string {
	var b strings.Builder
	for _, feature := range e.featureOrder {
		lines := e.lines(feature, sectionTypeDefinitions)
		if len(lines) == 0 {
			continue
		}
		b.WriteString("\n// - " + feature + " -\n" + strings.Join(lines, "\n") + "\n")
	}
	return dropLast(b.String())
}

// platformExtensions declares one enum per platform extension, used as
// arguments of the Platform_Extensions mixin template.
func (e *emitter) platformExtensions() string {
	if len(e.platformOrder) == 0 {
		return ""
	}
	names := make([]string, len(e.platformOrder))
	for i, name := range e.platformOrder {
		names[i] = shortName(name)
	}
	return "enum " + strings.Join(names, ";\nenum ") + ";"
}

// platformProtections aliases every protection to the sequence of its
// extensions.
func (e *emitter) platformProtections() string {
	width := 0
	for _, protection := range e.protectionOrder {
		width = max(width, len(protection))
	}
	var b strings.Builder
	for _, protection := range e.protectionOrder {
		b.WriteString("alias " + padRight(shortName(protection), width-3) +
			" = AliasSeq!( " + strings.Join(e.protectionFeatures[protection], ", ") + " );\n")
	}
	return b.String()
}

// platformSection renders a chain of static if blocks, one per platform
// extension with content in the given sections.
func (e *emitter) platformSection(block platformSection) string {
	indent := strings.Repeat(e.indent, block.depth)
	inner := indent + e.indent

	var b strings.Builder
	elsePrefix := ""
	for _, feature := range e.platformOrder {
		var lines []string
		for _, sec := range block.sections {
			lines = append(lines, e.lines(feature, sec)...)
		}
		if len(lines) == 0 {
			continue
		}
		short := shortName(feature)
		b.WriteString("\n" + indent + "// " + short + block.comment + "\n")
		b.WriteString(indent + elsePrefix + "static if( __traits( isSame, extension, " + short + " )) {\n")
		b.WriteString(inner + strings.Join(lines, "\n"+inner) + "\n")
		b.WriteString(indent + "}\n")
		elsePrefix = "else "
	}
	return dropLast(applyScope(b.String(), block.scope))
}

// templateData collects the substitutions shared by all output modules.
func (e *emitter) templateData() map[string]any {
	data := map[string]any{
		"HEADER_VERSION":   e.headerVersion,
		"TYPE_DEFINITIONS": e.typesSection(),

		"FUNC_TYPE_ALIASES": e.functionSection(sectionFuncTypeAliases, e.indent, ""),
		"FUNC_DECLARATIONS": e.functionSection(sectionFuncDeclarations, e.indent, "") + "\n" +
			e.functionSection(sectionFuncAliases, e.indent, ""),
		"GLOBAL_LEVEL_FUNCS":   e.functionSection(sectionLoadGlobal, e.indent, ""),
		"INSTANCE_LEVEL_FUNCS": e.functionSection(sectionLoadInstance, e.indent, ""),
		"DEVICE_I_LEVEL_FUNCS": e.functionSection(sectionLoadDevice, e.indent, "Instance"),
		"DEVICE_D_LEVEL_FUNCS": e.functionSection(sectionLoadDevice, e.indent, "Device"),

		"DISPATCH_MEMBER_FUNCS": e.functionSection(sectionLoadDevice, e.indent+e.indent, "Device"),
		"DISPATCH_CONVENIENCE_FUNCS": e.functionSection(sectionConvenienceFuncs, e.indent, "") + "\n" +
			e.functionSection(sectionConvenienceAliases, e.indent, ""),
		"DISPATCH_FUNC_DECLARATIONS": e.functionSection(sectionDispatchDeclarations, e.indent, "") + "\n" +
			e.functionSection(sectionDispatchAliases, e.indent, ""),
	}
	return data
}

// platformData collects the substitutions of the platform module.
func (e *emitter) platformData() map[string]any {
	data := map[string]any{
		"PLATFORM_EXTENSIONS":  e.platformExtensions(),
		"PLATFORM_PROTECTIONS": e.platformProtections(),
	}
	for _, block := range platformSections {
		data[block.key] = e.platformSection(block)
	}
	return data
}
