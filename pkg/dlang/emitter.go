package dlang

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-vkgen/internal/ctxlog"
	"github.com/goliatone/go-vkgen/pkg/registry"
)

// section names a per feature fragment list.
type section int

const (
	sectionTypeDefinitions section = iota
	sectionFuncTypeAliases
	sectionFuncDeclarations
	sectionFuncAliases
	sectionLoadGlobal
	sectionLoadInstance
	sectionLoadDevice
	sectionConvenienceFuncs
	sectionConvenienceAliases
	sectionDispatchDeclarations
	sectionDispatchAliases
	sectionCount
)

// column selects the width counter a fragment is aligned against.
type column int

const (
	columnNone column = iota
	columnFunc
	columnGlobal
	columnInstance
	columnDevice
	columnCount
)

// Markers substituted while assembling output. padMarker receives alignment
// padding; the scope markers receive "Instance"/"Device" and their lowercase
// form when device level loaders are rendered.
const (
	padMarker        = "\x00"
	scopeMarker      = "\x01"
	scopeLowerMarker = "\x02"
)

// fragment is a generated line awaiting alignment.
type fragment struct {
	text  string
	width int
	col   column
	extra int
}

type featureContent struct {
	sections [sectionCount][]fragment
}

// typeSectionOrder is the order type declarations are written per feature.
var typeSectionOrder = []string{
	"include", "define", "basetype", "handle", "enum", "group", "bitmask", "funcpointer", "struct",
}

// emitter is the registry.Visitor translating entries into D fragments.
type emitter struct {
	indent string
	api    string
	logger *slog.Logger

	platforms     map[string]string
	headerVersion string
	widths        [columnCount]int

	featureOrder       []string
	platformOrder      []string
	protectionOrder    []string
	protectionFeatures map[string][]string
	content            map[string]*featureContent

	current string
	emit    bool
	types   map[string][]string
}

var _ registry.Visitor = (*emitter)(nil)

func newEmitter(indent string, logger *slog.Logger) *emitter {
	if indent == "" {
		indent = DefaultIndent
	}
	if logger == nil {
		logger = ctxlog.Discard()
	}
	return &emitter{
		indent:             indent,
		api:                registry.DefaultAPIName,
		logger:             logger,
		platforms:          make(map[string]string),
		protectionFeatures: make(map[string][]string),
		content:            make(map[string]*featureContent),
		types:              make(map[string][]string),
	}
}

func (e *emitter) BeginFile(reg *registry.Registry) error {
	if reg == nil {
		return nil
	}
	if reg.API != "" {
		e.api = reg.API
	}
	for name, protect := range reg.Platforms {
		e.platforms[name] = protect
	}
	return nil
}

func (e *emitter) EndFile() error {
	e.logger.Debug("dlang: registry translated",
		"features", len(e.featureOrder),
		"platform_features", len(e.platformOrder),
		"protections", len(e.protectionOrder),
	)
	return nil
}

func (e *emitter) BeginFeature(feature *registry.FeatureInfo, emit bool) error {
	name := feature.Name

	protection := ""
	if feature.Platform != "" {
		protection = e.platforms[feature.Platform]
	}
	if protection != "" {
		if _, seen := e.protectionFeatures[protection]; !seen {
			e.protectionOrder = append(e.protectionOrder, protection)
		}
		e.protectionFeatures[protection] = append(e.protectionFeatures[protection], shortName(name))
		e.platformOrder = append(e.platformOrder, name)
	} else {
		e.featureOrder = append(e.featureOrder, name)
	}

	content := &featureContent{}
	content.sections[sectionTypeDefinitions] = []fragment{{text: "enum " + name + " = 1;\n"}}
	e.content[name] = content

	e.current = name
	e.emit = emit
	e.types = make(map[string][]string)

	e.logger.Debug("dlang: begin feature", "name", name, "emit", emit, "protection", protection)
	return nil
}

func (e *emitter) EndFeature() error {
	if !e.emit {
		return nil
	}
	content := e.content[e.current]
	for _, category := range typeSectionOrder {
		lines := e.types[category]
		if len(lines) == 0 {
			continue
		}
		for _, line := range lines {
			content.sections[sectionTypeDefinitions] = append(content.sections[sectionTypeDefinitions], fragment{text: line})
		}
		content.sections[sectionTypeDefinitions] = append(content.sections[sectionTypeDefinitions], fragment{})
	}
	return nil
}

// appendType adds a declaration line to a type section of the current feature.
func (e *emitter) appendType(category, line string) {
	e.types[category] = append(e.types[category], line)
}

// separate appends an empty line when the section already has content.
func (e *emitter) separate(category string) {
	if len(e.types[category]) > 0 {
		e.appendType(category, "")
	}
}

// add appends a function fragment to the current feature.
func (e *emitter) add(sec section, frag fragment) {
	content := e.content[e.current]
	if content == nil {
		return
	}
	content.sections[sec] = append(content.sections[sec], frag)
}

func (e *emitter) grow(col column, width int) {
	if width > e.widths[col] {
		e.widths[col] = width
	}
}

// resolve substitutes the alignment padding of a fragment.
func (e *emitter) resolve(frag fragment) string {
	if !strings.Contains(frag.text, padMarker) {
		return frag.text
	}
	pad := 0
	if frag.col != columnNone {
		pad = e.widths[frag.col] - frag.width + frag.extra
	}
	if pad < 0 {
		pad = 0
	}
	return strings.ReplaceAll(frag.text, padMarker, strings.Repeat(" ", pad))
}

// lines returns the aligned lines of one section of a feature.
func (e *emitter) lines(feature string, sec section) []string {
	content := e.content[feature]
	if content == nil || len(content.sections[sec]) == 0 {
		return nil
	}
	out := make([]string, 0, len(content.sections[sec]))
	for _, frag := range content.sections[sec] {
		out = append(out, e.resolve(frag))
	}
	return out
}
