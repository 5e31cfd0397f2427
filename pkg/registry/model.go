package registry

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Feature categories.
const (
	CategoryFeature   = "feature"
	CategoryExtension = "extension"
)

// Registry is the parsed form of a registry document. Dictionaries are keyed
// by entry name; Features keeps the document order of <feature> and
// <extension> elements.
type Registry struct {
	API       string
	Root      *etree.Element
	Features  []*FeatureInfo
	Types     map[string]*TypeInfo
	Enums     map[string]*EnumInfo
	Groups    map[string]*GroupInfo
	Commands  map[string]*CmdInfo
	Platforms map[string]string

	// typeOrder, groupOrder and cmdOrder preserve declaration order for
	// callers that need deterministic iteration over the dictionaries.
	typeOrder  []string
	groupOrder []string
	cmdOrder   []string
}

// NewRegistry returns an empty Registry for the given API.
func NewRegistry(api string) *Registry {
	if api == "" {
		api = DefaultAPIName
	}
	return &Registry{
		API:       api,
		Types:     make(map[string]*TypeInfo),
		Enums:     make(map[string]*EnumInfo),
		Groups:    make(map[string]*GroupInfo),
		Commands:  make(map[string]*CmdInfo),
		Platforms: make(map[string]string),
	}
}

// AddType registers a type. The first definition of a name wins.
func (r *Registry) AddType(info *TypeInfo) bool {
	if info == nil || info.Name == "" {
		return false
	}
	if _, exists := r.Types[info.Name]; exists {
		return false
	}
	r.Types[info.Name] = info
	r.typeOrder = append(r.typeOrder, info.Name)
	return true
}

// AddGroup registers an <enums> group.
func (r *Registry) AddGroup(info *GroupInfo) bool {
	if info == nil || info.Name == "" {
		return false
	}
	if _, exists := r.Groups[info.Name]; exists {
		return false
	}
	r.Groups[info.Name] = info
	r.groupOrder = append(r.groupOrder, info.Name)
	return true
}

// AddEnum registers an enumerant definition.
func (r *Registry) AddEnum(info *EnumInfo) bool {
	if info == nil || info.Name == "" {
		return false
	}
	if _, exists := r.Enums[info.Name]; exists {
		return false
	}
	r.Enums[info.Name] = info
	return true
}

// AddCommand registers a command.
func (r *Registry) AddCommand(info *CmdInfo) bool {
	if info == nil || info.Name == "" {
		return false
	}
	if _, exists := r.Commands[info.Name]; exists {
		return false
	}
	r.Commands[info.Name] = info
	r.cmdOrder = append(r.cmdOrder, info.Name)
	return true
}

// TypeNames returns type names in declaration order.
func (r *Registry) TypeNames() []string {
	return append([]string(nil), r.typeOrder...)
}

// GroupNames returns group names in declaration order.
func (r *Registry) GroupNames() []string {
	return append([]string(nil), r.groupOrder...)
}

// CommandNames returns command names in declaration order.
func (r *Registry) CommandNames() []string {
	return append([]string(nil), r.cmdOrder...)
}

// Feature returns the feature or extension with the given name.
func (r *Registry) Feature(name string) (*FeatureInfo, bool) {
	for _, f := range r.Features {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// FeatureInfo describes a core API version (<feature>) or an extension.
type FeatureInfo struct {
	Name     string
	Category string
	Elem     *etree.Element

	// APIs lists the api attribute of a <feature>.
	APIs []string
	// Version is the "number" attribute of a <feature> (e.g. "1.2").
	Version string
	// Number is the extension number; zero for features.
	Number int
	// Supported lists the supported attribute of an <extension>.
	Supported []string
	Platform  string
	SortOrder int
}

// IsExtension reports whether the feature is an <extension>.
func (f *FeatureInfo) IsExtension() bool {
	return f != nil && f.Category == CategoryExtension
}

// VersionParts splits Version into numeric components for ordering.
func (f *FeatureInfo) VersionParts() []int {
	if f == nil || f.Version == "" {
		return nil
	}
	fields := strings.Split(f.Version, ".")
	parts := make([]int, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			n = 0
		}
		parts = append(parts, n)
	}
	return parts
}

// TypeInfo wraps a <type> element.
type TypeInfo struct {
	Name      string
	Category  string
	Alias     string
	Requires  string
	BitValues string
	Elem      *etree.Element
}

// GroupInfo wraps an <enums> block together with the enumerants injected into
// it by features and extensions through `extends`.
type GroupInfo struct {
	Name     string
	Type     string
	BitWidth int
	Elem     *etree.Element
	Enums    []*EnumInfo
}

// IsBitmask reports whether the group holds flag bits.
func (g *GroupInfo) IsBitmask() bool {
	return g != nil && g.Type == "bitmask"
}

// EnumInfo wraps an <enum> element. Group names the <enums> block that
// defines it; Extends is set for enumerants injected by a feature or
// extension, in which case ExtName records the contributor and ExtNumber the
// extension number used for offset arithmetic.
type EnumInfo struct {
	Name      string
	Group     string
	Extends   string
	Alias     string
	ExtName   string
	ExtNumber int
	Elem      *etree.Element
}

// CmdInfo wraps a <command> element. Alias-only commands inherit Proto and
// Params from the command they alias.
type CmdInfo struct {
	Name   string
	Alias  string
	Elem   *etree.Element
	Proto  *etree.Element
	Params []*etree.Element
}

