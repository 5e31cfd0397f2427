package parser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/goliatone/go-vkgen/internal/ctxlog"
	"github.com/goliatone/go-vkgen/pkg/registry"
)

// Parser implements registry.Parser using etree, which keeps the mixed
// content (leading text, tails) that type declarations are built from.
type Parser struct {
	options registry.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ registry.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options registry.ParserOptions) registry.Parser {
	if options.APIName == "" {
		options.APIName = registry.DefaultAPIName
	}
	return &Parser{options: options}
}

// Parse converts a Document into the registry model.
func (p *Parser) Parse(ctx context.Context, doc registry.Document) (*registry.Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("registry parser: document payload is empty")
	}

	xmlDoc := etree.NewDocument()
	if err := xmlDoc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("registry parser: read %s: %w", doc.Location(), err)
	}
	root := xmlDoc.Root()
	if root == nil || root.Tag != "registry" {
		return nil, fmt.Errorf("registry parser: %s: missing <registry> root element", doc.Location())
	}

	api := p.options.APIName
	reg := registry.NewRegistry(api)
	reg.Root = root

	parsePlatforms(reg, root)
	parseTypes(reg, root, api)
	parseGroups(reg, root, api)
	parseCommands(reg, root, api)
	if err := parseFeatures(reg, root, api); err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("registry parser: parsed document",
		"location", doc.Location(),
		"types", len(reg.Types),
		"groups", len(reg.Groups),
		"commands", len(reg.Commands),
		"features", len(reg.Features),
	)
	return reg, nil
}

func parsePlatforms(reg *registry.Registry, root *etree.Element) {
	for _, platform := range root.FindElements("./platforms/platform") {
		name := platform.SelectAttrValue("name", "")
		if name == "" {
			continue
		}
		reg.Platforms[name] = platform.SelectAttrValue("protect", "")
	}
}

func parseTypes(reg *registry.Registry, root *etree.Element, api string) {
	for _, block := range root.SelectElements("types") {
		for _, elem := range registry.ElementsForAPI(block, "type", api) {
			reg.AddType(&registry.TypeInfo{
				Name:      registry.EntryName(elem),
				Category:  elem.SelectAttrValue("category", ""),
				Alias:     elem.SelectAttrValue("alias", ""),
				Requires:  elem.SelectAttrValue("requires", ""),
				BitValues: elem.SelectAttrValue("bitvalues", ""),
				Elem:      elem,
			})
		}
	}
}

func parseGroups(reg *registry.Registry, root *etree.Element, api string) {
	for _, block := range root.SelectElements("enums") {
		if !registry.MatchAPI(block.SelectAttrValue("api", ""), api) {
			continue
		}
		group := &registry.GroupInfo{
			Name: block.SelectAttrValue("name", ""),
			Type: block.SelectAttrValue("type", ""),
			Elem: block,
		}
		if width := block.SelectAttrValue("bitwidth", ""); width != "" {
			group.BitWidth, _ = strconv.Atoi(width)
		}
		for _, elem := range registry.ElementsForAPI(block, "enum", api) {
			enum := &registry.EnumInfo{
				Name:  elem.SelectAttrValue("name", ""),
				Group: group.Name,
				Alias: elem.SelectAttrValue("alias", ""),
				Elem:  elem,
			}
			group.Enums = append(group.Enums, enum)
			reg.AddEnum(enum)
		}
		reg.AddGroup(group)
	}
}

func parseCommands(reg *registry.Registry, root *etree.Element, api string) {
	for _, block := range root.SelectElements("commands") {
		for _, elem := range registry.ElementsForAPI(block, "command", api) {
			reg.AddCommand(&registry.CmdInfo{
				Name:   registry.EntryName(elem),
				Alias:  elem.SelectAttrValue("alias", ""),
				Elem:   elem,
				Proto:  elem.SelectElement("proto"),
				Params: registry.ElementsForAPI(elem, "param", api),
			})
		}
	}

	for _, name := range reg.CommandNames() {
		cmd := reg.Commands[name]
		if cmd.Proto != nil || cmd.Alias == "" {
			continue
		}
		if target := resolveCommandAlias(reg, cmd.Alias); target != nil {
			cmd.Proto = target.Proto
			cmd.Params = target.Params
		}
	}
}

// resolveCommandAlias follows alias chains to the command that carries the
// prototype.
func resolveCommandAlias(reg *registry.Registry, name string) *registry.CmdInfo {
	seen := make(map[string]bool)
	for name != "" && !seen[name] {
		seen[name] = true
		cmd, ok := reg.Commands[name]
		if !ok {
			return nil
		}
		if cmd.Proto != nil {
			return cmd
		}
		name = cmd.Alias
	}
	return nil
}

func parseFeatures(reg *registry.Registry, root *etree.Element, api string) error {
	for _, elem := range root.SelectElements("feature") {
		info := &registry.FeatureInfo{
			Name:      elem.SelectAttrValue("name", ""),
			Category:  registry.CategoryFeature,
			Elem:      elem,
			APIs:      splitList(elem.SelectAttrValue("api", "")),
			Version:   elem.SelectAttrValue("number", ""),
			SortOrder: registry.ParseSortOrder(elem.SelectAttrValue("sortorder", "")),
		}
		if info.Name == "" {
			return errors.New("registry parser: <feature> without name")
		}
		reg.Features = append(reg.Features, info)
		injectEnums(reg, info, api)
	}

	for _, block := range root.SelectElements("extensions") {
		for _, elem := range block.SelectElements("extension") {
			info := &registry.FeatureInfo{
				Name:      elem.SelectAttrValue("name", ""),
				Category:  registry.CategoryExtension,
				Elem:      elem,
				Supported: splitList(elem.SelectAttrValue("supported", "")),
				Platform:  elem.SelectAttrValue("platform", ""),
				SortOrder: registry.ParseSortOrder(elem.SelectAttrValue("sortorder", "")),
			}
			if info.Name == "" {
				return errors.New("registry parser: <extension> without name")
			}
			if number := elem.SelectAttrValue("number", ""); number != "" {
				n, err := strconv.Atoi(number)
				if err != nil {
					return fmt.Errorf("registry parser: extension %s: invalid number %q", info.Name, number)
				}
				info.Number = n
			}
			reg.Features = append(reg.Features, info)
			injectEnums(reg, info, api)
		}
	}
	return nil
}

// injectEnums registers the enumerants a feature defines. Enumerants that
// extend a group are appended to that group and remember their contributor.
func injectEnums(reg *registry.Registry, feature *registry.FeatureInfo, api string) {
	for _, block := range registry.ElementsForAPI(feature.Elem, "require", api) {
		for _, elem := range registry.ElementsForAPI(block, "enum", api) {
			name := elem.SelectAttrValue("name", "")
			extends := elem.SelectAttrValue("extends", "")
			enum := &registry.EnumInfo{
				Name:      name,
				Extends:   extends,
				Alias:     elem.SelectAttrValue("alias", ""),
				ExtName:   feature.Name,
				ExtNumber: feature.Number,
				Elem:      elem,
			}
			switch {
			case extends != "":
				enum.Group = extends
				if group, ok := reg.Groups[extends]; ok {
					group.Enums = append(group.Enums, enum)
				}
				reg.AddEnum(enum)
			case elem.SelectAttr("value") != nil || elem.SelectAttr("bitpos") != nil || enum.Alias != "":
				reg.AddEnum(enum)
			}
		}
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
