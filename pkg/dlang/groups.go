package dlang

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-vkgen/pkg/registry"
)

var (
	snakeBoundary = regexp.MustCompile(`([0-9a-z_])([A-Z0-9][^A-Z0-9]?)`)
	vendorSuffix  = regexp.MustCompile(`[A-Z][A-Z]+$`)
)

// len("_BEGIN_RANGE") + 1
const rangeNameExtra = 13

const (
	maxEnum32 = "0x7FFFFFFF"
	maxEnum64 = "0x7FFFFFFFFFFFFFFF"
)

// groupHeader opens the scoped enum. 64-bit flag groups need an explicit
// ulong base since their members do not fit the default int.
func groupHeader(info *registry.GroupInfo, name string) (header, maxEnum string) {
	if info.BitWidth == 64 {
		return "enum " + name + " : ulong {", maxEnum64
	}
	return "enum " + name + " {", maxEnum32
}

// groupAffixes derives the enumerant prefix and vendor suffix of a group
// name: VkPresentModeKHR yields VK_PRESENT_MODE and _KHR.
func groupAffixes(name string) (prefix, suffix string) {
	snake := strings.ToUpper(snakeBoundary.ReplaceAllString(name, "${1}_${2}"))
	prefix = snake
	if vendor := vendorSuffix.FindString(name); vendor != "" {
		suffix = "_" + vendor
		if idx := strings.LastIndex(snake, suffix); idx >= 0 {
			prefix = snake[:idx]
		}
	}
	return prefix, suffix
}

// GenGroup renders an <enums> group as a scoped D enum followed by global
// aliases of every member. Enum groups also get range members derived from
// their core values; every group gets a MAX_ENUM member.
func (e *emitter) GenGroup(info *registry.GroupInfo, name, alias string) error {
	if info == nil {
		return nil
	}
	if alias != "" {
		// Enum aliases join the alias stream, bitmask aliases follow their group.
		section := "enum"
		if info.IsBitmask() {
			section = "bitmask"
		}
		e.appendType(section, fmt.Sprintf("alias %s = %s;", name, alias))
		return nil
	}
	category := "bitmask"
	if !info.IsBitmask() {
		category = "group"
	}

	isEnum := info.Type == "enum"
	prefix, suffix := groupAffixes(name)

	maxGlobal := len(prefix) + rangeNameExtra
	for _, enum := range info.Enums {
		maxGlobal = max(maxGlobal, len(enum.Name))
	}
	maxScoped := maxGlobal + 1

	header, maxEnum := groupHeader(info, name)
	var scoped, global strings.Builder
	scoped.WriteString(header)

	seen := make(map[string]bool, len(info.Enums))
	var minName, maxName string
	var minValue, maxValue int64
	for _, enum := range info.Enums {
		value := enum.Value()

		line := "\n" + e.indent + padRight(enum.Name, maxScoped) + " = " + dValue(value.Text) + ","
		if !seen[line] {
			seen[line] = true
			scoped.WriteString(line)
			global.WriteString(fmt.Sprintf("\nenum %s = %s.%s;", padRight(enum.Name, maxGlobal), name, enum.Name))
		}

		if !isEnum || enum.Extends != "" || !value.HasNum {
			continue
		}
		switch {
		case minName == "":
			minName, maxName = enum.Name, enum.Name
			minValue, maxValue = value.Num, value.Num
		case value.Num < minValue:
			minName, minValue = enum.Name, value.Num
		case value.Num > maxValue:
			maxName, maxValue = enum.Name, value.Num
		}
	}

	member := func(kind, value string) {
		enumerant := prefix + kind + suffix
		scoped.WriteString("\n" + e.indent + padRight(enumerant, maxScoped) + " = " + value)
		global.WriteString(fmt.Sprintf("\nenum %s = %s.%s;", padRight(enumerant, maxGlobal), name, enumerant))
	}
	if isEnum && minName != "" {
		member("_BEGIN_RANGE", minName+",")
		member("_END_RANGE", maxName+",")
		member("_RANGE_SIZE", maxName+" - "+minName+" + 1,")
	}
	member("_MAX_ENUM", maxEnum+"\n}")

	e.separate(category)
	e.appendType(category, scoped.String()+global.String())
	return nil
}
