package dlang

import (
	"fmt"

	"github.com/goliatone/go-vkgen/pkg/registry"
)

// debugReportStructureType is referenced by a constant before its group is
// visible at module scope, so it is qualified with the group name.
const debugReportStructureType = "VK_STRUCTURE_TYPE_DEBUG_REPORT_CALLBACK_CREATE_INFO_EXT"

// GenEnum renders a free standing constant, typically from API Constants or
// an extension's SPEC_VERSION and EXTENSION_NAME pair.
func (e *emitter) GenEnum(info *registry.EnumInfo, name, alias string) error {
	if alias != "" {
		e.appendType("enum", fmt.Sprintf("alias %s = %s;", name, alias))
		return nil
	}
	if info == nil {
		return nil
	}
	value := info.Value().Text
	if value == debugReportStructureType {
		value = "VkStructureType." + value
	} else {
		value = dValue(value)
	}
	e.appendType("enum", fmt.Sprintf("enum %s = %s;", name, value))
	return nil
}
