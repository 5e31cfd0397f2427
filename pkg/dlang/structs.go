package dlang

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/goliatone/go-vkgen/pkg/registry"
)

// bitfield storage sizes accepted by std.bitmanip.bitfields.
var bitfieldSizes = []int{8, 16, 32, 64}

type structMember struct {
	typ  string
	name string
	bits int
}

// genStruct renders a struct or union with members aligned on the widest
// type. Runs of bit-field members collapse into one bitfields mixin.
func (e *emitter) genStruct(elem *etree.Element, category, name string) {
	e.separate("struct")
	e.appendType("struct", fmt.Sprintf("%s %s {", category, name))

	var members []structMember
	width := 0
	for _, member := range registry.ElementsForAPI(elem, "member", e.api) {
		m := structMember{
			typ:  strings.TrimSpace(fullType(member)),
			name: entryName(member),
			bits: bitWidth(member),
		}
		if values := member.SelectAttrValue("values", ""); values != "" {
			m.name += " = " + values
		}
		width = max(width, len(m.typ))
		members = append(members, m)
	}

	for i := 0; i < len(members); {
		if members[i].bits == 0 {
			e.appendType("struct", e.indent+padRight(members[i].typ, width)+"  "+members[i].name+";")
			i++
			continue
		}
		j := i
		for j < len(members) && members[j].bits > 0 {
			j++
		}
		e.genBitfields(members[i:j])
		i = j
	}

	e.appendType("struct", "}")
}

func (e *emitter) genBitfields(members []structMember) {
	total := 0
	fields := make([]string, 0, len(members)+1)
	for _, m := range members {
		fields = append(fields, fmt.Sprintf("%s, \"%s\", %d", m.typ, m.name, m.bits))
		total += m.bits
	}
	if pad := bitfieldPadding(total); pad > 0 {
		padType := "uint"
		if pad > 32 {
			padType = "ulong"
		}
		fields = append(fields, fmt.Sprintf("%s, \"\", %d", padType, pad))
	}

	inner := e.indent + e.indent
	e.appendType("struct", e.indent+"mixin( bitfields!(")
	for i, field := range fields {
		line := inner + field
		if i < len(fields)-1 {
			line += ","
		}
		e.appendType("struct", line)
	}
	e.appendType("struct", e.indent+"));")
}

// bitfieldPadding returns the unused bits up to the next storage size.
func bitfieldPadding(total int) int {
	for _, size := range bitfieldSizes {
		if total <= size {
			return size - total
		}
	}
	return 0
}
