package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// Enumerant value arithmetic for extension offsets.
const (
	extBase      = 1000000000
	extBlockSize = 1000
)

// EnumValue is the evaluated value of an enumerant. Text is the source form
// emitted into generated code; Num is only meaningful when HasNum is true.
type EnumValue struct {
	Num    int64
	HasNum bool
	Text   string
}

// Value evaluates the enumerant from its value, bitpos, offset or alias
// attribute, in that order of precedence.
func (e *EnumInfo) Value() EnumValue {
	if e == nil || e.Elem == nil {
		return EnumValue{}
	}
	elem := e.Elem

	if attr := elem.SelectAttr("value"); attr != nil {
		value := attr.Value
		out := EnumValue{Text: value}
		if n, err := strconv.ParseInt(strings.TrimSpace(value), 0, 64); err == nil {
			out.Num = n
			out.HasNum = true
		}
		return out
	}

	if bitpos := elem.SelectAttrValue("bitpos", ""); bitpos != "" {
		pos, err := strconv.ParseInt(bitpos, 0, 64)
		if err != nil || pos < 0 || pos > 63 {
			return EnumValue{Text: bitpos}
		}
		num := uint64(1) << uint(pos)
		text := fmt.Sprintf("0x%08x", num)
		if pos >= 32 {
			text += "ULL"
		}
		return EnumValue{Num: int64(num), HasNum: true, Text: text}
	}

	if offset := elem.SelectAttrValue("offset", ""); offset != "" {
		off, err := strconv.ParseInt(offset, 0, 64)
		if err != nil {
			return EnumValue{Text: offset}
		}
		extNumber := int64(e.ExtNumber)
		if raw := elem.SelectAttrValue("extnumber", ""); raw != "" {
			if n, err := strconv.ParseInt(raw, 0, 64); err == nil {
				extNumber = n
			}
		}
		num := extBase + (extNumber-1)*extBlockSize + off
		if elem.SelectAttrValue("dir", "") != "" {
			num = -num
		}
		return EnumValue{Num: num, HasNum: true, Text: strconv.FormatInt(num, 10)}
	}

	if alias := elem.SelectAttrValue("alias", ""); alias != "" {
		return EnumValue{Text: alias}
	}
	return EnumValue{}
}
