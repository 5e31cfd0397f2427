package registry

import (
	"strings"

	"github.com/beevik/etree"
)

// Text returns the character data between the opening tag of elem and its
// first child element. Comments are skipped and the surrounding fragments
// are concatenated.
func Text(elem *etree.Element) string {
	if elem == nil {
		return ""
	}
	var sb strings.Builder
	for _, tok := range elem.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			return sb.String()
		}
	}
	return sb.String()
}

// Tail returns the character data following elem inside its parent, up to the
// next sibling element.
func Tail(elem *etree.Element) string {
	if elem == nil {
		return ""
	}
	parent := elem.Parent()
	if parent == nil {
		return ""
	}
	var sb strings.Builder
	found := false
	for _, tok := range parent.Child {
		if !found {
			if el, ok := tok.(*etree.Element); ok && el == elem {
				found = true
			}
			continue
		}
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			return sb.String()
		}
	}
	return sb.String()
}

// IterText returns the non-empty text fragments of elem in document order:
// its leading text, then for every child the child's fragments followed by
// the child's tail.
func IterText(elem *etree.Element) []string {
	var out []string
	iterText(elem, &out)
	return out
}

func iterText(elem *etree.Element, out *[]string) {
	if elem == nil {
		return
	}
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			*out = append(*out, pending.String())
			pending.Reset()
		}
	}
	for _, tok := range elem.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			pending.WriteString(t.Data)
		case *etree.Element:
			flush()
			iterText(t, out)
		}
	}
	flush()
}

// ChildText returns the text of the first direct child with the given tag.
func ChildText(elem *etree.Element, tag string) string {
	if elem == nil {
		return ""
	}
	child := elem.SelectElement(tag)
	if child == nil {
		return ""
	}
	return Text(child)
}

// MatchAPI reports whether a comma separated api attribute admits name. An
// empty attribute admits every API.
func MatchAPI(attr, name string) bool {
	if attr == "" {
		return true
	}
	for _, candidate := range strings.Split(attr, ",") {
		if strings.TrimSpace(candidate) == name {
			return true
		}
	}
	return false
}

// ElementsForAPI returns the direct children of elem with the given tag whose
// api attribute admits name.
func ElementsForAPI(elem *etree.Element, tag, name string) []*etree.Element {
	if elem == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range elem.SelectElements(tag) {
		if MatchAPI(child.SelectAttrValue("api", ""), name) {
			out = append(out, child)
		}
	}
	return out
}

// DescendantsForAPI returns every descendant of elem with the given tag in
// document order. Subtrees whose api attribute excludes name are skipped.
func DescendantsForAPI(elem *etree.Element, tag, name string) []*etree.Element {
	var out []*etree.Element
	descendants(elem, tag, name, &out)
	return out
}

func descendants(elem *etree.Element, tag, name string, out *[]*etree.Element) {
	if elem == nil {
		return
	}
	for _, child := range elem.ChildElements() {
		if !MatchAPI(child.SelectAttrValue("api", ""), name) {
			continue
		}
		if child.Tag == tag {
			*out = append(*out, child)
		}
		descendants(child, tag, name, out)
	}
}

// EntryName resolves the name of a <type> or <command> element: the name
// attribute when present, otherwise a <name> child, otherwise <proto><name>.
func EntryName(elem *etree.Element) string {
	if elem == nil {
		return ""
	}
	if name := elem.SelectAttrValue("name", ""); name != "" {
		return name
	}
	if name := strings.TrimSpace(ChildText(elem, "name")); name != "" {
		return name
	}
	if proto := elem.SelectElement("proto"); proto != nil {
		return strings.TrimSpace(ChildText(proto, "name"))
	}
	return ""
}
