// Package xmltree converts nested records, mappings, lists and scalars into an
// XML element tree.
//
// The walk is driven by tag names:
//   - a Node (every spoke record implements it) becomes an element whose
//     children are its fields, in the order the node lists them;
//   - a map[string]any becomes an element with one child per key (sorted);
//   - a list becomes an element named after the field, holding one child per
//     item named after the field's ElementTag;
//   - anything else is a leaf whose text is the value's string form.
package xmltree

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/beevik/etree"
)

// ErrNoElementTag is returned when a list is found on a field that does not
// declare the tag of its elements.
var ErrNoElementTag = errors.New("xmltree: list field has no element tag")

// Field is one named child of a Node.
type Field struct {
	Name  string
	Value any
	// ElementTag names each item element when Value is a list.
	ElementTag string
}

// Node is implemented by values that render as an element with ordered
// children.
type Node interface {
	TreeFields() []Field
}

// Map is an ordered mapping rendered as child elements.
type Map []Field

// TreeFields returns m in order.
func (m Map) TreeFields() []Field { return m }

// Build converts v into an element named tag.
func Build(tag string, v any) (*etree.Element, error) {
	return build(tag, "", v)
}

func build(tag, elementTag string, v any) (*etree.Element, error) {
	switch t := v.(type) {
	case nil:
		return etree.NewElement(tag), nil
	case Node:
		if rv := reflect.ValueOf(t); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return etree.NewElement(tag), nil
		}
		el := etree.NewElement(tag)
		for _, f := range t.TreeFields() {
			child, err := build(f.Name, f.ElementTag, f.Value)
			if err != nil {
				return nil, err
			}
			el.AddChild(child)
		}
		return el, nil
	case map[string]any:
		el := etree.NewElement(tag)
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child, err := build(k, "", t[k])
			if err != nil {
				return nil, err
			}
			el.AddChild(child)
		}
		return el, nil
	case []byte:
		el := etree.NewElement(tag)
		el.SetText(string(t))
		return el, nil
	}

	rv := reflect.ValueOf(v)
	if k := rv.Kind(); k == reflect.Slice || k == reflect.Array {
		if elementTag == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoElementTag, tag)
		}
		el := etree.NewElement(tag)
		for i := 0; i < rv.Len(); i++ {
			child, err := build(elementTag, "", rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			el.AddChild(child)
		}
		return el, nil
	}

	el := etree.NewElement(tag)
	el.SetText(text(v))
	return el, nil
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// Render writes root as an indented UTF-8 XML document with a declaration.
func Render(root *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(root)
	doc.Indent(2)
	return doc.WriteToBytes()
}

// Marshal is Build followed by Render.
func Marshal(tag string, v any) ([]byte, error) {
	root, err := Build(tag, v)
	if err != nil {
		return nil, err
	}
	return Render(root)
}
