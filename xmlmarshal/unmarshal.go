package xmlmarshal

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/fenwick-labs/xmlstream/parser"
	"github.com/fenwick-labs/xmlstream/tokenizer"
	"github.com/fenwick-labs/xmlstream/xmldom"
)

// Unmarshal parses the XML-encoded data and stores the result in the value
// pointed to by v.
//
// If v is a pointer to a struct, fields are populated using the same "xml"
// tag vocabulary Marshal writes: "attr" fields from matching attributes,
// "chardata" from the element's concatenated text, "cdata" from its CDATA
// content, and untagged/named fields from same-named child elements (a
// slice field collects every matching child). If v is a pointer to
// map[string]interface{} or interface{}, the document converts to the
// generic nested-map representation instead.
func Unmarshal(data []byte, v interface{}) error {
	doc, err := parseDocument(data)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("xmlmarshal: Unmarshal requires a non-nil pointer")
	}
	elem := rv.Elem()

	switch elem.Kind() {
	case reflect.Interface:
		elem.Set(reflect.ValueOf(elementToInterface(doc.Root)))
		return nil
	case reflect.Map:
		if elem.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("xmlmarshal: unsupported map key type %s", elem.Type().Key())
		}
		m, ok := elementToInterface(doc.Root).(map[string]interface{})
		if !ok {
			return fmt.Errorf("xmlmarshal: cannot unmarshal into %T", v)
		}
		elem.Set(reflect.ValueOf(m))
		return nil
	case reflect.Struct:
		return unmarshalElement(doc.Root, elem)
	default:
		return fmt.Errorf("xmlmarshal: unsupported Unmarshal target %T", v)
	}
}

func parseDocument(data []byte) (*xmldom.Document, error) {
	b := xmldom.NewBuilder()
	p := parser.New(parser.DefaultOptions(), b)
	tok := tokenizer.New(tokenizer.DefaultOptions())
	if err := tok.Process(data, p); err != nil {
		return nil, err
	}
	if err := tok.Finalize(p); err != nil {
		return nil, err
	}
	if err := p.Finalize(); err != nil {
		return nil, err
	}
	return b.Document()
}

// unmarshalElement populates the struct value rv from el's attributes,
// text/CDATA content, and child elements, following the same "xml" tag
// vocabulary Marshal writes.
func unmarshalElement(el *xmldom.Element, rv reflect.Value) error {
	schema := schemaFor(rv.Type())

	childrenByName := make(map[string][]*xmldom.Element)
	for _, c := range el.ChildElements() {
		childrenByName[c.Name] = append(childrenByName[c.Name], c)
	}

	for _, f := range schema.fields {
		fv := rv.Field(f.index)

		switch f.kind {
		case fieldAttr:
			if val, ok := el.Attr(f.name); ok {
				if err := setScalar(fv, val); err != nil {
					return fmt.Errorf("xmlmarshal: field %s: %w", f.name, err)
				}
			}
		case fieldCharData:
			if err := setScalar(fv, el.Text()); err != nil {
				return fmt.Errorf("xmlmarshal: field %s: %w", f.name, err)
			}
		case fieldCData:
			for _, c := range el.Children {
				if cd, ok := c.(*xmldom.CData); ok {
					if err := setScalar(fv, cd.Content); err != nil {
						return fmt.Errorf("xmlmarshal: field %s: %w", f.name, err)
					}
					break
				}
			}
		default:
			matches := childrenByName[f.name]
			if len(matches) == 0 {
				continue
			}
			if err := setChildren(fv, matches); err != nil {
				return fmt.Errorf("xmlmarshal: field %s: %w", f.name, err)
			}
		}
	}
	return nil
}

func setChildren(fv reflect.Value, matches []*xmldom.Element) error {
	switch fv.Kind() {
	case reflect.Slice:
		elemType := fv.Type().Elem()
		out := reflect.MakeSlice(fv.Type(), 0, len(matches))
		for _, m := range matches {
			ev := reflect.New(derefType(elemType)).Elem()
			if err := assignElement(m, ev); err != nil {
				return err
			}
			out = reflect.Append(out, wrapIfPtr(elemType, ev))
		}
		fv.Set(out)
		return nil
	default:
		return assignElement(matches[0], fv)
	}
}

func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

func wrapIfPtr(t reflect.Type, v reflect.Value) reflect.Value {
	if t.Kind() == reflect.Ptr {
		p := reflect.New(t.Elem())
		p.Elem().Set(v)
		return p
	}
	return v
}

func assignElement(el *xmldom.Element, fv reflect.Value) error {
	switch fv.Kind() {
	case reflect.Struct:
		return unmarshalElement(el, fv)
	case reflect.String:
		fv.SetString(el.Text())
		return nil
	case reflect.Ptr:
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		return assignElement(el, fv.Elem())
	default:
		return setScalar(fv, el.Text())
	}
}

func setScalar(fv reflect.Value, s string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	default:
		return fmt.Errorf("unsupported scalar kind %s", fv.Kind())
	}
	return nil
}

// elementToInterface converts an xmldom.Element to the teacher's generic
// nested-map representation: "@attr" keys for attributes, "#text"/"#cdata"
// for character data, and child element names as nested keys (repeated
// names collapse into a []interface{}).
func elementToInterface(el *xmldom.Element) interface{} {
	if el == nil {
		return nil
	}
	m := make(map[string]interface{})
	for _, a := range el.Attrs {
		m["@"+a.Name] = a.Value
	}
	if text := el.Text(); text != "" {
		m["#text"] = text
	}
	for _, c := range el.Children {
		if cd, ok := c.(*xmldom.CData); ok {
			m["#cdata"] = cd.Content
		}
	}

	grouped := make(map[string][]interface{})
	var order []string
	for _, c := range el.ChildElements() {
		if _, seen := grouped[c.Name]; !seen {
			order = append(order, c.Name)
		}
		grouped[c.Name] = append(grouped[c.Name], elementToInterface(c))
	}
	for _, name := range order {
		vals := grouped[name]
		if len(vals) == 1 {
			m[name] = vals[0]
		} else {
			m[name] = vals
		}
	}
	return m
}
