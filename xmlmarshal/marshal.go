package xmlmarshal

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 1024))
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= 64*1024 {
		bufferPool.Put(buf)
	}
}

// Marshaler is implemented by types that encode themselves into valid XML.
type Marshaler interface {
	MarshalXML() ([]byte, error)
}

// Marshal returns the XML encoding of v. Struct values encode as XML
// elements: each exported field becomes a child element, an attribute (the
// "attr" tag option), text content (the "chardata" option), or CDATA content
// (the "cdata" option), using the field name as the element/attribute name
// unless overridden by an "xml" struct tag. A tag of "-" always omits the
// field; "omitempty" omits it when its value is the type's zero value.
//
// Slices and arrays encode as a sequence of elements sharing the parent
// field's name. Maps encode as an element per key (keys must be strings).
// Pointers encode as the pointed-to value; a nil pointer or nil interface
// encodes as an empty element.
func Marshal(v interface{}) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	rv := reflect.ValueOf(v)
	name := "root"
	deref := rv
	if deref.Kind() == reflect.Ptr {
		deref = deref.Elem()
	}
	if deref.Kind() == reflect.Struct && deref.Type().Name() != "" {
		name = deref.Type().Name()
	}

	if err := marshalValue(rv, buf, name); err != nil {
		return nil, err
	}
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// MarshalIndent is not yet implemented beyond Marshal's compact form; use
// xmlwrite.RenderIndent on an xmldom.Document for indented output.
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return Marshal(v)
}

func marshalValue(rv reflect.Value, buf *bytes.Buffer, elementName string) error {
	if !rv.IsValid() {
		buf.WriteString("<")
		buf.WriteString(elementName)
		buf.WriteString("/>")
		return nil
	}

	if rv.Kind() == reflect.Interface && rv.IsNil() {
		buf.WriteString("<")
		buf.WriteString(elementName)
		buf.WriteString("/>")
		return nil
	}

	if rv.CanInterface() && rv.Type().Implements(reflect.TypeOf((*Marshaler)(nil)).Elem()) {
		m := rv.Interface().(Marshaler)
		b, err := m.MarshalXML()
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}

	if rv.Kind() == reflect.Interface {
		return marshalValue(rv.Elem(), buf, elementName)
	}

	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			buf.WriteString("<")
			buf.WriteString(elementName)
			buf.WriteString("/>")
			return nil
		}
		return marshalValue(rv.Elem(), buf, elementName)
	}

	switch rv.Kind() {
	case reflect.String:
		return marshalText(rv.String(), buf, elementName)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return marshalText(strconv.FormatInt(rv.Int(), 10), buf, elementName)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return marshalText(strconv.FormatUint(rv.Uint(), 10), buf, elementName)
	case reflect.Float32, reflect.Float64:
		return marshalText(strconv.FormatFloat(rv.Float(), 'g', -1, 64), buf, elementName)
	case reflect.Bool:
		return marshalText(strconv.FormatBool(rv.Bool()), buf, elementName)
	case reflect.Struct:
		return marshalStruct(rv, buf, elementName)
	case reflect.Map:
		return marshalMap(rv, buf, elementName)
	case reflect.Slice, reflect.Array:
		return marshalSlice(rv, buf, elementName)
	default:
		return fmt.Errorf("xmlmarshal: unsupported type %s", rv.Type())
	}
}

func marshalText(s string, buf *bytes.Buffer, elementName string) error {
	buf.WriteString("<")
	buf.WriteString(elementName)
	buf.WriteString(">")
	buf.WriteString(escapeText(s))
	buf.WriteString("</")
	buf.WriteString(elementName)
	buf.WriteString(">")
	return nil
}

func marshalStruct(rv reflect.Value, buf *bytes.Buffer, elementName string) error {
	schema := schemaFor(rv.Type())

	buf.WriteString("<")
	buf.WriteString(elementName)

	type childEntry struct {
		name  string
		value reflect.Value
	}
	type attrEntry struct{ name, value string }
	var attrs []attrEntry
	var children []childEntry
	var textContent, cdataContent string
	var hasText, hasCData bool

	for _, f := range schema.fields {
		fv := rv.Field(f.index)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		switch f.kind {
		case fieldAttr:
			if v := formatValue(fv); v != "" {
				attrs = append(attrs, attrEntry{f.name, v})
			}
		case fieldCharData:
			textContent = formatValue(fv)
			hasText = true
		case fieldCData:
			cdataContent = formatValue(fv)
			hasCData = true
		default:
			children = append(children, childEntry{f.name, fv})
		}
	}

	// Field declaration order is already deterministic, so attributes are
	// written in struct order rather than sorted.
	for _, a := range attrs {
		buf.WriteString(" ")
		buf.WriteString(a.name)
		buf.WriteString(`="`)
		buf.WriteString(escapeAttrValue(a.value))
		buf.WriteString(`"`)
	}

	if !hasText && !hasCData && len(children) == 0 {
		buf.WriteString("/>")
		return nil
	}
	buf.WriteString(">")

	if hasText {
		buf.WriteString(escapeText(textContent))
	}
	if hasCData {
		buf.WriteString("<![CDATA[")
		buf.WriteString(cdataContent)
		buf.WriteString("]]>")
	}
	for _, c := range children {
		if err := marshalValue(c.value, buf, c.name); err != nil {
			return err
		}
	}

	buf.WriteString("</")
	buf.WriteString(elementName)
	buf.WriteString(">")
	return nil
}

func marshalMap(rv reflect.Value, buf *bytes.Buffer, elementName string) error {
	if rv.IsNil() {
		buf.WriteString("<")
		buf.WriteString(elementName)
		buf.WriteString("/>")
		return nil
	}
	if rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("xmlmarshal: unsupported map key type %s", rv.Type().Key())
	}

	buf.WriteString("<")
	buf.WriteString(elementName)
	buf.WriteString(">")

	keys := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)
	for _, k := range keys {
		val := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
		if err := marshalValue(val, buf, k); err != nil {
			return err
		}
	}

	buf.WriteString("</")
	buf.WriteString(elementName)
	buf.WriteString(">")
	return nil
}

func marshalSlice(rv reflect.Value, buf *bytes.Buffer, elementName string) error {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		buf.WriteString("<")
		buf.WriteString(elementName)
		buf.WriteString("/>")
		return nil
	}
	for i := 0; i < rv.Len(); i++ {
		if err := marshalValue(rv.Index(i), buf, elementName); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(rv reflect.Value) string {
	if !rv.IsValid() {
		return ""
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return ""
		}
		return formatValue(rv.Elem())
	default:
		return ""
	}
}
