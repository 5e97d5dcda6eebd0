// Package xmlmarshal implements struct-tag driven Marshal/Unmarshal. Marshal
// writes XML bytes directly; Unmarshal reads through an xmldom tree.
package xmlmarshal

import (
	"reflect"
	"strings"
	"sync"
)

// fieldKind classifies how a struct field maps onto the XML Marshal writes
// and Unmarshal reads: an attribute, text/CDATA content written or
// read directly on the parent element, or an ordinary child element.
type fieldKind int

const (
	fieldChild fieldKind = iota
	fieldAttr
	fieldCharData
	fieldCData
)

// fieldInfo is one struct field's resolved "xml" tag: its reflect field
// index (so a caller never needs to re-walk StructTag strings), its XML
// name, and how it's encoded.
type fieldInfo struct {
	index     int
	name      string
	kind      fieldKind
	omitEmpty bool
}

// structSchema is a struct type's encodable fields, in declaration order,
// with unexported and "-"-tagged fields already dropped.
type structSchema struct {
	fields []fieldInfo
}

// schemaCache memoizes structSchema by reflect.Type: a type's tag layout
// never changes between calls, so walking StructField/Tag.Get once per type
// rather than once per Marshal/Unmarshal call on every value of that type is
// a pure win, the same trade entity.NameCache makes for repeated qualified
// names.
var schemaCache sync.Map // map[reflect.Type]*structSchema

func schemaFor(t reflect.Type) *structSchema {
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*structSchema)
	}
	schema := buildSchema(t)
	actual, _ := schemaCache.LoadOrStore(t, schema)
	return actual.(*structSchema)
}

func buildSchema(t reflect.Type) *structSchema {
	schema := &structSchema{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		tag := parseFieldTag(field.Tag.Get("xml"))
		if tag.skip {
			continue
		}
		name := tag.name
		if name == "" {
			name = field.Name
		}
		kind := fieldChild
		switch {
		case tag.attr:
			kind = fieldAttr
		case tag.chardata:
			kind = fieldCharData
		case tag.cdata:
			kind = fieldCData
		}
		schema.fields = append(schema.fields, fieldInfo{index: i, name: name, kind: kind, omitEmpty: tag.omitEmpty})
	}
	return schema
}

// parsedTag is a field's "xml" tag split into its name and option set,
// before structSchema resolves it (default name, classified kind).
type parsedTag struct {
	name      string
	attr      bool
	cdata     bool
	chardata  bool
	omitEmpty bool
	skip      bool
}

// parseFieldTag parses a struct field's xml tag value.
// Format: "fieldname" or "fieldname,option1,option2".
// Options: attr, cdata, chardata, omitempty. Special: "-" skips the field.
func parseFieldTag(tag string) parsedTag {
	if tag == "-" {
		return parsedTag{skip: true}
	}
	parts := strings.Split(tag, ",")
	info := parsedTag{name: parts[0]}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "attr":
			info.attr = true
		case "cdata":
			info.cdata = true
		case "chardata":
			info.chardata = true
		case "omitempty":
			info.omitEmpty = true
		}
	}
	return info
}

// isEmptyValue reports whether v is empty according to omitempty rules.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
