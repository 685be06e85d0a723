package model

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/tasprorepo/pgmodeler"
)

// ErrBadDocument is returned when ReadXML is given something other
// than a dbmodel document.
var ErrBadDocument = errors.New("model: not a dbmodel document")

// xmlHeader is written before the model element.
const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// standardAttrs are emitted as XML attributes on the object element
// rather than as nested attribute elements.
var standardAttrs = map[string]bool{
	pgmodeler.AttrOID:         true,
	pgmodeler.AttrName:        true,
	pgmodeler.AttrSchema:      true,
	pgmodeler.AttrComment:     true,
	pgmodeler.AttrSystem:      true,
	pgmodeler.AttrSQLDisabled: true,
}

// WriteXML serializes the model. Each object becomes an element named
// after its type, holding its identity as attributes, the comment as a
// child element and every remaining catalog attribute as an attribute
// child.
func (m *Model) WriteXML(w io.Writer) error {
	if _, err := io.WriteString(w, xmlHeader); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "dbmodel"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "name"}, Value: m.Name}},
	}

	if err := enc.EncodeToken(root); err != nil {
		return err
	}

	for _, obj := range m.objects {
		if err := encodeObject(enc, obj); err != nil {
			return fmt.Errorf("model: serializing %s: %w", obj.Key(), err)
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}

	if err := enc.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")

	return err
}

func encodeObject(enc *xml.Encoder, obj *Object) error {
	start := xml.StartElement{Name: xml.Name{Local: obj.Type.String()}}

	addAttr := func(name, value string) {
		if value != "" {
			start.Attr = append(start.Attr, xml.Attr{
				Name:  xml.Name{Local: name},
				Value: value,
			})
		}
	}

	addAttr("name", obj.Name)
	addAttr("schema", obj.Schema)
	addAttr("oid", obj.OID)

	if obj.System {
		addAttr("system", "true")
	}

	if obj.SQLDisabled {
		addAttr("sql-disabled", "true")
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if obj.Comment != "" {
		err := enc.EncodeElement(obj.Comment, xml.StartElement{
			Name: xml.Name{Local: "comment"},
		})
		if err != nil {
			return err
		}
	}

	for _, key := range obj.Attribs.Keys() {
		if standardAttrs[key] || obj.Attribs[key] == "" {
			continue
		}

		attr := xml.StartElement{
			Name: xml.Name{Local: "attribute"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "name"}, Value: key},
				{Name: xml.Name{Local: "value"}, Value: obj.Attribs[key]},
			},
		}

		if err := enc.EncodeToken(attr); err != nil {
			return err
		}

		if err := enc.EncodeToken(attr.End()); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// ReadXML parses a model document produced by WriteXML. Elements that
// do not name a known object type are ignored, so documents carrying
// additional elements still load.
func ReadXML(r io.Reader) (*Model, error) {
	dec := xml.NewDecoder(r)

	var m *Model

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if m == nil {
			if start.Name.Local != "dbmodel" {
				return nil, fmt.Errorf("%w: root element %q", ErrBadDocument, start.Name.Local)
			}

			m = NewModel(xmlAttr(start, "name"))

			continue
		}

		obj, err := decodeObject(dec, start)
		if err != nil {
			return nil, err
		}

		if obj != nil {
			m.Add(obj)
		}
	}

	if m == nil {
		return nil, ErrBadDocument
	}

	return m, nil
}

// decodeObject reads one object element with its comment and attribute
// children. Elements not naming an object type are skipped.
func decodeObject(dec *xml.Decoder, start xml.StartElement) (*Object, error) {
	typ, err := pgmodeler.ParseObjectType(start.Name.Local)
	if err != nil {
		if err := dec.Skip(); err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}

		return nil, nil //nolint:nilnil // unknown element, nothing to add
	}

	obj := &Object{
		Type:        typ,
		Name:        xmlAttr(start, "name"),
		Schema:      xmlAttr(start, "schema"),
		OID:         xmlAttr(start, "oid"),
		System:      xmlAttr(start, "system") == "true",
		SQLDisabled: xmlAttr(start, "sql-disabled") == "true",
		Attribs:     pgmodeler.AttribMap{},
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("model: reading %s: %w", obj.Key(), err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "comment":
				var comment string
				if err := dec.DecodeElement(&comment, &t); err != nil {
					return nil, fmt.Errorf("model: reading %s: %w", obj.Key(), err)
				}

				obj.Comment = comment
			case "attribute":
				if key := xmlAttr(t, "name"); key != "" {
					obj.Attribs[key] = xmlAttr(t, "value")
				}

				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("model: reading %s: %w", obj.Key(), err)
				}
			default:
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("model: reading %s: %w", obj.Key(), err)
				}
			}
		case xml.EndElement:
			return obj, nil
		}
	}
}

func xmlAttr(el xml.StartElement, name string) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}

	return ""
}
