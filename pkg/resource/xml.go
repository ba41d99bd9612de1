package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"
)

// xmlRoot names the root element of documents built from structured data.
const xmlRoot = "resource"

// xmlEntry holds map keys that are not valid element names.
const xmlEntry = "entry"

// XMLHandler builds XML resources. Payloads are opaque documents: merges and
// substitutions replace the whole document.
type XMLHandler struct{}

func (XMLHandler) ContentType() string { return TypeXML }

func (XMLHandler) New(data any, charset string) (Resource, error) {
	doc, err := toDocument(data, charset)
	if err != nil {
		return nil, err
	}
	return &XMLResource{Base: newBase(doc, TypeXML, charset)}, nil
}

func (XMLHandler) Parse(raw []byte, charset string) (Resource, error) {
	doc, err := parseDocument(raw, charset)
	if err != nil {
		return nil, err
	}
	return &XMLResource{Base: newBase(doc, TypeXML, charset)}, nil
}

func (XMLHandler) Restore(rec Record) (Resource, error) {
	var text string
	if err := json.Unmarshal(rec.Data, &text); err != nil {
		return nil, &DecodeError{ContentType: TypeXML, Err: err}
	}
	doc, err := parseDocument([]byte(text), "")
	if err != nil {
		return nil, err
	}
	return &XMLResource{Base: restoreBase(doc, rec)}, nil
}

// XMLResource is a resource with an XML document payload.
type XMLResource struct {
	*Base
}

// Document returns the payload document.
func (r *XMLResource) Document() *etree.Document {
	return r.data.(*etree.Document)
}

func (r *XMLResource) SetStatus(code int) Resource {
	r.status = code
	return r
}

func (r *XMLResource) AddHeader(name, value string) Resource {
	r.headers.Set(name, value)
	return r
}

func (r *XMLResource) Replace(o Override) (Resource, error) {
	var next any
	switch o := o.(type) {
	case Replacement:
		if o.Resource == nil {
			return nil, invalidOverride("nil replacement resource")
		}
		return o.Resource, nil
	case Merge:
		next = o.Patch
	case Substitution:
		next = o.Value
	case CallbackPatch:
		if o.Fn == nil {
			return nil, invalidOverride("nil callback")
		}
		text, err := r.Document().WriteToString()
		if err != nil {
			return nil, fmt.Errorf("encode xml document: %w", err)
		}
		out, err := o.Fn(Vars{"cached": text}, TypeXML, r.charset)
		if err != nil {
			return nil, err
		}
		next = out
	default:
		return nil, invalidOverride("unknown override %T", o)
	}
	if _, ok := next.(Resource); ok {
		return nil, invalidOverride("use a Replacement to swap resources")
	}
	doc, err := toDocument(next, r.charset)
	if err != nil {
		return nil, err
	}
	r.data = doc
	return r, nil
}

// Body returns the document indented with two spaces.
func (r *XMLResource) Body() ([]byte, error) {
	doc := r.Document().Copy()
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("encode xml body: %w", err)
	}
	return encodeCharset(out, r.charset)
}

func (r *XMLResource) Render(w http.ResponseWriter) error {
	return render(w, r)
}

func (r *XMLResource) MarshalData() (json.RawMessage, error) {
	text, err := r.Document().WriteToString()
	if err != nil {
		return nil, fmt.Errorf("encode xml data: %w", err)
	}
	return json.Marshal(text)
}

func (r *XMLResource) Clone() Resource {
	return &XMLResource{Base: r.clone(r.Document().Copy())}
}

func parseDocument(raw []byte, charset string) (*etree.Document, error) {
	raw, err := decodeCharset(raw, charset)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &DecodeError{ContentType: TypeXML, Err: errors.New("empty document")}
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, &DecodeError{ContentType: TypeXML, Err: err}
	}
	if doc.Root() == nil {
		return nil, &DecodeError{ContentType: TypeXML, Err: errors.New("document has no root element")}
	}
	return doc, nil
}

// toDocument converts documents, elements, XML text and structured data
// into a document.
func toDocument(data any, charset string) (*etree.Document, error) {
	switch t := data.(type) {
	case *etree.Document:
		return t.Copy(), nil
	case *etree.Element:
		doc := etree.NewDocument()
		doc.SetRoot(t.Copy())
		return doc, nil
	case string:
		return parseDocument([]byte(t), charset)
	case Text:
		return parseDocument([]byte(t), charset)
	case []byte:
		return parseDocument(t, charset)
	}
	v, err := normalizeJSON(data)
	if err != nil {
		return nil, &DecodeError{ContentType: TypeXML, Err: err}
	}
	doc := etree.NewDocument()
	if charset == "" {
		charset = DefaultCharset
	}
	doc.CreateProcInst("xml", `version="1.0" encoding="`+strings.ToUpper(charset)+`"`)
	root := doc.CreateElement(xmlRoot)
	appendValue(root, v)
	return doc, nil
}

// appendValue writes v below el. Map keys become child elements in sorted
// order, list items repeat an <item> element. Keys that are not element
// names are written as <entry key="...">.
func appendValue(el *etree.Element, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			var child *etree.Element
			if isXMLName(k) {
				child = el.CreateElement(k)
			} else {
				child = el.CreateElement(xmlEntry)
				child.CreateAttr("key", k)
			}
			appendValue(child, t[k])
		}
	case []any:
		for _, item := range t {
			appendValue(el.CreateElement("item"), item)
		}
	case nil:
	case string:
		el.SetText(t)
	case bool:
		el.SetText(strconv.FormatBool(t))
	case float64:
		el.SetText(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		el.SetText(fmt.Sprint(t))
	}
}

// isXMLName reports whether k can be used as an element name. Colons are
// rejected since they would introduce an unbound namespace prefix.
func isXMLName(k string) bool {
	if k == "" {
		return false
	}
	for i, r := range k {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
