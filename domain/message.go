package domain

import (
	"encoding/json"
	"reflect"
)

// Notice is the contract every message attached to a Result satisfies.
type Notice interface {
	Text() string
	Code() any
	Field() string
}

// Message is a single structured note: human text, an optional code and an
// optional name of the payload field it refers to.
type Message struct {
	text  string
	code  any
	field string
}

// MessageExport is the plain view of a message. Code and Field are omitted
// from the wire when empty.
type MessageExport struct {
	Message string `json:"message" yaml:"message"`
	Code    any    `json:"code,omitempty" yaml:"code,omitempty"`
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
}

// NewMessage builds a message; code must be nil, a number or a string.
func NewMessage(text string, code any, field string) (*Message, error) {
	m := &Message{}
	m.SetText(text)
	if err := m.SetCode(code); err != nil {
		return nil, err
	}
	m.SetField(field)
	return m, nil
}

func (m *Message) SetText(text string) *Message {
	m.text = text
	return m
}

func (m *Message) Text() string {
	return m.text
}

// SetCode stores the message code. Anything other than nil, an integer or
// float kind, json.Number or a string is rejected.
func (m *Message) SetCode(code any) error {
	if !validCode(code) {
		return InvalidArgument("Unable to set code. Expected an int or string but received a %T.", code)
	}
	m.code = code
	return nil
}

func (m *Message) Code() any {
	return m.code
}

func (m *Message) SetField(field string) *Message {
	m.field = field
	return m
}

func (m *Message) Field() string {
	return m.field
}

// Export implements Exportable.
func (m *Message) Export() any {
	return ExportNotice(m)
}

// ExportNotice builds the plain view of any Notice.
func ExportNotice(n Notice) MessageExport {
	out := MessageExport{Message: n.Text()}
	if code := n.Code(); truthyCode(code) {
		out.Code = code
	}
	out.Field = n.Field()
	return out
}

func validCode(code any) bool {
	if code == nil {
		return true
	}
	if _, ok := code.(json.Number); ok {
		return true
	}
	switch reflect.ValueOf(code).Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// truthyCode reports whether a code is worth putting on the wire: non-nil,
// non-zero and not an empty string.
func truthyCode(code any) bool {
	if code == nil {
		return false
	}
	if n, ok := code.(json.Number); ok {
		if n == "" {
			return false
		}
		f, err := n.Float64()
		return err != nil || f != 0
	}
	rv := reflect.ValueOf(code)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	default:
		return true
	}
}
