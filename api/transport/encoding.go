package transport

import (
	"errors"
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/fastygo/roast/domain"
)

// Numeric codes reported by the encode primitives. They travel with the
// failure into the fallback envelope.
const (
	ErrNumberUnknown          = 1
	ErrNumberUTF8             = 5
	ErrNumberUnsupportedValue = 7
	ErrNumberUnsupportedType  = 8
	ErrNumberMarshaler        = 9
)

// EncodeError is the error condition reported by an encode primitive.
type EncodeError struct {
	Message string
	Number  int
}

func (e *EncodeError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// ErrorNumber exposes the numeric code to domain.Describe.
func (e *EncodeError) ErrorNumber() int {
	if e == nil {
		return 0
	}
	return e.Number
}

// fallbackExport renders err as an error envelope holding one message.
func fallbackExport(err error) domain.Export {
	message, number := domain.Describe(err)
	text := fmt.Sprintf("An exception occurred during serialization with the message: '%s'", message)
	if number != 0 {
		text += fmt.Sprintf(" (code: %d)", number)
	}
	text += "."

	return domain.Export{
		Status: domain.StatusError,
		Data:   []domain.MessageExport{{Message: text}},
	}
}

func encodeFailure(format string, err error) *domain.Error {
	number := ErrNumberUnknown
	message := err.Error()
	var encErr *EncodeError
	if errors.As(err, &encErr) {
		number = encErr.Number
		message = encErr.Message
	}
	return domain.EncodingFailure(
		fmt.Sprintf("An error occurred while serializing %s result: %s", format, message),
		number,
		err,
	)
}

// exportHook substitutes the value an encoder would actually write for v,
// for example the Export of a type whose marshaler encodes that export.
type exportHook func(v reflect.Value) (reflect.Value, bool)

type visitKey struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// valueInspector walks a value the way an encoder would. It reports
// reference cycles and, when checkUTF8 is set, strings holding invalid UTF-8.
// Every map, slice and pointer is walked at most once.
type valueInspector struct {
	format    string
	tagKey    string
	checkUTF8 bool
	hook      exportHook

	active map[visitKey]bool
	done   map[visitKey]bool
}

func newValueInspector(format, tagKey string, checkUTF8 bool, hook exportHook) *valueInspector {
	return &valueInspector{
		format:    format,
		tagKey:    tagKey,
		checkUTF8: checkUTF8,
		hook:      hook,
		active:    make(map[visitKey]bool),
		done:      make(map[visitKey]bool),
	}
}

func (in *valueInspector) inspect(v any) *EncodeError {
	return in.walk(reflect.ValueOf(v))
}

func (in *valueInspector) walk(v reflect.Value) *EncodeError {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		key := visitKey{ptr: v.Pointer(), typ: v.Type()}
		if v.Kind() == reflect.Slice {
			key.len = v.Len()
		}
		if in.done[key] {
			return nil
		}
		if in.active[key] {
			return &EncodeError{
				Message: fmt.Sprintf("%s: unsupported value: encountered a cycle via %s", in.format, v.Type()),
				Number:  ErrNumberUnsupportedValue,
			}
		}
		in.active[key] = true
		err := in.walkElem(v)
		delete(in.active, key)
		if err == nil {
			in.done[key] = true
		}
		return err
	}
	return in.walkElem(v)
}

func (in *valueInspector) walkElem(v reflect.Value) *EncodeError {
	if in.hook != nil && v.Kind() != reflect.Interface {
		if exported, ok := in.hook(v); ok {
			return in.walk(exported)
		}
	}
	switch v.Kind() {
	case reflect.String:
		if in.checkUTF8 && !utf8.ValidString(v.String()) {
			return &EncodeError{Message: "Malformed UTF-8 characters, possibly incorrectly encoded", Number: ErrNumberUTF8}
		}
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return in.walk(v.Elem())
	case reflect.Pointer:
		return in.walk(v.Elem())
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			// Byte slices are base64 encoded.
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := in.walk(v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := in.walk(iter.Key()); err != nil {
				return err
			}
			if err := in.walk(iter.Value()); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() || field.Tag.Get(in.tagKey) == "-" {
				continue
			}
			if err := in.walk(v.Field(i)); err != nil {
				return err
			}
		}
	}
	return nil
}
