package domain

import (
	"fmt"
	"reflect"
)

// Exportable lets a data value or a message control how it is fed into a
// serializer. Export returns the plain value that replaces the receiver in
// the exported structure.
type Exportable interface {
	Export() any
}

// exportValue runs the export hook of v when it has one. A panicking hook is
// reported as an error so serialization can still fall back.
func exportValue(v any) (out any, err error) {
	e, ok := v.(Exportable)
	if !ok || isNilPointer(reflect.ValueOf(v)) {
		return v, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = NewError(ErrCodeInternal, fmt.Sprintf("export hook of %T failed: %v", v, r))
		}
	}()
	return e.Export(), nil
}
