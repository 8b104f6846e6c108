package domain

import (
	"encoding/json"
	"net"
	"reflect"
	"syscall"
)

// DataKind enumerates the shapes a result payload may take.
type DataKind int

const (
	DataInvalid DataKind = iota
	DataNull
	DataText
	DataNumber
	DataBool
	DataList
	DataMap
	DataObject
)

func (k DataKind) String() string {
	switch k {
	case DataNull:
		return "null"
	case DataText:
		return "text"
	case DataNumber:
		return "number"
	case DataBool:
		return "bool"
	case DataList:
		return "list"
	case DataMap:
		return "map"
	case DataObject:
		return "object"
	default:
		return "invalid"
	}
}

// ClassifyData reports which payload shape v belongs to. Callables, channels,
// raw pointers, complex numbers and OS resource handles classify as
// DataInvalid.
func ClassifyData(v any) DataKind {
	if v == nil {
		return DataNull
	}
	if isResourceHandle(v) {
		return DataInvalid
	}
	rv := reflect.ValueOf(v)
	if isNilPointer(rv) {
		return DataNull
	}
	switch v.(type) {
	case json.Number:
		return DataNumber
	case Exportable, json.Marshaler:
		return DataObject
	}

	switch rv.Kind() {
	case reflect.String:
		return DataText
	case reflect.Bool:
		return DataBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return DataNumber
	case reflect.Slice, reflect.Array:
		return DataList
	case reflect.Map:
		return DataMap
	case reflect.Struct:
		return DataObject
	case reflect.Pointer, reflect.Interface:
		return ClassifyData(rv.Elem().Interface())
	default:
		// Func, Chan, UnsafePointer, Uintptr, Complex64, Complex128.
		return DataInvalid
	}
}

func isResourceHandle(v any) bool {
	switch v.(type) {
	case syscall.Conn, net.Conn, net.Listener:
		return true
	}
	return false
}

func isNilPointer(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
