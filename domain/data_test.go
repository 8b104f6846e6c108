package domain

import (
	"encoding/json"
	"os"
	"testing"
	"unsafe"
)

func TestClassifyData(t *testing.T) {
	var nilMap map[string]any
	var nilPointer *exportedPoint
	n := 3

	tests := []struct {
		name string
		in   any
		want DataKind
	}{
		{"nil", nil, DataNull},
		{"nil pointer", nilPointer, DataNull},
		{"string", "x", DataText},
		{"int", 1, DataNumber},
		{"uint16", uint16(1), DataNumber},
		{"float32", float32(1.5), DataNumber},
		{"json number", json.Number("1.5"), DataNumber},
		{"bool", false, DataBool},
		{"slice", []int{1}, DataList},
		{"array", [2]string{"a", "b"}, DataList},
		{"map", map[string]int{"a": 1}, DataMap},
		{"nil map", nilMap, DataMap},
		{"struct", struct{ A int }{1}, DataObject},
		{"exportable", exportedPoint{}, DataObject},
		{"raw json", json.RawMessage(`{}`), DataObject},
		{"pointer to int", &n, DataNumber},
		{"func", func() {}, DataInvalid},
		{"chan", make(chan struct{}), DataInvalid},
		{"unsafe pointer", unsafe.Pointer(&n), DataInvalid},
		{"uintptr", uintptr(1), DataInvalid},
		{"complex", complex64(1), DataInvalid},
		{"file", os.Stderr, DataInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyData(tt.in); got != tt.want {
				t.Fatalf("ClassifyData(%T) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
