package domain

import (
	"errors"
	"net"
	"os"
	"reflect"
	"testing"
	"time"
)

type stubSerializer struct {
	out       string
	err       error
	exports   []Export
	failures  []error
	errOutput string
}

func (s *stubSerializer) SerializeResult(export Export) (string, error) {
	s.exports = append(s.exports, export)
	return s.out, s.err
}

func (s *stubSerializer) SerializeError(err error) string {
	s.failures = append(s.failures, err)
	return s.errOutput
}

type exportedPoint struct {
	X, Y int
}

func (p exportedPoint) Export() any {
	return []int{p.X, p.Y}
}

type panickingExport struct{}

func (panickingExport) Export() any {
	panic("boom")
}

func TestSetGetValidData(t *testing.T) {
	cases := map[string]any{
		"string":  "lorem ipsum",
		"nil":     nil,
		"map":     map[string]any{"lorem": "ipsum"},
		"struct":  struct{ Lorem string }{Lorem: "ipsum"},
		"time":    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		"pointer": &exportedPoint{X: 1, Y: 2},
		"int":     123456789,
		"float":   1.23456789,
		"bool":    true,
		"slice":   []string{"lorem", "ipsum"},
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			result := NewResult()
			if err := result.SetData(data); err != nil {
				t.Fatalf("SetData(%v): %v", data, err)
			}
			if !reflect.DeepEqual(result.Data(), data) {
				t.Fatalf("Data() = %#v, want %#v", result.Data(), data)
			}
		})
	}
}

func TestSetInvalidData(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cases := map[string]any{
		"func":    func() {},
		"chan":    make(chan int),
		"file":    os.Stdout,
		"conn":    client,
		"complex": complex(1, 2),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			result := NewResult()
			if err := result.SetData("kept"); err != nil {
				t.Fatalf("SetData: %v", err)
			}
			err := result.SetData(data)
			if !IsDomainError(err, ErrCodeInvalidArgument) {
				t.Fatalf("SetData(%T) error = %v, want %s", data, err, ErrCodeInvalidArgument)
			}
			if result.Data() != "kept" {
				t.Fatalf("rejected data replaced the payload: %#v", result.Data())
			}
		})
	}
}

func TestDefaultStatus(t *testing.T) {
	result := NewResult()
	if result.Status() != StatusSuccess {
		t.Fatalf("Status() = %q, want %q", result.Status(), StatusSuccess)
	}
}

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		name    string
		set     func(*Result) *Result
		status  Status
		trouble bool
		success bool
		isError bool
		failure bool
	}{
		{"default", func(r *Result) *Result { return r }, StatusSuccess, false, true, false, false},
		{"success", (*Result).SetStatusSuccess, StatusSuccess, false, true, false, false},
		{"fail", (*Result).SetStatusFail, StatusFail, true, false, false, true},
		{"error", (*Result).SetStatusError, StatusError, true, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.set(NewResult())
			if result.Status() != tt.status {
				t.Errorf("Status() = %q, want %q", result.Status(), tt.status)
			}
			if result.HasTrouble() != tt.trouble {
				t.Errorf("HasTrouble() = %v, want %v", result.HasTrouble(), tt.trouble)
			}
			if result.IsSuccess() != tt.success {
				t.Errorf("IsSuccess() = %v, want %v", result.IsSuccess(), tt.success)
			}
			if result.IsError() != tt.isError {
				t.Errorf("IsError() = %v, want %v", result.IsError(), tt.isError)
			}
			if result.IsFailure() != tt.failure {
				t.Errorf("IsFailure() = %v, want %v", result.IsFailure(), tt.failure)
			}
		})
	}
}

func TestStatusTransitionsFromAnyState(t *testing.T) {
	result := NewResult().SetStatusError().SetStatusFail().SetStatusSuccess().SetStatusError()
	if !result.IsError() {
		t.Fatalf("Status() = %q, want %q", result.Status(), StatusError)
	}
}

func TestAddGetMessages(t *testing.T) {
	for _, count := range []int{0, 1, 2, 5} {
		result := NewResult()
		var want []Notice
		for i := 0; i < count; i++ {
			m := (&Message{}).SetText("Lorem ipsum")
			want = append(want, m)
			result.AddMessage(m)
		}
		got := result.Messages()
		if len(got) != len(want) {
			t.Fatalf("len(Messages()) = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Messages()[%d] is not the added message", i)
			}
		}
	}
}

func TestAddMessageIgnoresNil(t *testing.T) {
	result := NewResult().AddMessage(nil)
	if len(result.Messages()) != 0 {
		t.Fatalf("nil message was stored")
	}
}

func TestExportSuccessUsesData(t *testing.T) {
	result := NewResult()
	if err := result.SetData(exportedPoint{X: 3, Y: 4}); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	message, _ := NewMessage("ignored", nil, "")
	result.AddMessage(message)

	export, err := result.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if export.Status != StatusSuccess {
		t.Errorf("Status = %q", export.Status)
	}
	if !reflect.DeepEqual(export.Data, []int{3, 4}) {
		t.Errorf("Data = %#v, want exported point", export.Data)
	}
}

func TestExportTroubleUsesMessages(t *testing.T) {
	first, _ := NewMessage("Dolor sit amet", 12, "name")
	second, _ := NewMessage("Adipiscing", nil, "")

	result := NewResult().SetStatusError()
	if err := result.SetData("kept"); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	result.AddMessage(first).AddMessage(second)

	export, err := result.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := []any{
		MessageExport{Message: "Dolor sit amet", Code: 12, Field: "name"},
		MessageExport{Message: "Adipiscing"},
	}
	if !reflect.DeepEqual(export.Data, want) {
		t.Fatalf("Data = %#v, want %#v", export.Data, want)
	}
	if result.Data() != "kept" {
		t.Fatalf("trouble status cleared the data: %#v", result.Data())
	}
}

func TestExportUnsetStatus(t *testing.T) {
	var result Result
	_, err := result.Export()
	if !errors.Is(err, ErrUnsetStatus) {
		t.Fatalf("Export error = %v, want ErrUnsetStatus", err)
	}
	if !IsDomainError(err, ErrCodeInvariantViolation) {
		t.Fatalf("Export error code is not %s", ErrCodeInvariantViolation)
	}
}

func TestSerializeWithSuccess(t *testing.T) {
	s := &stubSerializer{out: "Lorem ipsum"}
	got := NewResult().SerializeWith(s)
	if got != "Lorem ipsum" {
		t.Fatalf("SerializeWith = %q", got)
	}
	if len(s.exports) != 1 || len(s.failures) != 0 {
		t.Fatalf("calls: %d exports, %d failures", len(s.exports), len(s.failures))
	}
}

func TestSerializeWithEncodeFailure(t *testing.T) {
	encodeErr := errors.New("encode failed")
	s := &stubSerializer{err: encodeErr, errOutput: "fallback"}

	got := NewResult().SerializeWith(s)
	if got != "fallback" {
		t.Fatalf("SerializeWith = %q, want fallback", got)
	}
	if len(s.failures) != 1 || s.failures[0] != encodeErr {
		t.Fatalf("SerializeError received %v", s.failures)
	}
}

func TestSerializeWithUnsetStatus(t *testing.T) {
	s := &stubSerializer{errOutput: "fallback"}
	var result Result

	if got := result.SerializeWith(s); got != "fallback" {
		t.Fatalf("SerializeWith = %q, want fallback", got)
	}
	if len(s.exports) != 0 {
		t.Fatalf("SerializeResult called for an unset status")
	}
	if !errors.Is(s.failures[0], ErrUnsetStatus) {
		t.Fatalf("SerializeError received %v", s.failures[0])
	}
}

func TestSerializeWithPanickingExportHook(t *testing.T) {
	s := &stubSerializer{errOutput: "fallback"}
	result := NewResult()
	if err := result.SetData(panickingExport{}); err != nil {
		t.Fatalf("SetData: %v", err)
	}

	if got := result.SerializeWith(s); got != "fallback" {
		t.Fatalf("SerializeWith = %q, want fallback", got)
	}
	if !IsDomainError(s.failures[0], ErrCodeInternal) {
		t.Fatalf("SerializeError received %v", s.failures[0])
	}
}
