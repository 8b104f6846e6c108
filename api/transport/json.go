package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/fastygo/roast/domain"
)

// Flags tunes the JSON encoder.
type Flags int

const (
	// FlagEscapeHTML escapes <, > and & inside strings.
	FlagEscapeHTML Flags = 1 << iota
	// FlagPrettyPrint indents output with four spaces.
	FlagPrettyPrint
	// FlagInvalidUTF8Substitute replaces invalid UTF-8 with U+FFFD instead
	// of failing.
	FlagInvalidUTF8Substitute

	knownFlags = FlagEscapeHTML | FlagPrettyPrint | FlagInvalidUTF8Substitute
)

// FallbackJSON is returned when not even the error envelope can be encoded.
const FallbackJSON = `{"status": "error", "data": [{"message": "An unknown exception occurred during serialization."}]}`

// JSONEncodeFunc is the JSON encode primitive.
type JSONEncodeFunc func(v any, flags Flags) ([]byte, error)

// JSONOption customizes a JSONSerializer.
type JSONOption func(*JSONSerializer)

// WithJSONLogger sets the logger used to report fallback serializations.
func WithJSONLogger(logger *zap.Logger) JSONOption {
	return func(s *JSONSerializer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithJSONEncoder replaces the encode primitive.
func WithJSONEncoder(fn JSONEncodeFunc) JSONOption {
	return func(s *JSONSerializer) {
		if fn != nil {
			s.encode = fn
		}
	}
}

// JSONSerializer implements domain.Serializer for JSON.
type JSONSerializer struct {
	flags  Flags
	encode JSONEncodeFunc
	logger *zap.Logger
}

// NewJSONSerializer validates flags and builds a serializer.
func NewJSONSerializer(flags Flags, opts ...JSONOption) (*JSONSerializer, error) {
	s := &JSONSerializer{
		encode: EncodeJSON,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.SetFlags(flags); err != nil {
		return nil, err
	}
	return s, nil
}

// SetFlags replaces the encoder flags. Unknown bits are rejected.
func (s *JSONSerializer) SetFlags(flags Flags) error {
	if flags&^knownFlags != 0 {
		return domain.InvalidArgument("Invalid JSON flags value %d. Known flags are escape-html (%d), pretty-print (%d) and invalid-utf8-substitute (%d).",
			int(flags), int(FlagEscapeHTML), int(FlagPrettyPrint), int(FlagInvalidUTF8Substitute))
	}
	s.flags = flags
	return nil
}

func (s *JSONSerializer) Flags() Flags {
	return s.flags
}

// WithLogger returns a copy of s that reports fallbacks through logger.
func (s *JSONSerializer) WithLogger(logger *zap.Logger) *JSONSerializer {
	clone := *s
	if logger != nil {
		clone.logger = logger
	}
	return &clone
}

// SerializeResult encodes an exported result with the configured flags.
func (s *JSONSerializer) SerializeResult(export domain.Export) (string, error) {
	out, err := s.encode(export, s.flags)
	if err != nil {
		return "", encodeFailure("JSON", err)
	}
	return string(out), nil
}

// SerializeError renders err as an error envelope. It never fails.
func (s *JSONSerializer) SerializeError(err error) string {
	s.logger.Warn("envelope serialization failed", zap.Error(err))

	out, encErr := s.encode(fallbackExport(err), 0)
	if encErr != nil {
		s.logger.Error("error envelope serialization failed", zap.Error(encErr))
		return FallbackJSON
	}
	return string(out)
}

// EncodeJSON is the default JSON encode primitive. Failures, including
// panics raised by json.Marshaler implementations, are reported as
// *EncodeError.
func EncodeJSON(v any, flags Flags) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &EncodeError{Message: fmt.Sprintf("json: panic while encoding: %v", r), Number: ErrNumberMarshaler}
		}
	}()

	inspector := newValueInspector("json", "json", flags&FlagInvalidUTF8Substitute == 0, jsonExportHook)
	if encErr := inspector.inspect(v); encErr != nil {
		return nil, encErr
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(flags&FlagEscapeHTML != 0)
	if flags&FlagPrettyPrint != 0 {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, classifyJSONError(err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func classifyJSONError(err error) *EncodeError {
	var (
		valueErr     *json.UnsupportedValueError
		typeErr      *json.UnsupportedTypeError
		marshalerErr *json.MarshalerError
	)
	switch {
	case errors.As(err, &valueErr):
		return &EncodeError{Message: valueErr.Error(), Number: ErrNumberUnsupportedValue}
	case errors.As(err, &typeErr):
		return &EncodeError{Message: typeErr.Error(), Number: ErrNumberUnsupportedType}
	case errors.As(err, &marshalerErr):
		return &EncodeError{Message: marshalerErr.Error(), Number: ErrNumberMarshaler}
	default:
		return &EncodeError{Message: err.Error(), Number: ErrNumberUnknown}
	}
}

// jsonExportHook follows values whose MarshalJSON writes their Export, so
// strings hidden behind unexported fields are still inspected.
func jsonExportHook(v reflect.Value) (reflect.Value, bool) {
	if !v.CanInterface() {
		return reflect.Value{}, false
	}
	iface := v.Interface()
	if _, ok := iface.(json.Marshaler); !ok {
		return reflect.Value{}, false
	}
	exportable, ok := iface.(domain.Exportable)
	if !ok {
		return reflect.Value{}, false
	}
	return reflect.ValueOf(exportable.Export()), true
}

// JSONMessage is a Message that encodes itself through json.Marshal with the
// same shape as its Export.
type JSONMessage struct {
	*domain.Message
}

// NewJSONMessage builds a JSONMessage; see domain.NewMessage.
func NewJSONMessage(text string, code any, field string) (*JSONMessage, error) {
	m, err := domain.NewMessage(text, code, field)
	if err != nil {
		return nil, err
	}
	return &JSONMessage{Message: m}, nil
}

// MarshalJSON implements json.Marshaler. HTML is left unescaped here; the
// calling encoder escapes it again when its own settings ask for it.
func (m *JSONMessage) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m.Export()); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// JSONResult is a Result bound to a JSONSerializer.
type JSONResult struct {
	*domain.Result
	serializer *JSONSerializer
}

// NewJSONResult returns a success result encoded with flags.
func NewJSONResult(flags Flags, opts ...JSONOption) (*JSONResult, error) {
	s, err := NewJSONSerializer(flags, opts...)
	if err != nil {
		return nil, err
	}
	return &JSONResult{Result: domain.NewResult(), serializer: s}, nil
}

// CreateMessage builds a message suited to this result's format.
func (r *JSONResult) CreateMessage(text string, code any, field string) (*JSONMessage, error) {
	return NewJSONMessage(text, code, field)
}

func (r *JSONResult) SetJSONFlags(flags Flags) error {
	return r.serializer.SetFlags(flags)
}

func (r *JSONResult) JSONFlags() Flags {
	return r.serializer.Flags()
}

// Serialize returns the JSON wire form of the result. It never fails.
func (r *JSONResult) Serialize() string {
	return r.SerializeWith(r.serializer)
}
