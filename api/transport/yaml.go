package transport

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fastygo/roast/domain"
)

// FallbackYAML is returned when not even the error envelope can be encoded.
const FallbackYAML = "status: error\ndata:\n    - message: An unknown exception occurred during serialization.\n"

// DefaultYAMLIndent matches the yaml.v3 encoder default.
const DefaultYAMLIndent = 4

// YAMLEncodeFunc is the YAML encode primitive.
type YAMLEncodeFunc func(v any, indent int) ([]byte, error)

// YAMLOption customizes a YAMLSerializer.
type YAMLOption func(*YAMLSerializer)

func WithYAMLLogger(logger *zap.Logger) YAMLOption {
	return func(s *YAMLSerializer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithYAMLEncoder(fn YAMLEncodeFunc) YAMLOption {
	return func(s *YAMLSerializer) {
		if fn != nil {
			s.encode = fn
		}
	}
}

// YAMLSerializer implements domain.Serializer for YAML.
type YAMLSerializer struct {
	indent int
	encode YAMLEncodeFunc
	logger *zap.Logger
}

func NewYAMLSerializer(indent int, opts ...YAMLOption) (*YAMLSerializer, error) {
	s := &YAMLSerializer{
		encode: EncodeYAML,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.SetIndent(indent); err != nil {
		return nil, err
	}
	return s, nil
}

// SetIndent sets the indentation width; yaml.v3 honours 2 to 9 spaces.
func (s *YAMLSerializer) SetIndent(indent int) error {
	if indent < 2 || indent > 9 {
		return domain.InvalidArgument("Invalid YAML indent %d. Expected a width between 2 and 9.", indent)
	}
	s.indent = indent
	return nil
}

func (s *YAMLSerializer) Indent() int {
	return s.indent
}

// WithLogger returns a copy of s that reports fallbacks through logger.
func (s *YAMLSerializer) WithLogger(logger *zap.Logger) *YAMLSerializer {
	clone := *s
	if logger != nil {
		clone.logger = logger
	}
	return &clone
}

func (s *YAMLSerializer) SerializeResult(export domain.Export) (string, error) {
	out, err := s.encode(export, s.indent)
	if err != nil {
		return "", encodeFailure("YAML", err)
	}
	return string(out), nil
}

// SerializeError renders err as an error envelope. It never fails.
func (s *YAMLSerializer) SerializeError(err error) string {
	s.logger.Warn("envelope serialization failed", zap.Error(err))

	out, encErr := s.encode(fallbackExport(err), DefaultYAMLIndent)
	if encErr != nil {
		s.logger.Error("error envelope serialization failed", zap.Error(encErr))
		return FallbackYAML
	}
	return string(out)
}

// EncodeYAML is the default YAML encode primitive. yaml.v3 panics on some
// inputs and never returns on cyclic ones; both are reported as *EncodeError.
func EncodeYAML(v any, indent int) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &EncodeError{Message: fmt.Sprintf("yaml: panic while encoding: %v", r), Number: ErrNumberMarshaler}
		}
	}()

	if encErr := newValueInspector("yaml", "yaml", false, nil).inspect(v); encErr != nil {
		return nil, encErr
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(v); err != nil {
		return nil, &EncodeError{Message: err.Error(), Number: ErrNumberUnsupportedType}
	}
	if err := enc.Close(); err != nil {
		return nil, &EncodeError{Message: err.Error(), Number: ErrNumberUnknown}
	}
	return buf.Bytes(), nil
}

// YAMLResult is a Result bound to a YAMLSerializer.
type YAMLResult struct {
	*domain.Result
	serializer *YAMLSerializer
}

func NewYAMLResult(indent int, opts ...YAMLOption) (*YAMLResult, error) {
	s, err := NewYAMLSerializer(indent, opts...)
	if err != nil {
		return nil, err
	}
	return &YAMLResult{Result: domain.NewResult(), serializer: s}, nil
}

// Serialize returns the YAML wire form of the result. It never fails.
func (r *YAMLResult) Serialize() string {
	return r.SerializeWith(r.serializer)
}
