package domain

// Export is the plain, format-agnostic view of a Result.
type Export struct {
	Status Status `json:"status" yaml:"status"`
	Data   any    `json:"data" yaml:"data"`
}

// Serializer turns an exported result into a wire string.
//
// SerializeError must never fail: it renders err as an error envelope and
// falls back to a constant string when even that cannot be encoded.
type Serializer interface {
	SerializeResult(export Export) (string, error)
	SerializeError(err error) string
}

// Result is the JSend-extend envelope for one operation outcome.
type Result struct {
	status   Status
	data     any
	messages []Notice
}

// NewResult returns an empty result with the success status.
func NewResult() *Result {
	return &Result{status: StatusSuccess}
}

// SetData stores the payload. Strings, nil, slices, maps, structs, numbers
// and booleans are accepted; functions, channels and OS resource handles are
// not.
func (r *Result) SetData(data any) error {
	if ClassifyData(data) == DataInvalid {
		return InvalidArgument("Unable to set result data. Expected an argument of an allowed type (string, null, array, object, number or bool) but received a %T.", data)
	}
	r.data = data
	return nil
}

func (r *Result) Data() any {
	return r.data
}

func (r *Result) SetStatusSuccess() *Result {
	r.status = StatusSuccess
	return r
}

func (r *Result) SetStatusFail() *Result {
	r.status = StatusFail
	return r
}

func (r *Result) SetStatusError() *Result {
	r.status = StatusError
	return r
}

func (r *Result) Status() Status {
	return r.status
}

// AddMessage appends a message. Messages only reach the wire when the result
// has trouble. A nil message is ignored.
func (r *Result) AddMessage(message Notice) *Result {
	if message == nil {
		return r
	}
	r.messages = append(r.messages, message)
	return r
}

func (r *Result) Messages() []Notice {
	return r.messages
}

func (r *Result) HasTrouble() bool {
	return r.status.IsTrouble()
}

func (r *Result) IsSuccess() bool {
	return r.status == StatusSuccess
}

func (r *Result) IsError() bool {
	return r.status == StatusError
}

func (r *Result) IsFailure() bool {
	return r.status == StatusFail
}

// Export builds the structure handed to a Serializer. With trouble the
// payload is the message list and data is ignored; otherwise it is the data.
func (r *Result) Export() (Export, error) {
	if r.status == "" {
		return Export{}, ErrUnsetStatus
	}

	out := Export{Status: r.status}
	if r.HasTrouble() {
		messages := make([]any, 0, len(r.messages))
		for _, m := range r.messages {
			exported, err := exportNotice(m)
			if err != nil {
				return Export{}, err
			}
			messages = append(messages, exported)
		}
		out.Data = messages
		return out, nil
	}

	data, err := exportValue(r.data)
	if err != nil {
		return Export{}, err
	}
	out.Data = data
	return out, nil
}

func exportNotice(n Notice) (any, error) {
	if _, ok := n.(Exportable); ok {
		return exportValue(n)
	}
	return ExportNotice(n), nil
}

// SerializeWith exports the result and encodes it with s. It always returns
// a string: any failure is rendered by s.SerializeError instead.
func (r *Result) SerializeWith(s Serializer) string {
	export, err := r.Export()
	if err != nil {
		return s.SerializeError(err)
	}
	out, err := s.SerializeResult(export)
	if err != nil {
		return s.SerializeError(err)
	}
	return out
}
