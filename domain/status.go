package domain

// Status is the JSend-extend outcome of an operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
	StatusError   Status = "error"
)

// IsTrouble reports whether the status is fail or error.
func (s Status) IsTrouble() bool {
	return s == StatusFail || s == StatusError
}

func (s Status) String() string {
	return string(s)
}
