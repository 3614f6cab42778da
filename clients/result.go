package clients

// Status classifies the outcome of a CMS call.
type Status int

const (
	// StatusOK means the CMS answered 2xx with data.
	StatusOK Status = iota
	// StatusEmpty means the CMS answered but there was nothing to return.
	StatusEmpty
	// StatusFailed means transport, upstream or decode failure; Err is set.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Result carries CMS data together with how it was obtained, so callers
// decide whether an empty or failed answer is acceptable.
type Result[T any] struct {
	Data   T
	Status Status
	Err    error
}

func OK[T any](data T) Result[T] {
	return Result[T]{Data: data, Status: StatusOK}
}

func Empty[T any]() Result[T] {
	return Result[T]{Status: StatusEmpty}
}

func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusFailed, Err: err}
}

func (r Result[T]) OK() bool     { return r.Status == StatusOK }
func (r Result[T]) Empty() bool  { return r.Status == StatusEmpty }
func (r Result[T]) Failed() bool { return r.Status == StatusFailed }

// OrElse returns the data on success and fallback otherwise.
func (r Result[T]) OrElse(fallback T) T {
	if r.Status == StatusOK {
		return r.Data
	}
	return fallback
}
