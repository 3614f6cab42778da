package clients

import (
	"github.com/goccy/go-json"
	"github.com/leanttro/leanttrotech/apperrors"
	"go.uber.org/zap"
)

// DecodeList decodes a {"data": [...]} envelope into typed records.
// An empty list is reported as Empty.
func DecodeList[T any](r Result[[]byte]) Result[[]T] {
	if r.Status != StatusOK {
		return Result[[]T]{Status: r.Status, Err: r.Err}
	}
	var env struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(r.Data, &env); err != nil {
		return decodeFailed[[]T](err)
	}
	if len(env.Data) == 0 {
		return Empty[[]T]()
	}
	return OK(env.Data)
}

// DecodeOne decodes a {"data": {...}} envelope. A null data is Empty.
func DecodeOne[T any](r Result[[]byte]) Result[T] {
	if r.Status != StatusOK {
		return Result[T]{Status: r.Status, Err: r.Err}
	}
	var env struct {
		Data *T `json:"data"`
	}
	if err := json.Unmarshal(r.Data, &env); err != nil {
		return decodeFailed[T](err)
	}
	if env.Data == nil {
		return Empty[T]()
	}
	return OK(*env.Data)
}

// First narrows a list result to its first element.
func First[T any](r Result[[]T]) Result[T] {
	if r.Status != StatusOK {
		return Result[T]{Status: r.Status, Err: r.Err}
	}
	if len(r.Data) == 0 {
		return Empty[T]()
	}
	return OK(r.Data[0])
}

func decodeFailed[T any](err error) Result[T] {
	wrapped := apperrors.Wrap(apperrors.ErrUpstreamDecode, err)
	zap.L().Error("CMS response could not be decoded", zap.Error(err))
	return Failed[T](wrapped)
}
