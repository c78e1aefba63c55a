package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

// ErrUnknownMethod is returned by Invoke for methods with no operation.
var ErrUnknownMethod = errors.New("unknown bridge method")

// ArgumentError reports a call whose positional arguments have the wrong
// shape. It is returned synchronously instead of reaching a callback.
type ArgumentError struct {
	Method string
	// Index is the offending position, or -1 when the argument list itself
	// is malformed.
	Index  int
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Method, e.Reason)
	}
	return fmt.Sprintf("%s: argument %d (%s): %s", e.Method, e.Index, e.Name, e.Reason)
}

// Reply receives a result as [code, ...values].
type Reply func(result []any)

func (r Reply) send(code errcode.Code, values ...any) {
	r(append([]any{int(code)}, values...))
}

// args decodes the positional arguments of one call. The first shape error
// sticks; later accessors return zero values.
type args struct {
	op     *operation
	values []json.RawMessage
	err    *ArgumentError
}

func decodeArgs(op *operation, params []byte) (*args, error) {
	a := &args{op: op}
	trimmed := bytes.TrimSpace(params)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return a, nil
	}
	if err := sonic.Unmarshal(trimmed, &a.values); err != nil {
		return nil, &ArgumentError{Method: op.method, Index: -1, Reason: "params must be a positional array"}
	}
	return a, nil
}

// decode unmarshals argument i into dst. Absent and null arguments leave
// dst untouched and fail only when the parameter is required.
func (a *args) decode(i int, dst any) {
	if a.err != nil {
		return
	}
	param := a.op.params[i]
	if i >= len(a.values) || bytes.Equal(bytes.TrimSpace(a.values[i]), []byte("null")) {
		if param.Required {
			a.fail(i, "missing")
		}
		return
	}
	if err := sonic.Unmarshal(a.values[i], dst); err != nil {
		a.fail(i, "expected "+param.Type)
	}
}

func (a *args) fail(i int, reason string) {
	a.err = &ArgumentError{Method: a.op.method, Index: i, Name: a.op.params[i].Name, Reason: reason}
}

func (a *args) str(i int) string {
	var s string
	a.decode(i, &s)
	return s
}

func (a *args) boolean(i int) bool {
	var v bool
	a.decode(i, &v)
	return v
}

func (a *args) integer(i int) int {
	var v int
	a.decode(i, &v)
	return v
}

func (a *args) number(i int) float64 {
	var v float64
	a.decode(i, &v)
	return v
}

func (a *args) strings(i int) []string {
	var v []string
	a.decode(i, &v)
	if v == nil {
		return []string{}
	}
	return v
}

// Invoke runs method with JSON positional params and hands the result to
// reply. Unknown methods and malformed arguments are reported as errors and
// reply is never called.
func (b *Bridge) Invoke(method string, params []byte, reply Reply) error {
	op, ok := operationIndex[method]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	a, err := decodeArgs(op, params)
	if err != nil {
		return err
	}
	if reply == nil {
		reply = func([]any) {}
	}

	start := op.call(b, a, reply)
	if a.err != nil {
		return a.err
	}
	start()
	return nil
}
