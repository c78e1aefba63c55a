package bridge

import (
	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

// Completion callbacks. A nil callback is replaced by a no-op before the
// call is dispatched, so callers may fire and forget.
type (
	Callback          func(code errcode.Code)
	BoolCallback      func(code errcode.Code, value bool)
	IntCallback       func(code errcode.Code, value int)
	Int64Callback     func(code errcode.Code, value int64)
	FloatCallback     func(code errcode.Code, value float64)
	StringCallback    func(code errcode.Code, value string)
	StringsCallback   func(code errcode.Code, values []string)
	StatCallback      func(code errcode.Code, stat types.FileStat)
	DirStatsCallback  func(code errcode.Code, names []string, stats []types.FileStat)
	ReadCallback      func(code errcode.Code, result types.ReadResult)
	ItemStateCallback func(code errcode.Code, enabled, checked bool, index int)
	PositionCallback  func(code errcode.Code, parentID string, index int)
)

func (cb Callback) orNoop() Callback {
	if cb == nil {
		return func(errcode.Code) {}
	}
	return cb
}

func (cb BoolCallback) orNoop() BoolCallback {
	if cb == nil {
		return func(errcode.Code, bool) {}
	}
	return cb
}

func (cb IntCallback) orNoop() IntCallback {
	if cb == nil {
		return func(errcode.Code, int) {}
	}
	return cb
}

func (cb Int64Callback) orNoop() Int64Callback {
	if cb == nil {
		return func(errcode.Code, int64) {}
	}
	return cb
}

func (cb FloatCallback) orNoop() FloatCallback {
	if cb == nil {
		return func(errcode.Code, float64) {}
	}
	return cb
}

func (cb StringCallback) orNoop() StringCallback {
	if cb == nil {
		return func(errcode.Code, string) {}
	}
	return cb
}

func (cb StringsCallback) orNoop() StringsCallback {
	if cb == nil {
		return func(errcode.Code, []string) {}
	}
	return cb
}

func (cb StatCallback) orNoop() StatCallback {
	if cb == nil {
		return func(errcode.Code, types.FileStat) {}
	}
	return cb
}

func (cb DirStatsCallback) orNoop() DirStatsCallback {
	if cb == nil {
		return func(errcode.Code, []string, []types.FileStat) {}
	}
	return cb
}

func (cb ReadCallback) orNoop() ReadCallback {
	if cb == nil {
		return func(errcode.Code, types.ReadResult) {}
	}
	return cb
}

func (cb ItemStateCallback) orNoop() ItemStateCallback {
	if cb == nil {
		return func(errcode.Code, bool, bool, int) {}
	}
	return cb
}

func (cb PositionCallback) orNoop() PositionCallback {
	if cb == nil {
		return func(errcode.Code, string, int) {}
	}
	return cb
}
