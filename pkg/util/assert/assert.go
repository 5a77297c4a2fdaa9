package assert

import (
	"fmt"
	"reflect"
	"testing"
)

// Equal errors if actual is not equal to expected.  Integers of different types
// are compared by value, so that untyped constants can be compared with fields
// of any width.
func Equal(t *testing.T, expected, actual any, msg ...any) {
	t.Helper()
	//
	if reflect.DeepEqual(expected, actual) || intEqual(expected, actual) {
		return
	}
	//
	fail(t, fmt.Sprintf("expected: %v, actual: %v", expected, actual), msg)
}

// intEqual returns whether expected and actual are both integers of equal
// value.
func intEqual(expected, actual any) bool {
	x, y := reflect.ValueOf(expected), reflect.ValueOf(actual)
	//
	switch {
	case x.CanInt() && y.CanInt():
		return x.Int() == y.Int()
	case x.CanUint() && y.CanUint():
		return x.Uint() == y.Uint()
	case x.CanInt() && y.CanUint():
		return x.Int() >= 0 && uint64(x.Int()) == y.Uint()
	case x.CanUint() && y.CanInt():
		return y.Int() >= 0 && x.Uint() == uint64(y.Int())
	}
	//
	return false
}

// True errors if condition is false.
func True(t *testing.T, condition bool, msg ...any) {
	t.Helper()
	//
	if !condition {
		fail(t, "condition is false", msg)
	}
}

// False errors if condition is true.
func False(t *testing.T, condition bool, msg ...any) {
	t.Helper()
	//
	if condition {
		fail(t, "condition is true", msg)
	}
}

// Panics errors if the given function returns without panicking.  Resource
// usage errors of the host (such as beeping outside the send phase) are
// reported this way.
func Panics(t *testing.T, fn func(), msg ...any) {
	t.Helper()
	//
	defer func() {
		if recover() == nil {
			fail(t, "expected panic", msg)
		}
	}()
	//
	fn()
}

// fail reports a failed assertion together with an optional message, which is
// either a format string with arguments or any single value (e.g. an error).
func fail(t *testing.T, reason string, msg []any) {
	t.Helper()
	t.Error(reason)
	//
	if len(msg) != 0 {
		if format, ok := msg[0].(string); ok {
			t.Errorf(format, msg[1:]...)
		} else {
			t.Error(msg...)
		}
	}
	//
	t.FailNow()
}
