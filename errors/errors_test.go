package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseLoad,
				Kind:     KindInvalidData,
				Path:     []string{"Counter", "value"},
				GoType:   "string",
				MetaType: "int",
				Detail:   "cannot convert",
			},
			contains: []string{"[load]", "invalid_data", "Counter.value", "Go type string", "meta type int", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "meta type only",
			err: &Error{
				Phase:    PhaseStore,
				Kind:     KindAllocation,
				MetaType: "QString",
				Detail:   "arena exhausted",
			},
			contains: []string{"[store]", "meta type QString - arena exhausted"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRegister,
				Kind:   KindRegistration,
				Detail: "register class Counter",
				Cause:  errors.New("table rejected"),
			},
			contains: []string{"[register]", "registration", "Counter", "caused by", "table rejected"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseStore,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should follow the cause chain")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseCompile,
		Kind:  KindDuplicate,
		Path:  []string{"Counter"},
	}

	if !err.Is(&Error{Phase: PhaseCompile, Kind: KindDuplicate}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindDuplicate}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseCompile, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}

	var target *Error
	if !errors.As(error(err), &target) || target.Path[0] != "Counter" {
		t.Error("errors.As should extract *Error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseLoad, KindInvalidData).
		Path("Counter", "value").
		GoType("string").
		MetaType("int").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "string", "int").
		Build()

	if err.Phase != PhaseLoad {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseLoad)
	}
	if err.Kind != KindInvalidData {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidData)
	}
	if len(err.Path) != 2 || err.Path[0] != "Counter" || err.Path[1] != "value" {
		t.Errorf("Path = %v, want [Counter value]", err.Path)
	}
	if err.GoType != "string" || err.MetaType != "int" {
		t.Errorf("GoType=%q MetaType=%q", err.GoType, err.MetaType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got int" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		want string
	}{
		{"InvalidUTF8", InvalidUTF8(PhaseLoad, nil, []byte{0xff, 0xfe}), KindInvalidUTF8, "fffe"},
		{"AllocationFailed", AllocationFailed(PhaseStore, 1024, 8), KindAllocation, "1024"},
		{"Unsupported", Unsupported(PhaseCompile, "signals"), KindUnsupported, "signals"},
		{"OutOfBounds", OutOfBounds(PhaseDecode, nil, 10, 5), KindOutOfBounds, "length 5"},
		{"NilPointer", NilPointer(PhaseDispatch, nil, "argument slot 1"), KindNilPointer, "null argument slot 1"},
		{"Overflow", Overflow(PhaseStore, nil, 300, "maximum string size"), KindOverflow, "value 300 exceeds maximum string size"},
		{"InvalidData", InvalidData(PhaseDecode, nil, "missing terminator"), KindInvalidData, "missing terminator"},
		{"NotFound", NotFound(PhaseDispatch, "instance", "0x10"), KindNotFound, `instance "0x10" not found`},
		{"InvalidInput", InvalidInput(PhaseCompile, "empty class name"), KindInvalidInput, "empty class name"},
		{"Duplicate", Duplicate(PhaseCompile, nil, "method", "increment"), KindDuplicate, `method "increment" declared twice`},
		{"Revision", Revision(6, 5), KindRevision, "revision 6, expected 5"},
		{"ReadOnly", ReadOnly([]string{"Counter", "value"}), KindReadOnly, "no writer"},
		{"Registration", Registration("Counter", errors.New("bad")), KindRegistration, "register class Counter"},
		{"Instantiation", Instantiation("host module", errors.New("bad")), KindInstantiation, "host module"},
		{"ParseFailed", ParseFailed("classes.toml", errors.New("bad")), KindInvalidData, "parse classes.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("Error() = %q, want it to contain %q", tt.err.Error(), tt.want)
			}
		})
	}
}
