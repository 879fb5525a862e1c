package canerr

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildMask_Default(t *testing.T) {
	opts, err := BuildMask(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Mask != DefaultMask {
		t.Fatalf("mask=0x%08X want 0x%08X", uint32(opts.Mask), uint32(DefaultMask))
	}
	if opts.ShowBits {
		t.Fatalf("ShowBits set without option")
	}
}

func TestBuildMask_EachIgnoreClearsOneClass(t *testing.T) {
	tests := []struct {
		tok   string
		class Class
	}{
		{"IgnoreTxTimeout", ClassTxTimeout},
		{"ignorelostarbit", ClassLostArbit},
		{"IGNORECONTROLLER", ClassController},
		{"IgnoreProtocol", ClassProtocol},
		{"IgnoreTransceiver", ClassTransceiver},
		{"ignoreNoAck", ClassNoAck},
		{"IgnoreBusOff", ClassBusOff},
		{"IgnoreBusError", ClassBusError},
		{"IgnoreRestarted", ClassRestarted},
		{"IgnoreCounters", ClassCounters},
	}
	for _, tc := range tests {
		t.Run(tc.tok, func(t *testing.T) {
			opts, err := BuildMask([]string{tc.tok})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := DefaultMask &^ Mask(tc.class)
			if opts.Mask != want {
				t.Fatalf("mask=0x%08X want 0x%08X", uint32(opts.Mask), uint32(want))
			}
			if opts.Mask.Allows(tc.class) {
				t.Fatalf("mask still allows %v", tc.class.Names())
			}
		})
	}
}

func TestBuildMask_OrderIndependent(t *testing.T) {
	a, errA := BuildMask([]string{"IgnoreBusOff", "IgnoreNoAck"})
	b, errB := BuildMask([]string{"IgnoreNoAck", "IgnoreBusOff"})
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v %v", errA, errB)
	}
	if a != b {
		t.Fatalf("order dependent: %+v vs %+v", a, b)
	}
}

func TestBuildMask_RepeatedIgnoreIsIdempotent(t *testing.T) {
	a, _ := BuildMask([]string{"IgnoreBusOff"})
	b, _ := BuildMask([]string{"IgnoreBusOff", "ignorebusoff"})
	if a.Mask != b.Mask {
		t.Fatalf("repeat changed mask: 0x%08X vs 0x%08X", uint32(a.Mask), uint32(b.Mask))
	}
}

func TestBuildMask_ShowBitsDoesNotAlterMask(t *testing.T) {
	opts, err := BuildMask([]string{"showbits"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.ShowBits || opts.Mask != DefaultMask {
		t.Fatalf("got %+v", opts)
	}
}

func TestBuildMask_UnknownOption(t *testing.T) {
	opts, err := BuildMask([]string{"IgnoreBusOff", "Bogus", "AlsoBogus"})
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	for _, tok := range []string{"Bogus", "AlsoBogus"} {
		if !strings.Contains(err.Error(), tok) {
			t.Fatalf("error %q does not name %q", err, tok)
		}
	}
	// Recognized tokens are still applied so the caller can choose to continue.
	if opts.Mask.Allows(ClassBusOff) {
		t.Fatalf("IgnoreBusOff not applied alongside error")
	}
}

func TestMaskBits_AllIgnored(t *testing.T) {
	tokens := []string{"ShowBits"}
	for _, name := range OptionNames() {
		if strings.HasPrefix(name, "Ignore") {
			tokens = append(tokens, name)
		}
	}
	if len(tokens) != 11 {
		t.Fatalf("expected 10 ignore options, got %d", len(tokens)-1)
	}
	opts, err := BuildMask(tokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bits := opts.Mask.Bits()
	if len(bits) != 32 {
		t.Fatalf("bits length %d", len(bits))
	}
	if want := "00111111111111111111110000000000"; bits != want {
		t.Fatalf("bits=%s want %s", bits, want)
	}
	// error flag (bit 29) still set, class bits 0..9 clear
	if bits[2] != '1' || strings.Contains(bits[22:], "1") {
		t.Fatalf("unexpected bit layout %s", bits)
	}
}

func TestMaskBits_Default(t *testing.T) {
	if got, want := DefaultMask.Bits(), "00"+strings.Repeat("1", 30); got != want {
		t.Fatalf("bits=%s want %s", got, want)
	}
}

func TestMaskAllows(t *testing.T) {
	m := DefaultMask.Without(ClassBusOff).Without(ClassNoAck)
	tests := []struct {
		name string
		c    Class
		want bool
	}{
		{"none", 0, false},
		{"busoff only", ClassBusOff, false},
		{"busoff+noack", ClassBusOff | ClassNoAck, false},
		{"busoff+restarted", ClassBusOff | ClassRestarted, true},
		{"protocol", ClassProtocol, true},
	}
	for _, tc := range tests {
		if got := m.Allows(tc.c); got != tc.want {
			t.Fatalf("%s: Allows=%v want %v", tc.name, got, tc.want)
		}
	}
}

func TestClassNames(t *testing.T) {
	got := (ClassLostArbit | ClassCounters).Names()
	if len(got) != 2 || got[0] != "lost_arbitration" || got[1] != "counters" {
		t.Fatalf("names=%v", got)
	}
	if n := len(ClassNames()); n != 10 {
		t.Fatalf("expected 10 class names, got %d", n)
	}
}
