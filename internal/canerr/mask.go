package canerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kstaniek/go-canerrdump/internal/can"
)

// ErrUnknownOption is returned by BuildMask for tokens it does not recognize.
var ErrUnknownOption = errors.New("invalid option")

// Class is a set of error-class bits taken from an error frame identifier.
type Class uint32

const (
	ClassTxTimeout   Class = can.CAN_ERR_TX_TIMEOUT
	ClassLostArbit   Class = can.CAN_ERR_LOSTARB
	ClassController  Class = can.CAN_ERR_CRTL
	ClassProtocol    Class = can.CAN_ERR_PROT
	ClassTransceiver Class = can.CAN_ERR_TRX
	ClassNoAck       Class = can.CAN_ERR_ACK
	ClassBusOff      Class = can.CAN_ERR_BUSOFF
	ClassBusError    Class = can.CAN_ERR_BUSERROR
	ClassRestarted   Class = can.CAN_ERR_RESTARTED
	ClassCounters    Class = can.CAN_ERR_CNT
)

// classNames are stable, metric-friendly names in identifier bit order.
var classNames = []struct {
	class Class
	name  string
}{
	{ClassTxTimeout, "tx_timeout"},
	{ClassLostArbit, "lost_arbitration"},
	{ClassController, "controller"},
	{ClassProtocol, "protocol"},
	{ClassTransceiver, "transceiver"},
	{ClassNoAck, "no_ack"},
	{ClassBusOff, "bus_off"},
	{ClassBusError, "bus_error"},
	{ClassRestarted, "restarted"},
	{ClassCounters, "counters"},
}

// Has reports whether every bit of o is set in c.
func (c Class) Has(o Class) bool { return o != 0 && c&o == o }

// Names returns the names of the known classes set in c.
func (c Class) Names() []string {
	var out []string
	for _, cn := range classNames {
		if c.Has(cn.class) {
			out = append(out, cn.name)
		}
	}
	return out
}

// ClassNames lists every known class name, e.g. for pre-registering metric series.
func ClassNames() []string { return Class(can.CAN_ERR_MASK).Names() }

// Mask is the error filter handed to the kernel as CAN_RAW_ERR_FILTER.
// It starts with everything enabled and classes can only be removed.
type Mask uint32

// DefaultMask includes the error flag and every error class.
const DefaultMask Mask = can.CAN_ERR_FLAG | can.CAN_ERR_MASK

// Without returns m with the bits of c cleared.
func (m Mask) Without(c Class) Mask { return m &^ Mask(c) }

// Allows reports whether an error frame carrying classes c passes the mask.
// Same rule as the kernel: at least one class bit must survive.
func (m Mask) Allows(c Class) bool { return uint32(m)&uint32(c)&can.CAN_ERR_MASK != 0 }

// Bits renders the mask as a 32 character binary string, MSB first.
func (m Mask) Bits() string { return fmt.Sprintf("%032b", uint32(m)) }

// Options is the result of parsing the command line option tokens.
type Options struct {
	Mask     Mask
	ShowBits bool
}

var ignoreOptions = []struct {
	name  string
	class Class
}{
	{"IgnoreTxTimeout", ClassTxTimeout},
	{"IgnoreLostArbit", ClassLostArbit},
	{"IgnoreController", ClassController},
	{"IgnoreProtocol", ClassProtocol},
	{"IgnoreTransceiver", ClassTransceiver},
	{"IgnoreNoAck", ClassNoAck},
	{"IgnoreBusOff", ClassBusOff},
	{"IgnoreBusError", ClassBusError},
	{"IgnoreRestarted", ClassRestarted},
	{"IgnoreCounters", ClassCounters},
}

const optShowBits = "ShowBits"

// BuildMask folds option tokens (case-insensitive) into Options starting from
// DefaultMask. Every unrecognized token is reported; the returned error wraps
// ErrUnknownOption and the caller decides whether to abort.
func BuildMask(tokens []string) (Options, error) {
	opts := Options{Mask: DefaultMask}
	var errs []error
next:
	for _, tok := range tokens {
		if strings.EqualFold(tok, optShowBits) {
			opts.ShowBits = true
			continue
		}
		for _, o := range ignoreOptions {
			if strings.EqualFold(tok, o.name) {
				opts.Mask = opts.Mask.Without(o.class)
				continue next
			}
		}
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownOption, tok))
	}
	return opts, errors.Join(errs...)
}

// OptionNames lists the accepted option tokens in canonical spelling.
func OptionNames() []string {
	out := make([]string, 0, len(ignoreOptions)+1)
	for _, o := range ignoreOptions {
		out = append(out, o.name)
	}
	return append(out, optShowBits)
}
