package canerr

import "github.com/kstaniek/go-canerrdump/internal/can"

const (
	labelUnspec  = "Unspec"
	labelUnknown = "Unknown"
)

type bitLabel struct {
	bit   uint8
	label string
}

// ControllerFlags is the controller status byte (data[1]). Each bit is an
// independent condition; zero means unspecified.
type ControllerFlags uint8

var controllerLabels = []bitLabel{
	{can.CAN_ERR_CRTL_RX_OVERFLOW, "OverflowRX"},
	{can.CAN_ERR_CRTL_TX_OVERFLOW, "OverflowTX"},
	{can.CAN_ERR_CRTL_RX_WARNING, "WarningRX"},
	{can.CAN_ERR_CRTL_TX_WARNING, "WarningTX"},
	{can.CAN_ERR_CRTL_RX_PASSIVE, "PassiveRX"},
	{can.CAN_ERR_CRTL_TX_PASSIVE, "PassiveTX"},
	{can.CAN_ERR_CRTL_ACTIVE, "Active"},
}

// Unspecified reports whether no condition was given.
func (f ControllerFlags) Unspecified() bool { return f == can.CAN_ERR_CRTL_UNSPEC }

// Labels returns the set conditions in bit order, or Unspec for zero.
func (f ControllerFlags) Labels() []string { return bitLabels(uint8(f), controllerLabels) }

// ProtocolTypes is the protocol violation type byte (data[2]).
type ProtocolTypes uint8

var protocolTypeLabels = []bitLabel{
	{can.CAN_ERR_PROT_BIT, "SingleBit"},
	{can.CAN_ERR_PROT_FORM, "FrameFormat"},
	{can.CAN_ERR_PROT_STUFF, "BitStuffing"},
	{can.CAN_ERR_PROT_BIT0, "Bit0"},
	{can.CAN_ERR_PROT_BIT1, "Bit1"},
	{can.CAN_ERR_PROT_OVERLOAD, "BusOverload"},
	{can.CAN_ERR_PROT_ACTIVE, "ActiveAnnouncement"},
	{can.CAN_ERR_PROT_TX, "TX"},
}

// Unspecified reports whether no violation type was given.
func (t ProtocolTypes) Unspecified() bool { return t == can.CAN_ERR_PROT_UNSPEC }

// Labels returns the set violation types in bit order, or Unspec for zero.
func (t ProtocolTypes) Labels() []string { return bitLabels(uint8(t), protocolTypeLabels) }

func bitLabels(v uint8, table []bitLabel) []string {
	if v == 0 {
		return []string{labelUnspec}
	}
	out := make([]string, 0, len(table))
	for _, bl := range table {
		if v&bl.bit != 0 {
			out = append(out, bl.label)
		}
	}
	return out
}

// Location is the protocol error location code (data[3]).
type Location uint8

var locationNames = map[Location]string{
	can.CAN_ERR_PROT_LOC_UNSPEC:  labelUnspec,
	can.CAN_ERR_PROT_LOC_SOF:     "SOF",
	can.CAN_ERR_PROT_LOC_ID28_21: "ID28_21",
	can.CAN_ERR_PROT_LOC_ID20_18: "ID20_18",
	can.CAN_ERR_PROT_LOC_SRTR:    "SRTR",
	can.CAN_ERR_PROT_LOC_IDE:     "IDE",
	can.CAN_ERR_PROT_LOC_ID17_13: "ID17_13",
	can.CAN_ERR_PROT_LOC_ID12_05: "ID12_05",
	can.CAN_ERR_PROT_LOC_ID04_00: "ID04_00",
	can.CAN_ERR_PROT_LOC_RTR:     "RTR",
	can.CAN_ERR_PROT_LOC_RES1:    "RES1",
	can.CAN_ERR_PROT_LOC_RES0:    "RES0",
	can.CAN_ERR_PROT_LOC_DLC:     "DLC",
	can.CAN_ERR_PROT_LOC_DATA:    "DATA",
	can.CAN_ERR_PROT_LOC_CRC_SEQ: "CRC_SEQ",
	can.CAN_ERR_PROT_LOC_CRC_DEL: "CRC_DEL",
	can.CAN_ERR_PROT_LOC_ACK:     "ACK",
	can.CAN_ERR_PROT_LOC_ACK_DEL: "ACK_DEL",
	can.CAN_ERR_PROT_LOC_EOF:     "EOF",
	can.CAN_ERR_PROT_LOC_INTERM:  "INTERM",
}

// Known reports whether l is one of the defined location codes.
func (l Location) Known() bool { _, ok := locationNames[l]; return ok }

func (l Location) String() string {
	if s, ok := locationNames[l]; ok {
		return s
	}
	return labelUnknown
}

// TransceiverStatus is the transceiver state code (data[4]).
type TransceiverStatus uint8

var transceiverNames = map[TransceiverStatus]string{
	can.CAN_ERR_TRX_UNSPEC:             labelUnspec,
	can.CAN_ERR_TRX_CANH_NO_WIRE:       "CanHiNoWire",
	can.CAN_ERR_TRX_CANH_SHORT_TO_BAT:  "CanHiShortToBAT",
	can.CAN_ERR_TRX_CANH_SHORT_TO_VCC:  "CanHiShortToVCC",
	can.CAN_ERR_TRX_CANH_SHORT_TO_GND:  "CanHiShortToGND",
	can.CAN_ERR_TRX_CANL_NO_WIRE:       "CanLoNoWire",
	can.CAN_ERR_TRX_CANL_SHORT_TO_BAT:  "CanLoShortToBAT",
	can.CAN_ERR_TRX_CANL_SHORT_TO_VCC:  "CanLoShortToVCC",
	can.CAN_ERR_TRX_CANL_SHORT_TO_GND:  "CanLoShortToGND",
	can.CAN_ERR_TRX_CANL_SHORT_TO_CANH: "CanLoShortToCanHi",
}

// Known reports whether s is one of the defined transceiver codes.
func (s TransceiverStatus) Known() bool { _, ok := transceiverNames[s]; return ok }

func (s TransceiverStatus) String() string {
	if n, ok := transceiverNames[s]; ok {
		return n
	}
	return labelUnknown
}
