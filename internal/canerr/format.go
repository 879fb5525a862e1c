package canerr

import (
	"fmt"
	"strings"

	"github.com/kstaniek/go-canerrdump/internal/can"
)

// Segments returns the ERR= fields in their fixed output order.
func (e Error) Segments() []string {
	var seg []string
	if e.TxTimeout {
		seg = append(seg, "TxTimeout")
	}
	if e.LostArbitrationBit != nil {
		seg = append(seg, fmt.Sprintf("LostArBit%02d", *e.LostArbitrationBit))
	}
	if e.NoAck {
		seg = append(seg, "NoAck")
	}
	if e.BusOff {
		seg = append(seg, "BusOff")
	}
	if e.BusError {
		seg = append(seg, "BusError")
	}
	if e.Restarted {
		seg = append(seg, "Restarted")
	}
	if e.Counters != nil {
		seg = append(seg, fmt.Sprintf("Count(TX=%d,RX=%d)", e.Counters.TX, e.Counters.RX))
	}
	if e.Controller != nil {
		seg = append(seg, "Ctrl("+strings.Join(e.Controller.Labels(), ",")+")")
	}
	if e.Protocol != nil {
		seg = append(seg, "Prot(Type("+strings.Join(e.Protocol.Types.Labels(), ",")+"),Loc("+e.Protocol.Location.String()+"))")
	}
	if e.Transceiver != nil {
		seg = append(seg, "Trans("+e.Transceiver.String()+")")
	}
	return seg
}

func (e Error) String() string { return strings.Join(e.Segments(), ",") }

// Format renders one dump line (without newline):
//
//	0x06A [8] 09 00 80 00 AA 00 00 00  ERR=LostArBit09,NoAck,BusOff,Prot(Type(TX),Loc(Unspec))
func Format(f can.Frame, e Error) string {
	var b strings.Builder
	id := f.CANID & can.CAN_ERR_MASK
	if f.IsExtended() {
		fmt.Fprintf(&b, "0x%08X [%d] ", id, f.Len)
	} else {
		fmt.Fprintf(&b, "0x%03X [%d] ", id, f.Len)
	}
	for _, d := range f.Payload() {
		fmt.Fprintf(&b, "%02X ", d)
	}
	b.WriteString(" ERR=")
	b.WriteString(e.String())
	return b.String()
}
