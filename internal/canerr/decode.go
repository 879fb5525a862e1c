package canerr

import "github.com/kstaniek/go-canerrdump/internal/can"

// Classify returns the class bits of an error frame. ok is false when the
// frame does not carry the error flag. The EFF flag does not affect the result.
func Classify(f can.Frame) (c Class, ok bool) {
	if !f.IsError() {
		return 0, false
	}
	return Class(f.CANID & can.CAN_ERR_MASK), true
}

// Counters holds the controller TX/RX error counters.
type Counters struct {
	TX uint8
	RX uint8
}

// ProtocolError is the protocol violation type set and where it happened.
type ProtocolError struct {
	Types    ProtocolTypes
	Location Location
}

// Error is one decoded error frame. Optional parts are nil unless the
// matching class bit was set.
type Error struct {
	Class              Class
	TxTimeout          bool
	LostArbitrationBit *uint8
	NoAck              bool
	BusOff             bool
	BusError           bool
	Restarted          bool
	Counters           *Counters
	Controller         *ControllerFlags
	Protocol           *ProtocolError
	Transceiver        *TransceiverStatus
}

// Decode interprets the payload for every class present in c.
// Bytes at or beyond length read as zero.
func Decode(c Class, data [can.MaxDataLen]byte, length uint8) Error {
	at := func(i int) uint8 {
		if i >= int(length) {
			return 0
		}
		return data[i]
	}
	e := Error{
		Class:     c,
		TxTimeout: c.Has(ClassTxTimeout),
		NoAck:     c.Has(ClassNoAck),
		BusOff:    c.Has(ClassBusOff),
		BusError:  c.Has(ClassBusError),
		Restarted: c.Has(ClassRestarted),
	}
	if c.Has(ClassLostArbit) {
		bit := at(can.ErrDataLostArb)
		e.LostArbitrationBit = &bit
	}
	if c.Has(ClassCounters) {
		e.Counters = &Counters{TX: at(can.ErrDataTxCounter), RX: at(can.ErrDataRxCounter)}
	}
	if c.Has(ClassController) {
		fl := ControllerFlags(at(can.ErrDataCtrl))
		e.Controller = &fl
	}
	if c.Has(ClassProtocol) {
		e.Protocol = &ProtocolError{
			Types:    ProtocolTypes(at(can.ErrDataProtType)),
			Location: Location(at(can.ErrDataProtLoc)),
		}
	}
	if c.Has(ClassTransceiver) {
		ts := TransceiverStatus(at(can.ErrDataTransceiver))
		e.Transceiver = &ts
	}
	return e
}

// DecodeFrame classifies f and decodes it when it is an error frame.
func DecodeFrame(f can.Frame) (Error, bool) {
	c, ok := Classify(f)
	if !ok {
		return Error{}, false
	}
	return Decode(c, f.Data, f.Len), true
}
