package can

// Error class bits carried in the can_id of error frames (<linux/can/error.h>).
const (
	CAN_ERR_TX_TIMEOUT = 0x00000001 // TX timeout (by netdevice driver)
	CAN_ERR_LOSTARB    = 0x00000002 // lost arbitration    / data[0]
	CAN_ERR_CRTL       = 0x00000004 // controller problems / data[1]
	CAN_ERR_PROT       = 0x00000008 // protocol violations / data[2..3]
	CAN_ERR_TRX        = 0x00000010 // transceiver status  / data[4]
	CAN_ERR_ACK        = 0x00000020 // received no ACK on transmission
	CAN_ERR_BUSOFF     = 0x00000040 // bus off
	CAN_ERR_BUSERROR   = 0x00000080 // bus error (may flood!)
	CAN_ERR_RESTARTED  = 0x00000100 // controller restarted
	CAN_ERR_CNT        = 0x00000200 // TX error counter / data[6], RX error counter / data[7]
)

// Payload byte positions within an error frame.
const (
	ErrDataLostArb     = 0
	ErrDataCtrl        = 1
	ErrDataProtType    = 2
	ErrDataProtLoc     = 3
	ErrDataTransceiver = 4
	ErrDataTxCounter   = 6
	ErrDataRxCounter   = 7
)

// Controller status bits (data[1]).
const (
	CAN_ERR_CRTL_UNSPEC      = 0x00
	CAN_ERR_CRTL_RX_OVERFLOW = 0x01
	CAN_ERR_CRTL_TX_OVERFLOW = 0x02
	CAN_ERR_CRTL_RX_WARNING  = 0x04
	CAN_ERR_CRTL_TX_WARNING  = 0x08
	CAN_ERR_CRTL_RX_PASSIVE  = 0x10
	CAN_ERR_CRTL_TX_PASSIVE  = 0x20
	CAN_ERR_CRTL_ACTIVE      = 0x40
)

// Protocol error type bits (data[2]).
const (
	CAN_ERR_PROT_UNSPEC   = 0x00
	CAN_ERR_PROT_BIT      = 0x01
	CAN_ERR_PROT_FORM     = 0x02
	CAN_ERR_PROT_STUFF    = 0x04
	CAN_ERR_PROT_BIT0     = 0x08
	CAN_ERR_PROT_BIT1     = 0x10
	CAN_ERR_PROT_OVERLOAD = 0x20
	CAN_ERR_PROT_ACTIVE   = 0x40
	CAN_ERR_PROT_TX       = 0x80
)

// Protocol error location codes (data[3]). These are enumerations, not bits.
const (
	CAN_ERR_PROT_LOC_UNSPEC  = 0x00
	CAN_ERR_PROT_LOC_SOF     = 0x03
	CAN_ERR_PROT_LOC_ID28_21 = 0x02
	CAN_ERR_PROT_LOC_ID20_18 = 0x06
	CAN_ERR_PROT_LOC_SRTR    = 0x04
	CAN_ERR_PROT_LOC_IDE     = 0x05
	CAN_ERR_PROT_LOC_ID17_13 = 0x07
	CAN_ERR_PROT_LOC_ID12_05 = 0x0F
	CAN_ERR_PROT_LOC_ID04_00 = 0x0E
	CAN_ERR_PROT_LOC_RTR     = 0x0C
	CAN_ERR_PROT_LOC_RES1    = 0x0D
	CAN_ERR_PROT_LOC_RES0    = 0x09
	CAN_ERR_PROT_LOC_DLC     = 0x0B
	CAN_ERR_PROT_LOC_DATA    = 0x0A
	CAN_ERR_PROT_LOC_CRC_SEQ = 0x08
	CAN_ERR_PROT_LOC_CRC_DEL = 0x18
	CAN_ERR_PROT_LOC_ACK     = 0x19
	CAN_ERR_PROT_LOC_ACK_DEL = 0x1B
	CAN_ERR_PROT_LOC_EOF     = 0x1A
	CAN_ERR_PROT_LOC_INTERM  = 0x12
)

// Transceiver status codes (data[4]), CANH in the low nibble, CANL in the high.
const (
	CAN_ERR_TRX_UNSPEC             = 0x00
	CAN_ERR_TRX_CANH_NO_WIRE       = 0x04
	CAN_ERR_TRX_CANH_SHORT_TO_BAT  = 0x05
	CAN_ERR_TRX_CANH_SHORT_TO_VCC  = 0x06
	CAN_ERR_TRX_CANH_SHORT_TO_GND  = 0x07
	CAN_ERR_TRX_CANL_NO_WIRE       = 0x40
	CAN_ERR_TRX_CANL_SHORT_TO_BAT  = 0x50
	CAN_ERR_TRX_CANL_SHORT_TO_VCC  = 0x60
	CAN_ERR_TRX_CANL_SHORT_TO_GND  = 0x70
	CAN_ERR_TRX_CANL_SHORT_TO_CANH = 0x80
)
