package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/kstaniek/go-canerrdump/internal/canerr"
)

var optionHelp = map[string]string{
	"ShowBits":          "shows the error mask as a bit string",
	"IgnoreTxTimeout":   "ignores TX timeout errors",
	"IgnoreLostArbit":   "ignores lost arbitration errors",
	"IgnoreController":  "ignores controller problems",
	"IgnoreProtocol":    "ignores protocol violations",
	"IgnoreTransceiver": "ignores transceiver status",
	"IgnoreNoAck":       "ignores missing ACK on transmission",
	"IgnoreBusOff":      "ignores bus off",
	"IgnoreBusError":    "ignores bus errors",
	"IgnoreRestarted":   "ignores controller restarts",
	"IgnoreCounters":    "ignores error counter reports",
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "CAN Sockets Error Messages Dumper")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: canerrdump [flags] <interface> [options...]")
	fmt.Fprintln(w, "  <interface>  CAN network interface (e.g. can0), or serial device with -backend=serial")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options (case-insensitive):")
	for _, name := range canerr.OptionNames() {
		fmt.Fprintf(w, "  %-18s %s\n", name, optionHelp[name])
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  canerrdump can0 IgnoreNoAck IgnoreBusOff")
	fmt.Fprintln(w, "  canerrdump -metrics-addr :9100 can1 ShowBits")
	fmt.Fprintln(w, "  canerrdump -backend serial /dev/ttyUSB0 IgnoreCounters")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
