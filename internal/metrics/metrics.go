package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/kstaniek/go-canerrdump/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus counters
var (
	RxFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canerr_rx_frames_total",
		Help: "Total CAN frames read from the input backend.",
	}, []string{"backend"})
	ErrorFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canerr_error_frames_total",
		Help: "Total error frames decoded and printed.",
	})
	ErrorClasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canerr_error_classes_total",
		Help: "Decoded error frames by error class (a frame may carry several).",
	}, []string{"class"})
	FilteredFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canerr_filtered_frames_total",
		Help: "Error frames dropped because none of their classes pass the error mask.",
	})
	IgnoredFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canerr_ignored_frames_total",
		Help: "Non-error frames received and skipped.",
	})
	MalformedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canerr_malformed_frames_total",
		Help: "Total rejected malformed frames (short reads, bad length, bad checksum).",
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "canerr_build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})
	ErrorMask = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "canerr_error_mask",
		Help: "Active CAN_RAW_ERR_FILTER mask.",
	})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canerr_errors_total",
		Help: "Error counters by subsystem.",
	}, []string{"where"})
	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "canerr_stream_clients",
		Help: "Connected line stream clients.",
	})
	StreamTx = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canerr_stream_tx_lines_total",
		Help: "Decoded lines written to stream clients.",
	})
	StreamDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canerr_stream_drops_total",
		Help: "Lines dropped for slow stream clients (drop policy).",
	})
	StreamKicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canerr_stream_kicks_total",
		Help: "Stream clients disconnected for being slow (kick policy).",
	})
	StreamRejects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canerr_stream_rejects_total",
		Help: "Stream connections rejected at the client limit.",
	})
	readinessMu sync.RWMutex
	readinessFn func() bool
)

// Error label constants (stable label values to bound cardinality)
const (
	ErrSocketCANOpen = "socketcan_open"
	ErrSocketCANRead = "socketcan_read"
	ErrSerialOpen    = "serial_open"
	ErrSerialRead    = "serial_read"
	ErrOutput        = "output"
	ErrStreamListen  = "stream_listen"
	ErrStreamWrite   = "stream_write"
	ErrStreamRead    = "stream_read"
)

// StartHTTP serves Prometheus metrics at /metrics and readiness at /ready.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		logging.L().Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}

// Local mirrored counters for easy logging (avoid Prometheus scraping in-process)
var (
	localRx        uint64
	localErrFrames uint64
	localFiltered  uint64
	localIgnored   uint64
	localMalformed uint64
	localErrors    uint64
	localStreamTx  uint64
	localDrops     uint64
)

// Snapshot is a cheap copy of local counters.
type Snapshot struct {
	Rx          uint64
	ErrorFrames uint64
	Filtered    uint64
	Ignored     uint64
	Malformed   uint64
	Errors      uint64 // sum across error labels
	StreamTx    uint64
	StreamDrops uint64
}

func Snap() Snapshot {
	return Snapshot{
		Rx:          atomic.LoadUint64(&localRx),
		ErrorFrames: atomic.LoadUint64(&localErrFrames),
		Filtered:    atomic.LoadUint64(&localFiltered),
		Ignored:     atomic.LoadUint64(&localIgnored),
		Malformed:   atomic.LoadUint64(&localMalformed),
		Errors:      atomic.LoadUint64(&localErrors),
		StreamTx:    atomic.LoadUint64(&localStreamTx),
		StreamDrops: atomic.LoadUint64(&localDrops),
	}
}

// IncRx counts one frame read from the named backend.
func IncRx(backend string) {
	RxFrames.WithLabelValues(backend).Inc()
	atomic.AddUint64(&localRx, 1)
}

// IncErrorFrame counts one printed error frame and each of its classes.
func IncErrorFrame(classes []string) {
	ErrorFrames.Inc()
	for _, c := range classes {
		ErrorClasses.WithLabelValues(c).Inc()
	}
	atomic.AddUint64(&localErrFrames, 1)
}

func IncFiltered() {
	FilteredFrames.Inc()
	atomic.AddUint64(&localFiltered, 1)
}

func IncIgnored() {
	IgnoredFrames.Inc()
	atomic.AddUint64(&localIgnored, 1)
}

func IncMalformed() {
	MalformedFrames.Inc()
	atomic.AddUint64(&localMalformed, 1)
}

func IncError(label string) {
	Errors.WithLabelValues(label).Inc()
	atomic.AddUint64(&localErrors, 1)
}

func SetStreamClients(n int) { StreamClients.Set(float64(n)) }

func AddStreamTx(n int) {
	StreamTx.Add(float64(n))
	atomic.AddUint64(&localStreamTx, uint64(n))
}

func IncStreamDrop() {
	StreamDrops.Inc()
	atomic.AddUint64(&localDrops, 1)
}

func IncStreamKick()   { StreamKicks.Inc() }
func IncStreamReject() { StreamRejects.Inc() }

// SetErrorMask publishes the active error mask.
func SetErrorMask(mask uint32) { ErrorMask.Set(float64(mask)) }

// InitBuildInfo sets the build info gauge (should be called once at startup).
// classes pre-registers the per-class series so dashboards see zeros.
func InitBuildInfo(version, commit, date string, classes []string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
	for _, lbl := range []string{
		ErrSocketCANOpen, ErrSocketCANRead,
		ErrSerialOpen, ErrSerialRead, ErrOutput,
		ErrStreamListen, ErrStreamWrite, ErrStreamRead,
	} {
		Errors.WithLabelValues(lbl).Add(0)
	}
	for _, c := range classes {
		ErrorClasses.WithLabelValues(c).Add(0)
	}
}

// SetReadinessFunc registers a function used by /ready and IsReady.
func SetReadinessFunc(fn func() bool) { readinessMu.Lock(); readinessFn = fn; readinessMu.Unlock() }

// IsReady invokes the registered readiness function if present.
func IsReady() bool {
	readinessMu.RLock()
	fn := readinessFn
	readinessMu.RUnlock()
	if fn == nil { // if not set yet, treat as ready so metrics endpoint doesn't flap
		return true
	}
	return fn()
}
