package grpc

import (
	"context"
	"time"

	"github.com/simaogato/investments-backend/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health-checked service name; "" reports the server as a whole
const ServiceName = "investments"

const defaultProbeInterval = 5 * time.Second

// Pinger reports whether storage can serve requests
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StorageRecorder receives the outcome of each storage probe
type StorageRecorder interface {
	SetStorageUp(up bool)
}

type noopRecorder struct{}

func (noopRecorder) SetStorageUp(bool) {}

// HealthServer publishes the storage status over grpc.health.v1
type HealthServer struct {
	srv      *health.Server
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	recorder StorageRecorder
	log      *logger.Logger

	// last probe outcome, only touched by Probe
	probed bool
	up     bool
}

// NewHealthServer creates a health server reporting NOT_SERVING until the first probe
func NewHealthServer(pinger Pinger, interval time.Duration, log *logger.Logger) *HealthServer {
	if log == nil {
		log = logger.NewNop()
	}
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	h := &HealthServer{
		srv:      health.NewServer(),
		pinger:   pinger,
		interval: interval,
		timeout:  interval,
		recorder: noopRecorder{},
		log:      log.With("component", "health"),
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// WithRecorder sets the recorder notified after every probe
func (h *HealthServer) WithRecorder(r StorageRecorder) *HealthServer {
	if r != nil {
		h.recorder = r
	}
	return h
}

// Register exposes the health service on s
func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.srv)
}

// Probe pings storage once and publishes the result
func (h *HealthServer) Probe(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err := h.pinger.PingContext(pingCtx)
	up := err == nil
	h.recorder.SetStorageUp(up)

	if !h.probed || h.up != up {
		if up {
			h.log.Info("storage reachable")
		} else {
			h.log.Warn("storage unreachable", "error", err)
		}
	}
	h.probed, h.up = true, up

	if up {
		h.set(healthpb.HealthCheckResponse_SERVING)
	} else {
		h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return up
}

// Run probes immediately and then on every interval until ctx is cancelled
func (h *HealthServer) Run(ctx context.Context) error {
	h.Probe(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

// Shutdown reports NOT_SERVING from now on and ignores later probes
func (h *HealthServer) Shutdown() {
	h.srv.Shutdown()
}

func (h *HealthServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.srv.SetServingStatus("", status)
	h.srv.SetServingStatus(ServiceName, status)
}
