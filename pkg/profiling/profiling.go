package profiling

import (
	"fmt"
	"time"

	"github.com/folio-dev/folio/config"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

const (
	defaultApplication    = "folio-web"
	defaultUploadInterval = 15 * time.Second
)

// Mutex profiles cover the draft store and section cache locks
var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexDuration,
}

// InitProfiler pushes profiles of the web process to the configured
// pyroscope server. The returned func stops it.
func InitProfiler(cfg config.ProfilingConfig, o11y config.ObservabilityConfig, environment string) (func(), error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	application := o11y.ServiceName
	if application == "" {
		application = defaultApplication
	}
	interval := time.Duration(cfg.UploadIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultUploadInterval
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: application,
		ServerAddress:   cfg.Endpoint,
		UploadRate:      interval,
		Tags:            profileTags(o11y, environment),
		ProfileTypes:    profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling initialized",
		zap.String("application", application),
		zap.String("endpoint", cfg.Endpoint),
		zap.Duration("upload_interval", interval))

	return func() {
		if err := profiler.Stop(); err != nil {
			logger.Error("Failed to stop profiler", zap.Error(err))
		}
	}, nil
}

// profileTags labels every upload. Pyroscope rejects empty tag values.
func profileTags(o11y config.ObservabilityConfig, environment string) map[string]string {
	tags := make(map[string]string, 4)
	for k, v := range map[string]string{
		"namespace":   o11y.ServiceNamespace,
		"environment": environment,
		"version":     o11y.ServiceVersion,
		"instance":    o11y.ServiceInstanceID,
	} {
		if v != "" {
			tags[k] = v
		}
	}
	return tags
}
