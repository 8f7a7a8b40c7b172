// Package config holds the conductor's tunables: the liveness/linger
// timeouts spec.md §5 and §8 name, the timer interval, and the ambient
// bootstrap knobs (admin port, log directory, ring capacities). A .env
// file, if present, is loaded before flags are parsed, following the
// common Go CLI bootstrap idiom.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// Config is the conductor's full runtime configuration.
type Config struct {
	// ClientLivenessTimeout is CLIENT_LIVENESS_TIMEOUT_NS.
	ClientLivenessTimeout time.Duration
	// PublicationLinger is PUBLICATION_LINGER_NS.
	PublicationLinger time.Duration
	// PublicationConnectionTimeout is PUBLICATION_CONNECTION_TIMEOUT_NS.
	PublicationConnectionTimeout time.Duration
	// ImageLivenessTimeout is IMAGE_LIVENESS_TIMEOUT_NS.
	ImageLivenessTimeout time.Duration
	// TimerInterval is TIMER_INTERVAL_NS.
	TimerInterval time.Duration

	// IdleMaxSpins bounds how many times the outer loop busy-spins on an
	// idle tick before moving on to yielding.
	IdleMaxSpins int64
	// IdleMaxYields bounds how many times the outer loop calls
	// runtime.Gosched before moving on to parking.
	IdleMaxYields int64
	// IdleMinPark is the initial sleep duration once the outer loop starts
	// parking.
	IdleMinPark time.Duration
	// IdleMaxPark caps the sleep duration the outer loop backs off to.
	IdleMaxPark time.Duration

	// ClientCommandRingCapacity bounds the client command ring.
	ClientCommandRingCapacity int
	// ClientCommandsPerTick bounds how many client commands are drained per
	// conductor tick.
	ClientCommandsPerTick int
	// InternalQueueCapacity bounds the sender/receiver-to-conductor queues.
	InternalQueueCapacity int
	// BroadcastBufferCapacity bounds the client broadcast buffer.
	BroadcastBufferCapacity int

	// LogDir is where the raw-log factory places memory-mapped log-buffer
	// files.
	LogDir string

	// AdminAddr is the listen address for the admin/observability HTTP
	// surface, empty to disable it.
	AdminAddr string

	// TracePath, if non-empty, is the sqlite3 database path for the
	// diagnostic trace recorder. Empty disables tracing.
	TracePath string

	// DefaultMTU and DefaultTermLength back channel URIs that omit mtu/
	// term-length.
	DefaultMTU        int
	DefaultTermLength int
}

// Defaults mirror the literal values used throughout spec.md §8's
// end-to-end scenarios (T = client liveness timeout, L = publication
// linger).
func Defaults() Config {
	return Config{
		ClientLivenessTimeout:        10 * time.Second,
		PublicationLinger:            5 * time.Second,
		PublicationConnectionTimeout: 5 * time.Second,
		ImageLivenessTimeout:         10 * time.Second,
		TimerInterval:                1 * time.Second,

		IdleMaxSpins:  10000,
		IdleMaxYields: 1000,
		IdleMinPark:   1 * time.Microsecond,
		IdleMaxPark:   1 * time.Millisecond,

		ClientCommandRingCapacity: 1024,
		ClientCommandsPerTick:     64,
		InternalQueueCapacity:     1024,
		BroadcastBufferCapacity:   1024,

		LogDir: "/dev/shm/aeron",

		AdminAddr: "",
		TracePath: "",

		DefaultMTU:        1408,
		DefaultTermLength: 16 * 1024 * 1024,
	}
}

// LoadDotenv loads a .env file from path if it exists into the process
// environment; variables already set in the environment are not
// overwritten. Nothing in this package reads those variables into a
// Config. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
