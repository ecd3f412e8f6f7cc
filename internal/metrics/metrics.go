// Package metrics exposes Prometheus counters for the cryptographic
// core, following the teacher's promauto idiom: package-level
// pre-registered collectors rather than a metrics struct threaded
// through every call site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HandshakesTotal counts completed X3DH handshakes by role and
	// whether a one-time prekey was consumed.
	HandshakesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rootless_x3dh_handshakes_total",
			Help: "Total number of completed X3DH handshakes",
		},
		[]string{"role", "used_one_time_prekey"}, // initiator/responder, true/false
	)

	// PrekeyRotationsTotal counts signed-prekey rotations.
	PrekeyRotationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rootless_x3dh_signed_prekey_rotations_total",
			Help: "Total number of signed prekey rotations",
		},
	)

	// RatchetMessagesTotal counts ratchet Encrypt/Decrypt calls.
	RatchetMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rootless_ratchet_messages_total",
			Help: "Total number of Double Ratchet messages processed",
		},
		[]string{"direction", "result"}, // send/receive, ok/error
	)

	// RatchetDHStepsTotal counts DH ratchet steps (spec §4.6 state
	// diagram), a proxy for how often conversations change direction.
	RatchetDHStepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rootless_ratchet_dh_steps_total",
			Help: "Total number of Double Ratchet DH ratchet steps",
		},
	)

	// SkippedKeysCached tracks the current size of the skipped-message-key
	// cache across all conversations a process is managing, and
	// SkippedKeysEvictedTotal how many were dropped by the FIFO bound.
	SkippedKeysCached = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rootless_ratchet_skipped_keys_cached",
			Help: "Current number of cached skipped message keys",
		},
	)

	SkippedKeysEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rootless_ratchet_skipped_keys_evicted_total",
			Help: "Total number of skipped message keys evicted by the MaxSkip bound",
		},
	)

	// ContentObjectsTotal counts content object creation by payload
	// encryption mode.
	ContentObjectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rootless_content_objects_total",
			Help: "Total number of content objects created",
		},
		[]string{"encryption"}, // none, recipients, self, zone
	)

	// ContentVerifyFailuresTotal counts content verification failures by
	// diagnostic tag, so an operator can see which failure mode is
	// actually occurring in the field.
	ContentVerifyFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rootless_content_verify_failures_total",
			Help: "Total number of content verification failures by tag",
		},
		[]string{"tag"},
	)
)
