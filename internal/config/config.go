// Package config loads the handful of host tunables this module
// exposes: one-time prekey pool size, signed-prekey rotation window,
// ratchet skipped-key bound, and Argon2id cost parameters for identity
// export. It follows the teacher's .env layering (base, environment,
// local override) via godotenv rather than requiring every host to set
// every variable explicitly.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/rootlessnet/protocol/internal/primitives"
	"github.com/rootlessnet/protocol/internal/ratchet"
	"github.com/rootlessnet/protocol/internal/x3dh"
)

// Argon2Cost holds the tunable Argon2id cost parameters, minus the
// salt: every export call still generates its own fresh salt, so the
// config layer only ever supplies the cost knobs (spec §4.1 mandates
// 256 MiB / 3 passes / 4 lanes by default; hosts with tighter memory
// budgets may need to lower these).
type Argon2Cost struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
}

// Config holds every tunable this module reads from the environment.
// Hosts that don't call Load can construct one directly and fall back
// to Defaults() for anything they don't set.
type Config struct {
	OneTimePrekeyCount   int
	SignedPrekeyRotation time.Duration
	RatchetMaxSkip       int
	Argon2               Argon2Cost
}

// Defaults returns the tunables this module uses when no environment
// override is present.
func Defaults() Config {
	return Config{
		OneTimePrekeyCount:   x3dh.DefaultOneTimePrekeyCount,
		SignedPrekeyRotation: x3dh.SignedPrekeyRotationWindow,
		RatchetMaxSkip:       ratchet.DefaultMaxSkip,
		Argon2: Argon2Cost{
			MemoryKiB:   256 * 1024,
			Iterations:  3,
			Parallelism: 4,
		},
	}
}

// KDFParams builds a primitives.PasswordKDFParams from this config's
// cost settings plus a freshly generated salt, ready to pass to
// identity.ExportWithParams.
func (c Config) KDFParams() (primitives.PasswordKDFParams, error) {
	salt, err := primitives.RandomBytes(16)
	if err != nil {
		return primitives.PasswordKDFParams{}, err
	}
	p := primitives.PasswordKDFParams{
		MemoryKiB:   c.Argon2.MemoryKiB,
		Iterations:  c.Argon2.Iterations,
		Parallelism: c.Argon2.Parallelism,
		KeyLength:   32,
	}
	copy(p.Salt[:], salt)
	return p, nil
}

// loadEnvFiles loads environment files in the teacher's order: base
// .env, then .env.{NODE_ENV}, then .env.local overrides on top.
func loadEnvFiles() {
	_ = godotenv.Load()
	if env := os.Getenv("NODE_ENV"); env != "" {
		_ = godotenv.Load(".env." + env)
	}
	_ = godotenv.Load(".env.local")
}

// Load reads tunables from the environment, falling back to Defaults
// for anything unset or unparsable.
func Load() Config {
	loadEnvFiles()

	cfg := Defaults()
	cfg.OneTimePrekeyCount = getEnvInt("ROOTLESS_OTP_COUNT", cfg.OneTimePrekeyCount)
	cfg.RatchetMaxSkip = getEnvInt("ROOTLESS_RATCHET_MAX_SKIP", cfg.RatchetMaxSkip)
	if hours := getEnvInt("ROOTLESS_SPK_ROTATION_HOURS", 0); hours > 0 {
		cfg.SignedPrekeyRotation = time.Duration(hours) * time.Hour
	}

	cfg.Argon2.MemoryKiB = uint32(getEnvInt("ROOTLESS_ARGON2_MEMORY_KIB", int(cfg.Argon2.MemoryKiB)))
	cfg.Argon2.Iterations = uint32(getEnvInt("ROOTLESS_ARGON2_ITERATIONS", int(cfg.Argon2.Iterations)))
	cfg.Argon2.Parallelism = uint8(getEnvInt("ROOTLESS_ARGON2_PARALLELISM", int(cfg.Argon2.Parallelism)))

	if cfg.OneTimePrekeyCount < 0 {
		log.Printf("config: ROOTLESS_OTP_COUNT negative, using default %d", x3dh.DefaultOneTimePrekeyCount)
		cfg.OneTimePrekeyCount = x3dh.DefaultOneTimePrekeyCount
	}
	if cfg.RatchetMaxSkip <= 0 {
		log.Printf("config: ROOTLESS_RATCHET_MAX_SKIP must be positive, using default %d", ratchet.DefaultMaxSkip)
		cfg.RatchetMaxSkip = ratchet.DefaultMaxSkip
	}

	return cfg
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
