// Package config provides configuration management for the evaluation
// engine.
//
// # Overview
//
// The config package centralizes the handful of limits the engine
// applies: node and connection counts checked at load time, and a soft
// ready-queue depth that only triggers a logged warning. It also carries
// a suggested tick interval, which the engine itself never reads.
//
// # Basic Usage
//
//	cfg := config.Default()
//	eng, err := engine.Load(desc, engine.WithConfig(cfg))
//
// # Tiers
//
//   - Default: generous limits suitable for most production graphs.
//   - Strict: tight limits for untrusted or multi-tenant graph sources.
//   - Development: very relaxed limits for local iteration.
//
// # Thread Safety
//
// Config values are read-only after construction and safe for concurrent
// read access.
package config
