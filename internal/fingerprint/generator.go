// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package fingerprint derives a stable hash identifying the current device
// from a fixed, ordered set of environmental signals.
//
// The hash is computed once per [Generator] and cached; environment signals
// are not expected to change while a process is alive. A signal that cannot
// be read never aborts generation, it is recorded as [Unsupported].
package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
)

// Generator computes and caches the device fingerprint.
type Generator struct {
	host       Collector
	collectors map[Signal]Collector

	once     sync.Once
	readings []Reading
	hash     string

	logger *logger.Logger
}

// Option configures a [Generator].
type Option func(*Generator)

// WithCollector routes one signal to c instead of the host collector.
func WithCollector(signal Signal, c Collector) Option {
	return func(g *Generator) {
		g.collectors[signal] = c
	}
}

// WithSignal pins a signal to a fixed value, e.g. one reported by an
// embedding browser shell.
func WithSignal(signal Signal, value string) Option {
	return WithCollector(signal, staticCollector(value))
}

// WithHostCollector replaces the default host collector.
func WithHostCollector(c Collector) Option {
	return func(g *Generator) {
		g.host = c
	}
}

// WithLogger sets the logger used to report degraded signals.
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// NewGenerator returns a Generator reading signals from the host unless
// overridden by options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		host:       NewHostCollector(),
		collectors: make(map[Signal]Collector),
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate implements [Provider]. It returns the hex SHA-256 of the
// serialized signal set. The first call collects; later calls return the
// cached value.
func (g *Generator) Generate(ctx context.Context) string {
	g.collect(ctx)
	return g.hash
}

// Signals returns the collected readings in serialization order.
func (g *Generator) Signals(ctx context.Context) []Reading {
	g.collect(ctx)
	out := make([]Reading, len(g.readings))
	copy(out, g.readings)
	return out
}

func (g *Generator) collect(ctx context.Context) {
	g.once.Do(func() {
		g.readings = make([]Reading, 0, len(OrderedSignals))
		degraded := 0
		for _, signal := range OrderedSignals {
			value := g.read(ctx, signal)
			if value == Unsupported {
				degraded++
			}
			g.readings = append(g.readings, Reading{Signal: signal, Value: value})
		}
		g.hash = Hash(g.readings)

		g.logger.Debug().
			Int("signals", len(g.readings)).
			Int("unsupported", degraded).
			Msg("device fingerprint computed")
	})
}

func (g *Generator) read(ctx context.Context, signal Signal) (value string) {
	c, ok := g.collectors[signal]
	if !ok {
		c = g.host
	}
	if c == nil {
		return Unsupported
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn().Str("signal", string(signal)).Interface("panic", r).Msg("signal collector panicked")
			value = Unsupported
		}
	}()

	v, err := c.Collect(ctx, signal)
	if err != nil || v == "" {
		return Unsupported
	}
	return v
}

// Hash serializes readings as "name=value" lines and returns the hex
// SHA-256. Newlines inside values are flattened so one reading is always
// one line.
func Hash(readings []Reading) string {
	var b strings.Builder
	for _, r := range readings {
		b.WriteString(string(r.Signal))
		b.WriteByte('=')
		b.WriteString(strings.ReplaceAll(r.Value, "\n", " "))
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

type staticCollector string

func (s staticCollector) Collect(context.Context, Signal) (string, error) {
	return string(s), nil
}
