// Package timeouts holds the per-request database deadlines used by handlers.
//
// Handlers pick a tier by how much work a call does: Ping for health probes,
// Short for single-document reads and writes, Medium for paged listings and
// counts, Long for the registrations fan-out behind GET /events/all.
package timeouts

import (
	"os"
	"sync/atomic"
	"time"
)

// EnvPrefix is prepended to the tier name when reading overrides,
// e.g. STRATAEVENTS_TIMEOUT_LONG=45s.
const EnvPrefix = "STRATAEVENTS_TIMEOUT_"

type tier struct {
	env string
	def time.Duration
	cur atomic.Int64
}

func (t *tier) get() time.Duration {
	if d := time.Duration(t.cur.Load()); d > 0 {
		return d
	}
	return t.def
}

var (
	ping   = &tier{env: "PING", def: 2 * time.Second}
	short  = &tier{env: "SHORT", def: 5 * time.Second}
	medium = &tier{env: "MEDIUM", def: 10 * time.Second}
	long   = &tier{env: "LONG", def: 30 * time.Second}

	tiers = []*tier{ping, short, medium, long}
)

func Ping() time.Duration   { return ping.get() }
func Short() time.Duration  { return short.get() }
func Medium() time.Duration { return medium.get() }
func Long() time.Duration   { return long.get() }

// ConfigureFromEnv applies any valid positive duration found in the
// STRATAEVENTS_TIMEOUT_* variables and reports how many were applied.
// Unparseable values are ignored and leave the default in place.
func ConfigureFromEnv() int {
	n := 0
	for _, t := range tiers {
		v := os.Getenv(EnvPrefix + t.env)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			continue
		}
		t.cur.Store(int64(d))
		n++
	}
	return n
}

// Reset drops all overrides.
func Reset() {
	for _, t := range tiers {
		t.cur.Store(0)
	}
}
