package trace

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/himelbrand/crasim/internal/cra"
)

// ParseDNS parses "<name> <hit_penalty> <miss_penalty>" lines, hashing
// name to a 64-bit key with xxhash — the same non-cryptographic hash the
// teacher reaches for over raw string keys (cache_bench_test.go).
func ParseDNS(line string, readErr error) (cra.AccessEvent, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		if readErr != nil {
			return cra.AccessEvent{}, ErrDone
		}
		return cra.AccessEvent{}, ErrBadLine
	}

	fields := strings.Fields(line)
	if len(fields) != 3 {
		return cra.AccessEvent{}, errors.Wrapf(ErrBadLine, "dns: %q", line)
	}
	hitPenalty, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return cra.AccessEvent{}, errors.Wrapf(ErrBadLine, "dns: hit_penalty %q", fields[1])
	}
	missPenalty, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return cra.AccessEvent{}, errors.Wrapf(ErrBadLine, "dns: miss_penalty %q", fields[2])
	}

	return cra.AccessEvent{
		Key:         xxhash.Sum64String(fields[0]),
		HitPenalty:  hitPenalty,
		MissPenalty: missPenalty,
	}, nil
}
