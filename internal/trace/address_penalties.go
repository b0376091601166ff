package trace

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/himelbrand/crasim/internal/cra"
)

// ParseAddressPenalties parses
// "<op> <hex_addr> <instr_gap> <hit_penalty> <miss_penalty>" lines. op and
// instr_gap are consumed but not represented in the resulting event — the
// key is the parsed address itself.
func ParseAddressPenalties(line string, readErr error) (cra.AccessEvent, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		if readErr != nil {
			return cra.AccessEvent{}, ErrDone
		}
		return cra.AccessEvent{}, ErrBadLine
	}

	fields := strings.Fields(line)
	if len(fields) != 5 {
		return cra.AccessEvent{}, errors.Wrapf(ErrBadLine, "address-penalties: %q", line)
	}
	addr := strings.TrimPrefix(strings.TrimPrefix(fields[1], "0x"), "0X")
	key, err := strconv.ParseUint(addr, 16, 64)
	if err != nil {
		return cra.AccessEvent{}, errors.Wrapf(ErrBadLine, "address-penalties: addr %q", fields[1])
	}
	hitPenalty, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return cra.AccessEvent{}, errors.Wrapf(ErrBadLine, "address-penalties: hit_penalty %q", fields[3])
	}
	missPenalty, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return cra.AccessEvent{}, errors.Wrapf(ErrBadLine, "address-penalties: miss_penalty %q", fields[4])
	}

	return cra.AccessEvent{Key: key, HitPenalty: hitPenalty, MissPenalty: missPenalty}, nil
}
