package trace

import (
	"encoding/binary"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/himelbrand/crasim/internal/cra"
)

// ParseLatency parses "<id> <hit_penalty> <miss_penalty>" lines. id is
// decimal, possibly wider than 64 bits (a "decimal-bigint"); it is folded
// to a 64-bit key by XORing its high and low 64-bit halves.
func ParseLatency(line string, readErr error) (cra.AccessEvent, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		if readErr != nil {
			return cra.AccessEvent{}, ErrDone
		}
		return cra.AccessEvent{}, ErrBadLine
	}

	fields := strings.Fields(line)
	if len(fields) != 3 {
		return cra.AccessEvent{}, errors.Wrapf(ErrBadLine, "latency: %q", line)
	}
	key, err := foldBigDecimal(fields[0])
	if err != nil {
		return cra.AccessEvent{}, errors.Wrapf(ErrBadLine, "latency: id %q", fields[0])
	}
	hitPenalty, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return cra.AccessEvent{}, errors.Wrapf(ErrBadLine, "latency: hit_penalty %q", fields[1])
	}
	missPenalty, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return cra.AccessEvent{}, errors.Wrapf(ErrBadLine, "latency: miss_penalty %q", fields[2])
	}

	return cra.AccessEvent{Key: key, HitPenalty: hitPenalty, MissPenalty: missPenalty}, nil
}

// foldBigDecimal parses s as an unsigned decimal integer of arbitrary
// width and folds it to 64 bits by XORing 8-byte words of its big-endian
// representation, most-significant first. A value that already fits in
// 64 bits folds to itself.
func foldBigDecimal(s string) (uint64, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return 0, errors.Errorf("not an unsigned decimal integer: %q", s)
	}

	raw := n.Bytes()
	pad := (8 - len(raw)%8) % 8
	padded := make([]byte, pad+len(raw))
	copy(padded[pad:], raw)

	var folded uint64
	for i := 0; i < len(padded); i += 8 {
		folded ^= binary.BigEndian.Uint64(padded[i : i+8])
	}
	return folded, nil
}
