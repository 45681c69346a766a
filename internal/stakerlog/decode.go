package stakerlog

import (
	"fmt"

	"staking-lens/internal/domain"
)

// minTupleFields is the minimum positional field count for an event
// tuple. Shorter tuples are skipped and counted, never silently lost.
const minTupleFields = 11

// maxWarnings bounds the per-load warning list so a thoroughly broken
// payload cannot inflate the result.
const maxWarnings = 20

// Stats reports data quality observed while decoding a staker log.
type Stats struct {
	DecodedEvents int
	SkippedEvents int
	Warnings      []string
}

func (s *Stats) warnf(format string, args ...any) {
	if len(s.Warnings) < maxWarnings {
		s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
	}
}

// decodeEvents converts raw positional tuples into typed events.
// Tuple layout: [signature, timestamp, slot, type_id, address, d_stake,
// d_pending, d_withdrawn, d_compounded, fee_payer, reward, ...extra].
// Extra trailing fields are ignored for forward compatibility.
func decodeEvents(raw [][]any) ([]domain.Event, Stats) {
	events := make([]domain.Event, 0, len(raw))
	var stats Stats

	for i, tuple := range raw {
		if len(tuple) < minTupleFields {
			stats.SkippedEvents++
			stats.warnf("event %d: %d fields, want at least %d", i, len(tuple), minTupleFields)
			continue
		}

		signature, okSig := asString(tuple[0])
		timestamp, okTS := asString(tuple[1])
		typeID, okType := asInt(tuple[3])
		address, okAddr := asString(tuple[4])
		if !okSig || !okTS || !okType || !okAddr {
			stats.SkippedEvents++
			stats.warnf("event %d: malformed identity fields", i)
			continue
		}

		slot, _ := asInt64(tuple[2])
		feePayer, _ := asString(tuple[9])

		events = append(events, domain.Event{
			Signature:       signature,
			Timestamp:       timestamp,
			Slot:            slot,
			Type:            domain.OpType(typeID),
			Address:         address,
			DeltaStaked:     asFloat(tuple[5]),
			DeltaPending:    asFloat(tuple[6]),
			DeltaWithdrawn:  asFloat(tuple[7]),
			DeltaCompounded: asFloat(tuple[8]),
			FeePayer:        feePayer,
			Reward:          asFloat(tuple[10]),
		})
		stats.DecodedEvents++
	}

	return events, stats
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asFloat coerces a JSON value to float64, treating null and anything
// non-numeric as zero, matching the producer's sparse encoding.
func asFloat(v any) float64 {
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return f
}

func asInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func asInt64(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
