package grid

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/planora/weekplanner/internal/model"
	"github.com/planora/weekplanner/internal/slotkey"
	"github.com/planora/weekplanner/internal/timeslot"
)

// MigrationResult reports the outcome of a legacy-key migration pass.
type MigrationResult struct {
	// Migrated holds the re-keyed blocks, ordered by slot key.
	Migrated []*model.Appointment
	// ObsoleteKeys lists the legacy keys whose records must be deleted.
	ObsoleteKeys []string
}

// MigrateLegacy re-keys records still stored under the old hourly scheme,
// where the trailing key segment was an hour-of-day rather than a slot index.
// For each flagged record the covered slot range is recomputed from the
// activity's start and end time, one block is produced per covered slot on
// the record's day, and the legacy key is marked obsolete.
//
// The pass is idempotent: blocks it produces carry slot-index keys and their
// own hour, so a second pass flags nothing. Records whose keys cannot be
// decoded or whose times do not parse are skipped with a warning rather than
// aborting the whole pass.
func MigrateLegacy(g timeslot.Grid, records []*model.Appointment) MigrationResult {
	var res MigrationResult
	seen := make(map[string]bool)

	for _, rec := range records {
		if !slotkey.IsLegacyFormat(rec.SlotKey, rec.Hour, g) {
			continue
		}

		sh, sm, err := timeslot.ParseClock(rec.StartTime)
		if err != nil {
			log.Warn().Str("key", rec.SlotKey).Str("start", rec.StartTime).
				Msg("legacy record has unparseable start time; skipping")
			continue
		}
		eh, em, err := timeslot.ParseClock(rec.EndTime)
		if err != nil {
			log.Warn().Str("key", rec.SlotKey).Str("end", rec.EndTime).
				Msg("legacy record has unparseable end time; skipping")
			continue
		}

		slotStart, slotEnd, err := g.SlotsBetween(sh, sm, eh, em)
		if err != nil {
			log.Warn().Str("key", rec.SlotKey).Err(err).
				Msg("legacy record has invalid time range; skipping")
			continue
		}

		for slot := slotStart; slot < slotEnd; slot++ {
			key := slotkey.Encode(rec.WeekID, rec.DayIndex, slot)
			if seen[key] {
				// Sibling hourly blocks of one activity expand to the same
				// slot set; keep the first expansion.
				continue
			}
			seen[key] = true

			hour, _, _ := g.TimeForSlot(slot)
			nb := *rec
			nb.SlotKey = key
			nb.SlotIndex = slot
			nb.Hour = hour
			res.Migrated = append(res.Migrated, &nb)
		}
		res.ObsoleteKeys = append(res.ObsoleteKeys, rec.SlotKey)
	}

	sort.Slice(res.Migrated, func(i, j int) bool {
		return res.Migrated[i].SlotKey < res.Migrated[j].SlotKey
	})
	sort.Strings(res.ObsoleteKeys)
	return res
}
