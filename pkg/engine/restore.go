package engine

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/firecalc/pkg/journal"
	"github.com/dd0wney/firecalc/pkg/logging"
	"github.com/dd0wney/firecalc/pkg/wire"
)

// RestoreFromJournal replays segment mutations from a journal into the
// engine, rebuilding circuit topology and derived calculations after a
// crash. Analysis and battery snapshot entries are skipped; replaying the
// mutations recomputes them. Journaling is suspended during the replay so
// restored mutations are not appended a second time.
func (e *Engine) RestoreFromJournal(j *journal.Journal) error {
	attached := e.journal
	e.journal = nil
	defer func() { e.journal = attached }()

	var restored int
	err := j.Replay(func(entry journal.Entry) error {
		switch entry.Kind {
		case journal.KindSegmentAdded:
			var seg wire.Segment
			if err := json.Unmarshal(entry.Data, &seg); err != nil {
				return fmt.Errorf("replay entry %d: %w", entry.LSN, err)
			}
			if _, err := e.AddSegment(seg); err != nil {
				return fmt.Errorf("replay entry %d: %w", entry.LSN, err)
			}
			restored++
		case journal.KindSegmentRemoved:
			var seg wire.Segment
			if err := json.Unmarshal(entry.Data, &seg); err != nil {
				return fmt.Errorf("replay entry %d: %w", entry.LSN, err)
			}
			e.RemoveSegment(seg)
			restored++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("restore from journal: %w", err)
	}

	e.logger.Info("topology restored from journal",
		logging.Int("mutations", restored),
		logging.Int("circuits", len(e.Circuits())))
	return nil
}
