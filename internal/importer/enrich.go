package importer

import (
	"github.com/tphakala/birdnet-sql/internal/datastore"
	"github.com/tphakala/birdnet-sql/internal/detection"
	"github.com/tphakala/birdnet-sql/internal/recording"
)

// Enrich stamps aggregated events with the file metadata, producing the rows
// written to the output table.
func Enrich(importID string, md *recording.Metadata, events []detection.Event) []datastore.EventRecord {
	records := make([]datastore.EventRecord, 0, len(events))
	for _, ev := range events {
		rec := datastore.EventRecord{
			ImportID:       importID,
			Date:           md.Date,
			Time:           md.DetectionTime(ev.Start),
			Location:       md.Location,
			Filename:       md.Filename,
			FileID:         ev.FileID,
			Prefix:         md.Prefix,
			StartDetection: ev.Start,
			EndDetection:   ev.End,
			Duration:       ev.Duration,
			Label:          ev.Label,
			Confidence:     ev.Confidence,
			HR:             ev.Metric,
			Rows:           ev.Rows,
			Extra:          ev.Extra,
		}
		if ev.Label != "" {
			rec.ScientificName, rec.CommonName, _ = detection.ParseSpeciesString(ev.Label)
		}
		records = append(records, rec)
	}
	return records
}
