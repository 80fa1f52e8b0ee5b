package model

import "time"

// BatchOutcome aggregates per-file results in input order.
type BatchOutcome struct {
	ID        string             `json:"id"`
	Results   []ConversionResult `json:"results"`
	Total     int                `json:"total"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Elapsed   time.Duration      `json:"-"`
	ElapsedMs int64              `json:"elapsedMs"`
}

// Add appends a result and updates the counters.
func (b *BatchOutcome) Add(r ConversionResult) {
	b.Results = append(b.Results, r)
	b.Total++
	if r.Success {
		b.Succeeded++
	} else {
		b.Failed++
	}
}

func (b *BatchOutcome) Finish(elapsed time.Duration) {
	b.Elapsed = elapsed
	b.ElapsedMs = elapsed.Milliseconds()
}
