// ABOUTME: Batch domain models aggregate per-URL analysis records
// ABOUTME: Record order always matches input order, one record per URL

package domain

// BatchAggregate summarizes a batch run. Counts are derived from the
// per-record statuses; blocked records count as failed.
type BatchAggregate struct {
	Succeeded      int   `json:"succeeded"`
	Failed         int   `json:"failed"`
	TimedOut       int   `json:"timed_out"`
	TotalElapsedMs int64 `json:"total_elapsed_ms"`
}

// BatchResult holds the records of a batch analysis, aligned to the
// input URL order regardless of completion order.
type BatchResult struct {
	Records   []AnalysisRecord `json:"records"`
	Aggregate BatchAggregate   `json:"aggregate"`
}

// NewBatchAggregate derives aggregate counts from a record slice.
func NewBatchAggregate(records []AnalysisRecord, elapsedMs int64) BatchAggregate {
	agg := BatchAggregate{TotalElapsedMs: elapsedMs}
	for _, rec := range records {
		switch rec.Status {
		case StatusSuccess:
			agg.Succeeded++
		case StatusTimeout:
			agg.TimedOut++
		default:
			agg.Failed++
		}
	}
	return agg
}
