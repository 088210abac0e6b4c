package models

// Record is the flat search index record derived from one SourceDocument.
// JSON names match the index schema field names. The category and owner
// fields are nil when the source document holds null for them.
type Record struct {
	ID             string  `json:"id"`
	TimestampDay   string  `json:"timestamp_day"`
	Category       *string `json:"cat"`
	OwnerEmail     *string `json:"owner_email"`
	OwnerFirstName *string `json:"owner_firstName"`
	OwnerLastName  *string `json:"owner_lastName"`
	EventsCount    int     `json:"events_count"`
	AvgWeight      float64 `json:"avg_weight"`
}
