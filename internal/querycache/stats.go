package querycache

// Stats holds query cache counters.
type Stats struct {
	Entries          int     `json:"entries"`
	Tags             int     `json:"tags"`
	Subscribers      int     `json:"subscribers"`
	Hits             int64   `json:"hits"`
	Misses           int64   `json:"misses"`
	Fetches          int64   `json:"fetches"`
	FetchFailures    int64   `json:"fetch_failures"`
	Mutations        int64   `json:"mutations"`
	MutationFailures int64   `json:"mutation_failures"`
	Invalidations    int64   `json:"invalidations"`
	Evictions        int64   `json:"evictions"`
	HitRate          float64 `json:"hit_rate"`
}
