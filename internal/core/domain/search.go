package domain

// Search defaults applied when SearchOptions fields are zero.
const (
	DefaultSearchCandidates = 100
	DefaultSearchLimit      = 10
	DefaultSearchThreshold  = 0.9
)

// HighlightOpen and HighlightClose wrap a matched passage inside aggregated text.
const (
	HighlightOpen  = `<span style="background-color: yellow;">`
	HighlightClose = `</span>`
)

// SearchOptions configures a similarity query.
type SearchOptions struct {
	// Candidates is the number of nearest neighbours the store considers.
	Candidates int

	// Limit is the maximum number of hits returned by the store.
	Limit int

	// Threshold is the minimum similarity score a hit must reach.
	Threshold float64
}

// WithDefaults returns a copy with zero fields replaced by the defaults.
func (o SearchOptions) WithDefaults() SearchOptions {
	if o.Candidates <= 0 {
		o.Candidates = DefaultSearchCandidates
	}
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultSearchThreshold
	}
	return o
}

// SearchHit is a raw store match. It lives for one search call.
type SearchHit struct {
	// Chunk is the matched chunk record.
	Chunk Chunk

	// Score is the similarity score reported by the store.
	Score float64
}

// AggregatedDocument groups every hit for one source document,
// re-expanded to that document's full chunk set.
type AggregatedDocument struct {
	// Filename is the source document id.
	Filename string `json:"filename"`

	// Text is the reassembled document with matched passages highlighted.
	Text string `json:"text"`

	// Highlights lists the matched passages as they appear in Text.
	Highlights []string `json:"highlights"`
}
