package result

// Result is a single hit returned by the search service. The pipeline ranks and filters
// results but never mutates them.
type Result struct {
	id       string
	title    string
	content  string
	score    float64
	metadata map[string]string
}

// New creates a search result.
func New(id, title, content string, score float64, metadata map[string]string) Result {
	return Result{id: id, title: title, content: content, score: score, metadata: metadata}
}

// ID returns the document identifier, unique per underlying document.
func (r *Result) ID() string { return r.id }

// Title returns the document title.
func (r *Result) Title() string { return r.title }

// Content returns the size-bounded content preview.
func (r *Result) Content() string { return r.content }

// Score returns the relevance score in [0,1], higher is more relevant.
func (r *Result) Score() float64 { return r.score }

// Metadata returns the remaining document fields.
func (r *Result) Metadata() map[string]string { return r.metadata }

// Meta returns a metadata value or fallback when absent or empty.
func (r *Result) Meta(key, fallback string) string {
	if v := r.metadata[key]; v != "" {
		return v
	}
	return fallback
}
