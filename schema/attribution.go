package schema

// AuthorKey identifies an author by raw (name, email) as seen in blame
// or log output. Email is normalized with NormalizeEmail before use.
type AuthorKey struct {
	Name  string
	Email string
}

// AuthorAttribution is one row of an ownership scan: how many surviving
// lines a canonical author last touched. Recomputed per invocation and
// never persisted.
type AuthorAttribution struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Lines int    `json:"lines"`
}

// OwnershipResult is the output of a full blame scan over a repository.
// Invariant: TotalLines == sum of Authors[i].Lines.
type OwnershipResult struct {
	Authors        []AuthorAttribution `json:"authors"` // sorted by Lines desc
	FilesProcessed int                 `json:"filesProcessed"`
	FilesSkipped   int                 `json:"filesSkipped"`
	TotalLines     int                 `json:"totalLines"`
	Warnings       []string            `json:"warnings,omitempty"`
}

// SumLines recomputes the line total from the author rows. Used as the
// cross-check against TotalLines.
func (r *OwnershipResult) SumLines() int {
	total := 0
	for _, a := range r.Authors {
		total += a.Lines
	}
	return total
}
