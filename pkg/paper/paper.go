// Package paper defines the bibliographic record exchanged with the
// remote paper source. Field names on the wire follow the proxy API
// contract (paperId, citationCount, ...).
package paper

import "strings"

// Author is a single paper author.
type Author struct {
	Name string `json:"name" bson:"name"`
}

// Paper is an external bibliographic record for a single academic work.
//
// ID is the canonical identifier, globally unique per underlying work
// (e.g. an OpenAlex work id like "W2741809807"). Year is 0 when the
// publication year is unknown; consumers sorting by year must order
// unknown years last.
type Paper struct {
	ID             string   `json:"paperId" bson:"paper_id"`
	Title          string   `json:"title" bson:"title"`
	Authors        []Author `json:"authors,omitempty" bson:"authors,omitempty"`
	Year           int      `json:"year,omitempty" bson:"year,omitempty"`
	Venue          string   `json:"venue,omitempty" bson:"venue,omitempty"`
	CitationCount  int      `json:"citationCount" bson:"citation_count"`
	ReferenceCount int      `json:"referenceCount,omitempty" bson:"reference_count,omitempty"`
	URL            string   `json:"url,omitempty" bson:"url,omitempty"`
}

// Valid reports whether the record carries the minimum fields required
// to appear in the graph. Upstream records missing an identifier or a
// title are dropped rather than rendered.
func (p Paper) Valid() bool {
	return strings.TrimSpace(p.ID) != "" && strings.TrimSpace(p.Title) != ""
}

// AuthorNames returns the author display names joined with ", ".
func (p Paper) AuthorNames() string {
	if len(p.Authors) == 0 {
		return ""
	}
	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}
