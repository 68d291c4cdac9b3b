// Package segment provides the immutable retrieval unit for the engine: a
// contract document pre-split into identified passages by an external
// ingestion step.
package segment

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrNoSegments is returned when a parsed document contains no usable
// id/text records.
var ErrNoSegments = errors.New("no segments found")

// Segment is one retrievable passage of a parsed document.
type Segment struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
	Level *int   `json:"level,omitempty"`
}

// Document is the result of loading a parsed contract: its segments plus the
// optional full text the ingester may have included.
type Document struct {
	FullText string
	Segments []Segment
}

// parsedItem mirrors one entry of the ingester's JSON array. An item carries
// either full_text or an id/text pair; anything else is skipped.
type parsedItem struct {
	ID       flexID `json:"id"`
	Text     string `json:"text"`
	Title    string `json:"title"`
	Level    *int   `json:"level"`
	FullText string `json:"full_text"`
}

// flexID accepts both string and numeric ids; ingesters disagree on which
// they emit.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeSpace collapses runs of whitespace to single spaces and trims.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// LoadFile reads a parsed-document JSON file and returns its segments.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parsed document: %w", err)
	}
	return Load(data)
}

// Load decodes a parsed-document JSON payload. The payload is either a JSON
// array of items or an object with an "items" array.
func Load(data []byte) (*Document, error) {
	var items []parsedItem
	if err := json.Unmarshal(data, &items); err != nil {
		var wrapper struct {
			Items []parsedItem `json:"items"`
		}
		if werr := json.Unmarshal(data, &wrapper); werr != nil {
			return nil, fmt.Errorf("decoding parsed document: %w", err)
		}
		items = wrapper.Items
	}

	doc := &Document{}
	for _, it := range items {
		switch {
		case it.FullText != "":
			doc.FullText = it.FullText
		case it.ID != "" && it.Text != "":
			doc.Segments = append(doc.Segments, Segment{
				ID:    string(it.ID),
				Text:  NormalizeSpace(it.Text),
				Title: it.Title,
				Level: it.Level,
			})
		}
	}

	if len(doc.Segments) == 0 {
		return nil, ErrNoSegments
	}
	return doc, nil
}
