package captions

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Track is one downloadable caption rendition.
type Track struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// Catalog maps language keys to their tracks and remembers the order in
// which languages were listed by the remote document.
type Catalog struct {
	order  []string
	tracks map[string][]Track
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tracks: make(map[string][]Track)}
}

// Add appends tracks under lang, registering lang on first use.
func (c *Catalog) Add(lang string, tracks ...Track) *Catalog {
	if c.tracks == nil {
		c.tracks = make(map[string][]Track)
	}
	if _, ok := c.tracks[lang]; !ok {
		c.order = append(c.order, lang)
	}
	c.tracks[lang] = append(c.tracks[lang], tracks...)
	return c
}

// Languages returns the language keys in document order.
func (c *Catalog) Languages() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Tracks returns the tracks listed under lang.
func (c *Catalog) Tracks(lang string) []Track {
	if c == nil {
		return nil
	}
	return c.tracks[lang]
}

// Len reports the number of languages.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// UnmarshalJSON decodes a JSON object of language to track list, keeping key
// order. A null document yields an empty catalog.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	*c = Catalog{tracks: make(map[string][]Track)}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("caption catalog: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("caption catalog: unexpected key %v", keyTok)
		}
		var tracks []Track
		if err := dec.Decode(&tracks); err != nil {
			return fmt.Errorf("caption catalog: language %q: %w", key, err)
		}
		c.Add(key, tracks...)
	}
	_, err = dec.Token()
	return err
}

// MarshalJSON encodes the catalog as an object in document order.
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lang := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(lang)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(c.tracks[lang])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// VideoMetadata is the subset of remote video information the pipeline uses.
type VideoMetadata struct {
	ID                string   `json:"id,omitempty"`
	Title             string   `json:"title,omitempty"`
	Duration          *float64 `json:"duration,omitempty"`
	Subtitles         Catalog  `json:"subtitles"`
	AutomaticCaptions Catalog  `json:"automatic_captions"`
}
