package captions

import (
	"encoding/json"
	"testing"
)

func catalogOf(langs ...string) *Catalog {
	c := NewCatalog()
	for _, lang := range langs {
		c.Add(lang, Track{Ext: "vtt", URL: "https://example.test/" + lang})
	}
	return c
}

func TestSelectLanguage(t *testing.T) {
	tests := []struct {
		name      string
		langs     []string
		preferred string
		want      string
		ok        bool
	}{
		{"empty catalog", nil, "en", "", false},
		{"prefix match", []string{"en-US", "fr"}, "en", "en-US", true},
		{"exact beats prefix", []string{"en-US", "en"}, "en", "en", true},
		{"case insensitive exact", []string{"de", "PT-br"}, "pt-BR", "PT-br", true},
		{"substring match", []string{"de", "zh-Hans-en"}, "hans", "zh-Hans-en", true},
		{"fallback when preferred unmatched", []string{"de", "es", "fr"}, "ja", "fr", true},
		{"fallback without preference", []string{"de", "es"}, "", "es", true},
		{"first key last resort", []string{"ja", "de"}, "", "ja", true},
		{"en fallback first", []string{"es", "en"}, "", "en", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectLanguage(catalogOf(tt.langs...), tt.preferred)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("SelectLanguage(%v, %q) = (%q, %v), want (%q, %v)", tt.langs, tt.preferred, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSelectLanguageNilCatalog(t *testing.T) {
	if _, ok := SelectLanguage(nil, "en"); ok {
		t.Fatal("nil catalog should select nothing")
	}
}

func TestSelectTrack(t *testing.T) {
	if _, ok := SelectTrack(nil); ok {
		t.Fatal("empty track list should select nothing")
	}
	track, ok := SelectTrack([]Track{{Ext: "srv1", URL: "a"}, {Ext: "vtt", URL: "b"}})
	if !ok || track.Ext != "vtt" {
		t.Fatalf("expected vtt, got %+v", track)
	}
	track, _ = SelectTrack([]Track{{Ext: "srv3"}, {Ext: "ttml"}})
	if track.Ext != "ttml" {
		t.Fatalf("expected ttml ahead of srv3, got %+v", track)
	}
	track, _ = SelectTrack([]Track{{Ext: "json3", URL: "first"}, {Ext: "weird"}})
	if track.URL != "first" {
		t.Fatalf("expected first track when no preferred format, got %+v", track)
	}
}

func TestPayloadToText(t *testing.T) {
	payload := "WEBVTT\n\n1\n00:00:00.000 --> 00:00:01.000\n<c>Hello</c>\n\nworld\n"
	if got := PayloadToText(payload); got != "Hello world" {
		t.Fatalf("unexpected text %q", got)
	}

	srt := "1\r\n00:00:01,000 --> 00:00:02,000\r\nGood <i>morning</i>\r\n\r\n2\r\n00:00:02,000 --> 00:00:03,000\r\neveryone\r\n"
	if got := PayloadToText(srt); got != "Good morning everyone" {
		t.Fatalf("unexpected srt text %q", got)
	}

	blocks := "WEBVTT Kind: captions\nNOTE generated\nSTYLE ::cue {}\nREGION id:r1\n<b></b>\n"
	if got := PayloadToText(blocks); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
	if got := PayloadToText(""); got != "" {
		t.Fatalf("expected empty text for empty payload, got %q", got)
	}
}

func TestCatalogPreservesDocumentOrder(t *testing.T) {
	doc := `{"subtitles":{"zu":[{"ext":"vtt","url":"z"}],"en-US":[{"ext":"srv1","url":"e1"},{"ext":"vtt","url":"e2"}],"ab":[]},"automatic_captions":null,"duration":61.5}`
	var meta VideoMetadata
	if err := json.Unmarshal([]byte(doc), &meta); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	langs := meta.Subtitles.Languages()
	if len(langs) != 3 || langs[0] != "zu" || langs[1] != "en-US" || langs[2] != "ab" {
		t.Fatalf("unexpected language order %v", langs)
	}
	if len(meta.Subtitles.Tracks("en-US")) != 2 {
		t.Fatalf("expected two en-US tracks")
	}
	if meta.AutomaticCaptions.Len() != 0 {
		t.Fatalf("null catalog should be empty")
	}
	if meta.Duration == nil || *meta.Duration != 61.5 {
		t.Fatalf("unexpected duration %v", meta.Duration)
	}

	// No preference: falls through en/fr/es to the first key.
	if lang, _ := SelectLanguage(&meta.Subtitles, ""); lang != "zu" {
		t.Fatalf("expected first key zu, got %q", lang)
	}

	encoded, err := json.Marshal(meta.Subtitles)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var again Catalog
	if err := json.Unmarshal(encoded, &again); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if got := again.Languages(); got[0] != "zu" || got[2] != "ab" {
		t.Fatalf("order lost on re-encode: %v", got)
	}
}

func TestCatalogRejectsNonObject(t *testing.T) {
	var c Catalog
	if err := json.Unmarshal([]byte(`["en"]`), &c); err == nil {
		t.Fatal("expected error for array document")
	}
}
