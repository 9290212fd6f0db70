package pose

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	_ "modernc.org/sqlite"
)

// IndexFile is the lexicon index name inside a lexicon directory.
const IndexFile = "index.csv"

const schemaSQL = `
CREATE TABLE entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL,
	spoken_language TEXT NOT NULL DEFAULT '',
	signed_language TEXT NOT NULL DEFAULT '',
	start_frame INTEGER NOT NULL DEFAULT 0,
	end_frame INTEGER NOT NULL DEFAULT 0,
	words TEXT NOT NULL DEFAULT '',
	glosses TEXT NOT NULL DEFAULT '',
	priority INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX idx_entries_words ON entries (signed_language, words);
CREATE INDEX idx_entries_glosses ON entries (signed_language, glosses);
`

// Entry is one lexicon row: a pose file (optionally a frame range of it)
// signing a word or gloss.
type Entry struct {
	Path           string
	SpokenLanguage string
	SignedLanguage string
	Start          int
	End            int
	Words          string
	Glosses        string
	Priority       int
}

// Lookup resolves words and glosses to lexicon entries. The lexicon index is
// loaded once into an in-memory SQLite table.
type Lookup struct {
	db             *sql.DB
	dir            string
	fingerspelling bool
	size           int
}

// LoadLookup reads <dir>/index.csv. When fingerspelling is enabled, words
// with no entry are spelled letter by letter from single-letter entries.
func LoadLookup(ctx context.Context, dir string, fingerspelling bool) (*Lookup, error) {
	file, err := os.Open(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("open lexicon index: %w", err)
	}
	defer file.Close()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open lookup db: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	l := &Lookup{db: db, dir: dir, fingerspelling: fingerspelling}
	if err := l.load(ctx, file); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Lookup) load(ctx context.Context, r io.Reader) error {
	if _, err := l.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create lookup schema: %w", err)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read lexicon header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	if _, ok := columns["path"]; !ok {
		return errors.New("lexicon index: missing path column")
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin lexicon load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries
		(path, spoken_language, signed_language, start_frame, end_frame, words, glosses, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare lexicon insert: %w", err)
	}
	defer stmt.Close()

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("read lexicon line %d: %w", line, err)
		}
		path := field(record, "path")
		if path == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			path,
			strings.ToLower(field(record, "spoken_language")),
			strings.ToLower(field(record, "signed_language")),
			atoiOrZero(field(record, "start")),
			atoiOrZero(field(record, "end")),
			strings.ToLower(field(record, "words")),
			strings.ToUpper(field(record, "glosses")),
			atoiOrZero(field(record, "priority")),
		); err != nil {
			return fmt.Errorf("insert lexicon line %d: %w", line, err)
		}
		l.size++
	}
	return tx.Commit()
}

// Size reports the number of loaded entries.
func (l *Lookup) Size() int { return l.size }

// Dir returns the lexicon directory.
func (l *Lookup) Dir() string { return l.dir }

// Close releases the in-memory table.
func (l *Lookup) Close() error { return l.db.Close() }

// Find returns the best entry for a word or gloss in signedLanguage. Entries
// in spokenLanguage and with higher priority win.
func (l *Lookup) Find(ctx context.Context, word, gloss, spokenLanguage, signedLanguage string) (Entry, bool, error) {
	row := l.db.QueryRowContext(ctx, `SELECT path, spoken_language, signed_language, start_frame, end_frame, words, glosses, priority
		FROM entries
		WHERE signed_language = ? AND (words = ? OR (glosses <> '' AND glosses = ?))
		ORDER BY (spoken_language = ?) DESC, (words = ?) DESC, priority DESC, id ASC
		LIMIT 1`,
		strings.ToLower(signedLanguage),
		strings.ToLower(word),
		strings.ToUpper(gloss),
		strings.ToLower(spokenLanguage),
		strings.ToLower(word),
	)
	var e Entry
	err := row.Scan(&e.Path, &e.SpokenLanguage, &e.SignedLanguage, &e.Start, &e.End, &e.Words, &e.Glosses, &e.Priority)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lexicon lookup: %w", err)
	}
	if !filepath.IsAbs(e.Path) {
		e.Path = filepath.Join(l.dir, e.Path)
	}
	return e, true, nil
}

// Resolve returns the entries that sign word: the direct match, or the
// letters of the word when fingerspelling is enabled. ok is false when the
// word cannot be signed.
func (l *Lookup) Resolve(ctx context.Context, word, gloss, spokenLanguage, signedLanguage string) ([]Entry, bool, error) {
	entry, ok, err := l.Find(ctx, word, gloss, spokenLanguage, signedLanguage)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return []Entry{entry}, true, nil
	}
	if !l.fingerspelling {
		return nil, false, nil
	}
	var letters []Entry
	for _, r := range strings.ToLower(word) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		letter, ok, err := l.Find(ctx, string(r), "", spokenLanguage, signedLanguage)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		letters = append(letters, letter)
	}
	return letters, len(letters) > 0, nil
}

func atoiOrZero(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
