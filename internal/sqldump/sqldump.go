// Package sqldump renders the active content tree and its translations as
// a self-contained SQLite script: schema, then literal INSERTs inside a
// single transaction.
package sqldump

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"contentadmin/internal/models"
)

const contentSchema = `CREATE TABLE IF NOT EXISTS content (
  id INTEGER PRIMARY KEY,
  parent_id INTEGER,
  type TEXT,
  sequence INTEGER DEFAULT 0,
  audio_url TEXT,
  video_url TEXT,
  css TEXT,
  duas_url TEXT,
  is_deleted INTEGER DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);`

const translationSchema = `CREATE TABLE IF NOT EXISTS content_translation (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  content_id INTEGER NOT NULL,
  language_code TEXT NOT NULL,
  title TEXT DEFAULT '',
  transliteration TEXT DEFAULT '',
  translation TEXT DEFAULT '',
  original_text TEXT DEFAULT '',
  search_text TEXT DEFAULT '',
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(content_id, language_code)
);`

// Dump is everything one export script contains.
type Dump struct {
	VersionNumber string
	// Regenerated marks a dump rebuilt for an older version from current
	// data rather than produced at export time.
	Regenerated  bool
	GeneratedAt  time.Time
	Nodes        []models.ContentNode
	Translations []models.Translation
}

// Render returns the script as bytes.
func Render(d Dump) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = Write(&buf, d)
	return buf.Bytes()
}

// Write streams the script to w.
func Write(w io.Writer, d Dump) error {
	bw := bufio.NewWriter(w)

	label := "Generated"
	if d.Regenerated {
		label = "Regenerated"
	}
	fmt.Fprintf(bw, "-- Content Admin Export v%s\n", d.VersionNumber)
	fmt.Fprintf(bw, "-- %s: %s\n", label, d.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(bw, "-- Content rows: %d\n", len(d.Nodes))
	fmt.Fprintf(bw, "-- Translation rows: %d\n\n", len(d.Translations))

	bw.WriteString(contentSchema + "\n\n")
	bw.WriteString(translationSchema + "\n\n")

	bw.WriteString("BEGIN TRANSACTION;\n\n")
	for _, n := range d.Nodes {
		fmt.Fprintf(bw,
			"INSERT INTO content (id, parent_id, type, sequence, audio_url, video_url, css, duas_url, is_deleted, created_at, updated_at) VALUES (%s);\n",
			joinValues(n.ID, n.ParentID, n.Type, n.Sequence, n.AudioURL, n.VideoURL, n.CSS, n.DuasURL, 0, n.CreatedAt, n.UpdatedAt),
		)
	}
	bw.WriteString("\n")
	for _, t := range d.Translations {
		fmt.Fprintf(bw,
			"INSERT INTO content_translation (content_id, language_code, title, transliteration, translation, original_text, search_text, updated_at) VALUES (%s);\n",
			joinValues(t.ContentID, t.LanguageCode, t.Title, t.Transliteration, t.Translation, t.OriginalText, t.SearchText, t.UpdatedAt),
		)
	}
	bw.WriteString("\nCOMMIT;\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write sql dump: %w", err)
	}
	return nil
}

func joinValues(values ...any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Literal(v)
	}
	return strings.Join(parts, ", ")
}

// Literal renders v as an SQL literal. Nil values and nil pointers become
// NULL; strings are single-quoted with embedded quotes doubled.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(x)
	case *string:
		if x == nil {
			return "NULL"
		}
		return quote(*x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case *int64:
		if x == nil {
			return "NULL"
		}
		return strconv.FormatInt(*x, 10)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return quote(x.UTC().Format(time.RFC3339))
	case *time.Time:
		if x == nil {
			return "NULL"
		}
		return quote(x.UTC().Format(time.RFC3339))
	default:
		return quote(fmt.Sprint(x))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
