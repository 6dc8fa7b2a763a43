// Package reconcile matches articles across the three legacy exports and
// produces insert-ready records: the block-JSON export of the old editor
// database, a directory of Markdown exports, and a CSV of the oldest site's
// rows. Records are joined on the legacy numeric id (old_id), never on the
// new sequential id.
package reconcile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jknm/migrate/article"
	"github.com/jknm/migrate/editorjs"
)

// BlockArticle is one row of the block-JSON export (source A). ID is the new
// sequential key; OldID back-references the legacy site and drives all
// cross-source matching.
type BlockArticle struct {
	ID             int                `json:"id"`
	OldID          *int               `json:"old_id"`
	Title          string             `json:"title"`
	URL            string             `json:"url"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Content        *editorjs.Document `json:"content"`
	ContentPreview string             `json:"content_preview,omitempty"`
	ThumbnailCrop  *article.Thumbnail `json:"thumbnail_crop,omitempty"`
}

// LoadBlockExport reads the articles.json export.
func LoadBlockExport(path string) ([]BlockArticle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reconcile: read block export: %w", err)
	}
	var rows []BlockArticle
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("reconcile: decode block export %s: %w", path, err)
	}
	return rows, nil
}

// MarkdownExport maps a legacy id to the raw Markdown exported for it
// (source B). Files are named "<old_id>.md".
type MarkdownExport map[int]string

// LoadMarkdownDir loads every numerically named .md file under dir. Files
// whose base name is not a number are ignored; the export directories often
// carry a stray README.
func LoadMarkdownDir(dir string) (MarkdownExport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reconcile: read markdown export dir: %w", err)
	}

	export := make(MarkdownExport, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ".md")
		id, err := strconv.Atoi(base)
		if err != nil {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reconcile: read %s: %w", entry.Name(), err)
		}
		export[id] = string(raw)
	}
	return export, nil
}

// CSV categories of the oldest export. Only category 1 rows are articles;
// category 2 rows are club-internal notices that were never published.
const (
	csvCategoryArticle = "1"
	csvCategorySkip    = "2"
)

// CSVRow is one category-1 row of the oldest export (source C), keyed by
// objave_id which matches A's old_id.
type CSVRow struct {
	ObjaveID int
	Naslov   string
}

// CSVIndex holds article rows keyed by objave_id.
type CSVIndex map[int]CSVRow

// RowError reports a CSV row that could not be used.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("csv line %d: %v", e.Line, e.Err)
}

// LoadCSV reads the oldest export. Category 1 rows are indexed, category 2
// rows are skipped, and rows with any other category are collected as row
// errors rather than silently dropped. The header row must name at least an
// identifier column (ID in the raw export, objave_id in re-keyed dumps), the
// kategorija column and the naslov column (case-insensitive, any order);
// extra columns such as Tekst or Datum1 are ignored.
func LoadCSV(path string) (CSVIndex, []RowError, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reconcile: open csv export: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reconcile: read csv header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := columns["objave_id"]
	if !ok {
		idCol, ok = columns["id"]
	}
	if !ok {
		return nil, nil, fmt.Errorf("reconcile: csv export misses the id (or objave_id) column")
	}
	categoryCol, ok := columns["kategorija"]
	if !ok {
		return nil, nil, fmt.Errorf("reconcile: csv export misses the kategorija column")
	}
	titleCol, ok := columns["naslov"]
	if !ok {
		return nil, nil, fmt.Errorf("reconcile: csv export misses the naslov column")
	}

	index := make(CSVIndex)
	var rowErrors []RowError

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Err: err})
			continue
		}

		field := func(col int) string {
			if col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}

		category := field(categoryCol)
		switch category {
		case csvCategoryArticle:
		case csvCategorySkip:
			continue
		default:
			rowErrors = append(rowErrors, RowError{
				Line: line,
				Err:  fmt.Errorf("unrecognized kategorija %q", category),
			})
			continue
		}

		id, err := strconv.Atoi(field(idCol))
		if err != nil {
			rowErrors = append(rowErrors, RowError{
				Line: line,
				Err:  fmt.Errorf("invalid objave_id %q", field(idCol)),
			})
			continue
		}

		index[id] = CSVRow{
			ObjaveID: id,
			Naslov:   field(titleCol),
		}
	}

	return index, rowErrors, nil
}
