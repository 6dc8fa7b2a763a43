package reconcile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadBlockExport(t *testing.T) {
	path := writeFile(t, t.TempDir(), "articles.json", `[
		{
			"id": 215,
			"old_id": 229,
			"title": "Čaganka - uradna rekordna globina",
			"url": "caganka-uradna-rekordna-globina",
			"created_at": "2011-09-13T00:00:00.000Z",
			"updated_at": "2024-12-11T18:10:49.218Z",
			"content": {
				"time": 1728160129247,
				"blocks": [
					{"id": "LaXkaogsLu", "type": "header", "data": {"text": "Čaganka", "level": 1}}
				]
			}
		}
	]`)

	rows, err := LoadBlockExport(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	row := rows[0]
	if row.ID != 215 || row.OldID == nil || *row.OldID != 229 {
		t.Fatalf("unexpected ids: %d, %v", row.ID, row.OldID)
	}
	if row.Content == nil || len(row.Content.Blocks) != 1 {
		t.Fatalf("content not decoded: %+v", row.Content)
	}
}

func TestLoadMarkdownDirSkipsNonNumericNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "229.md", "# Čaganka\nvsebina")
	writeFile(t, dir, "40.md", "# Tabor")
	writeFile(t, dir, "README.md", "not an export")
	writeFile(t, dir, "notes.txt", "ignored")

	export, err := LoadMarkdownDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(export) != 2 {
		t.Fatalf("got %d entries, want 2", len(export))
	}
	if !strings.HasPrefix(export[229], "# Čaganka") {
		t.Fatalf("unexpected content for 229: %q", export[229])
	}
}

func TestLoadCSVCategories(t *testing.T) {
	path := writeFile(t, t.TempDir(), "objave.csv",
		"objave_id,kategorija,naslov\n"+
			"229,1,Čaganka\n"+
			"230,2,Interno obvestilo\n"+
			"231,9,Pokvarjena vrstica\n"+
			"232,1,Občni zbor\n")

	index, rowErrors, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(index) != 2 {
		t.Fatalf("got %d article rows, want 2", len(index))
	}
	if index[229].Naslov != "Čaganka" {
		t.Fatalf("unexpected title: %q", index[229].Naslov)
	}
	if _, ok := index[230]; ok {
		t.Fatal("category 2 rows must be skipped")
	}

	// Category 9 is neither an article nor a known skip: a row error, not a
	// silent drop.
	if len(rowErrors) != 1 {
		t.Fatalf("got %d row errors, want 1: %v", len(rowErrors), rowErrors)
	}
	if rowErrors[0].Line != 4 {
		t.Fatalf("unexpected error line %d", rowErrors[0].Line)
	}
}

func TestLoadCSVHeaderIsCaseInsensitive(t *testing.T) {
	path := writeFile(t, t.TempDir(), "objave.csv",
		"Objave_ID,Kategorija,Naslov\n229,1,Čaganka\n")

	index, rowErrors, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rowErrors) != 0 || len(index) != 1 {
		t.Fatalf("unexpected result: %v, %v", index, rowErrors)
	}
}

func TestLoadCSVAcceptsRawExportHeader(t *testing.T) {
	// The raw dump ships with its original column names and trailing columns
	// the loader does not use.
	path := writeFile(t, t.TempDir(), "objave.csv",
		"ID,Kategorija,Naslov,Tekst,Datum1,ZadnjaSprememba\n"+
			"229,1,Čaganka,Dolg tekst ...,2005-06-12,2005-06-14\n")

	index, rowErrors, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	row, ok := index[229]
	if !ok {
		t.Fatalf("row 229 missing from index: %v", index)
	}
	if row.Naslov != "Čaganka" {
		t.Fatalf("unexpected title: %q", row.Naslov)
	}
}

func TestLoadCSVRequiresColumns(t *testing.T) {
	cases := map[string]string{
		"no identifier": "kategorija,naslov\n1,x\n",
		"no category":   "id,naslov\n1,x\n",
		"no title":      "id,kategorija\n1,1\n",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "objave.csv", header)
			if _, _, err := LoadCSV(path); err == nil {
				t.Fatal("expected missing column error")
			}
		})
	}
}
