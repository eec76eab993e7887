// Package cord filters CORD-19 article metadata and bulk-loads the
// relevant articles into the article database.
package cord

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Columns of metadata.csv the filter and loader consume.
const (
	colCordUID      = "cord_uid"
	colSourceX      = "source_x"
	colTitle        = "title"
	colAbstract     = "abstract"
	colURL          = "url"
	colPDFJSONFiles = "pdf_json_files"
)

// Article is one row prepared for insertion into the article table.
type Article struct {
	ID         string    // fresh UUID
	ExternalID string    // cord_uid
	Meta       string    // original metadata row re-encoded as one CSV line
	Body       string    // contents of the article's first pdf_json file
	Created    time.Time // shared creation timestamp for the batch
	Status     string
	Source     string
	Message    string
}

// Metadata is a parsed metadata.csv.
type Metadata struct {
	header []string
	rows   [][]string
	idx    map[string]int
	dir    string // directory of the csv; pdf_json paths are relative to it
}

// ReadMetadata parses a CORD-19 metadata.csv file.
func ReadMetadata(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // CORD dumps are not perfectly rectangular

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse metadata csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("metadata file %s is empty", path)
	}

	m := &Metadata{
		header: records[0],
		rows:   records[1:],
		idx:    make(map[string]int, len(records[0])),
		dir:    filepath.Dir(path),
	}
	for i, col := range m.header {
		m.idx[col] = i
	}

	for _, col := range []string{colCordUID, colSourceX, colTitle, colAbstract, colURL, colPDFJSONFiles} {
		if _, ok := m.idx[col]; !ok {
			return nil, fmt.Errorf("metadata file %s is missing column %q", path, col)
		}
	}

	return m, nil
}

// TotalRows returns the number of data rows in the file.
func (m *Metadata) TotalRows() int {
	return len(m.rows)
}

// Relevant returns the rows passing the relevance filter: a parsed PDF is
// available, the source is not a PMC mirror, a URL is present, and the
// title or abstract mentions covid or sars-cov-2.
func (m *Metadata) Relevant() [][]string {
	var out [][]string
	for _, row := range m.rows {
		if m.isRelevant(row) {
			out = append(out, row)
		}
	}
	return out
}

func (m *Metadata) isRelevant(row []string) bool {
	if m.field(row, colPDFJSONFiles) == "" {
		return false
	}
	if strings.Contains(m.field(row, colSourceX), "PMC") {
		return false
	}
	if m.field(row, colURL) == "" {
		return false
	}
	title := m.field(row, colTitle)
	abstract := m.field(row, colAbstract)
	return mentionsCovid(title) || mentionsCovid(abstract)
}

func mentionsCovid(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "covid") || strings.Contains(lower, "sars-cov-2")
}

// field returns a named column of a row, tolerating short rows.
func (m *Metadata) field(row []string, col string) string {
	i := m.idx[col]
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// BuildArticles turns the relevant rows into article records, reading each
// article's body from its first pdf_json file (paths are relative to the
// metadata file's directory).
func (m *Metadata) BuildArticles() ([]Article, error) {
	created := time.Now().UTC()
	rows := m.Relevant()

	articles := make([]Article, 0, len(rows))
	for _, row := range rows {
		// Rows can list several parsed PDFs separated by ';'; the first
		// one is the article body.
		pdfPath := strings.Split(m.field(row, colPDFJSONFiles), ";")[0]
		body, err := os.ReadFile(filepath.Join(m.dir, pdfPath))
		if err != nil {
			return nil, fmt.Errorf("read article body: %w", err)
		}

		meta, err := encodeMetaLine(row)
		if err != nil {
			return nil, fmt.Errorf("encode meta for %s: %w", m.field(row, colCordUID), err)
		}

		articles = append(articles, Article{
			ID:         uuid.NewString(),
			ExternalID: m.field(row, colCordUID),
			Meta:       meta,
			Body:       string(body),
			Created:    created,
			Status:     "FETCHED",
			Source:     "cord19_pdf",
			Message:    "",
		})
	}
	return articles, nil
}

// CreateStrippedArchive writes a reduced copy of the dataset under outDir:
// a metadata.csv holding only the relevant rows, plus each relevant row's
// first pdf_json file at its original relative path. The result is a small
// dataset that loads the same articles as the full dump. It returns the
// number of rows written.
func (m *Metadata) CreateStrippedArchive(outDir string) (int, error) {
	rows := m.Relevant()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create archive dir: %w", err)
	}

	for _, row := range rows {
		pdfPath := strings.Split(m.field(row, colPDFJSONFiles), ";")[0]
		if err := copyFile(filepath.Join(m.dir, pdfPath), filepath.Join(outDir, pdfPath)); err != nil {
			return 0, fmt.Errorf("copy article %s: %w", m.field(row, colCordUID), err)
		}
	}

	f, err := os.Create(filepath.Join(outDir, "metadata.csv"))
	if err != nil {
		return 0, fmt.Errorf("create stripped metadata: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(m.header); err != nil {
		return 0, fmt.Errorf("write stripped metadata: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return 0, fmt.Errorf("write stripped metadata: %w", err)
	}

	return len(rows), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// encodeMetaLine re-encodes a metadata row as a single CSV line with any
// embedded double quotes stripped first.
func encodeMetaLine(row []string) (string, error) {
	clean := make([]string, len(row))
	for i, f := range row {
		clean[i] = strings.ReplaceAll(f, `"`, "")
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(clean); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
