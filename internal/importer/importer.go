// Package importer turns external CSV files into ledger transactions and
// manages the import inbox under <dir>/import.
package importer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pocketledger/pocketledger/internal/ledgercsv"
	"github.com/pocketledger/pocketledger/internal/model"
)

// Parser converts a CSV file into transactions. account labels rows for
// formats that carry no account column of their own.
type Parser interface {
	Parse(r io.Reader, account string) ([]model.Transaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file waiting in the inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&LedgerParser{})
	r.Register(&StatementParser{})
	return r
}

// LedgerParser reads files written by the CSV export.
type LedgerParser struct{}

// Format returns the parser name.
func (p *LedgerParser) Format() string { return "ledger" }

// Parse reads an exported ledger CSV. Rows keep their own account.
func (p *LedgerParser) Parse(r io.Reader, _ string) ([]model.Transaction, error) {
	return ledgercsv.ReadTransactions(r)
}

const (
	inboxDir     = "import"
	processedDir = "processed"
)

// InboxPath is where Scan looks for files to import.
func InboxPath(dir string) string {
	return filepath.Join(dir, inboxDir)
}

// Scan lists the CSV files waiting in the inbox, by name. Dotfiles are
// skipped since editors and sync tools leave partial copies under them.
// A missing inbox is an empty one.
func Scan(dir string) ([]FileInfo, error) {
	inbox := InboxPath(dir)
	entries, err := os.ReadDir(inbox)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading inbox: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") ||
			!strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		files = append(files, FileInfo{Name: name, Path: filepath.Join(inbox, name), Size: info.Size()})
	}
	return files, nil
}

// MarkProcessed moves an imported file out of the inbox into
// import/processed/ and returns the name it was filed under. An earlier
// statement with the same name is kept; the new one gets a numbered
// suffix such as bank-2.csv.
func MarkProcessed(dir, fileName string) (string, error) {
	done := filepath.Join(InboxPath(dir), processedDir)
	if err := os.MkdirAll(done, 0o755); err != nil {
		return "", fmt.Errorf("creating processed dir: %w", err)
	}

	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)
	for n := 1; ; n++ {
		name := fileName
		if n > 1 {
			name = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		dst := filepath.Join(done, name)
		if _, err := os.Lstat(dst); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("checking %s: %w", dst, err)
		}
		if err := os.Rename(filepath.Join(InboxPath(dir), fileName), dst); err != nil {
			return "", fmt.Errorf("moving %s to processed: %w", fileName, err)
		}
		return name, nil
	}
}
