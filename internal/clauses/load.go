package clauses

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"oddrafter/internal/logging"
	"oddrafter/pkg/fileops"
)

// maxClauseFileSize bounds any single clause source file.
const maxClauseFileSize = 5 * 1024 * 1024

// markdownExtensions contains supported markdown file extensions
var markdownExtensions = []string{
	".md", ".mdown", ".mkdn", ".mkd", ".markdown",
}

// ClauseFrontmatter is the YAML frontmatter expected in clause markdown files.
type ClauseFrontmatter struct {
	Title string `yaml:"title"`
	Order int    `yaml:"order,omitempty"`
}

// LoadFile reads a clause mapping file. A missing file is an empty library,
// so a server without clauses still starts and reports no options.
func LoadFile(path string) (*Library, error) {
	if err := fileops.ValidateFileSizeLimit(path, maxClauseFileSize); err != nil {
		if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
			return NewLibrary(), nil
		}
		return nil, fmt.Errorf("clause file check failed: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clause file: %w", err)
	}

	lib, err := ParseMapping(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	for i := range lib.clauses {
		lib.clauses[i].Source = path
	}
	return lib, nil
}

// ParseMapping parses a JSON (or YAML) object of title to clause text,
// keeping the order in which titles appear.
func ParseMapping(data []byte) (*Library, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewLibrary(), nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("clause file must hold an object of title to text")
	}

	var clauses []Clause
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("clause %q: text must be a string (line %d)", key.Value, value.Line)
		}
		clauses = append(clauses, Clause{Title: key.Value, Text: value.Value})
	}
	return NewLibrary(clauses...), nil
}

// LoadDir reads every markdown file under dir as one clause. The title comes
// from the frontmatter or, failing that, from the file name; the body is the
// clause text. Clauses are ordered by the frontmatter order field, then path.
func LoadDir(dir string, logger *logging.AppLogger) (*Library, error) {
	if logger == nil {
		logger = logging.GetDefault()
	}

	files, err := fileops.ScanWithFilter(dir, isMarkdownFile, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to scan clause directory: %w", err)
	}

	type ordered struct {
		order  int
		path   string
		clause Clause
	}
	var found []ordered
	var skipped int

	for _, file := range files {
		if file.Size > maxClauseFileSize {
			logger.Debug("Skipping oversized clause file", "path", file.Path, "size", file.Size)
			skipped++
			continue
		}

		absPath := filepath.Join(dir, filepath.FromSlash(file.Path))
		content, err := os.ReadFile(absPath)
		if err != nil {
			logger.Debug("Skipping unreadable clause file", "path", file.Path, "error", err)
			skipped++
			continue
		}

		var matter ClauseFrontmatter
		body, err := frontmatter.Parse(bytes.NewReader(content), &matter)
		if err != nil {
			logger.Debug("Skipping clause file with invalid frontmatter", "path", file.Path, "error", err)
			skipped++
			continue
		}

		title := strings.TrimSpace(matter.Title)
		if title == "" {
			title = titleFromFileName(file.Name)
		}
		text := strings.TrimSpace(string(body))
		if title == "" || text == "" {
			logger.Debug("Skipping empty clause file", "path", file.Path)
			skipped++
			continue
		}

		found = append(found, ordered{
			order:  matter.Order,
			path:   file.Path,
			clause: Clause{Title: title, Text: text, Source: absPath},
		})
	}

	slices.SortStableFunc(found, func(a, b ordered) int {
		if a.order != b.order {
			return a.order - b.order
		}
		return strings.Compare(a.path, b.path)
	})

	clauses := make([]Clause, len(found))
	for i, f := range found {
		clauses[i] = f.clause
	}

	logger.Info("Clause directory loaded", "dir", dir, "clauses", len(clauses), "skipped", skipped)
	return NewLibrary(clauses...), nil
}

// titleFromFileName turns "limitation-of_liability.md" into
// "limitation of liability".
func titleFromFileName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}

// isMarkdownFile checks if a filename has a markdown extension.
func isMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return slices.Contains(markdownExtensions, ext)
}
