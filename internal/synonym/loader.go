package synonym

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JustNello/punctual/internal/entry"
)

// ParseWarning describes a malformed line of a synonyms file
type ParseWarning struct {
	LineNumber int    // Line number in the file (1-indexed)
	Content    string // Raw content of the malformed line
	Error      string // Description of the parsing error
}

// LoadResult contains parsed pairs and warnings about skipped lines
type LoadResult struct {
	Pairs    []Pair
	Warnings []ParseWarning
}

// Load reads "name, minutes" lines from r. The line is split on its last
// comma because place names often contain commas. Minutes may be an integer
// or a duration such as "1h30m". Blank lines and lines starting with the
// syntax comment marker are ignored; malformed lines are reported as warnings.
func Load(r io.Reader, syntax entry.Syntax) (LoadResult, error) {
	result := LoadResult{
		Pairs:    []Pair{},
		Warnings: []ParseWarning{},
	}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		content := strings.TrimSpace(scanner.Text())
		if content == "" || syntax.IsComment(content) {
			continue
		}

		pair, err := parseLine(content)
		if err != nil {
			result.Warnings = append(result.Warnings, ParseWarning{
				LineNumber: lineNumber,
				Content:    content,
				Error:      err.Error(),
			})
			continue
		}
		result.Pairs = append(result.Pairs, pair)
	}

	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read synonyms: %w", err)
	}
	return result, nil
}

// LoadFile reads a synonyms file from path
func LoadFile(path string, syntax entry.Syntax) (LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return LoadResult{}, err
	}
	defer func() { _ = file.Close() }()

	return Load(file, syntax)
}

func parseLine(content string) (Pair, error) {
	idx := strings.LastIndex(content, ",")
	if idx == -1 {
		return Pair{}, fmt.Errorf("expected '<name>, <minutes>'")
	}

	name := strings.TrimSpace(content[:idx])
	value := strings.TrimSpace(content[idx+1:])
	if name == "" {
		return Pair{}, fmt.Errorf("name cannot be empty")
	}

	if minutes, err := strconv.Atoi(value); err == nil {
		if minutes < 0 {
			return Pair{}, fmt.Errorf("minutes cannot be negative")
		}
		return Pair{Name: name, Minutes: minutes}, nil
	}

	minutes, err := entry.ParseDuration(value)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Name: name, Minutes: minutes}, nil
}
