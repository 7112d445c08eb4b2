package query

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/hickst/qmtools/internal/model"
)

// Operators lists the accepted comparison operators. Two-character
// operators come first so that "<=" is never read as "<" followed by "=".
var Operators = []string{"==", "!=", "<=", ">=", "<", ">"}

// Criterion is one keyword comparison from a criteria file.
type Criterion struct {
	// Keyword is the record field being compared.
	Keyword string `json:"keyword"`

	// Comparison is the operator immediately followed by the value,
	// for example "<=2.5".
	Comparison string `json:"comparison"`
}

// String returns the clause as sent to the server.
func (c Criterion) String() string {
	return c.Keyword + c.Comparison
}

// Criteria is an ordered list of comparisons, all of which must hold.
type Criteria []Criterion

// Where joins the clauses with " and ".
func (c Criteria) Where() string {
	clauses := make([]string, len(c))
	for i, crit := range c {
		clauses[i] = crit.String()
	}
	return strings.Join(clauses, " and ")
}

// ParseComparison validates a comparison string and returns it normalized
// as operator+value with surrounding whitespace removed.
func ParseComparison(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	for _, op := range Operators {
		if !strings.HasPrefix(trimmed, op) {
			continue
		}
		value := strings.TrimSpace(trimmed[len(op):])
		if value == "" {
			return "", fmt.Errorf("%w: the value compared by operator %q must not be empty",
				model.ErrInvalidArgument, op)
		}
		return op + value, nil
	}
	return "", fmt.Errorf("%w: the comparison operator in %q must be one of %s",
		model.ErrInvalidArgument, trimmed, strings.Join(Operators, " "))
}

// ParseCriteria parses criteria lines for modality against vocab.
// Parsing is all-or-nothing: the first bad line aborts with an error.
func ParseCriteria(vocab *model.Vocabulary, modality model.Modality, lines []string) (Criteria, error) {
	var out Criteria
	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		keyword, rest, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("%w: line %d %q: expected a keyword, a space and a comparison",
				model.ErrMalformedInput, lineNum, line)
		}
		if !vocab.IsKeyword(modality, keyword) {
			return nil, fmt.Errorf("%w: line %d: keyword %q is not a valid %s keyword, expected one of %s",
				model.ErrInvalidArgument, lineNum, keyword, modality,
				keywordList(vocab.KeywordsFor(modality), maxListedKeywords))
		}
		comparison, err := ParseComparison(rest)
		if err != nil {
			return nil, fmt.Errorf("line %d: keyword %q: %w", lineNum, keyword, err)
		}
		out = append(out, Criterion{Keyword: keyword, Comparison: comparison})
	}
	return out, nil
}

// maxListedKeywords caps the keywords named in an invalid keyword error.
const maxListedKeywords = 12

// keywordList joins the first limit words, noting how many were left out.
func keywordList(words []string, limit int) string {
	if len(words) <= limit {
		return strings.Join(words, ", ")
	}
	return fmt.Sprintf("%s, ... (%d more)", strings.Join(words[:limit], ", "), len(words)-limit)
}

// Parse reads criteria lines from r.
func Parse(r io.Reader, vocab *model.Vocabulary, modality model.Modality) (Criteria, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read criteria: %w", err)
	}
	return ParseCriteria(vocab, modality, lines)
}

// ParseFile reads and parses the criteria file at path.
// A missing file is reported as model.ErrNotFound.
func ParseFile(path string, vocab *model.Vocabulary, modality model.Modality) (Criteria, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the user on the command line
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: query file %s", model.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open query file %s: %w", path, err)
	}
	defer f.Close()

	crit, err := Parse(f, vocab, modality)
	if err != nil {
		return nil, fmt.Errorf("query file %s: %w", path, err)
	}
	return crit, nil
}
