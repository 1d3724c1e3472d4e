package permission

import (
	"regexp"
	"strings"
)

// Lexical scan for table identifiers introduced by the clauses each role may
// reach. Case-insensitive via the upper-cased input; backtick and
// double-quote wrapping is stripped before comparison.
var (
	writeClauseRe = regexp.MustCompile("\\b(?:FROM|JOIN|INTO|UPDATE)\\s+([`\"\\w]+)")
	readClauseRe  = regexp.MustCompile("\\b(?:FROM|JOIN)\\s+([`\"\\w]+)")
)

// ExtractTables returns every table identifier introduced by a FROM, JOIN,
// INTO, or UPDATE clause of the upper-cased statement, in order of
// appearance. Best-effort: no parsing of subqueries, comments, or batches.
func ExtractTables(upperStmt string) []string {
	return scanTables(writeClauseRe, upperStmt)
}

// ExtractReadTables is ExtractTables restricted to FROM and JOIN clauses,
// the only table references a read-only statement introduces.
func ExtractReadTables(upperStmt string) []string {
	return scanTables(readClauseRe, upperStmt)
}

func scanTables(re *regexp.Regexp, upperStmt string) []string {
	matches := re.FindAllStringSubmatch(upperStmt, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		t := strings.Trim(m[1], "`\"")
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
