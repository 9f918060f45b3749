package compile

import (
	"regexp"
	"strings"
)

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// QuoteLiteral returns a sql string literal with embedded quotes doubled.
func QuoteLiteral(val string) string {
	return "'" + strings.ReplaceAll(val, "'", "''") + "'"
}

// QuoteIdent returns name bare when it is a plain, unreserved identifier, double quoted otherwise.
func QuoteIdent(name string) string {

	if plainIdent.MatchString(name) && !reserved[strings.ToUpper(name)] {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteQualified quotes each dot separated part of a name such as schema.table.
func QuoteQualified(name string) string {

	parts := SplitQualified(name)
	for i, part := range parts {
		parts[i] = QuoteIdent(part)
	}
	return strings.Join(parts, ".")
}

// SplitQualified splits a qualified name on dots.
// Dots inside double quotes belong to the part, and a quoted part is unquoted.
func SplitQualified(name string) (parts []string) {

	var sb strings.Builder
	quoted := false

	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '"' && quoted && i+1 < len(name) && name[i+1] == '"':
			sb.WriteByte('"')
			i++
		case c == '"':
			quoted = !quoted
		case c == '.' && !quoted:
			parts = append(parts, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(c)
		}
	}
	parts = append(parts, sb.String())
	return
}

// reserved is a short list of keywords common to the supported dialects.
var reserved = map[string]bool{}

func init() {
	for _, word := range strings.Fields(`
		SELECT FROM WHERE AND OR NOT NULL TRUE FALSE
		INSERT UPDATE DELETE CREATE DROP ALTER TABLE INDEX VIEW
		JOIN LEFT RIGHT INNER OUTER ON AS IN IS LIKE
		BETWEEN EXISTS CASE WHEN THEN ELSE END ORDER BY
		GROUP HAVING LIMIT OFFSET UNION EXCEPT INTERSECT WITH
		ALL DISTINCT VALUES SET INTO PRIMARY KEY FOREIGN
		REFERENCES CONSTRAINT DEFAULT CHECK UNIQUE ASC DESC
		CAST INTERVAL`) {
		reserved[word] = true
	}
}

// SchemaTable returns the schema and table of a qualified name, ignoring any leading catalog.
// Schema is empty for an unqualified name.
func SchemaTable(name string) (schema, table string) {

	parts := SplitQualified(name)
	table = parts[len(parts)-1]
	if len(parts) > 1 {
		schema = parts[len(parts)-2]
	}
	return
}
