package db

import (
	"fmt"
	"strings"
)

// TagFilter renders an exact TAG match: @field:{value}.
func TagFilter(field, value string) string {
	return fmt.Sprintf("@%s:{%s}", field, tagEscaper.Replace(value))
}

// TextMatch renders a full-text match restricted to one TEXT attribute.
// Returns MatchAll when text has no searchable terms.
func TextMatch(field, text string) string {
	terms := strings.Fields(text)
	if len(terms) == 0 {
		return MatchAll
	}
	for i, t := range terms {
		terms[i] = queryEscaper.Replace(t)
	}
	return fmt.Sprintf("@%s:(%s)", field, strings.Join(terms, " "))
}

// FuzzyMatch renders a full-text match where every term tolerates one edit
// (Levenshtein distance 1).
func FuzzyMatch(field, text string) string {
	terms := strings.Fields(text)
	if len(terms) == 0 {
		return MatchAll
	}
	for i, t := range terms {
		terms[i] = "%" + queryEscaper.Replace(t) + "%"
	}
	return fmt.Sprintf("@%s:(%s)", field, strings.Join(terms, " "))
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
	`.`, `\.`,
	`,`, `\,`,
)
