package batch

import (
	"strings"
	"unicode"

	"github.com/jgwest/htmldiff-cli/model"
)

type RowKind int

const (
	// KindRow is a well-formed comparison row.
	KindRow RowKind = iota
	// KindSkip is a comment or blank line.
	KindSkip
	// KindMalformed is a non-comment line that does not parse into six
	// non-empty fields.
	KindMalformed
)

const rowFieldCount = 6

// ParseRow parses one line of a batch description file into a comparison
// row. Field order: sourceLocator1, fetchId1, sourceLocator2, fetchId2,
// outputLocator, publishId.
//
// Fields are split on bare commas. Quoting and escaping are not supported:
// a literal comma inside a field is indistinguishable from a field
// separator. This limitation is part of the accepted input shape of
// existing batch files, not something to silently fix.
func ParseRow(line string) (model.ComparisonRow, RowKind) {

	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return model.ComparisonRow{}, KindSkip
	}

	// A line that is empty once whitespace and non-printable characters are
	// stripped carries no record.
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, line)

	if stripped == "" {
		return model.ComparisonRow{}, KindSkip
	}

	fields := strings.Split(line, ",")
	if len(fields) != rowFieldCount {
		return model.ComparisonRow{}, KindMalformed
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
		if fields[i] == "" {
			return model.ComparisonRow{}, KindMalformed
		}
	}

	return model.ComparisonRow{
		SourceLocator1: fields[0],
		FetchID1:       fields[1],
		SourceLocator2: fields[2],
		FetchID2:       fields[3],
		OutputLocator:  fields[4],
		PublishID:      fields[5],
	}, KindRow
}
