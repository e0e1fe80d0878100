package scan

import "sort"

// Marker is one translation call site in a source file. Byte offsets cover
// the whole call expression including the callee and closing parenthesis.
type Marker struct {
	File      string
	Line      int
	Col       int
	StartByte int
	EndByte   int
	// Func is the callee as written, e.g. "__" or "i18n.__n".
	Func string
	// Key is the cooked value of the message argument. Empty for Dynamic
	// markers.
	Key string
	// PluralKey is the cooked plural form of plural markers.
	PluralKey string
	// CountExpr is the raw source text of the count argument of plural
	// markers.
	CountExpr string
	// Plural marks calls through a plural marker identifier.
	Plural bool
	// Dynamic marks markers whose message argument is not a plain string
	// literal. Expr holds the offending argument source.
	Dynamic bool
	Expr    string
}

// sortMarkers orders markers by file, then by position within the file.
func sortMarkers(markers []Marker) {
	sort.Slice(markers, func(i, j int) bool {
		if markers[i].File != markers[j].File {
			return markers[i].File < markers[j].File
		}
		return markers[i].StartByte < markers[j].StartByte
	})
}
