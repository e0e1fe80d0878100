package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/dmitrymomot/langpack/pkg/logger"
)

// DefaultMaxFileSize is the size above which ScanFile skips a file. Bundled
// or generated files of that size are not translation sources.
const DefaultMaxFileSize = 1 << 20

// Scanner extracts translation markers from source files.
type Scanner struct {
	singular map[string]struct{}
	plural   map[string]struct{}
	maxSize  int64
	log      *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSingularMarkers replaces the singular marker identifiers (default "__").
func WithSingularMarkers(names ...string) Option {
	return func(s *Scanner) {
		s.singular = toSet(names)
	}
}

// WithPluralMarkers replaces the plural marker identifiers (default "__n").
func WithPluralMarkers(names ...string) Option {
	return func(s *Scanner) {
		s.plural = toSet(names)
	}
}

// WithMaxFileSize changes the skip threshold of ScanFile. Zero disables the
// check.
func WithMaxFileSize(n int64) Option {
	return func(s *Scanner) {
		s.maxSize = n
	}
}

// WithLogger sets the logger for skip warnings and per-file debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a scanner with the default marker identifiers.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		singular: toSet([]string{"__"}),
		plural:   toSet([]string{"__n"}),
		maxSize:  DefaultMaxFileSize,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan extracts markers from the given files, sorted by file and position.
// Files without a known grammar are skipped, oversized files are skipped
// with a warning; unreadable or unparsable files fail the scan.
func Scan(ctx context.Context, files []string, opts ...Option) ([]Marker, error) {
	return New(opts...).Scan(ctx, files)
}

// Scan extracts markers from the given files, sorted by file and position.
func (s *Scanner) Scan(ctx context.Context, files []string) ([]Marker, error) {
	var markers []Marker
	for _, file := range files {
		if _, ok := grammarFor(file); !ok {
			s.log.DebugContext(ctx, "skipping unsupported file", logger.Path(file))
			continue
		}
		found, err := s.ScanFile(ctx, file)
		if err != nil {
			return nil, err
		}
		markers = append(markers, found...)
	}
	sortMarkers(markers)
	return markers, nil
}

// ScanGlobs expands glob patterns and scans every match.
func (s *Scanner) ScanGlobs(ctx context.Context, patterns []string) ([]Marker, error) {
	files, err := expandGlobs(patterns)
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx, files)
}

func expandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad source pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	return files, nil
}

// ScanFile extracts markers from one file. Oversized files return no markers
// and a warning in the log.
func (s *Scanner) ScanFile(ctx context.Context, path string) ([]Marker, error) {
	skip, err := s.skipOversized(ctx, path)
	if err != nil {
		return nil, err
	}
	if skip {
		return nil, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return s.ScanSource(ctx, path, src)
}

// ScanSource extracts markers from in-memory source. The path picks the
// grammar and tags the resulting markers.
func (s *Scanner) ScanSource(ctx context.Context, path string, src []byte) ([]Marker, error) {
	grammar, ok := grammarFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, path)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	defer tree.Close()

	var markers []Marker
	s.walk(tree.RootNode(), path, src, &markers)
	s.log.DebugContext(ctx, "scanned file", logger.Path(path), logger.Count(len(markers)))
	return markers, nil
}

func (s *Scanner) skipOversized(ctx context.Context, path string) (bool, error) {
	if s.maxSize <= 0 {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("scan %s: %w", path, err)
	}
	if info.Size() > s.maxSize {
		s.log.WarnContext(ctx, "skipping oversized file",
			logger.Path(path), slog.Int64("size", info.Size()))
		return true, nil
	}
	return false, nil
}

func grammarFor(path string) (*sitter.Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage(), true
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage(), true
	case ".tsx":
		return tsx.GetLanguage(), true
	}
	return nil, false
}

func (s *Scanner) walk(node *sitter.Node, path string, src []byte, out *[]Marker) {
	if node.Type() == "call_expression" {
		if m, ok := s.markerFromCall(node, path, src); ok {
			*out = append(*out, m)
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		s.walk(node.NamedChild(i), path, src, out)
	}
}

func (s *Scanner) markerFromCall(node *sitter.Node, path string, src []byte) (Marker, bool) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return Marker{}, false
	}
	name, ok := calleeName(fn, src)
	if !ok {
		return Marker{}, false
	}
	_, isSingular := s.singular[name]
	_, isPlural := s.plural[name]
	if !isSingular && !isPlural {
		return Marker{}, false
	}

	m := Marker{
		File:      path,
		Line:      int(node.StartPoint().Row) + 1,
		Col:       int(node.StartPoint().Column) + 1,
		StartByte: int(node.StartByte()),
		EndByte:   int(node.EndByte()),
		Func:      nodeText(fn, src),
		Plural:    isPlural,
	}

	args := namedArgs(node)
	if isPlural {
		if len(args) < 3 {
			m.Dynamic = true
			m.Expr = argsText(node, src)
			return m, true
		}
		key, okKey := literalString(args[0], src)
		pluralKey, okPlural := literalString(args[1], src)
		if !okKey || !okPlural {
			m.Dynamic = true
			m.Expr = nodeText(args[0], src)
			return m, true
		}
		m.Key = key
		m.PluralKey = pluralKey
		m.CountExpr = nodeText(args[2], src)
		return m, true
	}

	if len(args) < 1 {
		m.Dynamic = true
		m.Expr = argsText(node, src)
		return m, true
	}
	key, okKey := literalString(args[0], src)
	if !okKey {
		m.Dynamic = true
		m.Expr = nodeText(args[0], src)
		return m, true
	}
	m.Key = key
	return m, true
}

// calleeName resolves the identifier a call dispatches on: the bare name for
// identifier callees, the property name for member expressions, so both
// __("x") and i18n.__("x") match a marker named "__".
func calleeName(fn *sitter.Node, src []byte) (string, bool) {
	switch fn.Type() {
	case "identifier":
		return nodeText(fn, src), true
	case "member_expression":
		prop := fn.ChildByFieldName("property")
		if prop != nil && prop.Type() == "property_identifier" {
			return nodeText(prop, src), true
		}
	}
	return "", false
}

func namedArgs(call *sitter.Node) []*sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, args.NamedChildCount())
	for i := 0; i < int(args.NamedChildCount()); i++ {
		out = append(out, args.NamedChild(i))
	}
	return out
}

// literalString cooks a plain string literal argument. Parenthesized
// expressions unwrap; template literals qualify only without substitutions.
func literalString(node *sitter.Node, src []byte) (string, bool) {
	for node.Type() == "parenthesized_expression" && node.NamedChildCount() == 1 {
		node = node.NamedChild(0)
	}
	switch node.Type() {
	case "string":
		s, err := UnquoteJS(nodeText(node, src))
		return s, err == nil
	case "template_string":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if node.NamedChild(i).Type() == "template_substitution" {
				return "", false
			}
		}
		s, err := UnquoteJS(nodeText(node, src))
		return s, err == nil
	}
	return "", false
}

func nodeText(n *sitter.Node, src []byte) string {
	return string(src[n.StartByte():n.EndByte()])
}

func argsText(call *sitter.Node, src []byte) string {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	return nodeText(args, src)
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		set[n] = struct{}{}
	}
	return set
}
