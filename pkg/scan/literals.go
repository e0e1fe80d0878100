package scan

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Literal is a string literal or JSX text found outside any marker call.
type Literal struct {
	File string
	// Line and Col are 1-based.
	Line int
	Col  int
	// Text is the cooked literal value. Template literals keep their body
	// including substitution syntax, JSX text is whitespace-trimmed.
	Text string
}

// Literals collects literals outside marker calls from the given files, for
// linters hunting hardcoded copy. Files without a known grammar and oversized
// files are skipped the same way Scan skips them.
func (s *Scanner) Literals(ctx context.Context, files []string) ([]Literal, error) {
	var literals []Literal
	for _, file := range files {
		grammar, ok := grammarFor(file)
		if !ok {
			continue
		}
		skip, err := s.skipOversized(ctx, file)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", file, err)
		}
		parser := sitter.NewParser()
		parser.SetLanguage(grammar)
		tree, err := parser.ParseCtx(ctx, nil, src)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", file, err)
		}
		s.walkLiterals(tree.RootNode(), file, src, &literals)
		tree.Close()
	}
	sort.Slice(literals, func(i, j int) bool {
		a, b := literals[i], literals[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	return literals, nil
}

// LiteralGlobs expands glob patterns and collects literals from every match.
func (s *Scanner) LiteralGlobs(ctx context.Context, patterns []string) ([]Literal, error) {
	files, err := expandGlobs(patterns)
	if err != nil {
		return nil, err
	}
	return s.Literals(ctx, files)
}

// walkLiterals prunes marker calls and import statements; everything a
// marker call wraps is translated by definition.
func (s *Scanner) walkLiterals(node *sitter.Node, path string, src []byte, out *[]Literal) {
	switch node.Type() {
	case "import_statement":
		return
	case "call_expression":
		if fn := node.ChildByFieldName("function"); fn != nil {
			if name, ok := calleeName(fn, src); ok {
				if _, isMarker := s.singular[name]; isMarker {
					return
				}
				if _, isMarker := s.plural[name]; isMarker {
					return
				}
			}
		}
	case "string", "template_string":
		text, err := UnquoteJS(nodeText(node, src))
		if err != nil {
			text = strings.Trim(nodeText(node, src), "\"'`")
		}
		*out = append(*out, literalAt(node, path, text))
		return
	case "jsx_text":
		if text := strings.TrimSpace(nodeText(node, src)); text != "" {
			*out = append(*out, literalAt(node, path, text))
		}
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		s.walkLiterals(node.NamedChild(i), path, src, out)
	}
}

func literalAt(node *sitter.Node, path, text string) Literal {
	return Literal{
		File: path,
		Line: int(node.StartPoint().Row) + 1,
		Col:  int(node.StartPoint().Column) + 1,
		Text: text,
	}
}
