// Package preset loads named option templates written in the template DSL.
package preset

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/text2pdf/convert"
	"github.com/ByLCY/text2pdf/dsl"
)

//go:embed templates.papyrus
var builtin []byte

// Template is a named set of default options.
type Template struct {
	ID      string          `json:"id"`
	Label   string          `json:"label"`
	Options convert.Options `json:"options"`
}

// Set is an ordered, immutable collection of templates.
type Set struct {
	list []Template
	byID map[string]int
}

// Default returns the built-in templates.
func Default() *Set {
	set, err := Parse("templates.papyrus", builtin)
	if err != nil {
		panic(fmt.Sprintf("内置模板无效: %v", err))
	}
	return set
}

// Load reads templates from a file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取模板文件失败: %w", err)
	}
	return Parse(path, data)
}

// Parse compiles template source into a Set.
func Parse(filename string, src []byte) (*Set, error) {
	file, err := dsl.Parse(filename, bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("解析模板失败: %w", err)
	}
	set := &Set{byID: make(map[string]int, len(file.Templates))}
	for _, tpl := range file.Templates {
		if _, dup := set.byID[tpl.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate template %q", tpl.Pos, tpl.ID)
		}
		opts, err := compile(tpl)
		if err != nil {
			return nil, err
		}
		if err := opts.Validate(); err != nil {
			return nil, fmt.Errorf("%s: template %q: %w", tpl.Pos, tpl.ID, err)
		}
		set.byID[tpl.ID] = len(set.list)
		set.list = append(set.list, Template{ID: tpl.ID, Label: string(tpl.Label), Options: opts})
	}
	return set, nil
}

// Lookup returns the template with the given id.
func (s *Set) Lookup(id string) (Template, bool) {
	if s == nil {
		return Template{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Template{}, false
	}
	return s.list[i], true
}

// List returns templates in declaration order.
func (s *Set) List() []Template {
	if s == nil {
		return nil
	}
	return append([]Template(nil), s.list...)
}

// Resolve merges the template named id under opts. An empty id returns opts
// unchanged.
func (s *Set) Resolve(id string, opts convert.Options) (convert.Options, error) {
	if id == "" {
		return opts, nil
	}
	tpl, ok := s.Lookup(id)
	if !ok {
		return opts, fmt.Errorf("%w: %q", convert.ErrUnknownTemplate, id)
	}
	return tpl.Options.Merge(opts), nil
}

func compile(tpl *dsl.Template) (convert.Options, error) {
	var opts convert.Options
	seen := map[string]lexer.Position{}
	for _, e := range tpl.Entries {
		if prev, dup := seen[e.Key]; dup {
			return opts, fmt.Errorf("%s: %q already set at line %d", e.Pos, e.Key, prev.Line)
		}
		seen[e.Key] = e.Pos
		if err := assign(&opts, e); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func assign(opts *convert.Options, e *dsl.Entry) error {
	switch e.Key {
	case "pageSize":
		return setText(&opts.PageSize, e)
	case "orientation":
		return setText(&opts.Orientation, e)
	case "fontFamily":
		return setText(&opts.FontFamily, e)
	case "marginPreset":
		return setText(&opts.MarginPreset, e)
	case "headerTitle":
		return setText(&opts.HeaderTitle, e)
	case "fontSize":
		return setNumber(&opts.FontSize, e)
	case "lineSpacing":
		return setNumber(&opts.LineSpacing, e)
	case "showPageNumbers":
		if e.Value.Bool == nil {
			return typeErr(e, "bool")
		}
		opts.ShowPageNumbers = convert.Bool(bool(*e.Value.Bool))
		return nil
	default:
		return fmt.Errorf("%s: unknown option %q", e.Pos, e.Key)
	}
}

func setText(dst *string, e *dsl.Entry) error {
	v, ok := e.Value.Text()
	if !ok {
		return typeErr(e, "string")
	}
	*dst = v
	return nil
}

func setNumber(dst **float64, e *dsl.Entry) error {
	if e.Value.Number == nil {
		return typeErr(e, "number")
	}
	*dst = convert.Float(*e.Value.Number)
	return nil
}

func typeErr(e *dsl.Entry, want string) error {
	return fmt.Errorf("%s: %s must be a %s, got %s", e.Value.Pos, e.Key, want, e.Value.Kind())
}
