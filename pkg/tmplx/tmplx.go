package tmplx

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

var (
	ErrParseTemplate  = errors.New("tmplx: parse error")
	ErrRenderTemplate = errors.New("tmplx: render error")
)

// Template wraps text/template with the helper functions prompt and message
// templates rely on. Missing keys render as zero values rather than failing.
type Template struct {
	tmpl *template.Template
}

type Options struct {
	validate ValidateFunc
	testData any
	funcs    template.FuncMap
}

type Option func(*Options) error

// ValidateFunc inspects a rendering of the template against test data.
type ValidateFunc func(*bytes.Buffer) error

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"quote":     quoteFunc,
		"default":   defaultFunc,
		"json":      jsonFunc,
		"jsonGet":   jsonGet,
		"hasSuffix": hasSuffix,
		"hasPrefix": hasPrefix,
	}
}

// WithTemplateFunc registers an extra function alongside the defaults.
func WithTemplateFunc(name string, fn any) Option {
	return func(o *Options) error {
		o.funcs[name] = fn
		return nil
	}
}

// WithValidate renders the template once with testData at parse time and
// rejects it when the validation fails. Useful for catching a broken prompt
// at startup instead of on the first request.
func WithValidate(testData any, validateFn ValidateFunc) Option {
	return func(o *Options) error {
		o.validate = validateFn
		o.testData = testData
		return nil
	}
}

func MustParse(name string, text string, opts ...Option) *Template {
	t, err := Parse(name, text, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func Parse(name string, text string, args ...Option) (*Template, error) {
	opts := &Options{
		funcs: defaultFuncs(),
	}
	for _, arg := range args {
		if err := arg(opts); err != nil {
			return nil, err
		}
	}

	tmpl, err := template.New(name).
		Option("missingkey=zero").
		Funcs(opts.funcs).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}

	t := &Template{tmpl: tmpl}
	if opts.validate != nil {
		buf := new(bytes.Buffer)
		if err := t.tmpl.Execute(buf, opts.testData); err != nil {
			return nil, fmt.Errorf("execute template: %w", err)
		}
		if err := opts.validate(buf); err != nil {
			return nil, fmt.Errorf("validate template: %w", err)
		}
	}
	return t, nil
}

func (t *Template) Render(data any) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderTemplate, err)
	}
	return buf, nil
}

// RenderString is Render for callers that want the text directly.
func (t *Template) RenderString(data any) (string, error) {
	buf, err := t.Render(data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func quoteFunc(s string) (string, error) {
	return jsonFunc(s)
}

func defaultFunc(def any, value any) any {
	if value != nil && value != "" {
		return value
	}
	return def
}

func jsonFunc(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func jsonGet(path string, raw string) string {
	return gjson.Get(raw, path).String()
}

func hasSuffix(a, b any) bool {
	return strings.HasSuffix(cast.ToString(a), cast.ToString(b))
}

func hasPrefix(a, b any) bool {
	return strings.HasPrefix(cast.ToString(a), cast.ToString(b))
}
