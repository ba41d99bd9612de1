package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockrr/pkg/cli/internal/parse"
	"github.com/getmockd/mockrr/pkg/config"
	"github.com/getmockd/mockrr/pkg/resource"
)

// Input kinds accepted by --as.
const (
	asAuto = "auto"
	asFile = "file"
	asText = "text"
	asJSON = "json"
	asExpr = "expr"
)

// inputOptions are the flags shared by commands that build resources.
type inputOptions struct {
	as          string
	contentType string
	charset     string
	status      int
	headers     []string
}

func (o *inputOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.as, "as", asAuto, "How to read inputs: auto, file, text, json, expr")
	f.StringVarP(&o.contentType, "type", "t", "", "Content type of the resource")
	f.StringVar(&o.charset, "resource-charset", "", "Charset of the resource")
	f.IntVar(&o.status, "status", 0, "Response status of the resource")
	f.StringArrayVarP(&o.headers, "header", "H", nil, `Response header as "Name: value" (repeatable)`)
}

// input converts a command-line argument according to --as. In auto mode
// JSON objects and arrays are data and anything else is a file path when
// such a file exists, or text. "-" reads the argument from stdin.
func (o *inputOptions) input(cmd *cobra.Command, arg string) (any, error) {
	if arg == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		arg = string(b)
	}
	switch strings.ToLower(o.as) {
	case asAuto, "":
		if v, ok := parse.Structured(arg); ok {
			return v, nil
		}
		return arg, nil
	case asFile:
		return resource.File(arg), nil
	case asText:
		return resource.Text(arg), nil
	case asJSON:
		v := parse.JSON(arg)
		if s, ok := v.(string); ok && s == arg {
			return nil, fmt.Errorf("invalid JSON input %q", arg)
		}
		return v, nil
	case asExpr:
		return resource.ExprCallback(arg)
	default:
		return nil, fmt.Errorf("unknown --as %q, expected auto, file, text, json or expr", o.as)
	}
}

// seed turns input into a config.Seed carrying the resource flags.
func (o *inputOptions) seed(id string, input any) (config.Seed, error) {
	headers, err := parse.Headers(o.headers)
	if err != nil {
		return config.Seed{}, err
	}
	return config.Seed{
		ID:          id,
		Input:       input,
		ContentType: o.contentType,
		Charset:     o.charset,
		Status:      o.status,
		Headers:     headers,
	}, nil
}

// lazyInput returns the input to hand to Once or Sequence for s. Seeds that
// only carry an input pass it through; the rest become a callback that
// builds the resource with its own type, charset, status and headers, so
// nothing is generated on a cache hit.
func lazyInput(reg *resource.Registry, s config.Seed) any {
	if (s.ContentType == "" || s.ContentType == cfg.ContentType) &&
		(s.Charset == "" || s.Charset == cfg.Charset) &&
		s.Status == 0 && len(s.Headers) == 0 {
		return s.Input
	}
	return resource.Callback(func(resource.Vars, string, string) (any, error) {
		return buildSeed(reg, s)
	})
}

// buildSeed generates s right away.
func buildSeed(reg *resource.Registry, s config.Seed) (resource.Resource, error) {
	ct, cs := s.ContentType, s.Charset
	if ct == "" {
		ct = cfg.ContentType
	}
	if cs == "" {
		cs = cfg.Charset
	}
	res, _, err := reg.Generate(s.Input, ct, cs)
	if err != nil {
		return nil, err
	}
	if s.Status != 0 {
		res.SetStatus(s.Status)
	}
	for _, name := range slices.Sorted(maps.Keys(s.Headers)) {
		res.AddHeader(name, s.Headers[name])
	}
	return res, nil
}
