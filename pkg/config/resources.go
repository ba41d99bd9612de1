package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/mockrr/pkg/resource"
)

// Seed is a resolved resource definition, ready to be generated and cached.
type Seed struct {
	ID          string
	Input       any
	ContentType string
	Charset     string
	Status      int
	Headers     map[string]string
}

// Seeds resolves every resource definition. Glob definitions expand to one
// seed per matched file, identified by the file's slash-separated path
// relative to the directory the definition came from, below the definition
// id when it has one.
func (c *Config) Seeds() ([]Seed, error) {
	var seeds []Seed
	for i, d := range c.Resources {
		s, err := d.seeds(c.ContentType, c.Charset)
		if err != nil {
			return nil, fmt.Errorf("resources[%d]: %w", i, err)
		}
		seeds = append(seeds, s...)
	}
	return seeds, nil
}

func (d ResourceDef) seeds(contentType, charset string) ([]Seed, error) {
	base := Seed{
		ID:          d.ID,
		ContentType: contentType,
		Charset:     charset,
		Status:      d.Status,
		Headers:     d.Headers,
	}
	if d.Type != "" {
		base.ContentType = d.Type
	}
	if d.Charset != "" {
		base.Charset = d.Charset
	}

	switch {
	case d.File != "":
		base.Input = resource.File(ResolvePath(d.baseDir, d.File))
	case d.Text != "":
		base.Input = resource.Text(d.Text)
	case d.Expr != "":
		cb, err := resource.ExprCallback(d.Expr)
		if err != nil {
			return nil, err
		}
		base.Input = cb
	case d.Data != nil:
		// Strings are payloads here, never file paths.
		if s, ok := d.Data.(string); ok {
			base.Input = resource.Text(s)
		} else {
			base.Input = d.Data
		}
	case d.Glob != "":
		return d.globSeeds(base)
	default:
		return nil, fmt.Errorf("resource %q has no input", d.ID)
	}
	return []Seed{base}, nil
}

func (d ResourceDef) globSeeds(base Seed) ([]Seed, error) {
	pattern := ResolvePath(d.baseDir, d.Glob)
	matches, err := expandGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob %q: %w", d.Glob, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("glob %q matched no files", d.Glob)
	}
	sort.Strings(matches)

	root := d.baseDir
	if root == "" {
		root = "."
	}
	seeds := make([]Seed, 0, len(matches))
	for _, match := range matches {
		rel, err := filepath.Rel(root, match)
		if err != nil {
			rel = match
		}
		id := filepath.ToSlash(rel)
		if d.ID != "" {
			id = path.Join(d.ID, id)
		}
		s := base
		s.ID = id
		s.Input = resource.File(match)
		seeds = append(seeds, s)
	}
	return seeds, nil
}

// expandGlob supports ** through doublestar and leaves simple patterns to
// filepath.Glob. Directories are skipped.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			files = append(files, m)
		}
	}
	return files, nil
}
