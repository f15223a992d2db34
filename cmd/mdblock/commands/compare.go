package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/go-cmp/cmp"

	ferrors "git.home.luguber.info/inful/mdblock/internal/foundation/errors"
	"git.home.luguber.info/inful/mdblock/internal/logfields"
	"git.home.luguber.info/inful/mdblock/internal/markdown"
)

// CompareCmd implements the 'compare' command.
type CompareCmd struct {
	Paths []string `arg:"" name:"path" help:"Markdown files or directories to compare"`
	Quiet bool     `short:"q" help:"Only report mismatches"`
}

// Run tokenizes every file and compares the kinds of its top-level blocks
// with those goldmark produces. Any mismatch fails the command.
func (c *CompareCmd) Run(g *Global) error {
	files, err := collectMarkdown(c.Paths)
	if err != nil {
		return err
	}
	md, err := newMarkdown(g, nil, nil)
	if err != nil {
		return err
	}

	mismatches := 0
	for _, path := range files {
		diff, err := compareFile(md, path, g.Config.Parser.Frontmatter)
		if err != nil {
			return err
		}
		if diff == "" {
			if !c.Quiet {
				fmt.Fprintf(g.Out, "ok       %s\n", path)
			}
			continue
		}
		mismatches++
		fmt.Fprintf(g.Out, "mismatch %s (-mdblock +goldmark):\n%s", path, diff)
		g.Logger.LogAttrs(context.Background(), slog.LevelDebug, "Outline mismatch", logfields.Path(path))
	}

	if mismatches > 0 {
		return ferrors.ValidationError("block outlines differ from the reference parser").
			WithContext("files", len(files)).
			WithContext("mismatches", mismatches).
			Build()
	}
	return nil
}

// compareFile returns an empty string when both parsers agree on path.
func compareFile(md *markdown.Markdown, path string, stripFrontmatter bool) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", ferrors.FileSystemError("failed to read input file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	body := content
	if stripFrontmatter {
		body = markdown.SplitFrontmatter(content).Body
	}

	tokens, err := md.Parse(string(body), nil)
	if err != nil {
		return "", err
	}
	return cmp.Diff(markdown.Outline(tokens), markdown.ReferenceOutline(body)), nil
}
