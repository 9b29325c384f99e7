package changelog

import (
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/runenames"
)

// GlyphChange describes a single .glif file change between two tags.
type GlyphChange struct {
	Name       string
	Codepoint  rune
	HasUnicode bool
}

// UFODiff aggregates glyph changes for one UFO directory.
type UFODiff struct {
	Dir      string
	Added    []GlyphChange
	Modified []GlyphChange
	Removed  []GlyphChange
	OldCount int
	NewCount int
}

// glyphDiffs computes per-UFO glyph changes between two tags.
func (g *Generator) glyphDiffs(from, to *tagInfo) ([]UFODiff, error) {
	if len(g.ufoDirs) == 0 {
		return nil, nil
	}
	fromTree, err := from.commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("tree at %s: %w", from.name, err)
	}
	toTree, err := to.commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("tree at %s: %w", to.name, err)
	}

	changes, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, fmt.Errorf("diff %s..%s: %w", from.name, to.name, err)
	}

	diffs := make(map[string]*UFODiff, len(g.ufoDirs))
	for _, dir := range g.ufoDirs {
		diffs[dir] = &UFODiff{
			Dir:      dir,
			OldCount: countGlifs(fromTree, dir),
			NewCount: countGlifs(toTree, dir),
		}
	}

	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, err
		}
		changePath := change.To.Name
		if action == merkletrie.Delete {
			changePath = change.From.Name
		}
		dir, ok := glifOwner(changePath, g.ufoDirs)
		if !ok {
			continue
		}
		glyph := GlyphChange{Name: strings.TrimSuffix(path.Base(changePath), ".glif")}

		contentTree := toTree
		if action == merkletrie.Delete {
			contentTree = fromTree
		}
		if cp, ok := glifCodepoint(contentTree, changePath); ok {
			glyph.Codepoint = cp
			glyph.HasUnicode = true
		}

		diff := diffs[dir]
		switch action {
		case merkletrie.Insert:
			diff.Added = append(diff.Added, glyph)
		case merkletrie.Modify:
			diff.Modified = append(diff.Modified, glyph)
		case merkletrie.Delete:
			diff.Removed = append(diff.Removed, glyph)
		}
	}

	result := make([]UFODiff, 0, len(g.ufoDirs))
	for _, dir := range g.ufoDirs {
		diff := diffs[dir]
		for _, list := range [][]GlyphChange{diff.Added, diff.Modified, diff.Removed} {
			sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		}
		result = append(result, *diff)
	}
	return result, nil
}

// glifOwner matches a changed path against the configured UFO glyph dirs.
func glifOwner(changePath string, ufoDirs []string) (string, bool) {
	if !strings.HasSuffix(changePath, ".glif") {
		return "", false
	}
	for _, dir := range ufoDirs {
		if strings.HasPrefix(changePath, dir+"/glyphs/") {
			return dir, true
		}
	}
	return "", false
}

func countGlifs(tree *object.Tree, ufoDir string) int {
	prefix := ufoDir + "/glyphs/"
	count := 0
	iter := tree.Files()
	defer iter.Close()
	_ = iter.ForEach(func(f *object.File) error {
		if strings.HasPrefix(f.Name, prefix) && strings.HasSuffix(f.Name, ".glif") {
			count++
		}
		return nil
	})
	return count
}

// glifCodepoint extracts the first assigned codepoint from a glif file at
// the given tree.
func glifCodepoint(tree *object.Tree, filePath string) (rune, bool) {
	file, err := tree.File(filePath)
	if err != nil {
		return 0, false
	}
	content, err := file.Contents()
	if err != nil {
		return 0, false
	}
	return parseGlifUnicode(content)
}

// parseGlifUnicode scans glif XML for the first <unicode hex="..."/> element.
func parseGlifUnicode(content string) (rune, bool) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	for {
		token, err := decoder.Token()
		if err != nil {
			return 0, false
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "unicode" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local != "hex" {
				continue
			}
			value, err := strconv.ParseInt(attr.Value, 16, 32)
			if err != nil || value <= 0 {
				return 0, false
			}
			return rune(value), true
		}
	}
}

var countPrinter = message.NewPrinter(language.English)

func renderGlyphDiffs(diffs []UFODiff, maxGlyphs int) string {
	var b strings.Builder
	for _, diff := range diffs {
		if len(diff.Added) == 0 && len(diff.Modified) == 0 && len(diff.Removed) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n", displayName(diff.Dir))
		fmt.Fprintf(&b, "**Glyphs:** %s → %s (%+d)\n",
			countPrinter.Sprintf("%d", diff.OldCount),
			countPrinter.Sprintf("%d", diff.NewCount),
			diff.NewCount-diff.OldCount)

		writeGlyphSection(&b, "Added", diff.Added, maxGlyphs)
		writeGlyphSection(&b, "Modified", diff.Modified, maxGlyphs)
		writeGlyphSection(&b, "Removed", diff.Removed, maxGlyphs)
	}
	return b.String()
}

func writeGlyphSection(b *strings.Builder, label string, glyphs []GlyphChange, maxGlyphs int) {
	if len(glyphs) == 0 {
		return
	}
	fmt.Fprintf(b, "\n#### %s glyphs (%d)\n\n", label, len(glyphs))
	for i, glyph := range glyphs {
		if maxGlyphs > 0 && i >= maxGlyphs {
			fmt.Fprintf(b, "*... and %d more glyphs*\n", len(glyphs)-maxGlyphs)
			return
		}
		if glyph.HasUnicode {
			fmt.Fprintf(b, "- U+%04X %s (%s)\n", glyph.Codepoint, string(glyph.Codepoint), runenames.Name(glyph.Codepoint))
		} else {
			fmt.Fprintf(b, "- `%s`\n", glyph.Name)
		}
	}
}

// displayName turns "BabelStoneHanBasic.ttf.ufo" into "BabelStone Han Basic".
func displayName(ufoDir string) string {
	name := strings.TrimSuffix(ufoDir, ".ttf.ufo")
	return strings.ReplaceAll(name, "BabelStoneHan", "BabelStone Han ")
}
