package render

import (
	"fmt"
	"mysite/internal/domain/content"
	"strings"
)

const NoContent = "No content available for this item."

// section headings emitted once per document, before the first block of the type
var sectionHeadings = map[content.BlockType]string{
	content.BlockCode:  "## Code Example",
	content.BlockList:  "## List Items",
	content.BlockQuote: "## Quote",
	content.BlockTable: "## Table Data",
}

// Assemble produces the markdown document for e. MarkdownContent is returned
// untouched when set; otherwise the legacy blocks are stitched together, and
// an entity with neither gets a short placeholder.
func Assemble(e content.Entity) string {
	if strings.TrimSpace(e.MarkdownContent) != "" {
		return e.MarkdownContent
	}
	if len(e.ContentBlocks) > 0 {
		if doc := assembleBlocks(e.ContentBlocks); doc != "" {
			return doc
		}
	}
	return placeholder(e.Title, e.Description)
}

func assembleBlocks(blocks []content.Block) string {
	seen := make(map[content.BlockType]bool, len(sectionHeadings))
	parts := make([]string, 0, len(blocks))

	for _, b := range blocks {
		frag := blockFragment(b)
		if frag == "" {
			continue
		}
		if h, ok := sectionHeadings[b.Type]; ok && !seen[b.Type] {
			seen[b.Type] = true
			frag = h + "\n\n" + frag
		}
		parts = append(parts, frag)
	}
	return strings.Join(parts, "\n\n")
}

func blockFragment(b content.Block) string {
	switch b.Type {
	case content.BlockImage:
		if strings.TrimSpace(b.Content) == "" {
			return ""
		}
		alt := b.Alt()
		if alt == "" {
			alt = "Image"
		}
		return fmt.Sprintf("![%s](%s)", alt, b.Content)
	case content.BlockList:
		var lines []string
		for _, line := range strings.Split(b.Content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			lines = append(lines, "* "+line)
		}
		return strings.Join(lines, "\n")
	default:
		// text, heading, quote, code, tables and the explicit list types are
		// stored already formatted
		if strings.TrimSpace(b.Content) == "" {
			return ""
		}
		return b.Content
	}
}

// AssembleFeature builds the document for a feature page. Features with their
// own markdown use it; bare features fall back to the owning service's
// description.
func AssembleFeature(svc content.Service, f content.Feature) string {
	if content.HasContent(f) {
		return f.Content()
	}
	return placeholder(f.Title(), svc.Description)
}

func placeholder(title, description string) string {
	body := strings.TrimSpace(description)
	if body == "" {
		body = NoContent
	}
	return "## " + title + "\n" + body
}
