// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownOnce   sync.Once
	markdownParser goldmark.Markdown
)

func parser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownParser
}

// RenderMarkdown renders GFM source as styled terminal text wrapped to
// width. Colors are emitted for the given profile; termenv.Ascii yields
// plain text with the same layout. Soft line breaks become spaces so
// hard-wrapped source reflows at any width. Code spans render in the
// accent color, which is how the help sheet shows key names.
func RenderMarkdown(source string, theme Theme, width int, profile termenv.Profile) string {
	if source == "" {
		return ""
	}
	input := []byte(source)
	document := parser().Parser().Parse(text.NewReader(input))

	styles := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(profile))
	styles.SetColorProfile(profile)

	walker := &markdownWalker{
		source:  input,
		theme:   theme,
		width:   width,
		styles:  styles,
		profile: profile,
	}
	ast.Walk(document, walker.walk)
	return strings.TrimRight(walker.output.String(), "\n")
}

// markdownWalker accumulates inline content per block and flushes it
// word-wrapped when the block closes.
type markdownWalker struct {
	source  []byte
	theme   Theme
	width   int
	styles  *lipgloss.Renderer
	profile termenv.Profile

	output   strings.Builder
	trailing int // Newlines at the end of output.
	inline   strings.Builder

	indent        string
	indents       []int // Widths pushed onto indent by open list items.
	pendingBullet string

	bold, italic, strike int
	lists                []listLevel
}

type listLevel struct {
	ordered bool
	next    int
	tight   bool
}

func (walker *markdownWalker) style() lipgloss.Style {
	return walker.styles.NewStyle()
}

func (walker *markdownWalker) contentWidth() int {
	return max(walker.width-len(walker.indent), 10)
}

func (walker *markdownWalker) write(s string) {
	if s == "" {
		return
	}
	walker.output.WriteString(s)
	trimmed := strings.TrimRight(s, "\n")
	newlines := len(s) - len(trimmed)
	if trimmed == "" {
		walker.trailing += newlines
	} else {
		walker.trailing = newlines
	}
}

func (walker *markdownWalker) newline() {
	if walker.trailing < 1 {
		walker.write("\n")
	}
}

func (walker *markdownWalker) blankLine() {
	if walker.output.Len() == 0 {
		return
	}
	for walker.trailing < 2 {
		walker.write("\n")
	}
}

func (walker *markdownWalker) tight() bool {
	return len(walker.lists) > 0 && walker.lists[len(walker.lists)-1].tight
}

// prefix returns the indent for the next emitted line, consuming a
// pending list bullet if there is one.
func (walker *markdownWalker) prefix() string {
	if walker.pendingBullet != "" {
		bullet := walker.pendingBullet
		walker.pendingBullet = ""
		return bullet
	}
	return walker.indent
}

func (walker *markdownWalker) emitLines(content string) {
	for _, line := range strings.Split(content, "\n") {
		walker.write(walker.prefix() + line)
		walker.write("\n")
	}
}

func (walker *markdownWalker) flush() {
	content := walker.inline.String()
	walker.inline.Reset()
	if content == "" {
		return
	}
	walker.emitLines(ansi.Wrap(content, walker.contentWidth(), " ,.;-+|"))
	if !walker.tight() {
		walker.blankLine()
	}
}

func (walker *markdownWalker) styled(content string) string {
	style := walker.style().Foreground(walker.theme.NormalText)
	if walker.bold > 0 {
		style = style.Bold(true)
	}
	if walker.italic > 0 {
		style = style.Italic(true)
	}
	if walker.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

func (walker *markdownWalker) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			walker.inline.Reset()
		} else {
			walker.flush()
		}

	case ast.KindHeading:
		if entering {
			walker.inline.Reset()
			return ast.WalkContinue, nil
		}
		heading := node.(*ast.Heading)
		content := ansi.Strip(walker.inline.String())
		walker.inline.Reset()
		style := walker.style().Bold(true).Foreground(walker.theme.NormalText)
		if heading.Level <= 2 {
			style = style.Foreground(walker.theme.HeaderForeground)
		}
		walker.blankLine()
		walker.emitLines(ansi.Wrap(style.Render(content), walker.contentWidth(), " "))
		walker.blankLine()

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			walker.codeBlock(node)
		}
		return ast.WalkSkipChildren, nil

	case ast.KindList:
		list := node.(*ast.List)
		if entering {
			walker.lists = append(walker.lists, listLevel{ordered: list.IsOrdered(), next: list.Start, tight: list.IsTight})
		} else {
			walker.lists = walker.lists[:len(walker.lists)-1]
			walker.blankLine()
		}

	case ast.KindListItem:
		if entering {
			top := &walker.lists[len(walker.lists)-1]
			bullet := "• "
			if top.ordered {
				bullet = fmt.Sprintf("%d. ", top.next)
				top.next++
			}
			walker.pendingBullet = walker.indent + bullet
			walker.indents = append(walker.indents, ansi.StringWidth(bullet))
			walker.indent += strings.Repeat(" ", ansi.StringWidth(bullet))
		} else {
			width := walker.indents[len(walker.indents)-1]
			walker.indents = walker.indents[:len(walker.indents)-1]
			walker.indent = walker.indent[:len(walker.indent)-width]
			walker.newline()
		}

	case ast.KindThematicBreak:
		if entering {
			rule := walker.style().Foreground(walker.theme.BorderColor).Render(strings.Repeat("─", walker.contentWidth()))
			walker.blankLine()
			walker.emitLines(rule)
			walker.blankLine()
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			walker.inline.WriteString(walker.styled(string(textNode.Segment.Value(walker.source))))
			if textNode.HardLineBreak() {
				walker.inline.WriteString("\n")
			} else if textNode.SoftLineBreak() {
				walker.inline.WriteString(" ")
			}
		}

	case ast.KindString:
		if entering {
			walker.inline.WriteString(walker.styled(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		delta := -1
		if entering {
			delta = 1
		}
		if node.(*ast.Emphasis).Level >= 2 {
			walker.bold += delta
		} else {
			walker.italic += delta
		}

	case ast.KindCodeSpan:
		if entering {
			walker.inline.WriteString(walker.style().Foreground(walker.theme.Accent).Bold(true).Render(walker.plainText(node)))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindLink:
		if entering {
			link := node.(*ast.Link)
			walker.inline.WriteString(walker.styled(walker.plainText(node)))
			if destination := string(link.Destination); destination != "" {
				walker.inline.WriteString(" " + walker.style().Foreground(walker.theme.LinkForeground).Render("("+destination+")"))
			}
		}
		return ast.WalkSkipChildren, nil

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(walker.source))
			walker.inline.WriteString(walker.style().Foreground(walker.theme.LinkForeground).Render(url))
		}

	case extast.KindStrikethrough:
		if entering {
			walker.strike++
		} else {
			walker.strike--
		}

	case extast.KindTable:
		if entering {
			walker.table(node)
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

// plainText concatenates the raw text beneath node.
func (walker *markdownWalker) plainText(node ast.Node) string {
	var builder strings.Builder
	_ = ast.Walk(node, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch value := child.(type) {
		case *ast.Text:
			builder.Write(value.Segment.Value(walker.source))
		case *ast.String:
			builder.Write(value.Value)
		}
		return ast.WalkContinue, nil
	})
	return builder.String()
}

func (walker *markdownWalker) codeBlock(node ast.Node) {
	var code strings.Builder
	lines := node.Lines()
	for index := range lines.Len() {
		segment := lines.At(index)
		code.Write(segment.Value(walker.source))
	}
	language := ""
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		language = string(fenced.Language(walker.source))
	}
	walker.blankLine()
	walker.emitLines(strings.TrimRight(walker.highlight(code.String(), language), "\n"))
	walker.blankLine()
}

// highlight runs chroma over code when a language is given and the
// profile carries color. Anything else renders faint.
func (walker *markdownWalker) highlight(code, language string) string {
	faint := walker.style().Foreground(walker.theme.FaintText)
	if language == "" || walker.profile == termenv.Ascii {
		return faint.Render(code)
	}
	var buffer bytes.Buffer
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return faint.Render(code)
	}
	return buffer.String()
}

func (walker *markdownWalker) table(node ast.Node) {
	var rows [][]string
	for row := node.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, walker.plainText(cell))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return
	}

	columns := 0
	for _, row := range rows {
		columns = max(columns, len(row))
	}
	widths := make([]int, columns)
	for _, row := range rows {
		for index, cell := range row {
			widths[index] = max(widths[index], ansi.StringWidth(cell))
		}
	}

	header := walker.style().Bold(true).Foreground(walker.theme.HeaderForeground)
	body := walker.style().Foreground(walker.theme.NormalText)
	first := walker.style().Foreground(walker.theme.Accent)
	border := walker.style().Foreground(walker.theme.BorderColor)

	walker.blankLine()
	for rowIndex, row := range rows {
		parts := make([]string, columns)
		for index := range columns {
			cell := ""
			if index < len(row) {
				cell = row[index]
			}
			cell += strings.Repeat(" ", widths[index]-ansi.StringWidth(cell))
			switch {
			case rowIndex == 0:
				parts[index] = header.Render(cell)
			case index == 0:
				parts[index] = first.Render(cell)
			default:
				parts[index] = body.Render(cell)
			}
		}
		walker.emitLines(ansi.Truncate(strings.Join(parts, "  "), walker.contentWidth(), "…"))
		if rowIndex == 0 {
			rules := make([]string, columns)
			for index, width := range widths {
				rules[index] = strings.Repeat("─", width)
			}
			walker.emitLines(border.Render(strings.Join(rules, "  ")))
		}
	}
	walker.blankLine()
}
