// gracedump is a companion developer tool, not part of the compile
// pipeline: a bubbletea TUI that reads a Grace program snippet and renders
// either its AST, parsed through the wrapper layer in AST-only mode (§4.3),
// or, with --dump-symbols, the frame/symbol layout semantic analysis
// assigns to each function (that mode parses with full semantic checks) —
// the "AST-dump debugging" mode §4.3 calls out, given an interactive front
// end.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/ntua-el19005/gracec/ast"
	"github.com/ntua-el19005/gracec/code"
	"github.com/ntua-el19005/gracec/lexer"
	"github.com/ntua-el19005/gracec/parser"
)

const (
	prompt     = ">> "
	contPrompt = ".. "
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))
)

func main() {
	app := &cli.App{
		Name:  "gracedump",
		Usage: "interactively dump the annotated AST or symbol layout of a Grace snippet",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dump-symbols", Usage: "render each function's frame/symbol layout instead of its AST"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable styled output"},
		},
		Action: func(c *cli.Context) error {
			p := tea.NewProgram(initialModel(c.Bool("dump-symbols"), c.Bool("no-color")))
			if _, err := p.Run(); err != nil {
				return cli.Exit(fmt.Sprintf("running gracedump: %s", err), 1)
			}
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type historyEntry struct {
	input   string
	output  string
	isError bool
}

type model struct {
	textInput   textinput.Model
	history     []historyEntry
	multiline   string
	isMultiline bool
	dumpSymbols bool
	noColor     bool
}

func initialModel(dumpSymbols, noColor bool) model {
	ti := textinput.New()
	ti.Placeholder = "fun main(): nothing { ... }"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(prompt)

	return model{textInput: ti, dumpSymbols: dumpSymbols, noColor: noColor}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

// isBalanced reports whether brackets/braces/parens in input are balanced,
// used to decide whether to keep buffering multiline input before parsing.
func isBalanced(input string) bool {
	var stack []rune
	pairs := map[rune]rune{')': '(', '}': '{', ']': '['}
	for _, ch := range input {
		switch ch {
		case '(', '{', '[':
			stack = append(stack, ch)
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[ch] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}

func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.noColor {
		return text
	}
	return style.Render(text)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			input := m.textInput.Value()
			if input == "" {
				if m.isMultiline && m.multiline != "" {
					buf := m.multiline
					m.multiline, m.isMultiline = "", false
					m.textInput.SetValue("")
					m.history = append(m.history, m.evaluate(buf))
				}
				return m, nil
			}

			if m.isMultiline {
				m.multiline += "\n" + input
			} else {
				m.multiline = input
			}
			m.textInput.SetValue("")

			if isBalanced(m.multiline) {
				buf := m.multiline
				m.multiline, m.isMultiline = "", false
				m.history = append(m.history, m.evaluate(buf))
			} else {
				m.isMultiline = true
			}
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// evaluate lexes and parses src (no codegen) and renders either its AST or
// its frame/symbol layout, per m.dumpSymbols. The AST listing parses in
// AST-only mode; the symbol listing parses in full mode, because frame
// offsets and parent paths are only written by semantic analysis.
func (m model) evaluate(src string) historyEntry {
	l := lexer.New("<gracedump>", src)
	var p *parser.Parser
	if m.dumpSymbols {
		p = parser.New(l)
	} else {
		p = parser.NewASTOnly(l)
	}
	prog, err := p.ParseProgram()
	if err != nil {
		return historyEntry{input: src, output: err.Error(), isError: true}
	}

	if m.dumpSymbols {
		return historyEntry{input: src, output: symbolListing(prog.Main)}
	}
	return historyEntry{input: src, output: astListing(prog.Main)}
}

// astListing renders def's header, locals, and body via each node's own
// String(), recursing into nested function definitions inside a Listing so
// the output stays indentation-consistent with symbolListing's shape.
func astListing(def *ast.FunctionDef) string {
	l := code.NewListing()
	var walk func(d *ast.FunctionDef)
	walk = func(d *ast.FunctionDef) {
		l.Line("%s", d.Header.String())
		l.Indent(func() {
			for _, loc := range d.Locals {
				switch v := loc.(type) {
				case *ast.FunctionDef:
					walk(v)
				default:
					l.Line("%s", loc.String())
				}
			}
			l.Line("%s", d.Body.String())
		})
	}
	walk(def)
	return l.String()
}

// symbolListing renders the frame/symbol layout (--dump-symbols):
// parameter and local slots in frame-offset order, recursing into nested
// function definitions — reconstructed from the AST's own annotation
// fields rather than a new symtab-dump API, since the symbol table's
// contract (§4.1) only ever exposes point lookups (Lookup/LookupAll), not
// bulk enumeration.
func symbolListing(def *ast.FunctionDef) string {
	l := code.NewListing()
	var walk func(d *ast.FunctionDef)
	walk = func(d *ast.FunctionDef) {
		l.Line("function %s (qualified: %s)", d.Header.Id, strings.Join(d.FullyQualifiedPath(), "."))
		l.Indent(func() {
			for _, p := range d.Header.Params {
				l.Line("param %s : %s %s [offset %d]", p.Name, p.Type.String(), p.Mode.String(), p.FrameOffset)
			}
			for _, loc := range d.Locals {
				switch v := loc.(type) {
				case *ast.VarDef:
					for i, name := range v.Names {
						l.Line("local %s : %s [offset %d]", name, v.Type.String(), v.FrameOffsets[i])
					}
				case *ast.FunctionDef:
					walk(v)
				case *ast.FunctionDecl:
					l.Line("declared (forward) %s", v.Header.Id)
				}
			}
		})
	}
	walk(def)
	return l.String()
}

func (m model) View() string {
	var s strings.Builder
	s.WriteString(m.applyStyle(titleStyle, " gracedump: Grace AST/symbol explorer "))
	s.WriteString("\n\n")

	for _, entry := range m.history {
		lines := strings.Split(entry.input, "\n")
		for i, line := range lines {
			if i == 0 {
				s.WriteString(m.applyStyle(promptStyle, prompt))
			} else {
				s.WriteString(m.applyStyle(promptStyle, contPrompt))
			}
			s.WriteString(line)
			s.WriteString("\n")
		}
		if entry.isError {
			s.WriteString(m.applyStyle(errorStyle, entry.output))
		} else {
			s.WriteString(m.applyStyle(resultStyle, entry.output))
		}
		s.WriteString("\n")
	}

	if m.isMultiline {
		s.WriteString(m.applyStyle(historyStyle, contPrompt))
	}
	s.WriteString(m.textInput.View())
	s.WriteString("\n")
	return s.String()
}
