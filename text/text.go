package text

import (
	"strconv"
	"strings"

	"github.com/h-merrill/minnow/token"
)

const (
	VERSION = "0.1"
	PROMPT  = "→ "
)

var (
	RESET  = "\033[0m"
	RED    = "\033[31m"
	GREEN  = "\033[32m"
	YELLOW = "\033[33m"
	CYAN   = "\033[36m"
	ERROR  = Red("error") + ": "
	OK     = Green("ok")
)

func Emph(s string) string {
	return CYAN + "'" + s + "'" + RESET
}

func Red(s string) string {
	return RED + s + RESET
}

func Green(s string) string {
	return GREEN + s + RESET
}

func Yellow(s string) string {
	return YELLOW + s + RESET
}

func Logo() string {
	var padding string
	if len(VERSION)%2 == 0 {
		padding = ","
	}
	titleText := " Minnow" + padding + " version " + VERSION + " "
	bubble := Cyan("○")
	leftMargin := "  "
	bar := strings.Repeat("═", len(titleText)/2)
	return "\n" +
		leftMargin + "╔" + bar + bubble + bar + "╗\n" +
		leftMargin + "║" + titleText + "║\n" +
		leftMargin + "╚" + bar + bubble + bar + "╝\n\n"
}

func Cyan(s string) string {
	return CYAN + s + RESET
}

func ToEscapedText(s string) string {
	result := "\""
	for _, ch := range s {
		switch ch {
		case '\n':
			result = result + "\\n"
		case '\r':
			result = result + "\\r"
		case '\t':
			result = result + "\\t"
		default:
			result = result + string(ch)
		}
	}
	return result + "\""
}

func DescribePos(tok token.Token) string {
	result := " at line " + Yellow(strconv.Itoa(tok.Line)+":"+strconv.Itoa(tok.Column))
	prettySource := tok.Source
	if prettySource == "" {
		return result
	}
	if prettySource != "REPL input" {
		prettySource = Emph(prettySource)
	}
	return result + " of " + prettySource
}

// Underline renders a location the way the host sees it:
//
//	<filepath>:<line>:<col>:
//	<source line verbatim>
//	<spaces><tildes of length Length>
//
// The message is appended by the caller.
func Underline(loc token.Location, source string) string {
	lines := strings.Split(source, "\n")
	if loc.Line < 1 || loc.Line > len(lines) {
		return loc.Source + ":" + strconv.Itoa(loc.Line) + ":" + strconv.Itoa(loc.Column) + ":"
	}
	raw := lines[loc.Line-1]
	length := loc.Length
	if length < 1 {
		length = 1
	}
	underline := strings.Repeat(" ", loc.Column) + strings.Repeat("~", length)
	pos := loc.Source + ":" + strconv.Itoa(loc.Line) + ":" + strconv.Itoa(loc.Column) + ":"
	return pos + "\n" + raw + "\n" + underline
}
