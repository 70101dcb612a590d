package checker

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Violation records one break of the reverse-Christmas-tree ordering:
// the current declaration is longer than the one retained from the
// run above it. Line is the scanner's counter at the current line; the
// reporter prints Line-1, which names the retained declaration's line
// in plain files and the flagged line's post-patch position in diffs.
type Violation struct {
	Prev string
	Curr string
	Line int
}

// Matches the range part of a unified-diff hunk header and captures
// the new-file start offset.
var hunkLocationRe = regexp.MustCompile(`-\d+,\d+ \+(\d+),\d+`)

type retainedDecl struct {
	text  string
	added bool
}

// Scanner is the per-input state machine. It consumes one physical
// line at a time, tracks whether the cursor sits inside a function or
// a struct/union/enum body, and emits a Violation when a declaration
// run breaks the non-increasing-length ordering. A Scanner is owned by
// exactly one scan; create a fresh one per input.
type Scanner struct {
	keywords *KeywordSet

	line       int
	isDiff     bool
	inComment  bool
	inFunction string // hunk context or opening-brace line, "" when outside
	inStruct   string
	lastDecl   *retainedDecl
}

func NewScanner(keywords *KeywordSet) *Scanner {
	if keywords == nil {
		keywords = NewKeywordSet()
	}
	return &Scanner{keywords: keywords}
}

// Line returns the current line counter.
func (s *Scanner) Line() int { return s.line }

// InFunction reports whether the cursor is inside a function body.
func (s *Scanner) InFunction() bool { return s.inFunction != "" }

// IsDiff reports whether a hunk header has been seen on this input.
func (s *Scanner) IsDiff() bool { return s.isDiff }

// Feed advances the state machine by one physical line and returns a
// Violation when this line breaks the ordering invariant, nil
// otherwise. Lines may carry unified-diff markers; the first hunk
// header switches the scanner into diff mode permanently.
func (s *Scanner) Feed(line string) *Violation {
	s.line++

	// Hunk headers re-seed the line counter from the new-file offset
	// and classify the trailing context text: a ':' or '(' means we
	// re-enter a function body, a struct/enum/union keyword a
	// struct-like body. An unparseable range leaves the counter alone.
	if strings.HasPrefix(line, "@@") {
		s.isDiff = true
		location, context, _ := strings.Cut(line[2:], "@@")
		if m := hunkLocationRe.FindStringSubmatch(location); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				s.line = n
			}
		}
		s.inComment = false
		s.inFunction = ""
		s.inStruct = ""
		s.lastDecl = nil
		trimmed := strings.TrimSpace(context)
		if strings.ContainsAny(context, ":(") {
			s.inFunction = trimmed
		} else if strings.Contains(context, "struct") ||
			strings.Contains(context, "enum") ||
			strings.Contains(context, "union") {
			s.inStruct = trimmed
		}
		return nil
	}

	// Removed lines never exist in the post-patch file: freeze the
	// counter and ignore everything else about them.
	if strings.HasPrefix(line, "-") {
		s.line--
		return nil
	}

	// Diff added/context markers are one leading character. Plain
	// source is never indented by a single space, so stripping it
	// unconditionally is safe for both input kinds.
	added := false
	if strings.HasPrefix(line, "+") || strings.HasPrefix(line, " ") {
		added = line[0] == '+'
		line = line[1:]
	}

	// Block comments, tracked by open/close counts per line. A line
	// that only opens enters comment state and is itself skipped; a
	// line that closes leaves comment state but contributes nothing.
	opens := strings.Count(line, "/*")
	closes := strings.Count(line, "*/")
	if opens > closes {
		s.inComment = true
	}
	if closes > opens {
		s.inComment = false
	}
	if s.inComment {
		return nil
	}
	if strings.HasPrefix(strings.TrimSpace(line), "/*") {
		// Assume the whole line is a comment.
		return nil
	}

	if strings.HasPrefix(line, "#") {
		return nil
	}

	// An unindented closing brace ends whatever block was open.
	if strings.HasPrefix(line, "}") {
		s.inStruct = ""
		s.inFunction = ""
		s.inComment = false
	}

	// Without at least one tab of indentation we cannot be inside a
	// function or struct body; look for a start-of-block instead. A
	// bare '{' must open a function, since structs keep their brace
	// at the end of the line.
	if !strings.HasPrefix(line, "\t") {
		s.inFunction = ""
		s.inStruct = ""
		if strings.HasPrefix(line, "{") {
			s.inFunction = strings.TrimSpace(line)
			s.lastDecl = nil
		} else if strings.Contains(line, "{") {
			// Either a struct definition or a static struct
			// variable. Probably.
			s.inStruct = strings.TrimSpace(line)
		}
		return nil
	}

	trimmed := strings.TrimSpace(line)

	if s.keywords.IsDecl(trimmed) && s.inFunction != "" {
		var viol *Violation
		// In a diff, only flag pairs where at least one side is part
		// of the change under review; inversions entirely between
		// pre-existing context lines are not this patch's fault.
		if s.lastDecl != nil && (added || s.lastDecl.added || !s.isDiff) {
			if utf8.RuneCountInString(trimmed) > utf8.RuneCountInString(s.lastDecl.text) {
				viol = &Violation{Prev: s.lastDecl.text, Curr: trimmed, Line: s.line}
			}
		}
		s.lastDecl = &retainedDecl{text: trimmed, added: added}
		return viol
	}

	if trimmed != "" {
		// A non-declaration statement ends the run. Blank lines are
		// inert and keep the run alive.
		s.lastDecl = nil
	}
	return nil
}

// Scan feeds every line of r through the state machine and collects
// the violations in input order.
func (s *Scanner) Scan(r io.Reader) ([]Violation, error) {
	var viols []Violation

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if v := s.Feed(sc.Text()); v != nil {
			viols = append(viols, *v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return viols, nil
}
