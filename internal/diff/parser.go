package diff

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	fileHeaderRe = regexp.MustCompile(`a/(.+?)\s+b/(.+?)$`)
	hunkHeaderRe = regexp.MustCompile(`@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
)

// Parse converts unified diff text into an ordered list of FilePatch records.
// It never fails: malformed sections produce best-effort partial records and
// unrecognized lines are skipped. An empty or unparseable input yields an
// empty slice.
func Parse(diffText string) []FilePatch {
	var files []FilePatch
	var current *FilePatch

	flush := func() {
		if current != nil {
			files = append(files, *current)
			current = nil
		}
	}

	lines := strings.Split(diffText, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, "diff --git"):
			flush()
			filename := "unknown"
			if m := fileHeaderRe.FindStringSubmatch(line); m != nil {
				filename = m[2]
			}
			current = &FilePatch{Filename: filename, Status: StatusModified}

		case strings.HasPrefix(line, "new file"):
			if current != nil {
				current.Status = StatusAdded
			}

		case strings.HasPrefix(line, "deleted file"):
			if current != nil {
				current.Status = StatusRemoved
			}

		case strings.HasPrefix(line, "@@"):
			m := hunkHeaderRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			hunk := Hunk{
				OldStart: atoiDefault(m[1], 0),
				OldCount: atoiDefault(m[2], 1),
				NewStart: atoiDefault(m[3], 0),
				NewCount: atoiDefault(m[4], 1),
			}
			i = consumeHunk(lines, i, &hunk, current)
			if current != nil {
				current.Hunks = append(current.Hunks, hunk)
			}
		}
	}

	flush()
	return files
}

// consumeHunk reads hunk body lines starting after index i until the next
// hunk header or file header, appending classified lines to hunk. It returns
// the index of the last consumed line so the caller's loop lands on the next
// header. Two independent cursors track old and new file positions: context
// lines advance both, added lines only the new cursor, removed lines only
// the old cursor.
func consumeHunk(lines []string, i int, hunk *Hunk, file *FilePatch) int {
	oldCursor := hunk.OldStart
	newCursor := hunk.NewStart

	j := i + 1
	for ; j < len(lines); j++ {
		line := lines[j]
		if strings.HasPrefix(line, "@@") || strings.HasPrefix(line, "diff") {
			break
		}

		switch classify(line) {
		case Added:
			hunk.Lines = append(hunk.Lines, LineChange{Content: line[1:], Type: Added, Number: newCursor})
			newCursor++
			if file != nil {
				file.Additions++
			}
		case Removed:
			hunk.Lines = append(hunk.Lines, LineChange{Content: line[1:], Type: Removed, Number: oldCursor})
			oldCursor++
			if file != nil {
				file.Deletions++
			}
		case Context:
			hunk.Lines = append(hunk.Lines, LineChange{Content: line[1:], Type: Context, Number: newCursor})
			oldCursor++
			newCursor++
		}
	}

	return j - 1
}

// classify maps a raw hunk line to its change type. Lines matching none of
// the three prefixes (such as "\ No newline at end of file") return an empty
// type and are dropped by the caller.
func classify(line string) ChangeType {
	switch {
	case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
		return Added
	case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
		return Removed
	case strings.HasPrefix(line, " "):
		return Context
	}
	return ""
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
