// Package diff parses GitHub unified diff text into a structured model of
// files, hunks, and line changes that the review pipeline consumes.
package diff

import (
	"path/filepath"
	"strings"
)

// ChangeType classifies a single line within a hunk.
type ChangeType string

const (
	Added   ChangeType = "added"
	Removed ChangeType = "removed"
	Context ChangeType = "context"
)

// LineChange is one line of a diff hunk. Number is the position in the new
// file for added and context lines, and the position in the old file for
// removed lines.
type LineChange struct {
	Content string     `json:"content"`
	Type    ChangeType `json:"change_type"`
	Number  int        `json:"line_number"`
}

// Hunk is a contiguous block of changes with its old/new range header.
type Hunk struct {
	OldStart int          `json:"old_start"`
	OldCount int          `json:"old_count"`
	NewStart int          `json:"new_start"`
	NewCount int          `json:"new_count"`
	Lines    []LineChange `json:"lines"`
}

// FileStatus describes how a file was changed.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusRemoved  FileStatus = "removed"
	StatusModified FileStatus = "modified"
	// StatusRenamed is part of the model but never produced by the parser;
	// rename detection is not implemented.
	StatusRenamed FileStatus = "renamed"
)

// FilePatch is one file's worth of changes from a unified diff. It is built
// once by Parse and treated as read-only by everything downstream.
type FilePatch struct {
	Filename  string     `json:"filename"`
	Status    FileStatus `json:"status"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Hunks     []Hunk     `json:"hunks"`
	Language  string     `json:"language,omitempty"`
}

// AddedLines returns the added lines of the patch across all hunks, in order.
func (f *FilePatch) AddedLines() []LineChange {
	var lines []LineChange
	for _, h := range f.Hunks {
		for _, l := range h.Lines {
			if l.Type == Added {
				lines = append(lines, l)
			}
		}
	}
	return lines
}

var languageByExt = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".java": "java",
	".rb":   "ruby",
	".rs":   "rust",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".php":  "php",
	".sh":   "shell",
	".sql":  "sql",
	".yml":  "yaml",
	".yaml": "yaml",
	".json": "json",
	".md":   "markdown",
}

// Language infers a language name from the filename extension. It returns an
// empty string for unknown extensions; the parser never calls this itself.
func Language(filename string) string {
	return languageByExt[strings.ToLower(filepath.Ext(filename))]
}
