package markdown

import (
	"strconv"
	"strings"
)

// CodeBlockInfo is the parsed form of a fenced code block info string:
//
//	<file-or-language>[:<line>] [ @ <owner>/<repo>[#<refspec>] ]
//
// Zero values mean the field was absent.
type CodeBlockInfo struct {
	Language  string
	Filename  string
	StartLine int
	Repo      string
	Refspec   string
}

// ParseCodeBlockInfo interprets a code block info string. Parsing never
// fails: input without recognizable structure is a plain language
// identifier.
func ParseCodeBlockInfo(info string) CodeBlockInfo {
	var repo, refspec string
	filePart := info

	if at := strings.Index(info, " @ "); at >= 0 {
		filePart = info[:at]
		repoPart := info[at+3:]
		if hash := strings.IndexByte(repoPart, '#'); hash >= 0 {
			repo = repoPart[:hash]
			refspec = repoPart[hash+1:]
		} else {
			repo = repoPart
		}
	}

	// filename:line form; the suffix must be a plain integer
	if colon := strings.LastIndexByte(filePart, ':'); colon >= 0 {
		if line, err := strconv.Atoi(filePart[colon+1:]); err == nil && line >= 0 {
			filename := filePart[:colon]
			return CodeBlockInfo{
				Language:  extensionOf(filename),
				Filename:  filename,
				StartLine: line,
				Repo:      repo,
				Refspec:   refspec,
			}
		}
	}

	// bare filename without a line number
	if strings.ContainsAny(filePart, "/.") {
		return CodeBlockInfo{
			Language: extensionOf(filePart),
			Filename: filePart,
			Repo:     repo,
			Refspec:  refspec,
		}
	}

	return CodeBlockInfo{Language: info}
}

func extensionOf(filename string) string {
	if dot := strings.LastIndexByte(filename, '.'); dot >= 0 {
		return filename[dot+1:]
	}
	return ""
}
