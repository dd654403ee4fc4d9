package render

import (
	"fmt"

	"github.com/mdkit/mdreport/markdown"
)

// ResolveRepo picks the repository for a code block: the block's own
// repo wins over the document-level one.
func ResolveRepo(info markdown.CodeBlockInfo, meta *markdown.Metadata) string {
	if info.Repo != "" {
		return info.Repo
	}
	if meta != nil {
		return meta.Repo
	}
	return ""
}

// BuildGitHubURL links a code block to its source file on GitHub. The
// refspec defaults to main; a start line adds a line anchor. Returns ""
// when there is no repo or no filename to link.
func BuildGitHubURL(info markdown.CodeBlockInfo, repo string) string {
	if repo == "" || info.Filename == "" {
		return ""
	}
	refspec := info.Refspec
	if refspec == "" {
		refspec = "main"
	}
	url := fmt.Sprintf("https://github.com/%s/blob/%s/%s", repo, refspec, info.Filename)
	if info.StartLine > 0 {
		url += fmt.Sprintf("#L%d", info.StartLine)
	}
	return url
}
