// Package homeview renders the per-user home surface from the list of
// open issues. Rendering is pure: the same issue list in the same order
// always produces the same document.
package homeview

import (
	"fmt"
	"strings"

	"keepnote/pkg/models"
)

// maxSnippetLen bounds the displayed first-message snippet.
const maxSnippetLen = 70

const introText = "This tool helps the support team make sure all questions, " +
	"bug reports, and feature requests are responded and resolved."

const howItWorksText = `
- An issue is ` + "`created`" + ` for new messages in the watched channels
- An issue is ` + "`closed`" + ` after a team member marks the thread :white_check_mark: or :heavy_check_mark:
- An issue is ` + "`re-opened`" + ` after a non-team member replies in the thread
`

// Render builds the home view document: an intro block, a static "how it
// works" block, and one entry per open issue separated by dividers (none
// after the last entry).
func Render(workspaceURL string, open []models.Issue) models.View {
	blocks := []models.Block{
		section(models.TextMarkdown, introText),
		header("How it works"),
		section(models.TextMarkdown, howItWorksText),
		header("Unresolved issues"),
	}
	for i, iss := range open {
		blocks = append(blocks,
			section(models.TextPlain, "\n"),
			section(models.TextMarkdown, fmt.Sprintf("\n<@%s> asked in <#%s>: `%s`",
				iss.UserID, iss.ChannelID, Snippet(iss.Text))),
			models.Block{
				Type: models.BlockContext,
				Elements: []models.Text{{
					Type: models.TextMarkdown,
					Text: fmt.Sprintf("<%s|View Thread> - Last replied by <@%s>",
						ThreadLink(workspaceURL, iss), iss.LastMessageUserID),
				}},
			},
			section(models.TextPlain, "\n"),
		)
		if i < len(open)-1 {
			blocks = append(blocks, models.Block{Type: models.BlockDivider})
		}
	}
	return models.View{
		Type:   "home",
		Title:  models.Text{Type: models.TextPlain, Text: "Keep note!"},
		Blocks: blocks,
	}
}

// Snippet collapses newlines and truncates the text to maxSnippetLen
// characters.
func Snippet(text string) string {
	s := strings.ReplaceAll(text, "\n", " ")
	r := []rune(s)
	if len(r) > maxSnippetLen {
		return string(r[:maxSnippetLen])
	}
	return s
}

// ThreadLink builds the deep link for an issue: the thread-starting
// message when there is no reply yet, otherwise the most recent reply
// anchored inside the thread.
func ThreadLink(workspaceURL string, iss models.Issue) string {
	base := strings.TrimSuffix(workspaceURL, "/")
	if iss.LastMessageID == iss.ThreadID {
		return fmt.Sprintf("%s/archives/%s/p%s", base, iss.ChannelID, permalinkTS(iss.ThreadID))
	}
	return fmt.Sprintf("%s/archives/%s/p%s?thread_ts=%s&cid=%s",
		base, iss.ChannelID, permalinkTS(iss.LastMessageID), iss.ThreadID, iss.ChannelID)
}

// permalinkTS strips the dot from a message timestamp for use in archive
// permalinks.
func permalinkTS(ts string) string {
	return strings.ReplaceAll(ts, ".", "")
}

func section(textType, text string) models.Block {
	return models.Block{Type: models.BlockSection, Text: &models.Text{Type: textType, Text: text}}
}

func header(text string) models.Block {
	return models.Block{Type: models.BlockHeader, Text: &models.Text{Type: models.TextPlain, Text: text}}
}
