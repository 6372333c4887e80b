package models

// Block text types understood by the platform's view renderer.
const (
	TextMarkdown = "mrkdwn"
	TextPlain    = "plain_text"

	BlockSection = "section"
	BlockHeader  = "header"
	BlockContext = "context"
	BlockDivider = "divider"
)

// Text is a typed text fragment inside a block.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block is one layout element of a view document.
type Block struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text,omitempty"`
	Elements []Text `json:"elements,omitempty"`
}

// View is the home-surface presentation document published back to the
// platform for a single user.
type View struct {
	Type   string  `json:"type"`
	Title  Text    `json:"title"`
	Blocks []Block `json:"blocks"`
}
