package ingest

import "keepnote/pkg/models"

// Action identifies the lifecycle transition an envelope maps to.
type Action int

const (
	ActionIgnore Action = iota
	ActionOpenHome
	ActionClose
	ActionReopen
	ActionCreate
	ActionReply
)

// String returns the action name used in logs and metric labels.
func (a Action) String() string {
	switch a {
	case ActionOpenHome:
		return "open_home"
	case ActionClose:
		return "close"
	case ActionReopen:
		return "reopen"
	case ActionCreate:
		return "create"
	case ActionReply:
		return "reply"
	default:
		return "ignore"
	}
}

// checkMarks are the reaction symbols that agents use to resolve a thread.
var checkMarks = map[string]struct{}{
	"white_check_mark": {},
	"heavy_check_mark": {},
}

// Classification is the tagged result of classifying one envelope: which
// transition to apply plus the coordinates that transition needs.
type Classification struct {
	Action    Action
	ChannelID string
	ThreadID  string
	UserID    string
	MessageID string
	Text      string
	// Reopen is set on ActionReply when the replier is not an agent; the
	// reply then also reopens the issue, unconditionally of its current
	// status.
	Reopen bool
}

// Classify maps an event to exactly one transition or ignore. The rules
// are mutually exclusive by construction; they are evaluated in the listed
// order for clarity. Workspace/app validation is the caller's concern.
func Classify(ev models.Event, f *Filter) Classification {
	switch {
	case ev.Type == "app_home_opened":
		if !f.IsAgent(ev.User) {
			return Classification{Action: ActionIgnore}
		}
		return Classification{Action: ActionOpenHome, UserID: ev.User}

	case ev.Type == "reaction_added" && ev.Item.Type == "message" && isCheckMark(ev.Reaction):
		if !f.ValidChannel(ev.Item.Channel) || !f.IsAgent(ev.User) {
			return Classification{Action: ActionIgnore}
		}
		return Classification{
			Action:    ActionClose,
			ChannelID: ev.Item.Channel,
			ThreadID:  ev.Item.TS,
			UserID:    ev.User,
		}

	case ev.Type == "reaction_removed" && ev.Item.Type == "message" && isCheckMark(ev.Reaction):
		if !f.ValidChannel(ev.Item.Channel) || !f.IsAgent(ev.User) {
			return Classification{Action: ActionIgnore}
		}
		return Classification{
			Action:    ActionReopen,
			ChannelID: ev.Item.Channel,
			ThreadID:  ev.Item.TS,
			UserID:    ev.User,
		}

	case ev.Type == "message" && ev.ChannelType == "channel" && ev.Subtype == "" && ev.ThreadTS == "":
		if !f.ValidChannel(ev.Channel) {
			return Classification{Action: ActionIgnore}
		}
		return Classification{
			Action:    ActionCreate,
			ChannelID: ev.Channel,
			ThreadID:  ev.TS,
			UserID:    ev.User,
			MessageID: ev.TS,
			Text:      ev.Text,
		}

	case ev.Type == "message" && ev.ChannelType == "channel" && ev.Subtype == "" && ev.ThreadTS != "":
		if !f.ValidChannel(ev.Channel) {
			return Classification{Action: ActionIgnore}
		}
		return Classification{
			Action:    ActionReply,
			ChannelID: ev.Channel,
			ThreadID:  ev.ThreadTS,
			UserID:    ev.User,
			MessageID: ev.TS,
			Reopen:    f.NotAgent(ev.User),
		}
	}
	return Classification{Action: ActionIgnore}
}

func isCheckMark(reaction string) bool {
	_, ok := checkMarks[reaction]
	return ok
}
