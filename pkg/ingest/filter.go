package ingest

// Filter holds the workspace identity allow-lists. It is built once at
// startup from config and passed by reference; all methods are pure
// predicates with no side effects.
type Filter struct {
	teamID   string
	appID    string
	channels map[string]struct{}
	agents   map[string]struct{}
}

// NewFilter builds a Filter from the configured identifiers.
func NewFilter(teamID, appID string, channelIDs, agentIDs []string) *Filter {
	f := &Filter{
		teamID:   teamID,
		appID:    appID,
		channels: make(map[string]struct{}, len(channelIDs)),
		agents:   make(map[string]struct{}, len(agentIDs)),
	}
	for _, c := range channelIDs {
		f.channels[c] = struct{}{}
	}
	for _, a := range agentIDs {
		f.agents[a] = struct{}{}
	}
	return f
}

// ValidTeam reports whether the event belongs to the configured workspace.
func (f *Filter) ValidTeam(teamID string) bool {
	return teamID != "" && teamID == f.teamID
}

// ValidApp reports whether the event was delivered for the configured app.
func (f *Filter) ValidApp(appID string) bool {
	return appID != "" && appID == f.appID
}

// ValidChannel reports whether the channel is on the allow-list.
func (f *Filter) ValidChannel(channelID string) bool {
	_, ok := f.channels[channelID]
	return ok
}

// IsAgent reports whether the user is a designated support-team member.
func (f *Filter) IsAgent(userID string) bool {
	_, ok := f.agents[userID]
	return ok
}

// NotAgent is the complement of IsAgent; replies from non-agents reopen
// closed issues.
func (f *Filter) NotAgent(userID string) bool {
	return !f.IsAgent(userID)
}

// Agents returns the configured agent ids. Used by the digest scheduler to
// address every support-team member.
func (f *Filter) Agents() []string {
	out := make([]string, 0, len(f.agents))
	for a := range f.agents {
		out = append(out, a)
	}
	return out
}
