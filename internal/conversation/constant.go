package conversation

const (
	LogPrefixUpdate = "internal.conversation.Update"
	LogPrefixRemove = "internal.conversation.Remove"
	LogPrefixCommit = "internal.conversation.Turn.Commit"
)
