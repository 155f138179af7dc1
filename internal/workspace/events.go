package workspace

import "github.com/KaramelBytes/classmate-cli/internal/pubsub"

// Workspace event types.
const (
	EventClassAdded      pubsub.EventType = "class_added"
	EventClassSelected   pubsub.EventType = "class_selected"
	EventDocumentAdded   pubsub.EventType = "document_added"
	EventDocumentRemoved pubsub.EventType = "document_removed"
	EventMessageAppended pubsub.EventType = "message_appended"
	EventHistoryCleared  pubsub.EventType = "history_cleared"
	EventChatStarted     pubsub.EventType = "chat_started"
	EventChatFinished    pubsub.EventType = "chat_finished"
	EventRestored        pubsub.EventType = "restored"
)

// Change is the payload of every workspace event. Only the fields relevant
// to the event type are set.
type Change struct {
	Class    string
	Document *Document
	Message  *ChatMessage
}
