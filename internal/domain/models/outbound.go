package models

// ReportNotification is the payload posted to the report webhook.
type ReportNotification struct {
	ReportID string `json:"report_id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

// CommandRequest carries one line of text for the command dispatcher.
type CommandRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommandReply is the dispatcher's human-readable answer.
type CommandReply struct {
	Command string `json:"command"`
	Message string `json:"message"`
}

// QueueItemRequest adds one label to the bounded queue.
type QueueItemRequest struct {
	Item string `json:"item" binding:"required"`
}

// QueueState is a point-in-time view of the bounded queue.
type QueueState struct {
	Items    []string `json:"items"`
	Len      int      `json:"len"`
	Capacity int      `json:"capacity"`
	Paused   bool     `json:"paused"`
}
