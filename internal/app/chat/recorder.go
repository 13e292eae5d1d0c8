package chat

// Recorder observes session outcomes for monitoring.
type Recorder interface {
	// SessionJoined counts a session that reached the streaming state.
	SessionJoined()

	// SessionRejected counts a session closed before joining, by close code.
	SessionRejected(closeCode int)

	// MessagePosted counts a stored and broadcast message.
	MessagePosted()

	// AssistantCall counts a call to the assistant; kind is "summarize" or "chat".
	AssistantCall(kind string, err error)
}

type nopRecorder struct{}

func (nopRecorder) SessionJoined()              {}
func (nopRecorder) SessionRejected(int)         {}
func (nopRecorder) MessagePosted()              {}
func (nopRecorder) AssistantCall(string, error) {}
