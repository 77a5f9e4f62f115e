package realtime

// 实时事件名
const (
	EventPresenceUpdate    = "presence:update"
	EventMessageNew        = "message:new"
	EventExerciseCompleted = "exercise:completed"
	EventExerciseReminder  = "exercise:reminder"
	EventContactAdded      = "contact:added"
	EventSupportReply      = "support:reply"
	EventPing              = "ping"
	EventPong              = "pong"
)

// Envelope 帧格式 {"event": ..., "payload": ...}
type Envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// PresenceUpdate 上下线广播
type PresenceUpdate struct {
	UserID uint `json:"userId"`
	Online bool `json:"online"`
}
