package testutil

import "sync"

// Delivery 一次推送
type Delivery struct {
	UserID  uint
	Event   string
	Payload interface{}
}

// RecordingRelay 记录所有推送，Online 中的用户视为在线
type RecordingRelay struct {
	mu         sync.Mutex
	Online     map[uint]bool
	deliveries []Delivery
}

// NewRecordingRelay 创建记录推送的 relay
func NewRecordingRelay(online ...uint) *RecordingRelay {
	r := &RecordingRelay{Online: make(map[uint]bool)}
	for _, id := range online {
		r.Online[id] = true
	}
	return r
}

// Deliver 记录推送
func (r *RecordingRelay) Deliver(userID uint, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, Delivery{UserID: userID, Event: event, Payload: payload})
}

// IsOnline 是否在线
func (r *RecordingRelay) IsOnline(userID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Online[userID]
}

// Deliveries 已记录的推送
func (r *RecordingRelay) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Delivery, len(r.deliveries))
	copy(out, r.deliveries)
	return out
}

// Events 指定事件的推送
func (r *RecordingRelay) Events(event string) []Delivery {
	var out []Delivery
	for _, d := range r.Deliveries() {
		if d.Event == event {
			out = append(out, d)
		}
	}
	return out
}
