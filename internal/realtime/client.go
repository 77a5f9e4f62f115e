package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

var (
	// ErrClientClosed 连接已关闭
	ErrClientClosed = errors.New("realtime: client closed")
	// ErrSendBufferFull 发送缓冲已满，事件被丢弃
	ErrSendBufferFull = errors.New("realtime: send buffer full")
)

// Client 一个 websocket 连接：一个读协程，一个写协程
type Client struct {
	UserID uint

	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

func newClient(userID uint, conn *websocket.Conn, logger *zap.Logger) *Client {
	return &Client{
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Emit 把事件放入发送缓冲，不阻塞
func (c *Client) Emit(event string, payload interface{}) error {
	data, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("dropping realtime event: send buffer full",
			zap.Uint("user_id", c.UserID), zap.String("event", event))
		return ErrSendBufferFull
	}
}

// Close 关闭连接，可重复调用
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// readPump 读取客户端帧直到连接断开。除 ping 外的帧全部忽略
func (c *Client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("realtime read error", zap.Uint("user_id", c.UserID), zap.Error(err))
			}
			return
		}

		var frame Envelope
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		if frame.Event == EventPing {
			_ = c.Emit(EventPong, frame.Payload)
		}
	}
}

// writePump 串行写出缓冲中的帧，并定时发送 websocket ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}
