package lcu

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout = 3 * time.Second
	writeTimeout     = 10 * time.Second

	opSubscribe = 5
	eventPrefix = "OnJsonApiEvent"
)

// Topics is the fixed list of event endpoints the engine consumes.
var Topics = []string{
	"lol-gameflow_v1_session",
	"lol-matchmaking_v1_ready-check",
	"lol-lobby-team-builder_v1_matchmaking",
	"lol-champ-select_v1_session",
	"lol-lobby-team-builder_champ-select_v1_subset-champion-list",
	"lol-lobby-team-builder_champ-select_v1_current-champion",
	"lol-chat_v1_conversations",
}

// Stream is the client's event websocket.
type Stream struct {
	conn *websocket.Conn

	writeMu   sync.Mutex // serialises control frame writes
	closeOnce sync.Once
}

// Connect dials the event websocket and subscribes to each topic. A nil or
// empty topic list subscribes to every event the client emits.
func Connect(ctx context.Context, meta ConnectionMeta, topics []string) (*Stream, error) {
	dialer := websocket.Dialer{
		Proxy:            nil,
		TLSClientConfig:  insecureTLS(),
		HandshakeTimeout: handshakeTimeout,
	}

	header := http.Header{}
	header.Set("Authorization", "Basic "+basicAuth(authUser, meta.Token))
	header.Set("User-Agent", "lol-helper/"+Version)

	conn, resp, err := dialer.DialContext(ctx, "wss://"+meta.Addr(), header)
	if err != nil {
		if resp != nil {
			return nil, &ResponseError{Method: http.MethodGet, Path: "/", Status: resp.StatusCode, Body: err.Error()}
		}
		return nil, &TransportError{Method: http.MethodGet, Path: "/", Err: err}
	}

	s := &Stream{conn: conn}
	if len(topics) == 0 {
		topics = []string{""}
	}
	for _, topic := range topics {
		if err := s.Subscribe(topic); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Subscribe sends one subscription control frame. An empty topic subscribes
// to the unfiltered event feed.
func (s *Stream) Subscribe(topic string) error {
	data, err := subscribeFrame(topic)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return &ChannelError{Err: fmt.Errorf("subscribing %q: %w", topic, err)}
	}
	return nil
}

// ReadFrame blocks until the next text frame arrives. Any read failure is
// terminal for the stream and is reported as a ChannelError.
func (s *Stream) ReadFrame() ([]byte, error) {
	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			return nil, &ChannelError{Err: err}
		}
		if kind != websocket.TextMessage || len(data) == 0 {
			continue
		}
		return data, nil
	}
}

// Close sends a close frame and releases the connection. It is safe to call
// more than once and concurrently with ReadFrame.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}

func subscribeFrame(topic string) ([]byte, error) {
	name := eventPrefix
	if topic != "" {
		name += "_" + topic
	}
	return json.Marshal([]any{opSubscribe, name})
}

func basicAuth(user, pass string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}
