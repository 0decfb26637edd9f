package event

import (
	"encoding/json"
	"net/url"
	"strings"
)

const (
	conversationsPrefix = "/lol-chat/v1/conversations/"
	champSelectSuffix   = "lol-champ-select.pvp.net"

	joinedRoomBody = "joined_room"
	systemMsgType  = "system"
)

// ParseConversationURI reports whether uri names a champ-select lobby
// conversation and returns its id. Two shapes match: the conversation
// itself and one of its messages, for which message is true:
//
//	/lol-chat/v1/conversations/<id>
//	/lol-chat/v1/conversations/<id>/messages/<messageId>
//
// where <id> ends in the champ-select chat domain. The field is an untyped
// string, so this is a heuristic and never fails; it only declines.
func ParseConversationURI(uri string) (id string, message, ok bool) {
	rest, ok := strings.CutPrefix(uri, conversationsPrefix)
	if !ok || rest == "" {
		return "", false, false
	}

	id, sub, hasSub := strings.Cut(rest, "/")
	if hasSub {
		kind, msgID, _ := strings.Cut(sub, "/")
		if kind != "messages" || msgID == "" {
			return "", false, false
		}
	}

	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}
	if !strings.HasSuffix(id, champSelectSuffix) || id == champSelectSuffix {
		return "", false, false
	}
	return id, hasSub, true
}

type chatMessage struct {
	Body string `json:"body"`
	Type string `json:"type"`
}

// isJoinedRoom reports whether data is, or ends with, the system message
// posted when the local player joins the lobby chat.
func isJoinedRoom(data json.RawMessage) bool {
	var payload struct {
		chatMessage
		LastMessage *chatMessage `json:"lastMessage"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return false
	}
	if payload.chatMessage.isJoin() {
		return true
	}
	return payload.LastMessage != nil && payload.LastMessage.isJoin()
}

func (m chatMessage) isJoin() bool {
	return m.Type == systemMsgType && m.Body == joinedRoomBody
}
