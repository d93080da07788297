package schedule

import "strings"

const virtualRoomMarker = "VR"

// FormatRoom turns a raw room token into a display label. Tokens containing
// "VR" are virtual rooms and are returned unchanged. Anything else becomes
// "Room <token>", keeping only the part before a slash ("301/B" -> "Room 301").
func FormatRoom(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, virtualRoomMarker) {
		return raw
	}
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = raw[:i]
	}
	return "Room " + raw
}

// roomKeyword reports whether tok opens a room reference and, for glued forms
// like "ROOM301", the raw room token carried inside it.
func roomKeyword(tok string) (glued string, ok bool) {
	for _, kw := range []string{"ROOM", "Room"} {
		if strings.HasPrefix(tok, kw) {
			return tok[len(kw):], true
		}
	}
	return "", false
}

// scanRoom reads a room reference starting at tokens[i]. It returns the raw
// room token and the index just past the reference.
//
//	ROOM 301 | Room 301 | ROOM301 | VR2 | VR 2
func scanRoom(tokens []string, i int) (raw string, next int, ok bool) {
	if i >= len(tokens) {
		return "", i, false
	}
	tok := tokens[i]

	if glued, isRoom := roomKeyword(tok); isRoom {
		if glued != "" {
			return glued, i + 1, true
		}
		if i+1 < len(tokens) {
			return tokens[i+1], i + 2, true
		}
		return "", i, false
	}

	if strings.HasPrefix(tok, virtualRoomMarker) {
		if tok != virtualRoomMarker {
			return tok, i + 1, true
		}
		if i+1 < len(tokens) {
			return virtualRoomMarker + " " + tokens[i+1], i + 2, true
		}
	}
	return "", i, false
}
