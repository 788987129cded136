package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func esc(value string) string {
	return templ.EscapeString(value)
}

// PlayPath is the participant page of a room, the target of join links.
func PlayPath(family, roomID string) string {
	return "/play/" + url.PathEscape(family) + "/" + url.PathEscape(roomID)
}

func JoinURL(publicURL, family, roomID string) string {
	return strings.TrimRight(publicURL, "/") + PlayPath(family, roomID)
}

func qrPath(family, roomID string) string {
	return "/api/rooms/" + url.PathEscape(family) + "/" + url.PathEscape(roomID) + "/qr.png"
}
