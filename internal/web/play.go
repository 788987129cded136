package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Play is the bare participant page a join link opens. It joins the room
// over the websocket and prints every state update it receives.
func Play(family, roomID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		gameSelect := ""
		if family == "team" {
			gameSelect = `
        <select name="gameType">
          <option value="buzzer_trivia">Buzzer trivia</option>
          <option value="grid_reveal">Grid reveal</option>
          <option value="cooperative_timer">Cooperative timer</option>
        </select>`
		}
		if _, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Join `+esc(roomID)+`</title>
  </head>
  <body>
    <main id="play" data-family="`+esc(family)+`" data-room="`+esc(roomID)+`">
      <h1>Room `+esc(roomID)+`</h1>
      <form id="joinForm">
        <input name="name" placeholder="Display name" autocomplete="name" required/>`+gameSelect+`
        <button type="submit">Join</button>
      </form>
      <pre id="state"></pre>
    </main>
`); err != nil {
			return err
		}
		_, err := io.WriteString(w, `    <script>
      const root = document.getElementById("play");
      const form = document.getElementById("joinForm");
      const state = document.getElementById("state");
      form.addEventListener("submit", (event) => {
        event.preventDefault();
        const scheme = location.protocol === "https:" ? "wss://" : "ws://";
        const ws = new WebSocket(scheme + location.host + "/ws");
        const roomId = root.dataset.room;
        ws.onmessage = (msg) => {
          const envelope = JSON.parse(msg.data);
          if (envelope.event === "welcome") {
            const name = form.elements.name.value.trim();
            if (root.dataset.family === "team") {
              ws.send(JSON.stringify({ event: "team_join", data: { roomId, name, gameType: form.elements.gameType.value } }));
            } else {
              ws.send(JSON.stringify({ event: "lobby_join", data: { roomId, name } }));
            }
            form.hidden = true;
            return;
          }
          state.textContent = JSON.stringify(envelope, null, 2);
        };
      });
    </script>
  </body>
</html>
`)
		return err
	})
}
