package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home(rooms []RoomSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Party Relay</title>
    <style>
      body { font-family: system-ui, sans-serif; margin: 2rem; background: #111; color: #eee; }
      table { border-collapse: collapse; width: 100%; }
      th, td { text-align: left; padding: .4rem .8rem; border-bottom: 1px solid #333; }
      img.qr { width: 72px; height: 72px; background: #fff; }
      .empty { color: #888; }
    </style>
  </head>
  <body>
    <main>
      <h1>Party Relay</h1>
      <p>Rooms currently held by this server.</p>
`); err != nil {
			return err
		}
		if err := RoomList(rooms).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `    </main>
  </body>
</html>
`)
		return err
	})
}

// RoomList renders the rooms table, or a placeholder when there are none.
func RoomList(rooms []RoomSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(rooms) == 0 {
			_, err := io.WriteString(w, `      <p class="empty">No active rooms.</p>
`)
			return err
		}
		if _, err := io.WriteString(w, `      <table>
        <thead><tr><th>Family</th><th>Room</th><th>Game</th><th>Status</th><th>Players</th><th>Join</th></tr></thead>
        <tbody>
`); err != nil {
			return err
		}
		for _, room := range rooms {
			game := room.GameType
			if game == "" {
				game = "elimination_bid"
			}
			row := `          <tr>` +
				`<td>` + esc(room.Family) + `</td>` +
				`<td>` + esc(room.ID) + `</td>` +
				`<td>` + esc(game) + `</td>` +
				`<td>` + esc(room.Status) + `</td>` +
				`<td>` + itoa(room.Players) + `</td>` +
				`<td><a href="` + esc(PlayPath(room.Family, room.ID)) + `">` +
				`<img class="qr" alt="join ` + esc(room.ID) + `" src="` + esc(qrPath(room.Family, room.ID)) + `"/></a></td>` +
				"</tr>\n"
			if _, err := io.WriteString(w, row); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `        </tbody>
      </table>
`)
		return err
	})
}
