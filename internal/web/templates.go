package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/tic-tac-toe-history/internal/app"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"add": func(a, b int) int { return a + b },
		"mul": func(a, b int) int { return a * b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(baseTemplate))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(
		`<div id="gamename">TIC TAC TOE</div><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div id="gamename">TIC TAC TOE</div>
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

type boardData struct {
	app.SessionView
	Error string
}

// renderTemplate executes t, or the template called name in t's set.
func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const baseTemplate = `<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic Tac Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.board-row{display:flex}
.square{width:64px;height:64px;font-size:32px;margin:2px}
.square.win{background:#ffe066}
.status{margin:8px 0;font-weight:bold}
.confetti{position:fixed;inset:0;pointer-events:none;overflow:hidden}
.confetti i{position:absolute;top:-10px;width:8px;height:14px;animation:fall 3s linear forwards}
@keyframes fall{to{transform:translateY(110vh) rotate(720deg)}}
</style>
</head><body>{{template "content" .}}</body></html>`

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="status">{{.Status}}</div>
  <div class="board-pos">
  {{range $r := iter 3}}
  <div class="board-row">
    {{range $c := iter 3}}{{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/{{$.ID}}/play">
        <input type="hidden" name="i" value="{{$i}}">
        <button type="submit" class="square{{if $.Outcome.InLine $i}} win{{end}}">{{index $.Board $i}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  </div>
  <div class="game-info">
    <form hx-post="/game/{{.ID}}/undo" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/{{.ID}}/undo"><button type="submit" id="undo"{{if not .CanUndo}} disabled{{end}}>Undo</button></form>
    <form hx-post="/game/{{.ID}}/redo" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/{{.ID}}/redo"><button type="submit" id="redo"{{if not .CanRedo}} disabled{{end}}>Redo</button></form>
    <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/{{.ID}}/reset"><button type="submit" id="reset">Reset</button></form>
    <div class="moves">Move {{.Move}} of {{add .Moves -1}}</div>
  </div>
  {{if .Won}}
  <div class="confetti">{{range $k := iter 50}}<i style="left:{{mul $k 2}}%;background:hsl({{mul $k 37}},80%,60%);animation-delay:{{$k}}0ms"></i>{{end}}</div>
  {{end}}
</div>
`
