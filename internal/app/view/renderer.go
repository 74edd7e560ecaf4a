// Package view renders the dashboard page from a session state.
package view

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"wallet_dashboard/internal/app/state"
	"wallet_dashboard/internal/domain/entity"
)

// Model is everything the page depends on.
type Model struct {
	Title          string
	Network        entity.NetworkDefinition
	RefreshSeconds int
	State          state.State
}

type page struct {
	Title          string
	Symbol         string
	ExplorerURL    string
	RefreshSeconds int
	Connected      bool
	Loading        bool
	Loaded         bool
	Account        string
	ShortAccount   string
	Balance        string
	Transactions   []entity.Transaction
	HistoryKnown   bool
	ErrorMessage   string
}

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"txURL": txURL,
}).Parse(pageHTML))

// Render writes the page for vm to w.
func Render(w io.Writer, vm Model) error {
	st := vm.State
	p := page{
		Title:        vm.Title,
		Symbol:       vm.Network.NativeSymbol,
		ExplorerURL:  strings.TrimRight(vm.Network.BlockExplorerURL, "/"),
		ErrorMessage: st.ErrorMessage(),
	}
	if st.Connected() {
		p.Connected = true
		p.Account = st.Account
		p.ShortAccount = ShortAddress(st.Account)
		p.Loading = st.Phase == state.PhaseLoading
		p.Loaded = st.Phase == state.PhaseLoaded
		p.Balance = st.Balance
		p.Transactions = st.Transactions
		p.HistoryKnown = st.HistoryKnown
		if p.Loading {
			p.RefreshSeconds = vm.RefreshSeconds
		}
	}
	if err := pageTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// ShortAddress abbreviates a hex address to 0x1234…abcd.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func txURL(base, hash string) string {
	if base == "" {
		return ""
	}
	return base + "/tx/" + hash
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- if gt .RefreshSeconds 0}}
<meta http-equiv="refresh" content="{{.RefreshSeconds}}">
{{- end}}
</head>
<body>
<header>
<h1>{{.Title}}</h1>
{{- if .Connected}}
<form method="post" action="/connect"><button type="submit" id="connect">{{.ShortAccount}}</button></form>
<form method="post" action="/disconnect"><button type="submit" id="disconnect">Disconnect</button></form>
{{- else}}
<form method="post" action="/connect"><button type="submit" id="connect">Connect Wallet</button></form>
{{- end}}
</header>
{{- if .ErrorMessage}}
<div class="error" role="alert">{{.ErrorMessage}}</div>
{{- end}}
<main>
{{- if .Connected}}
<section id="account">
<h2>Account</h2>
<p class="address">{{.Account}}</p>
{{- if .Loading}}
<p class="loading">Loading…</p>
{{- else if .Balance}}
<p class="balance">{{.Balance}} {{.Symbol}}</p>
{{- end}}
</section>
{{- if and .Loaded (or .HistoryKnown .Transactions)}}
<section id="transactions">
<h2>Recent Transactions</h2>
{{- if .Transactions}}
<ul>
{{- range $tx := .Transactions}}
<li class="tx">
{{- with txURL $.ExplorerURL $tx.Hash}}
<a class="hash" href="{{.}}">{{$tx.Hash}}</a>
{{- else}}
<span class="hash">{{$tx.Hash}}</span>
{{- end}}
<span class="from">From: {{$tx.From}}</span>
<span class="to">To: {{$tx.To}}</span>
<span class="value">{{$tx.Value}} {{$.Symbol}}</span>
{{- if $tx.Timestamp}}
<span class="time">{{$tx.Timestamp}}</span>
{{- end}}
</li>
{{- end}}
</ul>
{{- else if .HistoryKnown}}
<p class="empty">No transactions found.</p>
{{- end}}
</section>
{{- end}}
{{- end}}
</main>
</body>
</html>
`
