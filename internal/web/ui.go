package web

import (
	"fmt"
	"net/http"
	"strings"
)

// handleUI serves the embedded UI.
func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, strings.ReplaceAll(uiHTML, "{{APP_VERSION}}", s.version))
}

const uiHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>AGI Console</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    background: #1b1b1d;
    color: #e4e4e7;
    min-height: 100vh;
  }
  .container { max-width: 1200px; margin: 0 auto; padding: 24px; }
  .header {
    display: flex;
    justify-content: space-between;
    align-items: center;
    margin-bottom: 24px;
    padding-bottom: 16px;
    border-bottom: 1px solid #27272a;
  }
  .header h1 { font-size: 24px; font-weight: 700; color: #fff; letter-spacing: -0.5px; }
  .header h1 span { color: #FB326E; }
  .conn { font-size: 12px; color: #71717a; }
  .conn.live { color: #34d399; }
  .grid { display: grid; grid-template-columns: 3fr 2fr; gap: 20px; }
  .card {
    background: #27272a;
    border: 1px solid #3f3f46;
    border-radius: 12px;
    padding: 18px;
    margin-bottom: 20px;
  }
  .card h2 {
    font-size: 12px;
    font-weight: 600;
    color: #a1a1aa;
    text-transform: uppercase;
    letter-spacing: 0.06em;
    margin-bottom: 12px;
  }
  textarea, input[type=text] {
    width: 100%;
    background: #18181b;
    border: 1px solid #3f3f46;
    border-radius: 8px;
    color: #e4e4e7;
    font-size: 14px;
    padding: 10px 14px;
    outline: none;
    font-family: inherit;
  }
  textarea { min-height: 96px; resize: vertical; }
  textarea:focus, input[type=text]:focus { border-color: #FB326E; }
  textarea:disabled { opacity: 0.5; }
  .row { display: flex; gap: 10px; margin-top: 10px; }
  .btn {
    background: #FB326E;
    color: #fff;
    border: none;
    padding: 9px 18px;
    border-radius: 8px;
    font-size: 13px;
    font-weight: 600;
    cursor: pointer;
  }
  .btn.secondary { background: #3f3f46; }
  .btn:disabled { opacity: 0.4; cursor: not-allowed; }
  .output {
    white-space: pre-wrap;
    word-break: break-word;
    font-size: 14px;
    line-height: 1.5;
    min-height: 120px;
  }
  .output.placeholder { color: #71717a; font-style: italic; }
  .tasks { list-style: none; margin-top: 12px; }
  .tasks li { display: flex; align-items: center; gap: 8px; padding: 6px 0; border-bottom: 1px solid #3f3f46; }
  .tasks li.done span { text-decoration: line-through; color: #71717a; }
  .gauge { margin-top: 14px; }
  .gauge-caption { font-size: 12px; color: #a1a1aa; margin-bottom: 6px; }
  .graph { position: relative; height: 260px; background: #18181b; border-radius: 8px; overflow: hidden; }
  .graph svg.lines { position: absolute; inset: 0; width: 100%; height: 100%; }
  .graph svg.lines line { stroke: #3f3f46; stroke-width: 0.4; }
  .node {
    position: absolute;
    transform: translate(-50%, -50%);
    padding: 4px 10px;
    border-radius: 999px;
    font-size: 12px;
    font-weight: 600;
    color: #18181b;
    white-space: nowrap;
  }
  .footer { text-align: center; font-size: 11px; color: #52525b; margin-top: 12px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>AGI <span>Console</span></h1>
    <div id="conn" class="conn">connecting…</div>
  </div>
  <div class="grid">
    <div>
      <div class="card">
        <h2>Ask</h2>
        <textarea id="prompt" placeholder="Type a prompt. Enter sends, Shift+Enter adds a line."></textarea>
        <div class="row">
          <button id="send" class="btn">Send</button>
          <button id="clear" class="btn secondary">Clear</button>
        </div>
      </div>
      <div class="card">
        <h2>Response</h2>
        <div id="output" class="output placeholder"></div>
      </div>
    </div>
    <div>
      <div class="card">
        <h2>Tasks</h2>
        <div class="row" style="margin-top:0">
          <input id="task" type="text" placeholder="New task">
          <button id="task-add" class="btn">Add</button>
        </div>
        <ul id="tasks" class="tasks"></ul>
        <div class="row"><button id="task-clear" class="btn secondary">Clear completed</button></div>
        <div class="gauge">
          <div id="gauge-caption" class="gauge-caption"></div>
          <div id="gauge"></div>
        </div>
      </div>
      <div class="card">
        <h2>Knowledge graph</h2>
        <div id="graph" class="graph"></div>
        <div class="row"><button id="graph-render" class="btn secondary">Rearrange</button></div>
      </div>
    </div>
  </div>
  <div id="footer" class="footer"></div>
</div>
<script>
(function() {
  var footerEl = document.getElementById('footer');
  var appVersion = '{{APP_VERSION}}';
  if (footerEl) footerEl.textContent = 'AGI Console ' + appVersion;

  var promptEl = document.getElementById('prompt');
  var sendEl = document.getElementById('send');
  var clearEl = document.getElementById('clear');
  var outputEl = document.getElementById('output');
  var taskEl = document.getElementById('task');
  var tasksEl = document.getElementById('tasks');
  var gaugeEl = document.getElementById('gauge');
  var gaugeCaptionEl = document.getElementById('gauge-caption');
  var graphEl = document.getElementById('graph');
  var connEl = document.getElementById('conn');

  var ws = null;
  var wsReconnectDelay = 1000;
  var promptSeq = 0;
  var taskSeq = 0;
  var lastGraph = null;

  function send(ev) {
    if (ws && ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(ev));
  }

  function escHtml(s) {
    return String(s)
      .replace(/&/g, '&amp;')
      .replace(/</g, '&lt;')
      .replace(/>/g, '&gt;')
      .replace(/"/g, '&quot;');
  }

  promptEl.addEventListener('input', function() {
    promptSeq++;
    send({ type: 'input', text: promptEl.value, seq: promptSeq });
  });
  promptEl.addEventListener('keydown', function(e) {
    if (e.key !== 'Enter' || e.shiftKey) return;
    e.preventDefault();
    send({ type: 'key', key: 'Enter', shift: false });
  });
  sendEl.addEventListener('click', function() { send({ type: 'submit' }); });
  clearEl.addEventListener('click', function() { send({ type: 'clear' }); });

  taskEl.addEventListener('input', function() {
    taskSeq++;
    send({ type: 'task.input', text: taskEl.value, seq: taskSeq });
  });
  taskEl.addEventListener('keydown', function(e) {
    if (e.key !== 'Enter') return;
    e.preventDefault();
    send({ type: 'task.key', key: 'Enter', shift: e.shiftKey });
  });
  document.getElementById('task-add').addEventListener('click', function() { send({ type: 'task.add' }); });
  document.getElementById('task-clear').addEventListener('click', function() { send({ type: 'task.clear' }); });
  document.getElementById('graph-render').addEventListener('click', function() { send({ type: 'graph.render' }); });

  tasksEl.addEventListener('change', function(e) {
    var id = e.target.getAttribute('data-id');
    if (id) send({ type: 'task.toggle', id: id });
  });

  function renderPrompt(p) {
    // Only adopt server text that answers our latest edit.
    if (p.seq === promptSeq && promptEl.value !== p.text) promptEl.value = p.text;
    promptEl.disabled = p.busy;
    sendEl.disabled = p.busy;
    clearEl.disabled = p.busy;
    sendEl.textContent = p.busy ? 'Thinking…' : 'Send';
  }

  function renderOutput(o) {
    outputEl.textContent = o.text;
    outputEl.classList.toggle('placeholder', o.placeholder);
  }

  function renderTasks(t) {
    if (t.draft.seq === taskSeq && taskEl.value !== t.draft.text) taskEl.value = t.draft.text;
    tasksEl.innerHTML = (t.items || []).map(function(item) {
      return '<li class="' + (item.done ? 'done' : '') + '">' +
        '<input type="checkbox" data-id="' + escHtml(item.id) + '"' + (item.done ? ' checked' : '') + '>' +
        '<span>' + escHtml(item.label) + '</span></li>';
    }).join('');
    gaugeCaptionEl.textContent = t.completed + ' of ' + t.total + ' done';
  }

  function renderChart(c) {
    // One chart per session; the server redraws it in place.
    gaugeEl.setAttribute('data-chart', String(c.id));
    gaugeEl.innerHTML = c.svg || '';
    gaugeEl.title = c.label;
  }

  function renderGraph(g) {
    var key = JSON.stringify(g);
    if (key === lastGraph) return;
    lastGraph = key;
    var lines = (g.lines || []).map(function(l) {
      return '<line x1="' + l.x1 + '" y1="' + l.y1 + '" x2="' + l.x2 + '" y2="' + l.y2 + '"></line>';
    }).join('');
    var nodes = (g.nodes || []).map(function(n) {
      return '<div class="node" style="left:' + n.x + '%;top:' + n.y + '%;background:' + escHtml(n.color) + '">' +
        escHtml(n.label) + '</div>';
    }).join('');
    graphEl.innerHTML = '<svg class="lines" viewBox="0 0 100 100" preserveAspectRatio="none">' + lines + '</svg>' + nodes;
  }

  function render(view) {
    renderPrompt(view.prompt);
    renderOutput(view.output);
    renderTasks(view.tasks);
    renderChart(view.chart);
    renderGraph(view.graph);
  }

  function connect() {
    var proto = window.location.protocol === 'https:' ? 'wss:' : 'ws:';
    ws = new WebSocket(proto + '//' + window.location.host + '/ws');
    ws.onopen = function() {
      wsReconnectDelay = 1000;
      promptSeq = 0;
      taskSeq = 0;
      lastGraph = null;
      connEl.textContent = 'live';
      connEl.classList.add('live');
    };
    ws.onmessage = function(msg) {
      try { render(JSON.parse(msg.data)); } catch (e) { console.error(e); }
    };
    ws.onclose = function() {
      connEl.textContent = 'reconnecting…';
      connEl.classList.remove('live');
      setTimeout(connect, wsReconnectDelay);
      wsReconnectDelay = Math.min(wsReconnectDelay * 2, 10000);
    };
  }

  connect();
})();
</script>
</body>
</html>`
