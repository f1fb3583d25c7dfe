// Package web holds the server-rendered chat page. Bot messages arrive as
// pre-rendered HTML (Message.BotHTML); everything else is escaped by
// html/template as usual.
package web

import "html/template"

// ChatPage renders the whole UI: header, session sidebar, history bubbles and
// the input bar with its fetch-and-swap script.
var ChatPage = template.Must(template.New("chat").Parse(chatPageHTML))

const chatPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>FinanceBot</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        :root {
            --bg: #ffffff;
            --panel: #f5f5f5;
            --border: #e0e0e0;
            --text: #000000;
            --text-muted: #666666;
            --brand: #007bff;
            --brand-dark: #0056b3;
            --radius-md: 8px;
            --pinned-bg: #e9ecef;
        }
        * { box-sizing: border-box; }
        html, body { height: 100%; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            margin: 0;
            background-color: var(--bg);
            color: var(--text);
            overflow: hidden;
        }

        /* Header */
        .header {
            position: fixed;
            inset: 0 0 auto 0;
            height: 60px;
            display: flex;
            align-items: center;
            z-index: 50;
            background-color: var(--panel);
            border-bottom: 1px solid var(--border);
            padding: 0 20px;
        }
        .brand-title h1 {
            font-size: 1.25rem;
            margin: 0;
            font-weight: 600;
        }

        /* Layout */
        .main {
            display: grid;
            grid-template-columns: 280px 1fr;
            height: 100vh;
            padding-top: 60px;
        }

        /* Sidebar */
        .sidebar {
            height: 100%;
            border-right: 1px solid var(--border);
            background-color: var(--panel);
            display: flex;
            flex-direction: column;
        }
        .sidebar-inner {
            flex: 1;
            overflow-y: auto;
            padding: 12px;
        }
        .sidebar-actions {
            padding-bottom: 12px;
            border-bottom: 1px solid var(--border);
        }
        .btn-primary {
            width: 100%;
            padding: 10px;
            border-radius: var(--radius-md);
            border: 1px solid var(--brand);
            background-color: var(--brand);
            color: white;
            font-weight: 600;
            font-size: 1rem;
            cursor: pointer;
            transition: background-color .2s ease;
        }
        .btn-primary:hover { background-color: var(--brand-dark); }

        .sidebar-title {
            font-size: .8rem;
            font-weight: 700;
            color: var(--text-muted);
            text-transform: uppercase;
            padding: 16px 4px 8px 4px;
        }
        .sidebar-history { margin-top: 8px; display: grid; gap: 8px; }
        .sidebar-session {
            display: flex;
            align-items: center;
            justify-content: space-between;
            width: 100%;
            text-align: left;
            padding: 10px 12px;
            background: var(--bg);
            border: 1px solid var(--border);
            border-radius: var(--radius-md);
            cursor: pointer;
            transition: background-color .2s ease, border-color .2s ease;
        }
        .sidebar-session:hover { background-color: #e9ecef; }
        .sidebar-session.active {
            background-color: #e9ecef;
            border-color: var(--brand);
            font-weight: 600;
        }
        .sidebar-session.pinned {
            background-color: var(--pinned-bg);
        }
        .sidebar-session.active.pinned {
            background-color: #dde2e6;
        }
        .chat-title {
            overflow: hidden; white-space: nowrap; text-overflow: ellipsis;
            font-size: .95rem;
            flex: 1;
            padding-right: 8px;
        }
        .pin-indicator {
            display: inline-block;
            margin-right: 6px;
            font-size: .8em;
        }
        .chat-actions {
            display: flex;
            gap: 4px;
            opacity: 0;
            transition: opacity .2s ease;
        }
        .sidebar-session:hover .chat-actions {
            opacity: 1;
        }
        .chat-action-btn {
            background: none;
            border: none;
            cursor: pointer;
            padding: 4px;
            border-radius: 4px;
            font-size: 1rem;
            line-height: 1;
            color: var(--text-muted);
        }
        .chat-action-btn:hover {
            background-color: #dcdcdc;
            color: var(--text);
        }

        /* Chat area */
        .chat-section {
            display: flex;
            flex-direction: column;
            height: 100%;
            overflow: hidden;
        }
        .chat-history {
            flex: 1;
            overflow-y: auto;
            padding: 24px;
        }
        .chat-container {
            max-width: 800px;
            margin: 0 auto;
            width: 100%;
        }

        /* Welcome */
        .welcome {
            text-align: center;
            padding-top: 20vh;
        }
        .welcome h2 { font-size: 1.8rem; margin: 0; }
        .welcome p { color: var(--text-muted); font-size: 1.1rem; }

        /* Suggested Prompts */
        .suggestions-carousel {
            display: flex;
            gap: 16px;
            margin-top: 32px;
            justify-content: center;
            flex-wrap: wrap;
        }
        .suggestion-card {
            background-color: var(--panel);
            border: 1px solid var(--border);
            border-radius: var(--radius-md);
            padding: 12px 16px;
            cursor: pointer;
            transition: background-color .2s ease, border-color .2s ease;
            font-size: .9rem;
            text-align: center;
            width: 220px;
        }
        .suggestion-card:hover {
            background-color: #e9ecef;
            border-color: var(--brand);
        }
        .suggestion-card span {
            color: var(--text-muted);
        }

        /* Bubbles */
        .bubble {
            max-width: 85%;
            padding: 12px 16px;
            margin-bottom: 16px;
            border-radius: 12px;
            font-size: 1rem;
            line-height: 1.6;
            word-wrap: break-word;
        }
        .user-bubble {
            margin-left: auto;
            background-color: #e9ecef;
            border-radius: 12px 12px 4px 12px;
        }
        .bot-bubble {
            margin-right: auto;
            background-color: var(--panel);
            border: 1px solid var(--border);
            border-radius: 12px 12px 12px 4px;
        }
        .bubble-head { font-weight: 700; margin-bottom: 4px; }
        .bot-bubble img {
            max-width: 100%;
            border-radius: var(--radius-md);
            border: 1px solid var(--border);
            margin-top: 10px;
        }

        /* Loading */
        .loading-bubble {
            display: inline-flex;
            gap: 6px;
            padding: 14px;
        }
        .dot-anim {
            width: 8px; height: 8px; background: var(--text-muted); border-radius: 50%;
            animation: blink 1.2s infinite;
        }
        .dot-anim:nth-child(2) { animation-delay: .2s; }
        .dot-anim:nth-child(3) { animation-delay: .4s; }
        @keyframes blink { 0%,80%,100%{opacity:.4} 40%{opacity:1} }

        /* Input bar */
        .input-bar {
            padding: 16px;
        }
        .input-wrap {
            display: flex;
            gap: 10px;
            max-width: 800px;
            margin: 0 auto;
        }
        .input-box {
            flex: 1;
            background: var(--bg);
            border: 2px solid var(--border);
            border-radius: var(--radius-md);
            padding: 10px 20px;
            font-size: 1rem;
            outline: none;
            transition: border-color .2s ease;
            height: 67px;
        }
        .input-box:focus { border-color: var(--brand); }
        .send-btn {
            padding: 10px 20px;
            border-radius: var(--radius-md);
            border: 1px solid var(--brand);
            background-color: var(--brand);
            color: white;
            font-weight: 600;
            cursor: pointer;
            transition: background-color .2s ease;
        }
        .send-btn:hover { background-color: var(--brand-dark); }

        /* Responsive */
        @media (max-width: 768px) {
            .main { grid-template-columns: 1fr; }
            .sidebar { display: none; }
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="brand-title">
            <h1>FinanceBot</h1>
        </div>
    </div>

    <div class="main">
        <aside class="sidebar">
            <div class="sidebar-inner">
                <div class="sidebar-actions">
                    <button class="btn-primary" onclick="window.location.href='/?new_chat=1'">+ New Chat</button>
                </div>
                <div class="sidebar-title">Chats</div>
                <div class="sidebar-history" id="sidebar-history">
                    {{range .Sessions}}
                        <div class="sidebar-session{{if eq .ID $.ChatID}} active{{end}}{{if .Pinned}} pinned{{end}}"
                            onclick="window.location.href='/?chat_id={{.ID}}'">

                            <span class="chat-title">
                                {{if .Pinned}}<span class="pin-indicator">&#128204;</span>{{end}}
                                {{.Title}}
                            </span>

                            <span class="chat-actions" onclick="event.stopPropagation();">
                                <form method="post" action="/pin_chat/{{.ID}}" style="display:inline;">
                                    <button type="submit" class="chat-action-btn" title="{{if .Pinned}}Unpin{{else}}Pin{{end}}">
                                        {{if .Pinned}}&#128205;{{else}}&#128204;{{end}}
                                    </button>
                                </form>
                                <form method="post" action="/delete_chat/{{.ID}}" style="display:inline;" onsubmit="return confirm('Are you sure you want to delete this chat?');">
                                    <button type="submit" class="chat-action-btn" title="Delete">&#128465;</button>
                                </form>
                            </span>
                        </div>
                    {{end}}
                    {{if not .Sessions}}
                        <div class="sidebar-session">
                            <div class="chat-title">No chats yet.</div>
                        </div>
                    {{end}}
                </div>
            </div>
        </aside>

        <section class="chat-section">
            <div class="chat-history" id="chat-history">
                <div class="chat-container">
                    {{if .History}}
                        {{range .History}}
                            {{if eq .Role "user"}}
                                <div class="bubble user-bubble">
                                    <div class="bubble-head">You</div>
                                    <div class="bubble-content">{{.Text}}</div>
                                </div>
                            {{else}}
                                <div class="bubble bot-bubble">
                                    <div class="bubble-head">FinanceBot</div>
                                    <div class="bubble-content">
                                        {{.BotHTML}}
                                        {{if .Image}}
                                            <img src="/{{.Image}}" alt="Generated Chart">
                                        {{end}}
                                    </div>
                                </div>
                            {{end}}
                        {{end}}
                    {{else}}
                        <div class="welcome">
                            <h2>Welcome to FinanceBot</h2>
                            <p>Your personal AI assistant for finance.</p>
                            <div class="suggestions-carousel">
                                <div class="suggestion-card" onclick="useSuggestion(this)">
                                    <span>&ldquo;Summarize my spending this month&rdquo;</span>
                                </div>
                                <div class="suggestion-card" onclick="useSuggestion(this)">
                                    <span>&ldquo;Find my highest expense category&rdquo;</span>
                                </div>
                                <div class="suggestion-card" onclick="useSuggestion(this)">
                                    <span>&ldquo;Visualize my spending this month&rdquo;</span>
                                </div>
                            </div>
                        </div>
                    {{end}}
                </div>
            </div>

            <form id="chat-form" class="input-bar" autocomplete="off">
                <div class="input-wrap">
                    <input type="text" name="user_query" id="user_query" class="input-box" placeholder="Type your question..." autofocus required>
                    <input type="submit" class="send-btn" value="Ask">
                </div>
            </form>
        </section>
    </div>

    <script>
        function useSuggestion(card) {
            var promptText = card.querySelector('span').textContent.replace(/“|”/g, '');
            var input = document.getElementById('user_query');
            input.value = promptText;
            var form = document.getElementById('chat-form');
            if (form.requestSubmit) {
                form.requestSubmit();
            } else {
                form.dispatchEvent(new Event('submit', { cancelable: true, bubbles: true }));
            }
        }

        function scrollChatToBottom() {
            var chat = document.getElementById('chat-history');
            if (chat) {
                chat.scrollTop = chat.scrollHeight;
            }
        }
        window.onload = scrollChatToBottom;

        document.getElementById('chat-form').onsubmit = function(e) {
            e.preventDefault();
            var input = document.getElementById('user_query');
            var text = input.value.trim();
            if (!text) return;
            input.value = '';

            var chatContainer = document.querySelector('#chat-history .chat-container');
            if (!chatContainer) return;

            var welcome = chatContainer.querySelector('.welcome');
            if (welcome) {
                welcome.remove();
            }

            // Append user bubble
            var userBubble = document.createElement('div');
            userBubble.className = 'bubble user-bubble';
            userBubble.innerHTML = '<div class="bubble-head">You</div>'
                + '<div class="bubble-content">' + text.replace(/</g, "&lt;").replace(/>/g, "&gt;") + '</div>';
            chatContainer.appendChild(userBubble);

            // Loading bubble
            var loadingBubble = document.createElement('div');
            loadingBubble.className = 'bubble bot-bubble loading-bubble';
            loadingBubble.innerHTML = '<span class="dot-anim"></span><span class="dot-anim"></span><span class="dot-anim"></span>';
            chatContainer.appendChild(loadingBubble);
            scrollChatToBottom();

            // Perform POST
            var currentChatID = new URLSearchParams(window.location.search).get("chat_id") || "";
            fetch("/?chat_id=" + encodeURIComponent(currentChatID), {
                method: "POST",
                headers: { "Content-Type": "application/x-www-form-urlencoded" },
                body: "user_query=" + encodeURIComponent(text)
            })
            .then(function(response) { return response.text(); })
            .then(function(html) {
                var parser = new DOMParser();
                var doc = parser.parseFromString(html, "text/html");
                var newChatContainer = doc.querySelector('#chat-history .chat-container');
                var newSidebar = doc.getElementById('sidebar-history');

                if (newChatContainer) {
                    chatContainer.innerHTML = newChatContainer.innerHTML;
                }
                var sidebar = document.getElementById('sidebar-history');
                if (sidebar && newSidebar) {
                    sidebar.innerHTML = newSidebar.innerHTML;
                }
                scrollChatToBottom();
            })
            .catch(function() {
                loadingBubble.textContent = "Error contacting server. Please try again.";
            });
        };
    </script>
</body>
</html>
`
