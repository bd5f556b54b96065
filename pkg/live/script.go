package live

// ClientScript connects a page to a Hub. It expects the box markup inside
// an element with id "uploadbox-root", the hub at "/ws" and the attach
// endpoint at "/attach". It is injected into the page by the host.
const ClientScript = `
(function() {
    'use strict';

    var root = document.getElementById('uploadbox-root');
    if (!root) {
        return;
    }

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;
    var ws = null;

    function send(action) {
        if (ws && ws.readyState === WebSocket.OPEN) {
            ws.send(JSON.stringify(action));
        }
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + '/ws');

        ws.onopen = function() {
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.type) {
                case 'render':
                    root.innerHTML = msg.html;
                    break;

                case 'event':
                    if (msg.event === 'uploadbox:toast') {
                        showToast(msg.data || {});
                    } else if (msg.event === 'uploadbox:download') {
                        download(msg.data || {});
                    }
                    break;

                case 'error':
                    console.warn('[uploadbox]', msg.error);
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    function showToast(data) {
        var el = document.createElement('div');
        el.className = 'uploadbox-toast uploadbox-toast-' + (data.level || 'info');
        el.style.cssText = 'position:fixed;right:16px;bottom:16px;padding:8px 12px;border-radius:4px;color:#fff;background:' +
            (data.level === 'error' ? '#d32f2f' : '#323232') + ';z-index:2000;';
        el.textContent = data.message || '';
        document.body.appendChild(el);
        setTimeout(function() { el.remove(); }, 4000);
    }

    function download(data) {
        if (!data.url) {
            return;
        }
        var a = document.createElement('a');
        a.href = data.url;
        a.download = data.name || '';
        a.style.display = 'none';
        document.body.appendChild(a);
        a.click();
        a.remove();
    }

    function attach(files, mode) {
        if (!files || files.length === 0) {
            return;
        }
        var form = new FormData();
        for (var i = 0; i < files.length; i++) {
            form.append('files', files[i]);
        }
        fetch('/attach?mode=' + mode, {method: 'POST', body: form});
    }

    root.addEventListener('click', function(e) {
        var el = e.target.closest('[data-action]');
        if (!el || !root.contains(el)) {
            return;
        }
        var action = el.dataset.action;
        if (action === 'pick') {
            var input = root.querySelector('input[type=file]');
            if (input) {
                input.click();
            }
            return;
        }
        var msg = {action: action};
        if (el.dataset.id) {
            msg.id = el.dataset.id;
        }
        if (el.dataset.key) {
            msg.key = el.dataset.key;
        }
        if (el.dataset.index) {
            msg.index = parseInt(el.dataset.index, 10);
        }
        send(msg);
    });

    root.addEventListener('change', function(e) {
        if (e.target.type === 'file') {
            attach(e.target.files, 'pick');
            e.target.value = '';
        }
    });

    root.addEventListener('dragover', function(e) {
        if (!e.target.closest('[data-dropzone]')) {
            return;
        }
        e.preventDefault();
        if (!root.querySelector('.uploadbox-dropzone.dragover')) {
            send({action: 'dragover'});
        }
    });

    root.addEventListener('dragleave', function(e) {
        if (e.target.closest('[data-dropzone]')) {
            send({action: 'dragleave'});
        }
    });

    root.addEventListener('drop', function(e) {
        if (!e.target.closest('[data-dropzone]')) {
            return;
        }
        e.preventDefault();
        attach(e.dataTransfer.files, 'drop');
    });

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
`
