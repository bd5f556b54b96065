// Package toast provides transient feedback notifications.
//
// A toast is a small named event carrying a level and a message. Where
// it ends up is decided by the Emitter: the live view forwards it to
// the browser as a "uploadbox:toast" CustomEvent, the CLI logs it, and
// tests record it.
//
//	toast.Error(emitter, "File too large. Max size: 20MB")
//
// The browser side is user-defined, so any toast UI library works:
//
//	window.addEventListener("uploadbox:toast", (e) => {
//	    const { level, message } = e.detail;
//	    showToast(level, message);
//	});
package toast
