package fetch

// Package fetch drives yt-dlp (via github.com/lrstanley/go-ytdlp) for the
// service: blocking downloads into per-request run directories, metadata-only
// probes for /api/info, and flat playlist extraction for /api/channel-info.
// Invocations pass through a bounded semaphore so request bursts cannot fork
// unbounded yt-dlp processes.
