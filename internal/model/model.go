package model

// MediaKind selects the output of a download: an audio-only extraction or a
// merged video file.
type MediaKind string

const (
	MediaKindAudio MediaKind = "audio"
	MediaKindVideo MediaKind = "video"
)

// String returns the string representation of MediaKind.
func (k MediaKind) String() string {
	return string(k)
}

// Valid reports whether the kind is one of the supported values.
func (k MediaKind) Valid() bool {
	return k == MediaKindAudio || k == MediaKindVideo
}

// BatchRequest is the body of POST /api/download/batch.
type BatchRequest struct {
	URLs    []string `json:"urls"`
	Type    string   `json:"type"`
	Quality string   `json:"quality"`
}

// QualityOption is one selectable quality as shown to the caller.
type QualityOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// InfoResponse is the body of GET /api/info.
type InfoResponse struct {
	Title        string          `json:"title"`
	Uploader     string          `json:"uploader,omitempty"`
	Duration     float64         `json:"duration,omitempty"`
	VideoOptions []QualityOption `json:"video_options"`
	AudioOptions []QualityOption `json:"audio_options"`
}

// ChannelVideo is one entry of a channel or playlist listing.
type ChannelVideo struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ChannelInfoResponse is the body of GET /api/channel-info. Failures use the
// same envelope with Status "error" and a Message instead of an HTTP error.
type ChannelInfoResponse struct {
	Status      string         `json:"status"`
	ChannelName string         `json:"channel_name,omitempty"`
	Videos      []ChannelVideo `json:"videos,omitempty"`
	Message     string         `json:"message,omitempty"`
}

// Channel info status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
