package models

// VideoData is the editable input for one analysis. Tags are comma-joined.
type VideoData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Transcript  string `json:"transcript"`
	YoutubeLink string `json:"youtubeLink"`
}

// VideoMetadata is what a metadata source returns for a video id.
type VideoMetadata struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

// ImagePayload is a decoded thumbnail ready to be sent as an inline part.
type ImagePayload struct {
	MIMEType string
	Data     []byte
}

type ThumbnailInput struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

type AnalyzeRequest struct {
	VideoData VideoData       `json:"videoData"`
	Thumbnail *ThumbnailInput `json:"thumbnail,omitempty"`
}

type ResolveVideoRequest struct {
	URL string `json:"url"`
}
