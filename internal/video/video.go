// Package video resolves lecture video sources. YouTube lectures are stored
// by their 11-character video id extracted from whatever URL shape the
// educator pasted; other sources keep their direct URL.
package video

import "strings"

const youtubeIDLength = 11

// ExtractYouTubeID pulls the 11-character video id out of a YouTube URL.
// Accepts a bare id, watch URLs, share links, channel-style paths, and embed
// URLs. Returns "" when no id can be found; never errors.
func ExtractYouTubeID(rawURL string) string {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return ""
	}

	// A bare 11-character id passes through unchanged, so extraction is
	// idempotent.
	if len(url) == youtubeIDLength {
		return url
	}

	var candidate string
	switch {
	case strings.Contains(url, "watch?v="):
		candidate = splitAfter(url, "watch?v=")
	case strings.Contains(url, "youtu.be/"):
		candidate = splitAfter(url, "youtu.be/")
	case strings.Contains(url, "embed/"):
		candidate = splitAfter(url, "embed/")
	case strings.Contains(url, "youtube.com/"):
		candidate = splitAfter(url, "youtube.com/")
	default:
		return ""
	}

	// Drop any trailing path segment. Anything else left over (extra query
	// parameters) makes the candidate the wrong length and extraction fails.
	if i := strings.Index(candidate, "/"); i >= 0 {
		candidate = candidate[:i]
	}

	if len(candidate) != youtubeIDLength {
		return ""
	}
	return candidate
}

func splitAfter(url, marker string) string {
	parts := strings.SplitN(url, marker, 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// IsValidYouTubeURL reports whether an id can be extracted from the URL.
func IsValidYouTubeURL(rawURL string) bool {
	return ExtractYouTubeID(rawURL) != ""
}

// YouTubeThumbnail returns the high-quality default thumbnail URL for a
// video id, or "" for an invalid id.
func YouTubeThumbnail(videoID string) string {
	if len(videoID) != youtubeIDLength {
		return ""
	}
	return "https://img.youtube.com/vi/" + videoID + "/hqdefault.jpg"
}

// YouTubeEmbedURL returns the embeddable player URL for a video id, or ""
// for an invalid id.
func YouTubeEmbedURL(videoID string) string {
	if len(videoID) != youtubeIDLength {
		return ""
	}
	return "https://www.youtube.com/embed/" + videoID
}

// ValidateLectureSource checks a (source, url) pair at authoring time.
// YouTube lectures need an extractable id; direct-upload lectures just need
// a non-empty URL.
func ValidateLectureSource(source, rawURL string) bool {
	switch source {
	case "youtube":
		return IsValidYouTubeURL(rawURL)
	case "cloudinary":
		return strings.TrimSpace(rawURL) != ""
	default:
		return false
	}
}
