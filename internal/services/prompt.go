package services

import (
	"fmt"
	"strings"

	"clearcue-backend/internal/models"
)

// Part is one provider-neutral request part: either inline image bytes or text.
type Part struct {
	MIMEType string
	Data     []byte
	Text     string
}

func (p Part) IsImage() bool { return len(p.Data) > 0 }

// BuildAnalysisParts assembles the analysis request. The image, if any, goes
// first, followed by a single instruction part. Video fields are interpolated
// verbatim.
func BuildAnalysisParts(video models.VideoData, image *models.ImagePayload, language string) []Part {
	parts := make([]Part, 0, 2)
	if image != nil && len(image.Data) > 0 {
		parts = append(parts, Part{MIMEType: image.MIMEType, Data: image.Data})
	}
	parts = append(parts, Part{Text: buildAnalysisPrompt(video, image != nil && len(image.Data) > 0, language)})
	return parts
}

func buildAnalysisPrompt(video models.VideoData, hasImage bool, language string) string {
	if language == "" {
		language = "English"
	}

	var b strings.Builder

	// Layer 1: Role
	b.WriteString("Act as an expert YouTube growth consultant and policy specialist. Your name is ClearCue.\n")
	b.WriteString("Analyze the following YouTube video content and provide a comprehensive report in JSON format.\n")
	b.WriteString(fmt.Sprintf("All explanations, rationales and fixes must be written in %s.\n\n", language))

	// Layer 2: Video data
	b.WriteString("VIDEO DATA:\n")
	b.WriteString("- Title: " + video.Title + "\n")
	b.WriteString("- Description: " + video.Description + "\n")
	b.WriteString("- Tags: " + video.Tags + "\n")
	b.WriteString("- Transcript Snippet: " + video.Transcript + "\n\n")

	// Layer 3: Thumbnail
	b.WriteString("THUMBNAIL:\n")
	if hasImage {
		b.WriteString("[An image is provided]\n\n")
	} else {
		b.WriteString("[No image provided]\n\n")
	}

	// Layer 4: Requirements
	b.WriteString("ANALYSIS REQUIREMENTS:\n\n")
	b.WriteString(fmt.Sprintf("1. Scoring (0-100): provide a score and a brief %s explanation for each category:\n", language))
	b.WriteString("   - compliance: adherence to YouTube Community Guidelines and advertiser-friendly policies.\n")
	b.WriteString("   - thumbnail: CTR potential, clarity, legibility on mobile and visual appeal.\n")
	b.WriteString("   - title: clickability, clarity and optimal length (~55-70 characters).\n")
	b.WriteString("   - description: SEO optimization, clarity, structure (chapters, CTAs) and use of hashtags.\n")
	b.WriteString("   - seoOpportunity: potential to rank based on keywords, tags and intent.\n\n")

	b.WriteString("2. Issues: identify specific violations or risks. For each issue:\n")
	b.WriteString("   - ruleId: a short identifier (e.g. 'ads-sensitive-violence').\n")
	b.WriteString("   - severity: 'low', 'medium' or 'high'.\n")
	b.WriteString("   - evidence: the exact text or element causing the issue.\n")
	b.WriteString(fmt.Sprintf("   - fix: a suggested %s replacement or solution.\n\n", language))

	b.WriteString("3. Recommendations: actionable suggestions to improve the video's performance.\n")
	b.WriteString("   - titles: 3 alternative, high-CTR titles.\n")
	b.WriteString("   - description: a rewritten SEO-friendly description with a hook, timestamps (chapters) and a clear call-to-action.\n")
	b.WriteString("   - hashtags: up to 5 relevant, high-traffic hashtags.\n")
	b.WriteString("   - keywords: 3-5 keywords (seed and long-tail) with their search intent and difficulty.\n")
	b.WriteString("   - thumbnailVariants: 2 rationales for A/B testing the thumbnail.\n\n")

	b.WriteString("Your entire output must be a single, valid JSON object that conforms to the provided schema.\n")

	return b.String()
}
