package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"clearcue-backend/internal/models"
	"clearcue-backend/internal/services"
)

func runAnalyze(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	title := fs.String("title", "", "Video title")
	description := fs.String("description", "", "Video description")
	tags := fs.String("tags", "", "Comma-separated tags")
	transcript := fs.String("transcript", "", "Transcript text")
	transcriptFile := fs.String("transcript-file", "", "Read the transcript from a .txt, .srt, .vtt, .pdf or .docx file")
	link := fs.String("link", "", "YouTube link stored with the session")
	videoURL := fs.String("url", "", "Prefill empty fields from this YouTube video")
	thumbnail := fs.String("thumbnail", "", "Thumbnail image file")
	asJSON := fs.Bool("json", false, "Print the full result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	video := models.VideoData{
		Title:       *title,
		Description: *description,
		Tags:        *tags,
		Transcript:  *transcript,
		YoutubeLink: *link,
	}

	if *transcriptFile != "" {
		data, err := os.ReadFile(*transcriptFile)
		if err != nil {
			return err
		}
		text, err := services.NewFileExtractService().ExtractText(*transcriptFile, data)
		if err != nil {
			return err
		}
		video.Transcript = text
	}

	if *videoURL != "" {
		youtube := services.NewYouTubeService(a.cfg.HTTPClientTimeout)
		videos := services.NewVideoService(a.configs, youtube,
			services.NewTranscriptService(a.cfg.TranscriptAPIURL, a.cfg.HTTPClientTimeout, youtube))
		fetched, _, err := videos.Resolve(ctx, cliOwner, *videoURL)
		if err != nil {
			return err
		}
		video = mergeVideoData(video, *fetched)
	}

	var image *models.ImagePayload
	if *thumbnail != "" {
		data, err := os.ReadFile(*thumbnail)
		if err != nil {
			return err
		}
		image, err = services.NewImagePayload(data, "")
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(video.Title) == "" && strings.TrimSpace(video.Description) == "" && strings.TrimSpace(video.Transcript) == "" {
		return errors.New("nothing to analyze: pass --title, --description, --transcript or --url")
	}

	analyzer := services.NewAnalyzerService(a.configs, a.sessions, services.NewAnalysisProvider, nil, a.cfg.AnalysisLanguage)
	resp, err := analyzer.Analyze(ctx, cliOwner, video, image)
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(stdout, resp)
	}
	printReport(stdout, resp)
	return nil
}

// mergeVideoData keeps explicit flag values and fills the rest from fetched.
func mergeVideoData(explicit, fetched models.VideoData) models.VideoData {
	if explicit.Title == "" {
		explicit.Title = fetched.Title
	}
	if explicit.Description == "" {
		explicit.Description = fetched.Description
	}
	if explicit.Tags == "" {
		explicit.Tags = fetched.Tags
	}
	if explicit.Transcript == "" {
		explicit.Transcript = fetched.Transcript
	}
	if explicit.YoutubeLink == "" {
		explicit.YoutubeLink = fetched.YoutubeLink
	}
	return explicit
}

func printReport(w io.Writer, resp *models.AnalyzeResponse) {
	r := resp.Result
	fmt.Fprintf(w, "Overall score: %d (%s)\n\n", resp.OverallScore, resp.Verdict)

	for _, d := range []struct {
		name  string
		score models.ScoreDetail
	}{
		{"Compliance", r.Scores.Compliance},
		{"Thumbnail", r.Scores.Thumbnail},
		{"Title", r.Scores.Title},
		{"Description", r.Scores.Description},
		{"SEO opportunity", r.Scores.SEOOpportunity},
	} {
		fmt.Fprintf(w, "  %-16s %3d  %s\n", d.name, d.score.Score, d.score.Explanation)
	}

	if len(r.Issues) > 0 {
		fmt.Fprintf(w, "\nIssues (%d):\n", len(r.Issues))
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "  [%s] %s\n    evidence: %s\n    fix: %s\n", issue.Severity, issue.RuleID, issue.Evidence, issue.Fix)
		}
	}

	rec := r.Recommendations
	if len(rec.Titles) > 0 {
		fmt.Fprintln(w, "\nSuggested titles:")
		for _, t := range rec.Titles {
			fmt.Fprintf(w, "  - %s\n", t)
		}
	}
	if len(rec.Hashtags) > 0 {
		fmt.Fprintf(w, "\nHashtags: %s\n", strings.Join(rec.Hashtags, " "))
	}
	if len(rec.Keywords) > 0 {
		fmt.Fprintln(w, "\nKeywords:")
		for _, k := range rec.Keywords {
			fmt.Fprintf(w, "  - %s (%s, %s)\n", k.Phrase, k.Intent, k.Difficulty)
		}
	}
	if len(rec.ThumbnailVariants) > 0 {
		fmt.Fprintln(w, "\nThumbnail variants:")
		for _, v := range rec.ThumbnailVariants {
			fmt.Fprintf(w, "  - %s: %s\n", v.ID, v.Rationale)
		}
	}
	if rec.Description != "" {
		fmt.Fprintf(w, "\nRewritten description:\n%s\n", rec.Description)
	}

	fmt.Fprintf(w, "\nSaved sessions: %d\n", len(resp.Sessions))
}
