package services

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxTranscriptFileSize caps uploaded transcript files.
const MaxTranscriptFileSize = 10 << 20

// FileExtractService turns an uploaded transcript file into plain text.
type FileExtractService struct{}

func NewFileExtractService() *FileExtractService {
	return &FileExtractService{}
}

// ExtractText dispatches on the file extension: .txt, .srt, .vtt, .pdf or .docx.
func (s *FileExtractService) ExtractText(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".txt":
		text = normalizeExtractedText(string(data))
	case ".srt", ".vtt":
		text = normalizeExtractedText(stripSubtitleCues(string(data)))
	case ".pdf":
		text, err = s.extractPDF(data)
	case ".docx":
		text, err = s.extractDOCX(data)
	default:
		return "", &ValidationError{Fields: map[string]string{"file": "Unsupported file type " + ext + "; use .txt, .srt, .vtt, .pdf or .docx"}}
	}
	if err != nil {
		return "", &ValidationError{Fields: map[string]string{"file": "Could not read " + ext + " file: " + err.Error()}}
	}
	if text == "" {
		return "", &ValidationError{Fields: map[string]string{"file": "No extractable text found in file"}}
	}
	return text, nil
}

func (s *FileExtractService) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	return normalizeExtractedText(b.String()), nil
}

func (s *FileExtractService) extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		documentXML, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		return normalizeExtractedText(stripDOCXML(documentXML)), nil
	}
	return "", nil
}

var (
	xmlTagPattern     = regexp.MustCompile(`<[^>]+>`)
	cueTimingPattern  = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?[.,]\d{3}\s+-->\s+`)
	cueNumberPattern  = regexp.MustCompile(`^\d+$`)
	inlineTagPattern  = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	vttHeaderPrefixes = []string{"WEBVTT", "NOTE", "STYLE", "REGION", "Kind:", "Language:"}
)

// stripSubtitleCues keeps only the spoken text of SRT and WebVTT files,
// joining each cue's lines into one.
func stripSubtitleCues(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")

	var (
		out  []string
		prev string
	)
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || cueNumberPattern.MatchString(line) || cueTimingPattern.MatchString(line) {
			continue
		}
		if hasAnyPrefix(line, vttHeaderPrefixes) {
			continue
		}
		line = strings.TrimSpace(inlineTagPattern.ReplaceAllString(line, ""))
		// Rolling captions repeat the previous line.
		if line == "" || line == prev {
			continue
		}
		out = append(out, line)
		prev = line
	}
	return strings.Join(out, " ")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func stripDOCXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = xmlTagPattern.ReplaceAllString(s, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return replacer.Replace(s)
}

func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
