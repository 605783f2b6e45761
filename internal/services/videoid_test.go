package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	const id = "dQw4w9WgXcQ"
	inputs := []string{
		id,
		"  " + id + "  ",
		"https://www.youtube.com/watch?v=" + id,
		"https://youtube.com/watch?v=" + id + "&t=42s",
		"youtube.com/watch?feature=share&v=" + id,
		"https://m.youtube.com/watch?v=" + id,
		"https://music.youtube.com/watch?v=" + id,
		"https://youtu.be/" + id,
		"https://youtu.be/" + id + "?si=abc",
		"https://www.youtube.com/shorts/" + id,
		"https://www.youtube.com/embed/" + id,
		"https://www.youtube.com/live/" + id,
		"https://www.youtube-nocookie.com/embed/" + id,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := ExtractVideoID(in)
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}
}

func TestExtractVideoID_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"short",
		"https://vimeo.com/12345678901",
		"https://www.youtube.com/watch?v=tooShort",
		"https://www.youtube.com/channel/UC1234567890",
		"https://youtu.be/",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ExtractVideoID(in)
			assert.Equal(t, CodeValidation, ErrorCode(err))
		})
	}
}
