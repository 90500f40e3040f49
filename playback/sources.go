package playback

import (
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/spf13/afero"
)

// FileSource decodes a WAV clip from an open file.
// The caller owns the file and closes it.
type FileSource struct {
	File afero.File

	streamer beep.StreamSeekCloser
}

// GetStreamer decodes the WAV header and returns the sample streamer
func (s *FileSource) GetStreamer() (beep.Streamer, beep.Format, error) {
	// Hide Close so the decoder never closes the file on a bad header.
	streamer, format, err := wav.Decode(struct{ io.ReadSeeker }{s.File})
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to decode WAV %s: %w", s.File.Name(), err)
	}
	s.streamer = streamer
	return streamer, format, nil
}

// Err reports a decoding error that happened while streaming
func (s *FileSource) Err() error {
	if s.streamer == nil {
		return nil
	}
	return s.streamer.Err()
}
