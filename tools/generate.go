package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode"

	"github.com/Duckduckgot/gtts"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"shufflebox/catalog"
)

// Generates numbered clips (0001.wav, 0002.wav, ...) from a text file with one phrase per line.
func main() {
	phrases := flag.String("phrases", "phrases.txt", "text file with one phrase per line")
	out := flag.String("out", "audio/", "folder prefix for the generated clips")
	lang := flag.String("lang", "en", "speech language")
	flag.Parse()

	lines, err := readPhrases(*phrases)
	handleError(err)

	speech := gtts.Speech{Folder: os.TempDir(), Language: *lang}
	for i, text := range lines {
		path := catalog.Path(*out, i+1)
		handleError(Audio(speech, text, i+1, path))
		log.Printf("%s: %q", path, text)
	}
	log.Printf("Generated %d clips", len(lines))
}

// Audio synthesizes text and writes it to path as WAV
func Audio(speech gtts.Speech, text string, index int, path string) error {
	// replace special characters and spaces to create a valid filename
	name := fmt.Sprintf("%04d", index)
	if slug, err := toASCII(text); err == nil {
		name += "_" + slug
	}

	mp3Path, err := speech.CreateSpeechFile(text, name)
	if err != nil {
		return fmt.Errorf("failed to synthesize %q: %w", text, err)
	}
	defer os.Remove(mp3Path)

	return convert(mp3Path, path)
}

// convert decodes an MP3 file and re-encodes it as WAV
func convert(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}

	streamer, format, err := mp3.Decode(in)
	if err != nil {
		in.Close()
		return fmt.Errorf("failed to decode MP3 %s: %w", src, err)
	}
	defer streamer.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := wav.Encode(out, streamer, format); err != nil {
		return fmt.Errorf("failed to encode WAV %s: %w", dst, err)
	}
	return nil
}

func readPhrases(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func handleError(err error) {
	if err != nil {
		panic(fmt.Sprintf("Error generating audio: %s", err.Error()))
	}
}

func toASCII(str string) (string, error) {
	// Step 1: Decompose and remove diacritics (accents)
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)), // Remove non-spacing marks
	)
	normalized, _, err := transform.String(t, str)
	if err != nil {
		return "", err
	}

	// Step 2: Remove non-ASCII and non-alphanumeric characters
	filtered := strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, normalized)

	filtered = strings.TrimSpace(strings.ToLower(filtered))
	filtered = strings.Join(strings.Fields(filtered), "_")
	if len(filtered) > 40 {
		filtered = filtered[:40]
	}

	if filtered == "" {
		return "", fmt.Errorf("resulting filename is empty after processing")
	}

	return filtered, nil
}
