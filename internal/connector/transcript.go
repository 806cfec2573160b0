package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/omnibridge/omnibridge/internal/bridge"
)

// DefaultTranscriptLayer is the layer transcript records are filed into.
const DefaultTranscriptLayer = "audio_transcripts"

// speakerTurn matches lines like "SPEAKER_01: ..." or "Judge: ...".
var speakerTurn = regexp.MustCompile(`(?m)^[A-Za-z0-9 _.-]{1,32}:`)

// Transcript loads pre-generated transcripts (plain .txt/.vtt text or
// WhisperX-style .json segment files) and forwards them as entries
// annotated with approximate token counts.
type Transcript struct {
	Root   string
	Layer  string // defaults to DefaultTranscriptLayer
	Source string // defaults to "WHISPERX"

	enc *tiktoken.Tiktoken
}

// Domain implements Connector.
func (t *Transcript) Domain() string {
	if t.Layer == "" {
		return DefaultTranscriptLayer
	}
	return t.Layer
}

// Ingest implements Connector. A malformed JSON transcript yields an
// error entry for that file; only a missing root fails the batch.
func (t *Transcript) Ingest(ctx context.Context) ([]bridge.Entry, error) {
	if _, err := os.Stat(t.Root); err != nil {
		return nil, fmt.Errorf("transcript connector: stat root: %w", err)
	}

	var entries []bridge.Entry
	err := filepath.WalkDir(t.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".vtt":
			if e, ok := t.fromText(path); ok {
				entries = append(entries, e)
			}
		case ".json":
			entries = append(entries, t.fromJSON(path)...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("transcript connector: walk %s: %w", t.Root, err)
	}
	return entries, nil
}

// SourceName identifies the evidence source entries are attributed to.
func (t *Transcript) SourceName() string {
	if t.Source == "" {
		return "WHISPERX"
	}
	return t.Source
}

func (t *Transcript) fromText(path string) (bridge.Entry, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return bridge.Entry{}, false
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return bridge.Entry{}, false
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	e := bridge.NewEntry(t.Domain(), t.SourceName(), stem+": "+text).
		WithCategory("transcript").
		WithMetadata("tokens", fmt.Sprintf("%d", t.countTokens(text))).
		WithMetadata("speaker_turns", fmt.Sprintf("%d", len(speakerTurn.FindAllString(text, -1))))
	return e, true
}

// transcriptSegment is one diarized span of a WhisperX JSON transcript.
type transcriptSegment struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

func (t *Transcript) fromJSON(path string) []bridge.Entry {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var payload struct {
		Segments []transcriptSegment `json:"segments"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		alert := bridge.NewEntry("ingestion_alerts", t.SourceName(),
			fmt.Sprintf("Failed to parse %s: %v", filepath.Base(path), err))
		return []bridge.Entry{alert.WithCategory("alert")}
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var entries []bridge.Entry
	for _, seg := range payload.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		speaker := seg.Speaker
		if speaker == "" {
			speaker = "unknown"
		}
		content := fmt.Sprintf("%s [%.2f-%.2f] %s: %s", stem, seg.Start, seg.End, speaker, text)
		e := bridge.NewEntry(t.Domain(), t.SourceName(), content).
			WithCategory("transcript").
			WithMetadata("tokens", fmt.Sprintf("%d", t.countTokens(text))).
			WithMetadata("speaker", speaker)
		entries = append(entries, e)
	}
	return entries
}

// countTokens approximates token usage with the cl100k_base encoding.
// If the encoding cannot be loaded, a whitespace split stands in.
func (t *Transcript) countTokens(text string) int {
	if t.enc == nil {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return len(strings.Fields(text))
		}
		t.enc = enc
	}
	return len(t.enc.Encode(text, nil, nil))
}
