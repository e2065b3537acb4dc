package analysis

import (
	"encoding/base64"
	"log/slog"
	"os"

	"github.com/sashabaranov/go-openai"

	"github.com/launchlens/pdpaudit/models"
)

// imageParts loads the bundle's screenshots as inline data-URL image parts,
// in the profile's artifact order. Missing or unreadable files are skipped
// with a warning; the prompt legend is built from the same existence check so
// order and description stay aligned.
func imageParts(bundle *models.EvidenceBundle, profile string) []openai.ChatMessagePart {
	var parts []openai.ChatMessagePart
	for _, key := range models.ProfileKeys(profile) {
		path, ok := bundle.ArtifactPaths[key]
		if !ok {
			continue
		}
		url, err := dataURLPNG(path)
		if err != nil {
			slog.Warn("analysis: skipping unreadable screenshot",
				"key", key, "path", path, "error", err)
			continue
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    url,
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}
	return parts
}

// dataURLPNG inlines a PNG file as a base64 data URL.
func dataURLPNG(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
