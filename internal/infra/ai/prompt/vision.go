package prompt

import "fmt"

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are an image analysis service. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- labels: ranked visual labels for the image, best first, score in [0,1].
- text_blocks: every readable piece of text (engravings, stamps, serial numbers), one string per block. Empty array if none.
- logos: detected brand logos ranked by score in [0,1]. Empty array if none.
- colors: dominant colors as hex RGB with pixel fraction in [0,1].

Schema (example with empty values):
{
  "labels": [{"description": "<string>", "score": 0.0}],
  "text_blocks": ["<string>"],
  "logos": [{"description": "<string>", "score": 0.0}],
  "colors": [{"rgb": "#000000", "fraction": 0.0}]
}`
}

// GetUserPrompt builds a compact user message around an image URI.
func GetUserPrompt(imageURI string) string {
	return fmt.Sprintf("Analyze the image and respond with the JSON per schema. Image: %s", imageURI)
}
