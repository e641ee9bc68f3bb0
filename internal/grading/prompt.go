package grading

import (
	"fmt"
	"strings"
)

const promptTemplate = `You are an expert essay grader. Please grade the following essay based on the provided rubric criteria.

ESSAY:
%s

RUBRIC CRITERIA:
%s

For each criterion, you must:
1. Provide a score from 0-10
2. Write brief feedback explaining the score
3. Identify specific text spans in the essay that are relevant to this criterion (provide the EXACT text as it appears in the essay)

IMPORTANT: For the text spans, you must quote the EXACT text from the essay, word-for-word. This is critical for highlighting.

Please respond in the following JSON format:
{
  "criteria_results": [
    {
      "criterion": "CRITERION_ID",
      "score": 8,
      "feedback": "Brief explanation of the score",
      "highlights": [
        {
          "text": "exact text from essay that is relevant"
        }
      ]
    }
  ],
  "total_score": 75.5,
  "overall_feedback": "General comments about the essay"
}

Respond ONLY with valid JSON, no additional text.`

// BuildPrompt renders the grading instructions for an essay and its criteria
func BuildPrompt(essay string, criteria []Criterion) string {
	lines := make([]string, len(criteria))
	for i, c := range criteria {
		lines[i] = fmt.Sprintf("- %s: %s", c.ID, c.Description)
	}
	return fmt.Sprintf(promptTemplate, essay, strings.Join(lines, "\n"))
}
