// Package schemas embeds the JSON Schema documents used to validate
// structured documents before they are stored.
package schemas

import _ "embed"

// EvaluationTemplate is the schema an evaluation template document must
// satisfy: named sections of rating/text questions, rating questions
// carrying a grading scale of at least two labeled levels.
//
//go:embed evaluation_template.schema.json
var EvaluationTemplate []byte
