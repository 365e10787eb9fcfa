package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// extractionSchemaJSON is both the tool input schema sent with every
// extraction call and the contract the returned payload is validated
// against. Allowed enum values are described rather than enforced so
// that a novel model output degrades through the legacy-mapping
// defaults instead of failing the whole run.
const extractionSchemaJSON = `{
  "type": "object",
  "required": ["events", "action_items", "metadata"],
  "properties": {
    "events": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["event_type", "description", "primary_timestamp", "timestamp_precision", "participants", "child_involved"],
        "properties": {
          "event_type": {
            "type": "string",
            "description": "One of: schedule_violation, communication_issue, coparent_conflict, child_wellbeing, gatekeeping, caregiving, exchange_logistics, financial_dispute, legal_proceeding."
          },
          "description": {"type": "string"},
          "primary_timestamp": {
            "type": "string",
            "description": "ISO-8601 with the user's timezone offset."
          },
          "timestamp_precision": {
            "type": "string",
            "description": "One of: exact, day, approximate, unknown."
          },
          "duration_minutes": {"type": "integer", "nullable": true},
          "location": {"type": "string"},
          "participants": {
            "type": "object",
            "required": ["primary"],
            "properties": {
              "primary": {"type": "array", "items": {"type": "string"}},
              "witnesses": {"type": "array", "items": {"type": "string"}},
              "professionals": {"type": "array", "items": {"type": "string"}}
            }
          },
          "child_involved": {"type": "boolean"},
          "evidence_mentions": {"type": "array", "items": {"type": "string"}},
          "child_statements": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["child_name", "statement"],
              "properties": {
                "child_name": {"type": "string"},
                "statement": {"type": "string"},
                "context": {"type": "string"}
              }
            }
          },
          "coparent_tone": {
            "type": "object",
            "nullable": true,
            "required": ["tone"],
            "properties": {
              "tone": {"type": "string"},
              "indicators": {"type": "array", "items": {"type": "string"}}
            }
          },
          "patterns": {"type": "array", "items": {"type": "string"}},
          "welfare_impact": {
            "type": "object",
            "nullable": true,
            "required": ["category", "direction"],
            "properties": {
              "category": {"type": "string"},
              "direction": {
                "type": "string",
                "description": "One of: positive, neutral, negative."
              },
              "severity": {
                "type": "string",
                "nullable": true,
                "description": "One of: minimal, moderate, significant. Null when direction is not negative."
              }
            }
          }
        }
      }
    },
    "action_items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "priority"],
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"},
          "priority": {
            "type": "string",
            "description": "One of: low, medium, high, urgent."
          },
          "type": {"type": "string"},
          "deadline": {"type": "string", "description": "ISO-8601 date, if any."}
        }
      }
    },
    "metadata": {
      "type": "object",
      "properties": {
        "summary": {"type": "string"},
        "overall_tone": {"type": "string"},
        "flags": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`

const summarySchemaJSON = `{
  "type": "object",
  "required": ["summary", "tags"],
  "properties": {
    "summary": {"type": "string", "description": "Two to three factual sentences."},
    "tags": {"type": "array", "items": {"type": "string"}}
  }
}`

var extractionCheck = mustSchema(extractionSchemaJSON)

func mustSchema(raw string) *openapi3.Schema {
	var schema openapi3.Schema
	if err := schema.UnmarshalJSON([]byte(raw)); err != nil {
		panic(fmt.Sprintf("invalid extraction schema: %v", err))
	}
	return &schema
}

func extractionSchema() json.RawMessage {
	return json.RawMessage(extractionSchemaJSON)
}

func summarySchema() json.RawMessage {
	return json.RawMessage(summarySchemaJSON)
}

func validateExtraction(raw json.RawMessage) error {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("decode extraction payload: %w", err)
	}
	if err := extractionCheck.VisitJSON(value); err != nil {
		return fmt.Errorf("extraction payload violates schema: %w", err)
	}
	return nil
}
