package extract

// PromptVersion identifies the extraction instruction revision. Bump it
// whenever the prompt or the output schema changes shape.
const PromptVersion = "2024-10-subgroups"

// extractionPrompt is the fixed, versioned instruction given to the vision
// model. The cell-splitting rules live here, not in pipeline code: the model
// performs the numerator/denominator and subgroup split, and the pipeline
// validates whatever four course lists come back.
const extractionPrompt = `Parse this university schedule document and return ONLY a valid JSON object with this exact structure:
{
  "scheduleName": "Schedule or group name from the document, or 'Imported Schedule'",
  "subgroup1": {
    "numerator":   {"courses": [<course>, ...]},
    "denominator": {"courses": [<course>, ...]}
  },
  "subgroup2": {
    "numerator":   {"courses": [<course>, ...]},
    "denominator": {"courses": [<course>, ...]}
  }
}

Each <course> is:
{
  "title": "Course name",
  "type": "lecture|lab|seminar|exam|practice",
  "startTime": "HH:MM",
  "endTime": "HH:MM",
  "location": "Room/Building",
  "dayOfWeek": 0-6,
  "professor": "Professor name"
}

Splitting rules:
- A cell containing "//" describes two week variants: the part left of "//"
  goes to "numerator" (odd weeks), the part right of it to "denominator"
  (even weeks).
- A cell without "//" applies to both week variants: duplicate it into
  numerator and denominator.
- A timetable row with two side-by-side cells assigns the first cell to
  subgroup1 and the second to subgroup2.
- A row with a single cell applies to both subgroups: duplicate it.

Important rules:
- dayOfWeek: 0=Monday, 1=Tuesday, 2=Wednesday, 3=Thursday, 4=Friday, 5=Saturday, 6=Sunday
- type must be one of: lecture, lab, seminar, exam, practice
- Times must be in HH:MM format (24-hour)
- Return ONLY valid JSON, no markdown code blocks, no explanations
- If you cannot parse certain data, make reasonable assumptions
- Include all courses/classes you can identify in the schedule`

// outputSchema is the JSON-level contract for the model's response. It
// keeps field types honest (so the pipeline never sees a courses object
// where a list belongs) while staying permissive about semantics: bogus day
// numbers and off-grid times are the pipeline's job to catch.
const outputSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["scheduleName", "subgroup1", "subgroup2"],
  "properties": {
    "scheduleName": {"type": "string"},
    "subgroup1": {"$ref": "#/$defs/subgroup"},
    "subgroup2": {"$ref": "#/$defs/subgroup"}
  },
  "$defs": {
    "subgroup": {
      "type": "object",
      "properties": {
        "numerator": {"$ref": "#/$defs/variant"},
        "denominator": {"$ref": "#/$defs/variant"}
      }
    },
    "variant": {
      "type": "object",
      "properties": {
        "courses": {
          "type": "array",
          "items": {"$ref": "#/$defs/course"}
        }
      }
    },
    "course": {
      "type": "object",
      "properties": {
        "title": {"type": "string"},
        "type": {"type": "string"},
        "startTime": {"type": "string"},
        "endTime": {"type": "string"},
        "location": {"type": "string"},
        "dayOfWeek": {"type": ["integer", "string"]},
        "professor": {"type": "string"}
      }
    }
  }
}`
