package aggregator

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchemaDefinition is the JSON schema for a persisted ProcessingResult
// file. It is compiled once at package init and used to validate a file's
// bytes before Unmarshal during directory scans so a corrupt or
// half-written file is skipped rather than aborting the scan.
const resultSchemaDefinition = `{
  "type": "object",
  "required": ["task_id", "video_metadata", "video_path", "audio_path", "transcript", "summary", "processing_time", "created_at"],
  "properties": {
    "task_id": {"type": "string"},
    "video_metadata": {
      "type": "object",
      "required": ["url"],
      "properties": {
        "url": {"type": "string"},
        "title": {"type": ["string", "null"]},
        "duration": {"type": ["integer", "null"]},
        "platform": {"type": ["string", "null"]},
        "upload_date": {"type": ["string", "null"]},
        "channel": {"type": ["string", "null"]}
      }
    },
    "video_path": {"type": "string"},
    "audio_path": {"type": "string"},
    "transcript": {"type": "string"},
    "summary": {"type": "string"},
    "processing_time": {"type": "number"},
    "created_at": {"type": "string"},
    "status": {"type": "string"}
  }
}`

var resultSchemaCompiled *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultSchemaDefinition))
	if err != nil {
		// fix schema text - this can only fail on a program bug, not bad data
		panic(err)
	}
	resultSchemaCompiled = schema
}

func validateResultJSON(raw []byte) error {
	result, err := resultSchemaCompiled.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if !result.Valid() {
		if errs := result.Errors(); len(errs) > 0 {
			return fmt.Errorf("invalid result json: %v", errs[0])
		}
		return fmt.Errorf("invalid result json")
	}
	return nil
}
