package server

// groupingConfigProperties builds the JSON schema for the grouping
// configuration surface. Every parameter is a non-negative number except the
// integer minimum text length.
func groupingConfigProperties() map[string]interface{} {
	props := make(map[string]interface{})
	for _, key := range []string{
		"max_horizontal_gap_pixels",
		"max_vertical_gap_pixels",
		"max_horizontal_gap_multiplier",
		"max_vertical_gap_multiplier",
		"same_line_vertical_threshold",
		"same_line_horizontal_gap_multiplier",
		"vertical_stack_horizontal_threshold",
		"vertical_stack_gap_multiplier",
		"nearby_vertical_threshold",
		"nearby_horizontal_threshold",
		"nearby_gap_multiplier",
		"min_token_area",
		"confidence_boost",
	} {
		props[key] = map[string]interface{}{"type": "number", "minimum": 0}
	}
	props["min_token_text_len"] = map[string]interface{}{"type": "integer", "minimum": 0}
	return props
}

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools.
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "detect_text_regions",
			Description: "Run the full recognition pipeline over an image: ensemble OCR, confidence filtering, spatial grouping, and region assembly. Returns merged text regions with bounding boxes plus the detected dominant script.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_b64": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded image payload (data-URL prefix tolerated)",
					},
					"script_hint": map[string]interface{}{
						"type":        "string",
						"description": "Optional script hint, e.g. 'kor', 'jpn', 'chi_sim', 'vie'",
					},
				},
				"required": []string{"image_b64"},
			},
		},
		{
			Name:        "recognize_text",
			Description: "Extract filtered text from an image without spatial grouping, for simple extraction use cases.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_b64": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded image payload",
					},
				},
				"required": []string{"image_b64"},
			},
		},
		{
			Name:        "get_grouping_config",
			Description: "Return the current spatial grouping configuration.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "set_grouping_config",
			Description: "Apply a partial update to the grouping configuration. Unknown keys and negative values are rejected. Returns the resulting configuration.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": groupingConfigProperties(),
			},
		},
		{
			Name:        "reset_grouping_config",
			Description: "Restore the default grouping configuration and return it.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "score_against_memory",
			Description: "Rank a text against a translation-memory corpus snapshot using hybrid fuzzy similarity. Returns the best score and the top matches.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Query text, typically freshly recognized",
					},
					"corpus": map[string]interface{}{
						"type":        "array",
						"description": "Translation-memory entries: {id, source_text, target_text, context, usage_count}",
						"items":       map[string]interface{}{"type": "object"},
					},
					"series_id": map[string]interface{}{
						"type":        "string",
						"description": "Fetch the stored corpus for this series instead of passing it inline (requires a configured database)",
					},
					"top_k": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum matches to return (default 5)",
						"default":     5,
					},
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Minimum similarity to keep (default 0.3)",
						"default":     0.3,
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "increment_usage",
			Description: "Signal that a translation-memory entry was reused, bumping its stored usage counter (requires a configured database).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"entry_id": map[string]interface{}{
						"type":        "string",
						"description": "ID of the translation-memory entry that was used",
					},
				},
				"required": []string{"entry_id"},
			},
		},
		{
			Name:        "quality_label",
			Description: "Bucket a similarity score into a human-readable match quality label with a UI color tag.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"score": map[string]interface{}{
						"type":        "number",
						"description": "Similarity score in [0,1]",
					},
				},
				"required": []string{"score"},
			},
		},
	}
}
