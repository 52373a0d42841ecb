package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/inkstone/panelscan/internal/detection"
	"github.com/inkstone/panelscan/internal/imaging"
	"github.com/inkstone/panelscan/internal/tm"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "detect_text_regions").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified
// tool. Tool execution errors return a JSON-RPC error response with code
// -32000; pipeline-level failures are carried inside successful results via
// their success flag.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	callID := uuid.NewString()
	s.log.Debugw("tool call", "call_id", callID, "tool", params.Name)

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warnw("tool call failed", "call_id", callID, "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": s.marshalResult(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "detect_text_regions":
		return s.handleDetectTextRegions(args)
	case "recognize_text":
		return s.handleRecognizeText(args)
	case "get_grouping_config":
		return s.svc.GroupingConfig(), nil
	case "set_grouping_config":
		return s.handleSetGroupingConfig(args)
	case "reset_grouping_config":
		return s.svc.ResetGroupingConfig(), nil
	case "score_against_memory":
		return s.handleScoreAgainstMemory(args)
	case "increment_usage":
		return s.handleIncrementUsage(args)
	case "quality_label":
		return s.handleQualityLabel(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// marshalResult renders a tool result as pretty-printed JSON.
func (s *Server) marshalResult(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.log.Errorw("failed to marshal tool result", "error", err)
		return ""
	}
	return string(b)
}

type detectTextRegionsArgs struct {
	ImageB64   string `json:"image_b64"`
	ScriptHint string `json:"script_hint"`
}

func (s *Server) handleDetectTextRegions(args json.RawMessage) (interface{}, error) {
	var a detectTextRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	payload, err := imaging.DecodeBase64(a.ImageB64)
	if err != nil {
		return nil, err
	}
	return s.svc.DetectRegions(payload, a.ScriptHint), nil
}

type recognizeTextArgs struct {
	ImageB64 string `json:"image_b64"`
}

func (s *Server) handleRecognizeText(args json.RawMessage) (interface{}, error) {
	var a recognizeTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	payload, err := imaging.DecodeBase64(a.ImageB64)
	if err != nil {
		return nil, err
	}
	return s.svc.RecognizeText(payload), nil
}

func (s *Server) handleSetGroupingConfig(args json.RawMessage) (interface{}, error) {
	patch, err := detection.ParsePatch(args)
	if err != nil {
		return nil, err
	}
	return s.svc.UpdateGroupingConfig(patch)
}

type scoreAgainstMemoryArgs struct {
	Text      string     `json:"text"`
	Corpus    []tm.Entry `json:"corpus"`
	SeriesID  string     `json:"series_id"`
	TopK      int        `json:"top_k"`
	Threshold float64    `json:"threshold"`
}

func (s *Server) handleScoreAgainstMemory(args json.RawMessage) (interface{}, error) {
	var a scoreAgainstMemoryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.SeriesID != "" {
		return s.svc.ScoreAgainstSeries(context.Background(), a.SeriesID, a.Text, a.TopK, a.Threshold)
	}
	return s.svc.ScoreAgainstMemory(a.Text, a.Corpus, a.TopK, a.Threshold), nil
}

type incrementUsageArgs struct {
	EntryID string `json:"entry_id"`
}

func (s *Server) handleIncrementUsage(args json.RawMessage) (interface{}, error) {
	var a incrementUsageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.EntryID == "" {
		return nil, fmt.Errorf("entry_id is required")
	}
	if err := s.svc.MarkEntryUsed(context.Background(), a.EntryID); err != nil {
		return nil, err
	}
	return map[string]interface{}{"success": true, "entry_id": a.EntryID}, nil
}

type qualityLabelArgs struct {
	Score float64 `json:"score"`
}

func (s *Server) handleQualityLabel(args json.RawMessage) (interface{}, error) {
	var a qualityLabelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return tm.QualityFor(a.Score), nil
}
