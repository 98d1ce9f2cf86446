package searchapi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
)

// Response is a decoded search endpoint payload
type Response struct {
	Count         int
	Items         []domain.Result
	HasMore       bool
	LastTimestamp string
}

// Empty reports a successful search without hits
func (r *Response) Empty() bool {
	return r == nil || len(r.Items) == 0
}

type envelope struct {
	Data payload `json:"data"`
}

type payload struct {
	Count         int               `json:"count"`
	Items         []json.RawMessage `json:"items"`
	HasMore       bool              `json:"has_more,omitempty"`
	LastTimestamp string            `json:"last_timestamp,omitempty"`
}

// keys decoded into typed Result fields; everything else lands in Fields
var knownKeys = map[string]bool{
	"id":          true,
	"type":        true,
	"lat":         true,
	"lon":         true,
	"relevance":   true,
	"title":       true,
	"url":         true,
	"address":     true,
	"description": true,
}

// DecodeResponse parses the `{data: {...}}` envelope
func DecodeResponse(body []byte) (*Response, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	resp := &Response{
		Count:         env.Data.Count,
		HasMore:       env.Data.HasMore,
		LastTimestamp: env.Data.LastTimestamp,
		Items:         make([]domain.Result, 0, len(env.Data.Items)),
	}
	for i, raw := range env.Data.Items {
		r, err := decodeResult(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode item %d: %w", i, err)
		}
		resp.Items = append(resp.Items, r)
	}
	return resp, nil
}

func decodeResult(raw json.RawMessage) (domain.Result, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.Result{}, err
	}

	var r domain.Result
	var kind string
	decodeString(fields["id"], &r.ID)
	decodeString(fields["type"], &kind)
	decodeString(fields["title"], &r.Title)
	decodeString(fields["url"], &r.URL)
	decodeString(fields["address"], &r.Address)
	decodeString(fields["description"], &r.Description)
	r.Type = domain.ParseResultType(kind)
	r.Lat = decodeCoord(fields["lat"])
	r.Lon = decodeCoord(fields["lon"])
	if rel := decodeCoord(fields["relevance"]); rel != nil && *rel > 0 {
		r.Relevance = *rel
	}

	if r.ID == "" {
		var portal, slug string
		decodeString(fields["portal"], &portal)
		decodeString(fields["slug"], &slug)
		if slug == "" {
			return domain.Result{}, fmt.Errorf("item has neither id nor slug")
		}
		r.ID = domain.MakeID(portal, r.Type, slug)
	}

	for k, v := range fields {
		if knownKeys[k] {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			continue
		}
		if r.Fields == nil {
			r.Fields = make(map[string]any)
		}
		r.Fields[k] = val
	}
	return r, nil
}

func decodeString(raw json.RawMessage, dst *string) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

// decodeCoord accepts numbers and numeric strings; null and garbage yield nil
func decodeCoord(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return &v
		}
	}
	return nil
}

// EncodeResult renders a result in the endpoint's item format
func EncodeResult(r domain.Result) map[string]any {
	item := make(map[string]any, len(r.Fields)+9)
	for k, v := range r.Fields {
		item[k] = v
	}
	item["id"] = r.ID
	item["type"] = r.Type.String()
	item["relevance"] = r.Relevance
	item["title"] = r.Title
	item["url"] = r.URL
	item["address"] = r.Address
	item["description"] = r.Description
	if r.HasLocation() {
		item["lat"] = *r.Lat
		item["lon"] = *r.Lon
	} else {
		item["lat"] = nil
		item["lon"] = nil
	}
	return item
}

// EncodeResponse renders a full endpoint payload
func EncodeResponse(resp Response) ([]byte, error) {
	items := make([]map[string]any, 0, len(resp.Items))
	for _, r := range resp.Items {
		items = append(items, EncodeResult(r))
	}
	return json.Marshal(map[string]any{
		"data": map[string]any{
			"count":          resp.Count,
			"items":          items,
			"has_more":       resp.HasMore,
			"last_timestamp": resp.LastTimestamp,
		},
	})
}
