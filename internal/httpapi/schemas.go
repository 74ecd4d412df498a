// internal/httpapi/schemas.go
package httpapi

import "leadgen/internal/common/validation"

var (
	querySchema = validation.MustCompile("query", `{
		"type": "object",
		"properties": {
			"query": {"type": "string", "maxLength": 200}
		},
		"required": ["query"],
		"additionalProperties": false
	}`)

	locationSchema = validation.MustCompile("location", `{
		"type": "object",
		"properties": {
			"mode": {"type": "string", "enum": ["city", "address", "route", "radius", "near_me"]},
			"city": {"type": "string", "maxLength": 100},
			"address": {"type": "string", "maxLength": 300},
			"routeStart": {"type": "string", "maxLength": 300},
			"routeEnd": {"type": "string", "maxLength": 300},
			"radiusCenter": {"type": "string", "maxLength": 300},
			"radiusKm": {"type": "number", "minimum": 0, "maximum": 500}
		},
		"required": ["mode"],
		"additionalProperties": false
	}`)

	geolocationSchema = validation.MustCompile("geolocation", `{
		"type": "object",
		"properties": {
			"lat": {"type": "number", "minimum": -90, "maximum": 90},
			"lng": {"type": "number", "minimum": -180, "maximum": 180},
			"error": {"type": "string", "maxLength": 200}
		},
		"oneOf": [
			{"required": ["lat", "lng"]},
			{"required": ["error"]}
		],
		"additionalProperties": false
	}`)

	filterSchema = validation.MustCompile("filter", `{
		"type": "object",
		"properties": {
			"filter": {"type": "string", "maxLength": 200}
		},
		"required": ["filter"],
		"additionalProperties": false
	}`)

	idSchema = validation.MustCompile("id", `{
		"type": "object",
		"properties": {
			"id": {"type": "string", "minLength": 1, "maxLength": 100}
		},
		"required": ["id"],
		"additionalProperties": false
	}`)

	mapViewSchema = validation.MustCompile("mapView", `{
		"type": "object",
		"properties": {
			"lat": {"type": "number", "minimum": -90, "maximum": 90},
			"lng": {"type": "number", "minimum": -180, "maximum": 180},
			"zoom": {"type": "integer", "minimum": 0, "maximum": 22}
		},
		"required": ["lat", "lng", "zoom"],
		"additionalProperties": false
	}`)
)

type queryRequest struct {
	Query string `json:"query"`
}

type geolocationRequest struct {
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
	Error string   `json:"error"`
}

type filterRequest struct {
	Filter string `json:"filter"`
}

type idRequest struct {
	ID string `json:"id"`
}

type mapViewRequest struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}
