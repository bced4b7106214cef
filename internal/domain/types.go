package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONB is a helper for handling JSONB columns in Postgres as a map.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("JSONB: unsupported scan source")
	}
	return json.Unmarshal(bytes, j)
}

// String returns the value under key if it is a non-empty string.
func (j JSONB) String(key string) string {
	if j == nil {
		return ""
	}
	s, _ := j[key].(string)
	return s
}

// Pagination
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(limit, offset int, total int64) Pagination {
	if limit <= 0 {
		return Pagination{TotalItems: total}
	}
	return Pagination{
		Page:       offset/limit + 1,
		Limit:      limit,
		TotalItems: total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
}
