package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a []string stored as a JSONB array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	return scanJSON(src, (*[]string)(l))
}

// OrderDocuments is a []OrderDocument stored as a JSONB array.
type OrderDocuments []OrderDocument

// Value implements driver.Valuer.
func (d OrderDocuments) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]OrderDocument(d))
}

// Scan implements sql.Scanner.
func (d *OrderDocuments) Scan(src any) error {
	return scanJSON(src, (*[]OrderDocument)(d))
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", src)
	}
}
