package grid

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownAction is returned when an encoded action names no known type.
var ErrUnknownAction = errors.New("unknown action type")

// envelope is the wire form of an action: {"type": "...", "payload": ...}.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeActions decodes a single encoded action or an array of them.
func DecodeActions(data []byte) ([]Action, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty action body")
	}

	var envs []envelope
	if data[0] == '[' {
		if err := json.Unmarshal(data, &envs); err != nil {
			return nil, fmt.Errorf("decode action list: %w", err)
		}
	} else {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decode action: %w", err)
		}
		envs = []envelope{env}
	}

	actions := make([]Action, 0, len(envs))
	for i, env := range envs {
		a, err := decodeEnvelope(env)
		if err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, env.Type, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func decodeEnvelope(env envelope) (Action, error) {
	switch env.Type {
	case "SET_DATA":
		var rows []Row
		if err := decodePayload(env.Payload, &rows); err != nil {
			return nil, err
		}
		return SetData{Rows: rows}, nil

	case "SET_LOADING":
		var v bool
		if err := decodePayload(env.Payload, &v); err != nil {
			return nil, err
		}
		return SetLoading{Loading: v}, nil

	case "SET_ERROR":
		var msg *string
		if err := decodePayload(env.Payload, &msg); err != nil {
			return nil, err
		}
		if msg == nil {
			return SetError{}, nil
		}
		return SetError{Message: *msg}, nil

	case "SET_COLUMNS":
		var cols []Column
		if err := decodePayload(env.Payload, &cols); err != nil {
			return nil, err
		}
		return SetColumns{Columns: cols}, nil

	case "TOGGLE_COLUMN_VISIBILITY":
		var field string
		if err := decodePayload(env.Payload, &field); err != nil {
			return nil, err
		}
		return ToggleColumnVisibility{Field: field}, nil

	case "REORDER_COLUMNS":
		var p struct{ From, To int }
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return ReorderColumns{From: p.From, To: p.To}, nil

	case "RESIZE_COLUMN":
		var p struct {
			Field string `json:"field"`
			Width int    `json:"width"`
		}
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return ResizeColumn{Field: p.Field, Width: p.Width}, nil

	case "SET_SORT":
		var model SortModel
		if err := decodePayload(env.Payload, &model); err != nil {
			return nil, err
		}
		for _, key := range model {
			if key.Sort != Asc && key.Sort != Desc {
				return nil, fmt.Errorf("invalid sort direction %q", key.Sort)
			}
		}
		return SetSort{Model: model}, nil

	case "TOGGLE_SORT":
		var field string
		if err := decodePayload(env.Payload, &field); err != nil {
			return nil, err
		}
		return ToggleSortColumn{Field: field}, nil

	case "SET_FILTER":
		var p struct {
			Field    string   `json:"field"`
			Value    any      `json:"value"`
			Operator Operator `json:"operator"`
		}
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		if !p.Operator.Valid() {
			return nil, fmt.Errorf("invalid filter operator %q", p.Operator)
		}
		return SetFilter{Field: p.Field, Value: p.Value, Operator: p.Operator}, nil

	case "CLEAR_FILTERS":
		return ClearFilters{}, nil

	case "SET_SEARCH":
		var q string
		if err := decodePayload(env.Payload, &q); err != nil {
			return nil, err
		}
		return SetSearch{Query: q}, nil

	case "SET_PAGINATION":
		var p struct {
			Page     *int `json:"page"`
			PageSize *int `json:"pageSize"`
		}
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return SetPagination{Page: p.Page, PageSize: p.PageSize}, nil

	case "SELECT_ROW":
		var id any
		if err := decodePayload(env.Payload, &id); err != nil {
			return nil, err
		}
		return SelectRow{ID: Stringify(id)}, nil

	case "SELECT_ALL_ROWS":
		var v bool
		if err := decodePayload(env.Payload, &v); err != nil {
			return nil, err
		}
		return SelectAllRows{Select: v}, nil

	case "CLEAR_SELECTION":
		return ClearSelection{}, nil

	case "SET_DENSITY":
		var d Density
		if err := decodePayload(env.Payload, &d); err != nil {
			return nil, err
		}
		if !d.Valid() {
			return nil, fmt.Errorf("invalid density %q", d)
		}
		return SetDensity{Density: d}, nil

	case "START_EDIT_CELL":
		var p struct {
			RowID any    `json:"rowId"`
			Field string `json:"field"`
		}
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return StartEditCell{RowID: Stringify(p.RowID), Field: p.Field}, nil

	case "END_EDIT_CELL":
		return EndEditCell{}, nil

	case "PIN_COLUMN":
		var p struct {
			Field string  `json:"field"`
			Side  *string `json:"side"`
		}
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		side := PinNone
		if p.Side != nil {
			side = PinSide(*p.Side)
		}
		if side != PinNone && side != PinLeft && side != PinRight {
			return nil, fmt.Errorf("invalid pin side %q", side)
		}
		return PinColumn{Field: p.Field, Side: side}, nil

	case "APPLY_PREFERENCES":
		var p Preferences
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return ApplyPreferences{Preferences: p, Layout: true}, nil

	default:
		return nil, ErrUnknownAction
	}
}

// decodePayload decodes a payload keeping JSON numbers exact.
func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("missing payload")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
