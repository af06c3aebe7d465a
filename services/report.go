package services

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"pastillero-service/errs"
)

// Field names sent by the dispenser unit. The spaces and mixed case are part
// of the firmware's wire format.
const (
	FieldModule    = "modulo"
	FieldDispensed = "dispension pastilla"
	FieldPickedUp  = "Recogida pastilla"
)

const (
	MsgNoJSON        = "No se recibieron datos JSON"
	MsgMissingFields = "Faltan campos requeridos: modulo, dispension pastilla, Recogida pastilla"
	MsgBadModule     = "El campo modulo debe ser un número entero"
)

// timestampLayouts are tried in order; layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// DispenseReport is the validated content of one dispenser report.
type DispenseReport struct {
	Module      int
	DispensedAt time.Time
	PickedUpAt  time.Time
}

// ParseDispenseReport validates a raw request body from the dispenser unit.
// Every failure is a validation error.
func ParseDispenseReport(raw []byte) (DispenseReport, error) {
	var body map[string]json.RawMessage
	if len(bytes.TrimSpace(raw)) == 0 || json.Unmarshal(raw, &body) != nil || body == nil {
		return DispenseReport{}, errs.Validation(MsgNoJSON)
	}

	moduleRaw, hasModule := present(body, FieldModule)
	dispensedRaw, hasDispensed := present(body, FieldDispensed)
	pickedRaw, hasPicked := present(body, FieldPickedUp)
	if !hasModule || !hasDispensed || !hasPicked {
		return DispenseReport{}, errs.Validation(MsgMissingFields)
	}

	module, err := parseModule(moduleRaw)
	if err != nil {
		return DispenseReport{}, err
	}
	dispensedAt, err := parseTimestamp(FieldDispensed, dispensedRaw)
	if err != nil {
		return DispenseReport{}, err
	}
	pickedUpAt, err := parseTimestamp(FieldPickedUp, pickedRaw)
	if err != nil {
		return DispenseReport{}, err
	}

	return DispenseReport{Module: module, DispensedAt: dispensedAt, PickedUpAt: pickedUpAt}, nil
}

// present reports whether key holds a value the firmware would consider set:
// not null, not false, not an empty string and, for timestamps, not zero.
func present(body map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := body[key]
	if !ok {
		return nil, false
	}
	switch v := strings.TrimSpace(string(raw)); v {
	case "null", "false", `""`:
		return nil, false
	case "0":
		if key != FieldModule {
			return nil, false
		}
	}
	return raw, true
}

func parseModule(raw json.RawMessage) (int, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, errs.Validation(MsgBadModule)
	}

	var text string
	switch t := v.(type) {
	case json.Number:
		text = t.String()
	case string:
		text = strings.TrimSpace(t)
	default:
		return 0, errs.Validation(MsgBadModule)
	}

	if n, err := strconv.Atoi(text); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errs.Validation(MsgBadModule)
	}
	return int(f), nil
}

func parseTimestamp(field string, raw json.RawMessage) (time.Time, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return time.Time{}, errs.TimestampParse(field, string(raw), err)
	}

	switch t := v.(type) {
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			return time.Time{}, errs.TimestampParse(field, t.String(), err)
		}
		return time.UnixMilli(ms).UTC(), nil
	case string:
		return ParseTimestamp(field, t)
	default:
		return time.Time{}, errs.TimestampParse(field, string(raw), nil)
	}
}

// ParseTimestamp accepts RFC 3339 and the zone-less forms the dispenser
// firmware has sent over time.
func ParseTimestamp(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, errs.TimestampParse(field, value, lastErr)
}
