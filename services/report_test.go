package services

import (
	"testing"
	"time"

	"pastillero-service/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDispenseReport_Valid(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantModule int
		wantDisp   time.Time
		wantPick   time.Time
	}{
		{
			name:       "rfc3339",
			body:       `{"modulo":1,"dispension pastilla":"2024-01-01T08:00:00Z","Recogida pastilla":"2024-01-01T08:05:00Z"}`,
			wantModule: 1,
			wantDisp:   time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			wantPick:   time.Date(2024, 1, 1, 8, 5, 0, 0, time.UTC),
		},
		{
			name:       "offset and fraction",
			body:       `{"modulo":2,"dispension pastilla":"2024-01-01T03:00:00.250-05:00","Recogida pastilla":"2024-01-01T08:05:00.5Z"}`,
			wantModule: 2,
			wantDisp:   time.Date(2024, 1, 1, 8, 0, 0, 250000000, time.UTC),
			wantPick:   time.Date(2024, 1, 1, 8, 5, 0, 500000000, time.UTC),
		},
		{
			name:       "zone-less and string module",
			body:       `{"modulo":"2","dispension pastilla":"2024-01-01 08:00:00","Recogida pastilla":"2024-01-01T08:05:00"}`,
			wantModule: 2,
			wantDisp:   time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			wantPick:   time.Date(2024, 1, 1, 8, 5, 0, 0, time.UTC),
		},
		{
			name:       "epoch millis and float module",
			body:       `{"modulo":1.0,"dispension pastilla":1704096000000,"Recogida pastilla":1704096300000}`,
			wantModule: 1,
			wantDisp:   time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			wantPick:   time.Date(2024, 1, 1, 8, 5, 0, 0, time.UTC),
		},
		{
			name:       "pickup before dispense is accepted",
			body:       `{"modulo":0,"dispension pastilla":"2024-01-02","Recogida pastilla":"2024-01-01"}`,
			wantModule: 0,
			wantDisp:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			wantPick:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "extra keys are ignored",
			body:       `{"modulo":9,"dispension pastilla":"2024-01-01T08:00:00Z","Recogida pastilla":"2024-01-01T08:05:00Z","rssi":-70}`,
			wantModule: 9,
			wantDisp:   time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
			wantPick:   time.Date(2024, 1, 1, 8, 5, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := ParseDispenseReport([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantModule, report.Module)
			assert.True(t, tt.wantDisp.Equal(report.DispensedAt), "dispensedAt = %s", report.DispensedAt)
			assert.True(t, tt.wantPick.Equal(report.PickedUpAt), "pickedUpAt = %s", report.PickedUpAt)
		})
	}
}

func TestParseDispenseReport_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    errs.Kind
		message string
	}{
		{name: "empty body", body: ``, kind: errs.KindValidation, message: MsgNoJSON},
		{name: "not json", body: `modulo=1`, kind: errs.KindValidation, message: MsgNoJSON},
		{name: "json null", body: `null`, kind: errs.KindValidation, message: MsgNoJSON},
		{name: "json array", body: `[1,2]`, kind: errs.KindValidation, message: MsgNoJSON},
		{name: "empty object", body: `{}`, kind: errs.KindValidation, message: MsgMissingFields},
		{
			name:    "missing modulo",
			body:    `{"dispension pastilla":"2024-01-01T08:00:00Z","Recogida pastilla":"2024-01-01T08:05:00Z"}`,
			kind:    errs.KindValidation,
			message: MsgMissingFields,
		},
		{
			name:    "null modulo",
			body:    `{"modulo":null,"dispension pastilla":"2024-01-01T08:00:00Z","Recogida pastilla":"2024-01-01T08:05:00Z"}`,
			kind:    errs.KindValidation,
			message: MsgMissingFields,
		},
		{
			name:    "empty dispense",
			body:    `{"modulo":1,"dispension pastilla":"","Recogida pastilla":"2024-01-01T08:05:00Z"}`,
			kind:    errs.KindValidation,
			message: MsgMissingFields,
		},
		{
			name:    "missing pickup",
			body:    `{"modulo":1,"dispension pastilla":"2024-01-01T08:00:00Z"}`,
			kind:    errs.KindValidation,
			message: MsgMissingFields,
		},
		{
			name:    "camel case keys are not the wire format",
			body:    `{"modulo":1,"dispensionPastilla":"2024-01-01T08:00:00Z","recogidaPastilla":"2024-01-01T08:05:00Z"}`,
			kind:    errs.KindValidation,
			message: MsgMissingFields,
		},
		{
			name:    "module not a number",
			body:    `{"modulo":"uno","dispension pastilla":"2024-01-01T08:00:00Z","Recogida pastilla":"2024-01-01T08:05:00Z"}`,
			kind:    errs.KindValidation,
			message: MsgBadModule,
		},
		{
			name:    "fractional module",
			body:    `{"modulo":1.5,"dispension pastilla":"2024-01-01T08:00:00Z","Recogida pastilla":"2024-01-01T08:05:00Z"}`,
			kind:    errs.KindValidation,
			message: MsgBadModule,
		},
		{
			name: "malformed dispense time",
			body: `{"modulo":1,"dispension pastilla":"ayer","Recogida pastilla":"2024-01-01T08:05:00Z"}`,
			kind: errs.KindTimestampParse,
		},
		{
			name: "object pickup time",
			body: `{"modulo":1,"dispension pastilla":"2024-01-01T08:00:00Z","Recogida pastilla":{"h":8}}`,
			kind: errs.KindTimestampParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDispenseReport([]byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.KindOf(err))
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp(FieldDispensed, " 2024-06-30T23:59:59.999Z ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 30, 23, 59, 59, 999000000, time.UTC), got)

	_, err = ParseTimestamp(FieldPickedUp, "2024-13-01T00:00:00Z")
	assert.True(t, errs.Is(err, errs.KindTimestampParse))
}
