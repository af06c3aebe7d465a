package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{Validation("missing"), http.StatusBadRequest},
		{TimestampParse("dispension pastilla", "ayer", errors.New("bad")), http.StatusBadRequest},
		{NotFound("none"), http.StatusNotFound},
		{StoreUnavailable("insert", nil), http.StatusInternalServerError},
		{StoreRead("find", errors.New("boom")), http.StatusInternalServerError},
		{StoreWrite("insert", errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Status())
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "boom", StoreWrite("insert", errors.New("boom")).Public())
	assert.Equal(t, ErrNoConnection.Error(), StoreUnavailable("insert", nil).Public())
	assert.Equal(t, "insert: boom", StoreWrite("insert", errors.New("boom")).Error())
}

func TestKindOfWrapped(t *testing.T) {
	cause := errors.New("socket closed")
	err := fmt.Errorf("seed: %w", StoreUnavailable("insert pills", cause))

	assert.Equal(t, KindStoreUnavailable, KindOf(err))
	assert.True(t, Is(err, KindStoreUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, Kind(""), KindOf(cause))
}
