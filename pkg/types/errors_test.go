package types

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesSentinelOfKind(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		sentinel error
	}{
		{KindNotFound, ErrNotFound},
		{KindInvalidArgument, ErrInvalidArgument},
		{KindParse, ErrParse},
		{KindIO, ErrIO},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := NewError(tt.kind, "op", "", "boom")
			assert.ErrorIs(t, err, tt.sentinel)

			wrapped := fmt.Errorf("outer: %w", err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.kind, KindOf(wrapped))
		})
	}
}

func TestError_DoesNotMatchOtherKinds(t *testing.T) {
	err := NewError(KindParse, "read", "/tmp/x", "bad json")
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrIO)
}

func TestWrapError_UnwrapsToCause(t *testing.T) {
	err := WrapError(KindNotFound, "read preferences", "/p/Default/Preferences", fs.ErrNotExist)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "read preferences /p/Default/Preferences: file does not exist", err.Error())
}

func TestError_MessageFormatting(t *testing.T) {
	assert.Equal(t, "add argument: nope", NewError(KindInvalidArgument, "add argument", "", "nope").Error())

	err := &Error{Kind: KindIO, Op: "write", Path: "/a", Msg: "rename", Err: errors.New("denied")}
	assert.Equal(t, "write /a: rename: denied", err.Error())
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}
