package models

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFormValidate(t *testing.T) {
	t.Run("all fields present", func(t *testing.T) {
		f := ParseRegisterForm(url.Values{
			"username":    {"  alice "},
			"password":    {"pw1"},
			"registerKey": {"cube"},
		})
		assert.Equal(t, "alice", f.Username)
		assert.NoError(t, f.Validate())
	})

	t.Run("blank fields are reported per field", func(t *testing.T) {
		f := ParseRegisterForm(url.Values{"username": {"   "}})
		err := f.Validate()
		require.Error(t, err)

		var verrs ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Len(t, verrs, 3)

		msgs := verrs.Messages()
		assert.Contains(t, msgs, "username")
		assert.Contains(t, msgs, "password")
		assert.Contains(t, msgs, "registerKey")
	})
}

func TestSingleFieldForms(t *testing.T) {
	assert.NoError(t, ParseRoomForm(url.Values{"name": {"party"}}).Validate())
	assert.Error(t, ParseRoomForm(url.Values{}).Validate())

	assert.NoError(t, ParseTaskForm(url.Values{"task": {"buy cake"}}).Validate())
	assert.Error(t, ParseTaskForm(url.Values{"task": {" "}}).Validate())

	assert.NoError(t, ParseCommentForm(url.Values{"text": {"hi"}}).Validate())
	assert.Error(t, ParseCommentForm(url.Values{}).Validate())

	assert.NoError(t, ParseLoginForm(url.Values{"username": {"a"}, "password": {"b"}}).Validate())
	assert.Error(t, ParseLoginForm(url.Values{"username": {"a"}}).Validate())
}

func TestValidationErrorsMessage(t *testing.T) {
	one := ValidationErrors{{Field: "name", Message: "This field is required."}}
	assert.Equal(t, "validation failed for name: This field is required.", one.Error())

	two := append(one, ValidationError{Field: "task", Message: "This field is required."})
	assert.Contains(t, two.Error(), "validation failed: ")
	assert.Contains(t, two.Error(), "task")
}

func TestRoomOwnedBy(t *testing.T) {
	var nilRoom *Room
	assert.False(t, nilRoom.OwnedBy(1))

	r := &Room{ID: 3, OwnerID: 7}
	assert.True(t, r.OwnedBy(7))
	assert.False(t, r.OwnedBy(8))
	assert.False(t, (&Room{}).OwnedBy(0))
}

func TestFormLengthLimits(t *testing.T) {
	tests := []struct {
		name  string
		form  interface{ Validate() error }
		field string
	}{
		{"username", RegisterForm{Username: strings.Repeat("u", MaxUsernameLen+1), Password: "pw", RegisterKey: "cube"}, "username"},
		{"room name", RoomForm{Name: strings.Repeat("r", MaxRoomNameLen+1)}, "name"},
		{"task", TaskForm{Task: strings.Repeat("t", MaxTaskLen+1)}, "task"},
		{"comment", CommentForm{Text: strings.Repeat("c", MaxCommentLen+1)}, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verrs ValidationErrors
			require.True(t, errors.As(tt.form.Validate(), &verrs))
			assert.Contains(t, verrs.Messages()[tt.field], "at most")
		})
	}

	// the limit counts characters, not bytes
	assert.NoError(t, TaskForm{Task: strings.Repeat("é", MaxTaskLen)}.Validate())
}
