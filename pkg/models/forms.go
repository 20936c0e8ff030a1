package models

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Field length limits
const (
	MaxUsernameLen = 64
	MaxRoomNameLen = 100
	MaxTaskLen     = 200
	MaxCommentLen  = 500
)

// ValidationError describes one invalid form field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field of a form
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// Messages returns the field messages keyed by field name, for templates
func (e ValidationErrors) Messages() map[string]string {
	out := make(map[string]string, len(e))
	for _, err := range e {
		out[err.Field] = err.Message
	}
	return out
}

// required appends an error when value is blank
func required(errs ValidationErrors, field, value string) ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return append(errs, ValidationError{Field: field, Message: "This field is required."})
	}
	return errs
}

// maxLength appends an error when value has more than n characters
func maxLength(errs ValidationErrors, field, value string, n int) ValidationErrors {
	if utf8.RuneCountInString(value) > n {
		return append(errs, ValidationError{Field: field, Message: fmt.Sprintf("Must be at most %d characters.", n)})
	}
	return errs
}

// asError keeps a nil interface when there are no errors
func asError(errs ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// RegisterForm is the payload of POST /register
type RegisterForm struct {
	Username    string
	Password    string
	RegisterKey string
}

// ParseRegisterForm reads the register fields from a parsed form
func ParseRegisterForm(v url.Values) RegisterForm {
	return RegisterForm{
		Username:    strings.TrimSpace(v.Get("username")),
		Password:    v.Get("password"),
		RegisterKey: strings.TrimSpace(v.Get("registerKey")),
	}
}

func (f RegisterForm) Validate() error {
	var errs ValidationErrors
	errs = required(errs, "username", f.Username)
	errs = maxLength(errs, "username", f.Username, MaxUsernameLen)
	errs = required(errs, "password", f.Password)
	errs = required(errs, "registerKey", f.RegisterKey)
	return asError(errs)
}

// LoginForm is the payload of POST /login
type LoginForm struct {
	Username string
	Password string
}

func ParseLoginForm(v url.Values) LoginForm {
	return LoginForm{
		Username: strings.TrimSpace(v.Get("username")),
		Password: v.Get("password"),
	}
}

func (f LoginForm) Validate() error {
	var errs ValidationErrors
	errs = required(errs, "username", f.Username)
	errs = required(errs, "password", f.Password)
	return asError(errs)
}

// RoomForm creates a room ("Create an Event")
type RoomForm struct {
	Name string
}

func ParseRoomForm(v url.Values) RoomForm {
	return RoomForm{Name: strings.TrimSpace(v.Get("name"))}
}

func (f RoomForm) Validate() error {
	errs := required(nil, "name", f.Name)
	return asError(maxLength(errs, "name", f.Name, MaxRoomNameLen))
}

// TaskForm adds or edits a task
type TaskForm struct {
	Task string
}

func ParseTaskForm(v url.Values) TaskForm {
	return TaskForm{Task: strings.TrimSpace(v.Get("task"))}
}

func (f TaskForm) Validate() error {
	errs := required(nil, "task", f.Task)
	return asError(maxLength(errs, "task", f.Task, MaxTaskLen))
}

// CommentForm posts a comment into the current room
type CommentForm struct {
	Text string
}

func ParseCommentForm(v url.Values) CommentForm {
	return CommentForm{Text: strings.TrimSpace(v.Get("text"))}
}

func (f CommentForm) Validate() error {
	errs := required(nil, "text", f.Text)
	return asError(maxLength(errs, "text", f.Text, MaxCommentLen))
}
