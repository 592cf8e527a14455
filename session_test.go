package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_NotifiesSubscribersOnChange(t *testing.T) {
	s := NewSession()
	var got []string
	s.Subscribe(func(id string) { got = append(got, id) })
	s.Subscribe(func(id string) { got = append(got, "second:"+id) })

	s.SetIdentity("alice")
	assert.Equal(t, []string{"alice", "second:alice"}, got, "every subscriber sees the change")
	assert.Equal(t, "alice", s.Identity())

	s.Clear()
	assert.Equal(t, []string{"alice", "second:alice", "", "second:"}, got)
	assert.Equal(t, "", s.Identity())
}

func TestSession_SameIdentityDoesNotNotify(t *testing.T) {
	s := NewSession()
	calls := 0
	s.Subscribe(func(string) { calls++ })

	s.SetIdentity("alice")
	s.SetIdentity("alice")
	assert.Equal(t, 1, calls)

	s.Clear()
	s.Clear()
	assert.Equal(t, 2, calls)
}
