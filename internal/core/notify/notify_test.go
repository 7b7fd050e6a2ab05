package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDefaults_NewRequest(t *testing.T) {
	d := DefaultDefaults()

	r := d.NewRequest()

	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, LevelInfo, r.Level)
	assert.Equal(t, DefaultDuration, r.Duration)
	assert.True(t, r.Closable)
	assert.True(t, r.Indeterminate())
	assert.Equal(t, TransitionSlideAndFade, r.Transition)
	assert.Equal(t, MaterialAcrylic, r.Material)
	assert.False(t, r.IsUpdate)
}

func TestDefaults_NewRequest_fresh_ids(t *testing.T) {
	d := DefaultDefaults()
	assert.NotEqual(t, d.NewRequest().ID, d.NewRequest().ID)
}

func TestDefaults_UpdateRequest(t *testing.T) {
	d := DefaultDefaults()
	id := NewID()

	req := d.UpdateRequest(id)
	assert.Equal(t, id, req.ID)
	assert.True(t, req.IsUpdate)
	assert.Equal(t, DefaultDuration, req.Duration)
	assert.True(t, req.Closable)
	assert.True(t, req.Indeterminate())
	assert.Empty(t, req.Level)
	assert.Empty(t, req.Transition)
	assert.Empty(t, req.Material)
}

func TestRequest_IsDismissAll(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want bool
	}{
		{"nil id with dismiss", Request{ID: AllID, DismissRequested: true}, true},
		{"nil id without dismiss", Request{ID: AllID}, false},
		{"specific id", Request{ID: NewID(), DismissRequested: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.IsDismissAll())
		})
	}
}

func TestEnums_IsValid(t *testing.T) {
	assert.True(t, LevelSuccess.IsValid())
	assert.False(t, Level("fatal").IsValid())
	assert.True(t, TransitionScale.IsValid())
	assert.False(t, Transition("spin").IsValid())
	assert.True(t, MaterialMica.IsValid())
	assert.False(t, Material("glass").IsValid())
}
