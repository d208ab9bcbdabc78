package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	p := NewProgressTracker()

	p.Report("a", -5)
	v, ok := p.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 0, v)

	report := p.Reporter("a")
	report(40)
	report(20)
	v, _ = p.Get("a")
	assert.Equal(t, 40, v, "progress never goes backwards")

	report(250)
	p.Report("b", 10)
	assert.Equal(t, map[string]int{"a": 100, "b": 10}, p.Snapshot())

	p.Clear("a")
	_, ok = p.Get("a")
	assert.False(t, ok)
	assert.Equal(t, map[string]int{"b": 10}, p.Snapshot())
}

func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		base, raw, want string
	}{
		{"https://cdn.example.com", "/uploads/1.jpg", "https://cdn.example.com/uploads/1.jpg"},
		{"https://cdn.example.com/", "/uploads/1.jpg", "https://cdn.example.com/uploads/1.jpg"},
		{"https://cdn.example.com", "https://res.cloudinary.com/x/1.jpg", "https://res.cloudinary.com/x/1.jpg"},
		{"", "/uploads/1.jpg", "/uploads/1.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveImageURL(tt.base, tt.raw))
	}
}
