package editor

import (
	"testing"

	"github.com/folio-dev/folio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachments(t *testing.T) {
	a := NewAttachments()

	first := a.Attach("home.profile_picture", models.FileUpload{FileName: "a.png", Data: []byte("a")})
	second := a.Attach("home.profile_picture", models.FileUpload{FileName: "b.png", Data: []byte("b")})
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, a.Len())

	_, ok := a.Preview(first)
	assert.False(t, ok, "replaced file must no longer be previewable")

	file, ok := a.Preview(second)
	require.True(t, ok)
	assert.Equal(t, "b.png", file.FileName)

	pending, ok := a.Pending("home.profile_picture")
	require.True(t, ok)
	assert.Equal(t, []byte("b"), pending.Data)
	assert.Equal(t, second, a.PreviewID("home.profile_picture"))

	a.Clear("home.profile_picture")
	_, ok = a.Pending("home.profile_picture")
	assert.False(t, ok)
	assert.Empty(t, a.PreviewID("home.profile_picture"))
	assert.Zero(t, a.Len())
}
