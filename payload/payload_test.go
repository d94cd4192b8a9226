package payload

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"wardrobe-matcher/apperror"
	"wardrobe-matcher/models"
)

func image(name string) models.UploadedImage {
	return models.UploadedImage{Filename: name, MimeType: "image/jpeg", Data: []byte("jpeg:" + name)}
}

func TestAssemble_PartCountAndAdjacency(t *testing.T) {
	a := NewAssembler(PolicyCategory)

	for n := 0; n <= MaxImages; n++ {
		t.Run(fmt.Sprintf("%d images", n), func(t *testing.T) {
			images := make([]models.UploadedImage, n)
			for i := range images {
				images[i] = image(fmt.Sprintf("top_%d.jpg", i))
			}

			p, err := a.Assemble(images, models.RequestConfig{Style: "casual"})
			require.NoError(t, err)
			require.Len(t, p.Parts, 2*n+1)

			for i, img := range images {
				label := p.Parts[2*i]
				inline := p.Parts[2*i+1]
				assert.Equal(t, fmt.Sprintf("Category:top,ID:%d", i), label.Text)
				assert.Nil(t, label.InlineData)
				require.NotNil(t, inline.InlineData)
				assert.Equal(t, img.Data, inline.InlineData.Data)
				assert.Equal(t, "image/jpeg", inline.InlineData.MIMEType)
			}
			assert.Equal(t, "Style:casual,Event:none,Weather:none", p.Parts[len(p.Parts)-1].Text)
		})
	}
}

func TestAssemble_DefaultsAllFieldsToNone(t *testing.T) {
	p, err := NewAssembler(PolicyCategory).Assemble(nil, models.RequestConfig{})
	require.NoError(t, err)
	require.Len(t, p.Parts, 1)
	assert.Equal(t, "Style:none,Event:none,Weather:none", p.Parts[0].Text)
}

func TestAssemble_BlankFieldsAreNeverSent(t *testing.T) {
	p, err := NewAssembler(PolicyCategory).Assemble(nil, models.RequestConfig{Style: "  ", Event: "wedding", Weather: ""})
	require.NoError(t, err)
	assert.Equal(t, "Style:none,Event:wedding,Weather:none", p.Parts[0].Text)
}

func TestAssemble_RejectsNonImage(t *testing.T) {
	images := []models.UploadedImage{
		image("top_1.jpg"),
		{Filename: "bottom_2.pdf", MimeType: "application/pdf", Data: []byte("%PDF")},
	}

	p, err := NewAssembler(PolicyCategory).Assemble(images, models.RequestConfig{})
	assert.Nil(t, p)

	var validationErr *apperror.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Message, "only image uploads are allowed")
}

func TestAssemble_RejectsEmptyImage(t *testing.T) {
	_, err := NewAssembler(PolicyCategory).Assemble([]models.UploadedImage{{Filename: "top_1.png", MimeType: "image/png"}}, models.RequestConfig{})

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestAssemble_RejectsTooManyImages(t *testing.T) {
	images := make([]models.UploadedImage, MaxImages+1)
	for i := range images {
		images[i] = image(fmt.Sprintf("top_%d.jpg", i))
	}

	_, err := NewAssembler(PolicyCategory).Assemble(images, models.RequestConfig{})

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestAssemble_MalformedFilenameUnderCategoryPolicy(t *testing.T) {
	_, err := NewAssembler(PolicyCategory).Assemble([]models.UploadedImage{image("shirt.jpg")}, models.RequestConfig{})

	var validationErr *apperror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestAssemble_VerbatimPolicy(t *testing.T) {
	p, err := NewAssembler(PolicyVerbatim).Assemble([]models.UploadedImage{image("shirt.jpg")}, models.RequestConfig{})
	require.NoError(t, err)
	require.Len(t, p.Parts, 3)
	assert.Equal(t, "ID:shirt.jpg", p.Parts[0].Text)
}

func TestAssemble_AttachesSchema(t *testing.T) {
	p, err := NewAssembler("").Assemble(nil, models.RequestConfig{})
	require.NoError(t, err)

	require.NotNil(t, p.Schema)
	assert.Equal(t, genai.TypeObject, p.Schema.Type)
	assert.ElementsMatch(t, []string{"top", "bottom", "response"}, p.Schema.Required)
	for _, field := range []string{"top", "bottom", "response"} {
		require.Contains(t, p.Schema.Properties, field)
		assert.Equal(t, genai.TypeString, p.Schema.Properties[field].Type)
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		policy   IDPolicy
		want     ImageRef
		wantErr  bool
	}{
		{"category and id", "top_12.jpg", PolicyCategory, ImageRef{Category: "top", ID: "12"}, false},
		{"id keeps later separators", "bottom_a_b.png", PolicyCategory, ImageRef{Category: "bottom", ID: "a_b"}, false},
		{"no extension", "top_7", PolicyCategory, ImageRef{Category: "top", ID: "7"}, false},
		{"directory stripped", "uploads/top_3.jpg", PolicyCategory, ImageRef{Category: "top", ID: "3"}, false},
		{"multiple dots", "top_3.final.jpg", PolicyCategory, ImageRef{Category: "top", ID: "3.final"}, false},
		{"missing separator", "top12.jpg", PolicyCategory, ImageRef{}, true},
		{"empty category", "_12.jpg", PolicyCategory, ImageRef{}, true},
		{"empty id", "top_.jpg", PolicyCategory, ImageRef{}, true},
		{"empty filename", "", PolicyCategory, ImageRef{}, true},
		{"verbatim", "top12.jpg", PolicyVerbatim, ImageRef{ID: "top12.jpg"}, false},
		{"verbatim empty", " ", PolicyVerbatim, ImageRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilename(tt.filename, tt.policy)
			if tt.wantErr {
				var validationErr *apperror.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImageRefLabel(t *testing.T) {
	assert.Equal(t, "ID:12", ImageRef{ID: "12"}.Label())
	assert.Equal(t, "Category:top,ID:12", ImageRef{Category: "top", ID: "12"}.Label())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("VERBATIM")
	require.NoError(t, err)
	assert.Equal(t, PolicyVerbatim, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyCategory, p)

	_, err = ParsePolicy("split")
	assert.Error(t, err)
}
