// Package payload turns uploaded wardrobe images and the request config into
// the ordered content parts and response schema sent to the provider.
package payload

import (
	"fmt"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"wardrobe-matcher/apperror"
	"wardrobe-matcher/models"
)

const (
	// MaxImages is the most images accepted in one request.
	MaxImages = 10
	// FilenameSeparator splits "<category>_<id>.<ext>" filenames.
	FilenameSeparator = "_"

	imageField = "wardrobe"
)

// IDPolicy selects how an image identifier is derived from its filename.
type IDPolicy string

const (
	// PolicyVerbatim uses the whole base filename as the id.
	PolicyVerbatim IDPolicy = "verbatim"
	// PolicyCategory splits the filename into a category and an id.
	PolicyCategory IDPolicy = "category"
)

// ParsePolicy converts a config string into an IDPolicy
func ParsePolicy(s string) (IDPolicy, error) {
	switch IDPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyVerbatim:
		return PolicyVerbatim, nil
	case PolicyCategory, "":
		return PolicyCategory, nil
	default:
		return "", fmt.Errorf("unknown id policy %q", s)
	}
}

// ImageRef is the identity of an image as shown to the provider.
type ImageRef struct {
	Category string
	ID       string
}

// Label is the text part placed right before the image it names.
func (r ImageRef) Label() string {
	if r.Category == "" {
		return "ID:" + r.ID
	}
	return fmt.Sprintf("Category:%s,ID:%s", r.Category, r.ID)
}

// ParseFilename derives an ImageRef from a filename according to policy.
//
// With PolicyCategory the base name must look like "<category>_<id>.<ext>":
// the category is everything before the first separator and the id is the
// rest up to the last dot, e.g. "top_12.jpg" gives {top 12} and
// "bottom_a_b.png" gives {bottom a_b}. Missing separator, empty category or
// empty id is a ValidationError.
func ParseFilename(filename string, policy IDPolicy) (ImageRef, error) {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return ImageRef{}, apperror.NewValidation(imageField, "empty filename")
	}

	if policy == PolicyVerbatim {
		return ImageRef{ID: base}, nil
	}

	category, rest, found := strings.Cut(base, FilenameSeparator)
	if !found {
		return ImageRef{}, apperror.NewValidation(imageField,
			"filename %q must look like <category>%s<id>.<ext>", base, FilenameSeparator)
	}
	id := strings.TrimSuffix(rest, filepath.Ext(rest))
	if category == "" || id == "" {
		return ImageRef{}, apperror.NewValidation(imageField,
			"filename %q must have a non-empty category and id", base)
	}
	return ImageRef{Category: category, ID: id}, nil
}

// ConfigText renders the trailing config part. Blank fields become "none".
func ConfigText(cfg models.RequestConfig) string {
	cfg = cfg.WithDefaults()
	return fmt.Sprintf("Style:%s,Event:%s,Weather:%s", cfg.Style, cfg.Event, cfg.Weather)
}

// Payload is everything the provider needs for one analysis call.
type Payload struct {
	Parts  []*genai.Part
	Schema *genai.Schema
}

// Assembler builds provider payloads with a fixed id policy.
type Assembler struct {
	policy IDPolicy
}

// NewAssembler creates an Assembler. An empty policy means PolicyCategory.
func NewAssembler(policy IDPolicy) *Assembler {
	if policy == "" {
		policy = PolicyCategory
	}
	return &Assembler{policy: policy}
}

// Policy returns the id policy in use
func (a *Assembler) Policy() IDPolicy {
	return a.policy
}

// Assemble validates every image first, then emits a label part and an
// inline image part per image followed by one config part. Zero images is
// valid and yields the config part only.
func (a *Assembler) Assemble(images []models.UploadedImage, cfg models.RequestConfig) (*Payload, error) {
	if len(images) > MaxImages {
		return nil, apperror.NewValidation(imageField, "at most %d images are allowed, got %d", MaxImages, len(images))
	}

	refs := make([]ImageRef, len(images))
	for i, img := range images {
		if err := ValidateImage(img); err != nil {
			return nil, err
		}
		ref, err := ParseFilename(img.Filename, a.policy)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}

	parts := make([]*genai.Part, 0, 2*len(images)+1)
	for i, img := range images {
		parts = append(parts,
			genai.NewPartFromText(refs[i].Label()),
			genai.NewPartFromBytes(img.Data, img.MimeType),
		)
	}
	parts = append(parts, genai.NewPartFromText(ConfigText(cfg)))

	return &Payload{Parts: parts, Schema: AnalysisSchema()}, nil
}

// ValidateImage rejects anything that is not a non-empty image upload.
func ValidateImage(img models.UploadedImage) error {
	if !strings.HasPrefix(strings.ToLower(img.MimeType), "image/") {
		return apperror.NewValidation(imageField, "%s: only image uploads are allowed (got %q)", img.Filename, img.MimeType)
	}
	if len(img.Data) == 0 {
		return apperror.NewValidation(imageField, "%s: image is empty", img.Filename)
	}
	return nil
}
