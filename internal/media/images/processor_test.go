package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/londonmakers/makers-server/internal/logger"
)

// setupTestProcessor creates a Processor backed by temporary local storage.
func setupTestProcessor(t *testing.T) *Processor {
	t.Helper()

	storage, err := NewLocalStorage(t.TempDir(), "/images")
	require.NoError(t, err)

	log := logger.New(logger.Config{Level: slog.LevelDebug})
	return NewProcessor(storage, log.Logger)
}

// makeTestPNG renders a small gradient PNG so blurhash has something to chew on.
func makeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / width), G: uint8(y * 255 / height), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func makeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x % 256), B: uint8(y % 256), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestProcessor_Process_PNG(t *testing.T) {
	p := setupTestProcessor(t)
	ctx := context.Background()

	data := makeTestPNG(t, 200, 150)

	result, err := p.Process(ctx, data)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "img-"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "/images/"+result.Key, result.URL)
	assert.Equal(t, "image/png", result.ContentType)
	assert.Equal(t, 200, result.Width)
	assert.Equal(t, 150, result.Height)
	assert.NotEmpty(t, result.BlurHash)

	// Bytes round-trip through the backend.
	stored, err := p.Get(ctx, result.Key)
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestProcessor_Process_JPEG(t *testing.T) {
	p := setupTestProcessor(t)

	result, err := p.Process(context.Background(), makeTestJPEG(t, 100, 100))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(result.Key, ".jpg"))
	assert.Equal(t, "image/jpeg", result.ContentType)
}

func TestProcessor_Process_TooLarge(t *testing.T) {
	p := setupTestProcessor(t)

	data := make([]byte, MaxUploadSize+1)
	_, err := p.Process(context.Background(), data)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestProcessor_Process_UnsupportedFormat(t *testing.T) {
	p := setupTestProcessor(t)

	_, err := p.Process(context.Background(), []byte("this is plain text, not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestProcessor_Process_CorruptImage(t *testing.T) {
	p := setupTestProcessor(t)

	// Valid PNG magic bytes followed by garbage.
	data := makeTestPNG(t, 10, 10)[:20]
	_, err := p.Process(context.Background(), data)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestProcessor_Process_Empty(t *testing.T) {
	p := setupTestProcessor(t)

	_, err := p.Process(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestProcessor_Delete(t *testing.T) {
	p := setupTestProcessor(t)
	ctx := context.Background()

	result, err := p.Process(ctx, makeTestPNG(t, 50, 50))
	require.NoError(t, err)

	require.NoError(t, p.Delete(ctx, result.Key))

	_, err = p.Get(ctx, result.Key)
	assert.Error(t, err)

	// Idempotent.
	assert.NoError(t, p.Delete(ctx, result.Key))
}

func TestProcessor_UniqueKeys(t *testing.T) {
	p := setupTestProcessor(t)
	ctx := context.Background()

	data := makeTestPNG(t, 50, 50)

	first, err := p.Process(ctx, data)
	require.NoError(t, err)
	second, err := p.Process(ctx, data)
	require.NoError(t, err)

	// Same bytes, distinct keys - uploads never overwrite each other.
	assert.NotEqual(t, first.Key, second.Key)
}

func TestComputeBlurHash(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 100, B: uint8(y % 256), A: 255})
		}
	}

	hash, err := ComputeBlurHash(img)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Deterministic for the same input.
	again, err := ComputeBlurHash(img)
	require.NoError(t, err)
	assert.Equal(t, hash, again)
}
